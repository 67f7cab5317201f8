package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type recordingBus struct {
	events []string
}

func (b *recordingBus) Emit(event string, payload interface{}) {
	b.events = append(b.events, event)
}
func (b *recordingBus) EmitToRoom(room, event string, payload interface{}) {}
func (b *recordingBus) ConnectionCount() int                              { return 3 }

func newTestRouter(bus *recordingBus) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/internal/broadcast", Handler(bus))
	return r
}

func TestBroadcastReEmits(t *testing.T) {
	bus := &recordingBus{}
	r := newTestRouter(bus)

	body := `{"event":"CORE_DECISION_MADE","data":{"decision":"ship it"}}`
	req := httptest.NewRequest(http.MethodPost, "/internal/broadcast", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(bus.events) != 1 || bus.events[0] != "CORE_DECISION_MADE" {
		t.Errorf("expected one CORE_DECISION_MADE emit, got %v", bus.events)
	}
	if !strings.Contains(w.Body.String(), `"clients":3`) {
		t.Errorf("expected client count in response, got %s", w.Body.String())
	}
}

func TestBroadcastRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing event", `{"data":{"x":1}}`},
		{"missing data", `{"event":"TASK_CREATED"}`},
		{"empty body", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &recordingBus{}
			r := newTestRouter(bus)

			req := httptest.NewRequest(http.MethodPost, "/internal/broadcast", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			if len(bus.events) != 0 {
				t.Errorf("expected no emits, got %v", bus.events)
			}
		})
	}
}
