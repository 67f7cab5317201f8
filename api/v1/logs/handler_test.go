package logs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
)

func TestMutationsAlwaysRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(nil)
	r.PUT("/api/logs/:id", h.Update)
	r.DELETE("/api/logs/:id", h.Delete)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/logs/1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("%s: expected 409, got %d", method, w.Code)
		}
		var resp httpx.Response
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: bad response body: %v", method, err)
		}
		if resp.Code != httpx.CodeAppendOnly {
			t.Errorf("%s: expected code %d, got %d", method, httpx.CodeAppendOnly, resp.Code)
		}
	}
}
