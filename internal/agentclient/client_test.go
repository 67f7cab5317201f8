package agentclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/agents/researcher" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"message":"success","data":{"id":7,"name":"researcher","status":"idle"}}`))
	}))
	defer srv.Close()

	agent, err := NewClient(srv.URL, "").GetAgent("researcher")
	if err != nil {
		t.Fatalf("GetAgent: %v", err)
	}
	if agent.ID != 7 || agent.Name != "researcher" || agent.Status != "idle" {
		t.Errorf("unexpected agent %+v", agent)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":3001,"message":"agent not found","data":null}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").GetAgent("ghost")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "agent not found (code=3001)" {
		t.Errorf("unexpected error %q", got)
	}
}

func TestClientCompletesNamedTask(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"message":"success","data":{"id":7,"name":"researcher","status":"idle"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").CompleteTask("researcher", 42, "done", true, "")
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/agents/researcher/complete-task" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotBody["taskId"] != float64(42) {
		t.Errorf("expected taskId 42 in body, got %v", gotBody["taskId"])
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":0,"message":"success","data":{"key":"system_state","currentMode":"executing"}}`))
	}))
	defer srv.Close()

	mode := "executing"
	state, err := NewClient(srv.URL, "secret-token").UpdateState(StatePatch{CurrentMode: &mode})
	if err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
	if state.CurrentMode != "executing" {
		t.Errorf("unexpected state %+v", state)
	}
}
