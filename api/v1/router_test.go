package v1

import (
	"testing"

	"github.com/gin-gonic/gin"

	"agent_console/internal/config"
	"agent_console/internal/events"
)

func TestRouterRegistersExpectedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(nil, &config.Config{}, events.NopBus{})

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"PATCH /api/tasks/:id/status",
		"PATCH /api/tasks/:id/assign",
		"PATCH /api/agents/:id/status",
		"PATCH /api/agents/:id/metrics",
		"POST /api/agents/:id/assign-task",
		"POST /api/agents/:id/complete-task",
		"GET /api/system",
		"PUT /api/system",
		"GET /api/system/history",
		"GET /api/system/health",
		"POST /internal/broadcast",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %q not registered", route)
		}
	}

	stale := []string{
		"PUT /api/tasks/:id/status",
		"POST /api/agents/:id/assign",
		"POST /api/agents/:id/complete",
		"GET /api/system/state",
		"PUT /api/system/state",
	}
	for _, route := range stale {
		if registered[route] {
			t.Errorf("route %q should not be registered", route)
		}
	}
}
