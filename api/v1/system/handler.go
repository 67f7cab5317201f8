package system

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
	"agent_console/internal/service"
)

// Handler handles system state and health requests
type Handler struct {
	state *service.StateService
	stats *service.StatsService
}

// NewHandler creates a new system handler
func NewHandler(state *service.StateService, stats *service.StatsService) *Handler {
	return &Handler{state: state, stats: stats}
}

// GetState handles GET /api/system
func (h *Handler) GetState(c *gin.Context) {
	state, err := h.state.GetOrCreate()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, state)
}

// UpdateState handles PUT /api/system
func (h *Handler) UpdateState(c *gin.Context) {
	var patch service.StatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	state, err := h.state.Update(patch)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, state)
}

// History handles GET /api/system/history
func (h *Handler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.state.History(limit)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, logs)
}

// Health handles GET /api/system/health
func (h *Handler) Health(c *gin.Context) {
	report, err := h.stats.Health()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, report)
}
