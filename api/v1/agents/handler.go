package agents

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
	"agent_console/internal/model"
	"agent_console/internal/service"
)

// Handler handles agent related requests
type Handler struct {
	agents *service.AgentService
}

// NewHandler creates a new agent handler
func NewHandler(agents *service.AgentService) *Handler {
	return &Handler{agents: agents}
}

// List handles GET /api/agents
func (h *Handler) List(c *gin.Context) {
	items, err := h.agents.List()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, items)
}

// Get handles GET /api/agents/:id (numeric id or name)
func (h *Handler) Get(c *gin.Context) {
	agent, err := h.agents.Get(c.Param("id"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, agent)
}

// CreateRequest is the body for POST /api/agents
type CreateRequest struct {
	Name         string   `json:"name" binding:"required"`
	Role         string   `json:"role" binding:"required"`
	Type         string   `json:"type"`
	Capabilities []string `json:"capabilities"`
	Tools        []string `json:"tools"`
}

// Create handles POST /api/agents
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	agent := &model.Agent{
		Name:         req.Name,
		Role:         req.Role,
		Type:         req.Type,
		Capabilities: req.Capabilities,
		Tools:        req.Tools,
	}
	agent, err := h.agents.Create(agent)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, agent)
}

// Delete handles DELETE /api/agents/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.agents.Delete(c.Param("id")); err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, nil)
}

// StatusRequest is the body for PATCH /api/agents/:id/status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus handles PATCH /api/agents/:id/status
func (h *Handler) SetStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	agent, err := h.agents.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, agent)
}

// UpdateMetrics handles PATCH /api/agents/:id/metrics
func (h *Handler) UpdateMetrics(c *gin.Context) {
	var patch service.MetricsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	agent, err := h.agents.UpdateMetrics(c.Param("id"), patch)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, agent)
}

// Initialize handles POST /api/agents/initialize
func (h *Handler) Initialize(c *gin.Context) {
	created, err := h.agents.Initialize()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, gin.H{"created": created, "count": len(created)})
}

// History handles GET /api/agents/:id/history
func (h *Handler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	history, err := h.agents.History(c.Param("id"), limit)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, history)
}

// AssignRequest is the body for POST /api/agents/:id/assign-task
type AssignRequest struct {
	TaskID    int    `json:"taskId"`
	TaskTitle string `json:"taskTitle"`
}

// Assign handles POST /api/agents/:id/assign-task
func (h *Handler) Assign(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	if req.TaskID <= 0 && req.TaskTitle == "" {
		httpx.FailErr(c, httpx.ErrParamMissing("taskId or taskTitle is required"))
		return
	}
	agent, err := h.agents.AssignTask(c.Param("id"), req.TaskID, req.TaskTitle)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, agent)
}

// CompleteRequest is the body for POST /api/agents/:id/complete-task.
// TaskID selects which open engagement to close; without it the most
// recent one is.
type CompleteRequest struct {
	TaskID  *int   `json:"taskId"`
	Output  string `json:"output"`
	Success *bool  `json:"success" binding:"required"`
	Error   string `json:"error"`
}

// Complete handles POST /api/agents/:id/complete-task
func (h *Handler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	agent, err := h.agents.CompleteTask(c.Param("id"), req.TaskID, req.Output, *req.Success, req.Error)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, agent)
}

// Stats handles GET /api/agents/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.agents.Stats()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, stats)
}
