package tasks

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
	"agent_console/internal/model"
	"agent_console/internal/service"
)

// Handler handles task related requests
type Handler struct {
	tasks *service.TaskService
}

// NewHandler creates a new task handler
func NewHandler(tasks *service.TaskService) *Handler {
	return &Handler{tasks: tasks}
}

// List handles GET /api/tasks
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	f := service.TaskFilter{
		Status:     c.Query("status"),
		AssignedTo: c.Query("assignedTo"),
		Source:     c.Query("source"),
		Limit:      limit,
		Offset:     offset,
	}

	items, total, err := h.tasks.List(f)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OKItems(c, items, total, f.Limit, f.Offset)
}

// Get handles GET /api/tasks/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	task, err := h.tasks.Get(id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, task)
}

// CreateRequest is the body for POST /api/tasks
type CreateRequest struct {
	Title         string             `json:"title" binding:"required"`
	Description   string             `json:"description"`
	Status        string             `json:"status"`
	Source        string             `json:"source"`
	AssignedTo    string             `json:"assignedTo"`
	ParentTaskID  *int               `json:"parentTaskId"`
	DependencyIDs []int              `json:"dependencyIds"`
	Metadata      model.TaskMetadata `json:"metadata"`
}

// Create handles POST /api/tasks
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}

	task := &model.Task{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Source:        req.Source,
		AssignedTo:    req.AssignedTo,
		ParentTaskID:  req.ParentTaskID,
		DependencyIDs: req.DependencyIDs,
		Metadata:      req.Metadata,
	}
	task, err := h.tasks.Create(task)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, task)
}

// StatusRequest is the body for PATCH /api/tasks/:id/status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// SetStatus handles PATCH /api/tasks/:id/status
func (h *Handler) SetStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	task, err := h.tasks.SetStatus(id, req.Status, req.Reason)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, task)
}

// AssignRequest is the body for PATCH /api/tasks/:id/assign
type AssignRequest struct {
	AgentID string `json:"agentId" binding:"required"`
}

// Assign handles PATCH /api/tasks/:id/assign
func (h *Handler) Assign(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	task, err := h.tasks.Assign(id, req.AgentID)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, task)
}

// ProgressRequest is the body for POST /api/tasks/:id/progress
type ProgressRequest struct {
	Text string `json:"text" binding:"required"`
}

// Progress handles POST /api/tasks/:id/progress
func (h *Handler) Progress(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	task, err := h.tasks.Progress(id, req.Text)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, task)
}

// OutputRequest is the body for PUT /api/tasks/:id/output
type OutputRequest struct {
	OutputFile string `json:"outputFile"`
	OutputType string `json:"outputType"`
	AgentName  string `json:"agentName"`
}

// SetOutput handles PUT /api/tasks/:id/output
func (h *Handler) SetOutput(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	var req OutputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	task, err := h.tasks.SetOutput(id, req.OutputFile, req.OutputType, req.AgentName)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, task)
}

// Delete handles DELETE /api/tasks/:id (soft delete, marks failed)
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	task, err := h.tasks.SoftDelete(id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, task)
}

// Graph handles GET /api/tasks/:id/graph
func (h *Handler) Graph(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	graph, err := h.tasks.Graph(id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, graph)
}
