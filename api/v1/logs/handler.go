package logs

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
	"agent_console/internal/service"
)

// Handler handles audit log related requests
type Handler struct {
	logs *service.LogService
}

// NewHandler creates a new log handler
func NewHandler(logs *service.LogService) *Handler {
	return &Handler{logs: logs}
}

// List handles GET /api/logs
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	f := service.LogFilter{
		Actor:  c.Query("actor"),
		Action: c.Query("action"),
		Limit:  limit,
		Offset: offset,
	}
	if v := c.Query("taskId"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			f.TaskID = &id
		}
	}
	if v := c.Query("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.StartDate = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.EndDate = &t
		}
	}

	items, total, err := h.logs.List(f)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OKItems(c, items, total, f.Limit, f.Offset)
}

// Get handles GET /api/logs/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	entry, err := h.logs.Get(id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, entry)
}

// CreateRequest is the body for POST /api/logs
type CreateRequest struct {
	Actor            string                 `json:"actor" binding:"required"`
	Action           string                 `json:"action" binding:"required"`
	ReasoningSummary string                 `json:"reasoningSummary"`
	TaskID           *int                   `json:"taskId"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// Create handles POST /api/logs
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	entry, err := h.logs.Append(req.Actor, req.Action, req.ReasoningSummary, req.TaskID, req.Metadata)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, entry)
}

// StatsSummary handles GET /api/logs/stats/summary
func (h *Handler) StatsSummary(c *gin.Context) {
	var start, end *time.Time
	if v := c.Query("startDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			start = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			end = &t
		}
	}
	byAction, byActor, err := h.logs.StatsSummary(start, end)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, gin.H{"byAction": byAction, "byActor": byActor})
}

// Update handles PUT /api/logs/:id. Always rejected.
func (h *Handler) Update(c *gin.Context) {
	httpx.FailErr(c, httpx.ErrAppendOnly())
}

// Delete handles DELETE /api/logs/:id. Always rejected.
func (h *Handler) Delete(c *gin.Context) {
	httpx.FailErr(c, httpx.ErrAppendOnly())
}
