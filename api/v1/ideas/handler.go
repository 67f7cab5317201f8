package ideas

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
	"agent_console/internal/model"
	"agent_console/internal/service"
)

// Handler handles idea backlog requests
type Handler struct {
	ideas *service.IdeaService
}

// NewHandler creates a new idea handler
func NewHandler(ideas *service.IdeaService) *Handler {
	return &Handler{ideas: ideas}
}

// List handles GET /api/ideas
func (h *Handler) List(c *gin.Context) {
	items, err := h.ideas.List()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, items)
}

// CreateRequest is the body for POST /api/ideas
type CreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
}

// Create handles POST /api/ideas
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	idea := &model.Idea{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}
	idea, err := h.ideas.Create(idea)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, idea)
}

// Update handles PUT /api/ideas/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	var patch service.IdeaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	idea, err := h.ideas.Update(id, patch)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, idea)
}
