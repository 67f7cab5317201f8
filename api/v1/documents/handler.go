package documents

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
	"agent_console/internal/model"
	"agent_console/internal/service"
)

// Handler handles knowledge-store document requests
type Handler struct {
	docs *service.DocumentService
}

// NewHandler creates a new document handler
func NewHandler(docs *service.DocumentService) *Handler {
	return &Handler{docs: docs}
}

// List handles GET /api/documents
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	f := service.DocumentFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	}
	items, total, err := h.docs.List(f)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OKItems(c, items, total, f.Limit, f.Offset)
}

// Get handles GET /api/documents/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	doc, err := h.docs.Get(id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, doc)
}

// CreateRequest is the body for POST /api/documents
type CreateRequest struct {
	Title     string   `json:"title" binding:"required"`
	Type      string   `json:"type" binding:"required"`
	Content   string   `json:"content" binding:"required"`
	Tags      []string `json:"tags"`
	CreatedBy string   `json:"createdBy"`
}

// Create handles POST /api/documents
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	doc := &model.Document{
		Title:     req.Title,
		Type:      req.Type,
		Content:   req.Content,
		Tags:      req.Tags,
		CreatedBy: req.CreatedBy,
	}
	doc, err := h.docs.Create(doc)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, doc)
}

// Update handles PUT /api/documents/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	var patch service.DocumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	doc, err := h.docs.Update(id, patch)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, doc)
}

// Delete handles DELETE /api/documents/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	if err := h.docs.Delete(id); err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, nil)
}

// LinkTask handles POST /api/documents/:id/link/:taskId
func (h *Handler) LinkTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	taskID, err := strconv.Atoi(c.Param("taskId"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("taskId must be numeric"))
		return
	}
	doc, err := h.docs.LinkTask(id, taskID)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, doc)
}
