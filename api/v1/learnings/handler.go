package learnings

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agent_console/internal/httpx"
	"agent_console/internal/learningfiles"
	"agent_console/internal/model"
	"agent_console/internal/service"
)

// Handler handles learning related requests, both the database-backed
// records and the markdown files on disk.
type Handler struct {
	learnings *service.LearningService
	files     *learningfiles.Reader
}

// NewHandler creates a new learning handler
func NewHandler(learnings *service.LearningService, files *learningfiles.Reader) *Handler {
	return &Handler{learnings: learnings, files: files}
}

// List handles GET /api/learnings
func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, total, err := h.learnings.List(c.Query("category"), limit, offset)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OKItems(c, items, total, limit, offset)
}

// Get handles GET /api/learnings/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	learning, err := h.learnings.Get(id)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, learning)
}

// CreateRequest is the body for POST /api/learnings
type CreateRequest struct {
	Description     string   `json:"description" binding:"required"`
	TriggerEventID  *int     `json:"triggerEventId"`
	AffectedAgents  []string `json:"affectedAgents"`
	ImpactSummary   string   `json:"impactSummary"`
	ConfidenceScore int      `json:"confidenceScore"`
	Category        string   `json:"category"`
}

// Create handles POST /api/learnings
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	learning := &model.Learning{
		Description:     req.Description,
		TriggerEventID:  req.TriggerEventID,
		AffectedAgents:  req.AffectedAgents,
		ImpactSummary:   req.ImpactSummary,
		ConfidenceScore: req.ConfidenceScore,
		Category:        req.Category,
	}
	learning, err := h.learnings.Create(learning)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.Created(c, learning)
}

// Update handles PUT /api/learnings/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	var patch service.LearningPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}
	learning, err := h.learnings.Update(id, patch)
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, learning)
}

// Delete handles DELETE /api/learnings/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("id must be numeric"))
		return
	}
	if err := h.learnings.Delete(id); err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, nil)
}

// ListFiles handles GET /api/learnings/files
func (h *Handler) ListFiles(c *gin.Context) {
	files, err := h.files.List()
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	httpx.OK(c, files)
}

// GetFile handles GET /api/learnings/files/:filename
func (h *Handler) GetFile(c *gin.Context) {
	raw, err := h.files.Read(c.Param("filename"))
	if err != nil {
		httpx.Fail(c, err)
		return
	}
	c.Data(200, "text/markdown; charset=utf-8", raw)
}
