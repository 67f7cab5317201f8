package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"agent_console/internal/events"
	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

// DocumentService owns the knowledge store.
type DocumentService struct {
	db  *gorm.DB
	bus events.Bus
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(db *gorm.DB, bus events.Bus) *DocumentService {
	return &DocumentService{db: db, bus: bus}
}

// DocumentFilter narrows List queries. Search matches a substring of
// the title or content.
type DocumentFilter struct {
	Type   string
	Search string
	Limit  int
	Offset int
}

// List returns documents newest first.
func (s *DocumentService) List(f DocumentFilter) ([]model.Document, int64, error) {
	query := s.db.Model(&model.Document{})
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to count documents", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var docs []model.Document
	if err := query.Order("updated_at DESC").Offset(f.Offset).Limit(limit).Find(&docs).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to query documents", err)
	}
	return docs, total, nil
}

// Get returns one document by id.
func (s *DocumentService) Get(id int) (*model.Document, error) {
	var doc model.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.ErrNotFound("document not found")
		}
		return nil, httpx.ErrDatabaseError("failed to query document", err)
	}
	return &doc, nil
}

// Create inserts a document at version 1.
func (s *DocumentService) Create(doc *model.Document) (*model.Document, error) {
	if doc.Title == "" || doc.Content == "" {
		return nil, httpx.ErrParamMissing("title and content are required")
	}
	if !model.ValidDocType(doc.Type) {
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown document type %q", doc.Type))
	}
	doc.Version = 1

	if err := s.db.Create(doc).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to create document", err)
	}

	s.bus.Emit(events.DocumentCreated, doc)
	return doc, nil
}

// DocumentPatch carries the fields a caller wants to overwrite.
type DocumentPatch struct {
	Title   *string   `json:"title"`
	Type    *string   `json:"type"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// Update merges the patch and bumps the version counter.
func (s *DocumentService) Update(id int, patch DocumentPatch) (*model.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Type != nil {
		if !model.ValidDocType(*patch.Type) {
			return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown document type %q", *patch.Type))
		}
		doc.Type = *patch.Type
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}
	if patch.Tags != nil {
		doc.Tags = *patch.Tags
	}
	doc.Version++

	if err := s.db.Save(doc).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to update document", err)
	}

	s.bus.Emit(events.DocumentUpdated, doc)
	return doc, nil
}

// Delete removes the document.
func (s *DocumentService) Delete(id int) error {
	doc, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&model.Document{}, doc.ID).Error; err != nil {
		return httpx.ErrDatabaseError("failed to delete document", err)
	}
	s.bus.Emit(events.DocumentDeleted, doc)
	return nil
}

// LinkTask attaches a task to the document. Linking the same task
// twice is a no-op, not an error.
func (s *DocumentService) LinkTask(id, taskID int) (*model.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&model.Task{}).Where("id = ?", taskID).Count(&count).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to query task", err)
	}
	if count == 0 {
		return nil, httpx.ErrNotFound("task not found")
	}

	if !doc.LinkTask(taskID) {
		return doc, nil
	}
	if err := s.db.Save(doc).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to update document", err)
	}

	s.bus.Emit(events.DocumentUpdated, doc)
	return doc, nil
}
