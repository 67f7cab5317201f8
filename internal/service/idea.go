package service

import (
	"errors"

	"gorm.io/gorm"

	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

// IdeaService owns the idea backlog. No events: the board polls.
type IdeaService struct {
	db *gorm.DB
}

// NewIdeaService creates a new IdeaService
func NewIdeaService(db *gorm.DB) *IdeaService {
	return &IdeaService{db: db}
}

// List returns ideas by priority, recent first within a priority.
func (s *IdeaService) List() ([]model.Idea, error) {
	var ideas []model.Idea
	if err := s.db.Order("priority DESC, created_at DESC").Find(&ideas).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to query ideas", err)
	}
	return ideas, nil
}

// Create inserts an idea with the default backlog status.
func (s *IdeaService) Create(idea *model.Idea) (*model.Idea, error) {
	if idea.Title == "" {
		return nil, httpx.ErrParamMissing("title is required")
	}
	if idea.Status == "" {
		idea.Status = "idea"
	}
	if err := s.db.Create(idea).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to create idea", err)
	}
	return idea, nil
}

// IdeaPatch carries the fields a caller wants to overwrite.
type IdeaPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *int    `json:"priority"`
}

// Update merges the patch into the idea.
func (s *IdeaService) Update(id int, patch IdeaPatch) (*model.Idea, error) {
	var idea model.Idea
	if err := s.db.First(&idea, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.ErrNotFound("idea not found")
		}
		return nil, httpx.ErrDatabaseError("failed to query idea", err)
	}

	if patch.Title != nil {
		idea.Title = *patch.Title
	}
	if patch.Description != nil {
		idea.Description = *patch.Description
	}
	if patch.Status != nil {
		idea.Status = *patch.Status
	}
	if patch.Priority != nil {
		idea.Priority = *patch.Priority
	}

	if err := s.db.Save(&idea).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to update idea", err)
	}
	return &idea, nil
}
