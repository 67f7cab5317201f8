package service

import (
	"errors"

	"gorm.io/gorm"

	"agent_console/internal/events"
	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

// LearningService owns committed lessons.
type LearningService struct {
	db   *gorm.DB
	bus  events.Bus
	logs *LogService
}

// NewLearningService creates a new LearningService
func NewLearningService(db *gorm.DB, bus events.Bus, logs *LogService) *LearningService {
	return &LearningService{db: db, bus: bus, logs: logs}
}

// List returns learnings newest first, optionally filtered by category.
func (s *LearningService) List(category string, limit, offset int) ([]model.Learning, int64, error) {
	query := s.db.Model(&model.Learning{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to count learnings", err)
	}
	if limit <= 0 {
		limit = 50
	}

	var learnings []model.Learning
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&learnings).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to query learnings", err)
	}
	return learnings, total, nil
}

// Get returns one learning by id.
func (s *LearningService) Get(id int) (*model.Learning, error) {
	var learning model.Learning
	if err := s.db.First(&learning, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.ErrNotFound("learning not found")
		}
		return nil, httpx.ErrDatabaseError("failed to query learning", err)
	}
	return &learning, nil
}

// Create commits a learning and writes the LEARNING_COMMITTED audit
// record in the same transaction.
func (s *LearningService) Create(learning *model.Learning) (*model.Learning, error) {
	if learning.Description == "" {
		return nil, httpx.ErrParamMissing("description is required")
	}
	learning.Version = 1

	var entry *model.Log
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(learning).Error; err != nil {
			return httpx.ErrDatabaseError("failed to create learning", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "core", model.ActionLearningCommitted,
			learning.Description, nil,
			map[string]interface{}{"learningId": learning.ID, "category": learning.Category})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(events.LearningCommitted, learning)
	s.bus.Emit(events.LogCreated, entry)
	return learning, nil
}

// LearningPatch carries the fields a caller wants to overwrite.
type LearningPatch struct {
	Description     *string   `json:"description"`
	ImpactSummary   *string   `json:"impactSummary"`
	AffectedAgents  *[]string `json:"affectedAgents"`
	ConfidenceScore *int      `json:"confidenceScore"`
	Category        *string   `json:"category"`
}

// Update merges the patch and bumps the version counter.
func (s *LearningService) Update(id int, patch LearningPatch) (*model.Learning, error) {
	learning, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		learning.Description = *patch.Description
	}
	if patch.ImpactSummary != nil {
		learning.ImpactSummary = *patch.ImpactSummary
	}
	if patch.AffectedAgents != nil {
		learning.AffectedAgents = *patch.AffectedAgents
	}
	if patch.ConfidenceScore != nil {
		learning.ConfidenceScore = *patch.ConfidenceScore
	}
	if patch.Category != nil {
		learning.Category = *patch.Category
	}
	learning.Version++

	if err := s.db.Save(learning).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to update learning", err)
	}

	s.bus.Emit(events.LearningUpdated, learning)
	return learning, nil
}

// Delete removes the learning.
func (s *LearningService) Delete(id int) error {
	learning, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&model.Learning{}, learning.ID).Error; err != nil {
		return httpx.ErrDatabaseError("failed to delete learning", err)
	}
	s.bus.Emit(events.LearningDeleted, learning)
	return nil
}
