package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"agent_console/internal/events"
	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

// StateService manages the singleton system state row.
type StateService struct {
	db   *gorm.DB
	bus  events.Bus
	logs *LogService
}

// NewStateService creates a new StateService
func NewStateService(db *gorm.DB, bus events.Bus, logs *LogService) *StateService {
	return &StateService{db: db, bus: bus, logs: logs}
}

// GetOrCreate returns the singleton state, creating an idle row on
// first access.
func (s *StateService) GetOrCreate() (*model.SystemState, error) {
	var state model.SystemState
	err := s.db.Where("state_key = ?", model.SystemStateKey).First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httpx.ErrDatabaseError("failed to query system state", err)
	}

	state = model.SystemState{
		Key:         model.SystemStateKey,
		CurrentMode: model.ModeIdle,
	}
	if err := s.db.Create(&state).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to create system state", err)
	}
	return &state, nil
}

// StatePatch carries the fields a caller wants to overwrite. Nil
// pointers keep the stored value.
type StatePatch struct {
	CurrentMode     *string   `json:"currentMode"`
	ActiveTaskID    *int      `json:"activeTaskId"`
	CoreDecision    *string   `json:"coreDecision"`
	Confidence      *int      `json:"confidence"`
	ActiveSubAgents *[]string `json:"activeSubAgents"`
}

// Update merges the patch into the singleton row. A mode change gets
// its own audit action so mode history stays queryable.
func (s *StateService) Update(patch StatePatch) (*model.SystemState, error) {
	state, err := s.GetOrCreate()
	if err != nil {
		return nil, err
	}

	modeChanged := false
	if patch.CurrentMode != nil {
		if !model.ValidMode(*patch.CurrentMode) {
			return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown mode %q", *patch.CurrentMode))
		}
		modeChanged = state.CurrentMode != *patch.CurrentMode
		state.CurrentMode = *patch.CurrentMode
	}
	decisionChanged := false
	if patch.ActiveTaskID != nil {
		state.ActiveTaskID = patch.ActiveTaskID
	}
	if patch.CoreDecision != nil {
		decisionChanged = *patch.CoreDecision != "" && state.CoreDecision != *patch.CoreDecision
		state.CoreDecision = *patch.CoreDecision
	}
	if patch.Confidence != nil {
		state.Confidence = *patch.Confidence
	}
	if patch.ActiveSubAgents != nil {
		state.ActiveSubAgents = *patch.ActiveSubAgents
	}

	var entries []*model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(state).Error; err != nil {
			return httpx.ErrDatabaseError("failed to update system state", err)
		}

		entry, err := s.logs.appendTx(tx, "core", model.ActionSystemStateChanged,
			"System state updated", state.ActiveTaskID, nil)
		if err != nil {
			return err
		}
		entries = append(entries, entry)

		if modeChanged {
			entry, err = s.logs.appendTx(tx, "core", model.ActionModeChanged,
				fmt.Sprintf("Mode changed to %s", state.CurrentMode), state.ActiveTaskID,
				map[string]interface{}{"mode": state.CurrentMode})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		if decisionChanged {
			entry, err = s.logs.appendTx(tx, "core", model.ActionCoreDecisionMade,
				state.CoreDecision, state.ActiveTaskID,
				map[string]interface{}{"confidence": state.Confidence})
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(events.SystemStateChanged, state)
	s.bus.EmitToRoom(events.RoomSystem, events.SystemStateChanged, state)
	for _, entry := range entries {
		s.bus.Emit(events.LogCreated, entry)
	}
	return state, nil
}

// History returns the recent state-affecting audit records.
func (s *StateService) History(limit int) ([]model.Log, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []model.Log
	err := s.db.Where("action IN ?", []string{
		model.ActionSystemStateChanged,
		model.ActionCoreDecisionMade,
		model.ActionModeChanged,
	}).Order("timestamp DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, httpx.ErrDatabaseError("failed to query state history", err)
	}
	return logs, nil
}
