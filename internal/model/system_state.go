package model

import (
	"time"
)

// SystemStateKey is the fixed primary key of the singleton row.
const SystemStateKey = "system_state"

// System mode constants
const (
	ModeIdle      = "idle"
	ModeExecuting = "executing"
	ModeBlocked   = "blocked"
	ModeLearning  = "learning"
)

// SystemState is the single current-mode/decision snapshot of the
// system. Exactly one row exists, created lazily on first read.
// Concurrent writers overwrite each other (last write wins).
type SystemState struct {
	Key          string `gorm:"column:state_key;type:varchar(32);primaryKey" json:"key"`
	CurrentMode  string `gorm:"type:enum('idle','executing','blocked','learning');default:'idle'" json:"currentMode"`
	ActiveTaskID *int   `json:"activeTaskId,omitempty"`
	CoreDecision string `gorm:"type:text" json:"coreDecision,omitempty"`

	// Confidence is a 0-100 self-assessment attached to the decision.
	Confidence int `gorm:"default:0" json:"confidence"`

	ActiveSubAgents []string  `gorm:"serializer:json;type:json" json:"activeSubAgents,omitempty"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for SystemState
func (SystemState) TableName() string {
	return "system_state"
}

// ValidMode reports whether s is a known system mode.
func ValidMode(s string) bool {
	switch s {
	case ModeIdle, ModeExecuting, ModeBlocked, ModeLearning:
		return true
	}
	return false
}
