package model

import (
	"time"

	"gorm.io/datatypes"
)

// Well-known log actions. The action column is free text; these are the
// tags the backend itself writes.
const (
	ActionTaskCreated        = "TASK_CREATED"
	ActionTaskStarted        = "TASK_STARTED"
	ActionTaskProgress       = "TASK_PROGRESS"
	ActionTaskStatusChanged  = "TASK_STATUS_CHANGED"
	ActionTaskCompleted      = "TASK_COMPLETED"
	ActionTaskBlocked        = "TASK_BLOCKED"
	ActionTaskFailed         = "TASK_FAILED"
	ActionTaskDeleted        = "TASK_DELETED"
	ActionAgentCreated       = "AGENT_CREATED"
	ActionAgentDeleted       = "AGENT_DELETED"
	ActionAgentAssigned      = "AGENT_ASSIGNED"
	ActionAgentStatusChanged = "AGENT_STATUS_CHANGED"
	ActionAgentTaskStarted   = "AGENT_TASK_STARTED"
	ActionAgentTaskCompleted = "AGENT_TASK_COMPLETED"
	ActionAgentTaskFailed    = "AGENT_TASK_FAILED"
	ActionAgentTaskTimeout   = "AGENT_TASK_TIMEOUT"
	ActionLearningCommitted  = "LEARNING_COMMITTED"
	ActionSystemStateChanged = "SYSTEM_STATE_CHANGED"
	ActionCoreDecisionMade   = "CORE_DECISION_MADE"
	ActionModeChanged        = "MODE_CHANGED"
)

// Log is an append-only audit record. Updates and deletes are rejected
// at the service layer regardless of the row's age or the caller.
type Log struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"autoCreateTime;index:,sort:desc" json:"timestamp"`

	Actor            string `gorm:"type:varchar(64);not null;index" json:"actor"`
	Action           string `gorm:"type:varchar(64);not null;index" json:"action"`
	ReasoningSummary string `gorm:"type:text" json:"reasoningSummary,omitempty"`

	TaskID   *int           `gorm:"index" json:"taskId,omitempty"`
	Metadata datatypes.JSON `gorm:"type:json" json:"metadata,omitempty"`
}

// TableName specifies the table name for Log
func (Log) TableName() string {
	return "logs"
}
