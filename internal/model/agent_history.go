package model

import (
	"time"

	"gorm.io/datatypes"
)

// Engagement status constants
const (
	EngagementStarted   = "started"
	EngagementCompleted = "completed"
	EngagementFailed    = "failed"
	EngagementTimeout   = "timeout"
)

// AgentHistory records one agent-task engagement. The open entry for an
// agent/task pair is the most recent row with status "started".
type AgentHistory struct {
	BaseModel
	AgentID   int    `gorm:"not null;index:idx_agent_started" json:"agentId"`
	AgentName string `gorm:"type:varchar(64);not null" json:"agentName"`
	TaskID    *int   `gorm:"index" json:"taskId,omitempty"`
	TaskTitle string `gorm:"type:varchar(255);not null" json:"taskTitle"`

	Status      string     `gorm:"type:enum('started','completed','failed','timeout');not null;index" json:"status"`
	StartedAt   time.Time  `gorm:"index:idx_agent_started,sort:desc" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	// Duration is completedAt - startedAt in milliseconds.
	Duration int64 `gorm:"default:0" json:"duration"`

	Output   string         `gorm:"type:text" json:"output,omitempty"`
	Error    string         `gorm:"type:varchar(255)" json:"error,omitempty"`
	Metadata datatypes.JSON `gorm:"type:json" json:"metadata,omitempty"`
}

// TableName specifies the table name for AgentHistory
func (AgentHistory) TableName() string {
	return "agent_history"
}

// Complete closes the engagement with the given terminal status and
// computes the duration. A negative clock skew is floored at zero.
func (h *AgentHistory) Complete(status, output, errMsg string, at time.Time) {
	h.Status = status
	h.CompletedAt = &at
	h.Duration = at.Sub(h.StartedAt).Milliseconds()
	if h.Duration < 0 {
		h.Duration = 0
	}
	h.Output = output
	if errMsg != "" {
		h.Error = errMsg
	}
}
