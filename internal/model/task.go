package model

import (
	"time"
)

// Task status constants
const (
	TaskStatusQueued    = "queued"
	TaskStatusActive    = "active"
	TaskStatusBlocked   = "blocked"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// Task source constants
const (
	TaskSourceHuman    = "human"
	TaskSourceCore     = "core"
	TaskSourceSubAgent = "sub-agent"
)

// Task output type constants
const (
	OutputTypeResearch = "research"
	OutputTypeDraft    = "draft"
	OutputTypeCode     = "code"
	OutputTypeLog      = "log"
)

// ProgressUpdate is one entry of a task's progress trail.
type ProgressUpdate struct {
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Task represents a unit of work tracked on the dashboard.
type Task struct {
	BaseModel
	Title         string `gorm:"type:varchar(255);not null" json:"title"`
	Description   string `gorm:"type:text" json:"description"`
	Status        string `gorm:"type:enum('queued','active','blocked','completed','failed');default:'queued';index" json:"status"`
	Source        string `gorm:"type:enum('human','core','sub-agent');default:'human'" json:"source"`
	AssignedTo    string `gorm:"type:varchar(64);index" json:"assignedTo,omitempty"`
	AssignedAgent string `gorm:"type:varchar(64)" json:"assignedAgent,omitempty"`
	AgentType     string `gorm:"type:varchar(32)" json:"agentType,omitempty"`
	DelegationID  string `gorm:"type:varchar(36)" json:"delegationId,omitempty"`

	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	ParentTaskID  *int  `gorm:"index" json:"parentTaskId,omitempty"`
	DependencyIDs []int `gorm:"serializer:json;type:json" json:"dependencyIds,omitempty"`

	Metadata        TaskMetadata     `gorm:"serializer:json;type:json" json:"metadata"`
	ProgressUpdates []ProgressUpdate `gorm:"serializer:json;type:json" json:"progressUpdates,omitempty"`

	Result        string `gorm:"type:text" json:"result,omitempty"`
	BlockedReason string `gorm:"type:varchar(255)" json:"blockedReason,omitempty"`
	Error         string `gorm:"type:text" json:"error,omitempty"`

	OutputFile string `gorm:"type:varchar(255)" json:"outputFile,omitempty"`
	OutputType string `gorm:"type:varchar(16)" json:"outputType,omitempty"`
	TokensUsed int    `gorm:"default:0" json:"tokensUsed"`
	AgentName  string `gorm:"type:varchar(64)" json:"agentName,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

// ValidTaskStatus reports whether s is a known task status value.
// Transition order is deliberately not checked: any status may follow
// any other, matching the permissive behavior existing callers rely on.
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusQueued, TaskStatusActive, TaskStatusBlocked, TaskStatusCompleted, TaskStatusFailed:
		return true
	}
	return false
}

// ValidTaskSource reports whether s is a known task source value.
func ValidTaskSource(s string) bool {
	switch s {
	case TaskSourceHuman, TaskSourceCore, TaskSourceSubAgent:
		return true
	}
	return false
}

// ValidOutputType reports whether s is a known output type. Empty is allowed.
func ValidOutputType(s string) bool {
	switch s {
	case "", OutputTypeResearch, OutputTypeDraft, OutputTypeCode, OutputTypeLog:
		return true
	}
	return false
}

// AddProgress appends a progress entry with the given timestamp.
func (t *Task) AddProgress(text string, at time.Time) {
	t.ProgressUpdates = append(t.ProgressUpdates, ProgressUpdate{Text: text, Time: at})
}
