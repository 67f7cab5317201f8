package model

import (
	"time"
)

// Agent status constants
const (
	AgentStatusIdle    = "idle"
	AgentStatusActive  = "active"
	AgentStatusBlocked = "blocked"
)

// Agent type constants
const (
	AgentTypeSpecialist = "specialist"
	AgentTypeCore       = "core"
)

// LoadStep is the fixed load delta applied on assignment and completion.
const LoadStep = 20

// PerformanceMetrics tracks an agent's lifetime task outcomes.
type PerformanceMetrics struct {
	SuccessRate      float64 `json:"successRate"`
	AvgExecutionTime float64 `json:"avgExecutionTime"`
	TotalTasks       int     `json:"totalTasks"`
	CompletedTasks   int     `json:"completedTasks"`
	FailedTasks      int     `json:"failedTasks"`
}

// Agent represents a named worker that can hold one task at a time.
type Agent struct {
	BaseModel
	Name   string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Role   string `gorm:"type:varchar(128);not null" json:"role"`
	Type   string `gorm:"type:enum('specialist','core');default:'specialist';index" json:"type"`
	Status string `gorm:"type:enum('idle','active','blocked');default:'idle';index" json:"status"`

	CurrentTaskID    *int   `json:"currentTaskId,omitempty"`
	CurrentTaskTitle string `gorm:"type:varchar(255)" json:"currentTaskTitle,omitempty"`

	// Load is the 0-100 work-saturation counter, clamped at call sites.
	Load int `gorm:"default:0" json:"load"`

	Capabilities []string `gorm:"serializer:json;type:json" json:"capabilities,omitempty"`
	Tools        []string `gorm:"serializer:json;type:json" json:"tools,omitempty"`

	Metrics PerformanceMetrics `gorm:"serializer:json;type:json;column:performance_metrics" json:"performanceMetrics"`

	LastOutput   string     `gorm:"type:text" json:"lastOutput,omitempty"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
}

// TableName specifies the table name for Agent
func (Agent) TableName() string {
	return "agents"
}

// ValidAgentStatus reports whether s is a known agent status value.
func ValidAgentStatus(s string) bool {
	switch s {
	case AgentStatusIdle, AgentStatusActive, AgentStatusBlocked:
		return true
	}
	return false
}

// ApplyAssignment marks the agent active on the given task and raises
// its load by LoadStep, capped at 100.
func (a *Agent) ApplyAssignment(taskID *int, taskTitle string, at time.Time) {
	a.Status = AgentStatusActive
	a.CurrentTaskID = taskID
	a.CurrentTaskTitle = taskTitle
	a.LastActiveAt = &at
	a.Load += LoadStep
	if a.Load > 100 {
		a.Load = 100
	}
}

// ApplyCompletion returns the agent to idle, lowers its load by LoadStep
// floored at 0, and folds the outcome into the performance metrics.
// SuccessRate stays a finite number in [0,100] even for the first task.
func (a *Agent) ApplyCompletion(output string, success bool) {
	a.Status = AgentStatusIdle
	a.CurrentTaskID = nil
	a.CurrentTaskTitle = ""
	a.LastOutput = output
	a.Load -= LoadStep
	if a.Load < 0 {
		a.Load = 0
	}

	a.Metrics.TotalTasks++
	if success {
		a.Metrics.CompletedTasks++
	} else {
		a.Metrics.FailedTasks++
	}
	a.Metrics.SuccessRate = float64(a.Metrics.CompletedTasks) / float64(a.Metrics.TotalTasks) * 100
}
