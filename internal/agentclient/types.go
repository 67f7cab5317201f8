package agentclient

import (
	"encoding/json"

	"agent_console/internal/model"
)

// envelope mirrors the server's response shape with the data left raw
// until the caller knows the concrete type.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Task is the client-side view of a task.
type Task = model.Task

// Agent is the client-side view of an agent.
type Agent = model.Agent

// SystemState is the client-side view of the singleton state.
type SystemState = model.SystemState

// CreateTaskRequest is the body for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Source      string `json:"source,omitempty"`
	AssignedTo  string `json:"assignedTo,omitempty"`
}

// StatePatch is the body for updating the system state.
type StatePatch struct {
	CurrentMode  *string `json:"currentMode,omitempty"`
	ActiveTaskID *int    `json:"activeTaskId,omitempty"`
	CoreDecision *string `json:"coreDecision,omitempty"`
	Confidence   *int    `json:"confidence,omitempty"`
}
