package events

import "fmt"

// Realtime event names pushed to dashboard clients.
const (
	TaskCreated       = "TASK_CREATED"
	TaskStatusChanged = "TASK_STATUS_CHANGED"
	TaskUpdated       = "TASK_UPDATED"
	TaskDeleted       = "TASK_DELETED"

	AgentCreated        = "AGENT_CREATED"
	AgentDeleted        = "AGENT_DELETED"
	AgentAssigned       = "AGENT_ASSIGNED"
	AgentStatusChanged  = "AGENT_STATUS_CHANGED"
	AgentMetricsUpdated = "AGENT_METRICS_UPDATED"
	AgentTaskStarted    = "AGENT_TASK_STARTED"
	AgentTaskCompleted  = "AGENT_TASK_COMPLETED"
	AgentTaskTimeout    = "AGENT_TASK_TIMEOUT"

	LogCreated = "LOG_CREATED"

	SystemStateChanged = "SYSTEM_STATE_CHANGED"

	DocumentCreated = "DOCUMENT_CREATED"
	DocumentUpdated = "DOCUMENT_UPDATED"
	DocumentDeleted = "DOCUMENT_DELETED"

	LearningCommitted = "LEARNING_COMMITTED"
	LearningUpdated   = "LEARNING_UPDATED"
	LearningDeleted   = "LEARNING_DELETED"
)

// RoomSystem is the subscription scope for system-wide updates.
const RoomSystem = "system"

// TaskRoom returns the subscription room for one task.
func TaskRoom(taskID int) string {
	return fmt.Sprintf("task:%d", taskID)
}

// AgentRoom returns the subscription room for one agent.
func AgentRoom(agentID int) string {
	return fmt.Sprintf("agent:%d", agentID)
}

// Bus is the fan-out channel to connected dashboard clients. Delivery is
// fire-and-forget: implementations must never fail the caller, and
// clients that connect later do not see earlier events.
type Bus interface {
	// Emit broadcasts to every connected client.
	Emit(event string, payload interface{})
	// EmitToRoom broadcasts only to clients that joined the room.
	EmitToRoom(room, event string, payload interface{})
	// ConnectionCount reports the number of connected clients.
	ConnectionCount() int
}

// NopBus discards everything. Used by CLI code paths and tests.
type NopBus struct{}

func (NopBus) Emit(string, interface{}) {}
func (NopBus) EmitToRoom(string, string, interface{}) {}
func (NopBus) ConnectionCount() int { return 0 }
