package events

import "testing"

func TestRoomNames(t *testing.T) {
	if got := TaskRoom(42); got != "task:42" {
		t.Errorf("TaskRoom(42) = %q", got)
	}
	if got := AgentRoom(7); got != "agent:7" {
		t.Errorf("AgentRoom(7) = %q", got)
	}
	if RoomSystem != "system" {
		t.Errorf("RoomSystem = %q", RoomSystem)
	}
}

func TestNopBus(t *testing.T) {
	var bus Bus = NopBus{}
	// Must be safe to call with anything, including nil payloads.
	bus.Emit(TaskCreated, nil)
	bus.EmitToRoom(RoomSystem, SystemStateChanged, map[string]int{"confidence": 50})
	if bus.ConnectionCount() != 0 {
		t.Errorf("ConnectionCount = %d, want 0", bus.ConnectionCount())
	}
}
