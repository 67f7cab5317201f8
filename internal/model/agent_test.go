package model

import (
	"testing"
	"time"
)

func TestApplyAssignmentRaisesLoad(t *testing.T) {
	tests := []struct {
		name     string
		load     int
		wantLoad int
	}{
		{"from zero", 0, 20},
		{"mid range", 50, 70},
		{"capped at 100", 90, 100},
		{"already full", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskID := 7
			a := Agent{Name: "devops", Load: tt.load}
			a.ApplyAssignment(&taskID, "Sync repo", time.Now())

			if a.Load != tt.wantLoad {
				t.Errorf("Load = %d, want %d", a.Load, tt.wantLoad)
			}
			if a.Status != AgentStatusActive {
				t.Errorf("Status = %q, want %q", a.Status, AgentStatusActive)
			}
			if a.CurrentTaskID == nil || *a.CurrentTaskID != taskID {
				t.Errorf("CurrentTaskID = %v, want %d", a.CurrentTaskID, taskID)
			}
			if a.CurrentTaskTitle != "Sync repo" {
				t.Errorf("CurrentTaskTitle = %q", a.CurrentTaskTitle)
			}
			if a.LastActiveAt == nil {
				t.Error("LastActiveAt not set")
			}
		})
	}
}

func TestApplyCompletionMetrics(t *testing.T) {
	tests := []struct {
		name          string
		before        PerformanceMetrics
		success       bool
		wantTotal     int
		wantCompleted int
		wantFailed    int
		wantRate      float64
	}{
		{"first success", PerformanceMetrics{}, true, 1, 1, 0, 100},
		{"first failure", PerformanceMetrics{}, false, 1, 0, 1, 0},
		{
			"mixed history",
			PerformanceMetrics{TotalTasks: 3, CompletedTasks: 2, FailedTasks: 1},
			true, 4, 3, 1, 75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Agent{Name: "researcher", Status: AgentStatusActive, Load: 40, Metrics: tt.before}
			a.ApplyCompletion("done", tt.success)

			m := a.Metrics
			if m.TotalTasks != tt.wantTotal || m.CompletedTasks != tt.wantCompleted || m.FailedTasks != tt.wantFailed {
				t.Errorf("metrics = %+v", m)
			}
			if m.SuccessRate != tt.wantRate {
				t.Errorf("SuccessRate = %v, want %v", m.SuccessRate, tt.wantRate)
			}
			if m.SuccessRate < 0 || m.SuccessRate > 100 {
				t.Errorf("SuccessRate %v out of [0,100]", m.SuccessRate)
			}
			if a.Status != AgentStatusIdle {
				t.Errorf("Status = %q, want idle", a.Status)
			}
			if a.CurrentTaskID != nil {
				t.Error("CurrentTaskID not cleared")
			}
		})
	}
}

// Assignment followed by completion restores the pre-assignment load.
func TestAssignCompleteLoadRoundTrip(t *testing.T) {
	for _, start := range []int{0, 20, 60} {
		taskID := 1
		a := Agent{Name: "comms", Load: start}
		a.ApplyAssignment(&taskID, "Draft email", time.Now())
		a.ApplyCompletion("sent", true)
		if a.Load != start {
			t.Errorf("load after assign+complete = %d, want %d", a.Load, start)
		}
	}
}

func TestApplyCompletionLoadFloor(t *testing.T) {
	a := Agent{Load: 10}
	a.ApplyCompletion("", false)
	if a.Load != 0 {
		t.Errorf("Load = %d, want 0", a.Load)
	}
}

func TestValidAgentStatus(t *testing.T) {
	for _, s := range []string{AgentStatusIdle, AgentStatusActive, AgentStatusBlocked} {
		if !ValidAgentStatus(s) {
			t.Errorf("ValidAgentStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "busy", "IDLE"} {
		if ValidAgentStatus(s) {
			t.Errorf("ValidAgentStatus(%q) = true", s)
		}
	}
}
