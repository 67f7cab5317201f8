package model

import (
	"testing"
	"time"
)

func TestEngagementComplete(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	h := AgentHistory{
		AgentID:   1,
		AgentName: "devops",
		TaskTitle: "Sync repo",
		Status:    EngagementStarted,
		StartedAt: started,
	}

	done := started.Add(90 * time.Second)
	h.Complete(EngagementCompleted, "done", "", done)

	if h.Status != EngagementCompleted {
		t.Errorf("Status = %q", h.Status)
	}
	if h.CompletedAt == nil || !h.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v", h.CompletedAt)
	}
	if h.Duration != 90_000 {
		t.Errorf("Duration = %d ms, want 90000", h.Duration)
	}
	if h.Output != "done" {
		t.Errorf("Output = %q", h.Output)
	}
	if h.Error != "" {
		t.Errorf("Error = %q, want empty", h.Error)
	}
}

func TestEngagementCompleteWithError(t *testing.T) {
	h := AgentHistory{Status: EngagementStarted, StartedAt: time.Now()}
	h.Complete(EngagementFailed, "", "network unreachable", time.Now())

	if h.Status != EngagementFailed {
		t.Errorf("Status = %q", h.Status)
	}
	if h.Error != "network unreachable" {
		t.Errorf("Error = %q", h.Error)
	}
	if h.Duration < 0 {
		t.Errorf("Duration = %d, want >= 0", h.Duration)
	}
}

// Clock skew must never produce a negative duration.
func TestEngagementCompleteClockSkew(t *testing.T) {
	started := time.Now()
	h := AgentHistory{Status: EngagementStarted, StartedAt: started}
	h.Complete(EngagementTimeout, "", "", started.Add(-5*time.Second))

	if h.Duration != 0 {
		t.Errorf("Duration = %d, want 0", h.Duration)
	}
}
