package model

import (
	"testing"
	"time"
)

func TestValidTaskStatus(t *testing.T) {
	for _, s := range []string{"queued", "active", "blocked", "completed", "failed"} {
		if !ValidTaskStatus(s) {
			t.Errorf("ValidTaskStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "done", "Queued", "in_progress"} {
		if ValidTaskStatus(s) {
			t.Errorf("ValidTaskStatus(%q) = true", s)
		}
	}
}

func TestAddProgressKeepsOrder(t *testing.T) {
	var task Task
	base := time.Now()
	task.AddProgress("cloning", base)
	task.AddProgress("building", base.Add(time.Minute))

	if len(task.ProgressUpdates) != 2 {
		t.Fatalf("len = %d, want 2", len(task.ProgressUpdates))
	}
	if task.ProgressUpdates[0].Text != "cloning" || task.ProgressUpdates[1].Text != "building" {
		t.Errorf("updates out of order: %+v", task.ProgressUpdates)
	}
}

func TestMetadataNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   TaskMetadata
		want TaskMetadata
	}{
		{
			"empty gets defaults",
			TaskMetadata{},
			TaskMetadata{Source: MetaSourceManual, Priority: PriorityP2},
		},
		{
			"manual drops foreign payloads",
			TaskMetadata{Source: MetaSourceManual, GitHub: &GitHubMeta{IssueNumber: 12}},
			TaskMetadata{Source: MetaSourceManual, Priority: PriorityP2},
		},
		{
			"github keeps its payload",
			TaskMetadata{Source: MetaSourceGitHub, Priority: PriorityP0, GitHub: &GitHubMeta{IssueNumber: 12}},
			TaskMetadata{Source: MetaSourceGitHub, Priority: PriorityP0, GitHub: &GitHubMeta{IssueNumber: 12}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.in
			m.Normalize()
			if m.Source != tt.want.Source || m.Priority != tt.want.Priority {
				t.Errorf("got %+v, want %+v", m, tt.want)
			}
			if (m.GitHub == nil) != (tt.want.GitHub == nil) {
				t.Errorf("GitHub payload mismatch: %+v", m.GitHub)
			}
			if !m.Valid() {
				t.Errorf("normalized metadata not valid: %+v", m)
			}
		})
	}
}

func TestMetadataValid(t *testing.T) {
	bad := []TaskMetadata{
		{Source: "jira"},
		{Source: MetaSourceGitHub, Sheet: &SheetMeta{TaskID: "t1"}},
		{Source: MetaSourceManual, Priority: "P9"},
	}
	for _, m := range bad {
		if m.Valid() {
			t.Errorf("Valid() = true for %+v", m)
		}
	}
}
