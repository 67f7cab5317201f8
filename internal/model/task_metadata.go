package model

// Metadata source constants
const (
	MetaSourceGitHub = "github"
	MetaSourceSheet  = "sheet"
	MetaSourceManual = "manual"
)

// Priority constants
const (
	PriorityP0 = "P0"
	PriorityP1 = "P1"
	PriorityP2 = "P2"
	PriorityP3 = "P3"
)

// GitHubMeta carries the linkage fields for tasks imported from GitHub issues.
type GitHubMeta struct {
	IssueNumber int    `json:"issueNumber"`
	URL         string `json:"url,omitempty"`
}

// SheetMeta carries the linkage fields for tasks imported from a spreadsheet row.
type SheetMeta struct {
	TaskID   string `json:"taskId"`
	Reporter string `json:"reporter,omitempty"`
	TaskType string `json:"taskType,omitempty"`
}

// TaskMetadata is a tagged variant keyed by Source: exactly one of the
// per-source payloads is expected to be set, matching the tag.
type TaskMetadata struct {
	Source   string      `json:"source"`
	Priority string      `json:"priority,omitempty"`
	GitHub   *GitHubMeta `json:"github,omitempty"`
	Sheet    *SheetMeta  `json:"sheet,omitempty"`
}

// Normalize fills defaults (manual source, P2 priority) and drops payloads
// that do not match the tag.
func (m *TaskMetadata) Normalize() {
	if m.Source == "" {
		m.Source = MetaSourceManual
	}
	if m.Priority == "" {
		m.Priority = PriorityP2
	}
	if m.Source != MetaSourceGitHub {
		m.GitHub = nil
	}
	if m.Source != MetaSourceSheet {
		m.Sheet = nil
	}
}

// Valid reports whether the tag and priority are known values and the
// payload matches the tag.
func (m TaskMetadata) Valid() bool {
	switch m.Source {
	case MetaSourceManual:
		if m.GitHub != nil || m.Sheet != nil {
			return false
		}
	case MetaSourceGitHub:
		if m.Sheet != nil {
			return false
		}
	case MetaSourceSheet:
		if m.GitHub != nil {
			return false
		}
	default:
		return false
	}
	switch m.Priority {
	case "", PriorityP0, PriorityP1, PriorityP2, PriorityP3:
		return true
	}
	return false
}
