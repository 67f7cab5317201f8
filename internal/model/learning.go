package model

// Learning is a committed lesson derived from system activity.
type Learning struct {
	BaseModel
	Description    string `gorm:"type:text;not null" json:"description"`
	TriggerEventID *int   `gorm:"index" json:"triggerEventId,omitempty"`

	AffectedAgents []string `gorm:"serializer:json;type:json" json:"affectedAgents,omitempty"`
	ImpactSummary  string   `gorm:"type:text" json:"impactSummary,omitempty"`

	ConfidenceScore int    `gorm:"default:0" json:"confidenceScore"`
	Version         int    `gorm:"default:1" json:"version"`
	Category        string `gorm:"type:varchar(64)" json:"category,omitempty"`
}

// TableName specifies the table name for Learning
func (Learning) TableName() string {
	return "learnings"
}
