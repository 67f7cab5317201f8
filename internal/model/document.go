package model

// Document type constants
const (
	DocTypeSpec     = "spec"
	DocTypeMemory   = "memory"
	DocTypeLearning = "learning"
	DocTypeLog      = "log"
	DocTypePlan     = "plan"
)

// Document is a knowledge-store entry with a simple version counter.
type Document struct {
	BaseModel
	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Type    string `gorm:"type:enum('spec','memory','learning','log','plan');not null;index" json:"type"`
	Content string `gorm:"type:longtext;not null" json:"content"`

	LinkedTaskIDs []int    `gorm:"serializer:json;type:json" json:"linkedTaskIds,omitempty"`
	Version       int      `gorm:"default:1" json:"version"`
	Tags          []string `gorm:"serializer:json;type:json" json:"tags,omitempty"`
	CreatedBy     string   `gorm:"type:varchar(64)" json:"createdBy,omitempty"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "documents"
}

// ValidDocType reports whether s is a known document type.
func ValidDocType(s string) bool {
	switch s {
	case DocTypeSpec, DocTypeMemory, DocTypeLearning, DocTypeLog, DocTypePlan:
		return true
	}
	return false
}

// LinkTask appends taskID to the linked set if not already present.
// Returns true if the set changed.
func (d *Document) LinkTask(taskID int) bool {
	for _, id := range d.LinkedTaskIDs {
		if id == taskID {
			return false
		}
	}
	d.LinkedTaskIDs = append(d.LinkedTaskIDs, taskID)
	return true
}
