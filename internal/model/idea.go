package model

// Idea is a lightweight backlog entry, ordered by priority then recency.
type Idea struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Status      string `gorm:"type:varchar(32);default:'idea'" json:"status"`
	Priority    int    `gorm:"default:0;index:,sort:desc" json:"priority"`
}

// TableName specifies the table name for Idea
func (Idea) TableName() string {
	return "ideas"
}
