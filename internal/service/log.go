package service

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"agent_console/internal/events"
	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

// LogService owns the append-only audit trail. Append is the only
// mutation it exposes; Update and Delete fail unconditionally.
type LogService struct {
	db  *gorm.DB
	bus events.Bus
}

// NewLogService creates a new LogService
func NewLogService(db *gorm.DB, bus events.Bus) *LogService {
	return &LogService{db: db, bus: bus}
}

// Append writes one audit record and emits LOG_CREATED. Metadata may be
// nil.
func (s *LogService) Append(actor, action, summary string, taskID *int, metadata map[string]interface{}) (*model.Log, error) {
	if actor == "" || action == "" {
		return nil, httpx.ErrParamMissing("actor and action are required")
	}

	entry := model.Log{
		Actor:            actor,
		Action:           action,
		ReasoningSummary: summary,
		TaskID:           taskID,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, httpx.ErrParamInvalid("metadata is not serializable")
		}
		entry.Metadata = datatypes.JSON(raw)
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to create log", err)
	}

	s.bus.Emit(events.LogCreated, entry)
	return &entry, nil
}

// appendTx writes an audit record inside an existing transaction and
// returns it so the caller can emit after commit.
func (s *LogService) appendTx(tx *gorm.DB, actor, action, summary string, taskID *int, metadata map[string]interface{}) (*model.Log, error) {
	entry := model.Log{
		Actor:            actor,
		Action:           action,
		ReasoningSummary: summary,
		TaskID:           taskID,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, httpx.ErrParamInvalid("metadata is not serializable")
		}
		entry.Metadata = datatypes.JSON(raw)
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to create log", err)
	}
	return &entry, nil
}

// LogFilter narrows List queries.
type LogFilter struct {
	Actor     string
	Action    string
	TaskID    *int
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// List returns audit records newest first.
func (s *LogService) List(f LogFilter) ([]model.Log, int64, error) {
	query := s.db.Model(&model.Log{})
	if f.Actor != "" {
		query = query.Where("actor = ?", f.Actor)
	}
	if f.Action != "" {
		query = query.Where("action = ?", f.Action)
	}
	if f.TaskID != nil {
		query = query.Where("task_id = ?", *f.TaskID)
	}
	if f.StartDate != nil {
		query = query.Where("timestamp >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		query = query.Where("timestamp <= ?", *f.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to count logs", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	var logs []model.Log
	if err := query.Order("timestamp DESC").Offset(f.Offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to query logs", err)
	}
	return logs, total, nil
}

// Get returns one audit record by id.
func (s *LogService) Get(id int) (*model.Log, error) {
	var entry model.Log
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.ErrNotFound("log not found")
		}
		return nil, httpx.ErrDatabaseError("failed to query log", err)
	}
	return &entry, nil
}

// ActionCount is one row of the grouped statistics views.
type ActionCount struct {
	Key   string `gorm:"column:grp" json:"key"`
	Count int64  `json:"count"`
}

// StatsSummary returns log counts grouped by action and by actor,
// optionally restricted to a time range.
func (s *LogService) StatsSummary(startDate, endDate *time.Time) (byAction, byActor []ActionCount, err error) {
	base := func() *gorm.DB {
		q := s.db.Model(&model.Log{})
		if startDate != nil {
			q = q.Where("timestamp >= ?", *startDate)
		}
		if endDate != nil {
			q = q.Where("timestamp <= ?", *endDate)
		}
		return q
	}

	if err := base().Select("action AS grp, COUNT(*) AS count").
		Group("action").Order("count DESC").Scan(&byAction).Error; err != nil {
		return nil, nil, httpx.ErrDatabaseError("failed to aggregate by action", err)
	}
	if err := base().Select("actor AS grp, COUNT(*) AS count").
		Group("actor").Order("count DESC").Scan(&byActor).Error; err != nil {
		return nil, nil, httpx.ErrDatabaseError("failed to aggregate by actor", err)
	}
	return byAction, byActor, nil
}

// Update always fails: logs are append-only.
func (s *LogService) Update(id int, fields map[string]interface{}) error {
	return httpx.ErrAppendOnly()
}

// Delete always fails: logs are append-only.
func (s *LogService) Delete(id int) error {
	return httpx.ErrAppendOnly()
}
