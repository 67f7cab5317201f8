package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agent_console/internal/events"
	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

// TaskService owns the task lifecycle: creation, status overwrites,
// assignment, progress trail and the soft delete. Status transitions
// are not ordered: any status may follow any other.
type TaskService struct {
	db   *gorm.DB
	bus  events.Bus
	logs *LogService
}

// NewTaskService creates a new TaskService
func NewTaskService(db *gorm.DB, bus events.Bus, logs *LogService) *TaskService {
	return &TaskService{db: db, bus: bus, logs: logs}
}

// TaskFilter narrows List queries.
type TaskFilter struct {
	Status     string
	AssignedTo string
	Source     string
	Limit      int
	Offset     int
}

// List returns tasks newest first.
func (s *TaskService) List(f TaskFilter) ([]model.Task, int64, error) {
	query := s.db.Model(&model.Task{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.AssignedTo != "" {
		query = query.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.Source != "" {
		query = query.Where("source = ?", f.Source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to count tasks", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var tasks []model.Task
	if err := query.Order("created_at DESC").Offset(f.Offset).Limit(limit).Find(&tasks).Error; err != nil {
		return nil, 0, httpx.ErrDatabaseError("failed to query tasks", err)
	}
	return tasks, total, nil
}

// Get returns one task by id.
func (s *TaskService) Get(id int) (*model.Task, error) {
	var task model.Task
	if err := s.db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.ErrNotFound("task not found")
		}
		return nil, httpx.ErrDatabaseError("failed to query task", err)
	}
	return &task, nil
}

// Create inserts a task (default status queued, source human), writes
// the TASK_CREATED audit record and emits TASK_CREATED + LOG_CREATED.
func (s *TaskService) Create(task *model.Task) (*model.Task, error) {
	if task.Title == "" {
		return nil, httpx.ErrParamMissing("title is required")
	}
	if task.Status == "" {
		task.Status = model.TaskStatusQueued
	}
	if !model.ValidTaskStatus(task.Status) {
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown status %q", task.Status))
	}
	if task.Source == "" {
		task.Source = model.TaskSourceHuman
	}
	if !model.ValidTaskSource(task.Source) {
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown source %q", task.Source))
	}
	task.Metadata.Normalize()
	if !task.Metadata.Valid() {
		return nil, httpx.ErrParamInvalid("metadata payload does not match its source tag")
	}
	if task.DelegationID == "" {
		task.DelegationID = uuid.New().String()
	}
	if task.Status == model.TaskStatusActive && task.StartedAt == nil {
		now := time.Now()
		task.StartedAt = &now
	}

	var entry *model.Log
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return httpx.ErrDatabaseError("failed to create task", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, task.Source, model.ActionTaskCreated,
			fmt.Sprintf("Task %q created", task.Title), &task.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(events.TaskCreated, task)
	s.bus.Emit(events.LogCreated, entry)
	return task, nil
}

// SetStatus overwrites a task's status. The reason lands in the audit
// record and, depending on the new status, in the matching side field:
// blocked -> blockedReason, failed -> error, completed -> result.
func (s *TaskService) SetStatus(id int, status, reason string) (*model.Task, error) {
	if !model.ValidTaskStatus(status) {
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown status %q", status))
	}

	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	task.Status = status
	now := time.Now()
	switch status {
	case model.TaskStatusBlocked:
		if reason != "" {
			task.BlockedReason = reason
		}
	case model.TaskStatusFailed:
		if reason != "" {
			task.Error = reason
		}
	case model.TaskStatusCompleted:
		if reason != "" {
			task.Result = reason
		}
		task.CompletedAt = &now
	}

	summary := reason
	if summary == "" {
		summary = fmt.Sprintf("Task status changed to %s", status)
	}

	var entry *model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return httpx.ErrDatabaseError("failed to update task", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "system", model.ActionTaskStatusChanged, summary, &task.ID,
			map[string]interface{}{"newStatus": status})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(events.TaskStatusChanged, task)
	s.bus.EmitToRoom(events.TaskRoom(task.ID), events.TaskStatusChanged, task)
	s.bus.Emit(events.LogCreated, entry)
	return task, nil
}

// Assign points the task at an agent identifier and marks it active.
func (s *TaskService) Assign(id int, agentID string) (*model.Task, error) {
	if agentID == "" {
		return nil, httpx.ErrParamMissing("agentId is required")
	}

	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	task.AssignedTo = agentID
	task.Status = model.TaskStatusActive

	var entry *model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return httpx.ErrDatabaseError("failed to update task", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "core", model.ActionAgentAssigned,
			fmt.Sprintf("Task assigned to %s", agentID), &task.ID,
			map[string]interface{}{"agentId": agentID})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(events.AgentAssigned, task)
	s.bus.Emit(events.LogCreated, entry)
	return task, nil
}

// Progress appends one progress entry to the task's trail.
func (s *TaskService) Progress(id int, text string) (*model.Task, error) {
	if text == "" {
		return nil, httpx.ErrParamMissing("text is required")
	}

	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	task.AddProgress(text, time.Now())

	var entry *model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return httpx.ErrDatabaseError("failed to update task", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "core", model.ActionTaskProgress, text, &task.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(events.TaskUpdated, task)
	s.bus.EmitToRoom(events.TaskRoom(task.ID), events.TaskUpdated, task)
	s.bus.Emit(events.LogCreated, entry)
	return task, nil
}

// SetOutput records the file artifacts a completed task produced.
func (s *TaskService) SetOutput(id int, outputFile, outputType, agentName string) (*model.Task, error) {
	if !model.ValidOutputType(outputType) {
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown output type %q", outputType))
	}

	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	task.OutputFile = outputFile
	task.OutputType = outputType
	if agentName != "" {
		task.AgentName = agentName
	}

	if err := s.db.Save(task).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to update task", err)
	}

	s.bus.Emit(events.TaskUpdated, task)
	return task, nil
}

// SoftDelete marks the task failed rather than removing the row.
func (s *TaskService) SoftDelete(id int) (*model.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	task.Status = model.TaskStatusFailed

	var entry *model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return httpx.ErrDatabaseError("failed to update task", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "human", model.ActionTaskDeleted,
			fmt.Sprintf("Task %q deleted", task.Title), &task.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Emit(events.TaskDeleted, task)
	s.bus.Emit(events.LogCreated, entry)
	return task, nil
}

// Graph returns the task together with its children and dependencies
// as one flat list.
func (s *TaskService) Graph(id int) ([]model.Task, error) {
	task, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	ids := append([]int{task.ID}, task.DependencyIDs...)

	var tasks []model.Task
	if err := s.db.Where("id IN ? OR parent_task_id = ?", ids, task.ID).Find(&tasks).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to query task graph", err)
	}
	return tasks, nil
}
