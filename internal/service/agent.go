package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"gorm.io/gorm"

	"agent_console/internal/cache"
	"agent_console/internal/events"
	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

const agentStatsCacheKey = "stats:agents"

// AgentService owns the agent roster and the assign/complete
// coordination flow that keeps agents, tasks and history in step.
type AgentService struct {
	db       *gorm.DB
	bus      events.Bus
	logs     *LogService
	cacheTTL time.Duration
}

// NewAgentService creates a new AgentService
func NewAgentService(db *gorm.DB, bus events.Bus, logs *LogService, cacheTTL time.Duration) *AgentService {
	return &AgentService{db: db, bus: bus, logs: logs, cacheTTL: cacheTTL}
}

// List returns all agents, specialists first, then by name.
func (s *AgentService) List() ([]model.Agent, error) {
	var agents []model.Agent
	if err := s.db.Order("type DESC, name ASC").Find(&agents).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to query agents", err)
	}
	return agents, nil
}

// Get resolves an agent by numeric id or, failing that, by name.
func (s *AgentService) Get(idOrName string) (*model.Agent, error) {
	var agent model.Agent
	if id, err := strconv.Atoi(idOrName); err == nil {
		err := s.db.First(&agent, id).Error
		if err == nil {
			return &agent, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.ErrDatabaseError("failed to query agent", err)
		}
	}
	if err := s.db.Where("name = ?", idOrName).First(&agent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.ErrNotFound("agent not found")
		}
		return nil, httpx.ErrDatabaseError("failed to query agent", err)
	}
	return &agent, nil
}

// Create registers a new agent. Names are unique.
func (s *AgentService) Create(agent *model.Agent) (*model.Agent, error) {
	if agent.Name == "" || agent.Role == "" {
		return nil, httpx.ErrParamMissing("name and role are required")
	}
	if agent.Type == "" {
		agent.Type = model.AgentTypeSpecialist
	}
	if agent.Status == "" {
		agent.Status = model.AgentStatusIdle
	}
	if !model.ValidAgentStatus(agent.Status) {
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown status %q", agent.Status))
	}

	var count int64
	if err := s.db.Model(&model.Agent{}).Where("name = ?", agent.Name).Count(&count).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to query agents", err)
	}
	if count > 0 {
		return nil, httpx.ErrAlreadyExists(fmt.Sprintf("agent %q already exists", agent.Name))
	}

	var entry *model.Log
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(agent).Error; err != nil {
			return httpx.ErrDatabaseError("failed to create agent", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "system", model.ActionAgentCreated,
			fmt.Sprintf("Agent %s registered", agent.Name), nil,
			map[string]interface{}{"agentId": agent.ID, "agentName": agent.Name})
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.Invalidate(context.Background(), agentStatsCacheKey)
	s.bus.Emit(events.AgentCreated, agent)
	s.bus.Emit(events.LogCreated, entry)
	return agent, nil
}

// Delete removes an agent from the roster. History rows stay.
func (s *AgentService) Delete(idOrName string) error {
	agent, err := s.Get(idOrName)
	if err != nil {
		return err
	}

	var entry *model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Agent{}, agent.ID).Error; err != nil {
			return httpx.ErrDatabaseError("failed to delete agent", err)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "system", model.ActionAgentDeleted,
			fmt.Sprintf("Agent %s removed", agent.Name), nil,
			map[string]interface{}{"agentId": agent.ID, "agentName": agent.Name})
		return err
	})
	if err != nil {
		return err
	}

	cache.Invalidate(context.Background(), agentStatsCacheKey)
	s.bus.Emit(events.AgentDeleted, agent)
	s.bus.Emit(events.LogCreated, entry)
	return nil
}

// SetStatus overwrites an agent's status.
func (s *AgentService) SetStatus(idOrName, status string) (*model.Agent, error) {
	if !model.ValidAgentStatus(status) {
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown status %q", status))
	}

	agent, err := s.Get(idOrName)
	if err != nil {
		return nil, err
	}

	agent.Status = status
	if err := s.db.Save(agent).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to update agent", err)
	}

	cache.Invalidate(context.Background(), agentStatsCacheKey)
	s.bus.Emit(events.AgentStatusChanged, agent)
	s.bus.EmitToRoom(events.AgentRoom(agent.ID), events.AgentStatusChanged, agent)
	return agent, nil
}

// MetricsPatch carries the metric fields a caller wants to overwrite.
// Nil pointers keep the stored value.
type MetricsPatch struct {
	SuccessRate      *float64 `json:"successRate"`
	AvgExecutionTime *float64 `json:"avgExecutionTime"`
	TotalTasks       *int     `json:"totalTasks"`
	CompletedTasks   *int     `json:"completedTasks"`
	FailedTasks      *int     `json:"failedTasks"`
	Load             *int     `json:"load"`
}

// UpdateMetrics applies a partial metrics overwrite. Load is clamped
// to [0,100] like everywhere else.
func (s *AgentService) UpdateMetrics(idOrName string, patch MetricsPatch) (*model.Agent, error) {
	agent, err := s.Get(idOrName)
	if err != nil {
		return nil, err
	}

	if patch.SuccessRate != nil {
		agent.Metrics.SuccessRate = *patch.SuccessRate
	}
	if patch.AvgExecutionTime != nil {
		agent.Metrics.AvgExecutionTime = *patch.AvgExecutionTime
	}
	if patch.TotalTasks != nil {
		agent.Metrics.TotalTasks = *patch.TotalTasks
	}
	if patch.CompletedTasks != nil {
		agent.Metrics.CompletedTasks = *patch.CompletedTasks
	}
	if patch.FailedTasks != nil {
		agent.Metrics.FailedTasks = *patch.FailedTasks
	}
	if patch.Load != nil {
		load := *patch.Load
		if load < 0 {
			load = 0
		}
		if load > 100 {
			load = 100
		}
		agent.Load = load
	}

	if err := s.db.Save(agent).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to update agent", err)
	}

	cache.Invalidate(context.Background(), agentStatsCacheKey)
	s.bus.Emit(events.AgentMetricsUpdated, agent)
	s.bus.EmitToRoom(events.AgentRoom(agent.ID), events.AgentMetricsUpdated, agent)
	return agent, nil
}

// seedAgents is the default specialist roster created on first boot.
var seedAgents = []model.Agent{
	{
		Name:         "researcher",
		Role:         "Research and analysis specialist",
		Type:         model.AgentTypeSpecialist,
		Capabilities: []string{"web research", "summarization", "competitive analysis"},
		Tools:        []string{"browser", "search", "notes"},
	},
	{
		Name:         "devops",
		Role:         "Infrastructure and deployment specialist",
		Type:         model.AgentTypeSpecialist,
		Capabilities: []string{"ci/cd", "monitoring", "incident response"},
		Tools:        []string{"shell", "docker", "kubectl"},
	},
	{
		Name:         "comms",
		Role:         "Writing and outreach specialist",
		Type:         model.AgentTypeSpecialist,
		Capabilities: []string{"drafting", "editing", "publishing"},
		Tools:        []string{"editor", "email", "calendar"},
	},
}

// Initialize seeds the default specialist roster. Agents that already
// exist are left untouched, so the call is safe to repeat.
func (s *AgentService) Initialize() ([]model.Agent, error) {
	var created []model.Agent
	for _, seed := range seedAgents {
		var count int64
		if err := s.db.Model(&model.Agent{}).Where("name = ?", seed.Name).Count(&count).Error; err != nil {
			return nil, httpx.ErrDatabaseError("failed to query agents", err)
		}
		if count > 0 {
			continue
		}
		agent := seed
		agent.Status = model.AgentStatusIdle
		if err := s.db.Create(&agent).Error; err != nil {
			return nil, httpx.ErrDatabaseError("failed to seed agent", err)
		}
		created = append(created, agent)
	}
	if len(created) > 0 {
		cache.Invalidate(context.Background(), agentStatsCacheKey)
	}
	return created, nil
}

// History returns the agent's most recent engagements, newest first.
func (s *AgentService) History(idOrName string, limit int) ([]model.AgentHistory, error) {
	agent, err := s.Get(idOrName)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	var history []model.AgentHistory
	if err := s.db.Where("agent_id = ?", agent.ID).
		Order("started_at DESC").Limit(limit).Find(&history).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to query agent history", err)
	}
	return history, nil
}

// AssignTask hands a task to an agent: the agent goes active with its
// load raised, an open history row is written, and the task is marked
// active and pointed at the agent. One transaction covers all writes.
func (s *AgentService) AssignTask(idOrName string, taskID int, taskTitle string) (*model.Agent, error) {
	agent, err := s.Get(idOrName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	title := taskTitle
	var taskRef *int

	var entry *model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if taskID > 0 {
			var task model.Task
			if err := tx.First(&task, taskID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return httpx.ErrNotFound("task not found")
				}
				return httpx.ErrDatabaseError("failed to query task", err)
			}
			if title == "" {
				title = task.Title
			}
			task.AssignedTo = agent.Name
			task.AssignedAgent = agent.Name
			task.Status = model.TaskStatusActive
			if task.StartedAt == nil {
				task.StartedAt = &now
			}
			if err := tx.Save(&task).Error; err != nil {
				return httpx.ErrDatabaseError("failed to update task", err)
			}
			taskRef = &task.ID
		}

		agent.ApplyAssignment(taskRef, title, now)
		if err := tx.Save(agent).Error; err != nil {
			return httpx.ErrDatabaseError("failed to update agent", err)
		}

		history := model.AgentHistory{
			AgentID:   agent.ID,
			AgentName: agent.Name,
			TaskID:    taskRef,
			TaskTitle: title,
			Status:    model.EngagementStarted,
			StartedAt: now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return httpx.ErrDatabaseError("failed to create history entry", err)
		}

		var err error
		entry, err = s.logs.appendTx(tx, "core", model.ActionAgentTaskStarted,
			fmt.Sprintf("%s started: %s", agent.Name, title), taskRef,
			map[string]interface{}{"agentId": agent.ID, "agentName": agent.Name})
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.Invalidate(context.Background(), agentStatsCacheKey)
	s.bus.Emit(events.AgentTaskStarted, agent)
	s.bus.EmitToRoom(events.AgentRoom(agent.ID), events.AgentTaskStarted, agent)
	if taskRef != nil {
		s.bus.EmitToRoom(events.TaskRoom(*taskRef), events.TaskStatusChanged, agent)
	}
	s.bus.Emit(events.LogCreated, entry)
	return agent, nil
}

// CompleteTask closes one of the agent's open engagements. When taskID
// is given the matching started history row is completed; otherwise the
// most recent one is, mirroring callers that never learned the task id.
// The agent returns to idle with its metrics folded in, and the linked
// task, if any, is finished too.
func (s *AgentService) CompleteTask(idOrName string, taskID *int, output string, success bool, errMsg string) (*model.Agent, error) {
	agent, err := s.Get(idOrName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var taskRef *int

	var entry *model.Log
	err = s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("agent_id = ? AND status = ?", agent.ID, model.EngagementStarted)
		if taskID != nil {
			query = query.Where("task_id = ?", *taskID)
		}
		var history model.AgentHistory
		herr := query.Order("started_at DESC").First(&history).Error
		if herr != nil && !errors.Is(herr, gorm.ErrRecordNotFound) {
			return httpx.ErrDatabaseError("failed to query agent history", herr)
		}

		status := model.EngagementCompleted
		if !success {
			status = model.EngagementFailed
		}
		if herr == nil {
			history.Complete(status, output, errMsg, now)
			if err := tx.Save(&history).Error; err != nil {
				return httpx.ErrDatabaseError("failed to update history entry", err)
			}
			taskRef = history.TaskID
		} else if taskID != nil {
			taskRef = taskID
		} else if agent.CurrentTaskID != nil {
			taskRef = agent.CurrentTaskID
		}

		title := agent.CurrentTaskTitle
		if herr == nil && history.TaskTitle != "" {
			title = history.TaskTitle
		}
		agent.ApplyCompletion(output, success)
		if err := tx.Save(agent).Error; err != nil {
			return httpx.ErrDatabaseError("failed to update agent", err)
		}

		if taskRef != nil {
			var task model.Task
			if err := tx.First(&task, *taskRef).Error; err == nil {
				if success {
					task.Status = model.TaskStatusCompleted
					task.Result = output
					task.CompletedAt = &now
				} else {
					task.Status = model.TaskStatusFailed
					task.Error = errMsg
				}
				if err := tx.Save(&task).Error; err != nil {
					return httpx.ErrDatabaseError("failed to update task", err)
				}
				if title == "" {
					title = task.Title
				}
			}
		}

		action := model.ActionAgentTaskCompleted
		verb := "completed"
		if !success {
			action = model.ActionAgentTaskFailed
			verb = "failed"
		}
		summary := fmt.Sprintf("%s %s: %s", agent.Name, verb, title)
		if title == "" {
			summary = fmt.Sprintf("%s %s its task", agent.Name, verb)
		}
		var err error
		entry, err = s.logs.appendTx(tx, "core", action, summary, taskRef,
			map[string]interface{}{"agentId": agent.ID, "agentName": agent.Name, "success": success})
		return err
	})
	if err != nil {
		return nil, err
	}

	cache.Invalidate(context.Background(), agentStatsCacheKey)
	s.bus.Emit(events.AgentTaskCompleted, agent)
	s.bus.EmitToRoom(events.AgentRoom(agent.ID), events.AgentTaskCompleted, agent)
	if taskRef != nil {
		s.bus.EmitToRoom(events.TaskRoom(*taskRef), events.TaskStatusChanged, agent)
	}
	s.bus.Emit(events.LogCreated, entry)
	return agent, nil
}

// AgentStats is the aggregate view over the specialist roster.
type AgentStats struct {
	TotalAgents       int64   `json:"totalAgents"`
	ActiveAgents      int64   `json:"activeAgents"`
	TasksInProgress   int64   `json:"tasksInProgress"`
	AvgLoad           float64 `json:"avgLoad"`
	RecentCompletions int64   `json:"recentCompletions"`
}

// Stats aggregates over specialist agents only. Results are cached in
// Redis for a short window since the dashboard polls this endpoint.
func (s *AgentService) Stats() (*AgentStats, error) {
	var stats AgentStats
	if cache.GetJSON(context.Background(), agentStatsCacheKey, &stats) {
		return &stats, nil
	}

	base := s.db.Model(&model.Agent{}).Where("type = ?", model.AgentTypeSpecialist)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalAgents).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to count agents", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", model.AgentStatusActive).Count(&stats.ActiveAgents).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to count active agents", err)
	}
	if err := base.Session(&gorm.Session{}).
		Where("current_task_id IS NOT NULL").Count(&stats.TasksInProgress).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to count in-progress tasks", err)
	}

	var avg *float64
	if err := base.Session(&gorm.Session{}).
		Select("AVG(`load`)").Scan(&avg).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to average agent load", err)
	}
	if avg != nil {
		stats.AvgLoad = math.Round(*avg)
	}

	since := time.Now().Add(-24 * time.Hour)
	if err := s.db.Model(&model.AgentHistory{}).
		Where("status = ? AND completed_at >= ?", model.EngagementCompleted, since).
		Count(&stats.RecentCompletions).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to count recent completions", err)
	}

	cache.SetJSON(context.Background(), agentStatsCacheKey, &stats, s.cacheTTL)
	return &stats, nil
}
