package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"agent_console/internal/events"
	"agent_console/internal/model"
)

// newTestDB opens an in-memory SQLite database with the schema the
// services touch. The tables are created with raw DDL because the model
// column tags carry MySQL enum types SQLite does not parse.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	ddl := []string{
		`CREATE TABLE agents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			updated_at DATETIME,
			name TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			type TEXT DEFAULT 'specialist',
			status TEXT DEFAULT 'idle',
			current_task_id INTEGER,
			current_task_title TEXT,
			load INTEGER DEFAULT 0,
			capabilities TEXT,
			tools TEXT,
			performance_metrics TEXT,
			last_output TEXT,
			last_active_at DATETIME
		)`,
		`CREATE TABLE tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			updated_at DATETIME,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT DEFAULT 'queued',
			source TEXT DEFAULT 'human',
			assigned_to TEXT,
			assigned_agent TEXT,
			agent_type TEXT,
			delegation_id TEXT,
			started_at DATETIME,
			completed_at DATETIME,
			parent_task_id INTEGER,
			dependency_ids TEXT,
			metadata TEXT,
			progress_updates TEXT,
			result TEXT,
			blocked_reason TEXT,
			error TEXT,
			output_file TEXT,
			output_type TEXT,
			tokens_used INTEGER DEFAULT 0,
			agent_name TEXT
		)`,
		`CREATE TABLE agent_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			updated_at DATETIME,
			agent_id INTEGER NOT NULL,
			agent_name TEXT NOT NULL,
			task_id INTEGER,
			task_title TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at DATETIME,
			completed_at DATETIME,
			duration INTEGER DEFAULT 0,
			output TEXT,
			error TEXT,
			metadata TEXT
		)`,
		`CREATE TABLE logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			reasoning_summary TEXT,
			task_id INTEGER,
			metadata TEXT
		)`,
	}
	for _, stmt := range ddl {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newAgentService(t *testing.T) (*AgentService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logs := NewLogService(db, events.NopBus{})
	return NewAgentService(db, events.NopBus{}, logs, 0), db
}

func seedTask(t *testing.T, db *gorm.DB, title string) *model.Task {
	t.Helper()
	task := &model.Task{Title: title, Status: model.TaskStatusQueued, Source: model.TaskSourceCore}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func TestAssignCompleteRoundTrip(t *testing.T) {
	svc, db := newAgentService(t)

	agent, err := svc.Create(&model.Agent{Name: "researcher", Role: "research", Type: model.AgentTypeSpecialist})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	task := seedTask(t, db, "survey prior art")

	assigned, err := svc.AssignTask("researcher", task.ID, "")
	if err != nil {
		t.Fatalf("AssignTask: %v", err)
	}
	if assigned.Status != model.AgentStatusActive || assigned.Load != model.LoadStep {
		t.Errorf("after assign: status=%s load=%d", assigned.Status, assigned.Load)
	}
	if assigned.CurrentTaskID == nil || *assigned.CurrentTaskID != task.ID {
		t.Errorf("after assign: currentTaskId=%v", assigned.CurrentTaskID)
	}

	done, err := svc.CompleteTask("researcher", &task.ID, "findings attached", true, "")
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if done.Status != model.AgentStatusIdle || done.Load != 0 {
		t.Errorf("after complete: status=%s load=%d", done.Status, done.Load)
	}
	if done.CurrentTaskID != nil {
		t.Errorf("after complete: currentTaskId=%v", done.CurrentTaskID)
	}
	if done.Metrics.TotalTasks != 1 || done.Metrics.CompletedTasks != 1 || done.Metrics.SuccessRate != 100 {
		t.Errorf("unexpected metrics %+v", done.Metrics)
	}

	var history model.AgentHistory
	if err := db.Where("agent_id = ?", agent.ID).First(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if history.Status != model.EngagementCompleted {
		t.Errorf("history status = %s", history.Status)
	}
	if history.CompletedAt == nil || history.Duration < 0 {
		t.Errorf("history not closed: completedAt=%v duration=%d", history.CompletedAt, history.Duration)
	}

	var reloaded model.Task
	if err := db.First(&reloaded, task.ID).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if reloaded.Status != model.TaskStatusCompleted || reloaded.Result != "findings attached" {
		t.Errorf("task after complete: status=%s result=%q", reloaded.Status, reloaded.Result)
	}
	if reloaded.CompletedAt == nil {
		t.Error("task completedAt not set")
	}
}

func TestCompleteTaskTargetsNamedEngagement(t *testing.T) {
	svc, db := newAgentService(t)

	if _, err := svc.Create(&model.Agent{Name: "devops", Role: "infra", Type: model.AgentTypeSpecialist}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	first := seedTask(t, db, "provision staging")
	second := seedTask(t, db, "rotate credentials")

	if _, err := svc.AssignTask("devops", first.ID, ""); err != nil {
		t.Fatalf("assign first: %v", err)
	}
	if _, err := svc.AssignTask("devops", second.ID, ""); err != nil {
		t.Fatalf("assign second: %v", err)
	}

	if _, err := svc.CompleteTask("devops", &first.ID, "staging up", true, ""); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	var firstHistory, secondHistory model.AgentHistory
	if err := db.Where("task_id = ?", first.ID).First(&firstHistory).Error; err != nil {
		t.Fatalf("load first history: %v", err)
	}
	if err := db.Where("task_id = ?", second.ID).First(&secondHistory).Error; err != nil {
		t.Fatalf("load second history: %v", err)
	}
	if firstHistory.Status != model.EngagementCompleted {
		t.Errorf("first history status = %s", firstHistory.Status)
	}
	if secondHistory.Status != model.EngagementStarted {
		t.Errorf("second history status = %s, engagement should remain open", secondHistory.Status)
	}

	var firstTask, secondTask model.Task
	if err := db.First(&firstTask, first.ID).Error; err != nil {
		t.Fatalf("reload first task: %v", err)
	}
	if err := db.First(&secondTask, second.ID).Error; err != nil {
		t.Fatalf("reload second task: %v", err)
	}
	if firstTask.Status != model.TaskStatusCompleted || firstTask.Result != "staging up" {
		t.Errorf("first task: status=%s result=%q", firstTask.Status, firstTask.Result)
	}
	if secondTask.Status != model.TaskStatusActive {
		t.Errorf("second task status = %s, want active", secondTask.Status)
	}
}
