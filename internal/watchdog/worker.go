package watchdog

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agent_console/internal/events"
	"agent_console/internal/model"
)

// Worker periodically closes engagements that have been open longer
// than the stale threshold. The history row moves to timeout, the
// agent returns to idle with its load lowered, and the linked task is
// marked blocked so a human notices.
type Worker struct {
	ctx        context.Context
	cancel     context.CancelFunc
	db         *gorm.DB
	bus        events.Bus
	logger     *logrus.Entry
	interval   time.Duration
	staleAfter time.Duration
}

// Config holds the configuration for the watchdog worker
type Config struct {
	DB            *gorm.DB
	Bus           events.Bus
	Logger        *logrus.Entry
	IntervalSec   int
	StaleAfterSec int
}

// NewWorker creates a new watchdog worker
func NewWorker(cfg *Config) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:        ctx,
		cancel:     cancel,
		db:         cfg.DB,
		bus:        cfg.Bus,
		logger:     cfg.Logger.WithField("component", "watchdog"),
		interval:   time.Duration(cfg.IntervalSec) * time.Second,
		staleAfter: time.Duration(cfg.StaleAfterSec) * time.Second,
	}
}

// Start begins the periodic sweep.
func (w *Worker) Start() {
	w.logger.Info("Starting watchdog worker...")
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.sweep()
			case <-w.ctx.Done():
				w.logger.Info("Stopping watchdog worker...")
				return
			}
		}
	}()
}

// Stop terminates the worker.
func (w *Worker) Stop() {
	w.cancel()
}

func (w *Worker) sweep() {
	cutoff := time.Now().Add(-w.staleAfter)

	var stale []model.AgentHistory
	if err := w.db.Where("status = ? AND started_at < ?", model.EngagementStarted, cutoff).
		Find(&stale).Error; err != nil {
		w.logger.WithError(err).Error("Failed to query stale engagements")
		return
	}
	if len(stale) == 0 {
		return
	}
	w.logger.WithField("count", len(stale)).Warn("Found stale engagements")

	for i := range stale {
		if err := w.timeOut(&stale[i]); err != nil {
			w.logger.WithError(err).WithField("historyId", stale[i].ID).Error("Failed to time out engagement")
		}
	}
}

func (w *Worker) timeOut(history *model.AgentHistory) error {
	now := time.Now()
	var agent *model.Agent

	err := w.db.Transaction(func(tx *gorm.DB) error {
		history.Complete(model.EngagementTimeout, "", "timed out by watchdog", now)
		if err := tx.Save(history).Error; err != nil {
			return err
		}

		var a model.Agent
		if err := tx.First(&a, history.AgentID).Error; err == nil {
			a.Status = model.AgentStatusIdle
			a.CurrentTaskID = nil
			a.CurrentTaskTitle = ""
			a.Load -= model.LoadStep
			if a.Load < 0 {
				a.Load = 0
			}
			if err := tx.Save(&a).Error; err != nil {
				return err
			}
			agent = &a
		}

		if history.TaskID != nil {
			var task model.Task
			if err := tx.First(&task, *history.TaskID).Error; err == nil {
				task.Status = model.TaskStatusBlocked
				task.BlockedReason = "agent engagement timed out"
				if err := tx.Save(&task).Error; err != nil {
					return err
				}
			}
		}

		entry := model.Log{
			Actor:            "system",
			Action:           model.ActionAgentTaskTimeout,
			ReasoningSummary: fmt.Sprintf("%s timed out on: %s", history.AgentName, history.TaskTitle),
			TaskID:           history.TaskID,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return err
	}

	w.bus.Emit(events.AgentTaskTimeout, history)
	if agent != nil {
		w.bus.EmitToRoom(events.AgentRoom(agent.ID), events.AgentTaskTimeout, history)
	}
	if history.TaskID != nil {
		w.bus.EmitToRoom(events.TaskRoom(*history.TaskID), events.AgentTaskTimeout, history)
	}
	return nil
}
