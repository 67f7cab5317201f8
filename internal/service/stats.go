package service

import (
	"context"
	"math"
	"time"

	"gorm.io/gorm"

	"agent_console/internal/cache"
	"agent_console/internal/httpx"
	"agent_console/internal/model"
)

const healthCacheKey = "stats:health"

// StatsService computes the dashboard's aggregate health view.
type StatsService struct {
	db       *gorm.DB
	cacheTTL time.Duration
}

// NewStatsService creates a new StatsService
func NewStatsService(db *gorm.DB, cacheTTL time.Duration) *StatsService {
	return &StatsService{db: db, cacheTTL: cacheTTL}
}

// AgentDetail is the per-agent slice of the health report.
type AgentDetail struct {
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	Load        int     `json:"load"`
	SuccessRate float64 `json:"successRate"`
}

// HealthReport aggregates tasks, agents and recent log activity.
type HealthReport struct {
	Tasks struct {
		Total        int64            `json:"total"`
		ByStatus     map[string]int64 `json:"byStatus"`
		BlockedRatio float64          `json:"blockedRatio"`
		// AvgExecutionTime is seconds between start and completion of
		// completed tasks.
		AvgExecutionTime float64 `json:"avgExecutionTime"`
	} `json:"tasks"`
	Agents struct {
		Total   int64         `json:"total"`
		Active  int64         `json:"active"`
		AvgLoad float64       `json:"avgLoad"`
		Details []AgentDetail `json:"details"`
	} `json:"agents"`
	Logs struct {
		Last24h   int64   `json:"last24h"`
		ErrorRate float64 `json:"errorRate"`
	} `json:"logs"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Health builds the aggregate report, serving a cached copy when one
// is fresh.
func (s *StatsService) Health() (*HealthReport, error) {
	ctx := context.Background()

	var report HealthReport
	if cache.GetJSON(ctx, healthCacheKey, &report) {
		return &report, nil
	}

	report.Tasks.ByStatus = make(map[string]int64)

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := s.db.Model(&model.Task{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&counts).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to count tasks", err)
	}
	for _, c := range counts {
		report.Tasks.ByStatus[c.Status] = c.Count
		report.Tasks.Total += c.Count
	}
	if report.Tasks.Total > 0 {
		report.Tasks.BlockedRatio = round2(float64(report.Tasks.ByStatus[model.TaskStatusBlocked]) / float64(report.Tasks.Total))
	}

	var avgExec *float64
	if err := s.db.Model(&model.Task{}).
		Where("status = ? AND started_at IS NOT NULL AND completed_at IS NOT NULL", model.TaskStatusCompleted).
		Select("AVG(TIMESTAMPDIFF(SECOND, started_at, completed_at))").Scan(&avgExec).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to average execution time", err)
	}
	if avgExec != nil {
		report.Tasks.AvgExecutionTime = round2(*avgExec)
	}

	var agents []model.Agent
	if err := s.db.Order("name ASC").Find(&agents).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to query agents", err)
	}
	var loadSum int
	for _, a := range agents {
		report.Agents.Total++
		if a.Status == model.AgentStatusActive {
			report.Agents.Active++
		}
		loadSum += a.Load
		report.Agents.Details = append(report.Agents.Details, AgentDetail{
			Name:        a.Name,
			Status:      a.Status,
			Load:        a.Load,
			SuccessRate: a.Metrics.SuccessRate,
		})
	}
	if report.Agents.Total > 0 {
		report.Agents.AvgLoad = round2(float64(loadSum) / float64(report.Agents.Total))
	}

	since := time.Now().Add(-24 * time.Hour)
	if err := s.db.Model(&model.Log{}).
		Where("timestamp >= ?", since).Count(&report.Logs.Last24h).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to count recent logs", err)
	}
	var errCount int64
	if err := s.db.Model(&model.Log{}).
		Where("timestamp >= ? AND (action LIKE ? OR action LIKE ?)", since, "%FAILED%", "%ERROR%").
		Count(&errCount).Error; err != nil {
		return nil, httpx.ErrDatabaseError("failed to count error logs", err)
	}
	if report.Logs.Last24h > 0 {
		report.Logs.ErrorRate = round2(float64(errCount) / float64(report.Logs.Last24h))
	}

	report.GeneratedAt = time.Now()
	cache.SetJSON(ctx, healthCacheKey, &report, s.cacheTTL)
	return &report, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
