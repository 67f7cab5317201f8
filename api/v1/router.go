package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agent_console/api/v1/agents"
	"agent_console/api/v1/auth"
	"agent_console/api/v1/broadcast"
	"agent_console/api/v1/documents"
	"agent_console/api/v1/ideas"
	"agent_console/api/v1/learnings"
	"agent_console/api/v1/logs"
	"agent_console/api/v1/middleware"
	"agent_console/api/v1/system"
	"agent_console/api/v1/tasks"
	"agent_console/internal/cache"
	"agent_console/internal/config"
	"agent_console/internal/events"
	"agent_console/internal/httpx"
	"agent_console/internal/learningfiles"
	"agent_console/internal/service"
)

// Version is reported by the API index endpoint.
const Version = "1.0.0"

// SetupRouter configures the API routes
func SetupRouter(db *gorm.DB, cfg *config.Config, bus events.Bus) *gin.Engine {
	r := gin.Default()

	cacheTTL := time.Duration(cfg.Stats.CacheTTLSec) * time.Second

	logSvc := service.NewLogService(db, bus)
	taskSvc := service.NewTaskService(db, bus, logSvc)
	agentSvc := service.NewAgentService(db, bus, logSvc, cacheTTL)
	stateSvc := service.NewStateService(db, bus, logSvc)
	statsSvc := service.NewStatsService(db, cacheTTL)
	docSvc := service.NewDocumentService(db, bus)
	learningSvc := service.NewLearningService(db, bus, logSvc)
	ideaSvc := service.NewIdeaService(db)

	r.GET("/", indexHandler)
	r.GET("/health", livenessHandler(db))

	// Internal broadcast is for trusted callers only. When auth is off
	// the deployment is assumed to be private.
	internalGuard := middleware.NoAuth()
	if cfg.JWT.Enabled() {
		internalGuard = middleware.AuthRequired()
		r.POST("/api/auth/login", auth.LoginHandler(db, cfg))
	}
	r.POST("/internal/broadcast", internalGuard, broadcast.Handler(bus))

	api := r.Group("/api")
	{
		tasksHandler := tasks.NewHandler(taskSvc)
		tasksGroup := api.Group("/tasks")
		{
			tasksGroup.GET("", tasksHandler.List)
			tasksGroup.POST("", tasksHandler.Create)
			tasksGroup.GET("/:id", tasksHandler.Get)
			tasksGroup.DELETE("/:id", tasksHandler.Delete)
			tasksGroup.PATCH("/:id/status", tasksHandler.SetStatus)
			tasksGroup.PATCH("/:id/assign", tasksHandler.Assign)
			tasksGroup.POST("/:id/progress", tasksHandler.Progress)
			tasksGroup.PUT("/:id/output", tasksHandler.SetOutput)
			tasksGroup.GET("/:id/graph", tasksHandler.Graph)
		}

		agentsHandler := agents.NewHandler(agentSvc)
		agentsGroup := api.Group("/agents")
		{
			// fixed paths before /:id so "stats" is not read as a name
			agentsGroup.GET("/stats", agentsHandler.Stats)
			agentsGroup.POST("/initialize", agentsHandler.Initialize)
			agentsGroup.GET("", agentsHandler.List)
			agentsGroup.POST("", agentsHandler.Create)
			agentsGroup.GET("/:id", agentsHandler.Get)
			agentsGroup.DELETE("/:id", agentsHandler.Delete)
			agentsGroup.PATCH("/:id/status", agentsHandler.SetStatus)
			agentsGroup.PATCH("/:id/metrics", agentsHandler.UpdateMetrics)
			agentsGroup.GET("/:id/history", agentsHandler.History)
			agentsGroup.POST("/:id/assign-task", agentsHandler.Assign)
			agentsGroup.POST("/:id/complete-task", agentsHandler.Complete)
		}

		logsHandler := logs.NewHandler(logSvc)
		logsGroup := api.Group("/logs")
		{
			logsGroup.GET("/stats/summary", logsHandler.StatsSummary)
			logsGroup.GET("", logsHandler.List)
			logsGroup.POST("", logsHandler.Create)
			logsGroup.GET("/:id", logsHandler.Get)
			logsGroup.PUT("/:id", logsHandler.Update)
			logsGroup.DELETE("/:id", logsHandler.Delete)
		}

		docsHandler := documents.NewHandler(docSvc)
		docsGroup := api.Group("/documents")
		{
			docsGroup.GET("", docsHandler.List)
			docsGroup.POST("", docsHandler.Create)
			docsGroup.GET("/:id", docsHandler.Get)
			docsGroup.PUT("/:id", docsHandler.Update)
			docsGroup.DELETE("/:id", docsHandler.Delete)
			docsGroup.POST("/:id/link/:taskId", docsHandler.LinkTask)
		}

		learningsHandler := learnings.NewHandler(learningSvc, learningfiles.NewReader(cfg.Learnings.Dir))
		learningsGroup := api.Group("/learnings")
		{
			learningsGroup.GET("/files", learningsHandler.ListFiles)
			learningsGroup.GET("/files/:filename", learningsHandler.GetFile)
			learningsGroup.GET("", learningsHandler.List)
			learningsGroup.POST("", learningsHandler.Create)
			learningsGroup.GET("/:id", learningsHandler.Get)
			learningsGroup.PUT("/:id", learningsHandler.Update)
			learningsGroup.DELETE("/:id", learningsHandler.Delete)
		}

		ideasHandler := ideas.NewHandler(ideaSvc)
		ideasGroup := api.Group("/ideas")
		{
			ideasGroup.GET("", ideasHandler.List)
			ideasGroup.POST("", ideasHandler.Create)
			ideasGroup.PUT("/:id", ideasHandler.Update)
		}

		systemHandler := system.NewHandler(stateSvc, statsSvc)
		api.GET("/system", systemHandler.GetState)
		api.PUT("/system", systemHandler.UpdateState)
		systemGroup := api.Group("/system")
		{
			systemGroup.GET("/history", systemHandler.History)
			systemGroup.GET("/health", systemHandler.Health)
		}
	}

	return r
}

// indexHandler returns the API index
func indexHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"name":    "agent-console",
		"version": Version,
		"endpoints": []string{
			"/api/tasks", "/api/agents", "/api/logs", "/api/documents",
			"/api/learnings", "/api/ideas", "/api/system", "/health",
		},
	})
}

// livenessHandler reports process liveness and dependency reachability.
func livenessHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		mysqlStatus := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			mysqlStatus = "down"
		}

		redisStatus := "ok"
		if cache.Client == nil {
			redisStatus = "disabled"
		} else if err := cache.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "down"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"mysql":     mysqlStatus,
			"redis":     redisStatus,
		})
	}
}
