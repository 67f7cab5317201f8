package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "agent_console/api/v1"
	"agent_console/internal/auth"
	"agent_console/internal/cache"
	"agent_console/internal/config"
	"agent_console/internal/db"
	"agent_console/internal/watchdog"
	"agent_console/internal/ws"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("✓ Configuration loaded")

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.GetDB()); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("✓ Migrations applied")
	}

	// 3. Initialize Redis (optional, aggregate caching only)
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("⚠ Redis unavailable, continuing without cache: %v", err)
	} else {
		defer cache.Close()
	}

	// 4. Optional auth gate
	if cfg.JWT.Enabled() {
		auth.InitJWT(cfg.JWT.Secret)
		log.Println("✓ Auth enabled")
	} else {
		log.Println("⚠ JWT_SECRET not set, auth disabled")
	}

	// 5. Realtime event bus
	bus := ws.NewServer()
	go func() {
		if err := bus.Serve(); err != nil {
			log.Printf("⚠ Socket server stopped: %v", err)
		}
	}()
	defer bus.Close()

	// 6. Router
	gin.SetMode(gin.ReleaseMode)
	r := v1.SetupRouter(db.GetDB(), cfg, bus)

	wsHandler := bus.Handler(cfg.JWT.Enabled())
	r.GET("/socket.io/*any", gin.WrapH(wsHandler))
	r.POST("/socket.io/*any", gin.WrapH(wsHandler))

	// 7. Watchdog worker
	if cfg.Watchdog.Enabled && cfg.Watchdog.StaleAfterSec > 0 {
		worker := watchdog.NewWorker(&watchdog.Config{
			DB:            db.GetDB(),
			Bus:           bus,
			Logger:        logrus.NewEntry(logrus.StandardLogger()),
			IntervalSec:   cfg.Watchdog.IntervalSec,
			StaleAfterSec: cfg.Watchdog.StaleAfterSec,
		})
		worker.Start()
		defer worker.Stop()
	}

	// 8. Serve with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Printf("✓ Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("⚠ Forced shutdown: %v", err)
	}
	log.Println("✓ Server stopped")
}
