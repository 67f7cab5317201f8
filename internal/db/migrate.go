package db

import (
	"fmt"
	"log"

	"agent_console/internal/model"

	"gorm.io/gorm"
)

// Migrate runs database migrations for all models
func Migrate(db *gorm.DB) error {
	log.Println("Starting database migration...")

	models := []interface{}{
		&model.Task{},
		&model.Agent{},
		&model.AgentHistory{},
		&model.Log{},
		&model.SystemState{},
		&model.Document{},
		&model.Learning{},
		&model.Idea{},
		&model.User{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("✓ Database migration completed successfully (%d tables)", len(models))
	return nil
}
