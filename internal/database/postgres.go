package database

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vitalog/internal/config"
	"vitalog/internal/database/migrations"
)

// Document is one stored JSON document addressed by (collection, doc_id).
// Deletes are hard deletes so a ref can be recreated without colliding
// with the unique index.
type Document struct {
	ID         uint `gorm:"primarykey"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Collection string `gorm:"uniqueIndex:idx_documents_ref;size:512;not null"`
	DocID      string `gorm:"uniqueIndex:idx_documents_ref;size:256;not null"`
	Data       string `gorm:"type:jsonb;not null"`
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate first so SQL migrations can index the tables
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Get the directory of the current file
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("failed to get current file path")
	}
	migrationsDir := filepath.Join(filepath.Dir(filename), "migrations")

	// Load and run migrations
	if err := migrations.LoadSQLMigrations(db, migrationsDir); err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database connection established and migrations completed")
	return db, nil
}
