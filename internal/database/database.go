package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"probe-go/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// InitializeDatabase opens (and creates if needed) the journal at path.
func InitializeDatabase(path string) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return open(path)
}

// InitializeTestDatabase opens a private in-memory journal.
func InitializeTestDatabase() (*Database, error) {
	return open("file::memory:")
}

func open(dsn string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	// A single writer; an in-memory database also only lives on one connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Session{}, &models.Transition{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	return &Database{DB: db}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *Database) CreateSession(session *models.Session) error {
	if err := db.DB.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (db *Database) RecordTransition(sessionID string, transition *models.Transition) error {
	transition.SessionID = sessionID
	if err := db.DB.Create(transition).Error; err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}
	return nil
}

// FinishSession stores the final statistics of a session.
func (db *Database) FinishSession(session *models.Session) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Model(&models.Session{}).
			Where("id = ?", session.ID).
			Select("Probes", "Successes", "Failures", "Flaps", "Uptime", "Downtime",
				"RTTMin", "RTTAvg", "RTTMax", "FinalState", "EndedAt").
			Updates(session).Error
	})
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions, newest first, with their
// transitions in chronological order. An empty target matches all.
func (db *Database) ListSessions(target string, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 20
	}

	query := db.DB.
		Preload("Transitions", func(db *gorm.DB) *gorm.DB {
			return db.Order("transitions.created_at ASC")
		}).
		Order("sessions.created_at DESC").
		Limit(limit)
	if target != "" {
		query = query.Where("target = ?", target)
	}

	var sessions []models.Session
	if err := query.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
