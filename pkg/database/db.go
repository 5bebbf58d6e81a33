package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// APIKey represents the api_keys table. Revoked rows are kept so a signed key
// cannot be re-registered by using it again.
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	Revoked    bool       `gorm:"not null;default:false" json:"revoked"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// APIUsage represents the api_usage table, one row per key and day
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalPlans   int    `gorm:"default:0" json:"total_plans"`
	TotalVideos  int    `gorm:"default:0" json:"total_videos"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// PlanRecord is a saved planning result
type PlanRecord struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	KeyID        uint      `gorm:"index" json:"key_id"`
	Config       string    `gorm:"type:text" json:"-"`
	Result       string    `gorm:"type:text" json:"-"`
	VideoCount   int       `json:"video_count"`
	TotalMinutes float64   `json:"total_duration_minutes"`
	WarningCount int       `json:"warning_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// Options selects the database. DatabaseURL wins over DataPath.
type Options struct {
	DatabaseURL string
	DataPath    string
	Quiet       bool
}

// InitDB opens the database connection and migrates the schema
func InitDB(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{}
	if opts.Quiet {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	var (
		db  *gorm.DB
		err error
	)
	if opts.DatabaseURL != "" {
		cfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DatabaseURL,
			PreferSimpleProtocol: true,
		}), cfg)
	} else {
		path := opts.DataPath
		if path == "" {
			path = "workout_scheduler.db"
		}
		db, err = gorm.Open(sqlite.Open(path), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &PlanRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return db, nil
}
