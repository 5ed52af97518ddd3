package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"medscribe/internal/app/model"
	"medscribe/internal/app/repository/pg"
	"medscribe/internal/app/repository/sqlite"
	"medscribe/internal/config"
)

// Open opens the configured relational store and returns a gorm handle with
// the connection pool applied. The URL scheme selects the driver:
// postgres:// (or postgresql://) and sqlite://<path>.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)

	switch {
	case strings.HasPrefix(cfg.URL, "postgres://"), strings.HasPrefix(cfg.URL, "postgresql://"):
		db, err = pg.Open(cfg.URL, gormCfg)
	case strings.HasPrefix(cfg.URL, "sqlite://"):
		db, err = sqlite.Open(strings.TrimPrefix(cfg.URL, "sqlite://"), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database URL %q", cfg.URL)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.Pool.MaxLifetime)

	return db, nil
}

// AutoMigrate creates or updates the schema for every entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Transcription{},
		&model.Translation{},
		&model.AuditLog{},
	)
}
