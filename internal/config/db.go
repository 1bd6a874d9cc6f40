package config

import (
	"fmt"

	"github.com/emrgen/docversion/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetDb opens the configured database and applies the pool settings.
func GetDb(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Type {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		if err := ensureDir(cfg.Database.Path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(cfg.Database.Path + "?_busy_timeout=5000&_foreign_keys=on")
	}

	level := logger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         store.NewGormLogger(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	maxOpen := cfg.Database.MaxOpenConns
	if cfg.Database.Type != "postgres" {
		// sqlite allows a single writer
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logrus.Infof("connected to %s database: max_open_conns=%d max_idle_conns=%d", cfg.Database.Type, maxOpen, cfg.Database.MaxIdleConns)

	return db, nil
}
