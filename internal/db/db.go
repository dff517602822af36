package db

import (
	"errors"
	"os"
	"strings"
	"time"

	"tragedy-commons/internal/config"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects using DATABASE_URL and applies the pool settings. A
// sqlite:// URL opens a local SQLite file instead of Postgres.
func Open(cfg config.Config) (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.Env == "prod" {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}
	dialector := postgres.Open(dsn)
	if path, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		dialector = sqlite.Open(path)
	}
	conn, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
	return conn, nil
}

// Migrate runs GORM auto-migrations for the core tables.
func Migrate(conn *gorm.DB, log *zap.Logger) error {
	if conn == nil {
		return errors.New("db connection is nil")
	}
	if err := conn.AutoMigrate(
		&GameRequest{},
		&Player{},
		&RoundEntry{},
		&Event{},
		&Session{},
	); err != nil {
		return err
	}
	if log != nil {
		log.Info("database migration complete")
	}
	return nil
}
