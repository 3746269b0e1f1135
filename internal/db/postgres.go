package db

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nurpe/travel-docs/internal/config"
)

// New opens the generation log database and applies migrations. It returns nil when no DSN is configured.
func New(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	if cfg.DB.DSN == "" {
		log.Info().Msg("DB_DSN not set, generation log disabled")
		return nil, nil
	}

	level := gormlogger.Warn
	if cfg.Environment == "development" {
		level = gormlogger.Info
	}

	database, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(database); err != nil {
		return nil, err
	}

	log.Info().Int("max_open_conns", cfg.DB.MaxOpenConns).Msg("database connected")
	return database, nil
}
