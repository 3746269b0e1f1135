package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS generation_log (
		id UUID PRIMARY KEY,
		kind VARCHAR(32) NOT NULL,
		record_id VARCHAR(128) NOT NULL,
		pages INTEGER NOT NULL DEFAULT 0,
		bytes INTEGER NOT NULL DEFAULT 0,
		attempts INTEGER NOT NULL DEFAULT 0,
		status VARCHAR(16) NOT NULL,
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_generation_log_created_at ON generation_log (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_generation_log_kind_record ON generation_log (kind, record_id);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
