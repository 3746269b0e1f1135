package model

import (
	"time"

	"github.com/google/uuid"
)

type GenerationStatus string

const (
	GenerationStatusReady  GenerationStatus = "READY"
	GenerationStatusFailed GenerationStatus = "FAILED"
)

type GenerationRecord struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Kind      Kind             `gorm:"size:32;not null" json:"kind"`
	RecordID  string           `gorm:"size:128;not null" json:"record_id"`
	Pages     int              `gorm:"not null" json:"pages"`
	Bytes     int              `gorm:"not null" json:"bytes"`
	Attempts  int              `gorm:"not null" json:"attempts"`
	Status    GenerationStatus `gorm:"size:16;not null" json:"status"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `gorm:"not null" json:"created_at"`
}

func (GenerationRecord) TableName() string {
	return "generation_log"
}
