package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/travel-docs/internal/model"
)

const maxErrorLength = 1000

type GenerationLogRepository struct {
	db *gorm.DB
}

func NewGenerationLogRepository(db *gorm.DB) *GenerationLogRepository {
	return &GenerationLogRepository{db: db}
}

func (r *GenerationLogRepository) Create(ctx context.Context, record *model.GenerationRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.RecordID = strings.TrimSpace(record.RecordID)
	if len(record.Error) > maxErrorLength {
		record.Error = record.Error[:maxErrorLength]
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *GenerationLogRepository) ListRecent(ctx context.Context, limit int) ([]model.GenerationRecord, error) {
	var records []model.GenerationRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
