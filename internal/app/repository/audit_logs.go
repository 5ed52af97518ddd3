package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"medscribe/internal/app/model"
)

// GormAuditLogRepository is the gorm-backed AuditLogRepository.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a gorm-backed audit log repository.
func NewAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

func (r *GormAuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create audit log: %w", translateError(err))
	}
	return nil
}

func (r *GormAuditLogRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge audit logs: %w", translateError(result.Error))
	}
	return result.RowsAffected, nil
}
