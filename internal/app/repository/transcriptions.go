package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"medscribe/internal/app/model"
)

// GormTranscriptionRepository is the gorm-backed TranscriptionRepository.
type GormTranscriptionRepository struct {
	db *gorm.DB
}

// NewTranscriptionRepository creates a gorm-backed transcription repository.
func NewTranscriptionRepository(db *gorm.DB) *GormTranscriptionRepository {
	return &GormTranscriptionRepository{db: db}
}

func (r *GormTranscriptionRepository) Create(ctx context.Context, transcription *model.Transcription) error {
	if err := r.db.WithContext(ctx).Create(transcription).Error; err != nil {
		return fmt.Errorf("create transcription: %w", translateError(err))
	}
	return nil
}

func (r *GormTranscriptionRepository) FindByID(ctx context.Context, id, userID uint) (*model.Transcription, error) {
	var transcription model.Transcription
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&transcription).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &transcription, nil
}

func (r *GormTranscriptionRepository) ListByUser(ctx context.Context, userID uint) ([]model.Transcription, error) {
	var transcriptions []model.Transcription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transcriptions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return transcriptions, nil
}

func (r *GormTranscriptionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Transcription{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *GormTranscriptionRepository) Update(ctx context.Context, transcription *model.Transcription) error {
	if err := r.db.WithContext(ctx).Save(transcription).Error; err != nil {
		return fmt.Errorf("update transcription: %w", translateError(err))
	}
	return nil
}

func (r *GormTranscriptionRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Transcription{})
	if result.Error != nil {
		return fmt.Errorf("delete transcription: %w", translateError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormTranscriptionRepository) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.Transcription, error) {
	var transcriptions []model.Transcription
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", cutoff).
		Find(&transcriptions).Error
	if err != nil {
		return nil, translateError(err)
	}
	return transcriptions, nil
}

func (r *GormTranscriptionRepository) HardDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&model.Transcription{})
	if result.Error != nil {
		return fmt.Errorf("hard delete transcription: %w", translateError(result.Error))
	}
	return nil
}
