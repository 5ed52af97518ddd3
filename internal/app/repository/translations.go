package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"medscribe/internal/app/model"
)

// GormTranslationRepository is the gorm-backed TranslationRepository.
type GormTranslationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository creates a gorm-backed translation repository.
func NewTranslationRepository(db *gorm.DB) *GormTranslationRepository {
	return &GormTranslationRepository{db: db}
}

func (r *GormTranslationRepository) Create(ctx context.Context, translation *model.Translation) error {
	if err := r.db.WithContext(ctx).Create(translation).Error; err != nil {
		return fmt.Errorf("create translation: %w", translateError(err))
	}
	return nil
}

func (r *GormTranslationRepository) FindByID(ctx context.Context, id, userID uint) (*model.Translation, error) {
	var translation model.Translation
	err := r.db.WithContext(ctx).
		Joins("JOIN transcriptions ON transcriptions.id = translations.transcription_id").
		Where("translations.id = ? AND transcriptions.user_id = ? AND transcriptions.deleted_at IS NULL", id, userID).
		First(&translation).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &translation, nil
}

func (r *GormTranslationRepository) Update(ctx context.Context, translation *model.Translation) error {
	if err := r.db.WithContext(ctx).Save(translation).Error; err != nil {
		return fmt.Errorf("update translation: %w", translateError(err))
	}
	return nil
}

func (r *GormTranslationRepository) ListByTranscription(ctx context.Context, transcriptionID uint) ([]model.Translation, error) {
	var translations []model.Translation
	err := r.db.WithContext(ctx).
		Where("transcription_id = ?", transcriptionID).
		Order("created_at DESC").
		Find(&translations).Error
	if err != nil {
		return nil, translateError(err)
	}
	return translations, nil
}

func (r *GormTranslationRepository) ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.Translation, error) {
	var translations []model.Translation
	err := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Find(&translations).Error
	if err != nil {
		return nil, translateError(err)
	}
	return translations, nil
}

func (r *GormTranslationRepository) HardDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Translation{})
	if result.Error != nil {
		return fmt.Errorf("hard delete translation: %w", translateError(result.Error))
	}
	return nil
}
