package repository

import (
	"context"
	"errors"
	"time"

	"medscribe/internal/app/model"
)

// Sentinel errors returned by all repository implementations. Callers map
// these to API error kinds at the service boundary.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository provides access to user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByLogin resolves an identity that may be either an email address
	// or a username.
	FindByLogin(ctx context.Context, identity string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// TranscriptionRepository provides access to transcriptions. All read and
// write paths are scoped to the owning user; soft-deleted rows are excluded
// from every read. The retention methods are unscoped: they see and remove
// soft-deleted rows too.
type TranscriptionRepository interface {
	Create(ctx context.Context, transcription *model.Transcription) error
	FindByID(ctx context.Context, id, userID uint) (*model.Transcription, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Transcription, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	Update(ctx context.Context, transcription *model.Transcription) error
	Delete(ctx context.Context, id, userID uint) error
	// ListCreatedBefore returns rows created before the cutoff, including
	// soft-deleted ones.
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.Transcription, error)
	// HardDelete permanently removes a row and, through the cascade, its
	// translations.
	HardDelete(ctx context.Context, id uint) error
}

// TranslationRepository provides access to translations.
type TranslationRepository interface {
	Create(ctx context.Context, translation *model.Translation) error
	// FindByID joins the owning transcription so that a caller can only see
	// translations of transcriptions it owns.
	FindByID(ctx context.Context, id, userID uint) (*model.Translation, error)
	Update(ctx context.Context, translation *model.Translation) error
	ListByTranscription(ctx context.Context, transcriptionID uint) ([]model.Translation, error)
	ListCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.Translation, error)
	HardDelete(ctx context.Context, id uint) error
}

// AuditLogRepository records access to protected resources. Rows are
// append-only.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
