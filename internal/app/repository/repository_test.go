package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"medscribe/internal/app/model"
	"medscribe/internal/app/repository/sqlite"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.Open(path, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *model.User {
	t.Helper()

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: "$2a$12$abcdefghijklmnopqrstuv",
		IsActive:       true,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")
	assert.NotZero(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byLogin, err := repo.FindByLogin(ctx, "jdoe@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byLogin.ID)

	byLogin, err = repo.FindByLogin(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byLogin.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "jdoe", "jdoe@example.com")

	err := repo.Create(ctx, &model.User{
		Username:       "other",
		Email:          "jdoe@example.com",
		HashedPassword: "x",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "jdoe", "jdoe@example.com")

	err := repo.Create(ctx, &model.User{
		Username:       "jdoe",
		Email:          "second@example.com",
		HashedPassword: "x",
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTranscriptionRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTranscriptionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")
	other := createTestUser(t, db, "other", "other@example.com")

	transcription := &model.Transcription{
		Title:    "Patient intake",
		UserID:   user.ID,
		Language: "en",
		Status:   model.StatusPending,
	}
	require.NoError(t, repo.Create(ctx, transcription))
	assert.NotZero(t, transcription.ID)

	found, err := repo.FindByID(ctx, transcription.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Patient intake", found.Title)
	assert.Equal(t, model.StatusPending, found.Status)

	// Another user must not see the row
	_, err = repo.FindByID(ctx, transcription.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	found.Content = "recognized text"
	found.Status = model.StatusCompleted
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.FindByID(ctx, transcription.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "recognized text", updated.Content)
	assert.Equal(t, model.StatusCompleted, updated.Status)
}

func TestTranscriptionRepository_ListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTranscriptionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")

	older := &model.Transcription{Title: "older", UserID: user.ID}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer := &model.Transcription{Title: "newer", UserID: user.ID}
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)
	assert.Equal(t, "older", list[1].Title)
}

func TestTranscriptionRepository_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTranscriptionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")

	transcription := &model.Transcription{Title: "to delete", UserID: user.ID}
	require.NoError(t, repo.Create(ctx, transcription))

	require.NoError(t, repo.Delete(ctx, transcription.ID, user.ID))

	_, err := repo.FindByID(ctx, transcription.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Deleting twice reports not found
	assert.ErrorIs(t, repo.Delete(ctx, transcription.ID, user.ID), ErrNotFound)
}

func TestTranslationRepository_OwnershipJoin(t *testing.T) {
	db := setupTestDB(t)
	transcriptions := NewTranscriptionRepository(db)
	translations := NewTranslationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")
	other := createTestUser(t, db, "other", "other@example.com")

	transcription := &model.Transcription{Title: "visit notes", UserID: user.ID, Language: "en"}
	require.NoError(t, transcriptions.Create(ctx, transcription))

	translation := &model.Translation{
		TranscriptionID: transcription.ID,
		Content:         "notas de la visita",
		SourceLanguage:  "en",
		TargetLanguage:  "es",
		Status:          "completed",
	}
	require.NoError(t, translations.Create(ctx, translation))

	found, err := translations.FindByID(ctx, translation.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, transcription.ID, found.TranscriptionID)
	assert.Equal(t, "en", found.SourceLanguage)
	assert.Equal(t, "es", found.TargetLanguage)

	_, err = translations.FindByID(ctx, translation.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Soft-deleting the transcription hides its translations
	require.NoError(t, transcriptions.Delete(ctx, transcription.ID, user.ID))
	_, err = translations.FindByID(ctx, translation.ID, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslationRepository_ListByTranscription(t *testing.T) {
	db := setupTestDB(t)
	transcriptions := NewTranscriptionRepository(db)
	translations := NewTranslationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")
	transcription := &model.Transcription{Title: "notes", UserID: user.ID}
	require.NoError(t, transcriptions.Create(ctx, transcription))

	for _, target := range []string{"es", "fr"} {
		require.NoError(t, translations.Create(ctx, &model.Translation{
			TranscriptionID: transcription.ID,
			Content:         "text",
			SourceLanguage:  "en",
			TargetLanguage:  target,
		}))
	}

	list, err := translations.ListByTranscription(ctx, transcription.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTranscriptionRepository_RetentionMethods(t *testing.T) {
	db := setupTestDB(t)
	transcriptions := NewTranscriptionRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")

	old := &model.Transcription{Title: "old", UserID: user.ID}
	require.NoError(t, transcriptions.Create(ctx, old))
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	// Soft-deleted rows still age out, so retention must see them.
	softDeleted := &model.Transcription{Title: "soft deleted", UserID: user.ID}
	require.NoError(t, transcriptions.Create(ctx, softDeleted))
	require.NoError(t, db.Model(softDeleted).Update("created_at", time.Now().Add(-48*time.Hour)).Error)
	require.NoError(t, transcriptions.Delete(ctx, softDeleted.ID, user.ID))

	fresh := &model.Transcription{Title: "fresh", UserID: user.ID}
	require.NoError(t, transcriptions.Create(ctx, fresh))

	expired, err := transcriptions.ListCreatedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 2)

	for _, row := range expired {
		require.NoError(t, transcriptions.HardDelete(ctx, row.ID))
	}

	list, err := transcriptions.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].Title)

	var total int64
	require.NoError(t, db.Unscoped().Model(&model.Transcription{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}

func TestTranslationRepository_RetentionMethods(t *testing.T) {
	db := setupTestDB(t)
	transcriptions := NewTranscriptionRepository(db)
	translations := NewTranslationRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")
	parent := &model.Transcription{Title: "notes", UserID: user.ID}
	require.NoError(t, transcriptions.Create(ctx, parent))

	old := &model.Translation{TranscriptionID: parent.ID, Content: "viejo", SourceLanguage: "en", TargetLanguage: "es"}
	require.NoError(t, translations.Create(ctx, old))
	require.NoError(t, db.Model(old).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	fresh := &model.Translation{TranscriptionID: parent.ID, Content: "nuevo", SourceLanguage: "en", TargetLanguage: "es"}
	require.NoError(t, translations.Create(ctx, fresh))

	expired, err := translations.ListCreatedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "viejo", expired[0].Content)

	require.NoError(t, translations.HardDelete(ctx, expired[0].ID))

	list, err := translations.ListByTranscription(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "nuevo", list[0].Content)
}

func TestAuditLogRepository_PurgeOlderThan(t *testing.T) {
	db := setupTestDB(t)
	audits := NewAuditLogRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "jdoe", "jdoe@example.com")

	entry := &model.AuditLog{UserID: user.ID, ResourceType: "transcription", Action: "create"}
	require.NoError(t, audits.Create(ctx, entry))
	require.NoError(t, db.Model(entry).Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	fresh := &model.AuditLog{UserID: user.ID, ResourceType: "transcription", Action: "view"}
	require.NoError(t, audits.Create(ctx, fresh))

	removed, err := audits.PurgeOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var total int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&total).Error)
	assert.Equal(t, int64(1), total)
}
