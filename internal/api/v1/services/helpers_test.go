package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/app/api"
	"medscribe/internal/app/audio"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
	"medscribe/internal/app/repository/sqlite"
	"medscribe/internal/app/storage"
	"medscribe/internal/config"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.Open(path, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username, email string) *model.User {
	t.Helper()

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: "$2a$12$abcdefghijklmnopqrstuv",
		IsActive:       true,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}

func newTestValidator() *audio.Validator {
	return audio.NewValidator(config.StorageConfig{
		AllowedAudioExtensions: []string{".mp3", ".wav", ".ogg", ".m4a", ".flac"},
		MaxUploadSize:          1 << 20,
	})
}

func newTestAudit(db *gorm.DB) AuditService {
	return NewAuditService(repository.NewAuditLogRepository(db), zap.NewNop())
}

func newTestStore(t *testing.T) (*storage.LocalStore, string) {
	t.Helper()

	root := t.TempDir()
	store, err := storage.NewLocalStore(root)
	require.NoError(t, err)
	return store, root
}

// requireAPIError asserts the error is an APIError with the wanted status
// and, when non-empty, machine code.
func requireAPIError(t *testing.T, err error, status int, code string) *apierrors.APIError {
	t.Helper()

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.HTTPStatus())
	if code != "" {
		assert.Equal(t, code, apiErr.Code)
	}
	return apiErr
}

func countAuditRows(t *testing.T, db *gorm.DB, action string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&model.AuditLog{}).Where("action = ?", action).Count(&n).Error)
	return n
}

type stubTranscriber struct {
	result    api.TranscriptionResult
	err       error
	gotPath   string
	gotLang   string
	callsMade int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (api.TranscriptionResult, error) {
	s.callsMade++
	s.gotPath = inputFilePath
	s.gotLang = language
	if s.err != nil {
		return api.TranscriptionResult{}, s.err
	}
	return s.result, nil
}

type stubAnalyzer struct {
	report  map[string]any
	summary string
	err     error
}

func (s *stubAnalyzer) AnalyzeMedicalCoding(ctx context.Context, text string) (map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *stubAnalyzer) Summarize(ctx context.Context, text string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.summary, nil
}

// stubTranslator answers with "[target] text" unless a reply function or
// error is configured.
type stubTranslator struct {
	reply     func(text string) string
	err       error
	callsMade int
	gotTexts  []string
}

func (s *stubTranslator) Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error) {
	s.callsMade++
	s.gotTexts = append(s.gotTexts, text)
	if s.err != nil {
		return "", s.err
	}
	if s.reply != nil {
		return s.reply(text), nil
	}
	return "[" + targetLanguage + "] " + text, nil
}

type stubSynthesizer struct {
	data []byte
	err  error
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string, voice string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}
