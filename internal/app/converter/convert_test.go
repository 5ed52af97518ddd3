package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"medscribe/internal/app/api"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
	"medscribe/internal/app/repository/sqlite"
)

type stubTranscriber struct {
	mu      sync.Mutex
	text    string
	failOn  string
	latency time.Duration
	calls   int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (api.TranscriptionResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.latency > 0 {
		time.Sleep(s.latency)
	}
	if s.failOn != "" && filepath.Base(inputFilePath) == s.failOn {
		return api.TranscriptionResult{}, errors.New("provider unavailable")
	}
	return api.TranscriptionResult{Text: s.text, Language: language}, nil
}

func (s *stubTranscriber) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func writeAudioFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("fake audio"), 0o644))
	}
}

func TestConverterRunWritesSidecars(t *testing.T) {
	dir := t.TempDir()
	writeAudioFiles(t, dir, "visit1.mp3", "visit2.mp3", "visit3.mp3")

	transcriber := &stubTranscriber{text: "Patient reports mild symptoms.", latency: 5 * time.Millisecond}
	c := New(transcriber, nil, zap.NewNop())

	result, err := c.Run(context.Background(), Options{InputDir: dir, Parallel: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 3, transcriber.callCount())

	for _, name := range []string{"visit1.txt", "visit2.txt", "visit3.txt"} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, "Patient reports mild symptoms.\n", string(content))
	}
}

func TestConverterRunSkipsExistingTranscripts(t *testing.T) {
	dir := t.TempDir()
	writeAudioFiles(t, dir, "a.mp3", "b.mp3")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("done\n"), 0o644))

	transcriber := &stubTranscriber{text: "new text"}
	c := New(transcriber, nil, zap.NewNop())

	result, err := c.Run(context.Background(), Options{InputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, transcriber.callCount())

	// The existing transcript is left alone.
	content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "done\n", string(content))
}

func TestConverterRunHonorsLimitAndExtension(t *testing.T) {
	dir := t.TempDir()
	writeAudioFiles(t, dir, "one.mp3", "two.mp3", "three.wav", "notes.txt")

	transcriber := &stubTranscriber{text: "text"}
	c := New(transcriber, nil, zap.NewNop())

	result, err := c.Run(context.Background(), Options{InputDir: dir, Extension: "mp3", Limit: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, transcriber.callCount())

	_, err = os.Stat(filepath.Join(dir, "three.txt"))
	assert.True(t, os.IsNotExist(err), "wav file must not be picked up")
}

func TestConverterRunContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	writeAudioFiles(t, dir, "good1.mp3", "bad.mp3", "good2.mp3")

	transcriber := &stubTranscriber{text: "text", failOn: "bad.mp3"}
	c := New(transcriber, nil, zap.NewNop())

	result, err := c.Run(context.Background(), Options{InputDir: dir})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)

	_, err = os.Stat(filepath.Join(dir, "bad.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestConverterRunSeparateOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "transcripts")
	writeAudioFiles(t, dir, "visit.mp3")

	c := New(&stubTranscriber{text: "text"}, nil, zap.NewNop())

	result, err := c.Run(context.Background(), Options{InputDir: dir, OutputDir: out})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	_, err = os.Stat(filepath.Join(out, "visit.txt"))
	assert.NoError(t, err)
}

func TestConverterRunPersistsRows(t *testing.T) {
	db := newConverterTestDB(t)
	user := &model.User{
		Username:       "jdoe",
		Email:          "jdoe@example.com",
		HashedPassword: "$2a$12$abcdefghijklmnopqrstuv",
		IsActive:       true,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))

	dir := t.TempDir()
	writeAudioFiles(t, dir, "ward_round.mp3", "silence.mp3")

	// Blank text marks the row as no speech detected.
	transcriber := &silenceAwareTranscriber{silent: "silence.mp3", text: "Rounds completed."}
	repo := repository.NewTranscriptionRepository(db)
	c := New(transcriber, repo, zap.NewNop())

	result, err := c.Run(context.Background(), Options{InputDir: dir, UserID: user.ID, Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	rows, err := repo.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byTitle := map[string]model.Transcription{}
	for _, row := range rows {
		byTitle[row.Title] = row
	}
	assert.Equal(t, model.StatusCompleted, byTitle["ward_round"].Status)
	assert.Equal(t, "Rounds completed.", byTitle["ward_round"].Content)
	assert.Equal(t, "en", byTitle["ward_round"].Language)
	assert.Equal(t, model.StatusNoSpeechDetected, byTitle["silence"].Status)
	assert.Empty(t, byTitle["silence"].Content)
}

func TestConverterRunWithoutTranscriber(t *testing.T) {
	c := New(nil, nil, zap.NewNop())

	_, err := c.Run(context.Background(), Options{InputDir: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestConverterRunMissingDirectory(t *testing.T) {
	c := New(&stubTranscriber{}, nil, zap.NewNop())

	_, err := c.Run(context.Background(), Options{InputDir: filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read input directory")
}

type silenceAwareTranscriber struct {
	silent string
	text   string
}

func (s *silenceAwareTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (api.TranscriptionResult, error) {
	if strings.HasSuffix(inputFilePath, s.silent) {
		return api.TranscriptionResult{Text: "   "}, nil
	}
	return api.TranscriptionResult{Text: s.text, Language: language}, nil
}

func newConverterTestDB(t *testing.T) *gorm.DB {
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
