package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/app/api"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
	"medscribe/internal/app/storage"
)

var secureNamePattern = regexp.MustCompile(`^audio_\d{14}_[0-9a-f]{32}\.mp3$`)

func newTranscriptionFixture(t *testing.T, db *gorm.DB, transcriber api.Transcriber, analyzer api.Analyzer) (TranscriptionService, *storage.LocalStore, string) {
	t.Helper()

	store, root := newTestStore(t)
	svc := NewTranscriptionService(
		repository.NewTranscriptionRepository(db),
		transcriber,
		analyzer,
		newTestValidator(),
		store,
		newTestAudit(db),
		zap.NewNop(),
	)
	return svc, store, root
}

func mp3Upload(name, content string) UploadedAudio {
	return UploadedAudio{
		Filename: name,
		Size:     int64(len(content)),
		Reader:   bytes.NewReader([]byte(content)),
	}
}

func TestTranscriptionServiceCreate(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	svc, _, _ := newTranscriptionFixture(t, db, nil, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Transcription 1", first.Title)
	assert.Equal(t, "en", first.Language)
	assert.Equal(t, model.StatusPending, first.Status)

	second, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{Title: "Cardiology consult", Language: "es"})
	require.NoError(t, err)
	assert.Equal(t, "Cardiology consult", second.Title)
	assert.Equal(t, "es", second.Language)

	// Numbering counts only the owner's rows.
	other := newTestUser(t, db, "bob", "bob@example.com")
	third, err := svc.Create(ctx, other.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Transcription 1", third.Title)

	assert.EqualValues(t, 3, countAuditRows(t, db, "create"))
}

func TestTranscriptionServiceListIsScopedAndOrdered(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	other := newTestUser(t, db, "bob", "bob@example.com")
	svc, _, _ := newTranscriptionFixture(t, db, nil, nil)
	ctx := context.Background()

	for _, title := range []string{"first", "second"} {
		_, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{Title: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other.ID, &dto.CreateTranscriptionRequest{Title: "not mine"})
	require.NoError(t, err)

	rows, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "second", rows[0].Title)
	assert.Equal(t, "first", rows[1].Title)
}

func TestTranscriptionServiceGetRejectsForeignRows(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	other := newTestUser(t, db, "bob", "bob@example.com")
	svc, _, _ := newTranscriptionFixture(t, db, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{Title: "mine"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)

	_, err = svc.Get(ctx, other.ID, created.ID)
	apiErr := requireAPIError(t, err, http.StatusNotFound, apierrors.CodeResourceNotFound)
	assert.Equal(t, "Transcription not found", apiErr.Message)
}

func TestTranscriptionServiceUpdate(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	svc, _, _ := newTranscriptionFixture(t, db, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{Title: "before"})
	require.NoError(t, err)

	title := "after"
	status := model.StatusCompleted
	updated, err := svc.Update(ctx, user.ID, created.ID, &dto.UpdateTranscriptionRequest{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, created.Language, updated.Language)
	assert.EqualValues(t, 1, countAuditRows(t, db, "update"))
}

func TestTranscriptionServiceDelete(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	svc, _, _ := newTranscriptionFixture(t, db, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, created.ID))
	assert.EqualValues(t, 1, countAuditRows(t, db, "delete"))

	_, err = svc.Get(ctx, user.ID, created.ID)
	requireAPIError(t, err, http.StatusNotFound, apierrors.CodeResourceNotFound)
}

func TestUploadAndTranscribe(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	transcriber := &stubTranscriber{result: api.TranscriptionResult{Text: "  Patient reports mild chest pain.  ", Language: "en", Duration: 4.2}}
	svc, store, _ := newTranscriptionFixture(t, db, transcriber, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)

	out, err := svc.UploadAndTranscribe(ctx, user.ID, created.ID, mp3Upload("visit.mp3", "fake audio bytes"), false)
	require.NoError(t, err)
	assert.False(t, out.NoSpeech)
	assert.Nil(t, out.Analysis)
	assert.Equal(t, "Patient reports mild chest pain.", out.Transcription.Content)
	assert.Equal(t, model.StatusCompleted, out.Transcription.Status)
	assert.Regexp(t, secureNamePattern, out.Transcription.FilePath)
	assert.Equal(t, "en", transcriber.gotLang)

	// The blob landed in storage under the generated name.
	rc, err := store.Open(ctx, out.Transcription.FilePath)
	require.NoError(t, err)
	blob, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "fake audio bytes", string(blob))

	// The recognizer read the same bytes from the spooled temp file.
	assert.True(t, strings.HasSuffix(transcriber.gotPath, ".mp3"))

	assert.EqualValues(t, 1, countAuditRows(t, db, "transcribe"))
}

func TestUploadAndTranscribeNoSpeech(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	transcriber := &stubTranscriber{result: api.TranscriptionResult{Text: "   "}}
	svc, _, _ := newTranscriptionFixture(t, db, transcriber, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)

	out, err := svc.UploadAndTranscribe(ctx, user.ID, created.ID, mp3Upload("visit.mp3", "silence"), false)
	require.NoError(t, err)
	assert.True(t, out.NoSpeech)
	assert.Empty(t, out.Transcription.Content)
	assert.Equal(t, model.StatusNoSpeechDetected, out.Transcription.Status)
	assert.NotEmpty(t, out.Transcription.FilePath)

	// No speech is not a successful transcription.
	assert.EqualValues(t, 0, countAuditRows(t, db, "transcribe"))
}

func TestUploadAndTranscribeProviderFailure(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	transcriber := &stubTranscriber{err: errors.New("upstream timeout")}
	svc, _, root := newTranscriptionFixture(t, db, transcriber, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)

	_, err = svc.UploadAndTranscribe(ctx, user.ID, created.ID, mp3Upload("visit.mp3", "bytes"), false)
	apiErr := requireAPIError(t, err, http.StatusBadGateway, apierrors.CodeTranscriptionError)
	assert.Equal(t, "Transcription failed: upstream timeout", apiErr.Message)

	row, err := repository.NewTranscriptionRepository(db).FindByID(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, row.Status)
	assert.Empty(t, row.FilePath)

	// The stored blob is cleaned up after the failed recognition.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadAndTranscribeRejectsBadUploads(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	transcriber := &stubTranscriber{result: api.TranscriptionResult{Text: "hello"}}
	svc, _, _ := newTranscriptionFixture(t, db, transcriber, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)

	tests := []struct {
		name     string
		upload   UploadedAudio
		wantCode string
	}{
		{
			name:     "unsupported extension",
			upload:   mp3Upload("notes.txt", "plain text"),
			wantCode: apierrors.CodeUnsupportedFormat,
		},
		{
			name: "oversized file",
			upload: UploadedAudio{
				Filename: "huge.mp3",
				Size:     2 << 20,
				Reader:   bytes.NewReader([]byte("x")),
			},
			wantCode: apierrors.CodeFileTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadAndTranscribe(ctx, user.ID, created.ID, tt.upload, false)
			requireAPIError(t, err, http.StatusBadRequest, tt.wantCode)
		})
	}

	// Rejected uploads never reach the provider or touch the row.
	assert.Equal(t, 0, transcriber.callsMade)
	row, err := repository.NewTranscriptionRepository(db).FindByID(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, row.Status)
}

func TestUploadAndTranscribeWithoutProvider(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	svc, _, _ := newTranscriptionFixture(t, db, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)

	_, err = svc.UploadAndTranscribe(ctx, user.ID, created.ID, mp3Upload("visit.mp3", "bytes"), false)
	apiErr := requireAPIError(t, err, http.StatusServiceUnavailable, apierrors.CodeServiceUnavailable)
	assert.Equal(t, "Transcription service not available", apiErr.Message)
}

func TestUploadAndTranscribeWithAnalysis(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	transcriber := &stubTranscriber{result: api.TranscriptionResult{Text: "Patient has hypertension."}}

	t.Run("analysis rides along", func(t *testing.T) {
		analyzer := &stubAnalyzer{report: map[string]any{"summary": "Hypertension follow-up."}}
		svc, _, _ := newTranscriptionFixture(t, db, transcriber, analyzer)
		created, err := svc.Create(context.Background(), user.ID, &dto.CreateTranscriptionRequest{})
		require.NoError(t, err)

		out, err := svc.UploadAndTranscribe(context.Background(), user.ID, created.ID, mp3Upload("visit.mp3", "bytes"), true)
		require.NoError(t, err)
		require.NotNil(t, out.Analysis)
		assert.Equal(t, "Hypertension follow-up.", out.Analysis["summary"])
	})

	t.Run("analysis failure keeps the transcription", func(t *testing.T) {
		analyzer := &stubAnalyzer{err: errors.New("quota exceeded")}
		svc, _, _ := newTranscriptionFixture(t, db, transcriber, analyzer)
		created, err := svc.Create(context.Background(), user.ID, &dto.CreateTranscriptionRequest{})
		require.NoError(t, err)

		out, err := svc.UploadAndTranscribe(context.Background(), user.ID, created.ID, mp3Upload("visit.mp3", "bytes"), true)
		require.NoError(t, err)
		assert.Nil(t, out.Analysis)
		assert.Equal(t, model.StatusCompleted, out.Transcription.Status)
	})
}

func TestAnalyze(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	ctx := context.Background()

	seed := func(t *testing.T, svc TranscriptionService, content string) uint {
		t.Helper()
		created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
		require.NoError(t, err)
		if content != "" {
			updated, err := svc.Update(ctx, user.ID, created.ID, &dto.UpdateTranscriptionRequest{Content: &content})
			require.NoError(t, err)
			return updated.ID
		}
		return created.ID
	}

	t.Run("success", func(t *testing.T) {
		analyzer := &stubAnalyzer{report: map[string]any{"suggested_codes": []any{"I10"}}}
		svc, _, _ := newTranscriptionFixture(t, db, nil, analyzer)
		id := seed(t, svc, "Patient has hypertension.")

		resp, err := svc.Analyze(ctx, user.ID, id)
		require.NoError(t, err)
		assert.Equal(t, id, resp.TranscriptionID)
		assert.Equal(t, []any{"I10"}, resp.Analysis["suggested_codes"])
		assert.EqualValues(t, 1, countAuditRows(t, db, "analyze"))
	})

	t.Run("empty content", func(t *testing.T) {
		svc, _, _ := newTranscriptionFixture(t, db, nil, &stubAnalyzer{})
		id := seed(t, svc, "")

		_, err := svc.Analyze(ctx, user.ID, id)
		apiErr := requireAPIError(t, err, http.StatusBadRequest, apierrors.CodeEmptyContent)
		assert.Equal(t, "Transcription has no content to analyze", apiErr.Message)
	})

	t.Run("no provider", func(t *testing.T) {
		svc, _, _ := newTranscriptionFixture(t, db, nil, nil)
		id := seed(t, svc, "Some content.")

		_, err := svc.Analyze(ctx, user.ID, id)
		apiErr := requireAPIError(t, err, http.StatusServiceUnavailable, apierrors.CodeServiceUnavailable)
		assert.Equal(t, "AI analysis service not available", apiErr.Message)
	})

	t.Run("provider failure", func(t *testing.T) {
		svc, _, _ := newTranscriptionFixture(t, db, nil, &stubAnalyzer{err: errors.New("model overloaded")})
		id := seed(t, svc, "Some content.")

		_, err := svc.Analyze(ctx, user.ID, id)
		apiErr := requireAPIError(t, err, http.StatusBadGateway, apierrors.CodeAnalysisError)
		assert.Equal(t, "AI analysis failed: model overloaded", apiErr.Message)
	})
}

func TestSummarize(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	content := "Patient presented with acute bronchitis."
	ctx := context.Background()

	analyzer := &stubAnalyzer{summary: "Acute bronchitis, antibiotics prescribed."}
	svc, _, _ := newTranscriptionFixture(t, db, nil, analyzer)
	created, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)
	_, err = svc.Update(ctx, user.ID, created.ID, &dto.UpdateTranscriptionRequest{Content: &content})
	require.NoError(t, err)

	resp, err := svc.Summarize(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.TranscriptionID)
	assert.Equal(t, "Acute bronchitis, antibiotics prescribed.", resp.Summary)
	assert.EqualValues(t, 1, countAuditRows(t, db, "summarize"))

	empty, err := svc.Create(ctx, user.ID, &dto.CreateTranscriptionRequest{})
	require.NoError(t, err)
	_, err = svc.Summarize(ctx, user.ID, empty.ID)
	apiErr := requireAPIError(t, err, http.StatusBadRequest, apierrors.CodeEmptyContent)
	assert.Equal(t, "Transcription has no content to summarize", apiErr.Message)
}
