package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	"medscribe/internal/api/v1/dto"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
)

func TestExportTranscriptions(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	other := newTestUser(t, db, "bob", "bob@example.com")
	svc := NewExportService(repository.NewTranscriptionRepository(db), newTestAudit(db), zap.NewNop())
	ctx := context.Background()

	seedTranscription(t, db, user.ID, "first note", "en")
	seedTranscription(t, db, user.ID, "segunda nota", "es")
	seedTranscription(t, db, other.ID, "not exported", "en")

	var buf bytes.Buffer
	require.NoError(t, svc.ExportTranscriptions(ctx, user.ID, dto.ExportQuery{}, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Transcriptions", sheet.Name)

	// Header plus the caller's two rows, nothing from other users.
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Title", sheet.Rows[0].Cells[1].Value)
	assert.Equal(t, "Status", sheet.Rows[0].Cells[4].Value)

	assert.EqualValues(t, 1, countAuditRows(t, db, "export"))

	t.Run("language filter", func(t *testing.T) {
		var filtered bytes.Buffer
		require.NoError(t, svc.ExportTranscriptions(ctx, user.ID, dto.ExportQuery{Language: "es"}, &filtered))

		file, err := xlsx.OpenBinary(filtered.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets[0].Rows, 2)
		assert.Equal(t, "segunda nota", file.Sheets[0].Rows[1].Cells[2].Value)
	})

	t.Run("status filter", func(t *testing.T) {
		failed := &model.Transcription{Title: "broken", UserID: user.ID, Language: "en", Status: model.StatusFailed}
		require.NoError(t, repository.NewTranscriptionRepository(db).Create(ctx, failed))

		var filtered bytes.Buffer
		require.NoError(t, svc.ExportTranscriptions(ctx, user.ID, dto.ExportQuery{Status: model.StatusFailed}, &filtered))

		file, err := xlsx.OpenBinary(filtered.Bytes())
		require.NoError(t, err)
		require.Len(t, file.Sheets[0].Rows, 2)
		assert.Equal(t, "broken", file.Sheets[0].Rows[1].Cells[1].Value)
	})
}

func TestExportEmptyResult(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db, "alice", "alice@example.com")
	svc := NewExportService(repository.NewTranscriptionRepository(db), newTestAudit(db), zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, svc.ExportTranscriptions(context.Background(), user.ID, dto.ExportQuery{}, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets[0].Rows, 1)
}
