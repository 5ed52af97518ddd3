package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/samber/lo"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
)

// ExportServiceImpl implements ExportService as an xlsx download.
type ExportServiceImpl struct {
	repo   repository.TranscriptionRepository
	audit  AuditService
	logger *zap.Logger
}

// NewExportService creates the spreadsheet export service.
func NewExportService(repo repository.TranscriptionRepository, audit AuditService, logger *zap.Logger) ExportService {
	return &ExportServiceImpl{repo: repo, audit: audit, logger: logger}
}

// ExportTranscriptions writes the user's transcriptions, optionally
// filtered by status and language, as an xlsx workbook.
func (s *ExportServiceImpl) ExportTranscriptions(ctx context.Context, userID uint, query dto.ExportQuery, w io.Writer) error {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return apierrors.NewInternalError("Failed to export transcriptions")
	}

	filtered := lo.Filter(rows, func(t model.Transcription, _ int) bool {
		if query.Status != "" && t.Status != query.Status {
			return false
		}
		if query.Language != "" && t.Language != query.Language {
			return false
		}
		return true
	})

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return apierrors.NewInternalError("Failed to export transcriptions")
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "ID"
	headerRow.AddCell().Value = "Title"
	headerRow.AddCell().Value = "Content"
	headerRow.AddCell().Value = "Language"
	headerRow.AddCell().Value = "Status"
	headerRow.AddCell().Value = "Created At"
	headerRow.AddCell().Value = "Updated At"

	for _, t := range filtered {
		row := sheet.AddRow()
		row.AddCell().Value = fmt.Sprint(t.ID)
		row.AddCell().Value = t.Title
		row.AddCell().Value = t.Content
		row.AddCell().Value = t.Language
		row.AddCell().Value = t.Status
		row.AddCell().Value = t.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = t.UpdatedAt.Format(time.RFC3339)
	}

	if err := file.Write(w); err != nil {
		return apierrors.NewInternalError("Failed to export transcriptions")
	}

	s.audit.Record(ctx, userID, "transcription", 0, "export",
		fmt.Sprintf("Exported %d transcriptions", len(filtered)))
	s.logger.Info("transcriptions exported",
		zap.Uint("user_id", userID), zap.Int("rows", len(filtered)))
	return nil
}
