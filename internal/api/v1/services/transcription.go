package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/api/v1/dto"
	"medscribe/internal/app/api"
	"medscribe/internal/app/audio"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
	"medscribe/internal/app/storage"
)

// TranscriptionServiceImpl implements TranscriptionService.
type TranscriptionServiceImpl struct {
	repo        repository.TranscriptionRepository
	transcriber api.Transcriber
	analyzer    api.Analyzer
	validator   *audio.Validator
	uploads     storage.UploadStore
	audit       AuditService
	logger      *zap.Logger
}

// NewTranscriptionService creates the transcription service. Transcriber and
// analyzer may be nil when the matching provider is not configured; the
// affected operations then fail with a service unavailable error.
func NewTranscriptionService(
	repo repository.TranscriptionRepository,
	transcriber api.Transcriber,
	analyzer api.Analyzer,
	validator *audio.Validator,
	uploads storage.UploadStore,
	audit AuditService,
	logger *zap.Logger,
) TranscriptionService {
	return &TranscriptionServiceImpl{
		repo:        repo,
		transcriber: transcriber,
		analyzer:    analyzer,
		validator:   validator,
		uploads:     uploads,
		audit:       audit,
		logger:      logger,
	}
}

// Create stores an empty pending transcription. Title defaults to a running
// number within the user's own records and language defaults to English.
func (s *TranscriptionServiceImpl) Create(ctx context.Context, userID uint, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionResponse, error) {
	title := req.Title
	if title == "" {
		count, err := s.repo.CountByUser(ctx, userID)
		if err != nil {
			return nil, apierrors.NewInternalError("Failed to create transcription")
		}
		title = fmt.Sprintf("Transcription %d", count+1)
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	row := &model.Transcription{
		Title:    title,
		Content:  "",
		UserID:   userID,
		Language: language,
		Status:   model.StatusPending,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, apierrors.NewInternalError("Failed to create transcription")
	}

	s.audit.Record(ctx, userID, "transcription", row.ID, "create", "")

	resp := dto.ToTranscriptionResponse(row)
	return &resp, nil
}

// List returns the user's transcriptions, newest first.
func (s *TranscriptionServiceImpl) List(ctx context.Context, userID uint) ([]dto.TranscriptionResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to list transcriptions")
	}
	return dto.ToTranscriptionResponses(rows), nil
}

// Get returns one of the user's transcriptions.
func (s *TranscriptionServiceImpl) Get(ctx context.Context, userID, id uint) (*dto.TranscriptionResponse, error) {
	row, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, userID, "transcription", row.ID, "retrieve", "")

	resp := dto.ToTranscriptionResponse(row)
	return &resp, nil
}

// Update applies the provided fields and returns the updated row.
func (s *TranscriptionServiceImpl) Update(ctx context.Context, userID, id uint, req *dto.UpdateTranscriptionRequest) (*dto.TranscriptionResponse, error) {
	row, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		row.Title = *req.Title
	}
	if req.Content != nil {
		row.Content = *req.Content
	}
	if req.Status != nil {
		row.Status = *req.Status
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, apierrors.NewInternalError("Failed to update transcription")
	}

	s.audit.Record(ctx, userID, "transcription", row.ID, "update", "")

	resp := dto.ToTranscriptionResponse(row)
	return &resp, nil
}

// Delete removes one of the user's transcriptions.
func (s *TranscriptionServiceImpl) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return apierrors.NewInternalError("Failed to delete transcription")
	}

	s.audit.Record(ctx, userID, "transcription", id, "delete", "")
	return nil
}

// UploadAndTranscribe attaches an audio file to an existing transcription
// and runs speech recognition on it. The row moves to processing before the
// provider call and ends in completed, failed or no_speech_detected. When
// withAnalysis is set and recognition succeeded, a medical coding analysis
// rides along; an analysis failure never fails the upload.
func (s *TranscriptionServiceImpl) UploadAndTranscribe(ctx context.Context, userID, id uint, upload UploadedAudio, withAnalysis bool) (*dto.UploadResult, error) {
	row, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateFilename(upload.Filename); err != nil {
		return nil, apierrors.NewBadRequestError("Unsupported audio file format").
			WithCode(apierrors.CodeUnsupportedFormat).
			WithDetails(map[string]any{"allowed_extensions": s.validator.AllowedExtensions()})
	}
	if err := s.validator.ValidateSize(upload.Size); err != nil {
		return nil, apierrors.NewBadRequestError("Audio file exceeds the maximum upload size").
			WithCode(apierrors.CodeFileTooLarge).
			WithDetails(map[string]any{"max_size_bytes": s.validator.MaxSizeBytes()})
	}
	if s.transcriber == nil {
		return nil, apierrors.NewServiceUnavailableError("Transcription service not available")
	}

	row.Status = model.StatusProcessing
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, apierrors.NewInternalError("Failed to update transcription")
	}

	// The recognizer wants a file path, so the upload is spooled to a
	// temp file while streaming into blob storage.
	name := audio.SecureName(upload.Filename)
	tmp, err := os.CreateTemp("", "upload-*"+strings.ToLower(filepath.Ext(upload.Filename)))
	if err != nil {
		s.markFailed(ctx, row)
		return nil, apierrors.NewInternalError("Failed to store audio file")
	}
	defer os.Remove(tmp.Name())

	saveErr := s.uploads.Save(ctx, name, io.TeeReader(upload.Reader, tmp), upload.Size, audio.ContentType(upload.Filename))
	if closeErr := tmp.Close(); saveErr == nil {
		saveErr = closeErr
	}
	if saveErr != nil {
		s.markFailed(ctx, row)
		return nil, apierrors.NewInternalError("Failed to store audio file")
	}

	result, err := s.transcriber.Transcribe(ctx, tmp.Name(), row.Language)
	if err != nil {
		s.markFailed(ctx, row)
		if deleteErr := s.uploads.Delete(ctx, name); deleteErr != nil {
			s.logger.Warn("orphaned audio blob after failed transcription",
				zap.String("blob", name), zap.Error(deleteErr))
		}
		return nil, apierrors.NewBadGatewayError("Transcription failed: " + err.Error()).
			WithCode(apierrors.CodeTranscriptionError)
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		row.Content = ""
		row.Status = model.StatusNoSpeechDetected
		row.FilePath = name
		if err := s.repo.Update(ctx, row); err != nil {
			return nil, apierrors.NewInternalError("Failed to update transcription")
		}
		s.logger.Warn("no speech detected",
			zap.Uint("transcription_id", row.ID), zap.String("blob", name))
		return &dto.UploadResult{Transcription: dto.ToTranscriptionResponse(row), NoSpeech: true}, nil
	}

	row.Content = text
	row.Status = model.StatusCompleted
	row.FilePath = name
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, apierrors.NewInternalError("Failed to update transcription")
	}

	s.audit.Record(ctx, userID, "transcription", row.ID, "transcribe", "")
	s.logger.Info("transcription completed",
		zap.Uint("transcription_id", row.ID),
		zap.Int("characters", len(text)),
		zap.Float64("audio_seconds", result.Duration),
	)

	out := &dto.UploadResult{Transcription: dto.ToTranscriptionResponse(row)}
	if withAnalysis && s.analyzer != nil {
		analysis, err := s.analyzer.AnalyzeMedicalCoding(ctx, text)
		if err != nil {
			s.logger.Error("analysis after successful transcription failed",
				zap.Uint("transcription_id", row.ID), zap.Error(err))
		} else {
			out.Analysis = analysis
		}
	}
	return out, nil
}

// Analyze extracts medical codes, conditions and medications from the
// transcription content.
func (s *TranscriptionServiceImpl) Analyze(ctx context.Context, userID, id uint) (*dto.AnalysisResponse, error) {
	row, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(row.Content) == "" {
		return nil, apierrors.NewBadRequestError("Transcription has no content to analyze").
			WithCode(apierrors.CodeEmptyContent)
	}
	if s.analyzer == nil {
		return nil, apierrors.NewServiceUnavailableError("AI analysis service not available")
	}

	s.audit.Record(ctx, userID, "transcription", row.ID, "analyze", "")

	analysis, err := s.analyzer.AnalyzeMedicalCoding(ctx, row.Content)
	if err != nil {
		return nil, apierrors.NewBadGatewayError("AI analysis failed: " + err.Error()).
			WithCode(apierrors.CodeAnalysisError)
	}
	return &dto.AnalysisResponse{TranscriptionID: row.ID, Analysis: analysis}, nil
}

// Summarize produces a concise clinical summary of the transcription.
func (s *TranscriptionServiceImpl) Summarize(ctx context.Context, userID, id uint) (*dto.SummaryResponse, error) {
	row, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(row.Content) == "" {
		return nil, apierrors.NewBadRequestError("Transcription has no content to summarize").
			WithCode(apierrors.CodeEmptyContent)
	}
	if s.analyzer == nil {
		return nil, apierrors.NewServiceUnavailableError("AI summarization service not available")
	}

	s.audit.Record(ctx, userID, "transcription", row.ID, "summarize", "")

	summary, err := s.analyzer.Summarize(ctx, row.Content)
	if err != nil {
		return nil, apierrors.NewBadGatewayError("AI summarization failed: " + err.Error()).
			WithCode(apierrors.CodeSummarizationError)
	}
	return &dto.SummaryResponse{TranscriptionID: row.ID, Summary: summary}, nil
}

func (s *TranscriptionServiceImpl) findOwned(ctx context.Context, userID, id uint) (*model.Transcription, error) {
	row, err := s.repo.FindByID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierrors.NewNotFoundError("Transcription")
	}
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to retrieve transcription")
	}
	return row, nil
}

func (s *TranscriptionServiceImpl) markFailed(ctx context.Context, row *model.Transcription) {
	row.Status = model.StatusFailed
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Warn("failed to mark transcription as failed",
			zap.Uint("transcription_id", row.ID), zap.Error(err))
	}
}
