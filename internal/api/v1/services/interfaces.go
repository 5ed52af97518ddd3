package services

import (
	"context"
	"io"

	"medscribe/internal/api/v1/dto"
)

// UploadedAudio is one multipart audio upload, streamed rather than
// buffered so large files never live in memory.
type UploadedAudio struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// TranscriptionService covers the transcription lifecycle from the empty
// pending row through upload, recognition and AI post-processing. Every
// operation is scoped to the owning user.
type TranscriptionService interface {
	Create(ctx context.Context, userID uint, req *dto.CreateTranscriptionRequest) (*dto.TranscriptionResponse, error)
	List(ctx context.Context, userID uint) ([]dto.TranscriptionResponse, error)
	Get(ctx context.Context, userID, id uint) (*dto.TranscriptionResponse, error)
	Update(ctx context.Context, userID, id uint, req *dto.UpdateTranscriptionRequest) (*dto.TranscriptionResponse, error)
	Delete(ctx context.Context, userID, id uint) error
	UploadAndTranscribe(ctx context.Context, userID, id uint, upload UploadedAudio, withAnalysis bool) (*dto.UploadResult, error)
	Analyze(ctx context.Context, userID, id uint) (*dto.AnalysisResponse, error)
	Summarize(ctx context.Context, userID, id uint) (*dto.SummaryResponse, error)
}

// TranslationService translates transcriptions or raw text and exposes the
// static glossary and quality scoring around them.
type TranslationService interface {
	Create(ctx context.Context, userID uint, req *dto.CreateTranslationRequest) (*dto.TranslationResponse, error)
	Get(ctx context.Context, userID, id uint) (*dto.TranslationResponse, error)
	Glossary(sourceLanguage, targetLanguage string) (map[string]string, error)
	QualityCheck(ctx context.Context, userID, id uint) (*dto.QualityCheckResponse, error)
}

// SpeechService renders text to spoken audio artifacts.
type SpeechService interface {
	Synthesize(ctx context.Context, userID uint, req *dto.SynthesizeRequest) (*dto.SynthesizeResponse, error)
}

// MediaService streams stored audio artifacts back to clients. It returns
// the blob reader and its content type; callers own closing the reader.
type MediaService interface {
	OpenUploadedAudio(ctx context.Context, filename string) (io.ReadCloser, string, error)
	OpenSynthesizedAudio(ctx context.Context, filename string) (io.ReadCloser, string, error)
}

// MonitorService probes the dependencies the API needs to do useful work.
type MonitorService interface {
	Status(ctx context.Context) *dto.StatusResponse
}

// ExportService writes a user's transcriptions as a spreadsheet download.
type ExportService interface {
	ExportTranscriptions(ctx context.Context, userID uint, query dto.ExportQuery, w io.Writer) error
}
