package dto

import (
	"time"

	"medscribe/internal/api/errors"
	"medscribe/internal/app/model"
)

// CreateTranscriptionRequest creates an empty pending transcription. The
// audio itself arrives later through the upload endpoint.
type CreateTranscriptionRequest struct {
	Title    string `json:"title" binding:"omitempty,max=255"`
	Language string `json:"language" binding:"omitempty,min=2,max=10"`
}

// UpdateTranscriptionRequest updates mutable transcription fields. Nil
// pointers leave the stored value untouched.
type UpdateTranscriptionRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

// Validate restricts status writes to the known lifecycle values. A body
// with no recognized fields is a valid no-op update.
func (r *UpdateTranscriptionRequest) Validate() error {
	if r.Status != nil {
		switch *r.Status {
		case model.StatusPending, model.StatusProcessing, model.StatusCompleted,
			model.StatusFailed, model.StatusNoSpeechDetected:
		default:
			return errors.NewValidationError("Validation failed", map[string]any{
				"status": "must be one of the allowed values",
			})
		}
	}
	return nil
}

// TranscriptionResponse is one transcription in API responses.
type TranscriptionResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    uint      `json:"user_id"`
	FilePath  string    `json:"file_path"`
	Language  string    `json:"language"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UploadResult is the outcome of an upload-and-transcribe call. Analysis is
// present only when the caller requested it and the provider succeeded;
// NoSpeech marks the 422 outcome where the row ends in no_speech_detected.
type UploadResult struct {
	Transcription TranscriptionResponse
	Analysis      map[string]any
	NoSpeech      bool
}

// TranscriptionWithAnalysisResponse pairs a completed transcription with
// its medical coding analysis.
type TranscriptionWithAnalysisResponse struct {
	Transcription TranscriptionResponse `json:"transcription"`
	Analysis      map[string]any        `json:"analysis"`
}

// NoSpeechResponse is the 422 body for uploads where recognition found no
// speech. The updated row rides along so clients see the terminal status
// without refetching.
type NoSpeechResponse struct {
	Message       string                `json:"message"`
	Code          string                `json:"error_code"`
	Transcription TranscriptionResponse `json:"transcription"`
}

// AnalysisResponse is the standalone analysis body.
type AnalysisResponse struct {
	TranscriptionID uint           `json:"transcription_id"`
	Analysis        map[string]any `json:"analysis"`
}

// SummaryResponse is the standalone summary body.
type SummaryResponse struct {
	TranscriptionID uint   `json:"transcription_id"`
	Summary         string `json:"summary"`
}

// ToTranscriptionResponse converts a transcription model to its response DTO.
func ToTranscriptionResponse(t *model.Transcription) TranscriptionResponse {
	return TranscriptionResponse{
		ID:        t.ID,
		Title:     t.Title,
		Content:   t.Content,
		UserID:    t.UserID,
		FilePath:  t.FilePath,
		Language:  t.Language,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTranscriptionResponses converts a model slice preserving order.
func ToTranscriptionResponses(ts []model.Transcription) []TranscriptionResponse {
	out := make([]TranscriptionResponse, len(ts))
	for i := range ts {
		out[i] = ToTranscriptionResponse(&ts[i])
	}
	return out
}
