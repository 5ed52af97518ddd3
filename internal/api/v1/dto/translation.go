package dto

import (
	"encoding/json"
	stderrors "errors"
	"strconv"
	"strings"
	"time"

	"medscribe/internal/api/errors"
	"medscribe/internal/app/model"
)

// ErrInvalidTranscriptionID marks a transcription_id that is neither a
// number nor a numeric string.
var ErrInvalidTranscriptionID = stderrors.New("invalid transcription id format")

// CreateTranslationRequest translates either an existing transcription
// (by id) or raw text. Exactly one of the two sources must be present.
// Language codes are validated by the translation service so that unknown
// codes produce its specific error rather than a generic binding failure.
type CreateTranslationRequest struct {
	TranscriptionID uint   `json:"transcription_id"`
	Text            string `json:"text"`
	SourceLanguage  string `json:"source_language"`
	TargetLanguage  string `json:"target_language"`
	HighQuality     *bool  `json:"high_quality"`
}

// UnmarshalJSON accepts transcription_id both as a JSON number and as a
// numeric string. Older clients send the string form.
func (r *CreateTranslationRequest) UnmarshalJSON(data []byte) error {
	type alias CreateTranslationRequest
	aux := struct {
		TranscriptionID json.RawMessage `json:"transcription_id"`
		*alias
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := strings.Trim(strings.TrimSpace(string(aux.TranscriptionID)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return ErrInvalidTranscriptionID
	}
	r.TranscriptionID = uint(id)
	return nil
}

// Validate enforces the either-or source rule.
func (r *CreateTranslationRequest) Validate() error {
	if r.TargetLanguage == "" {
		return errors.NewBadRequestError("Missing required field: target_language").
			WithCode(errors.CodeMissingFields)
	}
	if r.TranscriptionID == 0 && r.Text == "" {
		return errors.NewBadRequestError(
			"Missing required field: either transcription_id or text must be provided").
			WithCode(errors.CodeMissingFields)
	}
	return nil
}

// WantsHighQuality reports the high_quality flag, defaulting to true when
// the field is absent.
func (r *CreateTranslationRequest) WantsHighQuality() bool {
	return r.HighQuality == nil || *r.HighQuality
}

// TranslationResponse is one translation in API responses.
type TranslationResponse struct {
	ID              uint      `json:"id"`
	TranscriptionID uint      `json:"transcription_id"`
	Content         string    `json:"content"`
	SourceLanguage  string    `json:"source_language"`
	TargetLanguage  string    `json:"target_language"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QualityMetrics scores one translation.
type QualityMetrics struct {
	FluencyScore     float64  `json:"fluency_score"`
	AccuracyScore    float64  `json:"accuracy_score"`
	TerminologyScore float64  `json:"terminology_score"`
	OverallQuality   string   `json:"overall_quality"`
	Suggestions      []string `json:"suggestions"`
}

// QualityCheckResponse is the quality check body.
type QualityCheckResponse struct {
	TranslationID uint           `json:"translation_id"`
	QualityCheck  QualityMetrics `json:"quality_check"`
}

// ToTranslationResponse converts a translation model to its response DTO.
func ToTranslationResponse(t *model.Translation) TranslationResponse {
	return TranslationResponse{
		ID:              t.ID,
		TranscriptionID: t.TranscriptionID,
		Content:         t.Content,
		SourceLanguage:  t.SourceLanguage,
		TargetLanguage:  t.TargetLanguage,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
