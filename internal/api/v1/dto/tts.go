package dto

import (
	"strings"

	"medscribe/internal/api/errors"
)

// MaxSpeechChars bounds synthesis input length; providers reject longer
// passages server-side with much worse diagnostics.
const MaxSpeechChars = 4096

// SynthesizeRequest converts text to a speech artifact.
type SynthesizeRequest struct {
	Text     string `json:"text" binding:"required"`
	Voice    string `json:"voice"`
	Language string `json:"language" binding:"omitempty,min=2,max=10"`
}

// Validate rejects empty and oversized passages.
func (r *SynthesizeRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return errors.NewValidationError("Validation failed", map[string]any{
			"text": "is required",
		})
	}
	if len(r.Text) > MaxSpeechChars {
		return errors.NewValidationError("Validation failed", map[string]any{
			"text": "is too long",
		})
	}
	return nil
}

// SynthesizeResponse points the client at the generated artifact.
type SynthesizeResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
