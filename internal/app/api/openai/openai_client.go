package openai

import (
	"github.com/sashabaranov/go-openai"

	apperrors "medscribe/internal/app/errors"
	"medscribe/internal/config"
)

// NewClient builds the shared OpenAI client from the configured key. The
// same client serves transcription, translation and speech synthesis.
func NewClient(keys config.APIKeys) (*openai.Client, error) {
	if keys.OpenAI == "" {
		return nil, apperrors.Wrap(apperrors.ErrProviderNotConfigured, "OPENAI_API_KEY is not set")
	}
	return openai.NewClient(keys.OpenAI), nil
}
