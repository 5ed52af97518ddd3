package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	apperrors "medscribe/internal/app/errors"
	"medscribe/internal/config"
)

// Translator performs text translation through the Gemini API.
type Translator struct {
	client *genai.Client
	model  string
}

// NewTranslator creates a Gemini-backed translator.
func NewTranslator(ctx context.Context, keys config.APIKeys, model string) (*Translator, error) {
	if keys.Gemini == "" {
		return nil, apperrors.Wrap(apperrors.ErrProviderNotConfigured, "GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  keys.Gemini,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrTranslationService, err)
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Translator{client: client, model: model}, nil
}

// Translate converts a single chunk of text between languages.
func (t *Translator) Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Preserve meaning, tone and terminology. "+
			"Return only the translated text.\n\n%s",
		sourceLanguage, targetLanguage, text)

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", apperrors.WrapSentinel(apperrors.ErrTranslationService, err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", apperrors.Wrap(apperrors.ErrTranslationService, "empty generation response")
	}
	return out, nil
}
