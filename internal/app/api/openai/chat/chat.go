package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "medscribe/internal/app/errors"
)

const systemPrompt = "You are a professional medical translator."

const translatePrompt = `Translate the following text from %s to %s.
Maintain the original formatting, including line breaks and paragraphs.
For medical terminology, prioritize accuracy and use standard medical terminology in the target language.

Text to translate:
%s`

// Translator performs text translation through the OpenAI chat API with a
// prompt tuned for clinical terminology.
type Translator struct {
	client *openai.Client
	model  string
}

// NewTranslator creates a chat-backed translator.
func NewTranslator(client *openai.Client, model string) *Translator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &Translator{client: client, model: model}
}

// Translate converts a single chunk of text between languages. Blank input
// returns an empty string without calling the provider.
func (t *Translator) Translate(ctx context.Context, text string, sourceLanguage string, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	request := openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0.3,
		MaxTokens:   3000,
		TopP:        1.0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(translatePrompt, sourceLanguage, targetLanguage, text),
			},
		},
	}

	resp, err := t.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", apperrors.WrapSentinel(apperrors.ErrTranslationService, err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap(apperrors.ErrTranslationService, "empty completion response")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", apperrors.Wrap(apperrors.ErrTranslationService, "empty translation response")
	}
	return translated, nil
}
