package whisper

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"medscribe/internal/app/api"
	apperrors "medscribe/internal/app/errors"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client *openai.Client
	model  string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, model string) *RemoteTranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, model: model}
}

// Transcribe uses the OpenAI API for remote transcription. The verbose
// response format is requested so the detected language and duration come
// back alongside the text.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, inputFilePath string, language string) (api.TranscriptionResult, error) {
	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: inputFilePath,
		Language: shortCode(language),
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return api.TranscriptionResult{}, apperrors.WrapSentinel(apperrors.ErrTranscriptionService, err)
	}

	detected := resp.Language
	if detected == "" {
		detected = language
	}
	return api.TranscriptionResult{
		Text:     resp.Text,
		Language: detected,
		Duration: resp.Duration,
	}, nil
}

// shortCode reduces locale tags like "en-US" to the bare ISO 639-1 code the
// audio endpoint expects.
func shortCode(language string) string {
	for i := 0; i < len(language); i++ {
		if language[i] == '-' || language[i] == '_' {
			return language[:i]
		}
	}
	return language
}
