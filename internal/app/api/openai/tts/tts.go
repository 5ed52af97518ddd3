package tts

import (
	"context"
	"io"

	"github.com/sashabaranov/go-openai"

	apperrors "medscribe/internal/app/errors"
)

// Synthesizer renders text to speech through the OpenAI audio API.
type Synthesizer struct {
	client *openai.Client
	model  string
	voice  string
}

// NewSynthesizer creates an OpenAI-backed synthesizer. Empty model or voice
// fall back to tts-1 with the alloy voice.
func NewSynthesizer(client *openai.Client, model string, voice string) *Synthesizer {
	if model == "" {
		model = string(openai.TTSModel1)
	}
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	return &Synthesizer{client: client, model: model, voice: voice}
}

// Synthesize converts text to speech and returns the mp3 bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice string) ([]byte, error) {
	if voice == "" {
		voice = s.voice
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.SpeechModel(s.model),
		Input: text,
		Voice: openai.SpeechVoice(voice),
	})
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrSynthesisService, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrSynthesisService, err)
	}
	return audio, nil
}
