package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "medscribe/internal/app/errors"
)

const defaultVoiceID = "21m00Tcm4TlvDq8ikWAM" // Rachel

// Config represents configuration for the ElevenLabs TTS provider.
type Config struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	VoiceID string `yaml:"voice_id"`
	Timeout int    `yaml:"timeout_sec"`
}

// TTSProvider implements speech synthesis against the ElevenLabs API.
type TTSProvider struct {
	config Config
	client *http.Client
}

// NewTTSProvider creates a new ElevenLabs TTS provider.
func NewTTSProvider(config Config) *TTSProvider {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.elevenlabs.io"
	}
	if config.Model == "" {
		config.Model = "eleven_multilingual_v2"
	}
	if config.VoiceID == "" {
		config.VoiceID = defaultVoiceID
	}
	if config.Timeout == 0 {
		config.Timeout = 60
	}

	return &TTSProvider{
		config: config,
		client: &http.Client{Timeout: time.Duration(config.Timeout) * time.Second},
	}
}

type ttsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

// Synthesize converts text to speech and returns the mp3 bytes.
func (p *TTSProvider) Synthesize(ctx context.Context, text string, voice string) ([]byte, error) {
	if p.config.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrProviderNotConfigured, "ELEVENLABS_API_KEY is not set")
	}

	voiceID := voice
	if voiceID == "" {
		voiceID = p.config.VoiceID
	}

	payload, err := json.Marshal(ttsRequest{Text: text, ModelID: p.config.Model})
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrSynthesisService, err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128",
		strings.TrimRight(p.config.BaseURL, "/"), voiceID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrSynthesisService, err)
	}
	httpReq.Header.Set("xi-api-key", p.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrSynthesisService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, apperrors.WrapSentinel(apperrors.ErrSynthesisService,
			fmt.Errorf("elevenlabs status=%d body=%s", resp.StatusCode, string(errBody)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrSynthesisService, err)
	}
	return audio, nil
}
