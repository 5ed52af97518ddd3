package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeys holds provider credentials loaded from environment
type APIKeys struct {
	OpenAI     string
	Gemini     string
	ElevenLabs string
}

// LoadEnv loads environment variables from a .env file if one exists.
// A missing file is not an error; variables may be set system-wide.
func LoadEnv() error {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	return nil
}

// GetAPIKeys retrieves and validates provider API keys from environment
// variables. Keys are optional; format checks only run on present keys.
func GetAPIKeys() (*APIKeys, error) {
	apiKeys := &APIKeys{
		OpenAI:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Gemini:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		ElevenLabs: strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")),
	}

	if apiKeys.OpenAI != "" {
		if !strings.HasPrefix(apiKeys.OpenAI, "sk-") {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: must start with 'sk-'")
		}
		if len(apiKeys.OpenAI) < 20 {
			return nil, fmt.Errorf("invalid OPENAI_API_KEY format: too short")
		}
	}

	if apiKeys.Gemini != "" {
		if !strings.HasPrefix(apiKeys.Gemini, "AIza") {
			return nil, fmt.Errorf("invalid GEMINI_API_KEY format: must start with 'AIza'")
		}
		if len(apiKeys.Gemini) < 30 {
			return nil, fmt.Errorf("invalid GEMINI_API_KEY format: too short")
		}
	}

	if apiKeys.ElevenLabs != "" && len(apiKeys.ElevenLabs) < 32 {
		return nil, fmt.Errorf("invalid ELEVENLABS_API_KEY format: too short")
	}

	return apiKeys, nil
}

// HasSpeechProvider reports whether any speech-recognition credential is set.
func (k *APIKeys) HasSpeechProvider() bool {
	return k.OpenAI != ""
}

// HasTranslationProvider reports whether any translation credential is set.
func (k *APIKeys) HasTranslationProvider() bool {
	return k.OpenAI != "" || k.Gemini != ""
}

// HasTTSProvider reports whether any synthesis credential is set.
func (k *APIKeys) HasTTSProvider() bool {
	return k.OpenAI != "" || k.ElevenLabs != ""
}
