package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration. It is loaded once at
// startup and passed to components at construction time; nothing reads it
// from ambient global state.
type Config struct {
	App         AppConfig         `yaml:"app"`
	Environment EnvironmentConfig `yaml:"environment"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Security    SecurityConfig    `yaml:"security"`
	Storage     StorageConfig     `yaml:"storage"`
	Services    ServicesConfig    `yaml:"services"`
	Logging     LoggingConfig     `yaml:"logging"`
	RateLimits  RateLimitsConfig  `yaml:"rate_limits"`
	Swagger     SwaggerConfig     `yaml:"swagger"`
	API         APIConfig         `yaml:"api"`
	Retention   RetentionConfig   `yaml:"retention"`
}

// AppConfig identifies the service.
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// EnvironmentConfig selects the runtime profile.
type EnvironmentConfig struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

// DatabaseConfig holds the relational store settings.
type DatabaseConfig struct {
	URL         string     `yaml:"url"`
	AutoMigrate bool       `yaml:"auto_migrate"`
	Pool        PoolConfig `yaml:"pool"`
}

// PoolConfig tunes the underlying sql.DB connection pool.
type PoolConfig struct {
	MaxOpen     int           `yaml:"max_open"`
	MaxIdle     int           `yaml:"max_idle"`
	MaxLifetime time.Duration `yaml:"max_lifetime"`
}

// AuthConfig holds token and lockout settings.
type AuthConfig struct {
	JWTSecretKey             string `yaml:"jwt_secret_key"`
	Algorithm                string `yaml:"algorithm"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`
	RefreshTokenExpireDays   int    `yaml:"refresh_token_expire_days"`
	MaxFailedAttempts        int    `yaml:"max_failed_attempts"`
	LockoutSeconds           int    `yaml:"lockout_seconds"`
}

// AccessTokenTTL returns the access token lifetime as a duration.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime as a duration.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenExpireDays) * 24 * time.Hour
}

// LockoutPeriod returns the account lockout window as a duration.
func (a AuthConfig) LockoutPeriod() time.Duration {
	return time.Duration(a.LockoutSeconds) * time.Second
}

// SecurityConfig holds secrets not tied to token signing.
type SecurityConfig struct {
	SecretKey string `yaml:"secret_key"`
}

// StorageConfig describes where uploaded and generated artifacts live.
type StorageConfig struct {
	Backend                string      `yaml:"backend"`
	UploadDirectory        string      `yaml:"upload_directory"`
	AllowedAudioExtensions []string    `yaml:"allowed_audio_extensions"`
	MaxUploadSize          int64       `yaml:"max_upload_size"`
	Minio                  MinioConfig `yaml:"minio"`
}

// MinioConfig holds object storage connection settings.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// ServicesConfig groups external provider settings.
type ServicesConfig struct {
	SpeechRecognition SpeechConfig      `yaml:"speech_recognition"`
	Translation       TranslationConfig `yaml:"translation"`
	TTS               TTSConfig         `yaml:"tts"`
	Redis             RedisConfig       `yaml:"redis"`
}

// SpeechConfig configures the speech-recognition provider.
type SpeechConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	DefaultLanguage string `yaml:"default_language"`
}

// TranslationConfig configures the translation provider.
type TranslationConfig struct {
	Provider              string `yaml:"provider"`
	Model                 string `yaml:"model"`
	DefaultSourceLanguage string `yaml:"default_source_language"`
	DefaultTargetLanguage string `yaml:"default_target_language"`
	MaxChunkChars         int    `yaml:"max_chunk_chars"`
}

// TTSConfig configures the text-to-speech provider.
type TTSConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	Voice           string `yaml:"voice"`
	OutputDirectory string `yaml:"output_directory"`
}

// RedisConfig holds the shared key-value store used for rate limiting and
// login lockout counters. An empty URL selects the in-memory backends.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// RateLimitsConfig maps route names to quota strings like "10/minute".
type RateLimitsConfig struct {
	Default string            `yaml:"default"`
	Routes  map[string]string `yaml:",inline"`
}

// For returns the quota string for a named route, falling back to the
// default quota when the route has no explicit entry.
func (r RateLimitsConfig) For(route string) string {
	if quota, ok := r.Routes[route]; ok && quota != "" {
		return quota
	}
	return r.Default
}

// SwaggerConfig controls the generated API documentation endpoints.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// APIConfig holds routing-level settings.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// RetentionConfig sets how long each record class is kept, in days.
type RetentionConfig struct {
	TranscriptionDays int `yaml:"transcription_days"`
	TranslationDays   int `yaml:"translation_days"`
	AuditLogDays      int `yaml:"audit_log_days"`
	DefaultDays       int `yaml:"default_days"`
}

// Load reads the configuration file at configPath, fills defaults, applies
// environment variable overrides and validates the result. A missing file is
// not an error; the defaults plus environment are enough to boot in
// development.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	cfg.setDefaults()

	configPath = os.ExpandEnv(configPath)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults fills every field that has a sensible default so that an empty
// configuration file is valid.
func (c *Config) setDefaults() {
	c.App = AppConfig{Name: "Medical Transcription API", Version: "1.0.0"}
	c.Environment = EnvironmentConfig{Name: "development", Port: 5000, Debug: true}
	c.Database = DatabaseConfig{
		URL:         "sqlite://data/medscribe.db",
		AutoMigrate: true,
		Pool: PoolConfig{
			MaxOpen:     20,
			MaxIdle:     10,
			MaxLifetime: 300 * time.Second,
		},
	}
	c.Auth = AuthConfig{
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		RefreshTokenExpireDays:   7,
		MaxFailedAttempts:        5,
		LockoutSeconds:           900,
	}
	c.Storage = StorageConfig{
		Backend:                "local",
		UploadDirectory:        "uploads",
		AllowedAudioExtensions: []string{".wav", ".mp3", ".m4a", ".flac"},
		MaxUploadSize:          50000000,
	}
	c.Services = ServicesConfig{
		SpeechRecognition: SpeechConfig{
			Provider:        "openai",
			Model:           "whisper-1",
			DefaultLanguage: "en-US",
		},
		Translation: TranslationConfig{
			Provider:              "openai",
			Model:                 "gpt-4o-mini",
			DefaultSourceLanguage: "en",
			DefaultTargetLanguage: "es",
			MaxChunkChars:         5000,
		},
		TTS: TTSConfig{
			Provider:        "openai",
			Model:           "tts-1",
			Voice:           "alloy",
			OutputDirectory: "tts_output",
		},
		Redis: RedisConfig{URL: "redis://localhost:6379/0"},
	}
	c.Logging = LoggingConfig{Level: "info", Format: "console"}
	c.RateLimits = RateLimitsConfig{
		Default: "30/minute",
		Routes: map[string]string{
			"auth.register":      "10/minute",
			"auth.token":         "15/minute",
			"auth.refresh":       "30/minute",
			"api.transcriptions": "10/minute",
			"api.translations":   "20/minute",
			"api.tts":            "10/minute",
		},
	}
	c.Swagger = SwaggerConfig{Enabled: true, Title: "Medical Transcription API", Version: "1.0.0"}
	c.API = APIConfig{BaseURL: "/api"}
	c.Retention = RetentionConfig{
		TranscriptionDays: 365,
		TranslationDays:   365,
		AuditLogDays:      2190,
		DefaultDays:       90,
	}
}

// applyEnvOverrides lets deployment environments override file values.
// Environment variables always win over the file.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.Database.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY")); v != "" {
		c.Auth.JWTSecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SECRET_KEY")); v != "" {
		c.Security.SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Environment.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("ENVIRONMENT")); v != "" {
		c.Environment.Name = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.Services.Redis.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("UPLOAD_DIRECTORY")); v != "" {
		c.Storage.UploadDirectory = v
	}
	if v := strings.TrimSpace(os.Getenv("MAX_UPLOAD_SIZE")); v != "" {
		if size, err := strconv.ParseInt(v, 10, 64); err == nil && size > 0 {
			c.Storage.MaxUploadSize = size
		}
	}
	if v := strings.TrimSpace(os.Getenv("TTS_OUTPUT_DIRECTORY")); v != "" {
		c.Services.TTS.OutputDirectory = v
	}
}

// Validate rejects configurations that cannot boot safely.
func (c *Config) Validate() error {
	switch c.Environment.Name {
	case "development", "testing", "production":
	default:
		return fmt.Errorf("unknown environment %q", c.Environment.Name)
	}

	if c.Environment.Port <= 0 || c.Environment.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Environment.Port)
	}

	if c.Environment.Name == "production" && c.Auth.JWTSecretKey == "" {
		return fmt.Errorf("auth.jwt_secret_key must be set in production")
	}

	if c.Auth.Algorithm != "HS256" {
		return fmt.Errorf("unsupported JWT algorithm %q", c.Auth.Algorithm)
	}

	if c.Auth.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("auth.access_token_expire_minutes must be positive")
	}

	if c.Auth.RefreshTokenExpireDays <= 0 {
		return fmt.Errorf("auth.refresh_token_expire_days must be positive")
	}

	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("storage.max_upload_size must be positive")
	}

	if len(c.Storage.AllowedAudioExtensions) == 0 {
		return fmt.Errorf("storage.allowed_audio_extensions must not be empty")
	}

	switch c.Storage.Backend {
	case "local", "minio":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.Backend == "minio" && c.Storage.Minio.Endpoint == "" {
		return fmt.Errorf("storage.minio.endpoint must be set for the minio backend")
	}

	return nil
}

// IsProduction reports whether the production profile is active.
func (c *Config) IsProduction() bool {
	return c.Environment.Name == "production"
}
