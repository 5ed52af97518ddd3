package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"medscribe/internal/api/server"
	v1routes "medscribe/internal/api/v1/routes"
	"medscribe/internal/api/v1/services"
	"medscribe/internal/app/api"
	"medscribe/internal/app/api/elevenlabs"
	"medscribe/internal/app/api/gemini"
	openaiapi "medscribe/internal/app/api/openai"
	"medscribe/internal/app/api/openai/chat"
	"medscribe/internal/app/api/openai/insight"
	"medscribe/internal/app/api/openai/tts"
	"medscribe/internal/app/api/openai/whisper"
	"medscribe/internal/app/audio"
	"medscribe/internal/app/cache"
	"medscribe/internal/app/converter"
	"medscribe/internal/app/ratelimit"
	"medscribe/internal/app/repository"
	"medscribe/internal/app/retention"
	"medscribe/internal/app/storage"
	"medscribe/internal/config"
	"medscribe/internal/logging"
)

// Application bundles everything a running API process needs.
type Application struct {
	Server *server.Server
	Config *config.Config
	Logger *zap.Logger
}

func newApplication(srv *server.Server, cfg *config.Config, logger *zap.Logger) *Application {
	return &Application{Server: srv, Config: cfg, Logger: logger}
}

// CleanupJob bundles the retention cleaner for CLI use.
type CleanupJob struct {
	Cleaner *retention.Cleaner
	Config  *config.Config
	Logger  *zap.Logger
}

func newCleanupJob(cleaner *retention.Cleaner, cfg *config.Config, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{Cleaner: cleaner, Config: cfg, Logger: logger}
}

// BatchJob bundles the directory converter for CLI use.
type BatchJob struct {
	Converter *converter.Converter
	Config    *config.Config
	Logger    *zap.Logger
}

func newBatchJob(conv *converter.Converter, cfg *config.Config, logger *zap.Logger) *BatchJob {
	return &BatchJob{Converter: conv, Config: cfg, Logger: logger}
}

func provideConfig(configPath string) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}
	return config.Load(configPath)
}

func provideLogger(cfg *config.Config) (*zap.Logger, func()) {
	logger := logging.New(cfg.Logging)
	return logger, func() { _ = logger.Sync() }
}

// provideDatabase opens the relational store and migrates the schema when
// enabled. The cleanup closes the connection pool.
func provideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := repository.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	return db, cleanup, nil
}

// provideRedis returns a nil client when no URL is configured; rate limiting
// and login lockout then fall back to their in-memory implementations.
func provideRedis(cfg *config.Config, logger *zap.Logger) (*redis.Client, func(), error) {
	client, err := cache.NewClient(cfg.Services.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		logger.Warn("redis not configured, using in-memory rate limiting and lockout")
		return nil, func() {}, nil
	}
	return client, func() { client.Close() }, nil
}

func provideLimiter(client *redis.Client) ratelimit.Limiter {
	if client != nil {
		return ratelimit.NewRedisLimiter(client)
	}
	return ratelimit.NewMemoryLimiter()
}

func provideLoginProtector(client *redis.Client, cfg *config.Config) services.LoginProtector {
	if client != nil {
		return services.NewRedisLoginProtector(client, cfg.Auth)
	}
	return services.NewMemoryLoginProtector(cfg.Auth)
}

func provideTokenManager(cfg *config.Config) *services.TokenManager {
	return services.NewTokenManager(cfg.Auth)
}

func provideAPIKeys() (*config.APIKeys, error) {
	return config.GetAPIKeys()
}

// provideOpenAIClient returns nil when no key is configured. Dependent
// capabilities then stay unset and their endpoints answer 503.
func provideOpenAIClient(keys *config.APIKeys, logger *zap.Logger) *openai.Client {
	if keys.OpenAI == "" {
		logger.Warn("OPENAI_API_KEY not set, OpenAI-backed services are disabled")
		return nil
	}
	client, err := openaiapi.NewClient(*keys)
	if err != nil {
		logger.Warn("openai client unavailable", zap.Error(err))
		return nil
	}
	return client
}

func provideTranscriber(cfg *config.Config, client *openai.Client, logger *zap.Logger) api.Transcriber {
	if provider := cfg.Services.SpeechRecognition.Provider; provider != "openai" {
		logger.Warn("unknown speech recognition provider", zap.String("provider", provider))
		return nil
	}
	if client == nil {
		return nil
	}
	return whisper.NewRemoteTranscriber(client, cfg.Services.SpeechRecognition.Model)
}

func provideAnalyzer(client *openai.Client) api.Analyzer {
	if client == nil {
		return nil
	}
	return insight.NewAnalyzer(client, "", "")
}

// translatorPair carries the preferred and fallback translation providers.
// A struct is needed because both values satisfy the same interface.
type translatorPair struct {
	enhanced api.Translator
	basic    api.Translator
}

func (p translatorPair) primary() api.Translator {
	if p.enhanced != nil {
		return p.enhanced
	}
	return p.basic
}

// provideTranslators builds whichever translators have credentials. The
// configured provider becomes the enhanced one used for high quality
// requests, the other serves as fallback.
func provideTranslators(cfg *config.Config, keys *config.APIKeys, client *openai.Client, logger *zap.Logger) translatorPair {
	openaiModel, geminiModel := cfg.Services.Translation.Model, ""
	if cfg.Services.Translation.Provider == "gemini" {
		openaiModel, geminiModel = "", cfg.Services.Translation.Model
	}

	var openaiTranslator, geminiTranslator api.Translator
	if client != nil {
		openaiTranslator = chat.NewTranslator(client, openaiModel)
	}
	if keys.Gemini != "" {
		translator, err := gemini.NewTranslator(context.Background(), *keys, geminiModel)
		if err != nil {
			logger.Warn("gemini translator unavailable", zap.Error(err))
		} else {
			geminiTranslator = translator
		}
	}

	if cfg.Services.Translation.Provider == "gemini" {
		return translatorPair{enhanced: geminiTranslator, basic: openaiTranslator}
	}
	return translatorPair{enhanced: openaiTranslator, basic: geminiTranslator}
}

func provideSynthesizer(cfg *config.Config, keys *config.APIKeys, client *openai.Client, logger *zap.Logger) api.Synthesizer {
	switch cfg.Services.TTS.Provider {
	case "elevenlabs":
		if keys.ElevenLabs == "" {
			logger.Warn("ELEVENLABS_API_KEY not set, speech synthesis is disabled")
			return nil
		}
		return elevenlabs.NewTTSProvider(elevenlabs.Config{APIKey: keys.ElevenLabs})
	default:
		if client == nil {
			return nil
		}
		return tts.NewSynthesizer(client, cfg.Services.TTS.Model, cfg.Services.TTS.Voice)
	}
}

func provideUploadStore(cfg *config.Config) (storage.UploadStore, error) {
	store, err := newBlobStore(cfg, cfg.Storage.UploadDirectory, "uploads/")
	if err != nil {
		return nil, err
	}
	return store, nil
}

func provideSpeechStore(cfg *config.Config) (storage.SpeechStore, error) {
	store, err := newBlobStore(cfg, cfg.Services.TTS.OutputDirectory, "tts/")
	if err != nil {
		return nil, err
	}
	return store, nil
}

// newBlobStore selects the storage backend. Local stores use the directory,
// object stores use the prefix within the shared bucket.
func newBlobStore(cfg *config.Config, dir string, prefix string) (storage.BlobStore, error) {
	if cfg.Storage.Backend == "minio" {
		client, err := storage.NewMinioClient(cfg.Storage.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioStore(context.Background(), client, cfg.Storage.Minio.Bucket, prefix)
	}
	return storage.NewLocalStore(dir)
}

func provideValidator(cfg *config.Config) *audio.Validator {
	return audio.NewValidator(cfg.Storage)
}

func provideUserRepository(db *gorm.DB) repository.UserRepository {
	return repository.NewUserRepository(db)
}

func provideTranscriptionRepository(db *gorm.DB) repository.TranscriptionRepository {
	return repository.NewTranscriptionRepository(db)
}

func provideTranslationRepository(db *gorm.DB) repository.TranslationRepository {
	return repository.NewTranslationRepository(db)
}

func provideAuditLogRepository(db *gorm.DB) repository.AuditLogRepository {
	return repository.NewAuditLogRepository(db)
}

func provideTranslationService(
	translations repository.TranslationRepository,
	transcriptions repository.TranscriptionRepository,
	pair translatorPair,
	audit services.AuditService,
	logger *zap.Logger,
) services.TranslationService {
	return services.NewTranslationService(translations, transcriptions, pair.enhanced, pair.basic, audit, logger)
}

func provideMonitorService(
	db *gorm.DB,
	client *redis.Client,
	uploads storage.UploadStore,
	transcriber api.Transcriber,
	pair translatorPair,
	logger *zap.Logger,
) services.MonitorService {
	return services.NewMonitorService(db, client, uploads, transcriber, pair.primary(), logger)
}

func provideServiceContainer(
	auth services.AuthService,
	transcription services.TranscriptionService,
	translation services.TranslationService,
	speech services.SpeechService,
	media services.MediaService,
	monitor services.MonitorService,
	export services.ExportService,
	users repository.UserRepository,
	tokens *services.TokenManager,
	limiter ratelimit.Limiter,
) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		Auth:          auth,
		Transcription: transcription,
		Translation:   translation,
		Speech:        speech,
		Media:         media,
		Monitor:       monitor,
		Export:        export,
		Users:         users,
		Tokens:        tokens,
		Limiter:       limiter,
	}
}

func provideCleaner(
	cfg *config.Config,
	transcriptions repository.TranscriptionRepository,
	translations repository.TranslationRepository,
	audits repository.AuditLogRepository,
	uploads storage.UploadStore,
	speech storage.SpeechStore,
	logger *zap.Logger,
) *retention.Cleaner {
	return retention.NewCleaner(cfg.Retention, transcriptions, translations, audits, uploads, speech, logger)
}

func provideConverter(
	transcriber api.Transcriber,
	repo repository.TranscriptionRepository,
	logger *zap.Logger,
) *converter.Converter {
	return converter.New(transcriber, repo, logger)
}
