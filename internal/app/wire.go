//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"medscribe/internal/api/server"
	"medscribe/internal/api/v1/services"
)

// InitializeApplication assembles the full API server from configuration.
// Provider capabilities without credentials stay nil and their endpoints
// answer with service unavailable.
func InitializeApplication(configPath string) (*Application, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideDatabase,
		provideRedis,
		provideLimiter,
		provideLoginProtector,
		provideTokenManager,
		provideAPIKeys,
		provideOpenAIClient,
		provideTranscriber,
		provideAnalyzer,
		provideTranslators,
		provideSynthesizer,
		provideUploadStore,
		provideSpeechStore,
		provideValidator,
		provideUserRepository,
		provideTranscriptionRepository,
		provideTranslationRepository,
		provideAuditLogRepository,
		services.NewAuditService,
		services.NewAuthService,
		services.NewTranscriptionService,
		provideTranslationService,
		services.NewSpeechService,
		services.NewMediaService,
		provideMonitorService,
		services.NewExportService,
		provideServiceContainer,
		server.New,
		newApplication,
	)
	return nil, nil, nil
}

// InitializeCleanup assembles the retention cleaner without the HTTP stack.
func InitializeCleanup(configPath string) (*CleanupJob, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideDatabase,
		provideTranscriptionRepository,
		provideTranslationRepository,
		provideAuditLogRepository,
		provideUploadStore,
		provideSpeechStore,
		provideCleaner,
		newCleanupJob,
	)
	return nil, nil, nil
}

// InitializeBatch assembles the directory converter for CLI use.
func InitializeBatch(configPath string) (*BatchJob, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideDatabase,
		provideAPIKeys,
		provideOpenAIClient,
		provideTranscriber,
		provideTranscriptionRepository,
		provideConverter,
		newBatchJob,
	)
	return nil, nil, nil
}
