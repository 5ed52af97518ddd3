package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medscribe/internal/api/middleware"
	"medscribe/internal/api/v1/handlers"
	"medscribe/internal/api/v1/services"
	"medscribe/internal/app/ratelimit"
	"medscribe/internal/app/repository"
	"medscribe/internal/config"
)

// ServiceContainer holds the services and auth infrastructure the route
// table wires into handlers.
type ServiceContainer struct {
	Auth          services.AuthService
	Transcription services.TranscriptionService
	Translation   services.TranslationService
	Speech        services.SpeechService
	Media         services.MediaService
	Monitor       services.MonitorService
	Export        services.ExportService

	Users   repository.UserRepository
	Tokens  *services.TokenManager
	Limiter ratelimit.Limiter
}

// RegisterRoutes registers every API route under the given group. Routes
// fall into a public set and a bearer token protected set; named routes
// additionally carry their configured rate limit.
func RegisterRoutes(api *gin.RouterGroup, container *ServiceContainer, cfg *config.Config, logger *zap.Logger) {
	authHandler := handlers.NewAuthHandler(container.Auth)
	transcriptionHandler := handlers.NewTranscriptionHandler(container.Transcription)
	translationHandler := handlers.NewTranslationHandler(container.Translation)
	speechHandler := handlers.NewSpeechHandler(container.Speech)
	mediaHandler := handlers.NewMediaHandler(container.Media)
	monitorHandler := handlers.NewMonitorHandler(
		container.Monitor, cfg.Swagger.Title, cfg.Swagger.Version, "/swagger/index.html")
	exportHandler := handlers.NewExportHandler(container.Export)

	limit := func(route string) gin.HandlerFunc {
		return rateLimitFor(container.Limiter, cfg, route, logger)
	}

	// Public routes
	api.GET("/", monitorHandler.Root)
	api.GET("/health", monitorHandler.Health)
	api.GET("/ping", authHandler.Ping)
	monitor := api.Group("/monitor")
	{
		monitor.GET("/ping", monitorHandler.Ping)
		monitor.GET("/status", monitorHandler.Status)
	}

	api.POST("/register", limit("auth.register"), authHandler.Register)
	api.POST("/token", limit("auth.token"), authHandler.Login)
	api.POST("/refresh-token", limit("auth.refresh"), authHandler.Refresh)

	// Synthesized audio is addressed by unguessable artifact names and
	// stays publicly playable; browser audio elements cannot attach auth
	// headers.
	api.GET("/tts/:filename", mediaHandler.ServeSpeech)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.RequireAuth(container.Users, container.Tokens, logger))
	{
		users := authed.Group("/users")
		{
			users.GET("/me", authHandler.Me)
			users.PUT("/me/password", authHandler.ChangePassword)
		}

		transcriptions := authed.Group("/transcriptions")
		{
			transcriptions.GET("", transcriptionHandler.List)
			transcriptions.POST("", transcriptionHandler.Create)
			transcriptions.GET("/:id", transcriptionHandler.Get)
			transcriptions.PUT("/:id", transcriptionHandler.Update)
			transcriptions.DELETE("/:id", transcriptionHandler.Delete)
		}
		authed.GET("/export", exportHandler.Export)

		ai := authed.Group("/ai")
		{
			ai.POST("/transcriptions/:id/upload", limit("api.transcriptions"), transcriptionHandler.Upload)
			ai.GET("/transcriptions/:id/analysis", transcriptionHandler.Analyze)
			ai.GET("/transcriptions/:id/summarize", transcriptionHandler.Summarize)

			ai.POST("/translations", limit("api.translations"), translationHandler.Create)
			ai.GET("/translations/:id", translationHandler.Get)
			ai.GET("/translations/:id/quality-check", translationHandler.QualityCheck)
			ai.GET("/medical-glossary/:source/:target", translationHandler.Glossary)

			ai.POST("/tts", limit("api.tts"), speechHandler.Synthesize)
		}

		authed.GET("/audio/:filename", mediaHandler.ServeUpload)
	}
}

// rateLimitFor builds the rate limit middleware for a named route.
// Malformed quota strings fall back to a safe default instead of leaving
// the route unprotected.
func rateLimitFor(limiter ratelimit.Limiter, cfg *config.Config, route string, logger *zap.Logger) gin.HandlerFunc {
	spec := cfg.RateLimits.For(route)
	quota, err := ratelimit.ParseQuota(spec)
	if err != nil {
		logger.Warn("invalid rate limit quota",
			zap.String("route", route),
			zap.String("quota", spec),
			zap.Error(err))
		quota = ratelimit.Quota{Limit: 30, Window: time.Minute}
	}
	return middleware.RateLimit(limiter, route, quota, logger)
}
