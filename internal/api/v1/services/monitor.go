package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"medscribe/internal/api/v1/dto"
	"medscribe/internal/app/api"
	"medscribe/internal/app/storage"
)

// MonitorServiceImpl implements MonitorService. Provider checks report
// configuration state only; they never spend a real provider call on a
// status probe.
type MonitorServiceImpl struct {
	db          *gorm.DB
	cache       *redis.Client
	uploads     storage.UploadStore
	transcriber api.Transcriber
	translator  api.Translator
	logger      *zap.Logger
}

// NewMonitorService creates the status probe service. Cache, transcriber
// and translator may be nil when unconfigured.
func NewMonitorService(
	db *gorm.DB,
	cache *redis.Client,
	uploads storage.UploadStore,
	transcriber api.Transcriber,
	translator api.Translator,
	logger *zap.Logger,
) MonitorService {
	return &MonitorServiceImpl{
		db:          db,
		cache:       cache,
		uploads:     uploads,
		transcriber: transcriber,
		translator:  translator,
		logger:      logger,
	}
}

// Status probes every dependency and reports healthy only when all of them
// are available.
func (s *MonitorServiceImpl) Status(ctx context.Context) *dto.StatusResponse {
	services := map[string]dto.ServiceStatus{
		"speech_recognition": s.check(ctx, "speech_recognition", func(ctx context.Context) error {
			if s.transcriber == nil {
				return errors.New("provider not configured")
			}
			return nil
		}),
		"translation": s.check(ctx, "translation", func(ctx context.Context) error {
			if s.translator == nil {
				return errors.New("provider not configured")
			}
			return nil
		}),
		"database": s.check(ctx, "database", func(ctx context.Context) error {
			return s.db.WithContext(ctx).Exec("SELECT 1").Error
		}),
		"file_storage": s.check(ctx, "file_storage", func(ctx context.Context) error {
			name := "test_write.tmp"
			if err := s.uploads.Save(ctx, name, strings.NewReader("test"), 4, "text/plain"); err != nil {
				return err
			}
			return s.uploads.Delete(ctx, name)
		}),
	}
	if s.cache != nil {
		services["cache"] = s.check(ctx, "cache", func(ctx context.Context) error {
			return s.cache.Ping(ctx).Err()
		})
	}

	overall := "healthy"
	for _, svc := range services {
		if svc.Status != "available" {
			overall = "degraded"
			break
		}
	}
	return &dto.StatusResponse{Status: overall, Services: services}
}

func (s *MonitorServiceImpl) check(ctx context.Context, name string, probe func(context.Context) error) dto.ServiceStatus {
	start := time.Now()
	err := probe(ctx)
	elapsed := math.Round(float64(time.Since(start).Microseconds())/10) / 100

	status := dto.ServiceStatus{
		Name:           name,
		Status:         "available",
		Message:        "Service is available",
		ResponseTimeMs: elapsed,
		Timestamp:      float64(time.Now().UnixNano()) / 1e9,
	}
	if err != nil {
		s.logger.Error("service check failed", zap.String("service", name), zap.Error(err))
		status.Status = "unavailable"
		status.Message = "Service unavailable: " + err.Error()
	}
	return status
}
