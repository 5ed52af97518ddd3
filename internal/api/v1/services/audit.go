package services

import (
	"context"

	"go.uber.org/zap"

	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
)

type requestMetaKey struct{}

// RequestMeta carries per-request client attributes from the HTTP layer to
// audit records written deeper in the call stack.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// WithRequestMeta attaches client attributes to the context.
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFrom extracts client attributes, returning zero values outside
// a request scope.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// AuditService records access to protected resources. UserID zero marks
// system actions such as retention cleanup.
type AuditService interface {
	Record(ctx context.Context, userID uint, resourceType string, resourceID uint, action, description string)
}

// AuditServiceImpl writes audit rows through the repository. A failed write
// is logged and never fails the calling request.
type AuditServiceImpl struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService creates the repository-backed audit service.
func NewAuditService(repo repository.AuditLogRepository, logger *zap.Logger) AuditService {
	return &AuditServiceImpl{repo: repo, logger: logger}
}

func (s *AuditServiceImpl) Record(ctx context.Context, userID uint, resourceType string, resourceID uint, action, description string) {
	meta := RequestMetaFrom(ctx)
	entry := &model.AuditLog{
		UserID:       userID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Action:       action,
		Description:  description,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("audit log write failed",
			zap.Uint("user_id", userID),
			zap.String("resource_type", resourceType),
			zap.Uint("resource_id", resourceID),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("audit log",
		zap.Uint("user_id", userID),
		zap.String("action", action),
		zap.String("resource_type", resourceType),
		zap.Uint("resource_id", resourceID),
	)
}
