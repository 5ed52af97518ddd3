package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/api/v1/dto"
	apperrors "medscribe/internal/app/errors"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
)

// AuthService covers registration, login, token refresh and the password
// lifecycle of the authenticated user.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	Profile(ctx context.Context, user *model.User) *dto.UserResponse
	ChangePassword(ctx context.Context, user *model.User, req *dto.ChangePasswordRequest) error
}

// AuthServiceImpl implements AuthService on top of the user repository.
type AuthServiceImpl struct {
	users     repository.UserRepository
	tokens    *TokenManager
	protector LoginProtector
	audit     AuditService
	logger    *zap.Logger
}

// NewAuthService creates the authentication service.
func NewAuthService(
	users repository.UserRepository,
	tokens *TokenManager,
	protector LoginProtector,
	audit AuditService,
	logger *zap.Logger,
) AuthService {
	return &AuthServiceImpl{
		users:     users,
		tokens:    tokens,
		protector: protector,
		audit:     audit,
		logger:    logger,
	}
}

// Register creates a new account. Email and username must both be unused
// and the password must satisfy the policy.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	if ok, message := ValidatePassword(req.Password); !ok {
		return nil, apierrors.NewValidationError("Validation error", map[string]any{
			"password": message,
		})
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, apierrors.NewConflictError("Email already registered")
	}
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return nil, apierrors.NewConflictError("Username already taken")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apierrors.NewInternalError("An error occurred during registration")
	}

	now := time.Now()
	user := &model.User{
		Username:          req.Username,
		Email:             req.Email,
		HashedPassword:    hash,
		IsActive:          true,
		PasswordChangedAt: &now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can still hit the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apierrors.NewConflictError("Email already registered")
		}
		s.logger.Error("user registration failed", zap.String("email", req.Email), zap.Error(err))
		return nil, apierrors.NewInternalError("An error occurred during registration")
	}

	s.audit.Record(ctx, user.ID, "user", user.ID, "create",
		fmt.Sprintf("User self-registration with username: %s, email: %s", req.Username, req.Email))

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// Login verifies credentials and issues a token pair. Five failed attempts
// inside the lockout window lock the identity out.
func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	identity := req.Username

	locked, remaining, err := s.protector.CheckLockout(ctx, identity)
	if err != nil {
		s.logger.Warn("lockout check failed", zap.Error(err))
	}
	if locked {
		return nil, &apierrors.APIError{
			Kind: apierrors.KindRateLimited,
			Message: fmt.Sprintf(
				"Account is temporarily locked due to too many failed attempts. Try again in %d seconds.",
				remaining),
			Code:    apierrors.CodeAccountLocked,
			Details: map[string]any{"lockout_seconds": remaining},
		}
	}

	user, err := s.users.FindByLogin(ctx, identity)
	if err != nil || !CheckPassword(user.HashedPassword, req.Password) {
		if trackErr := s.protector.TrackFailure(ctx, identity); trackErr != nil {
			s.logger.Warn("failed login tracking failed", zap.Error(trackErr))
		}
		s.logger.Warn("failed login attempt", zap.String("identity", identity))
		return nil, apierrors.NewUnauthorizedError("Invalid email or password")
	}

	if resetErr := s.protector.Reset(ctx, identity); resetErr != nil {
		s.logger.Warn("failed login reset failed", zap.Error(resetErr))
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, apierrors.NewInternalError("An error occurred during login")
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.Username)
	if err != nil {
		return nil, apierrors.NewInternalError("An error occurred during login")
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.LoginAttempts = 0
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("last login stamp failed", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	s.audit.Record(ctx, user.ID, "user", user.ID, "login", "User login")

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.tokens.AccessTTL().Seconds(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *AuthServiceImpl) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.tokens.Verify(req.RefreshToken, TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return nil, apierrors.NewUnauthorizedError("Refresh token has expired")
		}
		return nil, apierrors.NewUnauthorizedError("Invalid refresh token")
	}

	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, apierrors.NewUnauthorizedError("Invalid refresh token")
	}
	if !user.IsActive {
		return nil, apierrors.NewUnauthorizedError("Invalid refresh token")
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return nil, apierrors.NewInternalError("An error occurred during token refresh")
	}

	s.audit.Record(ctx, user.ID, "user", user.ID, "token_refresh", "Token refresh")

	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   s.tokens.AccessTTL().Seconds(),
	}, nil
}

// Profile returns the caller's own account view.
func (s *AuthServiceImpl) Profile(ctx context.Context, user *model.User) *dto.UserResponse {
	s.audit.Record(ctx, user.ID, "user", user.ID, "view", "User viewed their profile")
	resp := dto.ToUserResponse(user)
	return &resp
}

// ChangePassword rotates the caller's password after verifying the current
// one. A wrong current password counts as a failed login for the lockout
// window.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, user *model.User, req *dto.ChangePasswordRequest) error {
	if !CheckPassword(user.HashedPassword, req.CurrentPassword) {
		if err := s.protector.TrackFailure(ctx, user.Email); err != nil {
			s.logger.Warn("failed login tracking failed", zap.Error(err))
		}
		s.logger.Warn("failed password change attempt", zap.String("username", user.Username))
		return apierrors.NewUnauthorizedError("Current password is incorrect")
	}

	if err := s.protector.Reset(ctx, user.Email); err != nil {
		s.logger.Warn("failed login reset failed", zap.Error(err))
	}

	if ok, message := ValidatePassword(req.NewPassword); !ok {
		return apierrors.NewBadRequestError(message)
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return apierrors.NewInternalError("An error occurred during password change")
	}

	now := time.Now()
	user.HashedPassword = hash
	user.PasswordChangedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("password update failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return apierrors.NewInternalError("An error occurred during password change")
	}

	s.audit.Record(ctx, user.ID, "user", user.ID, "password_change", "User changed their password")
	return nil
}
