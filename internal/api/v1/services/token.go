package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "medscribe/internal/app/errors"
	"medscribe/internal/config"
)

// Token type claim values. A refresh token can never authenticate a
// protected route and an access token can never mint new tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims are the signed claims carried by every issued token. Subject
// holds the username.
type TokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a token manager from the auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecretKey),
		accessTTL:  cfg.AccessTokenTTL(),
		refreshTTL: cfg.RefreshTokenTTL(),
	}
}

// AccessTTL returns the access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// IssueAccessToken mints a short-lived access token for the username.
func (m *TokenManager) IssueAccessToken(username string) (string, error) {
	return m.issue(username, TokenTypeAccess, m.accessTTL)
}

// IssueRefreshToken mints a long-lived refresh token for the username.
func (m *TokenManager) IssueRefreshToken(username string) (string, error) {
	return m.issue(username, TokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) issue(username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses and validates a token of the expected type. Expired tokens
// map to ErrTokenExpired; everything else that fails validation, including
// a type mismatch, maps to ErrTokenInvalid.
func (m *TokenManager) Verify(token, expectedType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.WrapSentinel(apperrors.ErrTokenExpired, err)
		}
		return nil, apperrors.WrapSentinel(apperrors.ErrTokenInvalid, err)
	}

	if claims.Type != expectedType {
		return nil, apperrors.WrapSentinel(apperrors.ErrTokenInvalid,
			errors.New("unexpected token type "+claims.Type))
	}

	return claims, nil
}
