package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medscribe/internal/api/v1/services"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
	"medscribe/internal/config"
)

// stubUserRepository serves accounts from a map keyed by username. Only the
// lookups the auth middleware needs are populated.
type stubUserRepository struct {
	users map[string]*model.User
}

func (s *stubUserRepository) Create(ctx context.Context, user *model.User) error { return nil }

func (s *stubUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if user, ok := s.users[username]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) FindByLogin(ctx context.Context, identity string) (*model.User, error) {
	return s.FindByUsername(ctx, identity)
}

func (s *stubUserRepository) Update(ctx context.Context, user *model.User) error { return nil }

var _ repository.UserRepository = (*stubUserRepository)(nil)

func newAuthTestRouter(t *testing.T, users repository.UserRepository, tokens *services.TokenManager) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", RequireAuth(users, tokens, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": CurrentUser(c).Username})
	})
	return router
}

func newTestTokenManager(accessMinutes int) *services.TokenManager {
	return services.NewTokenManager(config.AuthConfig{
		JWTSecretKey:             "unit-test-signing-secret",
		AccessTokenExpireMinutes: accessMinutes,
		RefreshTokenExpireDays:   7,
	})
}

func TestRequireAuth(t *testing.T) {
	tokens := newTestTokenManager(30)
	users := &stubUserRepository{users: map[string]*model.User{
		"drsmith": {ID: 7, Username: "drsmith", Email: "drsmith@clinic.example", IsActive: true},
		"retired": {ID: 8, Username: "retired", Email: "retired@clinic.example", IsActive: false},
	}}
	router := newAuthTestRouter(t, users, tokens)

	accessToken, err := tokens.IssueAccessToken("drsmith")
	require.NoError(t, err)
	refreshToken, err := tokens.IssueRefreshToken("drsmith")
	require.NoError(t, err)
	orphanToken, err := tokens.IssueAccessToken("ghost")
	require.NoError(t, err)
	inactiveToken, err := tokens.IssueAccessToken("retired")
	require.NoError(t, err)
	expiredToken, err := newTestTokenManager(-1).IssueAccessToken("drsmith")
	require.NoError(t, err)

	tests := []struct {
		name            string
		authorization   string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "valid access token",
			authorization:  "Bearer " + accessToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:            "missing header",
			authorization:   "",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Missing authentication token",
		},
		{
			name:            "wrong scheme",
			authorization:   "Basic ZHJzbWl0aDpwdw==",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Missing authentication token",
		},
		{
			name:            "garbage token",
			authorization:   "Bearer not.a.token",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid token",
		},
		{
			name:            "refresh token rejected on protected route",
			authorization:   "Bearer " + refreshToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid token",
		},
		{
			name:            "expired token",
			authorization:   "Bearer " + expiredToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Token has expired",
		},
		{
			name:            "token subject no longer exists",
			authorization:   "Bearer " + orphanToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid token - user not found",
		},
		{
			name:            "inactive account",
			authorization:   "Bearer " + inactiveToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "User account is inactive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authorization != "" {
				req.Header.Set("Authorization", tt.authorization)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "drsmith", body["username"])
				return
			}
			assert.Equal(t, tt.expectedMessage, body["message"])
			assert.Equal(t, "AUTHENTICATION_ERROR", body["error_code"])
		})
	}
}

func TestRequireAuthTokenSignedWithOtherSecret(t *testing.T) {
	users := &stubUserRepository{users: map[string]*model.User{
		"drsmith": {ID: 7, Username: "drsmith", IsActive: true},
	}}
	router := newAuthTestRouter(t, users, newTestTokenManager(30))

	foreign := services.NewTokenManager(config.AuthConfig{
		JWTSecretKey:             "a-completely-different-secret",
		AccessTokenExpireMinutes: 30,
		RefreshTokenExpireDays:   7,
	})
	token, err := foreign.IssueAccessToken("drsmith")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid token", body["message"])
}
