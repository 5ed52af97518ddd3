package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/api/v1/services"
	apperrors "medscribe/internal/app/errors"
	"medscribe/internal/app/model"
	"medscribe/internal/app/repository"
)

const currentUserKey = "current_user"

// bearerToken extracts the token from the Authorization header, returning
// an empty string when the header is absent or not a bearer scheme.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	return ""
}

// RequireAuth validates the access token and loads the account behind it.
// The user is stored on the gin context for handlers via CurrentUser.
func RequireAuth(users repository.UserRepository, tokens *services.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			HandleError(c, apierrors.NewUnauthorizedError("Missing authentication token"))
			return
		}

		claims, err := tokens.Verify(token, services.TokenTypeAccess)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				HandleError(c, apierrors.NewUnauthorizedError("Token has expired"))
				return
			}
			logger.Warn("invalid access token", zap.Error(err))
			HandleError(c, apierrors.NewUnauthorizedError("Invalid token"))
			return
		}

		user, err := users.FindByUsername(c.Request.Context(), claims.Subject)
		if err != nil {
			HandleError(c, apierrors.NewUnauthorizedError("Invalid token - user not found"))
			return
		}
		if !user.IsActive {
			HandleError(c, apierrors.NewUnauthorizedError("User account is inactive"))
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser stores the account handlers read through CurrentUser.
// RequireAuth calls it after token verification; tests call it directly to
// run authenticated handlers without minting tokens.
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(currentUserKey, user)
}

// CurrentUser returns the authenticated account set by RequireAuth. Calling
// it outside an authenticated route is a programming error and panics.
func CurrentUser(c *gin.Context) *model.User {
	user, ok := c.MustGet(currentUserKey).(*model.User)
	if !ok {
		panic("current user missing from context")
	}
	return user
}
