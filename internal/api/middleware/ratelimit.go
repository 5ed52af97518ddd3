package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
	"medscribe/internal/app/model"
	"medscribe/internal/app/ratelimit"
)

// RateLimit enforces the route's quota. Authenticated callers are counted
// per user id, everyone else per client IP. A limiter backend failure
// admits the request instead of failing it.
func RateLimit(limiter ratelimit.Limiter, route string, quota ratelimit.Quota, logger *zap.Logger) gin.HandlerFunc {
	period := quota.Period()

	return func(c *gin.Context) {
		identity := c.ClientIP()
		if raw, ok := c.Get(currentUserKey); ok {
			if user, ok := raw.(*model.User); ok {
				identity = "user:" + strconv.FormatUint(uint64(user.ID), 10)
			}
		}

		res, err := limiter.Allow(c.Request.Context(), identity, route, quota)
		if err != nil {
			logger.Warn("rate limiter unavailable",
				zap.String("route", route), zap.Error(err))
			c.Next()
			return
		}

		if !res.Allowed {
			retryAfter := int(res.RetryAfter.Seconds())
			logger.Warn("rate limit exceeded",
				zap.String("route", route), zap.String("identity", identity))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			apiErr := apierrors.NewRateLimitError(
				fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter), retryAfter)
			apiErr.Details["limit"] = quota.Limit
			apiErr.Details["period"] = period
			HandleError(c, apiErr)
			return
		}

		c.Next()
	}
}
