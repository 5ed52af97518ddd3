package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medscribe/internal/api/v1/services"
)

// RequestID tags every request with a unique id, honoring one supplied by
// the caller. The id rides on the gin context, the response header and the
// error envelope.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// ClientMeta stamps the caller's address and user agent into the request
// context so audit records written anywhere downstream carry them.
func ClientMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := services.WithRequestMeta(c.Request.Context(), services.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
