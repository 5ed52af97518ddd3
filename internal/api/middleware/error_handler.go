package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "medscribe/internal/api/errors"
)

// ErrorHandler recovers panics into the standard error envelope. Handlers
// report expected failures through HandleError; anything that reaches the
// recovery path is logged with its request id and returned as an opaque
// internal error.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestID := c.GetString("request_id")

		var apiErr *apierrors.APIError

		switch err := recovered.(type) {
		case *apierrors.APIError:
			apiErr = err
			apiErr.RequestID = requestID
		case error:
			logger.Error("internal server error",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			apiErr = &apierrors.APIError{
				Kind:      apierrors.KindInternal,
				Message:   "Internal server error",
				Code:      apierrors.CodeInternalError,
				RequestID: requestID,
			}
		default:
			logger.Error("panic in request handler",
				zap.String("request_id", requestID),
				zap.Any("recovered", recovered),
			)
			apiErr = &apierrors.APIError{
				Kind:      apierrors.KindInternal,
				Message:   "Internal server error",
				Code:      apierrors.CodeInternalError,
				RequestID: requestID,
			}
		}

		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError renders an error through the standard envelope and aborts the
// request. Unexpected error types are re-raised so the recovery middleware
// logs them.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		apiErr.RequestID = c.GetString("request_id")
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
		return
	}

	panic(err)
}
