package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"speech-relay/internal/api/errors"
	"speech-relay/internal/app/relay"
)

// ErrorHandler recovers from panics and answers with a generic internal error
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString(RequestIDKey)

		var apiErr *errors.APIError

		switch err := recovered.(type) {
		case *errors.APIError:
			apiErr = err
		case error:
			// Log the original error for debugging
			logger.Error("Internal server error",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			apiErr = errors.NewInternalError("Internal server error")
		default:
			logger.Error("Unknown panic occurred",
				zap.Any("recovered", recovered),
				zap.String("request_id", requestID),
			)
			apiErr = errors.NewInternalError("Internal server error")
		}

		apiErr.RequestID = requestID
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError writes err as a JSON error response and aborts the chain
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var apiErr *errors.APIError
	switch e := err.(type) {
	case *errors.APIError:
		apiErr = e
	default:
		relayErr, ok := relay.AsError(err)
		if !ok {
			// If it's neither, panic so the error middleware can handle it
			panic(err)
		}
		apiErr = errors.FromRelayError(relayErr)
	}

	_ = c.Error(err)
	apiErr.RequestID = c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}
