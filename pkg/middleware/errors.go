package middleware

import (
	"net/http"

	"github.com/devconnect/profile-service/pkg/apperror"
	"github.com/devconnect/profile-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the response for the last error a handler attached
// with c.Error. Server-side causes are logged, never returned.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			logger.L().Error().Err(err).
				Str("request_id", RequestIDFrom(c)).
				Str("path", c.Request.URL.Path).
				Int("status", status).
				Msg("request failed")
		}
		c.AbortWithStatusJSON(status, apperror.Body(err))
	}
}
