package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/logging"
)

// RequestLogger logs one line per request after it completes. Server errors
// are logged at error level, client errors at warn.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := GetUserID(c); ok {
			args = append(args, "user_id", userID)
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.Error(ctx, "request", args...)
		case status >= 400:
			logger.Warn(ctx, "request", args...)
		default:
			logger.Info(ctx, "request", args...)
		}
	}
}
