package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/ctxutil"
	"github.com/wissamraji-ui/mathtutor-backend/internal/platform/logger"
)

// RequestLogger emits one structured line per request after it completes.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		kvs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			kvs = append(kvs, "user_id", rd.UserID.String(), "request_id", rd.RequestID)
		}
		if len(c.Errors) > 0 {
			kvs = append(kvs, "gin_errors", c.Errors.String())
		}
		if c.Writer.Status() >= 500 {
			reqLog.Error("request failed", kvs...)
			return
		}
		reqLog.Info("request completed", kvs...)
	}
}
