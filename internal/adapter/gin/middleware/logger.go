package middleware

import (
	"net/http"
	"time"

	"users-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger returns a Gin middleware that writes one access log line per request.
// A request that panics is logged as a 500 before the panic reaches Recovery.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		defer func() {
			status := c.Writer.Status()
			r := recover()
			if r != nil {
				status = http.StatusInternalServerError
			}

			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("path", path),
				zap.String("query", query),
				zap.Int("status", status),
				zap.Int("size", c.Writer.Size()),
				zap.String("client_ip", c.ClientIP()),
				zap.String("user_agent", c.Request.UserAgent()),
				zap.Duration("latency", time.Since(start)),
			}
			if len(c.Errors) > 0 {
				fields = append(fields, zap.String("errors", c.Errors.String()))
			}

			reqLog := logger.WithContext(c.Request.Context(), log)
			switch {
			case status >= 500:
				reqLog.Error("HTTP request", fields...)
			case status >= 400:
				reqLog.Warn("HTTP request", fields...)
			default:
				reqLog.Info("HTTP request", fields...)
			}

			if r != nil {
				panic(r)
			}
		}()

		c.Next()
	}
}
