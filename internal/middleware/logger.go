package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-api/internal/errors"
	"github.com/yukikurage/task-api/internal/logger"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request once the handler chain has finished
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	requests := logger.OrNop(log).Named(logger.NameRequest)

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID, ok := GetUserID(c); ok {
			fields = append(fields, zap.Uint64("user_id", userID))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			requests.Error("Request failed", fields...)
		case status >= 400:
			requests.Warn("Request rejected", fields...)
		default:
			requests.Info("Request handled", fields...)
		}
	}
}

// Recovery turns a panic into a 500 response and logs it with the stack
func Recovery(log *zap.Logger) gin.HandlerFunc {
	errorsLog := logger.OrNop(log)

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				errorsLog.Error(fmt.Sprintf("Recovered from panic: %v", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", string(debug.Stack())),
				)
				apierrors.InternalError(c, "")
			}
		}()
		c.Next()
	}
}
