package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery recovers from handler panics, logs the stack, and answers
// with the uniform error payload.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"status":    http.StatusInternalServerError,
					"error":     http.StatusText(http.StatusInternalServerError),
					"message":   "An internal error occurred",
					"path":      c.Request.URL.Path,
					"timestamp": time.Now().Format("2006-01-02T15:04:05"),
				})
			}
		}()
		c.Next()
	}
}
