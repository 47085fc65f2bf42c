package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiterConfig controls the Redis-backed request rate limiter.
type RateLimiterConfig struct {
	RequestsPerMinute int64
	Enabled           bool
}

// RateLimiter limits requests per client IP using a fixed one-minute
// window counted in Redis. Redis failures fail open so rate limiting
// never takes the API down with it.
func RateLimiter(client *redis.Client, cfg RateLimiterConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || client == nil {
			c.Next()
			return
		}

		window := time.Now().Unix() / 60
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), window)

		ctx := c.Request.Context()
		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}
		if count == 1 {
			// First hit in this window owns the expiry.
			if err := client.Expire(ctx, key, 2*time.Minute).Err(); err != nil {
				log.Warn("failed to set rate limit expiry", zap.Error(err))
			}
		}

		if count > cfg.RequestsPerMinute {
			log.Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.Int64("count", count),
				zap.Int64("limit", cfg.RequestsPerMinute),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": fmt.Sprintf("Rate limit exceeded: %d requests/minute", cfg.RequestsPerMinute),
			})
			return
		}

		c.Next()
	}
}
