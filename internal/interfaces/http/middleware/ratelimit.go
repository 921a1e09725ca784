package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf-lend/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RateLimiter counts hits per key and reports whether the caller is
// within the limit
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit throttles requests per client IP and path. A limiter failure
// fails open: blocking every login because Redis is down is worse than
// briefly losing the throttle.
func RateLimit(limiter RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable, allowing request",
					zap.String("key", key), zap.Error(err))
			}
			c.Next()
			return
		}
		if !allowed {
			if log != nil {
				log.Warn("Rate limit exceeded",
					zap.String("client_ip", c.ClientIP()),
					zap.String("path", c.FullPath()))
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				dto.NewErrorResponse("RATE_LIMITED", "Too many requests, try again later"))
			return
		}
		c.Next()
	}
}
