package middleware

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/ratelimit"
)

// Limiter decides whether a key may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
	Capacity() int
}

// RateLimit throttles requests per client IP. Limiter failures let the request through.
func RateLimit(limiter Limiter, logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("Rate limiter unavailable", map[string]any{
				"error": err.Error(),
				"ip":    c.ClientIP(),
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Capacity()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			_ = c.Error(errs.ErrRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
