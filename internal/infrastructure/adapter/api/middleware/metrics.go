package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
)

// Metrics records request counts and latency by route template
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
