package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/database"
)

// DatabaseChecker runs a live database probe
type DatabaseChecker interface {
	CheckStatus(ctx context.Context) (*database.Status, error)
}

// HealthHandler serves liveness and database status
type HealthHandler struct {
	environment  string
	startedAt    time.Time
	db           DatabaseChecker
	timeProvider coreport.TimeProvider
}

// NewHealthHandler creates a new health handler; uptime counts from now
func NewHealthHandler(environment string, db DatabaseChecker, timeProvider coreport.TimeProvider) *HealthHandler {
	return &HealthHandler{
		environment:  environment,
		startedAt:    timeProvider.Now(),
		db:           db,
		timeProvider: timeProvider,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"message":     "iQube Backend API is running",
		"timestamp":   h.timeProvider.Now(),
		"environment": h.environment,
		"uptime":      h.timeProvider.Since(h.startedAt).Std().Seconds(),
	})
}

// DatabaseStatus handles GET /api/status/database
func (h *HealthHandler) DatabaseStatus(c *gin.Context) {
	status, err := h.db.CheckStatus(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "connected",
		"driver":       status.Driver,
		"latencyMs":    status.Latency.Milliseconds(),
		"pool":         status.Pool,
		"clientIp":     c.ClientIP(),
		"forwardedFor": c.GetHeader("X-Forwarded-For"),
		"timestamp":    h.timeProvider.Now(),
	})
}
