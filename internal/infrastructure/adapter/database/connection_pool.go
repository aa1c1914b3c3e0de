package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
	"gorm.io/gorm"
)

const pingTimeout = 5 * time.Second

// ConnectionPoolMetrics is a snapshot of sql.DBStats
type ConnectionPoolMetrics struct {
	OpenConnections    int           `json:"openConnections"`
	IdleConnections    int           `json:"idleConnections"`
	MaxOpenConnections int           `json:"maxOpenConnections"`
	InUse              int           `json:"inUse"`
	WaitCount          int64         `json:"waitCount"`
	WaitDuration       time.Duration `json:"waitDuration"`
	MaxIdleClosed      int64         `json:"maxIdleClosed"`
	MaxLifetimeClosed  int64         `json:"maxLifetimeClosed"`
}

// ConnectionPoolMonitor periodically pings the database and publishes pool gauges
type ConnectionPoolMonitor struct {
	db           func() *gorm.DB
	logger       coreport.Logger
	metricsCache *ConnectionPoolMetrics
	mutex        sync.RWMutex
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(db func() *gorm.DB, logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		db:       db,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start collects once and then every interval until Stop
func (m *ConnectionPoolMonitor) Start(interval time.Duration) error {
	if err := m.collectMetrics(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := m.collectMetrics(); err != nil {
					m.logger.Error("Failed to collect connection pool metrics", map[string]any{
						"error": err,
					})
				}
			case <-m.stopChan:
				return
			}
		}
	}()

	return nil
}

// Stop stops the monitoring; calling it twice is harmless
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

// GetMetrics returns the last collected snapshot
func (m *ConnectionPoolMonitor) GetMetrics() ConnectionPoolMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.metricsCache == nil {
		return ConnectionPoolMetrics{}
	}
	return *m.metricsCache
}

func (m *ConnectionPoolMonitor) collectMetrics() error {
	sqlDB, err := m.db().DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		metrics.DBUp.Set(0)
		m.logger.Error("Database ping failed", map[string]any{"error": err})
	} else {
		metrics.DBUp.Set(1)
	}

	snapshot := snapshotPool(sqlDB.Stats())

	m.mutex.Lock()
	m.metricsCache = &snapshot
	m.mutex.Unlock()

	metrics.DBOpenConnections.Set(float64(snapshot.OpenConnections))
	metrics.DBInUseConnections.Set(float64(snapshot.InUse))
	metrics.DBIdleConnections.Set(float64(snapshot.IdleConnections))
	metrics.DBWaitCount.Set(float64(snapshot.WaitCount))

	threshold := float64(snapshot.MaxOpenConnections) * 0.8
	if snapshot.MaxOpenConnections > 0 && float64(snapshot.InUse) > threshold {
		m.logger.Warn("Database connection pool nearly exhausted", map[string]any{
			"in_use":     snapshot.InUse,
			"max_open":   snapshot.MaxOpenConnections,
			"idle":       snapshot.IdleConnections,
			"wait_count": snapshot.WaitCount,
			"wait_time":  snapshot.WaitDuration.String(),
		})
	}

	return nil
}
