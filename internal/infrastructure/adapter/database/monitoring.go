package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
)

// observeQuery feeds one traced statement into the query latency histogram
func observeQuery(queryType string, elapsed time.Duration, failed bool) {
	operation := strings.ToLower(queryType)
	if operation == "" {
		operation = "other"
	}
	metrics.ObserveQuery(operation, elapsed, failed)
}

func snapshotPool(stats sql.DBStats) ConnectionPoolMetrics {
	return ConnectionPoolMetrics{
		OpenConnections:    stats.OpenConnections,
		IdleConnections:    stats.Idle,
		MaxOpenConnections: stats.MaxOpenConnections,
		InUse:              stats.InUse,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}
