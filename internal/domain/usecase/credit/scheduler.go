package credit

import (
	"context"
	"errors"
	"time"

	"github.com/iqube-labs/iqube-api/internal/domain/entity"
	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
)

// Sweeper runs one refresh sweep
type Sweeper interface {
	RefreshSweep(ctx context.Context) (*entity.RefreshResult, error)
}

// Scheduler runs the refresh sweep in-process on a fixed interval.
// Overlap with an external scheduler is prevented by the sweep's job lock.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   coreport.Logger
}

// NewScheduler creates a scheduler; a non-positive interval disables it
func NewScheduler(sweeper Sweeper, interval time.Duration, logger coreport.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Credit refresh scheduler disabled", nil)
		return
	}

	s.logger.Info("Credit refresh scheduler started", map[string]any{
		"interval": s.interval.String(),
	})

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Credit refresh scheduler stopped", nil)
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Credit refresh sweep panicked", map[string]any{"panic": r})
		}
	}()

	result, err := s.sweeper.RefreshSweep(ctx)
	switch {
	case errors.Is(err, errs.ErrSweepInProgress):
		s.logger.Info("Skipping scheduled sweep, another sweep holds the lock", nil)
	case err != nil:
		s.logger.Error("Scheduled credit refresh failed", map[string]any{"error": err.Error()})
	default:
		s.logger.Info("Scheduled credit refresh finished", map[string]any{
			"refreshed": result.Refreshed,
			"total":     result.Total,
			"errors":    result.Errors,
		})
	}
}
