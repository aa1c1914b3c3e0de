package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/iqube-labs/iqube-api/internal/domain/error"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxRetries: attempts, RetryInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

func TestRetryOnTransientError(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNoopLogger()

	t.Run("transient error is retried until success", func(t *testing.T) {
		// Arrange
		calls := 0
		op := func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		}

		// Act
		err := RetryOnTransientError(ctx, fastRetry(3), op, log)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("domain errors are returned at once", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetry(5), func() error {
			calls++
			return errs.NewInsufficientCreditsError("u1", 3, 1)
		}, log)

		assert.ErrorIs(t, err, errs.ErrInsufficientCredits)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after the last attempt", func(t *testing.T) {
		calls := 0
		err := RetryOnTransientError(ctx, fastRetry(2), func() error {
			calls++
			return errs.ErrDatabaseTimeout
		}, log)

		assert.ErrorIs(t, err, errs.ErrDatabaseTimeout)
		assert.Equal(t, 2, calls)
	})

	t.Run("canceled context stops the wait", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		slow := RetryConfig{MaxRetries: 3, RetryInterval: time.Hour, MaxInterval: time.Hour}

		err := RetryOnTransientError(canceled, slow, func() error { return errors.New("deadlock detected") }, log)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		err := NewRetryFunc(RetryConfig{}, log)(ctx, func() error {
			calls++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestCalculateBackoffWithJitter(t *testing.T) {
	cfg := RetryConfig{RetryInterval: 100 * time.Millisecond, MaxInterval: time.Second, JitterFactor: 0.2}

	assert.InDelta(t, float64(100*time.Millisecond), float64(calculateBackoffWithJitter(0, cfg)), float64(20*time.Millisecond))
	assert.InDelta(t, float64(400*time.Millisecond), float64(calculateBackoffWithJitter(2, cfg)), float64(80*time.Millisecond))

	capped := calculateBackoffWithJitter(10, cfg)
	assert.GreaterOrEqual(t, capped, time.Second)
	assert.LessOrEqual(t, capped, 1200*time.Millisecond)
}
