package ratelimit

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/logger"
	timeprovider "github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/time"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/config"
)

var epoch = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return s, rdb
}

func TestLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("capacity requests pass then the bucket is empty", func(t *testing.T) {
		// Arrange
		_, rdb := newMiniRedis(t)
		clock := timeprovider.NewFixedTimeProvider(epoch)
		limiter := NewLimiter(rdb, logger.NewNoopLogger(), clock, "test", 3, time.Minute)

		// Act
		var decisions []Decision
		for i := 0; i < 4; i++ {
			d, err := limiter.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			decisions = append(decisions, d)
		}

		// Assert
		assert.True(t, decisions[0].Allowed)
		assert.Equal(t, 2, decisions[0].Remaining)
		assert.True(t, decisions[2].Allowed)
		assert.Equal(t, 0, decisions[2].Remaining)
		assert.False(t, decisions[3].Allowed)
		assert.InDelta(t, float64(20*time.Second), float64(decisions[3].RetryAfter), float64(time.Millisecond))
	})

	t.Run("bucket refills over the window", func(t *testing.T) {
		_, rdb := newMiniRedis(t)
		clock := timeprovider.NewFixedTimeProvider(epoch)
		limiter := NewLimiter(rdb, logger.NewNoopLogger(), clock, "test", 3, time.Minute)
		for i := 0; i < 3; i++ {
			_, err := limiter.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
		}

		clock.Advance(21 * time.Second)
		d, err := limiter.Allow(ctx, "10.0.0.1")

		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("keys have separate buckets", func(t *testing.T) {
		_, rdb := newMiniRedis(t)
		limiter := NewLimiter(rdb, logger.NewNoopLogger(), timeprovider.NewFixedTimeProvider(epoch), "test", 1, time.Minute)

		first, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		second, err := limiter.Allow(ctx, "b")
		require.NoError(t, err)
		third, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)

		assert.True(t, first.Allowed)
		assert.True(t, second.Allowed)
		assert.False(t, third.Allowed)
	})

	t.Run("state lives under the prefixed key", func(t *testing.T) {
		s, rdb := newMiniRedis(t)
		limiter := NewLimiter(rdb, logger.NewNoopLogger(), timeprovider.NewFixedTimeProvider(epoch), "", 5, time.Minute)

		_, err := limiter.Allow(ctx, "10.0.0.9")
		require.NoError(t, err)

		assert.True(t, s.Exists("iqube:ratelimit:10.0.0.9"))
		tokens, err := strconv.ParseFloat(s.HGet("iqube:ratelimit:10.0.0.9", "tokens"), 64)
		require.NoError(t, err)
		assert.InDelta(t, 4, tokens, 0.001)
	})

	t.Run("zero capacity disables limiting", func(t *testing.T) {
		limiter := NewLimiter(nil, logger.NewNoopLogger(), timeprovider.NewFixedTimeProvider(epoch), "test", 0, time.Minute)

		d, err := limiter.Allow(ctx, "anyone")

		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("redis failure is returned", func(t *testing.T) {
		s, rdb := newMiniRedis(t)
		limiter := NewLimiter(rdb, logger.NewNoopLogger(), timeprovider.NewFixedTimeProvider(epoch), "test", 5, time.Minute)
		s.Close()

		_, err := limiter.Allow(ctx, "10.0.0.1")

		assert.ErrorContains(t, err, "ratelimit eval")
	})
}

func TestNewRedisClient(t *testing.T) {
	s, _ := newMiniRedis(t)

	rdb, err := NewRedisClient(context.Background(), config.RateLimitConfig{RedisAddr: s.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	assert.NoError(t, rdb.Ping(context.Background()).Err())
}
