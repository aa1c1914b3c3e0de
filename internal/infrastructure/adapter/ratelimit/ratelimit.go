package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	coreport "github.com/iqube-labs/iqube-api/internal/domain/port/core"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/adapter/metrics"
	"github.com/iqube-labs/iqube-api/internal/infrastructure/config"
)

const defaultPrefix = "iqube:ratelimit"

// rate is tokens per millisecond; a bucket refills completely once per window
const tokenBucketLua = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

if rate <= 0 or burst <= 0 then
  return {1, 0, burst}
end

local data = redis.call("HMGET", key, "tokens", "ts")
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = burst
end
if ts == nil then
  ts = now
end

local delta = math.max(0, now - ts)
tokens = math.min(burst, tokens + delta * rate)

local allowed = tokens >= requested
local wait_ms = 0
if allowed then
  tokens = tokens - requested
else
  wait_ms = math.ceil((requested - tokens) / rate)
end

redis.call("HSET", key, "tokens", tostring(tokens), "ts", tostring(now))
redis.call("PEXPIRE", key, math.ceil(burst / rate))

return {allowed and 1 or 0, wait_ms, math.floor(tokens)}
`

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a per-key token bucket stored in redis
type Limiter struct {
	rdb          redis.Cmdable
	prefix       string
	capacity     int
	window       time.Duration
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	script       *redis.Script
}

// NewLimiter allows capacity requests per window for every key.
// A non-positive capacity or window disables limiting.
func NewLimiter(rdb redis.Cmdable, logger coreport.Logger, timeProvider coreport.TimeProvider, prefix string, capacity int, window time.Duration) *Limiter {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Limiter{
		rdb:          rdb,
		prefix:       prefix,
		capacity:     capacity,
		window:       window,
		logger:       logger,
		timeProvider: timeProvider,
		script:       redis.NewScript(tokenBucketLua),
	}
}

// NewRedisClient connects to the configured redis and checks it answers
func NewRedisClient(ctx context.Context, conf config.RateLimitConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", conf.RedisAddr, err)
	}
	return rdb, nil
}

// Capacity is the number of requests allowed per window
func (l *Limiter) Capacity() int {
	return l.capacity
}

// Allow takes one token from key's bucket
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	if l == nil || l.capacity <= 0 || l.window <= 0 {
		return Decision{Allowed: true}, nil
	}

	rate := float64(l.capacity) / float64(l.window.Milliseconds())
	now := l.timeProvider.Now().UnixMilli()

	res, err := l.script.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, rate, l.capacity, now, 1).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit eval: %w", err)
	}

	values, ok := res.([]interface{})
	if !ok || len(values) < 3 {
		return Decision{}, fmt.Errorf("ratelimit invalid result")
	}

	decision := Decision{
		Allowed:    toInt64(values[0]) == 1,
		RetryAfter: time.Duration(toInt64(values[1])) * time.Millisecond,
		Remaining:  int(toInt64(values[2])),
	}
	if !decision.Allowed {
		metrics.RateLimitRejectedTotal.Inc()
		l.logger.Debug("Rate limit exceeded", map[string]any{
			"key":         key,
			"retry_after": decision.RetryAfter.String(),
		})
	}
	return decision, nil
}

func toInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if t == "" {
			return 0
		}
		if parsed, err := strconv.ParseInt(t, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}
