// Package ratelimit provides a Redis-backed fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mazescore/internal/config"
)

// Limiter counts requests per key in fixed windows. A window's counter lives
// in a single Redis key with a TTL, so multiple instances share one budget.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *slog.Logger
}

// New creates a limiter from configuration, verifying Redis connectivity
func New(ctx context.Context, redisCfg *config.RedisConfig, limitCfg *config.RateLimitConfig, logger *slog.Logger) (*Limiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         redisCfg.Addr,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		PoolSize:     redisCfg.PoolSize,
		MinIdleConns: redisCfg.MinIdleConns,
		DialTimeout:  redisCfg.DialTimeout,
		ReadTimeout:  redisCfg.ReadTimeout,
		WriteTimeout: redisCfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewWithClient(client, limitCfg.Requests, limitCfg.Window, logger), nil
}

// NewWithClient creates a limiter over an existing Redis client
func NewWithClient(client *redis.Client, limit int, window time.Duration, logger *slog.Logger) *Limiter {
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// Close closes the Redis connection
func (l *Limiter) Close() error {
	return l.client.Close()
}

// Allow reports whether a request for key fits in the current window
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := l.client.Pipeline()
	countCmd := pipe.Incr(ctx, redisKey)
	// NX: only the first request of a window starts the clock.
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("incrementing request count: %w", err)
	}

	return countCmd.Val() <= int64(l.limit), nil
}
