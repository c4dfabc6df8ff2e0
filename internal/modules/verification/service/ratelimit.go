package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter spaces out AI calls per rider and action.
type RateLimiter interface {
	// Allow reports whether the call may go ahead. When it may not, the
	// duration is how long until it may.
	Allow(ctx context.Context, username, action string) (bool, time.Duration, error)
}

type redisRateLimiter struct {
	rdb    *redis.Client
	window time.Duration
}

// NewRedisRateLimiter allows one call per window. A nil client allows
// everything.
func NewRedisRateLimiter(rdb *redis.Client, window time.Duration) RateLimiter {
	return &redisRateLimiter{rdb: rdb, window: window}
}

func rateLimitKey(username, action string) string {
	return fmt.Sprintf("rate_limit:user:%s:%s", username, action)
}

func (l *redisRateLimiter) Allow(ctx context.Context, username, action string) (bool, time.Duration, error) {
	if l.rdb == nil || l.window <= 0 {
		return true, 0, nil
	}

	key := rateLimitKey(username, action)
	wasSet, err := l.rdb.SetNX(ctx, key, "locked", l.window).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
