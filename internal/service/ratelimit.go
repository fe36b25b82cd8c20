package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter backed by Redis. A nil client
// disables limiting, which keeps local development working without a
// Redis instance.
type RateLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int
}

func NewRateLimiter(rdb *redis.Client, window time.Duration, max int) *RateLimiter {
	return &RateLimiter{rdb: rdb, window: window, max: max}
}

// Allow increments the counter for key and reports whether the request
// fits in the current window. Redis failures fail open.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l.rdb == nil || l.max <= 0 {
		return true
	}

	redisKey := fmt.Sprintf("ratelimit:%s", key)
	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, redisKey, l.window)
	}

	return count <= int64(l.max)
}
