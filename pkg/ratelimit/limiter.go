package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is the subset of redis commands the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter is a fixed-window counter shared across instances through
// Redis, so overlapping serverless-style deployments enforce one budget.
type Limiter struct {
	rdb    Counter
	limit  int
	window time.Duration
}

func New(rdb Counter, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow reports whether the client identified by key may proceed. Redis
// errors fail open: dropping legitimate webhooks costs more than letting
// a burst through while the store is unavailable.
func (l *Limiter) Allow(ctx context.Context, scope, key string) bool {
	redisKey := fmt.Sprintf("rl:%s:%s", scope, key)

	count, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		slog.Info(err.Error())
		return true
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.window).Err(); err != nil {
			slog.Info(err.Error())
		}
	}

	return count <= int64(l.limit)
}
