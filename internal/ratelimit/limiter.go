package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter is a Redis-backed fixed-window counter, keyed per caller. The
// window resets a full minute after the first hit in it.
type Limiter struct {
	client    *redis.Client
	logger    *zap.Logger
	limit     int
	keyPrefix string
}

// NewLimiter builds a limiter allowing limit hits per minute per key. A zero
// or negative limit disables limiting.
func NewLimiter(client *redis.Client, logger *zap.Logger, keyPrefix string, limit int) *Limiter {
	return &Limiter{
		client:    client,
		logger:    logger,
		limit:     limit,
		keyPrefix: keyPrefix,
	}
}

// Allow reports whether the caller identified by key may proceed. Redis being
// unreachable fails open: intake availability outranks throttling.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	redisKey := fmt.Sprintf("%s:%s", l.keyPrefix, key)
	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, time.Minute).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.limit)
}
