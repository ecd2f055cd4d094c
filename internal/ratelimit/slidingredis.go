// Package ratelimit throttles requests with a Redis sliding window.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter implements a sliding window rate limiter backed by Redis sorted sets.
// Each admitted or rejected request is recorded, so a client hammering the
// endpoint stays throttled until it backs off for a full window.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Now    func() time.Time
}

// Allow registers an event for key and reports whether it fits in limit events
// per window. A limiter without a client, or with a non-positive limit or window,
// admits everything.
func (l Limiter) Allow(ctx context.Context, key string, window time.Duration, limit int) (Decision, error) {
	now := l.now()
	d := Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now.Add(window)}
	if l.Client == nil || limit <= 0 || window <= 0 {
		return d, nil
	}

	redisKey := l.Prefix + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	countCmd := pipe.ZCard(ctx, redisKey)
	oldestCmd := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return d, err
	}

	current := int(countCmd.Val())
	d.Remaining = max(0, limit-current)
	d.Allowed = current <= limit
	if oldest := oldestCmd.Val(); len(oldest) == 1 {
		d.ResetAt = time.Unix(0, int64(oldest[0].Score)).Add(window)
	}
	return d, nil
}

func (l Limiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
