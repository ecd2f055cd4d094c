// Package lock serialises work across processes with a Redis mutex.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when the Locker has no Redis client.
var ErrNotConfigured = errors.New("lock: redis client not configured")

var releaseScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
end
return 0`)

// Locker provides a Redis-backed distributed lock. Keys are namespaced under
// Prefix, "lock:" when empty.
type Locker struct {
	Client       *redis.Client
	Prefix       string
	RetryBackoff time.Duration
}

// WithLock runs fn while holding name. The lock expires after ttl even if the
// holder dies, and is released when fn returns. It waits for a busy lock
// until ctx is done.
func (l Locker) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) error {
	if l.Client == nil {
		return ErrNotConfigured
	}
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	key := l.key(name)
	token := uuid.NewString()

	for {
		ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			break
		}
		timer := time.NewTimer(l.backoff())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	defer func() {
		_ = releaseScript.Run(context.Background(), l.Client, []string{key}, token).Err()
	}()
	return fn(ctx)
}

func (l Locker) key(name string) string {
	if l.Prefix == "" {
		return "lock:" + name
	}
	return l.Prefix + name
}

func (l Locker) backoff() time.Duration {
	if l.RetryBackoff <= 0 {
		return 50 * time.Millisecond
	}
	return l.RetryBackoff
}
