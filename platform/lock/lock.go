// Package lock provides short-lived distributed locks backed by Redis.
// This is part of the platform layer and contains no business logic.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quote_order_backend/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another holder owns the key.
var ErrNotAcquired = errors.New("lock not acquired")

// releaseIfOwner deletes the key only while it still holds our token, so an
// expired lock re-taken by someone else is left alone.
const releaseIfOwner = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`

// Locker acquires keyed locks with a fixed TTL.
type Locker struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisClient opens a client from the configured REDIS_URL.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, fmt.Errorf("redis url not configured")
	}
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	if opt.TLSConfig != nil && cfg.GetRedisTLSInsecure() {
		opt.TLSConfig.InsecureSkipVerify = true
	}
	return redis.NewClient(opt), nil
}

// New returns a Locker whose keys are namespaced by prefix.
func New(rdb redis.UniversalClient, prefix string, ttl time.Duration) *Locker {
	return &Locker{rdb: rdb, ttl: ttl, prefix: prefix}
}

// Acquire takes the lock for key and returns a release func.
// ErrNotAcquired is returned if the key is already held.
func (l *Locker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	fullKey := l.prefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, fullKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", fullKey, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	release := func(ctx context.Context) error {
		return l.rdb.Eval(ctx, releaseIfOwner, []string{fullKey}, token).Err()
	}
	return release, nil
}
