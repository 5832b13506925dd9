package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/Aleph-Alpha/floatrouter/v1/redis"
)

// RedisLocker adapts redis.RedisClient to Locker.
type RedisLocker struct {
	client *redis.RedisClient
}

func NewRedisLocker(client *redis.RedisClient) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	lock, err := l.client.AcquireLock(ctx, key, ttl)
	if errors.Is(err, redis.ErrLockNotAcquired) {
		return nil, ErrLocked
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}
