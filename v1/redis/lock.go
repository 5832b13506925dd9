package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	releaseScript = redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	refreshScript = redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`)
)

// Lock is a held distributed lock. Only the holder's token can release or
// refresh it.
type Lock struct {
	client *RedisClient
	key    string
	value  string
	ttl    time.Duration
}

// AcquireLock sets key with SET NX PX. It returns ErrLockNotAcquired when
// another holder owns the key.
func (r *RedisClient) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*Lock, error) {
	value := uuid.NewString()

	start := time.Now()
	r.mu.RLock()
	acquired, err := r.client.SetNX(ctx, key, value, ttl).Result()
	r.mu.RUnlock()
	r.observeOperation("lock_acquire", key, value, time.Since(start), err, 0, map[string]interface{}{
		"acquired": acquired,
		"ttl":      ttl.String(),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return nil, ErrLockNotAcquired
	}

	return &Lock{client: r, key: key, value: value, ttl: ttl}, nil
}

// Release deletes the key if this lock still owns it.
func (l *Lock) Release(ctx context.Context) error {
	start := time.Now()
	l.client.mu.RLock()
	n, err := releaseScript.Run(ctx, l.client.client, []string{l.key}, l.value).Int64()
	l.client.mu.RUnlock()
	l.client.observeOperation("lock_release", l.key, l.value, time.Since(start), err, 0, nil)

	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Refresh extends the TTL if this lock still owns the key.
func (l *Lock) Refresh(ctx context.Context) error {
	l.client.mu.RLock()
	n, err := refreshScript.Run(ctx, l.client.client, []string{l.key}, l.value, l.ttl.Milliseconds()).Int64()
	l.client.mu.RUnlock()

	if err != nil {
		return fmt.Errorf("failed to refresh lock: %w", err)
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

// Key returns the locked key.
func (l *Lock) Key() string { return l.key }
