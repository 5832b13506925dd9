package redis

import "errors"

var (
	// ErrLockNotAcquired is returned when the lock is held by someone else.
	ErrLockNotAcquired = errors.New("redis: lock not acquired")

	// ErrLockNotHeld is returned when releasing or refreshing a lock that
	// expired or was taken over.
	ErrLockNotHeld = errors.New("redis: lock not held")
)
