// Package redis provides a go-redis client with a token-based distributed
// lock, used to keep reconciliation passes single-flight across replicas.
//
// AcquireLock sets the key with SET NX PX and a random token. Release and
// Refresh run a compare-and-act Lua script, so a holder whose lock expired
// cannot delete a lock taken over by another replica.
//
//	lock, err := client.AcquireLock(ctx, "floatrouter:reconcile", time.Minute)
//	if errors.Is(err, redis.ErrLockNotAcquired) {
//	    return // someone else is running
//	}
//	defer lock.Release(ctx)
package redis
