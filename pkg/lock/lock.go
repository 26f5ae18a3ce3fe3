// Package lock provides the Redis lock that keeps two migrators from writing
// to the same catalog at once.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTimeout is returned when the lock stays taken past the acquire timeout.
var ErrTimeout = errors.New("timeout acquiring ingest lock")

const maxBackoff = 500 * time.Millisecond

// DistributedLock is a global exclusive lock backed by a single Redis key.
type DistributedLock struct {
	client         redis.Cmdable
	key            string
	ttl            time.Duration
	acquireTimeout time.Duration
}

// New creates a DistributedLock.
//   - key: the Redis key holding the owner token (e.g. "satimage_bridge:ingest_lock")
//   - ttl: expiry of the key so a crashed run cannot hold the lock forever
//   - acquireTimeout: how long Acquire waits for another run to finish
func New(client redis.Cmdable, key string, ttl, acquireTimeout time.Duration) *DistributedLock {
	return &DistributedLock{
		client:         client,
		key:            key,
		ttl:            ttl,
		acquireTimeout: acquireTimeout,
	}
}

// Acquire blocks with exponential backoff until the lock is taken, the timeout
// passes or ctx is done. The returned token is needed for Release.
func (l *DistributedLock) Acquire(ctx context.Context) (string, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.acquireTimeout)
	backoff := 50 * time.Millisecond

	for {
		ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return "", fmt.Errorf("redis setnx %s: %w", l.key, err)
		}
		if ok {
			return token, nil
		}
		if time.Now().After(deadline) {
			return "", fmt.Errorf("%w %s after %s", ErrTimeout, l.key, l.acquireTimeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

// releaseScript deletes the key only while it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
else
    return 0
end
`)

// Release drops the lock if token still owns it. Releasing an expired lock is not an error.
func (l *DistributedLock) Release(ctx context.Context, token string) error {
	_, err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", l.key, err)
	}
	return nil
}
