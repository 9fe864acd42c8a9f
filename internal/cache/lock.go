// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "lock:"

	// DefaultLockTTL bounds how long a crashed holder blocks others.
	DefaultLockTTL = 2 * time.Minute

	lockRetryInterval = 100 * time.Millisecond
)

// ErrLockTimeout is returned when the lock could not be taken before the
// context ended.
var ErrLockTimeout = errors.New("cache: lock not acquired")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker hands out named mutual-exclusion locks shared by every process
// using the same Valkey instance.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocker creates a Locker. A zero ttl uses DefaultLockTTL.
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl == 0 {
		ttl = DefaultLockTTL
	}
	return &Locker{client: client, ttl: ttl}
}

// Acquire blocks until the named lock is held or ctx ends. The returned
// function releases the lock; it is safe to call more than once.
func (l *Locker) Acquire(ctx context.Context, name string) (func(), error) {
	key := lockKeyPrefix + name
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			released := false
			return func() {
				if released {
					return
				}
				released = true
				// Release even if the caller's context is already done.
				rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
					slog.Warn("lock release failed", "lock", name, "error", err)
				}
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", name, errors.Join(ErrLockTimeout, ctx.Err()))
		case <-ticker.C:
		}
	}
}
