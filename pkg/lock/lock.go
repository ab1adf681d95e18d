// Package lock provides keyed mutual exclusion, either inside one process or
// across instances through redis.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when a lock is still held by someone else after
// the configured wait.
var ErrNotAcquired = errors.New("lock not acquired")

// Unlock releases a held lock. Calling it more than once is a no-op.
type Unlock func() error

type Locker interface {
	// Acquire blocks until key is held, the wait elapses or ctx is done.
	Acquire(ctx context.Context, key string) (Unlock, error)
}
