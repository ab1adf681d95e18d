package lock

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	held chan struct{}
	refs int
}

// MemoryLocker serializes callers that share a key within one process.
// Entries are dropped once no caller holds or waits on them.
type MemoryLocker struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	wait    time.Duration
}

func NewMemoryLocker(wait time.Duration) *MemoryLocker {
	return &MemoryLocker{
		entries: make(map[string]*memoryEntry),
		wait:    wait,
	}
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string) (Unlock, error) {
	entry := l.ref(key)

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case entry.held <- struct{}{}:
	case <-ctx.Done():
		l.unref(key)
		return nil, ErrNotAcquired
	}

	var once sync.Once
	return func() error {
		once.Do(func() {
			<-entry.held
			l.unref(key)
		})
		return nil
	}, nil
}

func (l *MemoryLocker) ref(key string) *memoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		entry = &memoryEntry{held: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *MemoryLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.entries[key]
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
