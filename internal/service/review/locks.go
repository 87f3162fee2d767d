package review

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// itemLocks provides a per-item exclusive critical section, keyed by item
// ID. Entries are reference-counted so the map does not grow with the
// number of items ever touched, only with the number currently contended.
type itemLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func newItemLocks() *itemLocks {
	return &itemLocks{
		entries: make(map[uuid.UUID]*lockEntry),
	}
}

// acquire takes the exclusive lock for itemID, waiting at most timeout.
// On success it returns a release function that must be called exactly
// once. On timeout it returns ErrConcurrencyConflict; on context
// cancellation it returns the context's error.
func (l *itemLocks) acquire(ctx context.Context, itemID uuid.UUID, timeout time.Duration) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[itemID]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[itemID] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			l.put(itemID, e)
		}, nil
	case <-timer.C:
		l.put(itemID, e)
		return nil, ErrConcurrencyConflict
	case <-ctx.Done():
		l.put(itemID, e)
		return nil, ctx.Err()
	}
}

// put drops one reference to the entry and removes it from the map once
// nobody holds or waits on it.
func (l *itemLocks) put(itemID uuid.UUID, e *lockEntry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, itemID)
	}
	l.mu.Unlock()
}
