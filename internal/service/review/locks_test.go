package review

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemLocks_AcquireRelease(t *testing.T) {
	t.Parallel()

	locks := newItemLocks()
	itemID := uuid.New()

	release, err := locks.acquire(context.Background(), itemID, time.Second)
	require.NoError(t, err)
	release()

	// Reacquirable after release.
	release, err = locks.acquire(context.Background(), itemID, time.Second)
	require.NoError(t, err)
	release()

	// The map does not retain entries for idle items.
	locks.mu.Lock()
	assert.Empty(t, locks.entries)
	locks.mu.Unlock()
}

func TestItemLocks_Timeout(t *testing.T) {
	t.Parallel()

	locks := newItemLocks()
	itemID := uuid.New()

	release, err := locks.acquire(context.Background(), itemID, time.Second)
	require.NoError(t, err)
	defer release()

	_, err = locks.acquire(context.Background(), itemID, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrConcurrencyConflict)
}

func TestItemLocks_ContextCancellation(t *testing.T) {
	t.Parallel()

	locks := newItemLocks()
	itemID := uuid.New()

	release, err := locks.acquire(context.Background(), itemID, time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = locks.acquire(ctx, itemID, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestItemLocks_IndependentKeys(t *testing.T) {
	t.Parallel()

	locks := newItemLocks()

	releaseA, err := locks.acquire(context.Background(), uuid.New(), time.Second)
	require.NoError(t, err)
	defer releaseA()

	// A held lock on one item does not block another item.
	releaseB, err := locks.acquire(context.Background(), uuid.New(), 10*time.Millisecond)
	require.NoError(t, err)
	releaseB()
}

func TestItemLocks_MutualExclusion(t *testing.T) {
	t.Parallel()

	locks := newItemLocks()
	itemID := uuid.New()

	const goroutines = 16
	var (
		wg      sync.WaitGroup
		counter int
	)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.acquire(context.Background(), itemID, 5*time.Second)
			if err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			defer release()

			// Unsynchronized read-modify-write; correct only under the lock.
			v := counter
			time.Sleep(time.Millisecond)
			counter = v + 1
		}()
	}

	wg.Wait()
	assert.Equal(t, goroutines, counter)

	locks.mu.Lock()
	assert.Empty(t, locks.entries)
	locks.mu.Unlock()
}
