package tx

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSharedHoldersCoexist(t *testing.T) {
	l := NewRWLock()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, l.AcquireShared(time.Second))
		}()
	}
	wg.Wait()

	s := l.Stats()
	require.Equal(t, 8, s.Readers)
	require.False(t, s.ExclusiveHeld)

	for i := 0; i < 8; i++ {
		require.NoError(t, l.ReleaseShared())
	}
	require.Zero(t, l.Stats().Readers)
}

func TestExclusiveBlocksReaders(t *testing.T) {
	l := NewRWLock()
	require.NoError(t, l.AcquireExclusive(1, time.Second))

	err := l.AcquireShared(50 * time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)

	require.NoError(t, l.ReleaseExclusive(1))
	require.NoError(t, l.AcquireShared(time.Second))
	require.NoError(t, l.ReleaseShared())
}

func TestQueuedWriterBlocksNewReaders(t *testing.T) {
	l := NewRWLock()
	require.NoError(t, l.AcquireShared(time.Second))

	writerDone := make(chan error, 1)
	go func() {
		writerDone <- l.AcquireExclusive(1, time.Second)
	}()

	// Wait until the writer is queued, then verify a fresh reader
	// cannot jump it.
	require.Eventually(t, func() bool {
		return l.Stats().WaitingWriters == 1
	}, time.Second, time.Millisecond)
	require.ErrorIs(t, l.AcquireShared(50*time.Millisecond), ErrTimeout)

	// The last reader hands the lock to the queued writer.
	require.NoError(t, l.ReleaseShared())
	require.NoError(t, <-writerDone)
	require.True(t, l.Stats().ExclusiveHeld)
	require.NoError(t, l.ReleaseExclusive(1))
}

func TestExclusiveReentrancy(t *testing.T) {
	l := NewRWLock()
	require.NoError(t, l.AcquireExclusive(7, time.Second))
	require.NoError(t, l.AcquireExclusive(7, time.Second))
	require.NoError(t, l.AcquireExclusive(7, time.Second))
	require.Equal(t, 3, l.Stats().Recursion)

	require.NoError(t, l.ReleaseExclusive(7))
	require.NoError(t, l.ReleaseExclusive(7))
	require.True(t, l.Stats().ExclusiveHeld, "inner releases keep the hold")

	require.NoError(t, l.ReleaseExclusive(7))
	require.False(t, l.Stats().ExclusiveHeld)
}

func TestExclusiveTimeout(t *testing.T) {
	l := NewRWLock()
	require.NoError(t, l.AcquireExclusive(1, time.Second))

	start := time.Now()
	err := l.AcquireExclusive(2, 50*time.Millisecond)
	require.ErrorIs(t, err, ErrTimeout)
	require.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Zero(t, l.Stats().WaitingWriters, "timed-out waiter leaves the queue")
	require.Equal(t, uint64(1), l.Stats().Timeouts)

	require.NoError(t, l.ReleaseExclusive(1))
}

func TestInvalidReleases(t *testing.T) {
	l := NewRWLock()
	require.ErrorIs(t, l.ReleaseShared(), ErrInvalidLockState)
	require.ErrorIs(t, l.ReleaseExclusive(1), ErrInvalidLockState)
	require.ErrorIs(t, l.AcquireExclusive(0, time.Second), ErrInvalidLockState)

	require.NoError(t, l.AcquireExclusive(1, time.Second))
	require.ErrorIs(t, l.ReleaseExclusive(2), ErrInvalidLockState)
	require.ErrorIs(t, l.ReleaseShared(), ErrInvalidLockState)
	require.NoError(t, l.ReleaseExclusive(1))
}

func TestWritersHandOffInOrder(t *testing.T) {
	l := NewRWLock()
	require.NoError(t, l.AcquireExclusive(1, time.Second))

	var order []Owner
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, o := range []Owner{2, 3, 4} {
		wg.Add(1)
		go func(o Owner) {
			defer wg.Done()
			require.NoError(t, l.AcquireExclusive(o, 5*time.Second))
			mu.Lock()
			order = append(order, o)
			mu.Unlock()
			require.NoError(t, l.ReleaseExclusive(o))
		}(o)
		// Queue them one at a time so FIFO order is deterministic.
		require.Eventually(t, func() bool {
			return l.Stats().WaitingWriters == int(o-1)
		}, time.Second, time.Millisecond)
	}

	require.NoError(t, l.ReleaseExclusive(1))
	wg.Wait()
	require.Equal(t, []Owner{2, 3, 4}, order)
}

func TestOutermostReleaseWakesReadersFirst(t *testing.T) {
	l := NewRWLock()
	require.NoError(t, l.AcquireExclusive(1, time.Second))

	var readerIn atomic.Bool
	readerDone := make(chan error, 1)
	go func() {
		err := l.AcquireShared(5 * time.Second)
		readerIn.Store(err == nil)
		readerDone <- err
	}()
	require.Eventually(t, func() bool {
		return l.Stats().WaitingReaders == 1
	}, time.Second, time.Millisecond)

	writerDone := make(chan error, 1)
	go func() {
		writerDone <- l.AcquireExclusive(2, 5*time.Second)
	}()
	require.Eventually(t, func() bool {
		return l.Stats().WaitingWriters == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, l.ReleaseExclusive(1))
	require.NoError(t, <-readerDone)
	require.True(t, readerIn.Load())

	// The queued writer gets the lock once the reader leaves.
	require.NoError(t, l.ReleaseShared())
	require.NoError(t, <-writerDone)
	require.NoError(t, l.ReleaseExclusive(2))
}

func TestForceUnlockRecovers(t *testing.T) {
	l := NewRWLock()
	require.NoError(t, l.AcquireExclusive(1, time.Second))
	require.NoError(t, l.AcquireExclusive(1, time.Second))

	l.ForceUnlock()
	s := l.Stats()
	require.False(t, s.ExclusiveHeld)
	require.Zero(t, s.Readers)

	require.NoError(t, l.AcquireShared(time.Second))
	require.NoError(t, l.ReleaseShared())
}
