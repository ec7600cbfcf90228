package tx

import (
	"errors"
	"sync"
	"time"
)

// DefaultTimeout bounds lock waits when the caller passes no timeout.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout indicates a lock wait that exceeded its bound.
	ErrTimeout = errors.New("tx: lock wait timed out")

	// ErrInvalidLockState indicates a release that does not match the
	// current hold: releasing an unheld lock, a shared release of an
	// exclusive hold, or an exclusive release by a non-owner.
	ErrInvalidLockState = errors.New("tx: invalid lock state")
)

// Owner identifies an exclusive holder for re-entrancy. Zero is
// reserved.
type Owner uint64

// LockStats is a snapshot of a lock's state and counters.
type LockStats struct {
	Readers        int
	WaitingReaders int
	WaitingWriters int
	ExclusiveHeld  bool
	Recursion      int
	Acquisitions   uint64
	Contentions    uint64
	Timeouts       uint64
}

type writerWaiter struct {
	owner Owner
	grant chan struct{}
}

// RWLock is a writer-preferring reader/writer lock with bounded waits.
// Shared acquires block while a writer holds the lock or is queued;
// exclusive acquires are re-entrant for the same owner and hand off in
// FIFO order. Releasing the outermost exclusive hold wakes readers
// first; releasing the last reader wakes the head writer.
type RWLock struct {
	mu             sync.Mutex
	readers        int
	writerOwner    Owner
	recursion      int
	waitingReaders int
	readerGate     chan struct{}
	writerQueue    []*writerWaiter

	acquisitions uint64
	contentions  uint64
	timeouts     uint64
}

// NewRWLock returns an unheld lock.
func NewRWLock() *RWLock {
	return &RWLock{readerGate: make(chan struct{})}
}

func normalizeTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	return d
}

// AcquireShared takes the lock for reading, waiting up to timeout
// (DefaultTimeout when <= 0). Queued writers block new readers, but a
// reader woken through the gate is admitted ahead of them.
func (l *RWLock) AcquireShared(timeout time.Duration) error {
	deadline := time.Now().Add(normalizeTimeout(timeout))
	woken := false
	l.mu.Lock()
	for {
		if l.writerOwner == 0 && (woken || len(l.writerQueue) == 0) {
			l.readers++
			l.acquisitions++
			l.mu.Unlock()
			return nil
		}
		l.contentions++
		l.waitingReaders++
		gate := l.readerGate
		l.mu.Unlock()

		wait := time.Until(deadline)
		if wait <= 0 {
			l.readerTimedOut()
			return ErrTimeout
		}
		timer := time.NewTimer(wait)
		select {
		case <-gate:
			timer.Stop()
		case <-timer.C:
			l.readerTimedOut()
			return ErrTimeout
		}
		woken = true
		l.mu.Lock()
		l.waitingReaders--
	}
}

func (l *RWLock) readerTimedOut() {
	l.mu.Lock()
	l.waitingReaders--
	l.timeouts++
	// The lock may be idle with a queued writer if every woken reader
	// gave up; hand it off rather than strand the queue.
	l.grantNextWriterLocked()
	l.mu.Unlock()
}

// ReleaseShared drops a shared hold. The last reader hands the lock to
// the head queued writer.
func (l *RWLock) ReleaseShared() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readers == 0 {
		return ErrInvalidLockState
	}
	l.readers--
	if l.readers == 0 {
		l.grantNextWriterLocked()
	}
	return nil
}

// AcquireExclusive takes the lock for writing on behalf of owner,
// waiting up to timeout. A holder re-acquiring nests with a recursion
// count.
func (l *RWLock) AcquireExclusive(owner Owner, timeout time.Duration) error {
	if owner == 0 {
		return ErrInvalidLockState
	}
	l.mu.Lock()
	if l.writerOwner == owner {
		l.recursion++
		l.acquisitions++
		l.mu.Unlock()
		return nil
	}
	if l.writerOwner == 0 && l.readers == 0 && len(l.writerQueue) == 0 {
		l.writerOwner = owner
		l.recursion = 1
		l.acquisitions++
		l.mu.Unlock()
		return nil
	}
	w := &writerWaiter{owner: owner, grant: make(chan struct{}, 1)}
	l.writerQueue = append(l.writerQueue, w)
	l.contentions++
	l.mu.Unlock()

	timer := time.NewTimer(normalizeTimeout(timeout))
	defer timer.Stop()
	select {
	case <-w.grant:
		l.mu.Lock()
		l.acquisitions++
		l.mu.Unlock()
		return nil
	case <-timer.C:
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	select {
	case <-w.grant:
		// Granted between the timer firing and requeue removal; keep it.
		l.acquisitions++
		return nil
	default:
	}
	for i, q := range l.writerQueue {
		if q == w {
			l.writerQueue = append(l.writerQueue[:i], l.writerQueue[i+1:]...)
			break
		}
	}
	l.timeouts++
	return ErrTimeout
}

// ReleaseExclusive drops one level of owner's exclusive hold. The
// outermost release wakes waiting readers first, otherwise hands off to
// the next queued writer.
func (l *RWLock) ReleaseExclusive(owner Owner) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writerOwner == 0 || l.writerOwner != owner {
		return ErrInvalidLockState
	}
	l.recursion--
	if l.recursion > 0 {
		return nil
	}
	l.writerOwner = 0
	if l.waitingReaders > 0 {
		close(l.readerGate)
		l.readerGate = make(chan struct{})
		return nil
	}
	l.grantNextWriterLocked()
	return nil
}

// grantNextWriterLocked hands the lock to the head queued writer, if
// any. Caller holds l.mu; the lock must be free.
func (l *RWLock) grantNextWriterLocked() {
	if l.writerOwner != 0 || l.readers != 0 || len(l.writerQueue) == 0 {
		return
	}
	w := l.writerQueue[0]
	l.writerQueue = l.writerQueue[1:]
	l.writerOwner = w.owner
	l.recursion = 1
	w.grant <- struct{}{}
}

// ForceUnlock resets the lock to unheld and wakes everyone. Meant for
// recovery paths only; pending waiters re-contend normally.
func (l *RWLock) ForceUnlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.readers = 0
	l.writerOwner = 0
	l.recursion = 0
	close(l.readerGate)
	l.readerGate = make(chan struct{})
	l.grantNextWriterLocked()
}

// Stats returns a snapshot of the lock state.
func (l *RWLock) Stats() LockStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LockStats{
		Readers:        l.readers,
		WaitingReaders: l.waitingReaders,
		WaitingWriters: len(l.writerQueue),
		ExclusiveHeld:  l.writerOwner != 0,
		Recursion:      l.recursion,
		Acquisitions:   l.acquisitions,
		Contentions:    l.contentions,
		Timeouts:       l.timeouts,
	}
}
