package tx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidTransaction indicates an id the manager does not know.
var ErrInvalidTransaction = errors.New("tx: invalid transaction id")

// Target is what a transaction brackets: a hive handle's lock and its
// flush-on-commit surface.
type Target interface {
	Flush(ctx context.Context) error
	Dirty() bool
	ReadOnly() bool
	Lock() *RWLock
}

// Transaction is one active bracket.
type Transaction struct {
	ID       uint32
	ReadOnly bool

	target Target
	owner  Owner
}

// Manager issues transaction ids and tracks active transactions.
type Manager struct {
	mu      sync.Mutex
	next    uint32
	active  map[uint32]*Transaction
	timeout time.Duration
}

// NewManager returns a manager issuing ids from 1. timeout bounds lock
// waits; <= 0 means DefaultTimeout.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{
		next:    1,
		active:  make(map[uint32]*Transaction),
		timeout: normalizeTimeout(timeout),
	}
}

// Begin starts a transaction on target: shared lock when readOnly, the
// target's exclusive lock otherwise. Returns the transaction id.
func (m *Manager) Begin(ctx context.Context, target Target, readOnly bool) (uint32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	id := m.next
	m.next++
	m.mu.Unlock()

	t := &Transaction{ID: id, ReadOnly: readOnly, target: target, owner: Owner(id)}
	var err error
	if readOnly {
		err = target.Lock().AcquireShared(m.timeout)
	} else {
		err = target.Lock().AcquireExclusive(t.owner, m.timeout)
	}
	if err != nil {
		return 0, fmt.Errorf("begin transaction %d: %w", id, err)
	}

	m.mu.Lock()
	m.active[id] = t
	m.mu.Unlock()
	return id, nil
}

func (m *Manager) take(id uint32) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.active[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTransaction, id)
	}
	delete(m.active, id)
	return t, nil
}

// Commit ends the transaction: a writable target that is dirty gets
// flushed, then the lock is released. A flush failure still releases
// the lock and reports the error.
func (m *Manager) Commit(ctx context.Context, id uint32) error {
	t, err := m.take(id)
	if err != nil {
		return err
	}
	var flushErr error
	if !t.ReadOnly && !t.target.ReadOnly() && t.target.Dirty() {
		flushErr = t.target.Flush(ctx)
	}
	if relErr := t.release(); relErr != nil {
		return errors.Join(flushErr, relErr)
	}
	return flushErr
}

// Abort ends the transaction releasing the lock. Mutations made under
// the transaction stay; there is no rollback.
func (m *Manager) Abort(id uint32) error {
	t, err := m.take(id)
	if err != nil {
		return err
	}
	return t.release()
}

func (t *Transaction) release() error {
	if t.ReadOnly {
		return t.target.Lock().ReleaseShared()
	}
	return t.target.Lock().ReleaseExclusive(t.owner)
}

// Find reports the transaction with the given id, if active.
func (m *Manager) Find(id uint32) (*Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.active[id]
	return t, ok
}

// Active returns the number of in-flight transactions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}
