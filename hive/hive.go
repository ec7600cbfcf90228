package hive

import (
	"context"
	"fmt"
	"sync"

	"github.com/arizkami/aurorahive/hive/alloc"
	"github.com/arizkami/aurorahive/hive/tx"
	"github.com/arizkami/aurorahive/internal/checksum"
	"github.com/arizkami/aurorahive/internal/format"
)

// DefaultSize is the arena size of hives created without an explicit
// size.
const DefaultSize = 64 * 1024

// Hive is a handle to one loaded hive arena. Handles are reference
// counted by the owning Manager and safe for concurrent use; every
// operation serializes on an internal mutex. Multi-operation atomicity
// is provided by the tx package through the handle's Lock.
type Hive struct {
	mu    sync.Mutex
	name  string
	arena []byte
	hdr   format.Header
	cells *alloc.Allocator
	lock  *tx.RWLock
	clock func() uint64
	mgr   *Manager

	refs       int
	readOnly   bool
	dirty      bool
	fromBackup bool
	closed     bool
}

// newHive wires a handle around an arena that is already a valid image.
func newHive(name string, arena []byte, readOnly bool, clock func() uint64) (*Hive, error) {
	hdr, err := format.HeaderView(arena)
	if err != nil {
		return nil, err
	}
	h := &Hive{
		name:     name,
		arena:    arena,
		hdr:      hdr,
		lock:     tx.NewRWLock(),
		clock:    clock,
		refs:     1,
		readOnly: readOnly,
	}
	h.cells = alloc.New(arena, h.markDirty)
	return h, nil
}

// markDirty records an unflushed mutation in the handle and mirrors it
// into the header's flag bits, the way the persisted format expects.
func (h *Hive) markDirty() {
	h.dirty = true
	h.hdr.SetDirty(true)
}

// createArena builds a fresh hive image: a populated header followed by
// one free cell spanning the rest.
func createArena(name string, size int, clock func() uint64) ([]byte, error) {
	if size < format.HeaderSize+format.BlockSize || size%format.BlockSize != 0 {
		return nil, fmt.Errorf("%w: hive size %d", ErrInvalidParameter, size)
	}
	arena := make([]byte, size)
	hdr, err := format.HeaderView(arena)
	if err != nil {
		return nil, err
	}
	now := clock()
	hdr.SetSignature(format.HiveSignature)
	hdr.SetPrimarySequence(1)
	hdr.SetSecondarySequence(1)
	hdr.SetLastWriteTime(now)
	hdr.SetTimestamp(now)
	hdr.SetMajorVersion(1)
	hdr.SetMinorVersion(0)
	hdr.SetVersion(1)
	hdr.SetFormat(1)
	hdr.SetLength(uint32(size))
	hdr.SetSize(uint32(size))
	hdr.SetCluster(1)
	hdr.SetFileName(name)
	format.PutCell(arena, format.HeaderSize, int32(size-format.HeaderSize), format.SigFree, 0)
	hdr.SetChecksum(checksum.Header(arena))
	return arena, nil
}

// validateImage runs the load-time checks in order: signature, size,
// checksum, then a full structural walk that doubles as the free-space
// rebuild.
func validateImage(image []byte) error {
	if len(image) < format.HeaderSize {
		return fmt.Errorf("%w: image shorter than header", ErrInvalidParameter)
	}
	hdr, err := format.HeaderView(image)
	if err != nil {
		return err
	}
	if hdr.Signature() != format.HiveSignature {
		return fmt.Errorf("%w: 0x%08X", ErrInvalidSignature, hdr.Signature())
	}
	if int(hdr.Size()) != len(image) {
		return fmt.Errorf("%w: header says %d, image is %d", ErrSizeMismatch, hdr.Size(), len(image))
	}
	if !checksum.VerifyHeader(image) {
		return fmt.Errorf("%w: stored 0x%08X, computed 0x%08X",
			ErrChecksumMismatch, hdr.Checksum(), checksum.Header(image))
	}
	a := alloc.New(image, nil)
	if err := a.Walk(func(format.Cell) bool { return true }); err != nil {
		return err
	}
	return nil
}

// Name returns the hive's registered name.
func (h *Hive) Name() string { return h.name }

// Size returns the arena size in bytes.
func (h *Hive) Size() int { return len(h.arena) }

// ReadOnly reports whether mutations are refused.
func (h *Hive) ReadOnly() bool { return h.readOnly }

// Dirty reports whether the hive has unflushed modifications.
func (h *Hive) Dirty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dirty
}

// LoadedFromBackup reports whether the hive came from a backup file
// after its primary failed to load.
func (h *Hive) LoadedFromBackup() bool { return h.fromBackup }

// Lock returns the hive's reader/writer lock for transactional use.
func (h *Hive) Lock() *tx.RWLock { return h.lock }

// Image returns a copy of the raw arena.
func (h *Hive) Image() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]byte, len(h.arena))
	copy(out, h.arena)
	return out
}

func (h *Hive) now() uint64 { return h.clock() }

// Flush writes back metadata for a dirty hive: stamps the write time,
// advances the sequence pair, recomputes the header checksum, and clears
// the dirty state. Flushing a clean hive is a no-op; flushing a
// read-only hive fails.
func (h *Hive) Flush(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flushLocked(ctx)
}

func (h *Hive) flushLocked(ctx context.Context) error {
	if h.closed {
		return ErrClosed
	}
	if !h.dirty {
		return nil
	}
	if h.readOnly {
		return fmt.Errorf("%w: flush of read-only hive %q", ErrAccessDenied, h.name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	seq := h.hdr.PrimarySequence() + 1
	h.hdr.SetPrimarySequence(seq)
	h.hdr.SetSecondarySequence(seq)
	h.hdr.SetLastWriteTime(h.now())
	h.hdr.SetDirty(false)
	h.hdr.SetChecksum(checksum.Header(h.arena))
	h.dirty = false
	return nil
}

// Close drops one reference. The last close flushes a dirty writable
// hive, clears its cached hints, and removes it from the manager.
func (h *Hive) Close(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrClosed
	}
	h.refs--
	if h.refs > 0 {
		h.mu.Unlock()
		return nil
	}
	var flushErr error
	if h.dirty && !h.readOnly {
		flushErr = h.flushLocked(ctx)
	}
	h.closed = true
	h.mu.Unlock()

	if h.mgr != nil {
		h.mgr.remove(h)
	}
	return flushErr
}

// Ref takes an additional reference on the handle.
func (h *Hive) Ref() {
	h.mu.Lock()
	h.refs++
	h.mu.Unlock()
}
