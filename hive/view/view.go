package view

import (
	"errors"
	"fmt"
	"sync"
)

const (
	// Granularity is the alignment of view offsets and sizes.
	Granularity = 4096

	// MaxViews bounds the live views of one mapping.
	MaxViews = 64

	// DefaultViewSize is the span used when callers pass size 0.
	DefaultViewSize = 64 * 1024
)

var (
	// ErrTooManyViews indicates the mapping is at its view limit.
	ErrTooManyViews = errors.New("view: too many mapped views")

	// ErrBadRange indicates an offset/size outside the mapping.
	ErrBadRange = errors.New("view: range outside mapping")

	// ErrNotMapped indicates an unmap of a view with no live reference.
	ErrNotMapped = errors.New("view: not mapped")

	// ErrBusy indicates a mapping teardown while views are live.
	ErrBusy = errors.New("view: mapping has live views")
)

// View is one reference-counted window.
type View struct {
	Offset int
	Size   int

	refs  int
	dirty bool
}

// Stats is a snapshot of a mapping's activity.
type Stats struct {
	Views       int
	MappedBytes int
	Hits        uint64
	Faults      uint64
}

// Mapping is a set of views over one backing.
type Mapping struct {
	mu    sync.Mutex
	data  []byte
	views []*View

	hits   uint64
	faults uint64

	// Set for file-backed mappings.
	munmap func() error
	msync  func(b []byte) error
	mlock  func(b []byte) error
	munlck func(b []byte) error
	advise func(b []byte) error
}

// NewMemory returns a mapping over an in-memory arena. Flushes and page
// operations are no-ops.
func NewMemory(data []byte) *Mapping {
	return &Mapping{data: data}
}

// Len returns the backing size.
func (m *Mapping) Len() int { return len(m.data) }

// Bytes returns the whole backing. The slice aliases the mapping.
func (m *Mapping) Bytes() []byte { return m.data }

func alignDown(n int) int { return n &^ (Granularity - 1) }
func alignUp(n int) int   { return (n + Granularity - 1) &^ (Granularity - 1) }

// MapView returns a window over [off, off+size). A live view covering
// the range is reused; otherwise the range is page aligned and a new
// view created. size 0 means DefaultViewSize, clamped to the backing.
func (m *Mapping) MapView(off, size int) (*View, []byte, error) {
	if size == 0 {
		size = DefaultViewSize
		if off+size > len(m.data) {
			size = len(m.data) - off
		}
	}
	if off < 0 || size <= 0 || off+size > len(m.data) {
		return nil, nil, fmt.Errorf("%w: [%d, %d) of %d", ErrBadRange, off, off+size, len(m.data))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range m.views {
		if v.Offset <= off && off+size <= v.Offset+v.Size {
			v.refs++
			m.hits++
			return v, m.data[off : off+size], nil
		}
	}
	if len(m.views) >= MaxViews {
		return nil, nil, ErrTooManyViews
	}
	aOff := alignDown(off)
	aEnd := alignUp(off + size)
	if aEnd > len(m.data) {
		aEnd = len(m.data)
	}
	v := &View{Offset: aOff, Size: aEnd - aOff, refs: 1}
	m.views = append(m.views, v)
	m.faults++
	return v, m.data[off : off+size], nil
}

// MarkDirty flags a view as modified so its last unmap flushes.
func (m *Mapping) MarkDirty(v *View) {
	m.mu.Lock()
	v.dirty = true
	m.mu.Unlock()
}

// UnmapView drops one reference. The last reference flushes a dirty
// view and removes it.
func (m *Mapping) UnmapView(v *View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.refs <= 0 {
		return ErrNotMapped
	}
	v.refs--
	if v.refs > 0 {
		return nil
	}
	var flushErr error
	if v.dirty {
		flushErr = m.flushLocked(v)
	}
	for i, q := range m.views {
		if q == v {
			m.views = append(m.views[:i], m.views[i+1:]...)
			break
		}
	}
	return flushErr
}

// FlushView writes back a view's range. For file-backed mappings this
// is a synchronous msync; memory mappings just clear the dirty flag.
func (m *Mapping) FlushView(v *View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushLocked(v)
}

func (m *Mapping) flushLocked(v *View) error {
	if m.msync != nil {
		if err := m.msync(m.data[v.Offset : v.Offset+v.Size]); err != nil {
			return err
		}
	}
	v.dirty = false
	return nil
}

// Flush writes back every dirty view.
func (m *Mapping) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.views {
		if v.dirty {
			if err := m.flushLocked(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Prefault advises the kernel to fault in a view's pages ahead of use.
func (m *Mapping) Prefault(v *View) error {
	if m.advise == nil {
		return nil
	}
	return m.advise(m.data[v.Offset : v.Offset+v.Size])
}

// LockPages pins a view's pages in memory.
func (m *Mapping) LockPages(v *View) error {
	if m.mlock == nil {
		return nil
	}
	return m.mlock(m.data[v.Offset : v.Offset+v.Size])
}

// UnlockPages releases pinned pages.
func (m *Mapping) UnlockPages(v *View) error {
	if m.munlck == nil {
		return nil
	}
	return m.munlck(m.data[v.Offset : v.Offset+v.Size])
}

// Stats returns a snapshot of the mapping.
func (m *Mapping) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Stats{Views: len(m.views), Hits: m.hits, Faults: m.faults}
	for _, v := range m.views {
		s.MappedBytes += v.Size
	}
	return s
}

// Close tears the mapping down. Fails while views are live.
func (m *Mapping) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.views) > 0 {
		return fmt.Errorf("%w: %d live", ErrBusy, len(m.views))
	}
	if m.munmap != nil {
		err := m.munmap()
		m.munmap = nil
		m.data = nil
		return err
	}
	m.data = nil
	return nil
}
