package hive

import (
	"fmt"

	"github.com/arizkami/aurorahive/hive/alloc"
)

// Maintenance entry points: locking wrappers over the allocator's
// free-space passes.

// Compact slides allocated cells toward the header and leaves one
// trailing free cell. Returns the number of cells moved.
func (h *Hive) Compact() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	if h.readOnly {
		return 0, fmt.Errorf("%w: compact read-only hive", ErrAccessDenied)
	}
	return h.cells.Compact()
}

// Defragment coalesces adjacent free cells to a fixed point.
func (h *Hive) Defragment() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	if h.readOnly {
		return 0, fmt.Errorf("%w: defragment read-only hive", ErrAccessDenied)
	}
	return h.cells.Defragment()
}

// OptimizeFreeSpace defragments and then compacts.
func (h *Hive) OptimizeFreeSpace() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if h.readOnly {
		return fmt.Errorf("%w: optimize read-only hive", ErrAccessDenied)
	}
	return h.cells.Optimize()
}

// FragmentationLevel scores free-space fragmentation from 0 to 100.
func (h *Hive) FragmentationLevel() (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, ErrClosed
	}
	return h.cells.FragmentationLevel()
}

// FreeSpace summarizes the free cells.
func (h *Hive) FreeSpace() (alloc.FreeSpaceStats, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return alloc.FreeSpaceStats{}, ErrClosed
	}
	return h.cells.FreeSpace()
}

// FreeSpaceMap returns every free extent in arena order.
func (h *Hive) FreeSpaceMap() ([]alloc.Extent, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	return h.cells.FreeSpaceMap()
}
