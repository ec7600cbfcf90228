package alloc

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/format"
)

// Allocator hands out cells from a hive arena. The arena slice is owned
// by the caller and must stay fixed for the allocator's lifetime.
type Allocator struct {
	arena    []byte
	onMutate func()
}

// New returns an allocator over arena. onMutate, when non-nil, is called
// after every mutation so the owner can track dirtiness.
func New(arena []byte, onMutate func()) *Allocator {
	return &Allocator{arena: arena, onMutate: onMutate}
}

// Arena returns the underlying arena bytes.
func (a *Allocator) Arena() []byte { return a.arena }

func (a *Allocator) mutated() {
	if a.onMutate != nil {
		a.onMutate()
	}
}

// end returns the exclusive upper bound of the cell region.
func (a *Allocator) end() format.CellOffset {
	return format.CellOffset(len(a.arena))
}

// Walk iterates cells in arena order. fn returning false stops the walk
// early without error. A walk that cannot reach the arena end exactly
// reports ErrCorrupt.
func (a *Allocator) Walk(fn func(format.Cell) bool) error {
	off := format.CellOffset(format.HeaderSize)
	for off < a.end() {
		c, err := format.ParseCell(a.arena, off)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if !fn(c) {
			return nil
		}
		off = c.End()
	}
	if off != a.end() {
		return fmt.Errorf("%w: walk ended at 0x%X, want 0x%X", ErrCorrupt, off, a.end())
	}
	return nil
}

// Allocate carves an allocated cell with at least size payload bytes and
// the given signature. The payload is zeroed. Returns the cell offset.
func (a *Allocator) Allocate(size int, sig uint16) (format.CellOffset, error) {
	if size <= 0 || size > len(a.arena) {
		return 0, fmt.Errorf("%w: %d", ErrBadSize, size)
	}
	total := format.Align8(size + format.CellHeaderSize)

	off := format.CellOffset(format.HeaderSize)
	for off < a.end() {
		c, err := format.ParseCell(a.arena, off)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if !c.Allocated() && c.Span() >= total {
			a.carve(c, total, sig)
			return c.Offset, nil
		}
		off = c.End()
	}
	return 0, fmt.Errorf("%w: need %d bytes", ErrNoSpace, total)
}

// carve turns the free cell c into an allocated cell of total bytes,
// splitting off the remainder as a new free cell when it can hold one.
func (a *Allocator) carve(c format.Cell, total int, sig uint16) {
	remainder := c.Span() - total
	if remainder >= format.CellHeaderSize {
		format.PutCell(a.arena, c.Offset+format.CellOffset(total), int32(remainder), format.SigFree, 0)
	} else {
		total = c.Span()
	}
	format.PutCell(a.arena, c.Offset, int32(-total), sig, 0)
	p := a.arena[int(c.Offset)+format.CellHeaderSize : int(c.Offset)+total]
	for i := range p {
		p[i] = 0
	}
	a.mutated()
}

// Free releases the allocated cell at off and coalesces it with free
// neighbors.
func (a *Allocator) Free(off format.CellOffset) error {
	if off < format.HeaderSize {
		return fmt.Errorf("%w: 0x%X", ErrBadRef, off)
	}
	c, err := format.ParseCell(a.arena, off)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRef, err)
	}
	if !c.Allocated() {
		return fmt.Errorf("%w: 0x%X", ErrNotAllocated, off)
	}
	span := c.Span()
	format.PutCell(a.arena, off, int32(span), format.SigFree, 0)

	a.coalesceForward(off)
	a.coalesceBackward(off)
	a.mutated()
	return nil
}

// coalesceForward merges the free cell at off with its next neighbor
// while that neighbor is free.
func (a *Allocator) coalesceForward(off format.CellOffset) {
	c, err := format.ParseCell(a.arena, off)
	if err != nil || c.Allocated() {
		return
	}
	for {
		next := c.End()
		if next >= a.end() {
			break
		}
		nc, err := format.ParseCell(a.arena, next)
		if err != nil || nc.Allocated() {
			break
		}
		merged := c.Span() + nc.Span()
		format.PutCell(a.arena, c.Offset, int32(merged), format.SigFree, 0)
		c, err = format.ParseCell(a.arena, c.Offset)
		if err != nil {
			break
		}
	}
}

// coalesceBackward merges the free cell at off into its previous
// neighbor when that neighbor is free. The previous cell is found by a
// linear rescan from the arena start.
func (a *Allocator) coalesceBackward(off format.CellOffset) {
	prev := format.CellOffset(0)
	scan := format.CellOffset(format.HeaderSize)
	for scan < off {
		c, err := format.ParseCell(a.arena, scan)
		if err != nil {
			return
		}
		prev = scan
		scan = c.End()
	}
	if scan != off || prev == 0 {
		return
	}
	pc, err := format.ParseCell(a.arena, prev)
	if err != nil || pc.Allocated() {
		return
	}
	c, err := format.ParseCell(a.arena, off)
	if err != nil || c.Allocated() {
		return
	}
	format.PutCell(a.arena, prev, int32(pc.Span()+c.Span()), format.SigFree, 0)
}
