package format

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/buf"
)

// List is a view over a list cell payload: a bounded array of cell
// offsets used for a key's subkeys and values.
type List struct {
	b []byte
}

// ListView wraps the payload of the list cell at off.
func ListView(arena []byte, off CellOffset) (List, error) {
	c, err := ParseCell(arena, off)
	if err != nil {
		return List{}, err
	}
	if c.Signature != SigList {
		return List{}, fmt.Errorf("%w: not a list cell at 0x%X", ErrBadCell, off)
	}
	p := c.Payload(arena)
	if len(p) < ListEntriesOffset {
		return List{}, fmt.Errorf("%w: short list cell at 0x%X", ErrBadCell, off)
	}
	l := List{b: p}
	if _, err := buf.CheckListBounds(len(p), ListEntriesOffset, int(l.Capacity()), ListEntrySize); err != nil {
		return List{}, fmt.Errorf("list cell at 0x%X: %w", off, err)
	}
	if l.Count() > l.Capacity() {
		return List{}, fmt.Errorf("%w: list count %d over capacity %d at 0x%X",
			ErrBadCell, l.Count(), l.Capacity(), off)
	}
	return l, nil
}

func (l List) Count() uint16    { return buf.U16LE(l.b[ListCountOffset:]) }
func (l List) Capacity() uint16 { return buf.U16LE(l.b[ListCapacityOffset:]) }

func (l List) setCount(n uint16) { buf.PutU16LE(l.b[ListCountOffset:], n) }

// SetCapacity rewrites the capacity field after the owning cell grew.
func (l List) SetCapacity(n uint16) { buf.PutU16LE(l.b[ListCapacityOffset:], n) }

// Entry returns entry i.
func (l List) Entry(i int) CellOffset {
	return CellOffset(buf.U32LE(l.b[ListEntriesOffset+i*ListEntrySize:]))
}

// SetEntry overwrites entry i.
func (l List) SetEntry(i int, off CellOffset) {
	buf.PutU32LE(l.b[ListEntriesOffset+i*ListEntrySize:], uint32(off))
}

// Entries returns all live entries.
func (l List) Entries() []CellOffset {
	out := make([]CellOffset, 0, l.Count())
	for i := 0; i < int(l.Count()); i++ {
		out = append(out, l.Entry(i))
	}
	return out
}

// Append adds off to the list. Fails when the list is at capacity.
func (l List) Append(off CellOffset) error {
	n := l.Count()
	if n >= l.Capacity() {
		return fmt.Errorf("%w: list full (%d)", ErrBadCell, n)
	}
	buf.PutU32LE(l.b[ListEntriesOffset+int(n)*ListEntrySize:], uint32(off))
	l.setCount(n + 1)
	return nil
}

// Remove deletes the entry equal to off, shifting later entries down.
// Returns false when off is not present.
func (l List) Remove(off CellOffset) bool {
	n := int(l.Count())
	for i := 0; i < n; i++ {
		if l.Entry(i) != off {
			continue
		}
		for j := i; j < n-1; j++ {
			buf.PutU32LE(l.b[ListEntriesOffset+j*ListEntrySize:], uint32(l.Entry(j+1)))
		}
		buf.PutU32LE(l.b[ListEntriesOffset+(n-1)*ListEntrySize:], 0)
		l.setCount(uint16(n - 1))
		return true
	}
	return false
}

// InitList writes a fresh list payload with the given capacity into p.
func InitList(p []byte, capacity uint16) error {
	need := ListSpace(int(capacity))
	if len(p) < need {
		return fmt.Errorf("%w: list payload", ErrOutOfBounds)
	}
	for i := range p[:need] {
		p[i] = 0
	}
	buf.PutU16LE(p[ListCapacityOffset:], capacity)
	return nil
}

// ListSpace returns the payload bytes needed for a list of the given
// capacity.
func ListSpace(capacity int) int { return ListEntriesOffset + capacity*ListEntrySize }
