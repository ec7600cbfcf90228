package hive

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/buf"
	"github.com/arizkami/aurorahive/internal/format"
)

// The cell object layer: typed allocation on top of the arena
// allocator. All methods assume h.mu is held.

func (h *Hive) allocateKeyCell(name string, parent format.CellOffset) (format.CellOffset, error) {
	enc, _, err := format.EncodeName(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	off, err := h.cells.Allocate(format.KeySpace(len(enc)), format.SigKey)
	if err != nil {
		return 0, err
	}
	c, err := format.ParseCell(h.arena, off)
	if err != nil {
		return 0, err
	}
	if err := format.InitKey(c.Payload(h.arena), name, parent, h.now()); err != nil {
		_ = h.cells.Free(off)
		return 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return off, nil
}

func (h *Hive) allocateValueCell(name string, typ uint32, data []byte) (format.CellOffset, error) {
	if len(data) > format.MaxValueSize {
		return 0, fmt.Errorf("%w: value data %d bytes", ErrInvalidParameter, len(data))
	}
	enc, _, err := format.EncodeName(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	off, err := h.cells.Allocate(format.ValueSpace(len(enc)), format.SigValue)
	if err != nil {
		return 0, err
	}
	c, err := format.ParseCell(h.arena, off)
	if err != nil {
		return 0, err
	}
	if err := format.InitValue(c.Payload(h.arena), name, typ); err != nil {
		_ = h.cells.Free(off)
		return 0, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	v, err := format.ValueView(h.arena, off)
	if err != nil {
		_ = h.cells.Free(off)
		return 0, err
	}
	v.SetDataLength(uint32(len(data)))
	if len(data) <= format.ValueInlineMax {
		var inline [4]byte
		copy(inline[:], data)
		v.SetDataOffset(buf.U32LE(inline[:]))
		return off, nil
	}
	dataOff, err := h.cells.Allocate(len(data), format.SigData)
	if err != nil {
		// Unwind in reverse order of allocation.
		_ = h.cells.Free(off)
		return 0, err
	}
	dc, err := format.ParseCell(h.arena, dataOff)
	if err != nil {
		_ = h.cells.Free(dataOff)
		_ = h.cells.Free(off)
		return 0, err
	}
	copy(dc.Payload(h.arena), data)
	// Re-resolve the view: the data allocation may have split the cell
	// map but never moves existing cells, so off is still valid.
	v, err = format.ValueView(h.arena, off)
	if err != nil {
		return 0, err
	}
	v.SetDataOffset(uint32(dataOff))
	return off, nil
}

// valueData returns a copy of the value cell's data.
func (h *Hive) valueData(off format.CellOffset) ([]byte, error) {
	v, err := format.ValueView(h.arena, off)
	if err != nil {
		return nil, err
	}
	n := int(v.DataLength())
	if v.Inline() {
		out := make([]byte, n)
		copy(out, v.InlineData())
		return out, nil
	}
	dc, err := format.ParseCell(h.arena, format.CellOffset(v.DataOffset()))
	if err != nil {
		return nil, err
	}
	p := dc.Payload(h.arena)
	if n > len(p) {
		return nil, fmt.Errorf("%w: data cell at 0x%X", format.ErrBadCell, v.DataOffset())
	}
	out := make([]byte, n)
	copy(out, p[:n])
	return out, nil
}

// freeValueCell releases a value cell and its external data cell.
func (h *Hive) freeValueCell(off format.CellOffset) error {
	v, err := format.ValueView(h.arena, off)
	if err != nil {
		return err
	}
	if !v.Inline() && v.DataOffset() != 0 {
		if err := h.cells.Free(format.CellOffset(v.DataOffset())); err != nil {
			return err
		}
	}
	return h.cells.Free(off)
}

// freeKeyCell releases a key cell and any list cells it still points at.
func (h *Hive) freeKeyCell(off format.CellOffset) error {
	k, err := format.KeyView(h.arena, off)
	if err != nil {
		return err
	}
	if l := k.SubKeysList(); !l.Nil() {
		if err := h.cells.Free(l); err != nil {
			return err
		}
	}
	if l := k.ValuesList(); !l.Nil() {
		if err := h.cells.Free(l); err != nil {
			return err
		}
	}
	return h.cells.Free(off)
}

// resizeCell reallocates the cell at off with newPayload bytes, copying
// the common prefix and preserving signature and flags. Returns the new
// offset; the old cell is freed.
func (h *Hive) resizeCell(off format.CellOffset, newPayload int) (format.CellOffset, error) {
	c, err := format.ParseCell(h.arena, off)
	if err != nil {
		return 0, err
	}
	newOff, err := h.cells.Allocate(newPayload, c.Signature)
	if err != nil {
		return 0, err
	}
	nc, err := format.ParseCell(h.arena, newOff)
	if err != nil {
		return 0, err
	}
	oldPayload := c.Payload(h.arena)
	n := len(oldPayload)
	if newPayload < n {
		n = newPayload
	}
	copy(nc.Payload(h.arena), oldPayload[:n])
	format.PutCell(h.arena, newOff, int32(-nc.Span()), c.Signature, c.Flags)
	if err := h.cells.Free(off); err != nil {
		return 0, err
	}
	return newOff, nil
}

// newList allocates an empty list cell with the initial capacity.
func (h *Hive) newList() (format.CellOffset, error) {
	off, err := h.cells.Allocate(format.ListSpace(format.ListInitialCapacity), format.SigList)
	if err != nil {
		return 0, err
	}
	c, err := format.ParseCell(h.arena, off)
	if err != nil {
		return 0, err
	}
	if err := format.InitList(c.Payload(h.arena), format.ListInitialCapacity); err != nil {
		_ = h.cells.Free(off)
		return 0, err
	}
	return off, nil
}

// listAppend adds entry to the list at listOff, growing the list cell
// when it is at capacity. Returns the (possibly new) list offset.
func (h *Hive) listAppend(listOff, entry format.CellOffset) (format.CellOffset, error) {
	l, err := format.ListView(h.arena, listOff)
	if err != nil {
		return 0, err
	}
	if l.Count() >= l.Capacity() {
		newCap := int(l.Capacity()) * 2
		newOff, err := h.resizeCell(listOff, format.ListSpace(newCap))
		if err != nil {
			return 0, err
		}
		listOff = newOff
		l, err = format.ListView(h.arena, listOff)
		if err != nil {
			return 0, err
		}
		l.SetCapacity(uint16(newCap))
	}
	if err := l.Append(entry); err != nil {
		return 0, err
	}
	return listOff, nil
}
