package format

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/buf"
)

// CellOffset is an absolute byte offset of a cell header within the hive
// arena. The zero value means "no cell".
type CellOffset uint32

// Nil reports whether the offset refers to no cell.
func (o CellOffset) Nil() bool { return o == 0 }

// Cell is a decoded cell header.
type Cell struct {
	Offset    CellOffset
	Size      int32 // raw signed size: negative when allocated
	Signature uint16
	Flags     uint16
}

// Allocated reports whether the cell is in use.
func (c Cell) Allocated() bool { return c.Size < 0 }

// Span returns the total byte span of the cell including its header.
func (c Cell) Span() int {
	if c.Size < 0 {
		return int(-c.Size)
	}
	return int(c.Size)
}

// End returns the offset of the next cell.
func (c Cell) End() CellOffset { return c.Offset + CellOffset(c.Span()) }

// PayloadSize returns the usable bytes after the cell header.
func (c Cell) PayloadSize() int { return c.Span() - CellHeaderSize }

// ParseCell decodes the cell header at off and validates that the whole
// span lies inside the arena.
func ParseCell(arena []byte, off CellOffset) (Cell, error) {
	if !buf.Has(arena, int(off), CellHeaderSize) {
		return Cell{}, fmt.Errorf("%w: cell header at 0x%X", ErrOutOfBounds, off)
	}
	c := Cell{
		Offset:    off,
		Size:      buf.I32LE(arena[off:]),
		Signature: buf.U16LE(arena[off+CellSignatureOffset:]),
		Flags:     buf.U16LE(arena[off+CellFlagsOffset:]),
	}
	span := c.Span()
	if span < CellHeaderSize {
		return Cell{}, fmt.Errorf("%w: span %d at 0x%X", ErrBadCell, span, off)
	}
	if span%CellAlignment != 0 {
		return Cell{}, fmt.Errorf("%w: unaligned span %d at 0x%X", ErrBadCell, span, off)
	}
	if !buf.Has(arena, int(off), span) {
		return Cell{}, fmt.Errorf("%w: cell span at 0x%X", ErrOutOfBounds, off)
	}
	return c, nil
}

// Payload returns the cell's bytes after the header. The slice aliases the
// arena.
func (c Cell) Payload(arena []byte) []byte {
	return arena[int(c.Offset)+CellHeaderSize : int(c.Offset)+c.Span()]
}

// PutCell writes a cell header at off.
func PutCell(arena []byte, off CellOffset, size int32, sig, flags uint16) {
	buf.PutI32LE(arena[off:], size)
	buf.PutU16LE(arena[off+CellSignatureOffset:], sig)
	buf.PutU16LE(arena[off+CellFlagsOffset:], flags)
}

// Align8 rounds n up to the cell alignment.
func Align8(n int) int {
	return (n + CellAlignment - 1) &^ (CellAlignment - 1)
}
