package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free cell large enough was found.
	ErrNoSpace = errors.New("alloc: no free cell large enough")

	// ErrBadRef indicates an invalid or out-of-bounds cell reference.
	ErrBadRef = errors.New("alloc: bad cell reference")

	// ErrNotAllocated indicates an attempt to free a cell that is already free.
	ErrNotAllocated = errors.New("alloc: cell is not allocated")

	// ErrBadSize indicates a non-positive or oversized allocation request.
	ErrBadSize = errors.New("alloc: bad allocation size")

	// ErrCorrupt indicates the cell walk broke before reaching the arena end.
	ErrCorrupt = errors.New("alloc: corrupt cell chain")
)
