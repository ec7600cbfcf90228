package format

import "errors"

var (
	// ErrOutOfBounds indicates an offset or length outside the arena.
	ErrOutOfBounds = errors.New("format: offset out of bounds")

	// ErrBadCell indicates a cell header that fails basic sanity checks.
	ErrBadCell = errors.New("format: malformed cell")

	// ErrNameTooLong indicates a key or value name over the 255-byte limit.
	ErrNameTooLong = errors.New("format: name too long")

	// ErrBadName indicates a name that cannot be encoded or decoded.
	ErrBadName = errors.New("format: unencodable name")
)
