package hive

import "errors"

var (
	// ErrInvalidParameter indicates a malformed argument: an empty path,
	// an oversized name or value, an unknown value type.
	ErrInvalidParameter = errors.New("hive: invalid parameter")

	// ErrNotFound indicates a missing hive, key, or value.
	ErrNotFound = errors.New("hive: not found")

	// ErrInvalidSignature indicates an image that does not start with the
	// hive signature.
	ErrInvalidSignature = errors.New("hive: invalid signature")

	// ErrSizeMismatch indicates a header size field that disagrees with
	// the actual image length.
	ErrSizeMismatch = errors.New("hive: size mismatch")

	// ErrChecksumMismatch indicates a stored checksum that does not match
	// the recomputed one.
	ErrChecksumMismatch = errors.New("hive: checksum mismatch")

	// ErrAccessDenied indicates a mutation or flush on a read-only hive.
	ErrAccessDenied = errors.New("hive: access denied")

	// ErrBufferTooSmall indicates a caller-supplied buffer shorter than
	// the value data.
	ErrBufferTooSmall = errors.New("hive: buffer too small")

	// ErrNotEmpty indicates an attempt to delete a key that still has
	// subkeys or values.
	ErrNotEmpty = errors.New("hive: key not empty")

	// ErrBadType indicates a typed accessor used on a value of a
	// different type.
	ErrBadType = errors.New("hive: value type mismatch")

	// ErrClosed indicates an operation on a hive handle whose last
	// reference was already closed.
	ErrClosed = errors.New("hive: handle closed")

	// ErrExists indicates a name collision when loading or creating a
	// hive under a name already registered.
	ErrExists = errors.New("hive: already exists")
)
