package format

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/buf"
)

// FileHeader is the 32-byte wrapper prepended to a hive image when it is
// persisted to a file.
type FileHeader struct {
	Signature uint32
	Version   uint32
	HiveSize  uint32
	Checksum  uint32
	Timestamp uint64
	Flags     uint32
}

// ParseFileHeader decodes the wrapper header at the start of b.
func ParseFileHeader(b []byte) (FileHeader, error) {
	if len(b) < FileHeaderSize {
		return FileHeader{}, fmt.Errorf("%w: file header", ErrOutOfBounds)
	}
	return FileHeader{
		Signature: buf.U32LE(b[FileSignatureOffset:]),
		Version:   buf.U32LE(b[FileVersionOffset:]),
		HiveSize:  buf.U32LE(b[FileHiveSizeOffset:]),
		Checksum:  buf.U32LE(b[FileChecksumOffset:]),
		Timestamp: buf.U64LE(b[FileTimestampOffset:]),
		Flags:     buf.U32LE(b[FileFlagsOffset:]),
	}, nil
}

// Put encodes the wrapper header into the first FileHeaderSize bytes of b.
func (f FileHeader) Put(b []byte) error {
	if len(b) < FileHeaderSize {
		return fmt.Errorf("%w: file header", ErrOutOfBounds)
	}
	for i := range b[:FileHeaderSize] {
		b[i] = 0
	}
	buf.PutU32LE(b[FileSignatureOffset:], f.Signature)
	buf.PutU32LE(b[FileVersionOffset:], f.Version)
	buf.PutU32LE(b[FileHiveSizeOffset:], f.HiveSize)
	buf.PutU32LE(b[FileChecksumOffset:], f.Checksum)
	buf.PutU64LE(b[FileTimestampOffset:], f.Timestamp)
	buf.PutU32LE(b[FileFlagsOffset:], f.Flags)
	return nil
}
