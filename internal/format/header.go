package format

import (
	"bytes"
	"fmt"

	"github.com/arizkami/aurorahive/internal/buf"
)

// Header is a view over the 4096-byte hive header at the start of an
// arena. Mutations write through to the underlying bytes.
type Header struct {
	b []byte
}

// HeaderView wraps the header portion of arena.
func HeaderView(arena []byte) (Header, error) {
	if len(arena) < HeaderSize {
		return Header{}, fmt.Errorf("%w: arena smaller than header", ErrOutOfBounds)
	}
	return Header{b: arena[:HeaderSize]}, nil
}

// Bytes returns the raw header bytes.
func (h Header) Bytes() []byte { return h.b }

func (h Header) Signature() uint32         { return buf.U32LE(h.b[HdrSignatureOffset:]) }
func (h Header) PrimarySequence() uint32   { return buf.U32LE(h.b[HdrPrimarySequenceOffset:]) }
func (h Header) SecondarySequence() uint32 { return buf.U32LE(h.b[HdrSecondarySequenceOffset:]) }
func (h Header) LastWriteTime() uint64     { return buf.U64LE(h.b[HdrLastWriteTimeOffset:]) }
func (h Header) Timestamp() uint64         { return buf.U64LE(h.b[HdrTimestampOffset:]) }
func (h Header) MajorVersion() uint32      { return buf.U32LE(h.b[HdrMajorVersionOffset:]) }
func (h Header) MinorVersion() uint32      { return buf.U32LE(h.b[HdrMinorVersionOffset:]) }
func (h Header) Version() uint32           { return buf.U32LE(h.b[HdrVersionOffset:]) }
func (h Header) Type() uint32              { return buf.U32LE(h.b[HdrTypeOffset:]) }
func (h Header) Format() uint32            { return buf.U32LE(h.b[HdrFormatOffset:]) }
func (h Header) Flags() uint32             { return buf.U32LE(h.b[HdrFlagsOffset:]) }
func (h Header) RootCell() CellOffset      { return CellOffset(buf.U32LE(h.b[HdrRootCellOffset:])) }
func (h Header) RootKey() CellOffset       { return CellOffset(buf.U32LE(h.b[HdrRootKeyOffset:])) }
func (h Header) Length() uint32            { return buf.U32LE(h.b[HdrLengthOffset:]) }
func (h Header) Size() uint32              { return buf.U32LE(h.b[HdrSizeOffset:]) }
func (h Header) Cluster() uint32           { return buf.U32LE(h.b[HdrClusterOffset:]) }
func (h Header) Checksum() uint32          { return buf.U32LE(h.b[HdrChecksumOffset:]) }

func (h Header) SetSignature(v uint32)         { buf.PutU32LE(h.b[HdrSignatureOffset:], v) }
func (h Header) SetPrimarySequence(v uint32)   { buf.PutU32LE(h.b[HdrPrimarySequenceOffset:], v) }
func (h Header) SetSecondarySequence(v uint32) { buf.PutU32LE(h.b[HdrSecondarySequenceOffset:], v) }
func (h Header) SetLastWriteTime(v uint64)     { buf.PutU64LE(h.b[HdrLastWriteTimeOffset:], v) }
func (h Header) SetTimestamp(v uint64)         { buf.PutU64LE(h.b[HdrTimestampOffset:], v) }
func (h Header) SetMajorVersion(v uint32)      { buf.PutU32LE(h.b[HdrMajorVersionOffset:], v) }
func (h Header) SetMinorVersion(v uint32)      { buf.PutU32LE(h.b[HdrMinorVersionOffset:], v) }
func (h Header) SetVersion(v uint32)           { buf.PutU32LE(h.b[HdrVersionOffset:], v) }
func (h Header) SetType(v uint32)              { buf.PutU32LE(h.b[HdrTypeOffset:], v) }
func (h Header) SetFormat(v uint32)            { buf.PutU32LE(h.b[HdrFormatOffset:], v) }
func (h Header) SetFlags(v uint32)             { buf.PutU32LE(h.b[HdrFlagsOffset:], v) }
func (h Header) SetRootCell(v CellOffset)      { buf.PutU32LE(h.b[HdrRootCellOffset:], uint32(v)) }
func (h Header) SetRootKey(v CellOffset)       { buf.PutU32LE(h.b[HdrRootKeyOffset:], uint32(v)) }
func (h Header) SetLength(v uint32)            { buf.PutU32LE(h.b[HdrLengthOffset:], v) }
func (h Header) SetSize(v uint32)              { buf.PutU32LE(h.b[HdrSizeOffset:], v) }
func (h Header) SetCluster(v uint32)           { buf.PutU32LE(h.b[HdrClusterOffset:], v) }
func (h Header) SetChecksum(v uint32)          { buf.PutU32LE(h.b[HdrChecksumOffset:], v) }

// FileName returns the stored hive name with NUL padding stripped.
func (h Header) FileName() string {
	raw := h.b[HdrFileNameOffset : HdrFileNameOffset+HdrFileNameLen]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

// SetFileName stores name, truncated to the field width, NUL padded.
func (h Header) SetFileName(name string) {
	field := h.b[HdrFileNameOffset : HdrFileNameOffset+HdrFileNameLen]
	for i := range field {
		field[i] = 0
	}
	copy(field, name)
}

// SetDirty sets or clears the dirty flag bit.
func (h Header) SetDirty(dirty bool) {
	f := h.Flags()
	if dirty {
		f |= HiveFlagDirty
	} else {
		f &^= HiveFlagDirty
	}
	h.SetFlags(f)
}

// Dirty reports the dirty flag bit.
func (h Header) Dirty() bool { return h.Flags()&HiveFlagDirty != 0 }
