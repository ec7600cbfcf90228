package format

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/buf"
)

// Key is a view over a key cell payload.
type Key struct {
	b []byte
}

// KeyView wraps the payload of the key cell at off.
func KeyView(arena []byte, off CellOffset) (Key, error) {
	c, err := ParseCell(arena, off)
	if err != nil {
		return Key{}, err
	}
	if c.Signature != SigKey {
		return Key{}, fmt.Errorf("%w: not a key cell at 0x%X", ErrBadCell, off)
	}
	p := c.Payload(arena)
	if len(p) < KeyFixedSize {
		return Key{}, fmt.Errorf("%w: short key cell at 0x%X", ErrBadCell, off)
	}
	return Key{b: p}, nil
}

func (k Key) Flags() uint16             { return buf.U16LE(k.b[KeyFlagsOffset:]) }
func (k Key) LastWriteTime() uint64     { return buf.U64LE(k.b[KeyLastWriteTimeOffset:]) }
func (k Key) Parent() CellOffset        { return CellOffset(buf.U32LE(k.b[KeyParentOffset:])) }
func (k Key) SubKeysCount() uint32      { return buf.U32LE(k.b[KeySubKeysCountOffset:]) }
func (k Key) SubKeysList() CellOffset   { return CellOffset(buf.U32LE(k.b[KeySubKeysListOffset:])) }
func (k Key) ValuesCount() uint32       { return buf.U32LE(k.b[KeyValuesCountOffset:]) }
func (k Key) ValuesList() CellOffset    { return CellOffset(buf.U32LE(k.b[KeyValuesListOffset:])) }
func (k Key) Security() CellOffset      { return CellOffset(buf.U32LE(k.b[KeySecurityOffset:])) }
func (k Key) MaxNameLen() uint32        { return buf.U32LE(k.b[KeyMaxNameLenOffset:]) }
func (k Key) MaxValueNameLen() uint32   { return buf.U32LE(k.b[KeyMaxValueNameLenOffset:]) }
func (k Key) MaxValueDataLen() uint32   { return buf.U32LE(k.b[KeyMaxValueDataLenOffset:]) }
func (k Key) NameLength() uint16        { return buf.U16LE(k.b[KeyNameLengthOffset:]) }
func (k Key) ClassLength() uint16       { return buf.U16LE(k.b[KeyClassLengthOffset:]) }

func (k Key) SetFlags(v uint16)           { buf.PutU16LE(k.b[KeyFlagsOffset:], v) }
func (k Key) SetLastWriteTime(v uint64)   { buf.PutU64LE(k.b[KeyLastWriteTimeOffset:], v) }
func (k Key) SetParent(v CellOffset)      { buf.PutU32LE(k.b[KeyParentOffset:], uint32(v)) }
func (k Key) SetSubKeysCount(v uint32)    { buf.PutU32LE(k.b[KeySubKeysCountOffset:], v) }
func (k Key) SetSubKeysList(v CellOffset) { buf.PutU32LE(k.b[KeySubKeysListOffset:], uint32(v)) }
func (k Key) SetValuesCount(v uint32)     { buf.PutU32LE(k.b[KeyValuesCountOffset:], v) }
func (k Key) SetValuesList(v CellOffset)  { buf.PutU32LE(k.b[KeyValuesListOffset:], uint32(v)) }
func (k Key) SetSecurity(v CellOffset)    { buf.PutU32LE(k.b[KeySecurityOffset:], uint32(v)) }
func (k Key) SetMaxNameLen(v uint32)      { buf.PutU32LE(k.b[KeyMaxNameLenOffset:], v) }
func (k Key) SetMaxValueNameLen(v uint32) { buf.PutU32LE(k.b[KeyMaxValueNameLenOffset:], v) }
func (k Key) SetMaxValueDataLen(v uint32) { buf.PutU32LE(k.b[KeyMaxValueDataLenOffset:], v) }
func (k Key) SetNameLength(v uint16)      { buf.PutU16LE(k.b[KeyNameLengthOffset:], v) }

// NameBytes returns the stored name bytes.
func (k Key) NameBytes() ([]byte, error) {
	n := int(k.NameLength())
	raw, ok := buf.Slice(k.b, KeyNameOffset, n)
	if !ok {
		return nil, fmt.Errorf("%w: key name", ErrOutOfBounds)
	}
	return raw, nil
}

// Name decodes the stored name.
func (k Key) Name() (string, error) {
	raw, err := k.NameBytes()
	if err != nil {
		return "", err
	}
	return DecodeName(raw, k.Flags())
}

// InitKey writes a fresh key payload into p: zeroed fields, the encoded
// name appended, name flag merged into flags.
func InitKey(p []byte, name string, parent CellOffset, now uint64) error {
	if len(p) < KeyFixedSize {
		return fmt.Errorf("%w: key payload", ErrOutOfBounds)
	}
	enc, flag, err := EncodeName(name)
	if err != nil {
		return err
	}
	if !buf.Has(p, KeyNameOffset, len(enc)) {
		return fmt.Errorf("%w: key name", ErrOutOfBounds)
	}
	for i := range p[:KeyFixedSize] {
		p[i] = 0
	}
	k := Key{b: p}
	k.SetFlags(flag)
	k.SetLastWriteTime(now)
	k.SetParent(parent)
	k.SetNameLength(uint16(len(enc)))
	copy(p[KeyNameOffset:], enc)
	return nil
}

// KeySpace returns the payload bytes needed for a key with the given
// encoded name length.
func KeySpace(encodedNameLen int) int { return KeyFixedSize + encodedNameLen }
