package format

import (
	"fmt"

	"github.com/arizkami/aurorahive/internal/buf"
)

// Value is a view over a value cell payload.
type Value struct {
	b []byte
}

// ValueView wraps the payload of the value cell at off.
func ValueView(arena []byte, off CellOffset) (Value, error) {
	c, err := ParseCell(arena, off)
	if err != nil {
		return Value{}, err
	}
	if c.Signature != SigValue {
		return Value{}, fmt.Errorf("%w: not a value cell at 0x%X", ErrBadCell, off)
	}
	p := c.Payload(arena)
	if len(p) < ValueFixedSize {
		return Value{}, fmt.Errorf("%w: short value cell at 0x%X", ErrBadCell, off)
	}
	return Value{b: p}, nil
}

func (v Value) NameLength() uint16    { return buf.U16LE(v.b[ValueNameLengthOffset:]) }
func (v Value) DataLength() uint32    { return buf.U32LE(v.b[ValueDataLengthOffset:]) }
func (v Value) DataOffset() uint32    { return buf.U32LE(v.b[ValueDataOffsetOffset:]) }
func (v Value) Type() uint32          { return buf.U32LE(v.b[ValueTypeOffset:]) }
func (v Value) Flags() uint16         { return buf.U16LE(v.b[ValueFlagsOffset:]) }

func (v Value) SetNameLength(n uint16) { buf.PutU16LE(v.b[ValueNameLengthOffset:], n) }
func (v Value) SetDataLength(n uint32) { buf.PutU32LE(v.b[ValueDataLengthOffset:], n) }
func (v Value) SetDataOffset(o uint32) { buf.PutU32LE(v.b[ValueDataOffsetOffset:], o) }
func (v Value) SetType(t uint32)       { buf.PutU32LE(v.b[ValueTypeOffset:], t) }
func (v Value) SetFlags(f uint16)      { buf.PutU16LE(v.b[ValueFlagsOffset:], f) }

// Inline reports whether the data is stored in the DataOffset field.
func (v Value) Inline() bool { return v.DataLength() <= ValueInlineMax }

// InlineData returns the inline data bytes.
func (v Value) InlineData() []byte {
	n := int(v.DataLength())
	if n > ValueInlineMax {
		return nil
	}
	return v.b[ValueDataOffsetOffset : ValueDataOffsetOffset+n]
}

// NameBytes returns the stored name bytes.
func (v Value) NameBytes() ([]byte, error) {
	n := int(v.NameLength())
	raw, ok := buf.Slice(v.b, ValueNameOffset, n)
	if !ok {
		return nil, fmt.Errorf("%w: value name", ErrOutOfBounds)
	}
	return raw, nil
}

// Name decodes the stored name.
func (v Value) Name() (string, error) {
	raw, err := v.NameBytes()
	if err != nil {
		return "", err
	}
	return DecodeName(raw, v.Flags())
}

// InitValue writes a fresh value payload into p with the encoded name
// appended. Data placement (inline or external cell) is the caller's job.
func InitValue(p []byte, name string, typ uint32) error {
	if len(p) < ValueFixedSize {
		return fmt.Errorf("%w: value payload", ErrOutOfBounds)
	}
	enc, flag, err := EncodeName(name)
	if err != nil {
		return err
	}
	if !buf.Has(p, ValueNameOffset, len(enc)) {
		return fmt.Errorf("%w: value name", ErrOutOfBounds)
	}
	for i := range p[:ValueFixedSize] {
		p[i] = 0
	}
	v := Value{b: p}
	v.SetFlags(flag)
	v.SetType(typ)
	v.SetNameLength(uint16(len(enc)))
	copy(p[ValueNameOffset:], enc)
	return nil
}

// ValueSpace returns the payload bytes needed for a value with the given
// encoded name length.
func ValueSpace(encodedNameLen int) int { return ValueFixedSize + encodedNameLen }
