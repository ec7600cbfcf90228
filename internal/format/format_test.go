package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderFieldsWriteThrough(t *testing.T) {
	arena := make([]byte, HeaderSize)
	hdr, err := HeaderView(arena)
	require.NoError(t, err)

	hdr.SetSignature(HiveSignature)
	hdr.SetPrimarySequence(7)
	hdr.SetSecondarySequence(7)
	hdr.SetLastWriteTime(0x1122334455667788)
	hdr.SetMajorVersion(1)
	hdr.SetLength(64 * 1024)
	hdr.SetSize(64 * 1024)
	hdr.SetRootKey(CellOffset(HeaderSize))
	hdr.SetFileName("SYSTEM")

	require.Equal(t, uint32(HiveSignature), hdr.Signature())
	require.Equal(t, uint32(7), hdr.PrimarySequence())
	require.Equal(t, uint64(0x1122334455667788), hdr.LastWriteTime())
	require.Equal(t, CellOffset(HeaderSize), hdr.RootKey())
	require.Equal(t, "SYSTEM", hdr.FileName())

	// The name field is NUL padded and truncates long names.
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	hdr.SetFileName(string(long))
	require.Len(t, hdr.FileName(), HdrFileNameLen)
}

func TestHeaderViewRejectsShortArena(t *testing.T) {
	_, err := HeaderView(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestParseCellValidation(t *testing.T) {
	arena := make([]byte, 8192)

	// Valid allocated cell.
	PutCell(arena, HeaderSize, -64, SigKey, 0)
	c, err := ParseCell(arena, HeaderSize)
	require.NoError(t, err)
	require.True(t, c.Allocated())
	require.Equal(t, 64, c.Span())
	require.Equal(t, 64-CellHeaderSize, c.PayloadSize())
	require.Equal(t, CellOffset(HeaderSize+64), c.End())

	// Span smaller than a header.
	PutCell(arena, HeaderSize, 4, SigFree, 0)
	_, err = ParseCell(arena, HeaderSize)
	require.ErrorIs(t, err, ErrBadCell)

	// Unaligned span.
	PutCell(arena, HeaderSize, 20, SigFree, 0)
	_, err = ParseCell(arena, HeaderSize)
	require.ErrorIs(t, err, ErrBadCell)

	// Span past the arena end.
	PutCell(arena, HeaderSize, 1<<20, SigFree, 0)
	_, err = ParseCell(arena, HeaderSize)
	require.ErrorIs(t, err, ErrOutOfBounds)

	// Header itself out of bounds.
	_, err = ParseCell(arena, CellOffset(len(arena)-2))
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestNameCodecRoundTrip(t *testing.T) {
	cases := []struct {
		name       string
		compressed bool
	}{
		{"ControlSet001", true},
		{"", true},
		{"Größe", true}, // Windows-1252 representable
		{"キー", false},   // forces UTF-16
		{"mixedΩ", false},
	}
	for _, tc := range cases {
		enc, flags, err := EncodeName(tc.name)
		require.NoError(t, err, "encode %q", tc.name)
		require.Equal(t, tc.compressed, flags&NameFlagCompressed != 0,
			"compression choice for %q", tc.name)
		dec, err := DecodeName(enc, flags)
		require.NoError(t, err, "decode %q", tc.name)
		require.Equal(t, tc.name, dec)
	}
}

func TestEncodeNameRejectsOversized(t *testing.T) {
	long := make([]byte, MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, _, err := EncodeName(string(long))
	require.ErrorIs(t, err, ErrNameTooLong)
}

func TestDecodeNameRejectsOddUTF16(t *testing.T) {
	_, err := DecodeName([]byte{0x41, 0x00, 0x42}, 0)
	require.ErrorIs(t, err, ErrBadName)
}

func TestKeyInitAndView(t *testing.T) {
	arena := make([]byte, 8192)
	span := int32(Align8(KeySpace(4) + CellHeaderSize))
	PutCell(arena, HeaderSize, -span, SigKey, 0)
	c, err := ParseCell(arena, HeaderSize)
	require.NoError(t, err)
	require.NoError(t, InitKey(c.Payload(arena), "Boot", 0, 42))

	k, err := KeyView(arena, HeaderSize)
	require.NoError(t, err)
	name, err := k.Name()
	require.NoError(t, err)
	require.Equal(t, "Boot", name)
	require.Equal(t, uint64(42), k.LastWriteTime())
	require.True(t, k.Parent().Nil())
	require.Zero(t, k.SubKeysCount())

	// Wrong signature is rejected.
	PutCell(arena, HeaderSize, -span, SigValue, 0)
	_, err = KeyView(arena, HeaderSize)
	require.ErrorIs(t, err, ErrBadCell)
}

func TestValueInlineData(t *testing.T) {
	arena := make([]byte, 8192)
	span := int32(Align8(ValueSpace(3) + CellHeaderSize))
	PutCell(arena, HeaderSize, -span, SigValue, 0)
	c, err := ParseCell(arena, HeaderSize)
	require.NoError(t, err)
	require.NoError(t, InitValue(c.Payload(arena), "Val", TypeDword))

	v, err := ValueView(arena, HeaderSize)
	require.NoError(t, err)
	v.SetDataLength(4)
	v.SetDataOffset(0xDDCCBBAA)
	require.True(t, v.Inline())
	require.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, v.InlineData())

	v.SetDataLength(ValueInlineMax + 1)
	require.False(t, v.Inline())
	require.Nil(t, v.InlineData())
}

func TestListAppendRemove(t *testing.T) {
	arena := make([]byte, 8192)
	span := int32(Align8(ListSpace(4) + CellHeaderSize))
	PutCell(arena, HeaderSize, -span, SigList, 0)
	c, err := ParseCell(arena, HeaderSize)
	require.NoError(t, err)
	require.NoError(t, InitList(c.Payload(arena), 4))

	l, err := ListView(arena, HeaderSize)
	require.NoError(t, err)
	require.Equal(t, uint16(4), l.Capacity())

	for i := 1; i <= 4; i++ {
		require.NoError(t, l.Append(CellOffset(i*0x1000)))
	}
	require.Error(t, l.Append(0x9000), "append past capacity must fail")
	require.Equal(t, uint16(4), l.Count())

	require.True(t, l.Remove(0x2000))
	require.False(t, l.Remove(0x2000), "second remove finds nothing")
	require.Equal(t, []CellOffset{0x1000, 0x3000, 0x4000}, l.Entries())
}

func TestFileHeaderRoundTrip(t *testing.T) {
	b := make([]byte, FileHeaderSize)
	in := FileHeader{
		Signature: HiveSignature,
		Version:   1,
		HiveSize:  64 * 1024,
		Checksum:  0xCAFEF00D,
		Timestamp: 99,
		Flags:     HiveFlagLoadedFromBackup,
	}
	require.NoError(t, in.Put(b))
	out, err := ParseFileHeader(b)
	require.NoError(t, err)
	require.Equal(t, in, out)

	_, err = ParseFileHeader(b[:FileHeaderSize-1])
	require.ErrorIs(t, err, ErrOutOfBounds)
}
