package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arizkami/aurorahive/internal/buf"
	"github.com/arizkami/aurorahive/internal/format"
)

func TestXorRotateKnownVectors(t *testing.T) {
	require.Zero(t, XorRotate(nil))
	require.Zero(t, XorRotate(make([]byte, 8)), "zero words stay zero")

	// One word: XOR then rotate left one bit.
	require.Equal(t, uint32(2), XorRotate([]byte{1, 0, 0, 0}))

	// Trailing bytes fold in little-endian without a final rotation.
	require.Equal(t, uint32(2^7), XorRotate([]byte{1, 0, 0, 0, 7}))
	require.Equal(t, uint32(2^0x0107), XorRotate([]byte{1, 0, 0, 0, 7, 1}))

	// The high bit wraps around.
	require.Equal(t, uint32(1), XorRotate([]byte{0, 0, 0, 0x80}))
}

func TestHeaderChecksumRoundTrip(t *testing.T) {
	arena := make([]byte, format.HeaderSize)
	hdr, err := format.HeaderView(arena)
	require.NoError(t, err)
	hdr.SetSignature(format.HiveSignature)
	hdr.SetLength(4096)
	hdr.SetSize(4096)

	hdr.SetChecksum(Header(arena))
	require.True(t, VerifyHeader(arena))

	// The field itself is excluded, so writing it does not invalidate.
	require.Equal(t, hdr.Checksum(), Header(arena))

	// Any other byte flip breaks verification.
	arena[format.HdrLengthOffset] ^= 0xFF
	require.False(t, VerifyHeader(arena))
}

func TestHeaderComputeRestoresField(t *testing.T) {
	arena := make([]byte, format.HeaderSize)
	buf.PutU32LE(arena[format.HdrChecksumOffset:], 0xDEADBEEF)
	_ = Header(arena)
	require.Equal(t, uint32(0xDEADBEEF), buf.U32LE(arena[format.HdrChecksumOffset:]))
}

func TestFileChecksumCoversWholeImage(t *testing.T) {
	image := make([]byte, format.FileHeaderSize+64)
	for i := range image {
		image[i] = byte(i)
	}
	sum := File(image)
	buf.PutU32LE(image[format.FileChecksumOffset:], sum)
	require.Equal(t, sum, File(image), "stored checksum field is excluded")

	image[len(image)-1] ^= 1
	require.NotEqual(t, sum, File(image), "payload changes must change the sum")
}

func TestContextMatchesOneShot(t *testing.T) {
	data := make([]byte, 1029) // deliberately not word aligned
	for i := range data {
		data[i] = byte(i * 31)
	}
	splits := [][]int{{1029}, {1, 1028}, {3, 3, 1023}, {512, 517}, {1000, 29}}

	for _, split := range splits {
		xor, err := New(AlgXorRotate)
		require.NoError(t, err)
		crc, err := New(AlgCRC32)
		require.NoError(t, err)
		rest := data
		for _, n := range split {
			xor.Update(rest[:n])
			crc.Update(rest[:n])
			rest = rest[n:]
		}
		require.Equal(t, XorRotate(data), xor.Sum32(), "split %v", split)
		require.Equal(t, CRC32(data), crc.Sum32(), "split %v", split)
	}
}

func TestContextUnknownAlgorithm(t *testing.T) {
	_, err := New(Algorithm(99))
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
	require.Zero(t, Algorithm(99).DigestSize())
	require.Equal(t, 4, AlgXorRotate.DigestSize())
	require.Equal(t, 4, AlgCRC32.DigestSize())
}
