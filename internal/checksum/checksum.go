// Package checksum implements the hive integrity checksums: a rotating
// XOR over 32-bit words used by the header and persisted files, and
// CRC32 for callers that want a stronger digest. A streaming Context
// covers incremental use.
package checksum

import (
	"hash/crc32"
	"math/bits"

	"github.com/arizkami/aurorahive/internal/buf"
	"github.com/arizkami/aurorahive/internal/format"
)

// XorRotate computes the rotating XOR checksum of data. Each full
// little-endian 32-bit word is XORed into the sum and the sum rotated
// left one bit; trailing bytes are assembled little-endian and XORed
// without a final rotation.
func XorRotate(data []byte) uint32 {
	var sum uint32
	n := len(data) / 4
	for i := 0; i < n; i++ {
		sum ^= buf.U32LE(data[i*4:])
		sum = bits.RotateLeft32(sum, 1)
	}
	if rem := len(data) % 4; rem != 0 {
		var last uint32
		for i := 0; i < rem; i++ {
			last |= uint32(data[n*4+i]) << (8 * i)
		}
		sum ^= last
	}
	return sum
}

// CRC32 computes the IEEE CRC-32 of data.
func CRC32(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// Header computes the hive header checksum: XorRotate over the whole
// header block with the checksum field zeroed. The stored field is
// restored before returning.
func Header(hdr []byte) uint32 {
	saved := buf.U32LE(hdr[format.HdrChecksumOffset:])
	buf.PutU32LE(hdr[format.HdrChecksumOffset:], 0)
	sum := XorRotate(hdr[:format.HeaderSize])
	buf.PutU32LE(hdr[format.HdrChecksumOffset:], saved)
	return sum
}

// VerifyHeader reports whether the stored header checksum matches.
func VerifyHeader(hdr []byte) bool {
	return Header(hdr) == buf.U32LE(hdr[format.HdrChecksumOffset:])
}

// Full computes XorRotate over an entire hive arena with the header
// checksum field zeroed.
func Full(arena []byte) uint32 {
	saved := buf.U32LE(arena[format.HdrChecksumOffset:])
	buf.PutU32LE(arena[format.HdrChecksumOffset:], 0)
	sum := XorRotate(arena)
	buf.PutU32LE(arena[format.HdrChecksumOffset:], saved)
	return sum
}

// File computes the persisted-file checksum: XorRotate over the whole
// file image with the wrapper checksum field zeroed.
func File(image []byte) uint32 {
	if len(image) < format.FileHeaderSize {
		return XorRotate(image)
	}
	saved := buf.U32LE(image[format.FileChecksumOffset:])
	buf.PutU32LE(image[format.FileChecksumOffset:], 0)
	sum := XorRotate(image)
	buf.PutU32LE(image[format.FileChecksumOffset:], saved)
	return sum
}
