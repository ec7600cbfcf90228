package checksum

import (
	"errors"
	"hash/crc32"
	"math/bits"

	"github.com/arizkami/aurorahive/internal/buf"
)

// Algorithm selects the checksum flavor for a streaming Context.
type Algorithm uint32

const (
	AlgXorRotate Algorithm = 1
	AlgCRC32     Algorithm = 2
)

// DigestSize returns the checksum width in bytes, or 0 for an unknown
// algorithm.
func (a Algorithm) DigestSize() int {
	switch a {
	case AlgXorRotate, AlgCRC32:
		return 4
	default:
		return 0
	}
}

// ErrUnknownAlgorithm indicates an Algorithm this package does not
// implement.
var ErrUnknownAlgorithm = errors.New("checksum: unknown algorithm")

// Context accumulates a checksum over multiple Update calls.
type Context struct {
	alg  Algorithm
	sum  uint32
	pend [4]byte
	n    int
}

// New returns a streaming context for the given algorithm.
func New(alg Algorithm) (*Context, error) {
	switch alg {
	case AlgXorRotate:
		return &Context{alg: alg}, nil
	case AlgCRC32:
		return &Context{alg: alg}, nil
	default:
		return nil, ErrUnknownAlgorithm
	}
}

// Update feeds data into the context.
func (c *Context) Update(data []byte) {
	if c.alg == AlgCRC32 {
		c.sum = crc32.Update(c.sum, crc32.IEEETable, data)
		return
	}
	for _, b := range data {
		c.pend[c.n] = b
		c.n++
		if c.n == 4 {
			c.sum ^= buf.U32LE(c.pend[:])
			c.sum = bits.RotateLeft32(c.sum, 1)
			c.n = 0
		}
	}
}

// Sum32 returns the checksum of everything fed so far. The context stays
// usable; trailing partial words are folded in without consuming them.
func (c *Context) Sum32() uint32 {
	if c.alg == AlgCRC32 {
		return c.sum
	}
	sum := c.sum
	if c.n > 0 {
		var last uint32
		for i := 0; i < c.n; i++ {
			last |= uint32(c.pend[i]) << (8 * i)
		}
		sum ^= last
	}
	return sum
}
