package backend

import (
	"encoding/binary"
	"errors"

	"github.com/pierrec/lz4/v4"
)

// lz4HeaderSize is the uncompressed-length prefix.
// Format: [UncompressedSize uint32][Block...]
const lz4HeaderSize = 4

// lz4MaxExpansion bounds the output of a block: one input byte extends a
// literal or match length by at most 255.
const lz4MaxExpansion = 255

var (
	errLZ4Header       = errors.New("lz4 block too small for header")
	errLZ4SizeMismatch = errors.New("lz4 decompressed size mismatch")
)

// LZ4Backend compresses with a single LZ4 block.
type LZ4Backend struct{}

// Name returns "lz4".
func (LZ4Backend) Name() string { return "lz4" }

// Compress implements Backend. Incompressible input is stored as a literal-only
// block so Decompress never has to guess the encoding.
func (LZ4Backend) Compress(src []byte) ([]byte, error) {
	out := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(src)))
	binary.LittleEndian.PutUint32(out, uint32(len(src)))

	n, err := lz4.CompressBlock(src, out[lz4HeaderSize:], nil)
	if err != nil {
		return nil, err
	}
	if n == 0 && len(src) > 0 {
		n = literalBlock(src, out[lz4HeaderSize:])
	}
	return out[:lz4HeaderSize+n], nil
}

// Decompress implements Backend.
func (LZ4Backend) Decompress(src []byte) ([]byte, error) {
	if len(src) < lz4HeaderSize {
		return nil, errLZ4Header
	}
	size := binary.LittleEndian.Uint32(src)
	body := src[lz4HeaderSize:]
	if uint64(size) > lz4MaxExpansion*uint64(len(body))+16 {
		return nil, errLZ4SizeMismatch
	}
	result := make([]byte, size)
	if size == 0 {
		return result, nil
	}

	n, err := lz4.UncompressBlock(body, result)
	if err != nil {
		return nil, err
	}
	if uint32(n) != size {
		return nil, errLZ4SizeMismatch
	}
	return result, nil
}

// literalBlock writes src as one LZ4 sequence with no match.
func literalBlock(src, dst []byte) int {
	n := len(src)
	i := 0
	if n < 15 {
		dst[i] = byte(n << 4)
		i++
	} else {
		dst[i] = 0xF0
		i++
		rem := n - 15
		for rem >= 255 {
			dst[i] = 255
			i++
			rem -= 255
		}
		dst[i] = byte(rem)
		i++
	}
	i += copy(dst[i:], src)
	return i
}
