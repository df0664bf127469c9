package format

import (
	"encoding/binary"
	"errors"
	"math"
)

var errTrailing = errors.New("trailing bytes")

// Reader decodes little-endian fields from a blob with bounds checking.
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current read position.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) need(section string, n int) error {
	if n < 0 || r.Remaining() < n {
		return Malformed(section, r.off, n, r.Remaining(), nil)
	}
	return nil
}

// Header reads (n, dim) and validates both against MaxElements.
func (r *Reader) Header() (Header, error) {
	n, err := r.Uint32("header.n")
	if err != nil {
		return Header{}, err
	}
	dim, err := r.Uint32("header.dim")
	if err != nil {
		return Header{}, err
	}
	h := Header{N: n, Dim: dim}
	if n == 0 || dim == 0 || uint64(n)*uint64(dim) > MaxElements {
		return Header{}, Malformed("header", 0, MaxElements, int(min(uint64(n)*uint64(dim), math.MaxInt32)), nil)
	}
	return h, nil
}

// Uint32 reads one u32.
func (r *Reader) Uint32(section string) (uint32, error) {
	if err := r.need(section, 4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

// Float32 reads one f32.
func (r *Reader) Float32(section string) (float32, error) {
	v, err := r.Uint32(section)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// Float32s reads count consecutive f32 values.
func (r *Reader) Float32s(section string, count int) ([]float32, error) {
	if err := r.need(section, count*4); err != nil {
		return nil, err
	}
	out := make([]float32, count)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
		r.off += 4
	}
	return out, nil
}

// Int16 reads one i16.
func (r *Reader) Int16(section string) (int16, error) {
	if err := r.need(section, 2); err != nil {
		return 0, err
	}
	v := int16(binary.LittleEndian.Uint16(r.data[r.off:]))
	r.off += 2
	return v, nil
}

// Int8 reads one i8.
func (r *Reader) Int8(section string) (int8, error) {
	if err := r.need(section, 1); err != nil {
		return 0, err
	}
	v := int8(r.data[r.off])
	r.off++
	return v, nil
}

// Bytes returns the next n bytes without copying.
func (r *Reader) Bytes(section string, n int) ([]byte, error) {
	if err := r.need(section, n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Section reads a u32 length prefix and returns that many bytes.
func (r *Reader) Section(section string) ([]byte, error) {
	n, err := r.Uint32(section + ".len")
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(r.Remaining()) {
		return nil, Malformed(section, r.off, int(min(uint64(n), math.MaxInt32)), r.Remaining(), nil)
	}
	return r.Bytes(section, int(n))
}

// Done returns an error if unread bytes remain.
func (r *Reader) Done(section string) error {
	if r.Remaining() != 0 {
		return Malformed(section, r.off, 0, r.Remaining(), errTrailing)
	}
	return nil
}
