package format

import (
	"encoding/binary"
	"math"
)

// Writer appends little-endian fields to an in-memory buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Header writes n and dim.
func (w *Writer) Header(h Header) {
	w.Uint32(h.N)
	w.Uint32(h.Dim)
}

// Uint32 appends v.
func (w *Writer) Uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// Float32 appends the IEEE-754 bits of v.
func (w *Writer) Float32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

// Float32s appends every element of vs.
func (w *Writer) Float32s(vs []float32) {
	for _, v := range vs {
		w.Float32(v)
	}
}

// Int16 appends v in two's complement.
func (w *Writer) Int16(v int16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(v))
}

// Int8 appends v in two's complement.
func (w *Writer) Int8(v int8) {
	w.buf = append(w.buf, byte(v))
}

// Uint8 appends v.
func (w *Writer) Uint8(v uint8) {
	w.buf = append(w.buf, v)
}

// Raw appends b unchanged.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Section appends a u32 length prefix followed by b.
func (w *Writer) Section(b []byte) {
	w.Uint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the written bytes. The slice aliases the Writer's buffer.
func (w *Writer) Bytes() []byte { return w.buf }
