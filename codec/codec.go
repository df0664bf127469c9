// Package codec implements the correlation-aware compressors for sequences of
// float32 vectors, together with generic baselines to compare them against.
//
// Every codec produces a self-describing blob: a little-endian header carrying
// n and dim, codec-specific scalars, the first vector (or its transformed
// form) stored verbatim, and a length-prefixed payload for the remaining n-1
// vectors.
//
// Encoding an empty sequence yields an empty blob, and decoding a blob that is
// shorter than the codec's header yields an empty sequence. Structural
// problems in a blob are reported as *MalformedBlobError.
package codec

import (
	"errors"
	"fmt"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
)

// Codec encodes and decodes vector sequences.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the stable name of the codec.
	Name() string

	// Lossless reports whether Decode(Encode(v)) reproduces v bit for bit.
	Lossless() bool

	// Encode compresses a sequence of equal-length vectors.
	Encode(vectors [][]float32) ([]byte, error)

	// Decode reconstructs the sequence from a blob produced by Encode.
	Decode(blob []byte) ([][]float32, error)
}

var (
	// ErrInvalidDimension is returned when vectors have zero length.
	ErrInvalidDimension = errors.New("vectors must have at least one dimension")

	// ErrSequenceTooLarge is returned when n*dim exceeds format.MaxElements.
	ErrSequenceTooLarge = errors.New("sequence exceeds maximum element count")

	// ErrUnknownCodec is returned by New for unregistered names.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrMalformedBlob matches every *MalformedBlobError via errors.Is.
	ErrMalformedBlob = format.ErrMalformedBlob
)

// MalformedBlobError describes a structural violation found while decoding.
type MalformedBlobError = format.MalformedBlobError

// DimensionMismatchError indicates a vector whose length differs from the
// first vector of the sequence.
type DimensionMismatchError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch at vector %d: expected %d, got %d", e.Index, e.Expected, e.Actual)
}

// validate checks a sequence and returns its header. An empty sequence
// returns the zero header.
func validate(vectors [][]float32) (format.Header, error) {
	if len(vectors) == 0 {
		return format.Header{}, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return format.Header{}, ErrInvalidDimension
	}
	for i, v := range vectors {
		if len(v) != dim {
			return format.Header{}, &DimensionMismatchError{Index: i, Expected: dim, Actual: len(v)}
		}
	}
	if uint64(len(vectors))*uint64(dim) > format.MaxElements {
		return format.Header{}, fmt.Errorf("%w: %d x %d", ErrSequenceTooLarge, len(vectors), dim)
	}
	return format.Header{N: uint32(len(vectors)), Dim: uint32(dim)}, nil
}

// newSequence allocates n vectors of length dim over one backing array.
func newSequence(n, dim int) [][]float32 {
	data := make([]float32, n*dim)
	out := make([][]float32, n)
	for i := range out {
		out[i] = data[i*dim : (i+1)*dim : (i+1)*dim]
	}
	return out
}

// writePayload compresses body with b and appends it as a length-prefixed
// section. An empty body is written as a zero length without invoking b.
func writePayload(w *format.Writer, b backend.Backend, body []byte) error {
	if len(body) == 0 {
		w.Uint32(0)
		return nil
	}
	c, err := b.Compress(body)
	if err != nil {
		return fmt.Errorf("compress payload with %s: %w", b.Name(), err)
	}
	w.Section(c)
	return nil
}

// readPayload reads a length-prefixed section and decompresses it with b.
// want < 0 accepts any body length.
func readPayload(r *format.Reader, b backend.Backend, want int) ([]byte, error) {
	off := r.Offset()
	sec, err := r.Section("payload")
	if err != nil {
		return nil, err
	}
	var body []byte
	if len(sec) > 0 {
		body, err = b.Decompress(sec)
		if err != nil {
			return nil, format.Malformed("payload", off, 0, len(sec), err)
		}
	}
	if want >= 0 && len(body) != want {
		return nil, format.Malformed("payload", off, want, len(body), nil)
	}
	return body, nil
}

// readHeader returns ok=false for blobs shorter than minLen.
func readHeader(blob []byte, minLen int) (*format.Reader, format.Header, bool, error) {
	if len(blob) < minLen {
		return nil, format.Header{}, false, nil
	}
	r := format.NewReader(blob)
	h, err := r.Header()
	if err != nil {
		return nil, format.Header{}, false, err
	}
	return r, h, true, nil
}
