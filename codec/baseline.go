package codec

import (
	"math"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
	"github.com/hupe1980/vecpress/quantization"
)

// Raw stores the sequence as plain float32 values compressed by a single
// backend. It is the generic baseline the delta codecs are measured against.
type Raw struct {
	backend backend.Backend
}

// NewRaw creates a Raw codec for the backend with the given name.
func NewRaw(name string) (*Raw, error) {
	b, err := backend.ByName(name)
	if err != nil {
		return nil, err
	}
	return &Raw{backend: b}, nil
}

// Name returns the backend name.
func (c *Raw) Name() string { return c.backend.Name() }

// Lossless returns true.
func (c *Raw) Lossless() bool { return true }

// Encode implements Codec.
func (c *Raw) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}
	body := format.NewWriter(4 * h.Elements())
	for _, v := range vectors {
		body.Float32s(v)
	}

	w := format.NewWriter(format.HeaderSize + 4)
	w.Header(h)
	if err := writePayload(w, c.backend, body.Bytes()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *Raw) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return nil, err
	}
	body, err := readPayload(r, c.backend, 4*h.Elements())
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}

	out := newSequence(int(h.N), int(h.Dim))
	br := format.NewReader(body)
	for _, v := range out {
		for i := range v {
			v[i], _ = br.Float32("values")
		}
	}
	return out, nil
}

// Int8 maps every component through clamp(round(x*127)) and compresses the
// codes. It assumes components in [-1, 1], as for normalized embeddings.
type Int8 struct {
	backend backend.Backend
}

// NewInt8 creates an Int8 codec.
func NewInt8(opts ...Option) *Int8 {
	o := applyOptions(opts)
	return &Int8{backend: o.backend}
}

// Name returns "int8".
func (c *Int8) Name() string { return NameInt8 }

// Lossless returns false.
func (c *Int8) Lossless() bool { return false }

// Encode implements Codec.
func (c *Int8) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}
	body := make([]byte, 0, h.Elements())
	for _, v := range vectors {
		for _, x := range v {
			body = append(body, byte(int8(quantization.Quantize(float64(x), quantization.Int8Step, 8))))
		}
	}

	w := format.NewWriter(format.HeaderSize + 4)
	w.Header(h)
	if err := writePayload(w, c.backend, body); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *Int8) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return nil, err
	}
	body, err := readPayload(r, c.backend, h.Elements())
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}

	out := newSequence(int(h.N), int(h.Dim))
	dim := int(h.Dim)
	for t, v := range out {
		for i := range v {
			v[i] = quantization.Dequantize(int32(int8(body[t*dim+i])), quantization.Int8Step)
		}
	}
	return out, nil
}

// SQ8 quantizes each dimension against its own [min, max] range to one byte.
type SQ8 struct {
	backend backend.Backend
}

// NewSQ8 creates an SQ8 codec.
func NewSQ8(opts ...Option) *SQ8 {
	o := applyOptions(opts)
	return &SQ8{backend: o.backend}
}

// Name returns "sq8".
func (c *SQ8) Name() string { return NameSQ8 }

// Lossless returns false.
func (c *SQ8) Lossless() bool { return false }

// Encode implements Codec.
func (c *SQ8) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}
	sq := quantization.NewScalarQuantizer(int(h.Dim))
	if err := sq.Train(vectors); err != nil {
		return nil, err
	}
	ranges, err := sq.MarshalBinary()
	if err != nil {
		return nil, err
	}

	body := make([]byte, 0, h.Elements())
	for _, v := range vectors {
		body = append(body, sq.Encode(v)...)
	}

	w := format.NewWriter(format.HeaderSize + len(ranges) + 4)
	w.Header(h)
	w.Raw(ranges)
	if err := writePayload(w, c.backend, body); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *SQ8) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return nil, err
	}
	dim := int(h.Dim)

	rangesOff := r.Offset()
	ranges, err := r.Bytes("ranges", 8*dim)
	if err != nil {
		return nil, err
	}
	sq := quantization.NewScalarQuantizer(dim)
	if err := sq.UnmarshalBinary(ranges); err != nil {
		return nil, format.Malformed("ranges", rangesOff, 8*dim, len(ranges), err)
	}
	for i := range dim {
		lo, hi := float64(sq.Min(i)), float64(sq.Max(i))
		if !(hi > lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
			return nil, format.Malformed("ranges", rangesOff+4*i, 0, 0, nil)
		}
	}
	body, err := readPayload(r, c.backend, h.Elements())
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}

	out := make([][]float32, h.N)
	for t := range out {
		out[t] = sq.Decode(body[t*dim : (t+1)*dim])
	}
	return out, nil
}
