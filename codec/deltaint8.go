package codec

import (
	"math"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
	"github.com/hupe1980/vecpress/quantization"
	"github.com/hupe1980/vecpress/transform"
)

// deltaInt8HeaderSize covers n, dim and the scale.
const deltaInt8HeaderSize = 12

// DeltaInt8 quantizes consecutive differences to 8 bits against an adaptive
// scale, the largest absolute difference in the sequence, and compresses the
// codes with a generic backend.
type DeltaInt8 struct {
	backend backend.Backend
}

// NewDeltaInt8 creates a DeltaInt8 codec.
func NewDeltaInt8(opts ...Option) *DeltaInt8 {
	o := applyOptions(opts)
	return &DeltaInt8{backend: o.backend}
}

// Name returns "delta-int8".
func (c *DeltaInt8) Name() string { return NameDeltaInt8 }

// Lossless returns false.
func (c *DeltaInt8) Lossless() bool { return false }

// Encode implements Codec.
func (c *DeltaInt8) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}
	scale := float32(quantization.ScaleFor(transform.MaxAbsDelta(vectors)))
	step := quantization.Step(float64(scale), 8)

	w := format.NewWriter(deltaInt8HeaderSize + 4*int(h.Dim) + 4)
	w.Header(h)
	w.Float32(scale)
	w.Float32s(vectors[0])

	symbols, _ := quantizeDeltas(vectors, step)
	if err := writePayload(w, c.backend, symbols); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *DeltaInt8) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, deltaInt8HeaderSize)
	if !ok {
		return nil, err
	}
	n, dim := int(h.N), int(h.Dim)

	scaleOff := r.Offset()
	scale, err := r.Float32("scale")
	if err != nil {
		return nil, err
	}
	if !(scale > 0) || math.IsInf(float64(scale), 0) {
		return nil, format.Malformed("scale", scaleOff, 0, 0, nil)
	}
	anchor, err := r.Float32s("anchor", dim)
	if err != nil {
		return nil, err
	}
	symbols, err := readPayload(r, c.backend, (n-1)*dim)
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}
	for i, s := range symbols {
		if s == 0 {
			return nil, format.Malformed("payload.symbol", i, 1, 0, nil)
		}
	}
	return accumulate(anchor, n, symbols, quantization.Step(float64(scale), 8)), nil
}
