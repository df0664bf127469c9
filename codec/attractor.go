package codec

import (
	"math"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
	"github.com/hupe1980/vecpress/quantization"
	"github.com/hupe1980/vecpress/transform"
)

// attractorHeaderSize covers n, dim and k.
const attractorHeaderSize = 12

// Attractor projects the sequence onto its k highest-variance dimensions after
// centering on the per-dimension mean, then stores the trajectory through that
// subspace as 16-bit differences with step 1/1000. Dimensions outside the
// projection decode to their mean.
type Attractor struct {
	backend    backend.Backend
	components int
}

// NewAttractor creates an Attractor codec.
func NewAttractor(opts ...Option) *Attractor {
	o := applyOptions(opts)
	return &Attractor{backend: o.backend, components: o.components}
}

// Name returns "attractor".
func (c *Attractor) Name() string { return NameAttractor }

// Lossless returns false.
func (c *Attractor) Lossless() bool { return false }

// Components returns the configured projection size.
func (c *Attractor) Components() int { return c.components }

// Encode implements Codec.
func (c *Attractor) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}
	dim := int(h.Dim)
	k := min(c.components, dim)

	mean64, variance := transform.ColumnStats(vectors)
	dims := transform.TopVarianceDims(variance, k)
	mean := make([]float32, dim)
	for i, m := range mean64 {
		mean[i] = float32(m)
	}

	w := format.NewWriter(attractorHeaderSize + 4*dim + 8*k + 4)
	w.Header(h)
	w.Uint32(uint32(k))
	w.Float32s(mean)
	for _, d := range dims {
		w.Uint32(uint32(d))
	}

	prev := make([]float32, k)
	for j, d := range dims {
		prev[j] = vectors[0][d] - mean[d]
	}
	w.Float32s(prev)

	body := format.NewWriter((int(h.N) - 1) * k * 2)
	for t := 1; t < len(vectors); t++ {
		for j, d := range dims {
			centered := vectors[t][d] - mean[d]
			q := quantization.Quantize(float64(centered)-float64(prev[j]), quantization.AttractorStep, 16)
			body.Int16(int16(q))
			prev[j] += quantization.Dequantize(q, quantization.AttractorStep)
		}
	}

	if err := writePayload(w, c.backend, body.Bytes()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *Attractor) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, attractorHeaderSize)
	if !ok {
		return nil, err
	}
	n, dim := int(h.N), int(h.Dim)

	kOff := r.Offset()
	k32, err := r.Uint32("header.k")
	if err != nil {
		return nil, err
	}
	if k32 == 0 || k32 > uint32(min(dim, MaxComponents)) {
		return nil, format.Malformed("header.k", kOff, min(dim, MaxComponents), int(min(k32, math.MaxInt32)), nil)
	}
	k := int(k32)

	mean, err := r.Float32s("mean", dim)
	if err != nil {
		return nil, err
	}
	dims := make([]int, k)
	seen := make(map[int]struct{}, k)
	for j := range dims {
		off := r.Offset()
		d, err := r.Uint32("indices")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[int(d)]; dup || d >= uint32(dim) {
			return nil, format.Malformed("indices", off, dim, int(min(d, math.MaxInt32)), nil)
		}
		seen[int(d)] = struct{}{}
		dims[j] = int(d)
	}
	coords, err := r.Float32s("anchor", k)
	if err != nil {
		return nil, err
	}
	body, err := readPayload(r, c.backend, (n-1)*k*2)
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}

	out := newSequence(n, dim)
	br := format.NewReader(body)
	for t := range n {
		if t > 0 {
			for j := range coords {
				q, _ := br.Int16("deltas")
				coords[j] += quantization.Dequantize(int32(q), quantization.AttractorStep)
			}
		}
		copy(out[t], mean)
		for j, d := range dims {
			out[t][d] = mean[d] + coords[j]
		}
	}
	return out, nil
}
