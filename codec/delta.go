package codec

import (
	"math"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
)

// patch overrides one reconstructed component whose float32 sum prev+delta
// does not reproduce the original bits.
type patch struct {
	index uint32
	value float32
}

// deltaStream flattens the n-1 consecutive differences of vectors and lists the
// components that need a patch to reconstruct exactly.
func deltaStream(vectors [][]float32) ([]float32, []patch) {
	dim := len(vectors[0])
	prev := append([]float32(nil), vectors[0]...)
	deltas := make([]float32, 0, (len(vectors)-1)*dim)

	var patches []patch
	for t := 1; t < len(vectors); t++ {
		for i, x := range vectors[t] {
			d := x - prev[i]
			recon := prev[i] + d
			if math.Float32bits(recon) != math.Float32bits(x) {
				patches = append(patches, patch{index: uint32(len(deltas)), value: x})
				recon = x
			}
			prev[i] = recon
			deltas = append(deltas, d)
		}
	}
	return deltas, patches
}

func writePatches(w *format.Writer, patches []patch) {
	w.Uint32(uint32(len(patches)))
	for _, p := range patches {
		w.Uint32(p.index)
		w.Float32(p.value)
	}
}

// readPatches reads the patch list. Indices must be strictly increasing and
// below total.
func readPatches(r *format.Reader, total int) ([]patch, error) {
	count, err := r.Uint32("patches.count")
	if err != nil {
		return nil, err
	}
	if uint64(count)*8 > uint64(r.Remaining()) {
		return nil, format.Malformed("patches", r.Offset(), int(count)*8, r.Remaining(), nil)
	}
	patches := make([]patch, count)
	for i := range patches {
		off := r.Offset()
		idx, err := r.Uint32("patches.index")
		if err != nil {
			return nil, err
		}
		v, err := r.Float32("patches.value")
		if err != nil {
			return nil, err
		}
		if int64(idx) >= int64(total) || (i > 0 && idx <= patches[i-1].index) {
			return nil, format.Malformed("patches.index", off, total, int(idx), nil)
		}
		patches[i] = patch{index: idx, value: v}
	}
	return patches, nil
}

// rebuild reconstructs n vectors from the anchor, a flat delta stream and its
// patches.
func rebuild(anchor []float32, n int, deltas []float32, patches []patch) [][]float32 {
	dim := len(anchor)
	out := newSequence(n, dim)
	copy(out[0], anchor)

	pi := 0
	for t := 1; t < n; t++ {
		prev, cur := out[t-1], out[t]
		base := (t - 1) * dim
		for i := range cur {
			cur[i] = prev[i] + deltas[base+i]
			if pi < len(patches) && int(patches[pi].index) == base+i {
				cur[i] = patches[pi].value
				pi++
			}
		}
	}
	return out
}

// Delta stores raw float32 differences between consecutive vectors and
// compresses them with a generic backend. It is lossless.
type Delta struct {
	backend backend.Backend
}

// NewDelta creates a Delta codec.
func NewDelta(opts ...Option) *Delta {
	o := applyOptions(opts)
	return &Delta{backend: o.backend}
}

// Name returns "delta".
func (c *Delta) Name() string { return NameDelta }

// Lossless returns true.
func (c *Delta) Lossless() bool { return true }

// Encode implements Codec.
func (c *Delta) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}

	w := format.NewWriter(format.HeaderSize + 4*int(h.Dim) + 4)
	w.Header(h)
	w.Float32s(vectors[0])

	var body []byte
	if h.N > 1 {
		deltas, patches := deltaStream(vectors)
		bw := format.NewWriter(4 + 8*len(patches) + 4*len(deltas))
		writePatches(bw, patches)
		bw.Float32s(deltas)
		body = bw.Bytes()
	}
	if err := writePayload(w, c.backend, body); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *Delta) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return nil, err
	}
	n, dim := int(h.N), int(h.Dim)

	anchor, err := r.Float32s("anchor", dim)
	if err != nil {
		return nil, err
	}
	body, err := readPayload(r, c.backend, -1)
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}
	if n == 1 {
		if len(body) != 0 {
			return nil, format.Malformed("payload", 0, 0, len(body), nil)
		}
		return rebuild(anchor, 1, nil, nil), nil
	}

	total := (n - 1) * dim
	br := format.NewReader(body)
	patches, err := readPatches(br, total)
	if err != nil {
		return nil, err
	}
	deltas, err := br.Float32s("deltas", total)
	if err != nil {
		return nil, err
	}
	if err := br.Done("deltas"); err != nil {
		return nil, err
	}
	return rebuild(anchor, n, deltas, patches), nil
}
