package codec

import (
	"fmt"
	"math"

	"github.com/hupe1980/vecpress/format"
	"github.com/hupe1980/vecpress/internal/rans"
	"github.com/hupe1980/vecpress/quantization"
)

// symbolOffset maps a quantized residual in [-127, 127] onto a byte symbol.
const symbolOffset = 128

// Histogram counts quantized residuals. Index i holds the count of value
// i-symbolOffset.
type Histogram [rans.Alphabet]uint64

// Total returns the sum of all counts.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h {
		total += c
	}
	return total
}

// Distinct returns the number of values with a non-zero count.
func (h *Histogram) Distinct() int {
	var n int
	for _, c := range h {
		if c > 0 {
			n++
		}
	}
	return n
}

// DeltaANS quantizes consecutive differences to 8 bits (step 1/127) and entropy
// codes them with rANS under a histogram model stored in the blob.
type DeltaANS struct{}

// NewDeltaANS creates a DeltaANS codec.
func NewDeltaANS() *DeltaANS { return &DeltaANS{} }

// Name returns "delta-ans".
func (c *DeltaANS) Name() string { return NameDeltaANS }

// Lossless returns false.
func (c *DeltaANS) Lossless() bool { return false }

// quantizeDeltas returns the closed-loop residual symbols of vectors and their
// histogram.
func quantizeDeltas(vectors [][]float32, step float64) ([]uint8, *Histogram) {
	dim := len(vectors[0])
	prev := append([]float32(nil), vectors[0]...)
	symbols := make([]uint8, 0, (len(vectors)-1)*dim)
	hist := &Histogram{}

	for t := 1; t < len(vectors); t++ {
		for i, x := range vectors[t] {
			q := quantization.Quantize(float64(x)-float64(prev[i]), step, 8)
			s := uint8(q + symbolOffset)
			symbols = append(symbols, s)
			hist[s]++
			prev[i] += quantization.Dequantize(q, step)
		}
	}
	return symbols, hist
}

// accumulate rebuilds vectors from an anchor and closed-loop residual symbols.
func accumulate(anchor []float32, n int, symbols []uint8, step float64) [][]float32 {
	dim := len(anchor)
	out := newSequence(n, dim)
	copy(out[0], anchor)
	for t := 1; t < n; t++ {
		prev, cur := out[t-1], out[t]
		base := (t - 1) * dim
		for i := range cur {
			cur[i] = prev[i] + quantization.Dequantize(int32(symbols[base+i])-symbolOffset, step)
		}
	}
	return out
}

// Encode implements Codec.
func (c *DeltaANS) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}

	w := format.NewWriter(format.HeaderSize + 4*int(h.Dim) + 8)
	w.Header(h)
	w.Float32s(vectors[0])

	if h.N == 1 {
		w.Uint32(0) // histogram size
		w.Uint32(0) // payload length
		return w.Bytes(), nil
	}

	symbols, hist := quantizeDeltas(vectors, quantization.Int8Step)
	writeHistogram(w, hist)

	model, err := rans.NewModel(hist[:])
	if err != nil {
		return nil, fmt.Errorf("build entropy model: %w", err)
	}
	w.Section(model.Encode(symbols))
	return w.Bytes(), nil
}

// writeHistogram stores (value i8, count u32) pairs in ascending value order.
func writeHistogram(w *format.Writer, hist *Histogram) {
	w.Uint32(uint32(hist.Distinct()))
	for s, count := range hist {
		if count > 0 {
			w.Int8(int8(s - symbolOffset))
			w.Uint32(uint32(count))
		}
	}
}

func readHistogram(r *format.Reader, total int) (*Histogram, error) {
	off := r.Offset()
	size, err := r.Uint32("histogram.size")
	if err != nil {
		return nil, err
	}
	if size > rans.Alphabet-1 {
		return nil, format.Malformed("histogram.size", off, rans.Alphabet-1, int(min(size, math.MaxInt32)), nil)
	}

	hist := &Histogram{}
	last := -1
	for range size {
		off := r.Offset()
		v, err := r.Int8("histogram.value")
		if err != nil {
			return nil, err
		}
		count, err := r.Uint32("histogram.count")
		if err != nil {
			return nil, err
		}
		s := int(v) + symbolOffset
		if v == math.MinInt8 || s <= last || count == 0 {
			return nil, format.Malformed("histogram.entry", off, 0, int(v), nil)
		}
		hist[s] = uint64(count)
		last = s
	}
	if got := hist.Total(); got != uint64(total) {
		return nil, format.Malformed("histogram.total", off, total, int(min(got, math.MaxInt32)), nil)
	}
	return hist, nil
}

// Decode implements Codec.
func (c *DeltaANS) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return nil, err
	}
	n, dim := int(h.N), int(h.Dim)
	total := (n - 1) * dim

	anchor, err := r.Float32s("anchor", dim)
	if err != nil {
		return nil, err
	}
	hist, err := readHistogram(r, total)
	if err != nil {
		return nil, err
	}
	payloadOff := r.Offset()
	payload, err := r.Section("payload")
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}

	if n == 1 {
		if len(payload) != 0 {
			return nil, format.Malformed("payload", payloadOff, 0, len(payload), nil)
		}
		return accumulate(anchor, 1, nil, quantization.Int8Step), nil
	}

	model, err := rans.NewModel(hist[:])
	if err != nil {
		return nil, format.Malformed("histogram", payloadOff, 0, 0, err)
	}
	symbols, err := model.Decode(payload, total)
	if err != nil {
		return nil, format.Malformed("payload", payloadOff, 0, len(payload), err)
	}
	for i, s := range symbols {
		if hist[s] == 0 {
			return nil, format.Malformed("payload.symbol", payloadOff, i, int(s), nil)
		}
	}
	return accumulate(anchor, n, symbols, quantization.Int8Step), nil
}

// HistogramOf returns the histogram stored in a DeltaANS blob.
func (c *DeltaANS) HistogramOf(blob []byte) (*Histogram, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return &Histogram{}, err
	}
	if _, err := r.Float32s("anchor", int(h.Dim)); err != nil {
		return nil, err
	}
	return readHistogram(r, int(h.N-1)*int(h.Dim))
}
