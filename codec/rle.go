package codec

import (
	"math"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
)

// rleRecordSize is one (count u32, value f32) record.
const rleRecordSize = 8

// DeltaRLE run-length encodes the flat stream of consecutive differences before
// handing it to a generic backend. Only bit-identical deltas share a run, so the
// codec is lossless.
type DeltaRLE struct {
	backend backend.Backend
}

// NewDeltaRLE creates a DeltaRLE codec.
func NewDeltaRLE(opts ...Option) *DeltaRLE {
	o := applyOptions(opts)
	return &DeltaRLE{backend: o.backend}
}

// Name returns "delta-rle".
func (c *DeltaRLE) Name() string { return NameDeltaRLE }

// Lossless returns true.
func (c *DeltaRLE) Lossless() bool { return true }

type run struct {
	count uint32
	value float32
}

func runLength(values []float32) []run {
	var runs []run
	for _, v := range values {
		if k := len(runs) - 1; k >= 0 && math.Float32bits(runs[k].value) == math.Float32bits(v) && runs[k].count < math.MaxUint32 {
			runs[k].count++
			continue
		}
		runs = append(runs, run{count: 1, value: v})
	}
	return runs
}

// Encode implements Codec.
func (c *DeltaRLE) Encode(vectors [][]float32) ([]byte, error) {
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
		runs := runLength(deltas)
		bw := format.NewWriter(4 + 8*len(patches) + rleRecordSize*len(runs))
		writePatches(bw, patches)
		for _, r := range runs {
			bw.Uint32(r.count)
			bw.Float32(r.value)
		}
		body = bw.Bytes()
	}
	if err := writePayload(w, c.backend, body); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *DeltaRLE) Decode(blob []byte) ([][]float32, error) {
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
	if br.Remaining()%rleRecordSize != 0 {
		return nil, format.Malformed("runs", br.Offset(), rleRecordSize, br.Remaining()%rleRecordSize, nil)
	}

	deltas := make([]float32, 0, total)
	for br.Remaining() > 0 {
		off := br.Offset()
		count, _ := br.Uint32("runs.count")
		value, _ := br.Float32("runs.value")
		if count == 0 || uint64(len(deltas))+uint64(count) > uint64(total) {
			return nil, format.Malformed("runs", off, total-len(deltas), int(min(count, math.MaxInt32)), nil)
		}
		for range count {
			deltas = append(deltas, value)
		}
	}
	if len(deltas) != total {
		return nil, format.Malformed("runs", br.Offset(), total, len(deltas), nil)
	}
	return rebuild(anchor, n, deltas, patches), nil
}

// Runs returns the number of RLE records in a blob produced by DeltaRLE.
func (c *DeltaRLE) Runs(blob []byte) (int, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return 0, err
	}
	if _, err := r.Float32s("anchor", int(h.Dim)); err != nil {
		return 0, err
	}
	body, err := readPayload(r, c.backend, -1)
	if err != nil || len(body) == 0 {
		return 0, err
	}
	br := format.NewReader(body)
	if _, err := readPatches(br, int(h.N-1)*int(h.Dim)); err != nil {
		return 0, err
	}
	return br.Remaining() / rleRecordSize, nil
}
