package codec

import (
	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
	"github.com/hupe1980/vecpress/quantization"
	"github.com/hupe1980/vecpress/transform"
)

// PolarDelta converts each vector to hyperspherical coordinates and encodes
// consecutive differences: the magnitude as float32, the angles as 16-bit codes
// with step π/32767.
//
// Residuals are taken against the reconstructed previous point, so the angle
// error stays within half a step for the whole sequence.
type PolarDelta struct {
	backend backend.Backend
}

// NewPolarDelta creates a PolarDelta codec.
func NewPolarDelta(opts ...Option) *PolarDelta {
	o := applyOptions(opts)
	return &PolarDelta{backend: o.backend}
}

// Name returns "polar-delta".
func (c *PolarDelta) Name() string { return NamePolarDelta }

// Lossless returns false.
func (c *PolarDelta) Lossless() bool { return false }

func stepAngle(prev float64, q int16) float64 {
	return prev + float64(q)*quantization.AngleStep
}

// Encode implements Codec.
func (c *PolarDelta) Encode(vectors [][]float32) ([]byte, error) {
	h, err := validate(vectors)
	if err != nil || h.N == 0 {
		return nil, err
	}
	dim := int(h.Dim)

	mag0, angles0 := transform.ToPolar(vectors[0])
	prevMag := float32(mag0)
	prevAngles := make([]float64, len(angles0))

	w := format.NewWriter(format.HeaderSize + 4*dim + 4)
	w.Header(h)
	w.Float32(prevMag)
	for i, a := range angles0 {
		a32 := float32(a)
		w.Float32(a32)
		prevAngles[i] = float64(a32)
	}

	body := format.NewWriter((int(h.N) - 1) * (4 + 2*len(angles0)))
	for t := 1; t < len(vectors); t++ {
		mag, angles := transform.ToPolar(vectors[t])

		dm := float32(mag) - prevMag
		body.Float32(dm)
		prevMag += dm

		for i, a := range angles {
			residual := quantization.WrapAngle(a - prevAngles[i])
			q := int16(quantization.Quantize(residual, quantization.AngleStep, 16))
			body.Int16(q)
			prevAngles[i] = stepAngle(prevAngles[i], q)
		}
	}

	if err := writePayload(w, c.backend, body.Bytes()); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode implements Codec.
func (c *PolarDelta) Decode(blob []byte) ([][]float32, error) {
	r, h, ok, err := readHeader(blob, format.HeaderSize)
	if !ok {
		return nil, err
	}
	n, dim := int(h.N), int(h.Dim)
	nAngles := dim - 1

	mag, err := r.Float32("anchor.magnitude")
	if err != nil {
		return nil, err
	}
	anchorAngles, err := r.Float32s("anchor.angles", nAngles)
	if err != nil {
		return nil, err
	}
	body, err := readPayload(r, c.backend, (n-1)*(4+2*nAngles))
	if err != nil {
		return nil, err
	}
	if err := r.Done("blob"); err != nil {
		return nil, err
	}

	angles := make([]float64, nAngles)
	for i, a := range anchorAngles {
		angles[i] = float64(a)
	}

	out := make([][]float32, n)
	out[0] = transform.FromPolar(float64(mag), angles)

	br := format.NewReader(body)
	for t := 1; t < n; t++ {
		dm, _ := br.Float32("magnitude")
		mag += dm
		for i := range angles {
			q, _ := br.Int16("angle")
			angles[i] = stepAngle(angles[i], q)
		}
		out[t] = transform.FromPolar(float64(mag), angles)
	}
	return out, nil
}
