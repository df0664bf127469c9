package quantization

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrNoTrainingData is returned by Train for an empty set.
	ErrNoTrainingData = errors.New("no vectors provided for training")

	// ErrDimensionMismatch is returned when a vector does not match the quantizer.
	ErrDimensionMismatch = errors.New("vector dimension does not match quantizer")
)

// ScalarQuantizer implements per-dimension 8-bit scalar quantization.
// Each dimension is mapped from its own [min, max] onto [0, 255].
type ScalarQuantizer struct {
	mins []float32
	maxs []float32
}

// NewScalarQuantizer creates a quantizer for dim dimensions with the default
// range [0, 1].
func NewScalarQuantizer(dim int) *ScalarQuantizer {
	sq := &ScalarQuantizer{
		mins: make([]float32, dim),
		maxs: make([]float32, dim),
	}
	for i := range sq.maxs {
		sq.maxs[i] = 1
	}
	return sq
}

// Dimension returns the number of dimensions the quantizer covers.
func (sq *ScalarQuantizer) Dimension() int { return len(sq.mins) }

// Train finds per-dimension min/max values across all vectors.
func (sq *ScalarQuantizer) Train(vectors [][]float32) error {
	if len(vectors) == 0 {
		return ErrNoTrainingData
	}

	for i := range sq.mins {
		sq.mins[i] = math.MaxFloat32
		sq.maxs[i] = -math.MaxFloat32
	}

	for _, vec := range vectors {
		if len(vec) != len(sq.mins) {
			return ErrDimensionMismatch
		}
		for i, val := range vec {
			if val < sq.mins[i] {
				sq.mins[i] = val
			}
			if val > sq.maxs[i] {
				sq.maxs[i] = val
			}
		}
	}

	// Constant dimensions still need a non-empty range. The widening step
	// scales with the magnitude so it is not absorbed by float32 rounding.
	for i := range sq.mins {
		if sq.mins[i] == sq.maxs[i] {
			sq.widen(i)
		}
	}

	return nil
}

func (sq *ScalarQuantizer) widen(i int) {
	lo := sq.mins[i]
	step := max(1, float32(math.Abs(float64(lo)))/(1<<20))
	if hi := lo + step; !math.IsInf(float64(hi), 0) {
		sq.maxs[i] = hi
		return
	}
	sq.mins[i] = lo - step
}

// span returns max-min of dimension i in float64, which cannot overflow.
func (sq *ScalarQuantizer) span(i int) float64 {
	return float64(sq.maxs[i]) - float64(sq.mins[i])
}

// Encode quantizes v to one byte per dimension.
func (sq *ScalarQuantizer) Encode(v []float32) []byte {
	quantized := make([]byte, len(v))
	for i, val := range v {
		lo, hi := sq.mins[i], sq.maxs[i]
		if val < lo {
			val = lo
		} else if val > hi {
			val = hi
		}
		normalized := (float64(val) - float64(lo)) * 255.0 / sq.span(i)
		quantized[i] = uint8(normalized + 0.5)
	}
	return quantized
}

// Decode reconstructs a float32 vector from its codes.
func (sq *ScalarQuantizer) Decode(b []byte) []float32 {
	decoded := make([]float32, len(b))
	for i, val := range b {
		v := float64(sq.mins[i]) + float64(val)*sq.span(i)/255.0
		decoded[i] = float32(min(v, float64(sq.maxs[i])))
	}
	return decoded
}

// BytesPerDimension returns 1 (uint8 storage).
func (sq *ScalarQuantizer) BytesPerDimension() int {
	return 1
}

// Min returns the trained minimum of dimension i.
func (sq *ScalarQuantizer) Min(i int) float32 { return sq.mins[i] }

// Max returns the trained maximum of dimension i.
func (sq *ScalarQuantizer) Max(i int) float32 { return sq.maxs[i] }

// MarshalBinary implements encoding.BinaryMarshaler.
// Format (little-endian): [mins: dim×float32][maxs: dim×float32]
func (sq *ScalarQuantizer) MarshalBinary() ([]byte, error) {
	dim := len(sq.mins)
	b := make([]byte, 8*dim)
	for i := range dim {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(sq.mins[i]))
		binary.LittleEndian.PutUint32(b[4*(dim+i):], math.Float32bits(sq.maxs[i]))
	}
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The dimension is
// taken from the receiver.
func (sq *ScalarQuantizer) UnmarshalBinary(data []byte) error {
	dim := len(sq.mins)
	if len(data) != 8*dim {
		return errors.New("invalid scalar quantizer binary length")
	}
	for i := range dim {
		sq.mins[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
		sq.maxs[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*(dim+i):]))
	}
	return nil
}

// QuantizationError returns the worst-case reconstruction error of dimension i.
func (sq *ScalarQuantizer) QuantizationError(i int) float32 {
	return float32(sq.span(i) / 510.0)
}
