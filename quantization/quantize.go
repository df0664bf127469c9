package quantization

import "math"

const (
	// Int8Step is the residual step of the 8-bit entropy-coded variant (range 1).
	Int8Step = 1.0 / 127.0

	// AngleStep is the residual step for polar angles (range π, 16 bits).
	AngleStep = math.Pi / 32767.0

	// AttractorStep is the residual step of projected coordinates.
	AttractorStep = 1.0 / 1000.0

	// MinScale is the magnitude below which a data-derived scale is replaced by 1.
	MinScale = 1e-10
)

// MaxSymbol returns 2^(bits-1)-1, the largest symmetric quantized value.
func MaxSymbol(bits int) int32 {
	return int32(1)<<(bits-1) - 1
}

// Step returns the step that spreads [-rangeV, rangeV] over a signed bits-wide
// code.
func Step(rangeV float64, bits int) float64 {
	return rangeV / float64(MaxSymbol(bits))
}

// Quantize returns clamp(round(x/step), -MaxSymbol(bits), MaxSymbol(bits)).
// NaN maps to 0.
func Quantize(x, step float64, bits int) int32 {
	limit := float64(MaxSymbol(bits))
	q := math.Round(x / step)
	switch {
	case math.IsNaN(q):
		return 0
	case q > limit:
		return int32(limit)
	case q < -limit:
		return -int32(limit)
	}
	return int32(q)
}

// QuantizeRange quantizes x against an explicit symmetric range scale.
func QuantizeRange(x, scale float64, bits int) int32 {
	return Quantize(x, Step(scale, bits), bits)
}

// Dequantize maps a code back to the residual domain. The result is rounded to
// float32 so encoder and decoder accumulate identical values.
func Dequantize(q int32, step float64) float32 {
	return float32(float64(q) * step)
}

// ScaleFor returns maxAbs, or 1 when maxAbs is too small to be a usable scale.
func ScaleFor(maxAbs float64) float64 {
	if !(maxAbs > MinScale) || math.IsInf(maxAbs, 0) {
		return 1.0
	}
	return maxAbs
}

// WrapAngle maps a into [-π, π].
func WrapAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}
