package transform

import "math"

// polarEpsilon is the remaining squared radius below which an angle is
// reported as 0.
const polarEpsilon = 1e-10

// ToPolar converts v to hyperspherical coordinates.
//
// The magnitude is the Euclidean norm. Angles 0..dim-3 lie in [0, π]; the last
// angle is atan2(v[dim-1], v[dim-2]) in (-π, π]. A one-dimensional vector has
// no angles and its magnitude keeps the sign of the single coordinate.
func ToPolar(v []float32) (float64, []float64) {
	dim := len(v)
	switch dim {
	case 0:
		return 0, nil
	case 1:
		return float64(v[0]), nil
	}

	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}

	angles := make([]float64, dim-1)
	rem := sumSq
	for i := 0; i < dim-2; i++ {
		x := float64(v[i])
		if rem < polarEpsilon {
			angles[i] = 0
		} else {
			angles[i] = math.Acos(clamp(x/math.Sqrt(rem), -1, 1))
		}
		rem -= x * x
	}
	angles[dim-2] = math.Atan2(float64(v[dim-1]), float64(v[dim-2]))

	return math.Sqrt(sumSq), angles
}

// FromPolar is the inverse of ToPolar.
func FromPolar(magnitude float64, angles []float64) []float32 {
	dim := len(angles) + 1
	out := make([]float32, dim)
	if dim == 1 {
		out[0] = float32(magnitude)
		return out
	}

	r := magnitude
	for i := 0; i < dim-2; i++ {
		out[i] = float32(r * math.Cos(angles[i]))
		r *= math.Sin(angles[i])
	}
	phi := angles[dim-2]
	out[dim-2] = float32(r * math.Cos(phi))
	out[dim-1] = float32(r * math.Sin(phi))

	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
