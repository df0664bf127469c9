package transform

import "math"

// Delta writes cur-prev into dst, computed in float32.
func Delta(dst, prev, cur []float32) {
	for i := range cur {
		dst[i] = cur[i] - prev[i]
	}
}

// Deltas returns the n-1 consecutive differences of vectors.
func Deltas(vectors [][]float32) [][]float32 {
	if len(vectors) < 2 {
		return nil
	}
	dim := len(vectors[0])
	backing := make([]float32, (len(vectors)-1)*dim)
	out := make([][]float32, len(vectors)-1)
	for t := 1; t < len(vectors); t++ {
		d := backing[(t-1)*dim : t*dim]
		Delta(d, vectors[t-1], vectors[t])
		out[t-1] = d
	}
	return out
}

// MaxAbsDelta returns the largest |cur[i]-prev[i]| over the sequence.
func MaxAbsDelta(vectors [][]float32) float64 {
	var m float64
	for t := 1; t < len(vectors); t++ {
		for i := range vectors[t] {
			d := math.Abs(float64(vectors[t][i]) - float64(vectors[t-1][i]))
			if d > m {
				m = d
			}
		}
	}
	return m
}
