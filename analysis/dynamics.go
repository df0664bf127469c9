package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// MinPoints is the sequence length below which the dynamics estimators
	// return their degenerate value.
	MinPoints = 100

	maxCorrelationPoints = 2000
	correlationRadii     = 20
	maxLyapunovPoints    = 1000
	lyapunovPairs        = 50
	lyapunovHorizon      = 20
	minSeparation        = 1e-6
)

// AttractorAnalysis is the outcome of AnalyzeAttractor.
type AttractorAnalysis struct {
	Points       int
	EmbeddingDim int
	// D2 is the correlation dimension.
	D2 float64
	// Lambda1 is the largest Lyapunov exponent estimate.
	Lambda1 float64
	// Chaotic reports D2 < EmbeddingDim and Lambda1 > 0.
	Chaotic bool
	// CompressionPotential is EmbeddingDim / D2, or 1 when D2 ≤ 0.1.
	CompressionPotential float64
}

func toFloat64(vectors [][]float32) [][]float64 {
	out := make([][]float64, len(vectors))
	for i, v := range vectors {
		out[i] = make([]float64, len(v))
		for j, x := range v {
			out[i][j] = float64(x)
		}
	}
	return out
}

// CorrelationDimension estimates D₂ with the Grassberger–Procaccia algorithm.
//
// It uses at most the first 2000 points, evaluates the correlation sum at 20
// log-spaced radii between the 1st and 99th percentile of pairwise distances
// and returns the least-squares slope of log C(r) over log r, floored at 0.
// Sequences shorter than MinPoints return their dimension.
func CorrelationDimension(vectors [][]float32) float64 {
	if len(vectors) == 0 {
		return 0
	}
	if len(vectors) < MinPoints {
		return float64(len(vectors[0]))
	}

	points := toFloat64(vectors[:min(len(vectors), maxCorrelationPoints)])
	n := len(points)

	dists := make([]float64, 0, n*(n-1)/2)
	for i := range n {
		for j := i + 1; j < n; j++ {
			dists = append(dists, floats.Distance(points[i], points[j], 2))
		}
	}
	slices.Sort(dists)

	minR := math.Max(dists[len(dists)/100], minSeparation)
	maxR := dists[len(dists)*99/100]
	if maxR <= minR {
		return 0
	}

	xs := make([]float64, correlationRadii)
	ys := make([]float64, correlationRadii)
	lo, hi := math.Log(minR), math.Log(maxR)
	for i := range correlationRadii {
		logR := lo + (hi-lo)*float64(i)/float64(correlationRadii-1)
		below, _ := slices.BinarySearch(dists, math.Exp(logR))
		c := math.Max(float64(below)/float64(len(dists)), 1e-10)
		xs[i] = logR
		ys[i] = math.Log(c)
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return math.Max(slope, 0)
}

// MaxLyapunov estimates the largest Lyapunov exponent.
//
// Up to 50 reference points are taken from the first 1000. For each, the
// nearest later neighbour (distance above 1e-6) is followed for up to 20
// steps and the mean of log(d(t)/d(0)) is recorded. The result is the mean
// over all references. Sequences shorter than MinPoints return 0.
func MaxLyapunov(vectors [][]float32) float64 {
	if len(vectors) < MinPoints {
		return 0
	}

	points := toFloat64(vectors[:min(len(vectors), maxLyapunovPoints)])
	n := len(points)
	limit := n - lyapunovHorizon
	stride := max(n/lyapunovPairs, 1)

	var estimates []float64
	for i := 0; i < limit; i += stride {
		d0 := math.Inf(1)
		nearest := i + 1
		for j := i + 1; j < limit; j++ {
			d := floats.Distance(points[i], points[j], 2)
			if d > minSeparation && d < d0 {
				d0 = d
				nearest = j
			}
		}
		if math.IsInf(d0, 1) {
			continue
		}

		var sum float64
		steps := 0
		for t := 1; t < min(lyapunovHorizon, n-max(i, nearest)); t++ {
			dt := floats.Distance(points[i+t], points[nearest+t], 2)
			if dt > minSeparation {
				sum += math.Log(dt / d0)
				steps++
			}
		}
		if steps > 0 {
			estimates = append(estimates, sum/float64(steps))
		}
	}

	if len(estimates) == 0 {
		return 0
	}
	return stat.Mean(estimates, nil)
}

// TakensEmbedding reconstructs a phase space by concatenating m vectors
// spaced delay steps apart. Sequences too short for the embedding are
// returned unchanged.
func TakensEmbedding(vectors [][]float32, delay, m int) [][]float32 {
	n := len(vectors)
	if n == 0 || delay < 1 || m < 1 || n < delay*m {
		return vectors
	}

	dim := len(vectors[0])
	out := make([][]float32, n-delay*m)
	for i := range out {
		p := make([]float32, 0, dim*m)
		for j := range m {
			p = append(p, vectors[i+j*delay]...)
		}
		out[i] = p
	}
	return out
}

// AnalyzeAttractor runs CorrelationDimension and MaxLyapunov and derives the
// chaos verdict and the compression potential.
func AnalyzeAttractor(vectors [][]float32) AttractorAnalysis {
	a := AttractorAnalysis{Points: len(vectors)}
	if len(vectors) == 0 {
		return a
	}

	a.EmbeddingDim = len(vectors[0])
	a.D2 = CorrelationDimension(vectors)
	a.Lambda1 = MaxLyapunov(vectors)
	a.Chaotic = a.D2 < float64(a.EmbeddingDim) && a.Lambda1 > 0

	a.CompressionPotential = 1
	if a.D2 > 0.1 {
		a.CompressionPotential = float64(a.EmbeddingDim) / a.D2
	}
	return a
}
