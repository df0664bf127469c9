package testutil

import (
	"math"
	"testing"

	"github.com/hupe1980/vecpress/dataset"
	"github.com/stretchr/testify/require"
)

// ConstantStep returns n vectors whose components start at start and grow by
// step per vector, accumulated in float32.
func ConstantStep(n, dim int, start, step float32) [][]float32 {
	return dataset.LinearDrift(n, dim, start, step)
}

// RandomWalk returns a Gaussian random walk with per-step standard deviation
// sigma.
func RandomWalk(seed int64, n, dim int, sigma float32) [][]float32 {
	rng := dataset.NewRNG(seed)
	out := make([][]float32, n)
	noise := make([]float32, dim)
	for t := range out {
		out[t] = make([]float32, dim)
		rng.FillGaussian(noise)
		for i := range out[t] {
			if t > 0 {
				out[t][i] = out[t-1][i]
			}
			out[t][i] += sigma * noise[i]
		}
	}
	return out
}

// Gaussian returns n independent standard normal vectors.
func Gaussian(seed int64, n, dim int) [][]float32 {
	rng := dataset.NewRNG(seed)
	out := make([][]float32, n)
	for t := range out {
		out[t] = make([]float32, dim)
		rng.FillGaussian(out[t])
	}
	return out
}

// LowRank returns a smooth rank-r trajectory embedded in dim dimensions.
func LowRank(seed int64, n, dim, rank int) [][]float32 {
	return dataset.NewRNG(seed).LowRankTrajectory(n, dim, rank)
}

// MaxAbsDiff returns the largest component-wise |a-b|. Both sequences must
// have the same shape.
func MaxAbsDiff(a, b [][]float32) float64 {
	var m float64
	for t := range a {
		for i := range a[t] {
			m = math.Max(m, math.Abs(float64(a[t][i])-float64(b[t][i])))
		}
	}
	return m
}

// RequireShape fails the test unless got has n vectors of length dim.
func RequireShape(t testing.TB, got [][]float32, n, dim int) {
	t.Helper()
	require.Len(t, got, n)
	for i, v := range got {
		require.Lenf(t, v, dim, "vector %d", i)
	}
}

// RequireBitExact fails the test unless every component of got has the same
// IEEE-754 bits as want.
func RequireBitExact(t testing.TB, want, got [][]float32) {
	t.Helper()
	RequireShape(t, got, len(want), len(want[0]))
	for i := range want {
		for j := range want[i] {
			if math.Float32bits(want[i][j]) != math.Float32bits(got[i][j]) {
				require.Failf(t, "not bit-exact", "vector %d component %d: want %v (%#x), got %v (%#x)",
					i, j, want[i][j], math.Float32bits(want[i][j]), got[i][j], math.Float32bits(got[i][j]))
			}
		}
	}
}
