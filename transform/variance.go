package transform

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// ColumnStats returns the per-dimension mean and variance of vectors.
func ColumnStats(vectors [][]float32) (mean, variance []float64) {
	if len(vectors) == 0 {
		return nil, nil
	}
	dim := len(vectors[0])
	mean = make([]float64, dim)
	variance = make([]float64, dim)

	col := make([]float64, len(vectors))
	for d := range dim {
		for t, v := range vectors {
			col[t] = float64(v[d])
		}
		if len(col) < 2 {
			mean[d] = col[0]
			continue
		}
		mean[d], variance[d] = stat.MeanVariance(col, nil)
	}
	return mean, variance
}

// TopVarianceDims returns the indices of the k highest-variance dimensions,
// ordered by descending variance with ties broken by ascending index.
func TopVarianceDims(variance []float64, k int) []int {
	k = min(k, len(variance))
	if k <= 0 {
		return nil
	}

	idx := make([]int, len(variance))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int {
		if c := cmp.Compare(variance[b], variance[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	return idx[:k]
}

// RetainedVariance returns the share of total variance captured by dims.
func RetainedVariance(variance []float64, dims []int) float64 {
	var total, kept float64
	for _, v := range variance {
		total += v
	}
	if total == 0 {
		return 1
	}
	for _, d := range dims {
		kept += variance[d]
	}
	return kept / total
}
