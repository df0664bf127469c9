package analysis

import (
	"errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/vecpress/transform"
)

// ErrEigenDecomposition is returned when the covariance matrix cannot be
// factorized.
var ErrEigenDecomposition = errors.New("eigen decomposition failed")

// PCAExplainedVariance returns the share of total variance carried by the k
// leading principal components of vectors. A constant sequence returns 1.
func PCAExplainedVariance(vectors [][]float32, k int) (float64, error) {
	if len(vectors) < 2 || k <= 0 {
		return 0, nil
	}

	n, dim := len(vectors), len(vectors[0])
	data := mat.NewDense(n, dim, nil)
	for i, v := range vectors {
		for j, x := range v {
			data.Set(i, j, float64(x))
		}
	}

	cov := mat.NewSymDense(dim, nil)
	stat.CovarianceMatrix(cov, data, nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, false); !ok {
		return 0, ErrEigenDecomposition
	}

	// Ascending order.
	values := eig.Values(nil)

	var total, kept float64
	for i, v := range values {
		v = max(v, 0)
		total += v
		if i >= len(values)-k {
			kept += v
		}
	}
	if total == 0 {
		return 1, nil
	}
	return kept / total, nil
}

// GreedyRetainedVariance returns the share of total variance kept by the k
// highest-variance coordinate axes, which is what the attractor codec stores.
func GreedyRetainedVariance(vectors [][]float32, k int) float64 {
	_, variance := transform.ColumnStats(vectors)
	return transform.RetainedVariance(variance, transform.TopVarianceDims(variance, k))
}
