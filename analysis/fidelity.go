package analysis

import "math"

const normEpsilon = 1e-10

// ConsecutiveSimilarity returns the mean cosine similarity of each vector
// with its predecessor. Pairs involving a zero vector contribute 0.
func ConsecutiveSimilarity(vectors [][]float32) float64 {
	if len(vectors) < 2 {
		return 0
	}

	var sum float64
	for i := 1; i < len(vectors); i++ {
		a, b := vectors[i-1], vectors[i]

		var dot, na, nb float64
		for j := range a {
			x, y := float64(a[j]), float64(b[j])
			dot += x * y
			na += x * x
			nb += y * y
		}
		if na > normEpsilon && nb > normEpsilon {
			sum += dot / (math.Sqrt(na) * math.Sqrt(nb))
		}
	}
	return sum / float64(len(vectors)-1)
}

// AccuracyLoss returns the mean relative error in percent:
// 100 · mean(|o−d| / max(|o|, 1e-10)).
func AccuracyLoss(original, decoded [][]float32) float64 {
	var total float64
	count := 0
	for i := range min(len(original), len(decoded)) {
		o, d := original[i], decoded[i]
		for j := range min(len(o), len(d)) {
			ov := float64(o[j])
			total += math.Abs(ov-float64(d[j])) / math.Max(math.Abs(ov), normEpsilon)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count) * 100
}

// MaxAbsError returns the largest element-wise absolute difference.
func MaxAbsError(original, decoded [][]float32) float64 {
	var worst float64
	for i := range min(len(original), len(decoded)) {
		o, d := original[i], decoded[i]
		for j := range min(len(o), len(d)) {
			worst = math.Max(worst, math.Abs(float64(o[j])-float64(d[j])))
		}
	}
	return worst
}
