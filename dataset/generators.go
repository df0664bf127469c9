package dataset

import "math"

// Similar draws one uniform base vector and emits n noisy copies of it. Each
// component keeps base+U(0,0.1) with probability similarity and is replaced by
// a fresh U(0,1) draw otherwise. Consecutive vectors are only correlated
// through the shared base, which makes this the control dataset.
func (r *RNG) Similar(n, dim int, similarity float64) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	base := make([]float32, dim)
	r.fillUniformLocked(base)

	vectors := allocate(n, dim)
	for _, v := range vectors {
		for i := range v {
			if r.rand.Float64() < similarity {
				v[i] = base[i] + r.rand.Float32()*0.1
			} else {
				v[i] = r.rand.Float32()
			}
		}
	}
	return vectors
}

// blend emits a normalized chain where next = current*keep + U(0,1)*(1-keep).
func (r *RNG) blend(n, dim int, keep float32) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := allocate(n, dim)
	if n == 0 {
		return vectors
	}
	r.fillUniformLocked(vectors[0])
	Normalize(vectors[0])

	noise := make([]float32, dim)
	for t := 1; t < n; t++ {
		r.fillUniformLocked(noise)
		prev, cur := vectors[t-1], vectors[t]
		for i := range cur {
			cur[i] = prev[i]*keep + noise[i]*(1-keep)
		}
		Normalize(cur)
	}
	return vectors
}

// ConversationalDrift models a conversation whose topic drifts by rate per
// turn: each vector mixes the previous one with uniform noise and is
// normalized.
func (r *RNG) ConversationalDrift(n, dim int, rate float64) [][]float32 {
	return r.blend(n, dim, float32(1-rate))
}

// TemporalSmoothing is an exponential moving average over uniform noise with
// smoothing factor alpha.
func (r *RNG) TemporalSmoothing(n, dim int, alpha float64) [][]float32 {
	return r.blend(n, dim, float32(alpha))
}

// ClusteredTopics switches to a new random topic centre every clusterSize
// vectors. Vectors are 98% centre and 2% noise, normalized.
func (r *RNG) ClusteredTopics(n, dim, clusterSize int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	clusterSize = max(clusterSize, 1)
	numClusters := (n + clusterSize - 1) / clusterSize
	centers := allocate(numClusters, dim)
	for _, c := range centers {
		r.fillUniformLocked(c)
		Normalize(c)
	}

	vectors := allocate(n, dim)
	noise := make([]float32, dim)
	for t, v := range vectors {
		center := centers[t/clusterSize]
		r.fillUniformLocked(noise)
		for i := range v {
			v[i] = center[i]*0.98 + noise[i]*0.02
		}
		Normalize(v)
	}
	return vectors
}

// LowRankTrajectory moves along a smooth closed curve inside a random
// rank-dimensional subspace of R^dim. Latent coordinate j follows
// cos(omega_j*t + phase_j) and the subspace basis is Gaussian.
func (r *RNG) LowRankTrajectory(n, dim, rank int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	rank = max(1, min(rank, dim))
	basis := allocate(rank, dim)
	for _, b := range basis {
		for i := range b {
			b[i] = float32(r.rand.NormFloat64() / math.Sqrt(float64(rank)))
		}
	}
	omega := make([]float64, rank)
	phase := make([]float64, rank)
	for j := range omega {
		omega[j] = 0.01 + 0.04*r.rand.Float64()
		phase[j] = 2 * math.Pi * r.rand.Float64()
	}

	vectors := allocate(n, dim)
	for t, v := range vectors {
		for j, b := range basis {
			z := float32(math.Cos(omega[j]*float64(t) + phase[j]))
			for i := range v {
				v[i] += z * b[i]
			}
		}
	}
	return vectors
}

// LinearDrift starts every component at start and adds step in float32 at
// each vector, the most compressible sequence there is.
func LinearDrift(n, dim int, start, step float32) [][]float32 {
	vectors := allocate(n, dim)
	for t, v := range vectors {
		for i := range v {
			if t == 0 {
				v[i] = start
			} else {
				v[i] = vectors[t-1][i] + step
			}
		}
	}
	return vectors
}
