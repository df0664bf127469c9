package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/hupe1980/vecpress/quantization"
	"github.com/hupe1980/vecpress/transform"
)

// DeltaBounds are the |Δ| bucket edges of DeltaDistribution.
var DeltaBounds = []float64{0, 0.001, 0.01, 0.05, 0.1, 0.5, 1, math.Inf(1)}

// AngleBounds are the |Δθ| bucket edges of AngularDistribution.
var AngleBounds = []float64{0, 0.001, 0.01, 0.1, 0.5, 1, 2, math.Pi}

// Bucket counts deltas with magnitude in [Lo, Hi).
type Bucket struct {
	Lo, Hi  float64
	Count   int
	Percent float64
}

// DeltaStats summarizes a delta distribution.
type DeltaStats struct {
	Count   int
	Mean    float64 // signed
	MeanAbs float64
	Median  float64 // of |Δ|
	P95     float64 // of |Δ|
	Max     float64 // of |Δ|
	Buckets []Bucket
}

// DeltaDistribution summarizes the element-wise deltas between consecutive
// vectors.
func DeltaDistribution(vectors [][]float32) DeltaStats {
	var signed []float64
	for _, d := range transform.Deltas(vectors) {
		for _, v := range d {
			signed = append(signed, float64(v))
		}
	}
	return summarize(signed, DeltaBounds)
}

// AngularDistribution summarizes the wrapped hyperspherical angle deltas
// between consecutive vectors.
func AngularDistribution(vectors [][]float32) DeltaStats {
	if len(vectors) < 2 {
		return summarize(nil, AngleBounds)
	}

	_, prev := transform.ToPolar(vectors[0])
	signed := make([]float64, 0, (len(vectors)-1)*len(prev))
	for _, v := range vectors[1:] {
		_, cur := transform.ToPolar(v)
		for j := range cur {
			signed = append(signed, quantization.WrapAngle(cur[j]-prev[j]))
		}
		prev = cur
	}
	return summarize(signed, AngleBounds)
}

func summarize(signed []float64, bounds []float64) DeltaStats {
	s := DeltaStats{Count: len(signed), Buckets: make([]Bucket, len(bounds)-1)}
	for i := range s.Buckets {
		s.Buckets[i] = Bucket{Lo: bounds[i], Hi: bounds[i+1]}
	}
	if len(signed) == 0 {
		return s
	}

	mags := make([]float64, len(signed))
	for i, d := range signed {
		mags[i] = math.Abs(d)
	}
	slices.Sort(mags)

	s.Mean = stat.Mean(signed, nil)
	s.MeanAbs = stat.Mean(mags, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, mags, nil)
	s.P95 = stat.Quantile(0.95, stat.Empirical, mags, nil)
	s.Max = mags[len(mags)-1]

	for _, m := range mags {
		for i := range s.Buckets {
			if m >= s.Buckets[i].Lo && m < s.Buckets[i].Hi {
				s.Buckets[i].Count++
				break
			}
		}
	}
	for i := range s.Buckets {
		s.Buckets[i].Percent = 100 * float64(s.Buckets[i].Count) / float64(len(mags))
	}
	return s
}

// EntropyStats describes the int8-quantized delta alphabet.
type EntropyStats struct {
	Symbols          int
	Unique           int
	Bits             float64 // Shannon entropy, bits per symbol
	Potential        float64 // 8 / Bits
	TheoreticalBytes int
}

// QuantizedEntropy quantizes every delta with step 1/127 and returns the
// Shannon entropy of the resulting symbols. This is the open-loop estimate
// of what an order-0 entropy coder can achieve on the delta stream.
func QuantizedEntropy(vectors [][]float32) EntropyStats {
	var counts [256]float64
	total := 0
	for _, d := range transform.Deltas(vectors) {
		for _, v := range d {
			q := quantization.Quantize(float64(v), quantization.Int8Step, 8)
			counts[q+128]++
			total++
		}
	}

	e := EntropyStats{Symbols: total}
	if total == 0 {
		return e
	}

	p := make([]float64, 0, len(counts))
	for _, c := range counts {
		if c > 0 {
			p = append(p, c/float64(total))
			e.Unique++
		}
	}

	e.Bits = stat.Entropy(p) / math.Ln2
	if e.Bits > 0 {
		e.Potential = 8 / e.Bits
	} else {
		e.Potential = math.Inf(1)
	}
	e.TheoreticalBytes = int(e.Bits / 8 * float64(total))
	return e
}
