package bench

import "github.com/hupe1980/vecpress/codec"

// Thresholds of the delta-encoding hypothesis: sequences with consecutive
// similarity of at least HighSimilarity should compress TargetRatio× or
// better with lossless delta encoding.
const (
	HighSimilarity = 0.90
	TargetRatio    = 8.0
	ControlRatio   = 2.0
)

// Verdict classifies a dataset against the delta-encoding hypothesis.
type Verdict string

const (
	// Validated: high similarity and delta reached the target ratio.
	Validated Verdict = "validated"
	// Refuted: high similarity but delta stayed below the target ratio.
	Refuted Verdict = "refuted"
	// ControlCorrect: low similarity and delta barely compressed.
	ControlCorrect Verdict = "control-correct"
	// BetterThanExpected: low similarity yet delta compressed well.
	BetterThanExpected Verdict = "better-than-expected"
	// Inconclusive: the delta method did not produce a result.
	Inconclusive Verdict = "inconclusive"
)

// Classify returns the verdict for a consecutive similarity and the ratio
// achieved by lossless delta encoding.
func Classify(similarity, deltaRatio float64) Verdict {
	switch {
	case similarity >= HighSimilarity && deltaRatio >= TargetRatio:
		return Validated
	case similarity >= HighSimilarity:
		return Refuted
	case deltaRatio < ControlRatio:
		return ControlCorrect
	default:
		return BetterThanExpected
	}
}

// classify sets the verdict and best methods of d.
func (d *DatasetReport) classify() {
	d.Verdict = Inconclusive
	if r, ok := d.Result(codec.NameDelta); ok && !r.Failed() {
		d.Verdict = Classify(d.ConsecutiveSimilarity, r.Ratio)
	}
	d.Best = BestMethod(d.Results, false)
	d.BestLossless = BestMethod(d.Results, true)
}

// BestMethod returns the method with the highest ratio among successful
// results, restricted to lossless methods if requested. Ties keep the first.
func BestMethod(results []Result, losslessOnly bool) string {
	best, bestRatio := "", 0.0
	for _, r := range results {
		if r.Failed() || (losslessOnly && !r.Lossless) {
			continue
		}
		if r.Ratio > bestRatio {
			best, bestRatio = r.Method, r.Ratio
		}
	}
	return best
}
