package dataset

import (
	"errors"
	"fmt"
)

// ErrUnknownDataset is returned by ByName for unregistered names.
var ErrUnknownDataset = errors.New("unknown dataset")

// Generator produces a sequence of n vectors of length dim.
type Generator func(r *RNG, n, dim int) [][]float32

// Spec names a generator with its experiment parameters bound.
type Spec struct {
	Name     string
	Label    string
	Generate Generator
}

var specs = []Spec{
	{
		Name:  "similar",
		Label: "Random Similar (baseline)",
		Generate: func(r *RNG, n, dim int) [][]float32 {
			return r.Similar(n, dim, 0.8)
		},
	},
	{
		Name:  "drift",
		Label: "Conversational Drift (5%)",
		Generate: func(r *RNG, n, dim int) [][]float32 {
			return r.ConversationalDrift(n, dim, 0.05)
		},
	},
	{
		Name:  "smoothing",
		Label: "Temporal Smoothing (alpha 0.9)",
		Generate: func(r *RNG, n, dim int) [][]float32 {
			return r.TemporalSmoothing(n, dim, 0.9)
		},
	},
	{
		Name:  "clustered",
		Label: "Clustered Topics (100 per cluster)",
		Generate: func(r *RNG, n, dim int) [][]float32 {
			return r.ClusteredTopics(n, dim, 100)
		},
	},
	{
		Name:  "low-rank",
		Label: "Low-Rank Trajectory (rank 2)",
		Generate: func(r *RNG, n, dim int) [][]float32 {
			return r.LowRankTrajectory(n, dim, 2)
		},
	},
	{
		Name:  "linear",
		Label: "Linear Drift (+0.001)",
		Generate: func(_ *RNG, n, dim int) [][]float32 {
			return LinearDrift(n, dim, 0.5, 0.001)
		},
	},
}

// Standard returns the four datasets of the reference experiment.
func Standard() []Spec {
	return append([]Spec(nil), specs[:4]...)
}

// All returns every registered dataset.
func All() []Spec {
	return append([]Spec(nil), specs...)
}

// Names lists every registered dataset name.
func Names() []string {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// ByName returns the dataset registered under name.
func ByName(name string) (Spec, error) {
	for _, s := range specs {
		if s.Name == name {
			return s, nil
		}
	}
	return Spec{}, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
}
