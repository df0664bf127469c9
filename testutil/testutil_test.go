package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantStep(t *testing.T) {
	v := ConstantStep(4, 3, 1, 0.5)
	RequireShape(t, v, 4, 3)
	assert.Equal(t, float32(2.5), v[3][2])
}

func TestRandomWalk(t *testing.T) {
	v := RandomWalk(4711, 10, 8, 0.01)
	RequireShape(t, v, 10, 8)
	assert.Less(t, MaxAbsDiff(v[:9], v[1:]), 0.1)
}

func TestGaussian(t *testing.T) {
	a := Gaussian(1, 3, 4)
	b := Gaussian(1, 3, 4)
	RequireBitExact(t, a, b)
}

func TestMaxAbsDiff(t *testing.T) {
	a := [][]float32{{1, 2}, {3, 4}}
	b := [][]float32{{1, 2.5}, {2, 4}}
	assert.InDelta(t, 1.0, MaxAbsDiff(a, b), 1e-9)
	assert.False(t, math.IsNaN(MaxAbsDiff(a, a)))
}
