package rans

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func histogram(symbols []uint8) []uint64 {
	counts := make([]uint64, Alphabet)
	for _, s := range symbols {
		counts[s]++
	}
	return counts
}

func ones(n int) []uint64 {
	c := make([]uint64, n)
	for i := range c {
		c[i] = 1
	}
	return c
}

func TestModel_FrequenciesSumToScale(t *testing.T) {
	cases := map[string][]uint64{
		"single":  {0: 0, 1: 1000},
		"uniform": ones(Alphabet),
		"skewed":  {5, 1, 0, 0, 9000, 3},
	}
	for name, counts := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := NewModel(counts)
			require.NoError(t, err)
			var sum uint32
			for s := range Alphabet {
				f := m.Freq(uint8(s))
				assert.GreaterOrEqual(t, f, uint32(1))
				sum += f
			}
			assert.Equal(t, uint32(probScale), sum)
		})
	}
}

func TestModel_EmptyHistogram(t *testing.T) {
	_, err := NewModel(make([]uint64, Alphabet))
	assert.ErrorIs(t, err, ErrEmptyHistogram)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	skewed := make([]uint8, 20000)
	for i := range skewed {
		// Geometric-ish distribution around 128.
		skewed[i] = uint8(128 + int(rng.NormFloat64()*3))
	}

	uniform := make([]uint8, 5000)
	for i := range uniform {
		uniform[i] = uint8(rng.Intn(256))
	}

	constant := make([]uint8, 10000)
	for i := range constant {
		constant[i] = 129
	}

	for name, symbols := range map[string][]uint8{
		"skewed":   skewed,
		"uniform":  uniform,
		"constant": constant,
		"one":      {200},
	} {
		t.Run(name, func(t *testing.T) {
			m, err := NewModel(histogram(symbols))
			require.NoError(t, err)

			enc := m.Encode(symbols)
			dec, err := m.Decode(enc, len(symbols))
			require.NoError(t, err)
			assert.Equal(t, symbols, dec)
		})
	}
}

func TestCompressesSkewedInput(t *testing.T) {
	symbols := make([]uint8, 100000)
	for i := range symbols {
		if i%10 == 0 {
			symbols[i] = 129
		} else {
			symbols[i] = 128
		}
	}
	m, err := NewModel(histogram(symbols))
	require.NoError(t, err)

	enc := m.Encode(symbols)
	// Entropy is ~0.47 bits/symbol.
	assert.Less(t, len(enc), len(symbols)/12)
}

func TestDecode_Corrupt(t *testing.T) {
	symbols := []uint8{1, 2, 3, 3, 3, 3, 2, 1}
	m, err := NewModel(histogram(symbols))
	require.NoError(t, err)
	enc := m.Encode(symbols)

	t.Run("too short", func(t *testing.T) {
		_, err := m.Decode(enc[:2], len(symbols))
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := m.Decode(append(append([]byte{}, enc...), 0), len(symbols))
		assert.Error(t, err)
	})

	t.Run("wrong count", func(t *testing.T) {
		_, err := m.Decode(enc, len(symbols)+50)
		assert.Error(t, err)
	})
}
