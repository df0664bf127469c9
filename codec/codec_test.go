package codec

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/vecpress/backend"
	"github.com/hupe1980/vecpress/format"
	"github.com/hupe1980/vecpress/quantization"
	"github.com/hupe1980/vecpress/testutil"
	"github.com/hupe1980/vecpress/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCodecs(t *testing.T) []Codec {
	t.Helper()
	codecs := make([]Codec, 0, len(Names()))
	for _, name := range Names() {
		c, err := New(name)
		require.NoError(t, err)
		require.Equal(t, name, c.Name())
		codecs = append(codecs, c)
	}
	return codecs
}

func TestCodecs_PreserveShape(t *testing.T) {
	sequences := map[string][][]float32{
		"single":     {{0.1, -0.2, 0.3}},
		"two":        {{0.1, -0.2, 0.3}, {0.2, -0.1, 0.25}},
		"walk":       testutil.RandomWalk(1, 64, 32, 0.02),
		"one-dim":    {{-2}, {-1.5}, {3}},
		"two-dim":    {{1, 0}, {0, 1}, {-1, 0}},
		"high-dim":   testutil.RandomWalk(2, 5, 768, 0.01),
		"constant":   testutil.ConstantStep(20, 4, 0.25, 0),
		"zero-start": {{0, 0, 0, 0}, {0.1, 0, 0, 0}},
	}

	for _, c := range allCodecs(t) {
		for label, seq := range sequences {
			t.Run(c.Name()+"/"+label, func(t *testing.T) {
				blob, err := c.Encode(seq)
				require.NoError(t, err)
				got, err := c.Decode(blob)
				require.NoError(t, err)
				testutil.RequireShape(t, got, len(seq), len(seq[0]))
			})
		}
	}
}

func TestLosslessCodecs_BitExact(t *testing.T) {
	special := [][]float32{
		{0, float32(math.Copysign(0, -1)), 1e-40, math.MaxFloat32, -1},
		{float32(math.Copysign(0, -1)), 0, -1e-40, -math.MaxFloat32, 1e-30},
		{0.1, 1e30, math.SmallestNonzeroFloat32, 3.3, 1e-30},
		{0.3, -1e30, 0, 3.3000002, 7},
	}
	walk := testutil.RandomWalk(7, 100, 48, 0.3)
	gaussian := testutil.Gaussian(8, 50, 16)

	for _, name := range []string{NameDelta, NameDeltaRLE, NameGzip, NameZstd, NameLZ4} {
		c, err := New(name)
		require.NoError(t, err)
		assert.True(t, c.Lossless())

		for label, seq := range map[string][][]float32{"special": special, "walk": walk, "gaussian": gaussian} {
			t.Run(name+"/"+label, func(t *testing.T) {
				blob, err := c.Encode(seq)
				require.NoError(t, err)
				got, err := c.Decode(blob)
				require.NoError(t, err)
				testutil.RequireBitExact(t, seq, got)
			})
		}
	}
}

func TestLossyCodecs_ErrorBounds(t *testing.T) {
	walk := testutil.RandomWalk(3, 200, 24, 0.05)

	t.Run("delta-ans", func(t *testing.T) {
		c := NewDeltaANS()
		assert.False(t, c.Lossless())
		blob, err := c.Encode(walk)
		require.NoError(t, err)
		got, err := c.Decode(blob)
		require.NoError(t, err)
		assert.LessOrEqual(t, testutil.MaxAbsDiff(walk, got), quantization.Int8Step/2+1e-5)
	})

	t.Run("delta-int8", func(t *testing.T) {
		c := NewDeltaInt8()
		blob, err := c.Encode(walk)
		require.NoError(t, err)
		got, err := c.Decode(blob)
		require.NoError(t, err)

		scale := math.Float32frombits(binary.LittleEndian.Uint32(blob[8:]))
		assert.Greater(t, scale, float32(0))
		assert.LessOrEqual(t, testutil.MaxAbsDiff(walk, got), float64(scale)/127+1e-5)
	})

	t.Run("attractor full projection", func(t *testing.T) {
		c := NewAttractor(WithComponents(24))
		blob, err := c.Encode(walk)
		require.NoError(t, err)
		got, err := c.Decode(blob)
		require.NoError(t, err)
		assert.LessOrEqual(t, testutil.MaxAbsDiff(walk, got), quantization.AttractorStep/2+1e-5)
	})

	t.Run("polar-delta", func(t *testing.T) {
		c := NewPolarDelta()
		blob, err := c.Encode(walk)
		require.NoError(t, err)
		got, err := c.Decode(blob)
		require.NoError(t, err)

		for i := range walk {
			var mag float64
			for _, x := range walk[i] {
				mag += float64(x) * float64(x)
			}
			mag = math.Sqrt(mag)
			// Each coordinate depends on at most dim angles, each off by at
			// most half a step.
			bound := mag*float64(len(walk[i]))*quantization.AngleStep/2 + 1e-5*math.Max(mag, 1)
			for j := range walk[i] {
				assert.InDelta(t, walk[i][j], got[i][j], bound)
			}
		}
	})

	t.Run("polar-delta one dimension keeps sign", func(t *testing.T) {
		seq := [][]float32{{-2}, {-1.5}, {3}, {-0.25}}
		c := NewPolarDelta()
		blob, err := c.Encode(seq)
		require.NoError(t, err)
		got, err := c.Decode(blob)
		require.NoError(t, err)
		for i := range seq {
			assert.InDelta(t, seq[i][0], got[i][0], 1e-6)
		}
	})

	t.Run("int8", func(t *testing.T) {
		seq := [][]float32{{-1, -0.5, 0, 0.5, 1}, {0.3, -0.7, 0.01, 0.99, -0.02}}
		c := NewInt8()
		blob, err := c.Encode(seq)
		require.NoError(t, err)
		got, err := c.Decode(blob)
		require.NoError(t, err)
		assert.LessOrEqual(t, testutil.MaxAbsDiff(seq, got), quantization.Int8Step/2+1e-6)
	})

	t.Run("sq8", func(t *testing.T) {
		seqs := map[string][][]float32{
			"walk":           walk,
			"large constant": {{1e8, .5}, {1e8, .7}, {1e8, .1}},
			"full range":     {{-math.MaxFloat32, math.MaxFloat32}, {math.MaxFloat32, math.MaxFloat32}},
		}
		for name, seq := range seqs {
			c := NewSQ8()
			blob, err := c.Encode(seq)
			require.NoError(t, err, name)
			got, err := c.Decode(blob)
			require.NoError(t, err, name)
			for j := range seq[0] {
				lo, hi := math.Inf(1), math.Inf(-1)
				for i := range seq {
					lo = math.Min(lo, float64(seq[i][j]))
					hi = math.Max(hi, float64(seq[i][j]))
				}
				for i := range seq {
					assert.InDelta(t, seq[i][j], got[i][j], (hi-lo)/510+1e-5, name)
				}
			}
		}
	})
}

func TestPolarDelta_AngleErrorBound(t *testing.T) {
	// Positive coordinates keep every angle away from the 0 and π boundaries.
	seq := make([][]float32, 64)
	for i := range seq {
		seq[i] = make([]float32, 8)
		for j := range seq[i] {
			seq[i][j] = float32(1 + 0.3*math.Sin(0.1*float64(i)+float64(j)))
		}
	}

	c := NewPolarDelta()
	blob, err := c.Encode(seq)
	require.NoError(t, err)
	got, err := c.Decode(blob)
	require.NoError(t, err)

	// float32 output adds rounding on top of the quantization step.
	bound := quantization.AngleStep/2 + 1e-6
	for i := range seq {
		wantMag, want := transform.ToPolar(seq[i])
		gotMag, angles := transform.ToPolar(got[i])
		require.Len(t, angles, len(want))
		assert.InDelta(t, wantMag, gotMag, 1e-5*wantMag)
		for k := range want {
			d := math.Abs(quantization.WrapAngle(angles[k] - want[k]))
			assert.LessOrEqual(t, d, bound, "vector %d angle %d", i, k)
		}
	}
}

func TestAttractor_UnretainedDimsDecodeToMean(t *testing.T) {
	seq := [][]float32{
		{0, 10, 1, 5},
		{0, 20, 1, 7},
		{0, 30, 1, 5},
		{0, 40, 1, 7},
	}
	c := NewAttractor(WithComponents(1))
	assert.Equal(t, 1, c.Components())

	blob, err := c.Encode(seq)
	require.NoError(t, err)
	got, err := c.Decode(blob)
	require.NoError(t, err)

	for i := range seq {
		assert.InDelta(t, seq[i][1], got[i][1], quantization.AttractorStep/2+1e-4)
		assert.InDelta(t, 6.0, got[i][3], 1e-6)
		assert.Equal(t, float32(0), got[i][0])
		assert.Equal(t, float32(1), got[i][2])
	}
}

func TestEmptyAndShortBlobs(t *testing.T) {
	for _, c := range allCodecs(t) {
		t.Run(c.Name(), func(t *testing.T) {
			blob, err := c.Encode(nil)
			require.NoError(t, err)
			assert.Empty(t, blob)

			got, err := c.Decode(nil)
			require.NoError(t, err)
			assert.Empty(t, got)

			got, err = c.Decode([]byte{1, 0, 0, 0, 1, 0, 0})
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}

	got, err := NewAttractor().Decode(make([]byte, 11))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncode_InvalidInput(t *testing.T) {
	for _, c := range allCodecs(t) {
		t.Run(c.Name(), func(t *testing.T) {
			_, err := c.Encode([][]float32{{}, {}})
			assert.ErrorIs(t, err, ErrInvalidDimension)

			_, err = c.Encode([][]float32{{1, 2}, {3}})
			var dm *DimensionMismatchError
			require.ErrorAs(t, err, &dm)
			assert.Equal(t, 1, dm.Index)
			assert.Equal(t, 2, dm.Expected)
			assert.Equal(t, 1, dm.Actual)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	seq := testutil.RandomWalk(5, 12, 6, 0.05)

	for _, c := range allCodecs(t) {
		blob, err := c.Encode(seq)
		require.NoError(t, err)

		t.Run(c.Name()+"/truncated", func(t *testing.T) {
			_, err := c.Decode(blob[:len(blob)-1])
			assert.ErrorIs(t, err, ErrMalformedBlob)
		})

		t.Run(c.Name()+"/trailing", func(t *testing.T) {
			_, err := c.Decode(append(append([]byte{}, blob...), 0))
			assert.ErrorIs(t, err, ErrMalformedBlob)
		})

		t.Run(c.Name()+"/wrong count", func(t *testing.T) {
			tampered := append([]byte{}, blob...)
			binary.LittleEndian.PutUint32(tampered, uint32(len(seq)+1))
			_, err := c.Decode(tampered)
			assert.ErrorIs(t, err, ErrMalformedBlob)
		})

		t.Run(c.Name()+"/oversized header", func(t *testing.T) {
			tampered := append([]byte{}, blob...)
			binary.LittleEndian.PutUint32(tampered, math.MaxUint32)
			_, err := c.Decode(tampered)
			var mbe *MalformedBlobError
			assert.True(t, errors.As(err, &mbe))
		})
	}
}

func TestDecode_LZ4SizePrefixTampered(t *testing.T) {
	seq := testutil.RandomWalk(5, 12, 6, 0.05)
	blob, err := NewDelta(WithBackend(backend.LZ4Backend{})).Encode(seq)
	require.NoError(t, err)

	// header, first vector, section length, then the LZ4 uncompressed size
	prefix := format.HeaderSize + 4*len(seq[0]) + 4
	require.Less(t, prefix+4, len(blob))

	tampered := append([]byte{}, blob...)
	binary.LittleEndian.PutUint32(tampered[prefix:], 0xF0000000)
	_, err = NewDelta(WithBackend(backend.LZ4Backend{})).Decode(tampered)
	var mbe *MalformedBlobError
	require.True(t, errors.As(err, &mbe))
	assert.Equal(t, "payload", mbe.Section)
}

// A constant per-step increment collapses into a handful of runs.
func TestDeltaRLE_ConstantStep(t *testing.T) {
	seq := testutil.ConstantStep(100, 10, 0.5, 0.01)

	c := NewDeltaRLE()
	blob, err := c.Encode(seq)
	require.NoError(t, err)

	runs, err := c.Runs(blob)
	require.NoError(t, err)
	assert.LessOrEqual(t, runs, 3)
	assert.GreaterOrEqual(t, runs, 1)

	got, err := c.Decode(blob)
	require.NoError(t, err)
	testutil.RequireBitExact(t, seq, got)

	original := float64(len(seq) * len(seq[0]) * 4)
	assert.Greater(t, original/float64(len(blob)), 4.0)

	delta, err := NewDelta().Encode(seq)
	require.NoError(t, err)
	rleRatio, deltaRatio := original/float64(len(blob)), original/float64(len(delta))
	assert.Greater(t, rleRatio, deltaRatio)
	t.Logf("delta-rle ratio %.1f, delta ratio %.1f", rleRatio, deltaRatio)
}

func TestDeltaANS_SmallIncrements(t *testing.T) {
	seq := testutil.ConstantStep(1000, 100, 0.5, 0.001)

	c := NewDeltaANS()
	blob, err := c.Encode(seq)
	require.NoError(t, err)

	hist, err := c.HistogramOf(blob)
	require.NoError(t, err)
	assert.LessOrEqual(t, hist.Distinct(), 3)
	assert.Equal(t, uint64(999*100), hist.Total())

	ratio := float64(1000*100*4) / float64(len(blob))
	assert.Greater(t, ratio, 10.0)

	got, err := c.Decode(blob)
	require.NoError(t, err)
	assert.LessOrEqual(t, testutil.MaxAbsDiff(seq, got), quantization.Int8Step/2+1e-5)
}

func TestAttractor_LowRank(t *testing.T) {
	seq := testutil.LowRank(11, 200, 768, 2)

	blob, err := NewAttractor().Encode(seq)
	require.NoError(t, err)

	ratio := float64(200*768*4) / float64(len(blob))
	assert.Greater(t, ratio, 5.0)
}

func TestBackends_Interchangeable(t *testing.T) {
	seq := testutil.RandomWalk(9, 30, 16, 0.1)
	for _, name := range backend.Names() {
		b, err := backend.ByName(name)
		require.NoError(t, err)
		for _, c := range []Codec{NewDelta(WithBackend(b)), NewDeltaRLE(WithBackend(b)), NewPolarDelta(WithBackend(b)), NewAttractor(WithBackend(b))} {
			blob, err := c.Encode(seq)
			require.NoError(t, err)
			got, err := c.Decode(blob)
			require.NoError(t, err, "%s/%s", c.Name(), name)
			testutil.RequireShape(t, got, 30, 16)
		}
	}

	// A blob is only readable with the backend that wrote it.
	blob, err := NewDelta(WithBackend(backend.ZstdBackend{})).Encode(seq)
	require.NoError(t, err)
	_, err = NewDelta().Decode(blob)
	assert.ErrorIs(t, err, ErrMalformedBlob)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("wavelet")
	assert.ErrorIs(t, err, ErrUnknownCodec)
	assert.Len(t, CoreNames(), 5)
}

func BenchmarkCodec_Encode(b *testing.B) {
	seq := testutil.RandomWalk(1, 1000, 768, 0.01)
	for _, name := range CoreNames() {
		c, _ := New(name)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(1000 * 768 * 4))
			for b.Loop() {
				if _, err := c.Encode(seq); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCodec_Decode(b *testing.B) {
	seq := testutil.RandomWalk(1, 1000, 768, 0.01)
	for _, name := range CoreNames() {
		c, _ := New(name)
		blob, err := c.Encode(seq)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(blob)))
			for b.Loop() {
				if _, err := c.Decode(blob); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
