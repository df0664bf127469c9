package format

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReader(t *testing.T) {
	w := NewWriter(0)
	w.Header(Header{N: 3, Dim: 2})
	w.Float32s([]float32{1.5, float32(math.Copysign(0, -1))})
	w.Int16(-32767)
	w.Int8(-128)
	w.Section([]byte("abc"))

	r := NewReader(w.Bytes())
	h, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, Header{N: 3, Dim: 2}, h)
	assert.Equal(t, 6, h.Elements())

	fs, err := r.Float32s("anchor", 2)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), fs[0])
	assert.True(t, math.Signbit(float64(fs[1])))

	i16, err := r.Int16("i16")
	require.NoError(t, err)
	assert.Equal(t, int16(-32767), i16)

	i8, err := r.Int8("i8")
	require.NoError(t, err)
	assert.Equal(t, int8(-128), i8)

	sec, err := r.Section("payload")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(sec))
	require.NoError(t, r.Done("end"))
}

func TestReader_Bounds(t *testing.T) {
	t.Run("short read", func(t *testing.T) {
		r := NewReader([]byte{1, 2, 3})
		_, err := r.Uint32("field")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedBlob))

		var mbe *MalformedBlobError
		require.ErrorAs(t, err, &mbe)
		assert.Equal(t, "field", mbe.Section)
		assert.Equal(t, 4, mbe.Need)
		assert.Equal(t, 3, mbe.Have)
	})

	t.Run("section longer than blob", func(t *testing.T) {
		w := NewWriter(0)
		w.Uint32(100)
		w.Raw([]byte{1, 2})
		_, err := NewReader(w.Bytes()).Section("payload")
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})

	t.Run("element limit", func(t *testing.T) {
		w := NewWriter(0)
		w.Header(Header{N: 1 << 20, Dim: 1 << 10})
		_, err := NewReader(w.Bytes()).Header()
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})

	t.Run("zero dimension", func(t *testing.T) {
		w := NewWriter(0)
		w.Header(Header{N: 1, Dim: 0})
		_, err := NewReader(w.Bytes()).Header()
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		r := NewReader([]byte{0})
		assert.ErrorIs(t, r.Done("end"), ErrMalformedBlob)
	})
}
