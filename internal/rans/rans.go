// Package rans implements a byte-oriented range asymmetric numeral system coder
// driven by an externally supplied symbol histogram.
//
// Symbols are pushed in reverse and the output is reversed on completion, so
// Decode yields them in the original forward order.
package rans

import (
	"errors"
	"math"
)

const (
	// ScaleBits is log2 of the total quantized frequency.
	ScaleBits = 14
	// Alphabet is the number of distinct symbols.
	Alphabet = 256

	probScale  = 1 << ScaleBits
	lowerBound = 1 << 23

	// probabilityFloor is assigned to symbols absent from the histogram
	// before normalization.
	probabilityFloor = 1e-10

	stateBytes = 4
)

var (
	// ErrEmptyHistogram is returned when every count is zero.
	ErrEmptyHistogram = errors.New("rans: empty histogram")
	// ErrTruncated is returned when the stream ends before all symbols decode.
	ErrTruncated = errors.New("rans: truncated stream")
	// ErrFinalState is returned when decoding does not end in the initial state.
	ErrFinalState = errors.New("rans: invalid final state")
	// ErrTrailingBytes is returned when bytes remain after the last symbol.
	ErrTrailingBytes = errors.New("rans: trailing bytes")
)

// Model holds quantized symbol frequencies summing to 1<<ScaleBits.
type Model struct {
	freq   [Alphabet]uint32
	cum    [Alphabet + 1]uint32
	lookup [probScale]uint8
}

// NewModel builds a model from per-symbol counts (index = symbol). Missing
// trailing entries count as zero.
func NewModel(counts []uint64) (*Model, error) {
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return nil, ErrEmptyHistogram
	}

	var probs [Alphabet]float64
	var sum float64
	for s := range probs {
		p := probabilityFloor
		if s < len(counts) && counts[s] > 0 {
			p = float64(counts[s]) / total
		}
		probs[s] = p
		sum += p
	}

	m := &Model{}
	var assigned int64
	for s, p := range probs {
		f := int64(math.Round(p / sum * probScale))
		if f < 1 {
			f = 1
		}
		m.freq[s] = uint32(f)
		assigned += f
	}
	m.fixTotal(assigned)

	for s := range Alphabet {
		m.cum[s+1] = m.cum[s] + m.freq[s]
		for slot := m.cum[s]; slot < m.cum[s+1]; slot++ {
			m.lookup[slot] = uint8(s)
		}
	}

	return m, nil
}

// fixTotal adjusts frequencies so they sum to exactly probScale.
func (m *Model) fixTotal(assigned int64) {
	diff := probScale - assigned
	if diff > 0 {
		m.freq[m.largest()] += uint32(diff)
		return
	}
	for diff < 0 {
		s := m.largest()
		take := min(-diff, int64(m.freq[s]-1))
		m.freq[s] -= uint32(take)
		diff += take
	}
}

// largest returns the symbol with the highest frequency, lowest index first.
func (m *Model) largest() int {
	best := 0
	for s := 1; s < Alphabet; s++ {
		if m.freq[s] > m.freq[best] {
			best = s
		}
	}
	return best
}

// Freq returns the quantized frequency of s.
func (m *Model) Freq(s uint8) uint32 { return m.freq[s] }

// Encode compresses symbols.
func (m *Model) Encode(symbols []uint8) []byte {
	out := make([]byte, 0, len(symbols)/2+stateBytes)
	x := uint32(lowerBound)

	for i := len(symbols) - 1; i >= 0; i-- {
		s := symbols[i]
		f, c := m.freq[s], m.cum[s]
		xmax := ((lowerBound >> ScaleBits) << 8) * f
		for x >= xmax {
			out = append(out, byte(x))
			x >>= 8
		}
		x = ((x / f) << ScaleBits) + (x % f) + c
	}

	out = append(out, byte(x), byte(x>>8), byte(x>>16), byte(x>>24))
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Decode reads exactly count symbols from data. The stream must end in the
// encoder's initial state with no bytes left over.
func (m *Model) Decode(data []byte, count int) ([]uint8, error) {
	if len(data) < stateBytes {
		return nil, ErrTruncated
	}
	x := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	pos := stateBytes

	out := make([]uint8, count)
	for i := range out {
		slot := x & (probScale - 1)
		s := m.lookup[slot]
		out[i] = s
		x = m.freq[s]*(x>>ScaleBits) + slot - m.cum[s]
		for x < lowerBound {
			if pos >= len(data) {
				return nil, ErrTruncated
			}
			x = x<<8 | uint32(data[pos])
			pos++
		}
	}

	if x != lowerBound {
		return nil, ErrFinalState
	}
	if pos != len(data) {
		return nil, ErrTrailingBytes
	}
	return out, nil
}
