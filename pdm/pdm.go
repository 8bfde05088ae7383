// Package pdm builds the pulse-density modulated carrier that the PIO state
// machine shifts out. A table holds whole carrier periods so it can be
// replayed back to back without a seam.
package pdm

import (
	"errors"
	"math"
)

const (
	// DefaultBits is the modulation depth: number of bits in one table.
	DefaultBits = 1 << 14
	// WideFactor is the number of carrier periods held by a wide table.
	WideFactor = 8
)

var errDepth = errors.New("pdm:depth must be a positive multiple of 32")

// Waveform maps a sample index in [0, n) to an amplitude in [-1, 1].
type Waveform func(i, n int) float64

// Cosine is one inverted cosine period. It starts at its most negative
// value so the output ramps up from silence instead of clicking.
func Cosine(i, n int) float64 {
	return -math.Cos(2 * math.Pi * float64(i) / float64(n))
}

// Cosine8 is Cosine with the sample index pre-multiplied by WideFactor.
func Cosine8(i, n int) float64 {
	return Cosine(i*WideFactor, n)
}

// Bitstream is a packed PDM table, MSB first within each word.
type Bitstream []uint32

// Len returns the number of bits in b.
func (b Bitstream) Len() int { return len(b) * 32 }

// Bit reports whether bit i (in playback order) is set.
func (b Bitstream) Bit(i int) bool {
	return b[i/32]&(1<<(31-uint(i%32))) != 0
}

// Ones counts the set bits in [from, to).
func (b Bitstream) Ones(from, to int) int {
	n := 0
	for i := from; i < to; i++ {
		if b.Bit(i) {
			n++
		}
	}
	return n
}

// Generate runs a first-order delta-sigma modulator over n samples of wave.
// The output is a pure function of its inputs.
func Generate(n int, wave Waveform) (Bitstream, error) {
	if n <= 0 || n%32 != 0 {
		return nil, errDepth
	}
	out := make(Bitstream, n/32)
	var qe float64
	var word uint32
	for i := 0; i < n; i++ {
		qe += wave(i, n)
		word <<= 1
		if qe > 0 {
			word |= 1
			qe -= 1
		} else {
			qe += 1
		}
		if i%32 == 31 {
			out[i/32] = word
			word = 0
		}
	}
	return out, nil
}

// Tables is the pair of carrier tables the audio worker chooses from.
// Wide is nil when the 8x scheme is not in use.
type Tables struct {
	Narrow Bitstream
	Wide   Bitstream
}

// NewTables generates the narrow table and, if wide is set, the 8x table.
func NewTables(bits int, wide bool) (Tables, error) {
	var t Tables
	var err error
	t.Narrow, err = Generate(bits, Cosine)
	if err != nil {
		return t, err
	}
	if wide {
		t.Wide, err = Generate(bits, Cosine8)
	}
	return t, err
}

// Pick returns the wide or the narrow table. It reports false when the
// requested table was not generated.
func (t Tables) Pick(wide bool) (Bitstream, bool) {
	b := t.Narrow
	if wide {
		b = t.Wide
	}
	return b, b != nil
}

// Decimate averages b in windows of size bits and maps each window's pulse
// density back to an amplitude in [-1, 1]. A trailing partial window is
// dropped.
func Decimate(b Bitstream, size int) []float64 {
	if size <= 0 {
		return nil
	}
	out := make([]float64, 0, b.Len()/size)
	for from := 0; from+size <= b.Len(); from += size {
		ones := b.Ones(from, from+size)
		out = append(out, 2*float64(ones)/float64(size)-1)
	}
	return out
}
