package pdm

import (
	"math"
	"testing"
)

func TestGeneratePacksMSBFirst(t *testing.T) {
	step := func(i, n int) float64 {
		if i < 16 {
			return 1
		}
		return -1
	}
	bs, err := Generate(32, step)
	if err != nil {
		t.Fatal(err)
	}
	if bs[0] != 0xffff0000 {
		t.Fatalf("got %#08x, want 0xffff0000", bs[0])
	}
	if !bs.Bit(0) || bs.Bit(31) {
		t.Fatal("Bit does not follow playback order")
	}
}

func TestGenerateHalfScale(t *testing.T) {
	half := func(i, n int) float64 { return 0.5 }
	bs, err := Generate(64, half)
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range bs {
		if w != 0xbbbbbbbb {
			t.Errorf("word %d: got %#08x, want 0xbbbbbbbb", i, w)
		}
	}
}

func TestGenerateDepth(t *testing.T) {
	for _, n := range []int{0, -32, 31, 48} {
		if _, err := Generate(n, Cosine); err == nil {
			t.Errorf("depth %d: expected error", n)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(DefaultBits, Cosine)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Generate(DefaultBits, Cosine)
	if len(a) != DefaultBits/32 {
		t.Fatalf("got %d words", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("word %d differs: %#08x != %#08x", i, a[i], b[i])
		}
	}
}

func TestCosineStartsSilent(t *testing.T) {
	bs, err := Generate(DefaultBits, Cosine)
	if err != nil {
		t.Fatal(err)
	}
	// Trough at the start, crest half way through.
	if bs[0] != 0 {
		t.Errorf("first word %#08x, want 0", bs[0])
	}
	if ones := bs.Ones(DefaultBits/2, DefaultBits/2+32); ones < 31 {
		t.Errorf("crest word has %d ones, want at least 31", ones)
	}
}

func TestDensityTracksWaveform(t *testing.T) {
	const n, window = 4096, 64
	for name, wave := range map[string]Waveform{"cosine": Cosine, "cosine8": Cosine8} {
		bs, err := Generate(n, wave)
		if err != nil {
			t.Fatal(err)
		}
		got := Decimate(bs, window)
		if len(got) != n/window {
			t.Fatalf("%s: got %d windows", name, len(got))
		}
		for k, v := range got {
			var want float64
			for i := k * window; i < (k+1)*window; i++ {
				want += wave(i, n)
			}
			want /= window
			if math.Abs(v-want) > 0.1 {
				t.Errorf("%s window %d: density %.3f, waveform mean %.3f", name, k, v, want)
			}
		}
	}
}

func TestTablesPick(t *testing.T) {
	tb, err := NewTables(1024, false)
	if err != nil {
		t.Fatal(err)
	}
	if tb.Wide != nil {
		t.Fatal("wide table generated when not requested")
	}
	if b, ok := tb.Pick(true); ok || b != nil {
		t.Error("missing wide table reported as present")
	}

	tb, err = NewTables(1024, true)
	if err != nil {
		t.Fatal(err)
	}
	wide, okWide := tb.Pick(true)
	narrow, okNarrow := tb.Pick(false)
	if !okWide || !okNarrow || &wide[0] != &tb.Wide[0] || &narrow[0] != &tb.Narrow[0] {
		t.Error("Pick returned the wrong table")
	}
}
