package tone

import (
	"errors"
	"strconv"

	"github.com/harveysanders/subtone/pdm"
)

// DefaultBitClock is the RP2040 system clock feeding the PIO block.
const DefaultBitClock = 125_000_000

var errDividerRange = errors.New("tone:divider outside state machine range")

// Divider is an unsigned 24.8 fixed point clock divider.
type Divider uint32

// DividerFromFloat truncates x to 8 fractional bits.
func DividerFromFloat(x float32) Divider {
	return Divider(x * 256)
}

// Whole returns the integer part.
func (d Divider) Whole() uint32 { return uint32(d) >> 8 }

// Frac returns the fractional part in 1/256ths.
func (d Divider) Frac() uint8 { return uint8(d) }

func (d Divider) Float() float32 { return float32(d) / 256 }

func (d Divider) String() string {
	return strconv.FormatFloat(float64(d.Float()), 'f', 4, 32)
}

// Planner turns a frequency into the table and divider that play it.
type Planner struct {
	// BitClock is the state machine input clock in Hz.
	BitClock float32
	// Bits is the modulation depth, the number of bits in one table.
	Bits int
	// WideAbove selects the 8x table for frequencies above it.
	// Zero disables the 8x table.
	WideAbove float32
}

// DefaultPlanner matches the default PDM tables on a 125 MHz system clock.
func DefaultPlanner() Planner {
	return Planner{BitClock: DefaultBitClock, Bits: pdm.DefaultBits}
}

// Base is the divider that plays the narrow table at 1 Hz.
func (p Planner) Base() float32 {
	return p.BitClock / float32(p.Bits)
}

// Divider returns Base/freq. freq must be positive.
func (p Planner) Divider(freq float32) Divider {
	if freq <= 0 {
		panic("tone: non-positive frequency")
	}
	return DividerFromFloat(p.Base() / freq)
}

// Plan is a table choice together with the divider that goes with it. The
// two are always decided together so a divider is never applied to the
// other table.
type Plan struct {
	Wide    bool
	Divider Divider
}

// Plan decides table and divider for freq in a single step.
func (p Planner) Plan(freq float32) (Plan, error) {
	if freq <= 0 {
		panic("tone: non-positive frequency")
	}
	base := p.Base()
	wide := p.WideAbove > 0 && freq > p.WideAbove
	if wide {
		// A wide table holds WideFactor periods, so it is played that much slower.
		base *= pdm.WideFactor
	}
	d := DividerFromFloat(base / freq)
	if d.Whole() < 1 || d.Whole() > 0xffff {
		return Plan{}, errDividerRange
	}
	return Plan{Wide: wide, Divider: d}, nil
}
