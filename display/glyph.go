// Package display renders the tone readout as a row of fixed-width glyph
// cells.
//
// The readout has five slots: hundreds, tens and units of the frequency in
// Hz, a status marker, then tenths. The marker is a dot while the tone is
// on, so an enabled tone reads " 88.5"; it becomes an "off" cross while the
// tone is disabled and a "mem" mark while a save is acknowledged.
package display

// Glyph is one symbol of the readout alphabet.
type Glyph uint8

const (
	Digit0 Glyph = iota
	Digit1
	Digit2
	Digit3
	Digit4
	Digit5
	Digit6
	Digit7
	Digit8
	Digit9
	Space
	Dash
	Dot
	Off
	Mem
	numGlyphs
)

func (g Glyph) String() string {
	switch {
	case g <= Digit9:
		return string(rune('0' + g))
	case g == Space:
		return "space"
	case g == Dash:
		return "dash"
	case g == Dot:
		return "dot"
	case g == Off:
		return "off"
	case g == Mem:
		return "mem"
	}
	return "invalid"
}

const (
	// Slots is the number of glyph cells in the readout.
	Slots = 5
	// StatusSlot holds the dot, off or mem marker.
	StatusSlot = 3
	// CellWidth is the pixel width of one glyph cell.
	CellWidth = 24
	// CellHeight is the pixel height of one glyph cell.
	CellHeight = 24
)

// Point is a pixel position on the panel.
type Point struct{ X, Y int16 }

// Origins are the top left corners of the readout cells.
var Origins = [Slots]Point{{0, 8}, {25, 8}, {50, 8}, {75, 8}, {100, 8}}

// Panel is the display collaborator: it composites glyphs into slots and
// pushes the result to the screen on Flush.
type Panel interface {
	DrawGlyph(g Glyph, slot int) error
	Flush() error
}

// Texter is implemented by panels that can show a free text message.
type Texter interface {
	DrawText(s string) error
}

// Status returns the marker glyph for the enabled flag.
func Status(enabled bool) Glyph {
	if enabled {
		return Dot
	}
	return Off
}

// Readout lays freq (in Hz) out over the slots with marker in the status
// slot. Values that do not fit in DDD.D are shown as dashes.
func Readout(freq float32, marker Glyph) [Slots]Glyph {
	v := int(freq*10 + 0.5)
	if freq < 0 || v > 9999 {
		return [Slots]Glyph{Dash, Dash, Dash, marker, Dash}
	}
	out := [Slots]Glyph{
		Glyph(v / 1000),
		Glyph(v / 100 % 10),
		Glyph(v / 10 % 10),
		marker,
		Glyph(v % 10),
	}
	if out[0] == Digit0 {
		out[0] = Space
	}
	return out
}

// Show draws the readout for freq and flushes it.
func Show(p Panel, freq float32, enabled bool) error {
	for slot, g := range Readout(freq, Status(enabled)) {
		if err := p.DrawGlyph(g, slot); err != nil {
			return err
		}
	}
	return p.Flush()
}
