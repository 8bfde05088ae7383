package display

// CharDevice is a character LCD such as the HD44780 behind an I2C backpack.
type CharDevice interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
}

// CharPanel shows the readout on a 16x2 character LCD. The first line holds
// the frequency, the second the status marker spelled out.
type CharPanel struct {
	device  CharDevice
	columns int
	cells   [Slots]byte
	status  string
	text    []byte
	// Preallocated so flushing does not allocate on every repaint.
	line []byte
}

// NewCharPanel creates a new 16x2 LCD panel.
func NewCharPanel(device CharDevice) *CharPanel {
	p := &CharPanel{
		device:  device,
		columns: 16,
		line:    make([]byte, 0, 16),
	}
	for i := range p.cells {
		p.cells[i] = ' '
	}
	return p
}

func (p *CharPanel) DrawGlyph(g Glyph, slot int) error {
	if g >= numGlyphs || slot < 0 || slot >= Slots {
		return errGlyph
	}
	p.text = p.text[:0]
	switch {
	case g <= Digit9:
		p.cells[slot] = byte('0' + g)
	case g == Space:
		p.cells[slot] = ' '
	case g == Dash:
		p.cells[slot] = '-'
	default:
		// The marker cell always shows the decimal point; line two says
		// what the marker means.
		p.cells[slot] = '.'
		p.status = markerText(g)
	}
	return nil
}

func markerText(g Glyph) string {
	switch g {
	case Dot:
		return "tone on"
	case Off:
		return "tone off"
	case Mem:
		return "saved"
	}
	return ""
}

// DrawText replaces the whole screen with s on line one.
func (p *CharPanel) DrawText(s string) error {
	p.text = append(p.text[:0], s...)
	return nil
}

// Flush prints both lines to the LCD.
func (p *CharPanel) Flush() error {
	p.device.ClearDisplay()
	p.device.SetCursor(0, 0)
	if len(p.text) > 0 {
		p.print(p.text)
		return nil
	}
	p.line = append(p.line[:0], p.cells[:]...)
	p.line = append(p.line, " Hz"...)
	p.print(p.line)

	p.device.SetCursor(0, 1)
	p.line = append(p.line[:0], p.status...)
	p.print(p.line)
	return nil
}

// print writes one line, truncated in-place to the panel width.
func (p *CharPanel) print(line []byte) {
	if len(line) > p.columns {
		line = line[:p.columns]
	}
	p.device.Print(line)
}
