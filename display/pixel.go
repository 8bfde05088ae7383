package display

import (
	"errors"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	errGlyph = errors.New("display:glyph or slot out of range")

	lightOn  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	lightOff = color.RGBA{A: 0xff}
)

// PixelPanel draws glyph cells on a monochrome pixel display such as the
// SSD1306 OLED.
type PixelPanel struct {
	dev drivers.Displayer
}

// NewPixelPanel returns a panel drawing into dev's frame buffer.
func NewPixelPanel(dev drivers.Displayer) *PixelPanel {
	return &PixelPanel{dev: dev}
}

// DrawGlyph repaints the whole cell of slot, clearing what was there.
func (p *PixelPanel) DrawGlyph(g Glyph, slot int) error {
	if g >= numGlyphs || slot < 0 || slot >= Slots {
		return errGlyph
	}
	o := Origins[slot]
	for y := 0; y < CellHeight; y++ {
		for x := 0; x < CellWidth; x++ {
			c := lightOff
			fx, fy := x-fontLeft, y-fontTop
			if fx >= 0 && fy >= 0 && fx < fontCols*fontScale && fy < fontRows*fontScale &&
				lit(g, fx/fontScale, fy/fontScale) {
				c = lightOn
			}
			p.dev.SetPixel(o.X+int16(x), o.Y+int16(y), c)
		}
	}
	return nil
}

func (p *PixelPanel) Flush() error { return p.dev.Display() }

// DrawText clears the screen and writes s on the top line.
func (p *PixelPanel) DrawText(s string) error {
	w, h := p.dev.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			p.dev.SetPixel(x, y, lightOff)
		}
	}
	tinyfont.WriteLine(p.dev, &proggy.TinySZ8pt7b, 0, 12, s, lightOn)
	return nil
}
