package model

import (
	"fmt"
	"image/color"
)

// Legacy default LED colors, used when no palette is loaded.
var (
	LEDOff   = RGB{0x1a, 0x1a, 0x1a}
	LEDAmber = RGB{0xff, 0x66, 0x00}
)

// RGB is the display-side color of a palette entry.
type RGB struct {
	R, G, B uint8
}

func (c RGB) ToRGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ColorEntry pairs a display RGB with the device LED intensity byte the
// sign firmware expects for that color.
type ColorEntry struct {
	Name string `validate:"max=16"`
	RGB  RGB
	LED  byte
}

// Palette is the ordered color table a PAL file round-trips through.
// Messages reference entries by index only, so palettes can be swapped
// without touching a message set.
type Palette struct {
	Colors []ColorEntry
}

func NewPalette() *Palette {
	return &Palette{}
}

// Color returns the entry at index, if present. Index stability across
// load/save is guaranteed by the codec keeping Colors in file order.
func (p *Palette) Color(index int) (ColorEntry, bool) {
	if p == nil || index < 0 || index >= len(p.Colors) {
		return ColorEntry{}, false
	}
	return p.Colors[index], true
}

func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Colors)
}
