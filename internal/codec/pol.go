package codec

import (
	"fmt"

	"github.com/example/girouette/internal/model"
)

// POL layout (one font per file):
//
//	magic "EPOL", version byte (1), height u8 (7/14/16),
//	slot code u8 (ASCII '0'..'5','A'..'F'), name len u8 + latin-1 bytes,
//	glyph count u16
//	per glyph: code point u16, width u8, packed bitmap
//
// Bitmaps are row-major, ceil(width/8) bytes per row, MSB of each byte
// is the leftmost pixel of its 8-column group. Glyph records appear in
// strictly ascending code-point order; decoding rejects anything else
// so re-encoding a decoded file reproduces the input bytes.
const (
	polMagic   = "EPOL"
	polVersion = 1
)

func validFontCode(c byte) bool {
	for _, fc := range model.FontCodes {
		if rune(c) == fc {
			return true
		}
	}
	return false
}

func validFontHeight(h byte) bool {
	return h == model.HeightSmall || h == model.HeightMedium || h == model.HeightLarge
}

func glyphRowBytes(width int) int {
	return (width + 7) / 8
}

// DecodePOL parses a pixel font.
func DecodePOL(data []byte) (*model.Font, error) {
	r := &reader{buf: data}
	if err := r.magic(polMagic); err != nil {
		return nil, err
	}
	if _, err := r.version(polVersion); err != nil {
		return nil, err
	}
	height, err := r.u8()
	if err != nil {
		return nil, err
	}
	if !validFontHeight(height) {
		return nil, fmt.Errorf("%w: font height %d at offset %d",
			ErrMalformedFormat, height, r.off-1)
	}
	code, err := r.u8()
	if err != nil {
		return nil, err
	}
	if !validFontCode(code) {
		return nil, fmt.Errorf("%w: font code %q at offset %d",
			ErrMalformedFormat, code, r.off-1)
	}
	nlen, err := r.u8()
	if err != nil {
		return nil, err
	}
	nraw, err := r.bytes(int(nlen))
	if err != nil {
		return nil, err
	}
	count, err := r.u16()
	if err != nil {
		return nil, err
	}

	font := model.NewFont(rune(code), decodeLatin1(nraw), int(height))
	prev := -1
	for i := 0; i < int(count); i++ {
		cp, g, err := decodeGlyph(r, font.Height)
		if err != nil {
			return nil, fmt.Errorf("glyph record %d: %w", i, err)
		}
		if int(cp) <= prev {
			return nil, fmt.Errorf("%w: glyph record %d code point %d out of order",
				ErrMalformedFormat, i, cp)
		}
		prev = int(cp)
		if err := font.SetGlyph(rune(cp), g); err != nil {
			return nil, fmt.Errorf("glyph record %d: %w", i, err)
		}
	}
	return font, nil
}

func decodeGlyph(r *reader, height int) (uint16, *model.Glyph, error) {
	cp, err := r.u16()
	if err != nil {
		return 0, nil, err
	}
	width, err := r.u8()
	if err != nil {
		return 0, nil, err
	}
	stride := glyphRowBytes(int(width))
	raw, err := r.bytes(height * stride)
	if err != nil {
		return 0, nil, err
	}

	g := model.NewGlyph(int(width), height)
	for y := 0; y < g.Height; y++ {
		row := raw[y*stride : (y+1)*stride]
		for x := 0; x < g.Width; x++ {
			if row[x/8]&(1<<uint(7-x%8)) != 0 {
				g.Set(x, y, true)
			}
		}
	}
	return cp, g, nil
}

// EncodePOL serializes a font; glyphs are written in code-point order
// so re-encoding a decoded file is byte-identical.
func EncodePOL(font *model.Font) []byte {
	w := &writer{}
	w.magic(polMagic)
	w.u8(polVersion)
	w.u8(uint8(font.Height))
	w.u8(uint8(font.Code))
	name := encodeLatin1(font.Name)
	w.u8(uint8(len(name)))
	w.raw(name)

	runes := font.Runes()
	w.u16(uint16(len(runes)))
	for _, cp := range runes {
		g := font.Glyphs[cp]
		w.u16(uint16(cp))
		w.u8(uint8(g.Width))
		stride := glyphRowBytes(g.Width)
		for y := 0; y < g.Height; y++ {
			row := make([]byte, stride)
			for x := 0; x < g.Width; x++ {
				if g.On(x, y) {
					row[x/8] |= 1 << uint(7-x%8)
				}
			}
			w.raw(row)
		}
	}
	return w.buf
}
