package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/girouette/internal/model"
)

// glyphA is the canonical 5x7 'A' test bitmap: first column fully lit.
func glyphA() *model.Glyph {
	g := model.NewGlyph(5, 7)
	for y := 0; y < 7; y++ {
		g.Set(0, y, true)
	}
	return g
}

func sampleFont() *model.Font {
	f := model.NewFont('2', "Small", model.HeightSmall)
	_ = f.SetGlyph('A', glyphA())

	wide := model.NewGlyph(12, 7) // spans two packed bytes per row
	wide.Set(0, 0, true)
	wide.Set(7, 0, true)
	wide.Set(8, 0, true)
	wide.Set(11, 6, true)
	_ = f.SetGlyph('M', wide)

	_ = f.SetGlyph(' ', model.NewGlyph(3, 7))
	return f
}

func TestPOLRoundTrip(t *testing.T) {
	font := sampleFont()
	data := EncodePOL(font)

	got, err := DecodePOL(data)
	require.NoError(t, err)
	assert.Equal(t, font, got)
}

func TestPOLReencodeIdempotent(t *testing.T) {
	data := EncodePOL(sampleFont())

	font, err := DecodePOL(data)
	require.NoError(t, err)
	assert.Equal(t, data, EncodePOL(font))
}

func TestPOLBitmapPacking(t *testing.T) {
	font := sampleFont()
	data := EncodePOL(font)

	got, err := DecodePOL(data)
	require.NoError(t, err)

	m, ok := got.Glyph('M')
	require.True(t, ok)
	assert.True(t, m.On(0, 0))
	assert.True(t, m.On(7, 0))  // last bit of first byte
	assert.True(t, m.On(8, 0))  // first bit of second byte
	assert.True(t, m.On(11, 6))
	assert.False(t, m.On(1, 0))
}

func TestPOLBadMagic(t *testing.T) {
	_, err := DecodePOL([]byte("EPAL\x01"))
	assert.ErrorIs(t, err, ErrMalformedFormat)
}

func TestPOLUnsupportedVersion(t *testing.T) {
	_, err := DecodePOL([]byte{'E', 'P', 'O', 'L', 9, 7, '2', 0, 0, 0})
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestPOLBadHeightAndCode(t *testing.T) {
	_, err := DecodePOL([]byte{'E', 'P', 'O', 'L', 1, 9, '2', 0, 0, 0})
	assert.ErrorIs(t, err, ErrMalformedFormat)

	_, err = DecodePOL([]byte{'E', 'P', 'O', 'L', 1, 7, 'Z', 0, 0, 0})
	assert.ErrorIs(t, err, ErrMalformedFormat)
}

// rawPOL builds a height-7 slot-'2' stream with blank glyphs at the
// given code points, in the given order.
func rawPOL(cps ...uint16) []byte {
	w := &writer{}
	w.magic(polMagic)
	w.u8(polVersion)
	w.u8(7)
	w.u8('2')
	w.u8(0) // empty name
	w.u16(uint16(len(cps)))
	for _, cp := range cps {
		w.u16(cp)
		w.u8(5)
		w.raw(make([]byte, 7*glyphRowBytes(5)))
	}
	return w.buf
}

func TestPOLRejectsUnorderedGlyphs(t *testing.T) {
	_, err := DecodePOL(rawPOL('B', 'A'))
	assert.ErrorIs(t, err, ErrMalformedFormat)
}

func TestPOLRejectsDuplicateGlyphs(t *testing.T) {
	_, err := DecodePOL(rawPOL('A', 'A'))
	assert.ErrorIs(t, err, ErrMalformedFormat)
}

func TestPOLOrderedGlyphsAccepted(t *testing.T) {
	font, err := DecodePOL(rawPOL('A', 'B'))
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', 'B'}, font.Runes())
	assert.Equal(t, rawPOL('A', 'B'), EncodePOL(font))
}

func TestPOLTruncatedGlyph(t *testing.T) {
	data := EncodePOL(sampleFont())
	_, err := DecodePOL(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrTruncatedData)
}

func TestPOLGlyphHeightsMatchFont(t *testing.T) {
	font, err := DecodePOL(EncodePOL(sampleFont()))
	require.NoError(t, err)
	for _, r := range font.Runes() {
		g, _ := font.Glyph(r)
		assert.Equal(t, font.Height, g.Height, "glyph %q", r)
	}
}
