// Package layout turns an alternance's raw text into pixel-column
// strips for a given font. This is the single place the in-text
// control characters are interpreted; rendering never re-scans text.
package layout

import "github.com/example/girouette/internal/model"

// Control characters embedded in legacy message text.
const (
	BreakRune    = '|' // hard line break, starts the next row
	BreakRuneAlt = '¦' // legacy alias for BreakRune
	SkipRune     = '²' // one blank column, for kerning
)

// Strip is the full pixel-column sequence of one laid-out row, before
// any scroll windowing. Cols[i] bit y (LSB = top) is the pixel at row y.
type Strip struct {
	Height int
	Cols   []uint16
}

// Width returns the strip width in columns.
func (s Strip) Width() int { return len(s.Cols) }

// On reports the pixel state at (x,y). Out of range is dark.
func (s Strip) On(x, y int) bool {
	if x < 0 || x >= len(s.Cols) || y < 0 || y >= s.Height {
		return false
	}
	return s.Cols[x]&(1<<uint(y)) != 0
}

// Options tune glyph substitution. The zero value falls back to the
// font's space glyph, then to a blank block of DefaultFallbackWidth.
type Options struct {
	Fallback      *model.Glyph
	FallbackWidth int
}

// DefaultFallbackWidth is the synthesized blank glyph width used when
// a font defines neither the requested rune nor a space.
const DefaultFallbackWidth = 3

// builder accumulates one row and tracks how many trailing columns
// came from SkipRune, so they can be dropped at a row boundary.
type builder struct {
	height        int
	cols          []uint16
	trailingSkips int
}

func (b *builder) glyph(g *model.Glyph) {
	for x := 0; x < g.Width; x++ {
		b.cols = append(b.cols, g.Column(x))
	}
	b.cols = append(b.cols, 0) // inter-character spacing
	b.trailingSkips = 0
}

func (b *builder) skip() {
	b.cols = append(b.cols, 0)
	b.trailingSkips++
}

// finish closes the row. atBreak drops skip columns that would trail
// immediately before a hard line break.
func (b *builder) finish(atBreak bool) Strip {
	cols := b.cols
	if atBreak && b.trailingSkips > 0 {
		cols = cols[:len(cols)-b.trailingSkips]
	}
	s := Strip{Height: b.height, Cols: cols}
	b.cols = nil
	b.trailingSkips = 0
	return s
}

// Build lays out text in font, one strip per row. A rune missing from
// the font renders as the fallback glyph; layout never fails.
// Identical inputs always produce identical strips.
func Build(text string, font *model.Font, opts Options) []Strip {
	fallback := opts.Fallback
	if fallback == nil {
		if sp, ok := font.Glyph(' '); ok {
			fallback = sp
		} else {
			w := opts.FallbackWidth
			if w <= 0 {
				w = DefaultFallbackWidth
			}
			fallback = model.NewGlyph(w, font.Height)
		}
	}

	b := &builder{height: font.Height}
	var strips []Strip
	for _, r := range text {
		switch r {
		case BreakRune, BreakRuneAlt:
			strips = append(strips, b.finish(true))
		case SkipRune:
			b.skip()
		default:
			g, ok := font.Glyph(r)
			if !ok {
				g = fallback
			}
			b.glyph(g)
		}
	}
	strips = append(strips, b.finish(false))
	return strips
}
