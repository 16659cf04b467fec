// Package model holds the in-memory data model for girouette content:
// bitmap fonts, LED color palettes, and destination message sets. The
// stores here are plain values owned by an editing session; nothing in
// this package performs I/O or locking.
package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// ErrDuplicateNumber reports two messages sharing a number within one set.
var ErrDuplicateNumber = errors.New("duplicate message number")

// Font heights used by the legacy sign hardware.
const (
	HeightSmall  = 7
	HeightMedium = 14
	HeightLarge  = 16
)

// FontCodes is the fixed alphabet of legacy font slot codes.
var FontCodes = []rune{'0', '1', '2', '3', '4', '5', 'A', 'B', 'C', 'D', 'E', 'F'}

// Glyph is one character's bitmap: Width columns by Height rows.
// Rows[y] bit x (LSB = leftmost column) is the pixel at (x,y).
type Glyph struct {
	Width  int
	Height int
	Rows   []uint32
}

// NewGlyph returns an all-dark glyph of the given size.
func NewGlyph(width, height int) *Glyph {
	return &Glyph{Width: width, Height: height, Rows: make([]uint32, height)}
}

// On reports whether the pixel at (x,y) is lit. Out of range is dark.
func (g *Glyph) On(x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	return g.Rows[y]&(1<<uint(x)) != 0
}

// Set lights or clears the pixel at (x,y).
func (g *Glyph) Set(x, y int, on bool) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	if on {
		g.Rows[y] |= 1 << uint(x)
	} else {
		g.Rows[y] &^= 1 << uint(x)
	}
}

// Column returns column x as a vertical bit vector, bit y (LSB = top row).
func (g *Glyph) Column(x int) uint16 {
	var c uint16
	for y := 0; y < g.Height; y++ {
		if g.On(x, y) {
			c |= 1 << uint(y)
		}
	}
	return c
}

// Font is one legacy font slot: a fixed pixel height, a slot code from
// FontCodes, and a glyph per covered code point. All glyphs share the
// font's height; width varies per glyph.
type Font struct {
	Code   rune
	Name   string
	Height int
	Glyphs map[rune]*Glyph
}

// NewFont returns an empty font for the given slot code and height.
func NewFont(code rune, name string, height int) *Font {
	return &Font{Code: code, Name: name, Height: height, Glyphs: map[rune]*Glyph{}}
}

// Glyph looks up the bitmap for r.
func (f *Font) Glyph(r rune) (*Glyph, bool) {
	g, ok := f.Glyphs[r]
	return g, ok
}

// SetGlyph installs g for r. The glyph height must match the font's.
func (f *Font) SetGlyph(r rune, g *Glyph) error {
	if g.Height != f.Height {
		return fmt.Errorf("glyph %q height %d does not match font height %d", r, g.Height, f.Height)
	}
	f.Glyphs[r] = g
	return nil
}

// Runes returns the covered code points in ascending order.
func (f *Font) Runes() []rune {
	rs := make([]rune, 0, len(f.Glyphs))
	for r := range f.Glyphs {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
	return rs
}

// FontStore holds the loaded fonts keyed by slot code. Replaced
// wholesale when a POL file is opened.
type FontStore struct {
	fonts map[rune]*Font
}

func NewFontStore() *FontStore {
	return &FontStore{fonts: map[rune]*Font{}}
}

func (s *FontStore) Get(code rune) (*Font, bool) {
	f, ok := s.fonts[code]
	return f, ok
}

func (s *FontStore) Put(f *Font) {
	s.fonts[f.Code] = f
}

// Replace swaps in a whole new font table (open-file semantics).
func (s *FontStore) Replace(fonts []*Font) {
	s.fonts = make(map[rune]*Font, len(fonts))
	for _, f := range fonts {
		s.fonts[f.Code] = f
	}
}

// Codes returns loaded slot codes in FontCodes order.
func (s *FontStore) Codes() []rune {
	var out []rune
	for _, c := range FontCodes {
		if _, ok := s.fonts[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *FontStore) Len() int { return len(s.fonts) }

// Mode selects how an alternance animates. Values match the legacy
// on-disk animation byte.
type Mode byte

const (
	ModeStatic Mode = iota
	ModeScrollLeft
	ModeScrollRight
	ModeBlink
)

func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeScrollLeft:
		return "scroll-left"
	case ModeScrollRight:
		return "scroll-right"
	case ModeBlink:
		return "blink"
	}
	return fmt.Sprintf("mode(%d)", byte(m))
}

// Valid reports whether m is a known animation byte.
func (m Mode) Valid() bool { return m <= ModeBlink }

// NoColor marks an alternance with no palette reference (monochrome).
const NoColor = -1

// Alternance is one page of a message: raw display text (may embed the
// '|' line-break and '²' column-skip control characters), an animation
// mode, a scroll speed in columns per second, a display duration in
// tenths of a second, and an optional palette color index.
type Alternance struct {
	Text     string `validate:"max=65535"`
	Mode     Mode   `validate:"lte=3"`
	Speed    uint8  `validate:"gte=1"`
	Duration uint16 `validate:"gte=1"`
	Color    int    `validate:"gte=-1,lte=254"`
}

// DurationSeconds converts the stored tenths-of-second duration.
func (a Alternance) DurationSeconds() float64 {
	return float64(a.Duration) / 10
}

// Message is one destination entry: a number unique within its set, a
// header shown in listings, and 1 to 3 alternances cycled in order.
type Message struct {
	Number      int          `validate:"gte=1,lte=9999"`
	Header      string       `validate:"max=255"`
	Alternances []Alternance `validate:"min=1,max=3,dive"`
}

// MessageSet is the ordered collection a DSW file round-trips through.
// Order is listing order; lookup is by number.
type MessageSet struct {
	Messages []*Message
}

func NewMessageSet() *MessageSet {
	return &MessageSet{}
}

// Lookup finds a message by number.
func (s *MessageSet) Lookup(number int) (*Message, bool) {
	for _, m := range s.Messages {
		if m.Number == number {
			return m, true
		}
	}
	return nil, false
}

// Add appends m, rejecting a duplicate number.
func (s *MessageSet) Add(m *Message) error {
	if _, ok := s.Lookup(m.Number); ok {
		return fmt.Errorf("%w: %d", ErrDuplicateNumber, m.Number)
	}
	s.Messages = append(s.Messages, m)
	return nil
}

// Delete removes the message with the given number, reporting whether
// anything was removed.
func (s *MessageSet) Delete(number int) bool {
	for i, m := range s.Messages {
		if m.Number == number {
			s.Messages = append(s.Messages[:i], s.Messages[i+1:]...)
			return true
		}
	}
	return false
}

// Renumber changes a message's number in place, keeping listing order.
func (s *MessageSet) Renumber(old, new int) error {
	if old == new {
		return nil
	}
	if _, ok := s.Lookup(new); ok {
		return fmt.Errorf("%w: %d", ErrDuplicateNumber, new)
	}
	m, ok := s.Lookup(old)
	if !ok {
		return fmt.Errorf("no message %d", old)
	}
	m.Number = new
	return nil
}

// Numbers returns message numbers in listing order.
func (s *MessageSet) Numbers() []int {
	out := make([]int, len(s.Messages))
	for i, m := range s.Messages {
		out[i] = m.Number
	}
	return out
}

func (s *MessageSet) Len() int { return len(s.Messages) }

var validate = validator.New()

// Validate checks structural constraints (number range, alternance
// arity, field ranges) and number uniqueness across the set.
func (s *MessageSet) Validate() error {
	seen := make(map[int]struct{}, len(s.Messages))
	for i, m := range s.Messages {
		if err := validate.Struct(m); err != nil {
			return fmt.Errorf("message %d (record %d): %w", m.Number, i, err)
		}
		if _, dup := seen[m.Number]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateNumber, m.Number)
		}
		seen[m.Number] = struct{}{}
	}
	return nil
}
