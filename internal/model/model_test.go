package model_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/girouette/internal/model"
)

func TestGlyphPixels(t *testing.T) {
	g := model.NewGlyph(5, 7)
	assert.False(t, g.On(0, 0))

	g.Set(0, 0, true)
	g.Set(4, 6, true)
	assert.True(t, g.On(0, 0))
	assert.True(t, g.On(4, 6))
	assert.False(t, g.On(1, 1))

	g.Set(0, 0, false)
	assert.False(t, g.On(0, 0))

	// out of range is dark and Set is a no-op
	assert.False(t, g.On(-1, 0))
	assert.False(t, g.On(5, 0))
	g.Set(9, 9, true)
	assert.False(t, g.On(9, 9))
}

func TestGlyphColumn(t *testing.T) {
	g := model.NewGlyph(2, 7)
	for y := 0; y < 7; y++ {
		g.Set(0, y, true)
	}
	g.Set(1, 3, true)

	assert.Equal(t, uint16(0x7F), g.Column(0))
	assert.Equal(t, uint16(1<<3), g.Column(1))
}

func TestFontHeightInvariant(t *testing.T) {
	f := model.NewFont('2', "Medium", model.HeightMedium)
	require.NoError(t, f.SetGlyph('A', model.NewGlyph(5, 14)))
	assert.Error(t, f.SetGlyph('B', model.NewGlyph(5, 7)))

	_, ok := f.Glyph('A')
	assert.True(t, ok)
	_, ok = f.Glyph('B')
	assert.False(t, ok)
}

func TestFontStoreReplace(t *testing.T) {
	s := model.NewFontStore()
	s.Put(model.NewFont('0', "Small", model.HeightSmall))
	s.Put(model.NewFont('E', "Large", model.HeightLarge))
	assert.Equal(t, []rune{'0', 'E'}, s.Codes())

	s.Replace([]*model.Font{model.NewFont('2', "Medium", model.HeightMedium)})
	assert.Equal(t, []rune{'2'}, s.Codes())
	_, ok := s.Get('0')
	assert.False(t, ok)
}

func newMessage(n int) *model.Message {
	return &model.Message{
		Number: n,
		Header: "DEPOT",
		Alternances: []model.Alternance{
			{Text: "DEPOT", Mode: model.ModeStatic, Speed: 10, Duration: 30, Color: model.NoColor},
		},
	}
}

func TestMessageSetAddDuplicate(t *testing.T) {
	s := model.NewMessageSet()
	require.NoError(t, s.Add(newMessage(42)))

	err := s.Add(newMessage(42))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDuplicateNumber)
	assert.Equal(t, 1, s.Len())
}

func TestMessageSetDeleteRenumber(t *testing.T) {
	s := model.NewMessageSet()
	require.NoError(t, s.Add(newMessage(1)))
	require.NoError(t, s.Add(newMessage(2)))
	require.NoError(t, s.Add(newMessage(3)))

	assert.True(t, s.Delete(2))
	assert.False(t, s.Delete(2))
	assert.Equal(t, []int{1, 3}, s.Numbers())

	require.NoError(t, s.Renumber(3, 7))
	_, ok := s.Lookup(7)
	assert.True(t, ok)
	assert.ErrorIs(t, s.Renumber(1, 7), model.ErrDuplicateNumber)
	assert.Error(t, s.Renumber(99, 5))
}

func TestMessageSetValidate(t *testing.T) {
	s := model.NewMessageSet()
	require.NoError(t, s.Add(newMessage(1)))
	assert.NoError(t, s.Validate())

	// number out of range
	s.Messages[0].Number = 10000
	assert.Error(t, s.Validate())
	s.Messages[0].Number = 1

	// alternance arity 0 and 4 both rejected
	s.Messages[0].Alternances = nil
	assert.Error(t, s.Validate())
	s.Messages[0].Alternances = make([]model.Alternance, 4)
	assert.Error(t, s.Validate())

	// text longer than the on-disk length field can carry
	s.Messages[0].Alternances = []model.Alternance{{
		Text:     strings.Repeat("A", 65536),
		Mode:     model.ModeStatic,
		Speed:    10,
		Duration: 30,
		Color:    model.NoColor,
	}}
	assert.Error(t, s.Validate())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "static", model.ModeStatic.String())
	assert.Equal(t, "scroll-left", model.ModeScrollLeft.String())
	assert.True(t, model.ModeBlink.Valid())
	assert.False(t, model.Mode(9).Valid())
}

func TestPaletteLookupStable(t *testing.T) {
	p := model.NewPalette()
	p.Colors = []model.ColorEntry{
		{Name: "Amber", RGB: model.RGB{0xff, 0x66, 0x00}, LED: 0x08},
		{Name: "Red", RGB: model.RGB{0xff, 0, 0}, LED: 0x01},
	}

	c, ok := p.Color(1)
	require.True(t, ok)
	assert.Equal(t, "Red", c.Name)

	_, ok = p.Color(2)
	assert.False(t, ok)
	_, ok = p.Color(-1)
	assert.False(t, ok)

	var nilPal *model.Palette
	_, ok = nilPal.Color(0)
	assert.False(t, ok)
}

func TestRGBHex(t *testing.T) {
	assert.Equal(t, "#ff6600", model.LEDAmber.Hex())
	rgba := model.RGB{1, 2, 3}.ToRGBA()
	assert.EqualValues(t, 255, rgba.A)
}
