// Package schedule computes the visible LED frame for a laid-out strip
// at a given elapsed time. Time is always an explicit parameter: the
// package keeps no state and never reads a clock, so identical inputs
// always produce the identical frame.
package schedule

import (
	"math"

	"github.com/example/girouette/internal/layout"
	"github.com/example/girouette/internal/model"
)

// Geometry is the physical LED matrix size in columns and rows.
type Geometry struct {
	W, H int
}

// Align places a static strip narrower than the display.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Frame is the boolean pixel state of the whole display at one
// instant. Cols[x] bit y (LSB = top) is the pixel at (x,y).
type Frame struct {
	W, H int
	Cols []uint16
}

// NewFrame returns an all-dark frame for the geometry.
func NewFrame(geom Geometry) Frame {
	return Frame{W: geom.W, H: geom.H, Cols: make([]uint16, geom.W)}
}

// On reports the pixel state at (x,y). Out of range is dark.
func (f Frame) On(x, y int) bool {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return false
	}
	return f.Cols[x]&(1<<uint(y)) != 0
}

// Offset returns the scroll position at elapsed time t for a strip of
// stripW columns followed by gap blank columns, moving at speed
// columns per second. Offset(0) == 0 and the result is periodic with
// period (stripW+gap)/speed.
func Offset(t, speed float64, stripW, gap int) int {
	period := stripW + gap
	if period <= 0 || speed <= 0 {
		return 0
	}
	steps := int(math.Floor(t * speed))
	off := steps % period
	if off < 0 {
		off += period
	}
	return off
}

// Cycle is the alternance timing of one message: one display duration
// per alternance, in seconds, cycled in declaration order.
type Cycle struct {
	Durations []float64
}

// Total returns the full cycle length in seconds.
func (c Cycle) Total() float64 {
	var t float64
	for _, d := range c.Durations {
		t += d
	}
	return t
}

// Active returns the alternance index visible at elapsed time t and
// the local time within that alternance's current showing. Boundaries
// use cumulative-duration lookup modulo the total cycle length.
func (c Cycle) Active(t float64) (int, float64) {
	n := len(c.Durations)
	if n == 0 {
		return 0, 0
	}
	total := c.Total()
	if total <= 0 {
		return 0, 0
	}
	local := math.Mod(t, total)
	if local < 0 {
		local += total
	}
	for i, d := range c.Durations {
		if local < d {
			return i, local
		}
		local -= d
	}
	// Floating point edge at exactly total; wrap to the first page.
	return 0, 0
}

// blinkPhaseScale maps the stored speed byte to a blink phase length:
// phase seconds = blinkPhaseScale / speed. Speed 10 gives the legacy
// default of half a second per phase.
const blinkPhaseScale = 5.0

// Window computes the visible frame for one strip at elapsed time t.
// The strip is centered vertically when shorter than the display.
func Window(s layout.Strip, geom Geometry, mode model.Mode, t, speed float64, gap int, align Align) Frame {
	f := NewFrame(geom)
	if geom.W <= 0 || geom.H <= 0 {
		return f
	}
	yOff := (geom.H - s.Height) / 2
	if yOff < 0 {
		yOff = 0
	}

	switch mode {
	case model.ModeStatic:
		xOff := 0
		if align == AlignCenter && s.Width() < geom.W {
			xOff = (geom.W - s.Width()) / 2
		}
		for x := 0; x < s.Width() && xOff+x < geom.W; x++ {
			f.Cols[xOff+x] = s.Cols[x] << uint(yOff)
		}

	case model.ModeBlink:
		if speed <= 0 {
			speed = 1
		}
		phase := int(math.Floor(t / (blinkPhaseScale / speed)))
		if phase%2 != 0 {
			return f
		}
		return Window(s, geom, model.ModeStatic, t, speed, gap, align)

	case model.ModeScrollLeft, model.ModeScrollRight:
		if gap <= 0 {
			gap = geom.W
		}
		period := s.Width() + gap
		off := Offset(t, speed, s.Width(), gap)
		for x := 0; x < geom.W; x++ {
			var idx int
			if mode == model.ModeScrollLeft {
				idx = (off + x) % period
			} else {
				idx = ((x-off)%period + period) % period
			}
			if idx < s.Width() {
				f.Cols[x] = s.Cols[idx] << uint(yOff)
			}
		}
	}
	return f
}

// Render computes the frame for one alternance of a message: the
// alternance switch clock and the scroll clock are independent, both
// derived from the same elapsed time. Scroll position restarts when an
// alternance begins a new showing.
func Render(strips []layout.Strip, alt model.Alternance, geom Geometry, local float64, gap int, align Align) Frame {
	if len(strips) == 0 {
		return NewFrame(geom)
	}
	// Multi-row displays stack strips; a single-row display shows the
	// first row only, matching the legacy preview.
	if len(strips) == 1 || strips[0].Height >= geom.H {
		return Window(strips[0], geom, alt.Mode, local, float64(alt.Speed), gap, align)
	}
	f := NewFrame(geom)
	rowH := geom.H / len(strips)
	// A strip taller than its band is clipped to the band, never bled
	// into the rows below it.
	mask := uint16(1<<uint(rowH) - 1)
	for i, s := range strips {
		sub := Window(s, Geometry{W: geom.W, H: rowH}, alt.Mode, local, float64(alt.Speed), gap, align)
		shift := uint(i * rowH)
		for x := 0; x < geom.W; x++ {
			f.Cols[x] |= (sub.Cols[x] & mask) << shift
		}
	}
	return f
}
