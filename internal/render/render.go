// Package render maps scheduler frames to concrete pixel colors
// through the active palette, and exports frames as PNG images the way
// the legacy editor's image export did.
package render

import (
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/example/girouette/internal/model"
	"github.com/example/girouette/internal/schedule"
)

// Options pick the monochrome colors used when the alternance has no
// palette reference. Zero values select the legacy amber-on-dark look.
type Options struct {
	On  model.RGB
	Off model.RGB
}

func (o Options) withDefaults() Options {
	var zero model.RGB
	if o.On == zero {
		o.On = model.LEDAmber
	}
	if o.Off == zero {
		o.Off = model.LEDOff
	}
	return o
}

// OnColor resolves the lit-pixel color: the palette entry when
// colorIdx references one, the configured monochrome color otherwise.
func OnColor(pal *model.Palette, colorIdx int, opts Options) model.RGB {
	opts = opts.withDefaults()
	if entry, ok := pal.Color(colorIdx); ok {
		return entry.RGB
	}
	return opts.On
}

// Paint maps a boolean frame to a row-major W×H RGB buffer. Pure
// function of its inputs; a nil palette is a valid monochrome setup.
func Paint(f schedule.Frame, pal *model.Palette, colorIdx int, opts Options) []model.RGB {
	opts = opts.withDefaults()
	on := OnColor(pal, colorIdx, opts)
	buf := make([]model.RGB, f.W*f.H)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if f.On(x, y) {
				buf[y*f.W+x] = on
			} else {
				buf[y*f.W+x] = opts.Off
			}
		}
	}
	return buf
}

// PNG export geometry, matching the legacy editor's LED dot look.
const (
	pngPixelSize = 4
	pngPixelGap  = 1
	pngMargin    = 2
)

// WritePNG renders the frame as a PNG with one square LED dot per
// pixel and a one-pixel gap between dots.
func WritePNG(w io.Writer, f schedule.Frame, pal *model.Palette, colorIdx int, opts Options) error {
	opts = opts.withDefaults()
	on := OnColor(pal, colorIdx, opts)

	cell := pngPixelSize + pngPixelGap
	img := image.NewRGBA(image.Rect(0, 0, f.W*cell+2*pngMargin, f.H*cell+2*pngMargin))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)

	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			c := opts.Off
			if f.On(x, y) {
				c = on
			}
			dot := image.Rect(
				pngMargin+x*cell, pngMargin+y*cell,
				pngMargin+x*cell+pngPixelSize, pngMargin+y*cell+pngPixelSize,
			)
			draw.Draw(img, dot, image.NewUniform(c.ToRGBA()), image.Point{}, draw.Src)
		}
	}
	return png.Encode(w, img)
}
