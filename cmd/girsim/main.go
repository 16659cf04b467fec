// Command girsim renders a message headlessly: a fixed number of
// frames at a fixed rate, printed as compact per-frame summaries or
// dumped as PNG images. Useful for smoke-testing content without a
// terminal UI.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/girouette/internal/config"
	"github.com/example/girouette/internal/render"
	"github.com/example/girouette/internal/schedule"
	"github.com/example/girouette/internal/session"
)

func main() {
	var (
		dswPath   = flag.String("dsw", "", "destination message set (.dsw)")
		polPath   = flag.String("pol", "", "pixel font (.pol)")
		palPath   = flag.String("pal", "", "color palette (.pal), optional")
		number    = flag.Int("message", 0, "message number (0 = first)")
		fontCode  = flag.String("font", "2", "font slot code (0-5, A-F)")
		frames    = flag.Int("frames", 100, "number of frames to simulate")
		fps       = flag.Int("fps", 25, "simulated frames per second")
		exportDir = flag.String("export", "", "write one PNG per frame into this directory")
		width     = flag.Int("w", 84, "display width (columns)")
		height    = flag.Int("h", 16, "display height (rows)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if *dswPath == "" || *polPath == "" {
		log.Fatal().Msg("provide -dsw and -pol")
	}
	if *fontCode == "" {
		log.Fatal().Msg("-font must name a slot code")
	}

	sess := session.New(config.Default(), log.Logger)
	for _, p := range []string{*dswPath, *polPath, *palPath} {
		if p == "" {
			continue
		}
		if err := sess.Load(p); err != nil {
			log.Fatal().Err(err).Str("path", p).Msg("load failed")
		}
	}

	numbers := sess.Messages.Numbers()
	if len(numbers) == 0 {
		log.Fatal().Msg("message set is empty")
	}
	n := numbers[0]
	if *number > 0 {
		n = *number
	}

	geom := schedule.Geometry{W: *width, H: *height}
	code := rune((*fontCode)[0])

	for i := 0; i < *frames; i++ {
		t := float64(i) / float64(*fps)
		frame, err := sess.RenderFrame(n, session.AutoAlternance, code, t, geom)
		if err != nil {
			log.Fatal().Err(err).Msg("render")
		}
		if *exportDir != "" {
			if err := exportPNG(sess, frame, *exportDir, i); err != nil {
				log.Fatal().Err(err).Msg("export")
			}
			continue
		}
		fmt.Printf("[frame %04d] t=%.2fs lit=%d/%d\n", i, t, litCount(frame), frame.W*frame.H)
	}
}

func litCount(f schedule.Frame) int {
	n := 0
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			if f.On(x, y) {
				n++
			}
		}
	}
	return n
}

func exportPNG(sess *session.Session, f schedule.Frame, dir string, i int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	out, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i)))
	if err != nil {
		return err
	}
	defer out.Close()
	return render.WritePNG(out, f, sess.Palette, -1, render.Options{})
}
