// Command girouette previews destination messages on a simulated LED
// matrix in the terminal. It loads a DSW message set, POL fonts, and
// an optional PAL palette, then animates the selected message; files
// are watched and reloaded live so the preview can sit next to an
// editor.
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/girouette/internal/config"
	"github.com/example/girouette/internal/model"
	"github.com/example/girouette/internal/session"
)

func main() {
	var (
		configPath = flag.String("config", "girouette.yaml", "path to girouette.yaml")
		dswPath    = flag.String("dsw", "", "destination message set (.dsw)")
		polPath    = flag.String("pol", "", "pixel font (.pol); repeatable via comma list")
		palPath    = flag.String("pal", "", "color palette (.pal), optional")
		number     = flag.Int("message", 0, "message number to preview (0 = first)")
		fontCode   = flag.String("font", "2", "font slot code (0-5, A-F)")
		display    = flag.String("display", "", "display preset name (overrides config)")
		fps        = flag.Int("fps", 0, "preview frames per second (overrides config)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; using defaults")
		cfg = config.Default()
	}
	if *display != "" {
		cfg.Display = *display
	}
	if *fps > 0 {
		cfg.Defaults.FPS = *fps
	}
	if cfg.Defaults.FPS <= 0 {
		cfg.Defaults.FPS = 25
	}
	if *fontCode == "" {
		log.Fatal().Msg("-font must name a slot code")
	}

	sess := session.New(cfg, log.Logger)
	paths := loadAll(sess, *dswPath, *polPath, *palPath)
	if sess.Messages.Len() == 0 {
		log.Fatal().Msg("no messages loaded; provide -dsw")
	}
	geom, err := sess.Geometry()
	if err != nil {
		log.Fatal().Err(err).Msg("no display geometry")
	}

	numbers := sess.Messages.Numbers()
	current := 0
	if *number > 0 {
		for i, n := range numbers {
			if n == *number {
				current = i
			}
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal().Err(err).Msg("terminal init")
	}
	if err := screen.Init(); err != nil {
		log.Fatal().Err(err).Msg("terminal init")
	}
	defer screen.Fini()

	keys := make(chan *tcell.EventKey, 8)
	go func() {
		for {
			ev := screen.PollEvent()
			if k, ok := ev.(*tcell.EventKey); ok {
				keys <- k
			}
		}
	}()

	reload := watch(paths)

	clock := clockwork.NewRealClock()
	interval := time.Second / time.Duration(cfg.Defaults.FPS)
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()
	start := clock.Now()

	code := rune((*fontCode)[0])
	for {
		select {
		case <-ticker.Chan():
			elapsed := clock.Since(start).Seconds()
			buf, err := sess.RenderRGB(numbers[current], session.AutoAlternance, code, elapsed, geom)
			if err != nil {
				log.Error().Err(err).Msg("render")
				continue
			}
			draw(screen, geom.W, geom.H, buf, numbers[current])

		case k := <-keys:
			switch {
			case k.Key() == tcell.KeyEscape, k.Rune() == 'q':
				return
			case k.Rune() == 'n':
				current = (current + 1) % len(numbers)
				start = clock.Now()
			case k.Rune() == 'p':
				current = (current + len(numbers) - 1) % len(numbers)
				start = clock.Now()
			}

		case path := <-reload:
			if err := sess.Load(path); err != nil {
				log.Error().Err(err).Str("path", path).Msg("reload failed")
			} else {
				numbers = sess.Messages.Numbers()
				if current >= len(numbers) {
					current = 0
				}
				start = clock.Now()
			}
		}
	}
}

func loadAll(sess *session.Session, dsw, pol, pal string) []string {
	var paths []string
	load := func(p string) {
		if p == "" {
			return
		}
		if err := sess.Load(p); err != nil {
			log.Fatal().Err(err).Str("path", p).Msg("load failed")
		}
		paths = append(paths, p)
	}
	load(dsw)
	for _, p := range strings.Split(pol, ",") {
		load(strings.TrimSpace(p))
	}
	load(pal)
	return paths
}

// watch re-emits a file path whenever the legacy editor rewrites it.
func watch(paths []string) <-chan string {
	out := make(chan string, 4)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("file watching disabled")
		return out
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("cannot watch")
		}
	}
	go func() {
		for ev := range w.Events {
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				out <- ev.Name
			}
		}
	}()
	return out
}

var offStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(10, 10, 10))

func draw(screen tcell.Screen, w, h int, buf []model.RGB, number int) {
	// Two terminal cells per LED keeps the dot roughly square.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := buf[y*w+x]
			st := offStyle.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			screen.SetContent(x*2, y+1, '●', nil, st)
			screen.SetContent(x*2+1, y+1, ' ', nil, offStyle)
		}
	}
	label := []rune("message " + strconv.Itoa(number) + "  [n/p switch, q quit]")
	for i, r := range label {
		screen.SetContent(i, 0, r, nil, tcell.StyleDefault)
	}
	screen.Show()
}
