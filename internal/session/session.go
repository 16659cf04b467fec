// Package session owns the loaded stores — message set, fonts,
// palette — and exposes the load/save/render boundary the UI layer
// drives. It replaces the legacy editor's process-wide globals with an
// explicit object: stores are swapped wholesale on open and passed by
// reference into layout and scheduling. Single-writer; callers
// serialize access.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/girouette/internal/codec"
	"github.com/example/girouette/internal/config"
	"github.com/example/girouette/internal/layout"
	"github.com/example/girouette/internal/model"
	"github.com/example/girouette/internal/render"
	"github.com/example/girouette/internal/schedule"
)

// ErrUnknownExtension reports a path whose kind cannot be inferred.
var ErrUnknownExtension = errors.New("unknown file extension")

// KindFromPath infers the codec kind from the file extension.
func KindFromPath(path string) (codec.Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dsw":
		return codec.KindDSW, nil
	case ".pol":
		return codec.KindPOL, nil
	case ".pal":
		return codec.KindPAL, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownExtension, filepath.Ext(path))
}

// Session is one editing session over independently loaded stores.
type Session struct {
	Messages *model.MessageSet
	Fonts    *model.FontStore
	Palette  *model.Palette
	Config   *config.Config

	log zerolog.Logger
}

// New returns an empty session with the given configuration.
func New(cfg *config.Config, log zerolog.Logger) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{
		Messages: model.NewMessageSet(),
		Fonts:    model.NewFontStore(),
		Palette:  model.NewPalette(),
		Config:   cfg,
		log:      log,
	}
}

// Reset discards all loaded content ("new" semantics).
func (s *Session) Reset() {
	s.Messages = model.NewMessageSet()
	s.Fonts = model.NewFontStore()
	s.Palette = model.NewPalette()
}

// Load reads the file at path into the matching store, inferring the
// kind from the extension. Message sets and palettes replace their
// store wholesale; fonts add to the font table by slot code.
func (s *Session) Load(path string) error {
	kind, err := KindFromPath(path)
	if err != nil {
		return err
	}
	return s.LoadKind(path, kind)
}

// LoadKind reads the file at path as the given kind.
func (s *Session) LoadKind(path string, kind codec.Kind) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	switch kind {
	case codec.KindDSW:
		set, err := codec.DecodeDSW(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		s.Messages = set
		s.log.Info().Str("path", path).Int("messages", set.Len()).Msg("loaded message set")
	case codec.KindPOL:
		font, err := codec.DecodePOL(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		s.Fonts.Put(font)
		s.log.Info().Str("path", path).Str("font", string(font.Code)).
			Int("glyphs", len(font.Glyphs)).Msg("loaded font")
	case codec.KindPAL:
		pal, err := codec.DecodePAL(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		s.Palette = pal
		s.log.Info().Str("path", path).Int("colors", pal.Len()).Msg("loaded palette")
	default:
		return fmt.Errorf("load %s: unknown kind %v", path, kind)
	}
	return nil
}

// Save writes the store matching the path's extension. The message set
// is validated before encoding so malformed content never reaches disk.
func (s *Session) Save(path string) error {
	kind, err := KindFromPath(path)
	if err != nil {
		return err
	}
	return s.SaveKind(path, kind)
}

// SaveKind writes the store for the given kind to path.
func (s *Session) SaveKind(path string, kind codec.Kind) error {
	var data []byte
	switch kind {
	case codec.KindDSW:
		if err := s.Messages.Validate(); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
		data = codec.EncodeDSW(s.Messages)
	case codec.KindPOL:
		font, code, err := s.saveFont(path)
		if err != nil {
			return err
		}
		s.log.Debug().Str("font", string(code)).Msg("encoding font")
		data = codec.EncodePOL(font)
	case codec.KindPAL:
		data = codec.EncodePAL(s.Palette)
	default:
		return fmt.Errorf("save %s: unknown kind %v", path, kind)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.log.Info().Str("path", path).Int("bytes", len(data)).Msg("saved")
	return nil
}

// saveFont picks the font slot a POL save targets: the path stem's
// last character when it names a slot ("girouette_2.pol" saves slot
// '2'), else the only loaded font.
func (s *Session) saveFont(path string) (*model.Font, rune, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(stem) > 0 {
		code := rune(stem[len(stem)-1])
		if f, ok := s.Fonts.Get(code); ok {
			return f, code, nil
		}
	}
	codes := s.Fonts.Codes()
	if len(codes) == 1 {
		f, _ := s.Fonts.Get(codes[0])
		return f, codes[0], nil
	}
	return nil, 0, fmt.Errorf("save %s: cannot pick a font slot (loaded: %d)", path, s.Fonts.Len())
}

// Geometry returns the active display preset's matrix size.
func (s *Session) Geometry() (schedule.Geometry, error) {
	d, err := s.Config.Active()
	if err != nil {
		return schedule.Geometry{}, err
	}
	return schedule.Geometry{W: d.Width, H: d.Height}, nil
}

func (s *Session) align() schedule.Align {
	if s.Config.Defaults.Align == "center" {
		return schedule.AlignCenter
	}
	return schedule.AlignLeft
}

// AutoAlternance asks RenderFrame to follow the message's own
// duration cycle instead of pinning one alternance.
const AutoAlternance = -1

// RenderFrame computes the visible frame for a message at elapsed
// time. altIdx selects an alternance; pass AutoAlternance to follow
// the message's own duration cycle. A missing glyph degrades to the
// fallback glyph inside the layout engine and never fails the render.
func (s *Session) RenderFrame(number, altIdx int, fontCode rune, elapsed float64, geom schedule.Geometry) (schedule.Frame, error) {
	msg, ok := s.Messages.Lookup(number)
	if !ok {
		return schedule.Frame{}, fmt.Errorf("no message %d", number)
	}
	font, ok := s.Fonts.Get(fontCode)
	if !ok {
		return schedule.Frame{}, fmt.Errorf("no font %q loaded", fontCode)
	}
	return RenderFrame(msg, altIdx, font, elapsed, geom, s.Config.Defaults.Gap, s.align())
}

// RenderRGB runs RenderFrame and paints the result through the active
// palette using the current alternance's color reference.
func (s *Session) RenderRGB(number, altIdx int, fontCode rune, elapsed float64, geom schedule.Geometry) ([]model.RGB, error) {
	msg, ok := s.Messages.Lookup(number)
	if !ok {
		return nil, fmt.Errorf("no message %d", number)
	}
	f, err := s.RenderFrame(number, altIdx, fontCode, elapsed, geom)
	if err != nil {
		return nil, err
	}
	idx, _ := activeAlternance(msg, altIdx, elapsed)
	opts := render.Options{
		On:  config.ParseHex(s.Config.Defaults.OnColor, model.LEDAmber),
		Off: config.ParseHex(s.Config.Defaults.OffColor, model.LEDOff),
	}
	return render.Paint(f, s.Palette, msg.Alternances[idx].Color, opts), nil
}

func activeAlternance(msg *model.Message, altIdx int, elapsed float64) (int, float64) {
	if altIdx >= 0 && altIdx < len(msg.Alternances) {
		return altIdx, elapsed
	}
	cyc := schedule.Cycle{Durations: make([]float64, len(msg.Alternances))}
	for i, a := range msg.Alternances {
		cyc.Durations[i] = a.DurationSeconds()
	}
	return cyc.Active(elapsed)
}

// RenderFrame is the pure pipeline under Session.RenderFrame: pick the
// alternance for the elapsed time, lay its text out in the font, and
// window the strip for the display geometry.
func RenderFrame(msg *model.Message, altIdx int, font *model.Font, elapsed float64, geom schedule.Geometry, gap int, align schedule.Align) (schedule.Frame, error) {
	if len(msg.Alternances) == 0 {
		return schedule.Frame{}, fmt.Errorf("message %d has no alternances", msg.Number)
	}
	idx, local := activeAlternance(msg, altIdx, elapsed)
	alt := msg.Alternances[idx]
	strips := layout.Build(alt.Text, font, layout.Options{})
	return schedule.Render(strips, alt, geom, local, gap, align), nil
}
