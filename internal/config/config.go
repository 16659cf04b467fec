// Package config loads the editor's YAML configuration: display
// geometry presets (the role the legacy GIR files played) and preview
// defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/example/girouette/internal/model"
)

// Display is one girouette geometry preset. Names follow the legacy
// HHxWWW convention ("16x084" is 16 rows by 84 columns).
type Display struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Color       bool   `yaml:"color,omitempty"`
}

// Defaults tune preview rendering.
type Defaults struct {
	Gap      int    `yaml:"gap"`   // trailing blank run for scroll; 0 = display width
	Align    string `yaml:"align"` // "left" | "center"
	FPS      int    `yaml:"fps"`
	OnColor  string `yaml:"on_color"`  // hex, monochrome lit pixel
	OffColor string `yaml:"off_color"` // hex, dark pixel
}

type Config struct {
	Display  string    `yaml:"display"` // active preset name
	Displays []Display `yaml:"displays"`
	Defaults Defaults  `yaml:"defaults"`
}

// Default returns the configuration used when no file is present,
// seeded with the legacy front and rear sign sizes.
func Default() *Config {
	return &Config{
		Display: "16x084",
		Displays: []Display{
			{Name: "16x084", Description: "Front", Width: 84, Height: 16},
			{Name: "16x028", Description: "Rear", Width: 28, Height: 16},
			{Name: "08x096", Description: "Side", Width: 96, Height: 8},
		},
		Defaults: Defaults{
			Align:    "center",
			FPS:      25,
			OnColor:  model.LEDAmber.Hex(),
			OffColor: model.LEDOff.Hex(),
		},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Lookup finds a display preset by name.
func (c *Config) Lookup(name string) (Display, bool) {
	for _, d := range c.Displays {
		if d.Name == name {
			return d, true
		}
	}
	return Display{}, false
}

// Active returns the selected display preset, or the first one when
// the selection is missing.
func (c *Config) Active() (Display, error) {
	if d, ok := c.Lookup(c.Display); ok {
		return d, nil
	}
	if len(c.Displays) > 0 {
		return c.Displays[0], nil
	}
	return Display{}, fmt.Errorf("no display presets configured")
}

// ParseHex decodes a "#rrggbb" color, falling back to def on any
// malformed value.
func ParseHex(s string, def model.RGB) model.RGB {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return def
	}
	return model.RGB{R: r, G: g, B: b}
}
