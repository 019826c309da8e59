// Package config holds the settings shared by the danmaku frontends.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plus3/danmaku/game"
)

// Config is the on-disk configuration. Every field has a default; a file only
// needs to name what it changes.
type Config struct {
	TickRate int    `yaml:"tick_rate"`
	Seed     uint64 `yaml:"seed"`
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`

	Audio  Audio  `yaml:"audio"`
	Window Window `yaml:"window"`

	// Keys maps logical key names (see game.ParseKey) to frontend key
	// names. Missing entries keep the frontend's default binding.
	Keys map[string]string `yaml:"keys"`
}

type Audio struct {
	Enabled       bool    `yaml:"enabled"`
	MasterVolume  float64 `yaml:"master_volume"`
	MusicVolume   float64 `yaml:"music_volume"`
	EffectsVolume float64 `yaml:"effects_volume"`
}

type Window struct {
	Scale float64 `yaml:"scale"`
	Title string  `yaml:"title"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		TickRate: game.DefaultTickRate,
		Seed:     1,
		LogLevel: "info",
		Audio: Audio{
			Enabled:       true,
			MasterVolume:  0.8,
			MusicVolume:   0.6,
			EffectsVolume: 1,
		},
		Window: Window{
			Scale: 1,
			Title: "danmaku",
		},
	}
}

// Load reads a YAML file over the defaults and validates the result. Unknown
// fields are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.TickRate < 1 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("tick_rate %d out of range [1, 1000]", c.TickRate))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	for name, v := range map[string]float64{
		"audio.master_volume":  c.Audio.MasterVolume,
		"audio.music_volume":   c.Audio.MusicVolume,
		"audio.effects_volume": c.Audio.EffectsVolume,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s %.2f out of range [0, 1]", name, v))
		}
	}
	if c.Window.Scale <= 0 {
		errs = append(errs, fmt.Errorf("window.scale must be positive, got %.2f", c.Window.Scale))
	}
	for name := range c.Keys {
		if _, ok := game.ParseKey(name); !ok {
			errs = append(errs, fmt.Errorf("keys: unknown key %q", name))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel is the parsed log level. Invalid levels fall back to info;
// Validate reports them.
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Bindings resolves Keys to logical keys. Entries that do not parse are
// skipped.
func (c Config) Bindings() map[game.Key]string {
	out := make(map[game.Key]string, len(c.Keys))
	for name, native := range c.Keys {
		if k, ok := game.ParseKey(name); ok {
			out[k] = native
		}
	}
	return out
}
