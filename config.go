package clutter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const defaultFrameRate = 60

// Config holds the clock and window settings.
type Config struct {
	// FrameRate paces the clock when vsync is unavailable or idle.
	FrameRate int `yaml:"frame_rate" toml:"frame_rate"`
	// SyncToVBlank declares that presenting a frame waits for vblank.
	SyncToVBlank bool `yaml:"sync_to_vblank" toml:"sync_to_vblank"`
	// ContinuousRedraw makes scenes redraw on every dispatch.
	ContinuousRedraw bool `yaml:"continuous_redraw" toml:"continuous_redraw"`
	// Debug logs per-dispatch timings at Debug level.
	Debug bool `yaml:"debug" toml:"debug"`

	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// DefaultConfig returns 60 fps with vsync on and a 640x480 window.
func DefaultConfig() Config {
	return Config{
		FrameRate:    defaultFrameRate,
		SyncToVBlank: true,
		Title:        "clutter",
		Width:        640,
		Height:       480,
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over
// DefaultConfig. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("clutter: load config: %w", err)
	}
	cfg, err := ParseConfig(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Config{}, fmt.Errorf("clutter: load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes data in format ("yaml", "yml" or "toml") over
// DefaultConfig.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document leaves the defaults alone.
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse yaml: %w", err)
		}
	case "toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the clock cannot run with.
func (c Config) Validate() error {
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("window size %dx%d is negative", c.Width, c.Height)
	}
	return nil
}

// ApplyEnv overrides settings from the environment:
//
//	CLUTTER_DEFAULT_FPS=<n>           frame rate
//	CLUTTER_VBLANK=none               disable vsync
//	CLUTTER_PAINT=continuous-redraw   redraw on every dispatch
//	CLUTTER_DEBUG=<bool>              per-dispatch timing logs
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("CLUTTER_DEFAULT_FPS"); ok {
		fps, err := strconv.Atoi(v)
		if err != nil || fps <= 0 {
			return fmt.Errorf("clutter: CLUTTER_DEFAULT_FPS=%q is not a positive integer", v)
		}
		c.FrameRate = fps
	}
	if v, ok := os.LookupEnv("CLUTTER_VBLANK"); ok && v == "none" {
		c.SyncToVBlank = false
	}
	if v, ok := os.LookupEnv("CLUTTER_PAINT"); ok {
		for _, flag := range strings.Split(v, ",") {
			if strings.TrimSpace(flag) == "continuous-redraw" {
				c.ContinuousRedraw = true
			}
		}
	}
	if v, ok := os.LookupEnv("CLUTTER_DEBUG"); ok {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("clutter: CLUTTER_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	return nil
}
