package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the editor shell configuration, read from a TOML file:
//
//	log_level = "info"
//	palette   = "palettes/pico8.json"
//
//	[window]
//	title  = "pixlab"
//	width  = 1280
//	height = 800
//
//	[canvas]
//	width     = 64
//	height    = 64
//	zoom      = 8
//	grid_zoom = 12
//
// Every key is optional; unknown keys are rejected so that typos do not go
// unnoticed.
type Config struct {
	Window WindowConfig `toml:"window"`
	Canvas CanvasConfig `toml:"canvas"`

	// Palette is a JSON palette file. Empty uses the built-in palette.
	Palette string `toml:"palette"`

	// HistoryLimit caps the undo stack; 0 means unlimited.
	HistoryLimit int `toml:"history_limit"`

	// Workers is the compositor parallelism; 0 means GOMAXPROCS.
	Workers int `toml:"workers"`

	// ProjectPath is where Ctrl+S saves and where the shell opens from.
	ProjectPath string `toml:"project_path"`

	// ExportScale is the integer upscale used by Ctrl+E.
	ExportScale int `toml:"export_scale"`

	// ScreenshotDir is where F12 and scripted screenshots are written.
	ScreenshotDir string `toml:"screenshot_dir"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`

	// Debug prints engine stats to stderr and checks invariants.
	Debug bool `toml:"debug"`
}

// WindowConfig holds the window settings.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// CanvasConfig holds the size and view of a new document.
type CanvasConfig struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Zoom   float64 `toml:"zoom"`

	// GridZoom is the zoom at and above which the pixel grid is drawn.
	// 0 disables the grid.
	GridZoom float64 `toml:"grid_zoom"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Title:  "pixlab",
			Width:  1280,
			Height: 800,
		},
		Canvas: CanvasConfig{
			Width:    64,
			Height:   64,
			Zoom:     8,
			GridZoom: 12,
		},
		HistoryLimit:  500,
		ProjectPath:   "untitled.pixlab",
		ExportScale:   1,
		ScreenshotDir: "screenshots",
		LogLevel:      "info",
	}
}

// LoadConfig reads a TOML config file over the defaults. A missing file is
// not an error and yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML text over the defaults and validates the result.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("parse config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Window.Width < 1 || c.Window.Height < 1:
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.Canvas.Width < 1 || c.Canvas.Height < 1:
		return fmt.Errorf("config: canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	case c.Canvas.Zoom < MinZoom || c.Canvas.Zoom > MaxZoom:
		return fmt.Errorf("config: zoom %g outside [%g, %g]", c.Canvas.Zoom, MinZoom, MaxZoom)
	case c.Canvas.GridZoom < 0:
		return fmt.Errorf("config: grid_zoom %g is negative", c.Canvas.GridZoom)
	case c.HistoryLimit < 0:
		return fmt.Errorf("config: history_limit %d is negative", c.HistoryLimit)
	case c.Workers < 0:
		return fmt.Errorf("config: workers %d is negative", c.Workers)
	case c.ExportScale < 1:
		return fmt.Errorf("config: export_scale %d must be at least 1", c.ExportScale)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns LogLevel as a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}
