package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"nerikeshi/internal/geom"
	"nerikeshi/internal/paint"
	"nerikeshi/internal/session"
	"nerikeshi/internal/surface"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

type BrushConfig struct {
	Radius  float64 `toml:"radius"`
	Color   string  `toml:"color"`
	Opacity float64 `toml:"opacity"`
}

type EraserConfig struct {
	Size   float64 `toml:"size"`
	Radius float64 `toml:"radius"` // zero derives it from size
}

type GrowthConfig struct {
	MaxScale       float64 `toml:"max_scale"`
	Increment      float64 `toml:"increment"`
	AbsorberRadius float64 `toml:"absorber_radius"`
}

type Config struct {
	SaveDirectory string       `toml:"save_directory"`
	Confirmations bool         `toml:"confirmations"`
	Backend       string       `toml:"backend"`
	Width         float64      `toml:"width"`
	Height        float64      `toml:"height"`
	InkSpacing    float64      `toml:"ink_spacing"`
	FPS           int          `toml:"fps"`
	Seed          uint64       `toml:"seed"`
	LogFile       string       `toml:"log_file"`
	LogLevel      string       `toml:"log_level"`
	Brush         BrushConfig  `toml:"brush"`
	Eraser        EraserConfig `toml:"eraser"`
	Growth        GrowthConfig `toml:"growth"`
}

func defaultConfig() *Config {
	return &Config{
		Confirmations: true,
		Backend:       surface.Vector.String(),
		Width:         1280,
		Height:        720,
		InkSpacing:    8,
		FPS:           defaultFPS,
		LogLevel:      "info",
		Brush: BrushConfig{
			Radius:  1.5,
			Color:   "#333333",
			Opacity: 1,
		},
		Eraser: EraserConfig{
			Size: 20,
		},
		Growth: GrowthConfig{
			MaxScale:       8,
			Increment:      1e-5,
			AbsorberRadius: 24,
		},
	}
}

func configPath() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, configName), nil
}

// loadConfig reads ~/.nerikeshi.toml. A missing file is not an error; a
// broken one yields the defaults together with the parse error.
func loadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return defaultConfig(), nil
	}
	return loadConfigFrom(path)
}

func loadConfigFrom(path string) (*Config, error) {
	config := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, config); err != nil {
		return defaultConfig(), fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	config.SaveDirectory = expandPath(config.SaveDirectory)
	config.LogFile = expandPath(config.LogFile)
	return config, nil
}

func expandPath(value string) string {
	if value == "" {
		return value
	}
	if expanded, err := homedir.Expand(value); err == nil {
		value = expanded
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) logLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) inkColor() color.Color {
	col, err := colorful.Hex(c.Brush.Color)
	if err != nil {
		return paint.DefaultOptions().Color
	}
	return col
}

// sessionOptions maps the file settings onto the session. Unset or
// invalid values keep the session defaults.
func (c *Config) sessionOptions() (session.Options, error) {
	opts := session.DefaultOptions()
	kind, err := surface.ParseKind(c.Backend)
	if err != nil {
		return opts, err
	}
	opts.Backend = kind
	if c.Width > 0 && c.Height > 0 {
		opts.Width = c.Width
		opts.Height = c.Height
	}
	opts.AbsorberStart = geom.Pt(opts.Width/2, opts.Height/2)
	opts.Seed = c.Seed

	if c.InkSpacing > 0 {
		opts.Surface.Stroke.GapThreshold = c.InkSpacing * 4
	}
	if c.Brush.Radius > 0 {
		opts.Surface.Paint.BrushRadius = c.Brush.Radius
	}
	if c.Brush.Opacity > 0 {
		opts.Surface.Paint.Opacity = geom.Clamp01(c.Brush.Opacity)
	}
	opts.Surface.Paint.Color = c.inkColor()
	if c.Eraser.Size > 0 {
		opts.Surface.Paint.EraserSize = c.Eraser.Size
		opts.Erase.EraseRadius = paint.EraserRadius(c.Eraser.Size)
	}
	if c.Eraser.Radius > 0 {
		opts.Erase.EraseRadius = c.Eraser.Radius
	}

	if c.Growth.MaxScale > opts.Growth.MinScale {
		opts.Growth.MaxScale = c.Growth.MaxScale
	}
	if c.Growth.Increment > 0 {
		opts.Growth.Increment = c.Growth.Increment
	}
	if c.Growth.AbsorberRadius > 0 {
		opts.AbsorberRadius = c.Growth.AbsorberRadius
	}
	return opts, nil
}
