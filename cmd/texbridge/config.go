// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/gogpu/texbridge"
	"github.com/gogpu/texbridge/surface"
)

// Config is the demo configuration, read from a TOML file.
type Config struct {
	Backend      string `koanf:"backend"` // registry name; empty picks the best available
	Width        int    `koanf:"width"`
	Height       int    `koanf:"height"`
	Output       string `koanf:"output"`
	LogLevel     string `koanf:"log_level"` // "debug", "info", "warn", "error"
	Access       string `koanf:"access"`    // "gpu", "gpu-cpu", "write-combined"
	RecycleLimit int    `koanf:"recycle_limit"`
	Frames       int    `koanf:"frames"`

	Canvas CanvasConfig `koanf:"canvas"`
	Media  MediaConfig  `koanf:"media"`
}

// CanvasConfig sizes the canvas image.
type CanvasConfig struct {
	Width  int `koanf:"width"`
	Height int `koanf:"height"`
}

// MediaConfig controls the media image.
type MediaConfig struct {
	Enabled bool `koanf:"enabled"`
	Width   int  `koanf:"width"`
	Height  int  `koanf:"height"`
}

func defaultConfig() *Config {
	return &Config{
		Width:        320,
		Height:       240,
		Output:       "texbridge.png",
		LogLevel:     "info",
		Access:       "gpu",
		RecycleLimit: 2,
		Frames:       3,
		Canvas:       CanvasConfig{Width: 160, Height: 120},
		Media:        MediaConfig{Enabled: true, Width: 64, Height: 64},
	}
}

// loadConfig reads path over the defaults. A missing file is not an error
// unless required is set.
func loadConfig(path string, required bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if required {
			return nil, fmt.Errorf("config: %w", err)
		}
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	cfg.Backend = strings.TrimSpace(cfg.Backend)
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Size().Empty() {
		return fmt.Errorf("config: invalid surface size %dx%d", c.Width, c.Height)
	}
	if texbridge.Sz(c.Canvas.Width, c.Canvas.Height).Empty() {
		return fmt.Errorf("config: invalid canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Media.Enabled && texbridge.Sz(c.Media.Width, c.Media.Height).Empty() {
		return fmt.Errorf("config: invalid media size %dx%d", c.Media.Width, c.Media.Height)
	}
	if c.Frames < 1 {
		return fmt.Errorf("config: frames must be at least 1, got %d", c.Frames)
	}
	if _, err := c.SurfaceAccess(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Size returns the surface size.
func (c *Config) Size() texbridge.Size {
	return texbridge.Sz(c.Width, c.Height)
}

// SurfaceAccess maps the access setting.
func (c *Config) SurfaceAccess() (surface.Access, error) {
	switch strings.ToLower(c.Access) {
	case "", "gpu":
		return surface.AccessGPUOnly, nil
	case "gpu-cpu":
		return surface.AccessGPUCPU, nil
	case "write-combined":
		return surface.AccessGPUCPUWriteCombined, nil
	default:
		return 0, fmt.Errorf("config: unknown access %q", c.Access)
	}
}

// Level maps the log level setting.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return l, nil
}
