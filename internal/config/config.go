// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"time"
)

// View names accepted by the viewer.
const (
	ViewWorld     = "world"
	ViewBuildings = "buildings"
	ViewTileMap   = "tilemap"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	View     ViewConfig     `yaml:"view"`
	Data     DataConfig     `yaml:"data"`
	Capture  CaptureConfig  `yaml:"capture"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ViewConfig selects what is rendered and how often.
type ViewConfig struct {
	Name         string        `yaml:"name"`          // world, buildings or tilemap
	TickInterval time.Duration `yaml:"tick_interval"` // period between rendered frames
}

// DataConfig holds the asset origin settings.
type DataConfig struct {
	BaseURL      string        `yaml:"base_url"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	ServeDir     string        `yaml:"serve_dir"`  // used by assetserver
	ServeAddr    string        `yaml:"serve_addr"` // used by assetserver
}

// CaptureConfig holds screenshot settings.
type CaptureConfig struct {
	OutputDir   string `yaml:"output_dir"`
	SaveHeatmap bool   `yaml:"save_heatmap"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1024,
			Height:     1024,
			Fullscreen: false,
			VSync:      true,
		},
		View: ViewConfig{
			Name:         ViewWorld,
			TickInterval: 100 * time.Millisecond,
		},
		Data: DataConfig{
			BaseURL:      "http://localhost:4200/assets/generated/",
			FetchTimeout: 30 * time.Second,
			ServeDir:     "assets/generated",
			ServeAddr:    "localhost:4200",
		},
		Capture: CaptureConfig{
			OutputDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports the first setting the viewer cannot run with.
func (c *Config) Validate() error {
	switch c.View.Name {
	case ViewWorld, ViewBuildings, ViewTileMap:
	default:
		return fmt.Errorf("unknown view %q (want %s, %s or %s)", c.View.Name, ViewWorld, ViewBuildings, ViewTileMap)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.View.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.View.TickInterval)
	}
	if c.Data.BaseURL == "" {
		return fmt.Errorf("data base url is empty")
	}
	if c.Data.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative, got %v", c.Data.FetchTimeout)
	}
	return nil
}
