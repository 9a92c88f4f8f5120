package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagView       = flag.String("view", "", "View to open: world, buildings or tilemap")
	flagDataURL    = flag.String("data-url", "", "Base URL of the generated assets")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagTick       = flag.Duration("tick", 0, "Render tick interval")
	flagServeDir   = flag.String("serve-dir", "", "Directory served by assetserver")
	flagServeAddr  = flag.String("serve-addr", "", "Listen address of assetserver")
	flagWrite      = flag.Bool("write-config", false, "Write the effective config to --config or the config dir and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteRequested reports whether --write-config was given.
func WriteRequested() bool {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagView != "" {
		cfg.View.Name = *flagView
	}
	if *flagDataURL != "" {
		cfg.Data.BaseURL = *flagDataURL
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagTick > 0 {
		cfg.View.TickInterval = *flagTick
	}
	if *flagServeDir != "" {
		cfg.Data.ServeDir = *flagServeDir
	}
	if *flagServeAddr != "" {
		cfg.Data.ServeAddr = *flagServeAddr
	}
}
