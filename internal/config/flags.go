package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagNoLOD      = flag.Bool("no-lod", false, "Disable frame-rate driven LOD culling")
	flagTargetFPS  = flag.Float64("target-fps", 0, "LOD culling target frame rate")
	flagBuildings  = flag.Int("buildings", 0, "Buildings per side of the demo grid")
	flagSeed       = flag.Int64("seed", 0, "Demo scene random seed")
	flagStats      = flag.String("stats", "", "Serve frame metrics on this address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
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
	if *flagNoLOD {
		cfg.LOD.Enabled = false
	}
	if *flagTargetFPS > 0 {
		cfg.LOD.TargetFPS = *flagTargetFPS
	}
	if *flagBuildings > 0 {
		cfg.Scene.Buildings = *flagBuildings
	}
	if *flagSeed != 0 {
		cfg.Scene.Seed = *flagSeed
	}
	if *flagStats != "" {
		cfg.Stats.Enabled = true
		cfg.Stats.ListenAddr = *flagStats
	}
}
