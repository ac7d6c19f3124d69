// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Scene    SceneConfig    `yaml:"scene"`
	LOD      LODConfig      `yaml:"lod"`
	Stats    StatsConfig    `yaml:"stats"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	SAO        bool `yaml:"sao"`       // screen-space ambient occlusion
	LogDepth   bool `yaml:"log_depth"` // logarithmic depth buffer
}

// SceneConfig holds demo scene generation settings.
type SceneConfig struct {
	Buildings int   `yaml:"buildings"` // buildings per side of the demo grid
	Seed      int64 `yaml:"seed"`      // 0 picks a time-based seed
	Edges     bool  `yaml:"edges"`     // draw edge overlays
}

// LODConfig holds frame-rate driven culling settings.
type LODConfig struct {
	Enabled bool `yaml:"enabled"`
	// TargetFPS is the frame rate the culling controller defends.
	TargetFPS float64 `yaml:"target_fps"`
	// Thresholds are descending triangle counts; each defines one cull
	// bucket. Objects below the last threshold are never culled.
	Thresholds []int `yaml:"thresholds"`
}

// StatsConfig holds the frame metrics feed settings.
type StatsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			SAO:        true,
			LogDepth:   true,
		},
		Scene: SceneConfig{
			Buildings: 8,
			Seed:      0,
			Edges:     true,
		},
		LOD: LODConfig{
			Enabled:    true,
			TargetFPS:  30,
			Thresholds: []int{2000, 600, 150, 80, 20},
		},
		Stats: StatsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:8099",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
