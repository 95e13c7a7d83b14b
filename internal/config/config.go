package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth      = 1080
	DefaultHeight     = 1920
	DefaultFPS        = 60
	DefaultDuration   = 30.0
	DefaultGravity    = 400.0
	DefaultElasticity = 1.02
	DefaultGates      = 5
	DefaultMinRadius  = 100.0
	DefaultSpacing    = 20.0
	DefaultThickness  = 15.0
	DefaultGapWidth   = 60.0
	DefaultRotation   = 60.0
	DefaultGapSpeed   = 10.0
	DefaultQueueSize  = 500
	DefaultShrink     = 0.85
	DefaultMinGate    = 100.0
	DefaultPassages   = 20
	DefaultBitrate    = "8000k"
)

// ConfigurationError marks a config value the generator refuses to run
// with. Distinct from I/O and YAML errors so the CLI can report it as user
// error rather than a crash.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

type Config struct {
	Video    VideoConfig    `yaml:"video"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Gates    GatesConfig    `yaml:"gates"`
	Balls    BallsConfig    `yaml:"balls"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Seed     int64          `yaml:"seed"`
	Colors   []string       `yaml:"colors"`
}

type VideoConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	FPS      int     `yaml:"fps"`
	Duration float64 `yaml:"duration"`
	Bitrate  string  `yaml:"bitrate"`
}

type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"`
}

type GatesConfig struct {
	Mode          string  `yaml:"mode"` // "cascade" or "infinite"
	Count         int     `yaml:"count"`
	MinRadius     float64 `yaml:"min_radius"`
	Spacing       float64 `yaml:"spacing"`
	Thickness     float64 `yaml:"thickness"`
	GapWidth      float64 `yaml:"gap_width"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	GapSpeedStep  float64 `yaml:"gap_speed_step"`
	StartAngle    float64 `yaml:"start_angle"`
	RandomGap     bool    `yaml:"random_gap"`
	AllOpen       bool    `yaml:"all_open"`
	ShrinkFactor  float64 `yaml:"shrink_factor"`
	MinGateRadius float64 `yaml:"min_gate_radius"`
	MaxPassages   int     `yaml:"max_passages"`
}

type BallsConfig struct {
	Count      int     `yaml:"count"`
	Radius     float64 `yaml:"radius"`
	Elasticity float64 `yaml:"elasticity"`
}

type PipelineConfig struct {
	QueueSize int    `yaml:"queue_size"`
	OnFull    string `yaml:"on_full"` // "drop_oldest" or "block"
	Glow      bool   `yaml:"glow"`
}

func DefaultConfig() *Config {
	return &Config{
		Video: VideoConfig{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			FPS:      DefaultFPS,
			Duration: DefaultDuration,
			Bitrate:  DefaultBitrate,
		},
		Physics: PhysicsConfig{
			Gravity: DefaultGravity,
		},
		Gates: GatesConfig{
			Mode:          "cascade",
			Count:         DefaultGates,
			MinRadius:     DefaultMinRadius,
			Spacing:       DefaultSpacing,
			Thickness:     DefaultThickness,
			GapWidth:      DefaultGapWidth,
			RotationSpeed: DefaultRotation,
			GapSpeedStep:  DefaultGapSpeed,
			ShrinkFactor:  DefaultShrink,
			MinGateRadius: DefaultMinGate,
			MaxPassages:   DefaultPassages,
		},
		Balls: BallsConfig{
			Count:      1,
			Radius:     15,
			Elasticity: DefaultElasticity,
		},
		Pipeline: PipelineConfig{
			QueueSize: DefaultQueueSize,
			OnFull:    "drop_oldest",
			Glow:      true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configs the simulation cannot run with. Returns the
// first problem found.
func (c *Config) Validate() error {
	switch {
	case c.Video.Width <= 0 || c.Video.Height <= 0:
		return &ConfigurationError{"video.width/height", "must be positive"}
	case c.Video.FPS <= 0:
		return &ConfigurationError{"video.fps", "must be positive"}
	case c.Video.Duration <= 0:
		return &ConfigurationError{"video.duration", "must be positive"}
	}

	if c.Gates.Mode != "cascade" && c.Gates.Mode != "infinite" {
		return &ConfigurationError{"gates.mode", `must be "cascade" or "infinite"`}
	}
	switch {
	case c.Gates.Count < 1:
		return &ConfigurationError{"gates.count", "need at least one gate"}
	case c.Gates.Thickness <= 0:
		return &ConfigurationError{"gates.thickness", "must be positive"}
	case c.Gates.MinRadius <= c.Gates.Thickness:
		return &ConfigurationError{"gates.min_radius", "must exceed the band thickness"}
	case c.Gates.GapWidth < 0 || c.Gates.GapWidth > 360:
		return &ConfigurationError{"gates.gap_width", "must be within [0, 360] degrees"}
	case c.Gates.ShrinkFactor <= 0 || c.Gates.ShrinkFactor >= 1:
		return &ConfigurationError{"gates.shrink_factor", "must be within (0, 1)"}
	}

	switch {
	case c.Balls.Count < 1:
		return &ConfigurationError{"balls.count", "need at least one ball"}
	case c.Balls.Radius <= 0:
		return &ConfigurationError{"balls.radius", "must be positive"}
	case c.Balls.Elasticity <= 0:
		return &ConfigurationError{"balls.elasticity", "must be positive"}
	}

	if c.Pipeline.QueueSize < 1 {
		return &ConfigurationError{"pipeline.queue_size", "need at least one slot"}
	}
	if c.Pipeline.OnFull != "drop_oldest" && c.Pipeline.OnFull != "block" {
		return &ConfigurationError{"pipeline.on_full", `must be "drop_oldest" or "block"`}
	}
	return nil
}
