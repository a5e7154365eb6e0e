package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the engine configuration. Zero fields in a file keep their
// defaults.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Streaming StreamingConfig `yaml:"streaming"`
	Meshing   MeshingConfig   `yaml:"meshing"`
	Edit      EditConfig      `yaml:"edit"`
	Log       LogConfig       `yaml:"log"`
}

// StreamingConfig controls the chunk streaming cadence and rate limits.
type StreamingConfig struct {
	ViewRadius        int    `yaml:"view_radius"`     // in chunks
	RecomputeEvery    int    `yaml:"recompute_every"` // engine ticks
	MaxNewPerTick     int    `yaml:"max_new_per_tick"`
	MaxUpdatesPerTick int    `yaml:"max_updates_per_tick"`
	DefragEvery       int    `yaml:"defrag_every"` // engine ticks
	DefragShards      int    `yaml:"defrag_shards"`
	Workers           int    `yaml:"workers"` // 0 = one per CPU
	Mode              string `yaml:"mode"`    // background | foreground
	ForegroundBudget  int    `yaml:"foreground_budget"`
}

const (
	ModeBackground = "background"
	ModeForeground = "foreground"
)

// MeshingConfig describes the texture atlas the UVs address.
type MeshingConfig struct {
	AtlasTiles int `yaml:"atlas_tiles"`
}

// EditConfig is the look-ray march used to pick the edited voxel.
type EditConfig struct {
	ReachSteps int     `yaml:"reach_steps"`
	StepLength float64 `yaml:"step_length"`
}

// LogConfig selects logger level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		World: defaultWorld(),
		Streaming: StreamingConfig{
			ViewRadius:        4,
			RecomputeEvery:    30,
			MaxNewPerTick:     3,
			MaxUpdatesPerTick: 10,
			DefragEvery:       300,
			DefragShards:      5,
			Workers:           0,
			Mode:              ModeBackground,
			ForegroundBudget:  1,
		},
		Meshing: MeshingConfig{AtlasTiles: 16},
		Edit:    EditConfig{ReachSteps: 100, StepLength: 0.05},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		cfg.Normalize()
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses YAML from r over the defaults and normalizes the result.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Normalize()
	return cfg, nil
}

// Validate rejects values that cannot be clamped into something sensible.
func (c *Config) Validate() error {
	switch c.Streaming.Mode {
	case ModeBackground, ModeForeground, "":
	default:
		return fmt.Errorf("config: unknown streaming mode %q", c.Streaming.Mode)
	}
	switch c.Log.Format {
	case "text", "json", "":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return c.World.validate()
}

// Normalize clamps every value into its supported range.
func (c *Config) Normalize() {
	c.World.normalize()

	s := &c.Streaming
	s.ViewRadius = clamp(s.ViewRadius, 1, 32)
	s.RecomputeEvery = clamp(s.RecomputeEvery, 1, 600)
	s.MaxNewPerTick = clamp(s.MaxNewPerTick, 1, 64)
	s.MaxUpdatesPerTick = clamp(s.MaxUpdatesPerTick, 1, 256)
	s.DefragEvery = clamp(s.DefragEvery, 1, 100000)
	s.DefragShards = clamp(s.DefragShards, 1, 10)
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	if s.Mode == "" {
		s.Mode = ModeBackground
	}
	s.ForegroundBudget = clamp(s.ForegroundBudget, 1, 16)

	c.Meshing.AtlasTiles = clamp(c.Meshing.AtlasTiles, 1, 256)

	c.Edit.ReachSteps = clamp(c.Edit.ReachSteps, 1, 1000)
	if c.Edit.StepLength <= 0 {
		c.Edit.StepLength = 0.05
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
