// Package config provides configuration loading and access for the
// automaton runner.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/lattice/noisegen"
	"github.com/pthm-cable/lattice/rule"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all runner configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Rule      RuleConfig      `yaml:"rule"`
	Noise     NoiseConfig     `yaml:"noise"`
	Engine    EngineConfig    `yaml:"engine"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds domain sizing.
type WorldConfig struct {
	Size int `yaml:"size"` // Cells per axis; 0 = use the rule's own bounding size
}

// RuleConfig selects the automaton rule.
type RuleConfig struct {
	Preset      string   `yaml:"preset"`       // Builtin rule name (see rule.Presets)
	Notation    string   `yaml:"notation"`     // Custom "S/B/states/N" string; overrides preset when set
	ColorMethod string   `yaml:"color_method"` // single | state-lerp | dist-to-center | neighbour-count
	Colors      []string `yaml:"colors"`       // Two hex colors for the color method
}

// NoiseConfig holds pattern seeding parameters.
type NoiseConfig struct {
	Generator string  `yaml:"generator"` // simplex | scatter
	Radius    int     `yaml:"radius"`    // Seeding cube radius around the center
	Frequency float64 `yaml:"frequency"` // Simplex sample frequency
	Threshold float64 `yaml:"threshold"` // Simplex spawn threshold in [-1, 1]
	Amount    int     `yaml:"amount"`    // Scatter point count
}

// EngineConfig holds generation engine parameters.
type EngineConfig struct {
	Workers       int `yaml:"workers"`        // Task pool size; 0 = GOMAXPROCS
	ValidateEvery int `yaml:"validate_every"` // Run the counter validator every N generations; 0 = never
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Generations per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Workers int // Effective task pool size
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Workers = c.Engine.Workers
	if c.Derived.Workers <= 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
}

// BuildRule assembles the configured automaton rule.
func (c *Config) BuildRule() (rule.Rule, error) {
	if c.Rule.Notation == "" {
		return rule.FromPreset(c.Rule.Preset, c.World.Size)
	}

	if len(c.Rule.Colors) != 2 {
		return rule.Rule{}, fmt.Errorf("config: custom rule needs exactly 2 colors, got %d", len(c.Rule.Colors))
	}
	kind, err := rule.ParseColorKind(c.Rule.ColorMethod)
	if err != nil {
		return rule.Rule{}, err
	}
	color, err := rule.NewColorMethod(kind, c.Rule.Colors[0], c.Rule.Colors[1])
	if err != nil {
		return rule.Rule{}, err
	}

	bounding := c.World.Size
	if bounding == 0 {
		bounding = 64
	}
	return rule.Parse(c.Rule.Notation, color, bounding)
}

// BuildGenerator assembles the configured seeding generator.
func (c *Config) BuildGenerator(seed int64) (noisegen.Generator, error) {
	switch c.Noise.Generator {
	case "simplex":
		return noisegen.NewSimplex(seed, c.Noise.Radius, c.Noise.Frequency, c.Noise.Threshold), nil
	case "scatter":
		return noisegen.NewScatter(seed, c.Noise.Radius, c.Noise.Amount), nil
	}
	return nil, fmt.Errorf("config: unknown noise generator %q", c.Noise.Generator)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
