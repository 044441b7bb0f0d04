// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration for a simulation run.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Run        RunConfig        `yaml:"run"`
}

// SimulationConfig holds the parameters the engine reads every tick.
// The driver may replace it between ticks. Values are not validated;
// the engine is expected to degrade rather than fail on odd input.
type SimulationConfig struct {
	InitialPopulation int     `yaml:"initial_population"`
	FoodSpawnRate     float64 `yaml:"food_spawn_rate"`  // Probability of one food spawn per tick
	MutationRate      float64 `yaml:"mutation_rate"`    // Per-weight mutation probability
	EnergyDecay       float64 `yaml:"energy_decay"`     // Fixed energy loss per tick
	SensorRange       float64 `yaml:"sensor_range"`     // Distance normalization divisor
	SpeedMultiplier   float64 `yaml:"speed_multiplier"` // Scales brain thrust into world units per tick
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     int `yaml:"stats_window"`     // Ticks per stats window
	PerfWindow      int `yaml:"perf_window"`      // Ticks in the rolling perf average
	BookmarkHistory int `yaml:"bookmark_history"` // Windows kept by the bookmark detector
}

// RunConfig holds driver parameters.
type RunConfig struct {
	Seed     int64 `yaml:"seed"`      // 0 = time based
	MaxTicks int   `yaml:"max_ticks"` // 0 = unlimited
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

	return cfg, nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// DefaultSimulation returns the embedded default simulation parameters.
func DefaultSimulation() SimulationConfig {
	return Default().Simulation
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
