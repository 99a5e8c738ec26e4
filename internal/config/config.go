// Package config handles YAML configuration parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fullset/internal/collector"
)

// Config is the root configuration structure.
type Config struct {
	Simulation SimulationConfig      `yaml:"simulation"`
	Output     OutputConfig          `yaml:"output"`
	History    HistoryConfig         `yaml:"history"`
	Thresholds *collector.Thresholds `yaml:"thresholds,omitempty"`
}

// SimulationConfig controls the batch itself.
type SimulationConfig struct {
	// Trials is the number of independent trials to run.
	Trials int `yaml:"trials"`
	// Workers is the parallelism. Zero selects one worker per CPU.
	Workers int `yaml:"workers"`
	// Seed is the base random seed. Zero selects a time-based seed.
	Seed int64 `yaml:"seed"`
}

// OutputConfig controls reporting.
type OutputConfig struct {
	// Format selects the report format, "text" or "json".
	Format string `yaml:"format"`
	// Quiet suppresses progress output.
	Quiet bool `yaml:"quiet"`
	// Chart, when set, is a PNG path written after the run.
	Chart string `yaml:"chart"`
}

// HistoryConfig controls run persistence.
type HistoryConfig struct {
	// Enabled saves every completed run to the history database.
	Enabled bool `yaml:"enabled"`
	// Path overrides the default database location.
	Path string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file is given: the
// hundred-trial run, text report, history on.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{Trials: 100},
		Output:     OutputConfig{Format: "text"},
		History:    HistoryConfig{Enabled: true},
	}
}

// LoadConfig reads and parses a YAML configuration file. An empty path
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values that a YAML file could get wrong.
func (c *Config) Validate() error {
	if c.Simulation.Trials < 1 {
		return fmt.Errorf("simulation.trials must be at least 1: %d", c.Simulation.Trials)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers must not be negative: %d", c.Simulation.Workers)
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("output.format must be 'text' or 'json': %q", c.Output.Format)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	return nil
}

// HistoryPath returns the configured database path, falling back to the
// default location.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return DefaultHistoryPath()
}

// DefaultHistoryPath returns the default run database location under the
// XDG data home.
func DefaultHistoryPath() string {
	return filepath.Join(xdgDataHome(), "fullset", "runs.db")
}

func xdgDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}
