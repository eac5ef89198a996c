package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultLimitUnit   = time.Millisecond
	DefaultInterval    = time.Hour
	DefaultIntervals   = 12
	DefaultHours       = 24
	DefaultGranularity = 60
	DefaultSeed        = 1
)

// LoadConfig loads, checks and validates a simulation from a file.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := ValidateDocument(data, path); err != nil {
		return nil, err
	}

	config, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseConfig parses configuration data.
//
// The format is determined by the file extension in path, or defaults to YAML
// if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (*SimulationConfig, error) {
	var config SimulationConfig

	if isJSON(path) {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
		return &config, nil
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return &config, nil
}

func isJSON(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}

// ApplyDefaults applies default values to a SimulationConfig.
func ApplyDefaults(config *SimulationConfig) {
	if config.Name == "" {
		config.Name = "simulation"
	}
	if config.Seed == 0 {
		config.Seed = DefaultSeed
	}
	if config.LimitUnit == 0 {
		config.LimitUnit = Duration(DefaultLimitUnit)
	}
	if config.Interval == 0 {
		config.Interval = Duration(DefaultInterval)
	}
	if config.Intervals == 0 {
		config.Intervals = DefaultIntervals
	}
	if config.Consistency == "" {
		config.Consistency = "best-effort"
	}
	if config.Hourly.Hours == 0 {
		config.Hourly.Hours = DefaultHours
	}
	if config.Hourly.Granularity == 0 {
		config.Hourly.Granularity = DefaultGranularity
	}

	for i := range config.Phases {
		applyPhaseDefaults(i, &config.Phases[i])
	}
}

// applyPhaseDefaults applies default values to a phase.
func applyPhaseDefaults(i int, phase *PhaseConfig) {
	if phase.Name == "" {
		phase.Name = fmt.Sprintf("phase_%d", i+1)
	}
	if phase.Distribution.Kind == "" {
		phase.Distribution.Kind = DistributionExponential
	}
	if phase.Distribution.Kind == DistributionExponential && phase.Distribution.Mean == 0 {
		phase.Distribution.Mean = Duration(100 * time.Millisecond)
	}
}

// TotalDuration returns the simulated time spanned by all phases.
func (c *SimulationConfig) TotalDuration() time.Duration {
	var total time.Duration
	for _, phase := range c.Phases {
		total += time.Duration(phase.Duration)
	}
	return total
}
