package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Distribution kinds.
const (
	DistributionConstant    = "constant"
	DistributionUniform     = "uniform"
	DistributionExponential = "exponential"
	DistributionNormal      = "normal"
)

// SimulationConfig is the root configuration of a simulation.
type SimulationConfig struct {
	// Name of the simulation (for reporting)
	Name string `json:"name" yaml:"name"`

	// Description of the simulation (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Seed makes sample generation reproducible
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Limits are the percentile bucket upper bounds, in LimitUnit
	Limits []int64 `json:"limits" yaml:"limits"`

	// LimitUnit is the unit of Limits (default: 1ms)
	LimitUnit Duration `json:"limitUnit,omitempty" yaml:"limitUnit,omitempty"`

	// Interval is the rotation interval of the percentile ring (default: 1h)
	Interval Duration `json:"interval,omitempty" yaml:"interval,omitempty"`

	// Intervals is the number of intervals retained (default: 12)
	Intervals int `json:"intervals,omitempty" yaml:"intervals,omitempty"`

	// Consistency is "best-effort" (default) or "strict"
	Consistency string `json:"consistency,omitempty" yaml:"consistency,omitempty"`

	// Hourly configures the hourly event counter
	Hourly HourlyConfig `json:"hourly,omitempty" yaml:"hourly,omitempty"`

	// Phases are simulated back to back
	Phases []PhaseConfig `json:"phases" yaml:"phases"`
}

// HourlyConfig configures the hourly counter window.
type HourlyConfig struct {
	// Hours is the window length (default: 24)
	Hours int `json:"hours,omitempty" yaml:"hours,omitempty"`

	// Granularity is the bucket length in minutes, a divisor of 60 (default: 60)
	Granularity int `json:"granularity,omitempty" yaml:"granularity,omitempty"`
}

// PhaseConfig is one stretch of simulated traffic.
type PhaseConfig struct {
	// Name of the phase (default: phase_<n>)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Duration of simulated wall-clock time the phase spans
	Duration Duration `json:"duration" yaml:"duration"`

	// Samples is the number of latency samples spread evenly over Duration
	Samples int `json:"samples" yaml:"samples"`

	// Distribution of sample latencies
	Distribution DistributionConfig `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// DistributionConfig describes how sample latencies are generated.
type DistributionConfig struct {
	// Kind is constant, uniform, exponential or normal (default: exponential)
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Value is the latency of every sample (constant)
	Value Duration `json:"value,omitempty" yaml:"value,omitempty"`

	// Min and Max bound the samples (uniform)
	Min Duration `json:"min,omitempty" yaml:"min,omitempty"`
	Max Duration `json:"max,omitempty" yaml:"max,omitempty"`

	// Mean of the samples (exponential, normal)
	Mean Duration `json:"mean,omitempty" yaml:"mean,omitempty"`

	// StdDev of the samples (normal)
	StdDev Duration `json:"stddev,omitempty" yaml:"stddev,omitempty"`
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings
// or numbers. Bare numbers are seconds.
type Duration time.Duration

// ParseDurationValue converts a loosely typed value into a duration.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as a number or numeric string: 30, "30"
func ParseDurationValue(v any) (time.Duration, error) {
	if v == nil {
		return 0, nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		v = s
	}

	if seconds, err := cast.ToFloat64E(v); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	d, err := cast.ToDurationE(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %v", v)
	}
	return d, nil
}

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	dur, err := ParseDurationValue(v)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}

	dur, err := ParseDurationValue(v)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
