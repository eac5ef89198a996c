package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestParseDurationValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected time.Duration
		wantErr  bool
	}{
		{name: "standard seconds", input: "30s", expected: 30 * time.Second},
		{name: "standard hours", input: "1h", expected: time.Hour},
		{name: "milliseconds", input: "500ms", expected: 500 * time.Millisecond},
		{name: "combined duration", input: "1h30m", expected: 90 * time.Minute},
		{name: "integer string as seconds", input: "30", expected: 30 * time.Second},
		{name: "integer as seconds", input: 45, expected: 45 * time.Second},
		{name: "float as seconds", input: 1.5, expected: 1500 * time.Millisecond},
		{name: "empty string", input: "", expected: 0},
		{name: "nil", input: nil, expected: 0},
		{name: "invalid format", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationValue(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDurationValue(%v) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDurationValue(%v) unexpected error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseDurationValue(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

const yamlConfig = `
name: checkout
seed: 7
limits: [10, 100, 1000]
interval: 30m
intervals: 4
consistency: strict
hourly:
  hours: 2
  granularity: 15
phases:
  - name: warm
    duration: 1h
    samples: 100
    distribution:
      kind: uniform
      min: 5ms
      max: 50ms
  - duration: 90
    samples: 10
`

func TestParseConfig_YAML(t *testing.T) {
	cfg, err := ParseConfig([]byte(yamlConfig), "sim.yaml")
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.Name)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, []int64{10, 100, 1000}, cfg.Limits)
	assert.Equal(t, 30*time.Minute, time.Duration(cfg.Interval))
	assert.Equal(t, 4, cfg.Intervals)
	assert.Equal(t, "strict", cfg.Consistency)
	assert.Equal(t, HourlyConfig{Hours: 2, Granularity: 15}, cfg.Hourly)
	require.Len(t, cfg.Phases, 2)
	assert.Equal(t, time.Hour, time.Duration(cfg.Phases[0].Duration))
	assert.Equal(t, DistributionUniform, cfg.Phases[0].Distribution.Kind)
	assert.Equal(t, 50*time.Millisecond, time.Duration(cfg.Phases[0].Distribution.Max))
	assert.Equal(t, 90*time.Second, time.Duration(cfg.Phases[1].Duration))
}

func TestParseConfig_JSON(t *testing.T) {
	data := `{"limits": [1, 2], "limitUnit": "1s", "phases": [{"duration": "10m", "samples": 3,
		"distribution": {"kind": "constant", "value": 1.5}}]}`

	cfg, err := ParseConfig([]byte(data), "sim.json")
	require.NoError(t, err)
	assert.Equal(t, time.Second, time.Duration(cfg.LimitUnit))
	assert.Equal(t, 1500*time.Millisecond, time.Duration(cfg.Phases[0].Distribution.Value))

	_, err = ParseConfig([]byte(`{"limits": [`), "sim.json")
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &SimulationConfig{
		Limits: []int64{10},
		Phases: []PhaseConfig{{Duration: Duration(time.Hour), Samples: 1}},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, "simulation", cfg.Name)
	assert.Equal(t, int64(DefaultSeed), cfg.Seed)
	assert.Equal(t, DefaultLimitUnit, time.Duration(cfg.LimitUnit))
	assert.Equal(t, DefaultInterval, time.Duration(cfg.Interval))
	assert.Equal(t, DefaultIntervals, cfg.Intervals)
	assert.Equal(t, "best-effort", cfg.Consistency)
	assert.Equal(t, DefaultHours, cfg.Hourly.Hours)
	assert.Equal(t, DefaultGranularity, cfg.Hourly.Granularity)
	assert.Equal(t, "phase_1", cfg.Phases[0].Name)
	assert.Equal(t, DistributionExponential, cfg.Phases[0].Distribution.Kind)
	assert.Equal(t, 100*time.Millisecond, time.Duration(cfg.Phases[0].Distribution.Mean))
	assert.Equal(t, time.Hour, cfg.TotalDuration())
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlConfig), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "phase_2", cfg.Phases[1].Name)
	assert.Equal(t, time.Hour+90*time.Second, cfg.TotalDuration())
}

func TestLoadConfig_SchemaViolations(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.yaml")
	content := `
limits: [10, -1]
intervals: 0
bogus: true
phases:
  - duration: 1h
    samples: 1
    distribution:
      kind: pareto
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.GreaterOrEqual(t, len(multierr.Errors(err)), 4)

	var fields []string
	for _, e := range multierr.Errors(err) {
		var ve *ValidationError
		if assert.ErrorAs(t, e, &ve) {
			fields = append(fields, ve.Field)
		}
	}
	assert.Contains(t, fields, "limits.1")
	assert.Contains(t, fields, "intervals")
	assert.Contains(t, fields, "phases.0.distribution.kind")
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/sim.yaml")
	assert.Error(t, err)
}
