package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/wesleyorama2/pulse/perf/metrics"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// validationErrors accumulates field errors into one multierr error.
type validationErrors struct {
	err error
}

func (v *validationErrors) add(field, format string, args ...any) {
	v.err = multierr.Append(v.err, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Validate validates the simulation configuration.
//
// Returns nil if valid, or a multierr error combining one *ValidationError per
// problem; use multierr.Errors to list them.
func (c *SimulationConfig) Validate() error {
	errs := &validationErrors{}

	validateLimits(c.Limits, errs)

	if c.LimitUnit < 0 {
		errs.add("limitUnit", "must be positive, got %v", c.LimitUnit)
	}
	if c.Interval != 0 && time.Duration(c.Interval) < time.Millisecond {
		errs.add("interval", "must be at least 1ms, got %v", c.Interval)
	}
	if c.Intervals < 0 {
		errs.add("intervals", "must be positive, got %d", c.Intervals)
	}
	if _, err := metrics.ParseConsistency(c.Consistency); err != nil {
		errs.add("consistency", "%v", err)
	}

	validateHourly(&c.Hourly, errs)

	if len(c.Phases) == 0 {
		errs.add("phases", "at least one phase is required")
	}
	for i := range c.Phases {
		validatePhase(i, &c.Phases[i], errs)
	}

	return errs.err
}

func validateLimits(limits []int64, errs *validationErrors) {
	if len(limits) == 0 {
		errs.add("limits", "at least one limit is required")
		return
	}

	seen := make(map[int64]bool, len(limits))
	for i, limit := range limits {
		field := fmt.Sprintf("limits[%d]", i)
		if limit < 0 {
			errs.add(field, "must not be negative, got %d", limit)
		}
		if seen[limit] {
			errs.add(field, "duplicate limit %d", limit)
		}
		seen[limit] = true
	}
}

func validateHourly(h *HourlyConfig, errs *validationErrors) {
	if h.Hours < 0 {
		errs.add("hourly.hours", "must be positive, got %d", h.Hours)
	}
	if h.Granularity != 0 && (h.Granularity < 0 || h.Granularity > 60 || 60%h.Granularity != 0) {
		errs.add("hourly.granularity", "must evenly divide 60, got %d", h.Granularity)
	}
}

func validatePhase(i int, phase *PhaseConfig, errs *validationErrors) {
	prefix := fmt.Sprintf("phases[%d]", i)

	if phase.Duration <= 0 {
		errs.add(prefix+".duration", "must be positive")
	}
	if phase.Samples < 0 {
		errs.add(prefix+".samples", "must not be negative, got %d", phase.Samples)
	}

	d := phase.Distribution
	field := prefix + ".distribution"
	switch d.Kind {
	case "", DistributionExponential:
		if d.Mean < 0 {
			errs.add(field+".mean", "must not be negative")
		}
	case DistributionConstant:
		if d.Value < 0 {
			errs.add(field+".value", "must not be negative")
		}
	case DistributionUniform:
		if d.Min < 0 {
			errs.add(field+".min", "must not be negative")
		}
		if d.Max < d.Min {
			errs.add(field+".max", "must be at least min (%v), got %v", d.Min, d.Max)
		}
	case DistributionNormal:
		if d.Mean < 0 {
			errs.add(field+".mean", "must not be negative")
		}
		if d.StdDev < 0 {
			errs.add(field+".stddev", "must not be negative")
		}
	default:
		errs.add(field+".kind", "unknown distribution %q", d.Kind)
	}
}
