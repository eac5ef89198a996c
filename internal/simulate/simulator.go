// Package simulate replays synthetic latency traffic through the windowed
// counters on a simulated clock.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"

	"github.com/wesleyorama2/pulse/perf/config"
	"github.com/wesleyorama2/pulse/perf/metrics"
)

// Reference histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// DefaultStart is the simulated wall-clock time a run starts at.
var DefaultStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Quantiles reported in Report.Estimates.
var Quantiles = []float64{50, 90, 95, 99}

// Simulator feeds generated samples through an IntervalPercentileCounter,
// a lifetime PercentileCounter and an HourlyCounter, recording the same
// samples in an HDR histogram as the reference distribution.
//
// A Simulator runs once; create a new one per run.
type Simulator struct {
	cfg    *config.SimulationConfig
	logger *zap.Logger
	clock  *simClock
	rng    *rand.Rand

	intervals *metrics.IntervalPercentileCounter
	overall   *metrics.PercentileCounter
	hourly    *metrics.HourlyCounter
	reference *hdrhistogram.Histogram

	start  time.Time
	phases []PhaseSummary
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for progress messages.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStart sets the simulated start time (default DefaultStart).
func WithStart(start time.Time) Option {
	return func(s *Simulator) {
		s.start = start
	}
}

// New builds the counters described by cfg. cfg must have defaults applied.
func New(cfg *config.SimulationConfig, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		cfg:    cfg,
		logger: zap.NewNop(),
		start:  DefaultStart,
	}
	for _, opt := range opts {
		opt(s)
	}

	consistency, err := metrics.ParseConsistency(cfg.Consistency)
	if err != nil {
		return nil, err
	}

	s.clock = newSimClock(s.start)
	s.rng = rand.New(rand.NewSource(cfg.Seed))

	counterOpts := []metrics.Option{
		metrics.WithClock(s.clock),
		metrics.WithConsistency(consistency),
	}
	unit := cfg.LimitUnit.GetDuration(config.DefaultLimitUnit)

	s.intervals, err = metrics.NewIntervalPercentileCounter(
		cfg.Interval.GetDuration(config.DefaultInterval), cfg.Intervals, unit, cfg.Limits, counterOpts...)
	if err != nil {
		return nil, fmt.Errorf("interval counter: %w", err)
	}

	s.overall, err = metrics.NewPercentileCounter(unit, cfg.Limits, counterOpts...)
	if err != nil {
		return nil, fmt.Errorf("percentile counter: %w", err)
	}

	s.hourly, err = metrics.NewHourlyCounter(cfg.Hourly.Hours, cfg.Hourly.Granularity, counterOpts...)
	if err != nil {
		return nil, fmt.Errorf("hourly counter: %w", err)
	}

	s.reference = hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
	return s, nil
}

// Intervals returns the interval counter the simulation feeds.
func (s *Simulator) Intervals() *metrics.IntervalPercentileCounter {
	return s.intervals
}

// Hourly returns the hourly counter the simulation feeds.
func (s *Simulator) Hourly() *metrics.HourlyCounter {
	return s.hourly
}

// Run simulates every phase in order and returns the report.
//
// Each phase spreads its samples evenly over its duration: the clock
// advances by duration/samples before every sample. Cancelling ctx stops the
// run between samples and returns the context error.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	s.logger.Info("simulation started",
		zap.String("name", s.cfg.Name),
		zap.Int("phases", len(s.cfg.Phases)),
		zap.Duration("simulatedDuration", s.cfg.TotalDuration()),
	)

	for _, phase := range s.cfg.Phases {
		if err := s.runPhase(ctx, phase); err != nil {
			return nil, err
		}
	}

	report := s.buildReport()
	s.logger.Info("simulation finished",
		zap.String("runId", report.RunID),
		zap.Int64("samples", report.TotalSamples),
	)
	return report, nil
}

func (s *Simulator) runPhase(ctx context.Context, phase config.PhaseConfig) error {
	duration := time.Duration(phase.Duration)
	summary := PhaseSummary{
		Name:     phase.Name,
		Start:    s.clock.Now(),
		Duration: duration,
	}

	if phase.Samples == 0 {
		s.clock.Add(duration)
		s.phases = append(s.phases, summary)
		return nil
	}

	step := duration / time.Duration(phase.Samples)
	elapsed := time.Duration(0)
	gen := newGenerator(phase.Distribution, s.rng)

	for i := 0; i < phase.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// the last step absorbs the rounding remainder
		next := step
		if i == phase.Samples-1 {
			next = duration - elapsed
		}
		s.clock.Add(next)
		elapsed += next

		if err := s.record(gen.next()); err != nil {
			return fmt.Errorf("phase %s: %w", phase.Name, err)
		}
		summary.Samples++
	}

	s.logger.Debug("phase finished",
		zap.String("phase", phase.Name),
		zap.Int("samples", summary.Samples),
		zap.Time("simulatedTime", s.clock.Now()),
	)
	s.phases = append(s.phases, summary)
	return nil
}

// record feeds one sample that completed now after latency.
func (s *Simulator) record(latency time.Duration) error {
	started := s.clock.Now().Add(-latency)

	if err := s.intervals.IncrementSince(started); err != nil {
		return err
	}
	if err := s.overall.IncrementSince(started); err != nil {
		return err
	}
	s.hourly.Increment()

	// Clamp to the histogram's recordable range
	micros := latency.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}
	return s.reference.RecordValue(micros)
}
