package simulate

import (
	"time"

	"github.com/google/uuid"

	"github.com/wesleyorama2/pulse/perf/metrics"
)

// Report contains the complete results of a simulation.
type Report struct {
	// RunID uniquely identifies this run
	RunID string `json:"runId"`

	// Name and Description come from the configuration
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Seed        int64  `json:"seed"`

	// Start and End are simulated wall-clock times
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Consistency string  `json:"consistency"`
	Limits      []int64 `json:"limits"`

	// TotalSamples counts every recorded sample, including those above every limit
	TotalSamples int64 `json:"totalSamples"`

	// Overall is the distribution over the whole run
	Overall []metrics.CumulativeBucket `json:"overall"`

	// Estimates compares bucketed percentiles to the reference histogram
	Estimates []Estimate `json:"estimates"`

	// Intervals holds the retained intervals, oldest first
	Intervals []IntervalReport `json:"intervals"`

	// Hourly is the hourly counter window
	Hourly HourlyReport `json:"hourly"`

	// Phases summarizes each simulated phase
	Phases []PhaseSummary `json:"phases"`
}

// Estimate is one quantile computed two ways.
type Estimate struct {
	// Quantile in percent (e.g. 95)
	Quantile float64 `json:"quantile"`

	// Bucketed is the limit estimate in milliseconds; meaningless when Unbounded
	Bucketed  int64 `json:"bucketed"`
	Unbounded bool  `json:"unbounded"`

	// ReferenceMillis is the HDR histogram value at the quantile
	ReferenceMillis float64 `json:"referenceMillis"`
}

// IntervalReport is the distribution of one retained interval.
type IntervalReport struct {
	Start   time.Time                  `json:"start"`
	Total   int64                      `json:"total"`
	Buckets []metrics.CumulativeBucket `json:"buckets"`
	P95     Estimate                   `json:"p95"`
}

// HourlyReport is the hourly counter's window and watermarks.
type HourlyReport struct {
	Hours       int                 `json:"hours"`
	Granularity int                 `json:"granularity"`
	Data        []int64             `json:"data"`
	Max         int64               `json:"max"`
	Min         int64               `json:"min"`
	State       metrics.HourlyState `json:"state"`
}

// PhaseSummary records what a phase did.
type PhaseSummary struct {
	Name     string        `json:"name"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Samples  int           `json:"samples"`
}

func (s *Simulator) buildReport() *Report {
	report := &Report{
		RunID:        uuid.NewString(),
		Name:         s.cfg.Name,
		Description:  s.cfg.Description,
		Seed:         s.cfg.Seed,
		Start:        s.start,
		End:          s.clock.Now(),
		Consistency:  s.cfg.Consistency,
		Limits:       s.overall.Limits(),
		TotalSamples: s.overall.Total(),
		Overall:      s.overall.ToList(),
		Phases:       s.phases,
	}

	for _, q := range Quantiles {
		report.Estimates = append(report.Estimates, s.estimate(s.overall, q))
	}

	// ToCountersList is oldest first and ends with the active interval
	views := s.intervals.ToCountersList()
	active := s.intervals.ActiveInterval()
	interval := s.intervals.Interval()
	for i, view := range views {
		report.Intervals = append(report.Intervals, IntervalReport{
			Start:   active.Add(-time.Duration(len(views)-1-i) * interval).UTC(),
			Total:   view.Total(),
			Buckets: view.ToList(),
			P95:     bucketedEstimate(view, 95),
		})
	}

	report.Hourly = HourlyReport{
		Hours:       s.hourly.Hours(),
		Granularity: s.hourly.Granularity(),
		Data:        s.hourly.Data(),
		Max:         s.hourly.Max(),
		Min:         s.hourly.Min(),
		State:       s.hourly.Snapshot(),
	}
	return report
}

func (s *Simulator) estimate(c metrics.Counter, q float64) Estimate {
	e := bucketedEstimate(c, q)
	if s.reference.TotalCount() > 0 {
		e.ReferenceMillis = float64(s.reference.ValueAtQuantile(q)) / 1000
	}
	return e
}

func bucketedEstimate(c metrics.Counter, q float64) Estimate {
	// q is always within range here
	v, _ := c.EstimatePercentile(q)
	return Estimate{
		Quantile:  q,
		Bucketed:  v,
		Unbounded: v == metrics.Unbounded,
	}
}
