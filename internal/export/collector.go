// Package export publishes windowed counters as Prometheus metrics.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/wesleyorama2/pulse/perf/metrics"
)

// DefaultQuantiles are the estimates exported when none are configured.
var DefaultQuantiles = []float64{50, 90, 95, 99}

// Collector exposes a percentile counter and an hourly counter as gauges.
//
// Collecting never mutates the counters: interval counters are read at the
// last active interval and hourly counters are read from a snapshot, without
// catching up with the clock.
type Collector struct {
	percentile metrics.Counter
	hourly     *metrics.HourlyCounter
	quantiles  []float64

	bucketDesc   *prometheus.Desc
	totalDesc    *prometheus.Desc
	lifetimeDesc *prometheus.Desc
	estimateDesc *prometheus.Desc
	currentDesc  *prometheus.Desc
	maxDesc      *prometheus.Desc
	minDesc      *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// Option configures a Collector.
type Option func(*Collector)

// WithPercentileCounter exports c's cumulative buckets, total and estimates.
func WithPercentileCounter(c metrics.Counter) Option {
	return func(col *Collector) {
		col.percentile = c
	}
}

// WithHourlyCounter exports h's current bucket and watermarks.
func WithHourlyCounter(h *metrics.HourlyCounter) Option {
	return func(col *Collector) {
		col.hourly = h
	}
}

// WithQuantiles sets the exported percentile estimates, in percent.
func WithQuantiles(quantiles ...float64) Option {
	return func(col *Collector) {
		col.quantiles = quantiles
	}
}

// NewCollector creates a collector whose metric names start with namespace.
// constLabels are attached to every metric.
func NewCollector(namespace string, constLabels prometheus.Labels, opts ...Option) *Collector {
	col := &Collector{quantiles: DefaultQuantiles}
	for _, opt := range opts {
		opt(col)
	}

	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, constLabels)
	}
	col.bucketDesc = desc("percentile_bucket_cumulative", "Cumulative samples at or below the limit in milliseconds", "le")
	col.totalDesc = desc("percentile_total", "Samples in the reported window, including those above every limit")
	col.lifetimeDesc = desc("percentile_lifetime_total", "Samples recorded since creation, across every interval")
	col.estimateDesc = desc("percentile_estimate", "Estimated percentile limit in milliseconds, +Inf when unbounded", "quantile")
	col.currentDesc = desc("hourly_current", "Count in the current hourly bucket")
	col.maxDesc = desc("hourly_max", "Largest retired hourly bucket")
	col.minDesc = desc("hourly_min", "Smallest retired hourly bucket")
	return col
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	if c.percentile != nil {
		ch <- c.bucketDesc
		ch <- c.totalDesc
		ch <- c.lifetimeDesc
		ch <- c.estimateDesc
	}
	if c.hourly != nil {
		ch <- c.currentDesc
		ch <- c.maxDesc
		ch <- c.minDesc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.percentile != nil {
		c.collectPercentile(ch)
	}
	if c.hourly != nil {
		c.collectHourly(ch)
	}
}

func (c *Collector) collectPercentile(ch chan<- prometheus.Metric) {
	var total int64
	for b := range c.percentile.All() {
		ch <- prometheus.MustNewConstMetric(c.bucketDesc, prometheus.GaugeValue,
			float64(b.Sum), strconv.FormatInt(b.Limit, 10))
		total = b.Total
	}
	ch <- prometheus.MustNewConstMetric(c.bucketDesc, prometheus.GaugeValue, float64(total), "+Inf")

	// total matches the +Inf bucket; Total() spans rotated intervals
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.CounterValue, float64(total))
	ch <- prometheus.MustNewConstMetric(c.lifetimeDesc, prometheus.CounterValue, float64(c.percentile.Total()))

	for _, q := range c.quantiles {
		v, err := c.percentile.EstimatePercentile(q)
		if err != nil {
			ch <- prometheus.NewInvalidMetric(c.estimateDesc, err)
			continue
		}
		value := float64(v)
		if v == metrics.Unbounded {
			value = math.Inf(1)
		}
		ch <- prometheus.MustNewConstMetric(c.estimateDesc, prometheus.GaugeValue,
			value, strconv.FormatFloat(q, 'g', -1, 64))
	}
}

func (c *Collector) collectHourly(ch chan<- prometheus.Metric) {
	state := c.hourly.Snapshot()
	n := int64(len(state.Buckets))
	current := state.Buckets[(state.CurrentIndex%n+n)%n]

	ch <- prometheus.MustNewConstMetric(c.currentDesc, prometheus.GaugeValue, float64(current))
	ch <- prometheus.MustNewConstMetric(c.maxDesc, prometheus.GaugeValue, float64(state.Max))
	ch <- prometheus.MustNewConstMetric(c.minDesc, prometheus.GaugeValue, float64(state.Min))
}

// WriteText gathers g and writes it in the Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
