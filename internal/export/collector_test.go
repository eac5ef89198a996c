package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/pulse/perf/metrics"
)

func newMockClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return mock
}

func referenceCounter(t *testing.T) *metrics.PercentileCounter {
	t.Helper()
	pc, err := metrics.NewPercentileCounter(time.Millisecond, []int64{10, 100, 1000})
	require.NoError(t, err)
	for _, ms := range []int64{3, 4, 23, 124, 1433} {
		require.NoError(t, pc.Increment(ms))
	}
	return pc
}

func TestCollector_Percentile(t *testing.T) {
	col := NewCollector("pulse", prometheus.Labels{"counter": "checkout"},
		WithPercentileCounter(referenceCounter(t)),
		WithQuantiles(50, 90),
	)

	expected := `
# HELP pulse_percentile_bucket_cumulative Cumulative samples at or below the limit in milliseconds
# TYPE pulse_percentile_bucket_cumulative gauge
pulse_percentile_bucket_cumulative{counter="checkout",le="10"} 2
pulse_percentile_bucket_cumulative{counter="checkout",le="100"} 3
pulse_percentile_bucket_cumulative{counter="checkout",le="1000"} 4
pulse_percentile_bucket_cumulative{counter="checkout",le="+Inf"} 5
# HELP pulse_percentile_total Samples in the reported window, including those above every limit
# TYPE pulse_percentile_total counter
pulse_percentile_total{counter="checkout"} 5
# HELP pulse_percentile_lifetime_total Samples recorded since creation, across every interval
# TYPE pulse_percentile_lifetime_total counter
pulse_percentile_lifetime_total{counter="checkout"} 5
# HELP pulse_percentile_estimate Estimated percentile limit in milliseconds, +Inf when unbounded
# TYPE pulse_percentile_estimate gauge
pulse_percentile_estimate{counter="checkout",quantile="50"} 100
pulse_percentile_estimate{counter="checkout",quantile="90"} +Inf
`
	err := testutil.CollectAndCompare(col, strings.NewReader(expected))
	assert.NoError(t, err)
}

func TestCollector_Hourly(t *testing.T) {
	mock := newMockClock()
	hc, err := metrics.NewHourlyCounter(1, 30, metrics.WithClock(mock))
	require.NoError(t, err)

	hc.IncrementBy(3)
	// two rollovers retire the empty slot and then the one holding 3
	mock.Add(time.Hour)
	hc.Increment()

	col := NewCollector("pulse", nil, WithHourlyCounter(hc))
	expected := `
# HELP pulse_hourly_current Count in the current hourly bucket
# TYPE pulse_hourly_current gauge
pulse_hourly_current 1
# HELP pulse_hourly_max Largest retired hourly bucket
# TYPE pulse_hourly_max gauge
pulse_hourly_max 3
# HELP pulse_hourly_min Smallest retired hourly bucket
# TYPE pulse_hourly_min gauge
pulse_hourly_min 3
`
	assert.NoError(t, testutil.CollectAndCompare(col, strings.NewReader(expected)))
}

func TestCollector_DoesNotAdvanceCounters(t *testing.T) {
	mock := newMockClock()
	ic, err := metrics.NewIntervalPercentileCounter(time.Hour, 4, time.Millisecond, []int64{10},
		metrics.WithClock(mock))
	require.NoError(t, err)
	hc, err := metrics.NewHourlyCounter(1, 15, metrics.WithClock(mock))
	require.NoError(t, err)

	require.NoError(t, ic.Increment(5))
	hc.Increment()
	active := ic.ActiveInterval()
	index := hc.CurrentIndex()

	mock.Add(3 * time.Hour)
	col := NewCollector("pulse", nil, WithPercentileCounter(ic), WithHourlyCounter(hc))
	assert.Equal(t, 11, testutil.CollectAndCount(col))

	assert.True(t, active.Equal(ic.ActiveInterval()))
	assert.Equal(t, index, hc.CurrentIndex())

	// the current bucket is reported as of the last write
	expected := `
# HELP pulse_hourly_current Count in the current hourly bucket
# TYPE pulse_hourly_current gauge
pulse_hourly_current 1
`
	assert.NoError(t, testutil.CollectAndCompare(col, strings.NewReader(expected), "pulse_hourly_current"))
}

func TestCollector_IntervalTotalMatchesWindow(t *testing.T) {
	mock := newMockClock()
	ic, err := metrics.NewIntervalPercentileCounter(time.Hour, 4, time.Millisecond, []int64{10, 100},
		metrics.WithClock(mock))
	require.NoError(t, err)

	require.NoError(t, ic.Increment(5))
	require.NoError(t, ic.Increment(50))
	mock.Add(time.Hour)
	require.NoError(t, ic.Increment(500))

	col := NewCollector("pulse", nil, WithPercentileCounter(ic), WithQuantiles(50))
	expected := `
# HELP pulse_percentile_bucket_cumulative Cumulative samples at or below the limit in milliseconds
# TYPE pulse_percentile_bucket_cumulative gauge
pulse_percentile_bucket_cumulative{le="10"} 0
pulse_percentile_bucket_cumulative{le="100"} 0
pulse_percentile_bucket_cumulative{le="+Inf"} 1
# HELP pulse_percentile_total Samples in the reported window, including those above every limit
# TYPE pulse_percentile_total counter
pulse_percentile_total 1
# HELP pulse_percentile_lifetime_total Samples recorded since creation, across every interval
# TYPE pulse_percentile_lifetime_total counter
pulse_percentile_lifetime_total 3
`
	assert.NoError(t, testutil.CollectAndCompare(col, strings.NewReader(expected),
		"pulse_percentile_bucket_cumulative", "pulse_percentile_total", "pulse_percentile_lifetime_total"))
}

func TestCollector_DescribeOnlyConfigured(t *testing.T) {
	col := NewCollector("pulse", nil)
	ch := make(chan *prometheus.Desc, 10)
	col.Describe(ch)
	close(ch)
	assert.Empty(t, ch)

	assert.Equal(t, 0, testutil.CollectAndCount(col))
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector("pulse", nil, WithPercentileCounter(referenceCounter(t)))))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector("pulse", nil, WithPercentileCounter(referenceCounter(t)), WithQuantiles(50)))

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))

	out := buf.String()
	assert.Contains(t, out, "# TYPE pulse_percentile_total counter\n")
	assert.Contains(t, out, `pulse_percentile_bucket_cumulative{le="10"} 2`)
	assert.Contains(t, out, `pulse_percentile_estimate{quantile="50"} 100`)
}
