package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wesleyorama2/pulse/internal/simulate"
	"github.com/wesleyorama2/pulse/perf/metrics"
)

var reportStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleReport() *simulate.Report {
	return &simulate.Report{
		RunID:        "6f1c1f5e-0000-4000-8000-000000000001",
		Name:         "checkout",
		Seed:         1,
		Start:        reportStart,
		End:          reportStart.Add(2 * time.Hour),
		Consistency:  "best-effort",
		Limits:       []int64{10, 100, 1000},
		TotalSamples: 5,
		Overall: []metrics.CumulativeBucket{
			{Sum: 2, Total: 5, Limit: 10},
			{Sum: 3, Total: 5, Limit: 100},
			{Sum: 4, Total: 5, Limit: 1000},
		},
		Estimates: []simulate.Estimate{
			{Quantile: 50, Bucketed: 100, ReferenceMillis: 23.01},
			{Quantile: 99, Bucketed: metrics.Unbounded, Unbounded: true, ReferenceMillis: 1433.5},
		},
		Intervals: []simulate.IntervalReport{
			{Start: reportStart, Total: 4, P95: simulate.Estimate{Quantile: 95, Bucketed: 1000}},
			{Start: reportStart.Add(time.Hour), Total: 1, P95: simulate.Estimate{Quantile: 95, Bucketed: metrics.Unbounded, Unbounded: true}},
		},
		Hourly: simulate.HourlyReport{
			Hours:       1,
			Granularity: 30,
			Data:        []int64{4, 1},
			Max:         4,
			Min:         4,
		},
		Phases: []simulate.PhaseSummary{
			{Name: "warm", Start: reportStart, Duration: 2 * time.Hour, Samples: 5},
		},
	}
}

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()
	t.Setenv("FORCE_COLOR", "")
	var buf bytes.Buffer
	return NewConsole(ConsoleConfig{Writer: &buf}), &buf
}

func TestConsole_Report(t *testing.T) {
	console, buf := newTestConsole(t)
	console.Report(sampleReport())
	out := buf.String()

	assert.Contains(t, out, "checkout - Completed ✓")
	assert.Contains(t, out, "6f1c1f5e-0000-4000-8000-000000000001")
	assert.Contains(t, out, "2024-01-01 00:00 to 2024-01-01 02:00 (2h 00m 00s)")
	assert.Contains(t, out, "2 (40.0%) <= 10 ms")
	assert.Contains(t, out, "4 (80.0%) <= 1000 ms")
	assert.Contains(t, out, "1 above every limit")
	assert.Contains(t, out, "P50")
	assert.Contains(t, out, "<= 100 ms")
	assert.Contains(t, out, "(reference 23.01ms)")
	assert.Contains(t, out, "unbounded")
	assert.Contains(t, out, "(reference 1.43s)")
	assert.Contains(t, out, "2024-01-01 01:00")
	assert.Contains(t, out, "Hourly Window (1h, 30m buckets):")
	assert.Contains(t, out, "  4 1\n")
	assert.Contains(t, out, "warm")

	assert.NotContains(t, out, "\033[", "buffers are never colored")
}

func TestConsole_ReportWithoutIntervals(t *testing.T) {
	console, buf := newTestConsole(t)
	r := sampleReport()
	r.Intervals = nil
	r.Phases = nil
	console.Report(r)

	assert.NotContains(t, buf.String(), "Intervals")
	assert.NotContains(t, buf.String(), "Phases:")
}

func TestConsole_HourlyWraps(t *testing.T) {
	console, buf := newTestConsole(t)
	data := make([]int64, 24)
	for i := range data {
		data[i] = int64(i)
	}
	console.Hourly(simulate.HourlyReport{Hours: 2, Granularity: 5, Data: data, Max: 23, Min: 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Hourly Window (2h, 5m buckets):", lines[0])
	assert.Equal(t, "  0 1 2 3 4 5 6 7 8 9 10 11", lines[1])
	assert.Equal(t, "  12 13 14 15 16 17 18 19 20 21 22 23", lines[2])
	assert.Equal(t, "  Max: 23   Min: 1", lines[3])
}

func TestUseColors(t *testing.T) {
	var buf bytes.Buffer

	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	assert.False(t, UseColors(&buf, false), "buffers are not terminals")

	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, UseColors(&buf, false))
	assert.False(t, UseColors(&buf, true), "an explicit flag wins")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColors(&buf, false))
}

func TestConsole_ForcedColors(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "1")
	var buf bytes.Buffer
	console := NewConsole(ConsoleConfig{Writer: &buf})
	console.Report(sampleReport())

	assert.Contains(t, buf.String(), "\033[")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{1 * time.Second, "1.0s"},
		{1*time.Minute + 30*time.Second, "1m 30s"},
		{1*time.Hour + 2*time.Minute + 3*time.Second, "1h 02m 03s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.duration))
		})
	}
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "500µs", formatMillis(0.5))
	assert.Equal(t, "5.00ms", formatMillis(5))
	assert.Equal(t, "1.50s", formatMillis(1500))
}

func TestFormatQuantile(t *testing.T) {
	assert.Equal(t, "95", formatQuantile(95))
	assert.Equal(t, "99.9", formatQuantile(99.9))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		number   int64
		expected string
	}{
		{0, "0"},
		{100, "100"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatNumber(tt.number))
		})
	}
}

func TestColorSchemes(t *testing.T) {
	for _, c := range DefaultColorScheme().all() {
		assert.NotNil(t, c)
	}
	for _, c := range NoColorScheme().all() {
		assert.Equal(t, "text", c.Sprint("text"))
	}

	scheme := NoColorScheme()
	assert.Same(t, scheme.Good, scheme.coverage(99.5))
	assert.Same(t, scheme.Warn, scheme.coverage(95))
	assert.Same(t, scheme.Bad, scheme.coverage(40))
}

func TestIcons(t *testing.T) {
	assert.Equal(t, "✓", SuccessIcon(true))
	assert.Equal(t, "✗", ErrorIcon(true))
	assert.Equal(t, "⚠", WarningIcon(true))
	assert.Contains(t, SuccessIcon(false), "✓")
}
