// Package output renders simulation reports and hourly windows for the
// terminal, and as JSON or YAML documents.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/wesleyorama2/pulse/internal/simulate"
	"github.com/wesleyorama2/pulse/perf/metrics"
)

const (
	ruleWidth      = 56
	ruleHorizontal = "━"
	timeLayout     = "2006-01-02 15:04"
)

// Console writes human-readable reports.
type Console struct {
	writer  io.Writer
	colors  *ColorScheme
	noColor bool
}

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer  io.Writer
	NoColor bool
}

// NewConsole creates a console renderer. Colors are used only when the
// writer is a terminal and NoColor is unset.
func NewConsole(config ConsoleConfig) *Console {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	c := &Console{writer: config.Writer}
	if UseColors(config.Writer, config.NoColor) {
		c.colors = DefaultColorScheme()
		// fatih/color disables itself globally when stdout is not a TTY
		for _, col := range c.colors.all() {
			col.EnableColor()
		}
	} else {
		c.colors = NoColorScheme()
		c.noColor = true
	}
	return c
}

// Report prints a simulation report.
func (c *Console) Report(r *simulate.Report) {
	c.header(r.Name, fmt.Sprintf("Completed %s", SuccessIcon(c.noColor)))

	c.field("Run ID", r.RunID)
	c.field("Simulated", fmt.Sprintf("%s to %s (%s)",
		r.Start.UTC().Format(timeLayout), r.End.UTC().Format(timeLayout), formatDuration(r.End.Sub(r.Start))))
	c.field("Samples", formatNumber(r.TotalSamples))
	c.field("Consistency", r.Consistency)
	c.field("Seed", fmt.Sprintf("%d", r.Seed))
	c.writeln("")

	c.section("Latency Distribution:")
	c.buckets(r.Overall, r.TotalSamples)
	c.writeln("")

	c.section("Percentile Estimates:")
	for _, e := range r.Estimates {
		c.writeln(fmt.Sprintf("  P%-4s %-14s %s",
			formatQuantile(e.Quantile),
			c.estimate(e),
			c.colors.Dim.Sprintf("(reference %s)", formatMillis(e.ReferenceMillis))))
	}
	c.writeln("")

	if len(r.Intervals) > 0 {
		c.section("Intervals (oldest first):")
		for _, ir := range r.Intervals {
			c.writeln(fmt.Sprintf("  %s  %s  P95 %s",
				c.colors.Label.Sprint(ir.Start.UTC().Format(timeLayout)),
				c.colors.Value.Sprintf("%8s", formatNumber(ir.Total)),
				c.estimate(ir.P95)))
		}
		c.writeln("")
	}

	c.Hourly(r.Hourly)

	if len(r.Phases) > 0 {
		c.section("Phases:")
		for _, p := range r.Phases {
			c.writeln(fmt.Sprintf("  %-16s %s  %-12s %s samples",
				c.colors.Highlight.Sprint(p.Name),
				p.Start.UTC().Format(timeLayout),
				formatDuration(p.Duration),
				formatNumber(int64(p.Samples))))
		}
		c.writeln("")
	}
}

// Hourly prints an hourly window, oldest bucket first.
func (c *Console) Hourly(h simulate.HourlyReport) {
	c.section(fmt.Sprintf("Hourly Window (%dh, %dm buckets):", h.Hours, h.Granularity))

	values := make([]string, len(h.Data))
	for i, v := range h.Data {
		values[i] = formatNumber(v)
	}
	for _, line := range wrap(values, 12) {
		c.writeln("  " + line)
	}

	c.writeln(fmt.Sprintf("  %s %s   %s %s",
		c.colors.Label.Sprint("Max:"), c.colors.Value.Sprint(formatNumber(h.Max)),
		c.colors.Label.Sprint("Min:"), c.colors.Value.Sprint(formatNumber(h.Min))))
	c.writeln("")
}

func (c *Console) buckets(buckets []metrics.CumulativeBucket, total int64) {
	var covered int64
	for _, b := range buckets {
		c.writeln("  " + c.colors.coverage(b.Percentage()).Sprint(b.String()))
		covered = b.Sum
	}
	if above := total - covered; above > 0 {
		c.writeln(fmt.Sprintf("  %s %s",
			c.colors.Bad.Sprint(formatNumber(above)),
			c.colors.Dim.Sprint("above every limit")))
	}
}

func (c *Console) estimate(e simulate.Estimate) string {
	if e.Unbounded {
		return c.colors.Bad.Sprint("unbounded")
	}
	return c.colors.Limit.Sprintf("<= %d ms", e.Bucketed)
}

func (c *Console) header(title, status string) {
	line := c.colors.Rule.Sprint(strings.Repeat(ruleHorizontal, ruleWidth))
	c.writeln(line)
	c.writeln(fmt.Sprintf("%s - %s", c.colors.Title.Sprint(title), c.colors.Good.Sprint(status)))
	c.writeln(line)
	c.writeln("")
}

func (c *Console) section(title string) {
	c.writeln(c.colors.Title.Sprint(title))
}

func (c *Console) field(label, value string) {
	c.writeln(fmt.Sprintf("%s %s", c.colors.Label.Sprintf("%-14s", label+":"), c.colors.Value.Sprint(value)))
}

func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// Helper functions

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatMillis formats a fractional millisecond value.
func formatMillis(ms float64) string {
	if ms < 1 {
		return fmt.Sprintf("%.0fµs", ms*1000)
	}
	if ms < 1000 {
		return fmt.Sprintf("%.2fms", ms)
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

// formatQuantile drops a trailing ".0" from whole quantiles.
func formatQuantile(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return fmt.Sprintf("%g", q)
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int64) string {
	if n < 0 {
		return "-" + formatNumber(-n)
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}

// wrap joins values into lines of at most perLine values.
func wrap(values []string, perLine int) []string {
	var lines []string
	for start := 0; start < len(values); start += perLine {
		end := min(start+perLine, len(values))
		lines = append(lines, strings.Join(values[start:end], " "))
	}
	return lines
}
