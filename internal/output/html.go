package output

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/wesleyorama2/pulse/internal/simulate"
)

// htmlData contains all data needed to render the HTML report.
type htmlData struct {
	*simulate.Report
	ChartJSON template.JS
}

// chartSeries feeds the interval and hourly charts.
type chartSeries struct {
	IntervalLabels []string `json:"intervalLabels"`
	IntervalTotals []int64  `json:"intervalTotals"`
	HourlyData     []int64  `json:"hourlyData"`
}

var reportTemplate = template.Must(template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate))

// WriteHTML renders r as a standalone HTML page.
func WriteHTML(w io.Writer, r *simulate.Report) error {
	if r == nil {
		return fmt.Errorf("report cannot be nil")
	}

	series := chartSeries{
		IntervalLabels: make([]string, len(r.Intervals)),
		IntervalTotals: make([]int64, len(r.Intervals)),
		HourlyData:     r.Hourly.Data,
	}
	for i, ir := range r.Intervals {
		series.IntervalLabels[i] = ir.Start.UTC().Format(timeLayout)
		series.IntervalTotals[i] = ir.Total
	}
	chartJSON, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to encode chart data: %w", err)
	}

	data := htmlData{Report: r, ChartJSON: template.JS(chartJSON)}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// templateFuncs returns the template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": formatDuration,
		"formatNumber":   formatNumber,
		"formatMillis":   formatMillis,
		"formatQuantile": formatQuantile,
		"formatTime": func(t time.Time) string {
			return t.UTC().Format(timeLayout)
		},
		"coverageClass": func(percent float64) string {
			switch {
			case percent >= 99:
				return "good"
			case percent >= 90:
				return "warn"
			default:
				return "bad"
			}
		},
	}
}
