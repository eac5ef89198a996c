package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/pulse/internal/output"
	"github.com/wesleyorama2/pulse/internal/simulate"
	"github.com/wesleyorama2/pulse/perf/metrics"
)

// reportStatePath locates the hourly state inside a saved report.
const reportStatePath = "hourly.state"

type hourlyOptions struct {
	statePath string
	catchUp   bool
	format    string
	noColor   bool
}

func newHourlyCmd() *cobra.Command {
	opts := &hourlyOptions{}
	cmd := &cobra.Command{
		Use:   "hourly",
		Short: "Restore a saved hourly counter and print its window",
		Long: `Restore an hourly counter from a saved state and print its buckets,
oldest first, with the max and min of the retired buckets.

The state file holds a bare hourly state (JSON or YAML) or a JSON report
written by "pulse simulate --output". By default the window is printed as
saved; --catch-up first retires the buckets the wall clock has moved past.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHourly(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.statePath, "state", "s", "", "Hourly state or report file")
	cmd.Flags().BoolVar(&opts.catchUp, "catch-up", false, "Advance the window to the current time before printing")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func runHourly(cmd *cobra.Command, opts *hourlyOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	state, err := loadHourlyState(opts.statePath)
	if err != nil {
		return err
	}
	hc, err := metrics.RestoreHourlyCounter(state)
	if err != nil {
		return fmt.Errorf("error restoring hourly counter: %w", err)
	}

	view, err := hourlyView(hc, opts.catchUp)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), format, opts.noColor, view, func(c *output.Console) {
		c.Hourly(view)
	})
}

// hourlyView reads the window as saved, or as of now when catchUp is set.
func hourlyView(hc *metrics.HourlyCounter, catchUp bool) (simulate.HourlyReport, error) {
	view := simulate.HourlyReport{
		Hours:       hc.Hours(),
		Granularity: hc.Granularity(),
	}

	if catchUp {
		view.Data = hc.Data()
		view.Max = hc.Max()
		view.Min = hc.Min()
		view.State = hc.Snapshot()
		return view, nil
	}

	view.Data = make([]int64, hc.Len())
	for i := range view.Data {
		v, err := hc.CountAt(i - hc.Len() + 1)
		if err != nil {
			return view, err
		}
		view.Data[i] = v
	}
	view.State = hc.Snapshot()
	view.Max = view.State.Max
	view.Min = view.State.Min
	return view, nil
}

// loadHourlyState reads a bare state or the state embedded in a JSON report.
func loadHourlyState(path string) (metrics.HourlyState, error) {
	var state metrics.HourlyState

	data, err := os.ReadFile(path)
	if err != nil {
		return state, fmt.Errorf("error reading state: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &state)
	default:
		if embedded := gjson.GetBytes(data, reportStatePath); embedded.Exists() {
			data = []byte(embedded.Raw)
		}
		err = json.Unmarshal(data, &state)
	}
	if err != nil {
		return state, fmt.Errorf("error parsing state %s: %w", path, err)
	}
	return state, nil
}
