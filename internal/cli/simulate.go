package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/pulse/internal/export"
	"github.com/wesleyorama2/pulse/internal/output"
	"github.com/wesleyorama2/pulse/internal/simulate"
	"github.com/wesleyorama2/pulse/perf/config"
)

// metricsNamespace prefixes every exported metric name.
const metricsNamespace = "pulse"

type simulateOptions struct {
	configFile  string
	format      string
	jsonOutput  bool
	outputPath  string
	metricsPath string
	seed        int64
	noColor     bool
	verbose     bool
}

func newSimulateCmd() *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a latency simulation from a configuration file",
		Long: `Replay the phases of a simulation file through an interval percentile
counter, a lifetime percentile counter and an hourly counter, then report the
bucketed distribution next to an HDR reference histogram.

  pulse simulate --config checkout.yaml
  pulse simulate --config checkout.yaml --json
  pulse simulate --config checkout.yaml --output report.json --metrics metrics.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Simulation file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report as JSON (same as --format json)")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Also write the report to this file (.json, .yaml, .yml or .html)")
	cmd.Flags().StringVar(&opts.metricsPath, "metrics", "", "Write final counter state in Prometheus text format to this file")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Override the random seed from the config")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runSimulate(cmd *cobra.Command, opts *simulateOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.jsonOutput {
		format = output.FormatJSON
	}

	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = opts.seed
	}
	logger.Debug("config loaded",
		zap.String("path", opts.configFile),
		zap.Int64("seed", cfg.Seed),
		zap.String("consistency", cfg.Consistency),
	)

	sim, err := simulate.New(cfg, simulate.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("error creating simulation: %w", err)
	}
	report, err := sim.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("error running simulation: %w", err)
	}

	if opts.metricsPath != "" {
		if err := writeMetrics(opts.metricsPath, cfg.Name, sim); err != nil {
			return err
		}
		logger.Info("metrics written", zap.String("path", opts.metricsPath))
	}

	if opts.outputPath != "" {
		if err := writeReportFile(opts.outputPath, report); err != nil {
			return err
		}
		logger.Info("report written", zap.String("path", opts.outputPath))
	}

	return render(cmd.OutOrStdout(), format, opts.noColor, report, func(c *output.Console) {
		c.Report(report)
	})
}

// render writes v in format; text output goes through draw.
func render(w io.Writer, format output.Format, noColor bool, v any, draw func(*output.Console)) error {
	switch format {
	case output.FormatJSON:
		return output.WriteJSON(w, v)
	case output.FormatYAML:
		return output.WriteYAML(w, v)
	default:
		draw(output.NewConsole(output.ConsoleConfig{Writer: w, NoColor: noColor}))
		return nil
	}
}

// writeReportFile picks YAML for .yaml/.yml paths, HTML for .html and JSON
// otherwise.
func writeReportFile(path string, report *simulate.Report) error {
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = output.WriteYAML(&buf, report)
	case ".html", ".htm":
		err = output.WriteHTML(&buf, report)
	default:
		err = output.WriteJSON(&buf, report)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	return nil
}

func writeMetrics(path, name string, sim *simulate.Simulator) error {
	registry := prometheus.NewRegistry()
	collector := export.NewCollector(metricsNamespace, prometheus.Labels{"simulation": name},
		export.WithPercentileCounter(sim.Intervals()),
		export.WithHourlyCounter(sim.Hourly()),
		export.WithQuantiles(simulate.Quantiles...),
	)
	if err := registry.Register(collector); err != nil {
		return fmt.Errorf("error registering metrics: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteText(&buf, registry); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing metrics: %w", err)
	}
	return nil
}
