package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/pulse/pkg/jsonpath"
)

type inspectOptions struct {
	reportPath string
	paths      []string
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Query a saved JSON report",
		Long: `Print values from a report written by "pulse simulate --output" using
JSONPath expressions. With one --path the bare value is printed; with several
each line is "path: value".

  pulse inspect --report report.json --path '$.estimates[2].bucketed'
  pulse inspect --report report.json --path '$.hourly.max' --path '$.intervals[*].total'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.reportPath, "report", "r", "", "JSON report file")
	cmd.Flags().StringArrayVarP(&opts.paths, "path", "p", nil, "JSONPath expression (repeatable)")
	_ = cmd.MarkFlagRequired("report")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func runInspect(cmd *cobra.Command, opts *inspectOptions) error {
	doc, err := os.ReadFile(opts.reportPath)
	if err != nil {
		return fmt.Errorf("error reading report: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(opts.paths) == 1 {
		value, err := jsonpath.Extract(doc, opts.paths[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)
		return nil
	}

	named := make(map[string]string, len(opts.paths))
	for _, p := range opts.paths {
		named[p] = p
	}
	values, err := jsonpath.ExtractMultiple(doc, named)
	for _, p := range opts.paths {
		if v, ok := values[p]; ok {
			fmt.Fprintf(out, "%s: %s\n", p, v)
		}
	}
	return err
}
