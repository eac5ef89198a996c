package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pulse",
		Short:   "Simulate and inspect time-windowed latency percentiles",
		Version: version,
		Long: `Pulse replays synthetic latency traffic through windowed percentile and
hourly counters on a simulated clock, and reports how bucketed percentile
estimates compare with a full-resolution reference histogram.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	cmd.AddCommand(newSimulateCmd())
	cmd.AddCommand(newHourlyCmd())
	cmd.AddCommand(newInspectCmd())
	return cmd
}

// Execute runs the root command. An interrupt cancels a running simulation.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}
