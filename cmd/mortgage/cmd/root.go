// Package cmd provides the CLI commands for the mortgage calculator.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Version is stamped at build time.
var Version = "0.1.0"

type rootOptions struct {
	settingsFile string
	envFile      string
	verbose      bool
	metricsFile  string
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	root := &cobra.Command{
		Use:   "mortgage",
		Short: "Estimate mortgage affordability, payments and closing costs",
		Long: `mortgage estimates how much home a borrower can afford under the
Conventional, FHA, VA and USDA programs, with the monthly payment,
closing costs and cash to close for each.

Examples:
  mortgage example scenarios.yaml
  mortgage calculate scenarios.yaml
  mortgage calculate --format json --scenario fha-first-home scenarios.yaml
  mortgage matrix --format matrix-csv scenarios.yaml
  mortgage snapshot --fico 720-739 --ltv 0.95 --debts 550
  mortgage amortize --principal 285000 --rate 6.125 --term 30`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			defer a.Close()
			if opts.metricsFile == "" {
				return nil
			}
			if err := prometheus.WriteToTextfile(opts.metricsFile, prometheus.DefaultGatherer); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.settingsFile, "settings", "", "settings file (default is ./mortgage.yaml when present)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file (default is ./.env when present)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the command")

	root.AddCommand(
		newCalculateCmd(a),
		newMatrixCmd(a),
		newSnapshotCmd(a),
		newAmortizeCmd(),
		newExampleCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mortgage version %s\n", Version)
		},
	}
}
