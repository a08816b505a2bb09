package cmd

import (
	"github.com/rpgo/mortgage-calculator/internal/output"
	"github.com/spf13/cobra"
)

type reportFlags struct {
	format    string
	outputDir string
	scenarios []string
}

func (f *reportFlags) register(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringVarP(&f.format, "format", "f", defaultFormat, "output format (console, console-lite, csv, detailed-csv, matrix-csv, html, json)")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "write a timestamped report file to this directory instead of stdout")
	cmd.Flags().StringSliceVarP(&f.scenarios, "scenario", "s", nil, "scenario names to run (default all)")
}

func newCalculateCmd(a *app) *cobra.Command {
	var (
		flags      reportFlags
		clearCache bool
	)
	cmd := &cobra.Command{
		Use:   "calculate <scenario-file>",
		Short: "Calculate affordability and costs for each scenario",
		Long: `Run the full calculation for every scenario in a scenario file:
eligibility, purchasing power, monthly payment, closing costs, APR and
cash to close.

Examples:
  mortgage calculate scenarios.yaml
  mortgage calculate --scenario va-no-down --format json scenarios.yaml
  mortgage calculate --format html --output-dir reports scenarios.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, scenarios, err := loadScenarios(args[0], flags.scenarios)
			if err != nil {
				return err
			}
			mc, err := a.calculator(ctx)
			if err != nil {
				return err
			}
			if clearCache {
				if err := mc.ClearCache(ctx); err != nil {
					return err
				}
			}

			report := output.NewReport()
			for i := range scenarios {
				sc := &scenarios[i]
				res, err := mc.Calculate(ctx, &sc.Input)
				if err != nil {
					a.logger.Warnw("scenario failed", "scenario", sc.Name, "error", err)
				} else {
					a.logger.Infow("scenario calculated", "scenario", sc.Name, "loan_type", res.LoanType, "eligible", res.Eligible)
					if report.Assumptions == nil && res.Location != nil {
						report.Assumptions = output.GenerateAssumptions(res)
					}
				}
				report.AddResult(sc.Name, &sc.Input, res, err)
			}
			return writeReport(cmd, report, flags.format, flags.outputDir)
		},
	}
	flags.register(cmd, "console")
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "empty the result cache before calculating")
	return cmd
}
