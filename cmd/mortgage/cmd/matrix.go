package cmd

import (
	"github.com/rpgo/mortgage-calculator/internal/output"
	"github.com/spf13/cobra"
)

func newMatrixCmd(a *app) *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "matrix <scenario-file>",
		Short: "Sweep purchasing power across credit scores and LTVs",
		Long: `For each scenario, recalculate purchasing power on a grid of seven
FICO scores against seven LTVs of the scenario's loan type. Cells that
fail are reported rather than aborting the sweep.

Examples:
  mortgage matrix scenarios.yaml
  mortgage matrix --scenario fha-first-home --format matrix-csv scenarios.yaml`,
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

			report := output.NewReport()
			for i := range scenarios {
				sc := &scenarios[i]
				cells, err := mc.CalculatePowerMatrix(ctx, &sc.Input)
				if err != nil {
					return err
				}
				failed := 0
				for _, c := range cells {
					if c.Error != "" {
						failed++
					}
				}
				a.logger.Infow("matrix calculated", "scenario", sc.Name, "cells", len(cells), "failed", failed)
				report.AddMatrix(sc.Name, sc.Input.LoanType, cells)
			}
			return writeReport(cmd, report, flags.format, flags.outputDir)
		},
	}
	flags.register(cmd, "console")
	return cmd
}
