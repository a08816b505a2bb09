package cmd

import (
	"errors"
	"fmt"

	"github.com/rpgo/mortgage-calculator/internal/calculation"
	"github.com/rpgo/mortgage-calculator/internal/config"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/rpgo/mortgage-calculator/internal/output"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type snapshotFlags struct {
	fico          string
	ltv           string
	debts         string
	reserves      string
	employment    string
	taxFreeIncome string
	household     int
}

// apply overlays the flags the user set on p.
func (f *snapshotFlags) apply(cmd *cobra.Command, p *domain.SnapshotProfile) error {
	changed := cmd.Flags().Changed
	parse := func(name, value string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
		}
		return d, nil
	}
	if changed("fico") {
		p.FICO = f.fico
	}
	if changed("ltv") {
		d, err := parse("ltv", f.ltv)
		if err != nil {
			return err
		}
		p.LTV = d
	}
	if changed("debts") {
		d, err := parse("debts", f.debts)
		if err != nil {
			return err
		}
		p.TotalMonthlyDebts = &d
	}
	if changed("reserves") {
		p.Reserves = domain.ReservesTier(f.reserves)
	}
	if changed("employment") {
		p.Employment = domain.EmploymentTier(f.employment)
	}
	if changed("tax-free-income") {
		d, err := parse("tax-free-income", f.taxFreeIncome)
		if err != nil {
			return err
		}
		p.TaxFreeIncome = d
	}
	if changed("household") {
		p.HouseholdSize = f.household
	}
	return nil
}

func newSnapshotCmd(a *app) *cobra.Command {
	var (
		flags     snapshotFlags
		format    string
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "snapshot [scenario-file]",
		Short: "Estimate the maximum DTI each program would accept",
		Long: `Estimate the maximum back-end debt-to-income ratio for each loan
program from a short borrower profile. The profile comes from the
snapshot section of a scenario file, from flags, or both (flags win).

Examples:
  mortgage snapshot scenarios.yaml
  mortgage snapshot --fico 720-739 --ltv 0.95 --debts 550 --reserves 2-to-5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := &domain.SnapshotProfile{}
			if len(args) == 1 {
				file, err := config.NewInputParser().LoadFromFile(args[0])
				if err != nil {
					return err
				}
				if file.Snapshot == nil {
					return fmt.Errorf("%s has no snapshot section", args[0])
				}
				profile = file.Snapshot
			}
			if err := flags.apply(cmd, profile); err != nil {
				return err
			}
			if profile.FICO == "" {
				return errors.New("a FICO score is required (--fico or snapshot.fico)")
			}
			if err := config.ValidateSnapshot(profile); err != nil {
				return err
			}

			estimates := calculation.NewDTISnapshotEstimator(a.logger).EstimateAll(profile)
			a.logger.Debugw("snapshot estimated", "fico", profile.FICOScore(), "programs", len(estimates))

			report := output.NewReport()
			report.Snapshot = &output.SnapshotReport{Profile: profile, Estimates: estimates}
			return writeReport(cmd, report, format, outputDir)
		},
	}
	cmd.Flags().StringVar(&flags.fico, "fico", "", "credit score or range, e.g. 720 or 700-739")
	cmd.Flags().StringVar(&flags.ltv, "ltv", "", "loan-to-value as a fraction, e.g. 0.95")
	cmd.Flags().StringVar(&flags.debts, "debts", "", "total monthly debt payments")
	cmd.Flags().StringVar(&flags.reserves, "reserves", "", "cash reserves tier (none, less-than-2, 2-to-5, 6-to-10, more-than-10)")
	cmd.Flags().StringVar(&flags.employment, "employment", "", "employment tier (less-than-1, 1-to-2, 2-to-5, more-than-5)")
	cmd.Flags().StringVar(&flags.taxFreeIncome, "tax-free-income", "", "monthly non-taxable income")
	cmd.Flags().IntVar(&flags.household, "household", 0, "household size")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, console-lite, html, json)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "write a timestamped report file to this directory instead of stdout")
	return cmd
}
