package cmd

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/rpgo/mortgage-calculator/internal/calculation"
	"github.com/rpgo/mortgage-calculator/internal/output"
	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newAmortizeCmd() *cobra.Command {
	var (
		principal string
		rate      string
		term      int
		asCSV     bool
	)
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Print a sampled amortization schedule",
		Long: `Print month 1, every 12th month and the final month of a fixed-rate
loan's amortization schedule.

Examples:
  mortgage amortize --principal 285000 --rate 6.125
  mortgage amortize --principal 400000 --rate 5.5 --term 15 --csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := decimal.NewFromString(principal)
			if err != nil || !p.IsPositive() {
				return fmt.Errorf("--principal must be a positive amount, got %q", principal)
			}
			pct, err := decimal.NewFromString(rate)
			if err != nil || pct.IsNegative() {
				return fmt.Errorf("--rate must be a non-negative percentage, got %q", rate)
			}
			if term <= 0 {
				return fmt.Errorf("--term must be a positive number of years, got %d", term)
			}
			annualRate := money.PercentToRate(pct)
			schedule := calculation.AmortizationSchedule(p, annualRate, term)
			out := cmd.OutOrStdout()

			if asCSV {
				w := csv.NewWriter(out)
				if err := w.Write([]string{"Month", "Year", "Payment", "Principal", "Interest", "TotalInterest", "Balance", "Equity"}); err != nil {
					return err
				}
				for e := range schedule {
					row := []string{
						strconv.Itoa(e.Month), strconv.Itoa(e.Year),
						e.Payment.StringFixed(2), e.Principal.StringFixed(2), e.Interest.StringFixed(2),
						e.TotalInterest.StringFixed(2), e.Balance.StringFixed(2), e.Equity.StringFixed(2),
					}
					if err := w.Write(row); err != nil {
						return err
					}
				}
				w.Flush()
				return w.Error()
			}

			fmt.Fprintf(out, "Loan %s at %s for %d years: %s per month\n\n",
				output.FormatCurrency(p), output.FormatPercentage(pct), term,
				output.FormatCurrency(money.Cents(calculation.MonthlyPayment(p, annualRate, term))))
			fmt.Fprintf(out, "%6s %5s %12s %12s %12s %14s %14s\n", "Month", "Year", "Principal", "Interest", "Balance", "TotalInterest", "Equity")
			for e := range schedule {
				fmt.Fprintf(out, "%6d %5d %12s %12s %12s %14s %14s\n", e.Month, e.Year,
					e.Principal.StringFixed(2), e.Interest.StringFixed(2), e.Balance.StringFixed(2),
					e.TotalInterest.StringFixed(2), e.Equity.StringFixed(2))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "loan amount")
	cmd.Flags().StringVar(&rate, "rate", "", "annual interest rate in percent, e.g. 6.125")
	cmd.Flags().IntVar(&term, "term", 30, "loan term in years")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}
