package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rpgo/mortgage-calculator/internal/calculation"
	"github.com/rpgo/mortgage-calculator/internal/config"
	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/logging"
)

// Prints the loan and sampled schedule of every example scenario against the
// built-in tables. Handy when checking table edits.
func main() {
	logger, err := logging.New(logging.Config{Level: "debug", Format: "console", Output: "stderr", Development: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	provider, err := data.NewDefaultProvider()
	if err != nil {
		logger.Fatalf("load tables: %v", err)
	}
	provider.SetLogger(logger)
	mc := calculation.NewMortgageCalculator(provider, calculation.NewMemoryCache())
	mc.SetLogger(logger)

	ctx := context.Background()
	for _, sc := range config.NewInputParser().CreateExampleConfiguration().Scenarios {
		res, err := mc.Calculate(ctx, &sc.Input)
		if err != nil {
			logger.Errorw("calculation failed", "scenario", sc.Name, "error", err)
			continue
		}
		fmt.Printf("%s (%s)\n", sc.Name, res.LoanType)
		if !res.Eligible || res.Loan == nil {
			fmt.Printf("  ineligible: %s\n\n", res.Reason)
			continue
		}
		loan := res.Loan
		fmt.Printf("  loan %s + upfront %s = %s at %s%%, P&I %s\n",
			loan.LoanAmount.StringFixed(2), loan.UpfrontFee.StringFixed(2), loan.TotalLoanAmount.StringFixed(2),
			res.InterestRate.StringFixed(3), res.Payment.PrincipalAndInterest.StringFixed(2))
		for _, e := range loan.Amortization {
			fmt.Printf("  month %3d year %2d  principal %9s  interest %9s  balance %11s  equity %11s\n",
				e.Month, e.Year, e.Principal.StringFixed(2), e.Interest.StringFixed(2),
				e.Balance.StringFixed(2), e.Equity.StringFixed(2))
		}
		fmt.Println()
	}
}
