package output

import (
	"fmt"

	"github.com/rpgo/mortgage-calculator/internal/domain"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Rates, LLPAs and insurance premiums come from the published tables in the data directory",
	"Back-end DTI defaults to 43% when none is supplied",
	"Representative APR approximates finance charges over the loan term; it is not a Reg Z APR",
	"Property tax escrow uses a 2-month cushion",
	"Homeowners insurance prepaid covers 12 months plus 2 months of reserves",
}

// GenerateAssumptions describes the location and loan behind one result.
func GenerateAssumptions(res *domain.CalculationResult) []string {
	out := append([]string(nil), DefaultAssumptions...)
	if res == nil {
		return out
	}
	if loc := res.Location; loc != nil {
		out = append(out,
			fmt.Sprintf("Property tax rate for %s: %s of value annually", locationLabel(loc), FormatRatio(loc.PropertyTaxRate)),
			fmt.Sprintf("Homeowners insurance rate: %s of value annually", FormatRatio(loc.InsuranceRate)),
		)
	}
	if res.Loan != nil {
		if res.Loan.PMIRemovalYear > 0 {
			out = append(out, fmt.Sprintf("PMI removed after year %d", res.Loan.PMIRemovalYear))
		}
		if res.Loan.MIPDurationYears > 0 {
			out = append(out, fmt.Sprintf("FHA annual MIP paid for %d years", res.Loan.MIPDurationYears))
		}
	}
	return out
}

func locationLabel(loc *domain.LocationFactors) string {
	switch {
	case loc.County != "":
		return loc.County + ", " + loc.State
	case loc.State != "":
		return loc.State
	default:
		return "the national average"
	}
}
