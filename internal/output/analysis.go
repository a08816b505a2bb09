package output

import (
	"sort"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName    string
	LoanType        domain.LoanType
	PurchasingPower decimal.Decimal
	MonthlyPayment  decimal.Decimal
	CashToClose     decimal.Decimal
	// PowerOverNext is how much more this scenario can buy than the runner-up.
	PowerOverNext decimal.Decimal
}

// AnalyzeScenarios picks the eligible scenario with the highest purchasing
// power. Ties go to the lower monthly payment. The zero Recommendation means
// no scenario was eligible.
func AnalyzeScenarios(report *Report) Recommendation {
	var eligible []ScenarioResult
	for _, sc := range report.Scenarios {
		if sc.Result != nil && sc.Result.Eligible {
			eligible = append(eligible, sc)
		}
	}
	if len(eligible) == 0 {
		return Recommendation{}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i].Result, eligible[j].Result
		if !a.PurchasingPower().Equal(b.PurchasingPower()) {
			return a.PurchasingPower().GreaterThan(b.PurchasingPower())
		}
		return a.Payment.Total.LessThan(b.Payment.Total)
	})
	best := eligible[0]
	rec := Recommendation{
		ScenarioName:    best.Name,
		LoanType:        best.Result.LoanType,
		PurchasingPower: best.Result.PurchasingPower(),
		MonthlyPayment:  best.Result.Payment.Total,
		CashToClose:     best.Result.CashToClose,
	}
	if len(eligible) > 1 {
		rec.PowerOverNext = rec.PurchasingPower.Sub(eligible[1].Result.PurchasingPower())
	}
	return rec
}
