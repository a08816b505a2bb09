package calculation

import (
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// DTIRatios computes front-end (housing / income) and back-end
// ((housing + debts) / income) ratios in percent, rounded to 2 places. A
// non-positive income gives zero ratios.
func DTIRatios(monthlyIncome, housingExpense, otherDebts decimal.Decimal) *domain.DTIRatios {
	r := &domain.DTIRatios{
		MonthlyIncome:  monthlyIncome.Round(2),
		HousingExpense: housingExpense.Round(2),
		OtherDebts:     otherDebts.Round(2),
	}
	if !monthlyIncome.IsPositive() {
		return r
	}
	r.FrontEnd = housingExpense.Div(monthlyIncome).Mul(hundred).Round(2)
	r.BackEnd = housingExpense.Add(otherDebts).Div(monthlyIncome).Mul(hundred).Round(2)
	return r
}
