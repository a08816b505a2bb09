package output

import (
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func resultWith(lt domain.LoanType, eligible bool, power, payment int64) *domain.CalculationResult {
	r := &domain.CalculationResult{LoanType: lt, Eligible: eligible}
	if eligible {
		r.Loan = &domain.LoanDetails{PurchasingPower: decimal.NewFromInt(power)}
		r.Payment.Total = decimal.NewFromInt(payment)
	}
	return r
}

func TestAnalyzeScenarios_SelectsHighestPurchasingPower(t *testing.T) {
	report := &Report{Scenarios: []ScenarioResult{
		{Name: "A", Result: resultWith(domain.Conventional, true, 350000, 2400)},
		{Name: "B", Result: resultWith(domain.FHA, true, 410000, 2900)},
		{Name: "C", Result: resultWith(domain.VA, false, 0, 0)},
		{Name: "D", Error: "failed"},
	}}
	rec := AnalyzeScenarios(report)
	assert.Equal(t, "B", rec.ScenarioName)
	assert.Equal(t, domain.FHA, rec.LoanType)
	assert.True(t, rec.PurchasingPower.Equal(decimal.NewFromInt(410000)))
	assert.True(t, rec.PowerOverNext.Equal(decimal.NewFromInt(60000)))
}

func TestAnalyzeScenarios_TieGoesToLowerPayment(t *testing.T) {
	report := &Report{Scenarios: []ScenarioResult{
		{Name: "A", Result: resultWith(domain.FHA, true, 400000, 2700)},
		{Name: "B", Result: resultWith(domain.USDA, true, 400000, 2500)},
	}}
	rec := AnalyzeScenarios(report)
	assert.Equal(t, "B", rec.ScenarioName)
	assert.True(t, rec.PowerOverNext.IsZero())
}

func TestAnalyzeScenarios_NoneEligible(t *testing.T) {
	report := &Report{Scenarios: []ScenarioResult{{Name: "A", Result: resultWith(domain.VA, false, 0, 0)}}}
	assert.Equal(t, Recommendation{}, AnalyzeScenarios(report))
}

func TestGenerateAssumptions(t *testing.T) {
	assert.Equal(t, DefaultAssumptions, GenerateAssumptions(nil))

	res := &domain.CalculationResult{
		Location: &domain.LocationFactors{State: "TX", County: "Travis", PropertyTaxRate: decimal.RequireFromString("0.0203"), InsuranceRate: decimal.RequireFromString("0.0035")},
		Loan:     &domain.LoanDetails{MIPDurationYears: 30},
	}
	got := GenerateAssumptions(res)
	assert.Len(t, got, len(DefaultAssumptions)+3)
	assert.Contains(t, got, "Property tax rate for Travis, TX: 2.03% of value annually")
	assert.Contains(t, got, "Homeowners insurance rate: 0.35% of value annually")
	assert.Contains(t, got, "FHA annual MIP paid for 30 years")

	res.Location = &domain.LocationFactors{}
	assert.Contains(t, GenerateAssumptions(res), "Property tax rate for the national average: 0.00% of value annually")
}

func TestReportAssumptionsFallback(t *testing.T) {
	assert.Equal(t, DefaultAssumptions, (&Report{}).assumptions())
	assert.Equal(t, []string{"x"}, (&Report{Assumptions: []string{"x"}}).assumptions())
}
