package integration

import (
	"context"
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/calculation"
	"github.com/rpgo/mortgage-calculator/internal/config"
	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioFile = "../testdata/scenarios.yaml"

func loadFile(t *testing.T) *config.ScenarioFile {
	t.Helper()
	file, err := config.NewInputParser().LoadFromFile(scenarioFile)
	require.NoError(t, err)
	return file
}

func newCalculator(t *testing.T, results calculation.ResultCache) *calculation.MortgageCalculator {
	t.Helper()
	provider, err := data.NewDefaultProvider()
	require.NoError(t, err)
	return calculation.NewMortgageCalculator(provider, results)
}

func scenario(t *testing.T, file *config.ScenarioFile, name string) *domain.MortgageInput {
	t.Helper()
	sc, ok := file.Find(name)
	require.True(t, ok, "scenario %s", name)
	return &sc.Input
}

func TestConfigurationValidation(t *testing.T) {
	file := loadFile(t)
	assert.Len(t, file.Scenarios, 5)
	require.NotNil(t, file.Snapshot)
	assert.NoError(t, config.NewInputParser().ValidateConfiguration(file))
}

func TestEndToEnd_FHAExample(t *testing.T) {
	file := loadFile(t)
	mc := newCalculator(t, calculation.NewMemoryCache())

	res, err := mc.Calculate(context.Background(), scenario(t, file, "fha-first-home"))
	require.NoError(t, err)
	require.True(t, res.Eligible, res.Reason)
	require.NotNil(t, res.Loan)
	require.NotNil(t, res.ClosingCosts)

	loan := res.Loan
	assert.True(t, loan.LoanAmount.Equal(decimal.NewFromInt(285000)), "loan %s", loan.LoanAmount)
	assert.True(t, loan.UpfrontFee.Equal(decimal.RequireFromString("4987.5")), "upfront %s", loan.UpfrontFee)
	assert.True(t, loan.TotalLoanAmount.Equal(loan.LoanAmount.Add(loan.UpfrontFee)))
	assert.True(t, res.Payment.MortgageInsurance.IsPositive())

	cc := res.ClosingCosts
	want := money.Cents(res.DownPayment.Add(cc.TotalEstimated).Add(cc.TotalPrepaids).Sub(res.Credits))
	assert.True(t, res.CashToClose.Equal(want), "cash to close %s want %s", res.CashToClose, want)

	p := res.Payment
	assert.True(t, p.Total.Equal(p.PrincipalAndInterest.Add(p.PropertyTax).Add(p.Insurance).Add(p.MortgageInsurance).Add(p.HOA)))
	assert.True(t, res.RepAPR.GreaterThan(res.InterestRate), "apr %s rate %s", res.RepAPR, res.InterestRate)
	assert.Nil(t, res.TrueAPR)

	require.NotNil(t, res.ClosingCosts.Escrow)
	assert.False(t, res.ClosingCosts.Escrow.InitialDeposit.IsNegative())
	assert.Equal(t, "TX", res.Location.State)
	assert.Len(t, loan.Amortization, 31)
}

func TestEligibilityScenarios(t *testing.T) {
	file := loadFile(t)
	mc := newCalculator(t, calculation.NewMemoryCache())
	ctx := context.Background()

	res, err := mc.Calculate(ctx, scenario(t, file, "conventional-low-score"))
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.Equal(t, "Credit score below minimum 620 requirement for conventional loans", res.Reason)
	assert.Equal(t, []string{"FHA"}, res.Alternatives)
	assert.Nil(t, res.Loan)

	for _, name := range []string{"fha-minimum-down", "va-high-dti", "usda-rural"} {
		res, err := mc.Calculate(ctx, scenario(t, file, name))
		require.NoError(t, err, name)
		assert.True(t, res.Eligible, "%s: %s", name, res.Reason)
	}
}

func TestEligibility_DTICapsAtBoundary(t *testing.T) {
	e := calculation.NewEligibilityEvaluator()
	dec := decimal.RequireFromString

	fha := e.Evaluate(domain.FHA, calculation.EligibilityInput{FICOScore: 580, LTV: dec("96.5"), DTI: dec("0.50")})
	assert.False(t, fha.Eligible)
	assert.Equal(t, "For credit scores below 620, maximum DTI is 43% for FHA loans", fha.Reason)

	usda := e.Evaluate(domain.USDA, calculation.EligibilityInput{FICOScore: 700, LTV: dec("100"), DTI: dec("0.42")})
	assert.False(t, usda.Eligible)
	assert.Equal(t, "DTI exceeds maximum 41% for USDA loans", usda.Reason)
}

func TestOverridesAndCredits(t *testing.T) {
	file := loadFile(t)
	mc := newCalculator(t, calculation.NewMemoryCache())

	res, err := mc.Calculate(context.Background(), scenario(t, file, "usda-rural"))
	require.NoError(t, err)
	require.True(t, res.Eligible)

	appraisal, ok := res.ClosingCosts.Details["Appraisal Fee"]
	require.True(t, ok)
	assert.True(t, appraisal.IsOverridden)
	assert.True(t, appraisal.Amount.Equal(decimal.NewFromInt(475)))
	assert.True(t, res.Credits.Equal(decimal.NewFromInt(3000)))
	assert.True(t, res.Payment.HOA.Equal(decimal.NewFromInt(25)))
	assert.True(t, res.Loan.UpfrontFee.IsPositive())
}

func TestPowerMatrix_EveryScenario(t *testing.T) {
	file := loadFile(t)
	mc := newCalculator(t, calculation.NewMemoryCache())

	for _, sc := range file.Scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			cells, err := mc.CalculatePowerMatrix(context.Background(), &sc.Input)
			require.NoError(t, err)
			require.Len(t, cells, 49)
			for _, c := range cells {
				assert.Equal(t, sc.Input.LoanType, c.LoanType)
				if c.Eligible {
					assert.True(t, c.PurchasingPower.IsPositive())
				}
			}
		})
	}
}

func TestSnapshotFromFile(t *testing.T) {
	file := loadFile(t)
	est := calculation.NewDTISnapshotEstimator(nil).EstimateAll(file.Snapshot)
	require.Len(t, est, 4)
	floor := decimal.RequireFromString("0.30")
	ceiling := decimal.RequireFromString("0.57")
	for lt, v := range est {
		assert.True(t, v.GreaterThanOrEqual(floor), "%s %s", lt, v)
		assert.True(t, v.LessThanOrEqual(ceiling), "%s %s", lt, v)
	}
	assert.True(t, file.Snapshot.MonthlyDebts().Equal(decimal.NewFromInt(550)))
}
