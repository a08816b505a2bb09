package calculation

import (
	"context"
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculatorFor(t *testing.T, lt domain.LoanType) LoanCalculator {
	t.Helper()
	p := defaultProvider(t)
	c, err := LoanCalculatorFor(lt, NewRateAdjustmentEngine(p, nil), NewMortgageInsuranceEngine(p, nil), NewAffordabilitySolver(nil), nil)
	require.NoError(t, err)
	return c
}

func TestLoanCalculatorFor(t *testing.T) {
	for _, lt := range domain.AllLoanTypes {
		assert.Equal(t, lt, calculatorFor(t, lt).LoanType())
	}

	var p data.DataProvider = defaultProvider(t)
	_, err := LoanCalculatorFor("Jumbo", NewRateAdjustmentEngine(p, nil), NewMortgageInsuranceEngine(p, nil), NewAffordabilitySolver(nil), nil)
	assert.ErrorIs(t, err, ErrUnsupportedLoanType)
}

func TestLoanCalculator_MaxDTI(t *testing.T) {
	tests := []struct {
		loanType domain.LoanType
		fico     int
		ltv      string
		want     string
	}{
		{domain.Conventional, 720, "95", "0.5"},
		{domain.Conventional, 700, "95", "0.45"},
		{domain.Conventional, 650, "80", "0.43"},
		{domain.FHA, 700, "90", "0.5"},
		{domain.FHA, 720, "95", "0.45"},
		{domain.FHA, 600, "96.5", "0.43"},
		{domain.FHA, 560, "90", "0.41"},
		{domain.VA, 680, "100", "0.5"},
		{domain.VA, 625, "100", "0.43"},
		{domain.VA, 600, "100", "0.41"},
		{domain.USDA, 690, "100", "0.44"},
		{domain.USDA, 660, "100", "0.41"},
	}
	for _, tt := range tests {
		got := calculatorFor(t, tt.loanType).MaxDTI(tt.fico, dec(tt.ltv))
		assertDec(t, tt.want, got, "%s fico %d ltv %s", tt.loanType, tt.fico, tt.ltv)
	}
}

func TestLoanCalculator_InitialMonthlyMI(t *testing.T) {
	tests := []struct {
		loanType domain.LoanType
		fico     int
		ltv      string
		want     string
	}{
		{domain.Conventional, 760, "97", "145"},
		{domain.Conventional, 700, "88", "95"},
		{domain.Conventional, 740, "80", "0"},
		{domain.FHA, 720, "96.5", "137.5"},
		{domain.USDA, 700, "100", "87.5"},
		{domain.VA, 700, "100", "0"},
	}
	for _, tt := range tests {
		got := calculatorFor(t, tt.loanType).InitialMonthlyMI(tt.fico, dec(tt.ltv))
		assertDec(t, tt.want, got, "%s fico %d ltv %s", tt.loanType, tt.fico, tt.ltv)
	}
}

func TestFHALoan_Calculate(t *testing.T) {
	d, err := calculatorFor(t, domain.FHA).Calculate(context.Background(), fhaScenario(), texasFactors())
	require.NoError(t, err)

	assert.Equal(t, domain.FHA, d.LoanType)
	assertDec(t, "0.06125", d.InterestRate)
	assertDec(t, "-0.00125", d.RateAdjustment)
	assertDec(t, "0.45", d.MaxDTI)
	assert.True(t, d.MaxLoanAmount.GreaterThan(dec("285000")))

	assertDec(t, "285000", d.LoanAmount)
	assertDec(t, "4987.5", d.UpfrontFee)
	assertDec(t, "289987.5", d.TotalLoanAmount)
	assertDec(t, "118.75", d.MonthlyMI)
	assertDec(t, "507.5", d.MonthlyTaxes)
	assertDec(t, "87.5", d.MonthlyInsurance)
	assert.Equal(t, 30, d.MIPDurationYears)

	assert.True(t, d.PrincipalAndInterest.Equal(money.Cents(MonthlyPayment(d.TotalLoanAmount, d.InterestRate, 30))))
	require.Len(t, d.Amortization, 31)
	last := d.Amortization[30]
	assert.Equal(t, 360, last.Month)
	assert.True(t, last.Balance.IsZero())
}

func TestVALoan_CalculateWithoutPrice(t *testing.T) {
	in := &domain.MortgageInput{
		Income:    dec("90000"),
		Location:  "TX, Harris",
		LTV:       dec("100"),
		FICOScore: 720,
		LoanType:  domain.VA,
		LoanTerm:  30,
	}
	d, err := calculatorFor(t, domain.VA).Calculate(context.Background(), in, texasFactors())
	require.NoError(t, err)

	assert.True(t, d.LoanAmount.IsPositive())
	assert.True(t, d.LoanAmount.Equal(d.MaxLoanAmount))
	assert.True(t, d.UpfrontFee.Equal(money.Cents(d.LoanAmount.Mul(dec("0.0215")))))
	assert.True(t, d.MonthlyMI.IsZero())
	assertNear(t, d.PurchasingPower.Mul(dec("0.0203")).Div(dec("12")), d.MonthlyTaxes, "0.01")
}

func TestConventionalLoan_CalculateNoPMI(t *testing.T) {
	in := &domain.MortgageInput{
		Income:        dec("150000"),
		Location:      "TX, Harris",
		LTV:           dec("80"),
		FICOScore:     740,
		LoanType:      domain.Conventional,
		LoanTerm:      30,
		PurchasePrice: dec("400000"),
		DownPayment:   dec("80000"),
	}
	d, err := calculatorFor(t, domain.Conventional).Calculate(context.Background(), in, texasFactors())
	require.NoError(t, err)

	assertDec(t, "320000", d.LoanAmount)
	assert.True(t, d.UpfrontFee.IsZero())
	assert.True(t, d.MonthlyMI.IsZero())
	assertDec(t, "0.875", d.RateAdjustment)
	assertDec(t, "0.075", d.InterestRate)
	assert.Zero(t, d.PMIRemovalYear)
}
