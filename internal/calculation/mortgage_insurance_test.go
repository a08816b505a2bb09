package calculation

import (
	"context"
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConventionalPMI(t *testing.T) {
	e := NewMortgageInsuranceEngine(defaultProvider(t), nil)
	ctx := context.Background()

	q, err := e.ConventionalPMI(ctx, dec("300000"), dec("80"), 700)
	require.NoError(t, err)
	assert.True(t, q.Monthly.IsZero())
	assert.Zero(t, q.PMIRemovalYear)

	q, err = e.ConventionalPMI(ctx, dec("300000"), dec("95"), 720)
	require.NoError(t, err)
	assertDec(t, "0.0072", q.AnnualRate)
	assertDec(t, "2160", q.AnnualPremium)
	assertDec(t, "180", q.Monthly)
	assert.Equal(t, 8, q.PMIRemovalYear)
}

func TestPMIRemovalYear(t *testing.T) {
	tests := map[string]int{"80.5": 2, "82": 2, "85": 3, "90": 5, "97": 9}
	for ltv, want := range tests {
		assert.Equal(t, want, PMIRemovalYear(dec(ltv)), "ltv %s", ltv)
	}
}

func TestFHAMIP(t *testing.T) {
	tests := []struct {
		name       string
		loan, ltv  string
		term       int
		annualRate string
		duration   int
	}{
		{"high ltv long term", "285000", "95", 30, "0.005", 30},
		{"ltv 90 keeps 11 years", "285000", "90", 30, "0.005", 11},
		{"above 95", "285000", "96.5", 30, "0.0055", 30},
		{"short term", "285000", "85", 15, "0.0015", 11},
		{"short term high ltv", "285000", "95", 15, "0.004", 15},
		{"above loan limit", "800000", "96.5", 30, "0.0075", 30},
	}
	e := NewMortgageInsuranceEngine(defaultProvider(t), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := e.FHAMIP(context.Background(), dec(tt.loan), dec(tt.ltv), tt.term)
			require.NoError(t, err)
			assertDec(t, "0.0175", q.UpfrontRate)
			assertDec(t, tt.annualRate, q.AnnualRate)
			assert.Equal(t, tt.duration, q.MIPDurationYears)
			assert.True(t, q.Upfront.Equal(dec(tt.loan).Mul(dec("0.0175"))))
		})
	}

	q, err := e.FHAMIP(context.Background(), dec("285000"), dec("95"), 30)
	require.NoError(t, err)
	assertDec(t, "4987.5", q.Upfront)
	assertDec(t, "118.75", q.Monthly.Round(2))
}

func TestFHAMIP_MonotonicInLTV(t *testing.T) {
	e := NewMortgageInsuranceEngine(defaultProvider(t), nil)
	for _, term := range []int{15, 30} {
		prev := decimal.Zero
		for ltv := dec("70"); ltv.LessThanOrEqual(dec("96.5")); ltv = ltv.Add(dec("0.5")) {
			q, err := e.FHAMIP(context.Background(), dec("300000"), ltv, term)
			require.NoError(t, err)
			assert.Truef(t, q.AnnualRate.GreaterThanOrEqual(prev), "term %d ltv %s", term, ltv)
			prev = q.AnnualRate
		}
	}
}

func TestFHAMIP_MissingAnnualTable(t *testing.T) {
	stub := newStubProvider(t)
	stub.insurance = map[domain.LoanType]*data.MortgageInsuranceTables{
		domain.FHA: {LoanType: "FHA", Upfront: dec("1.75")},
	}
	logger := &recordingLogger{}
	e := NewMortgageInsuranceEngine(stub, logger)

	q, err := e.FHAMIP(context.Background(), dec("200000"), dec("95"), 30)
	require.NoError(t, err)
	assertDec(t, "3500", q.Upfront)
	assert.True(t, q.Monthly.IsZero())
	assert.Equal(t, 1, logger.warningCount())
}

func TestVAFundingFee(t *testing.T) {
	tests := []struct {
		name string
		dp   string
		opts VAFundingOptions
		want string
	}{
		{"first use no down", "0", VAFundingOptions{FirstTimeUse: true}, "4300"},
		{"first use 5 down", "5", VAFundingOptions{FirstTimeUse: true}, "3000"},
		{"first use 10 down", "10", VAFundingOptions{FirstTimeUse: true}, "2500"},
		{"subsequent no down", "0", VAFundingOptions{}, "6600"},
		{"reservist", "0", VAFundingOptions{FirstTimeUse: true, Reservist: true}, "4300"},
		{"exempt", "0", VAFundingOptions{Exempt: true}, "0"},
	}
	e := NewMortgageInsuranceEngine(defaultProvider(t), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := e.VAFundingFee(context.Background(), dec("200000"), dec(tt.dp), tt.opts)
			require.NoError(t, err)
			assertDec(t, tt.want, q.Upfront)
			assert.True(t, q.Monthly.IsZero())
		})
	}
}

func TestVAFundingFee_MonotonicInDownPayment(t *testing.T) {
	e := NewMortgageInsuranceEngine(defaultProvider(t), nil)
	for _, first := range []bool{true, false} {
		prev := decimal.NewFromInt(100)
		for dp := 0; dp <= 30; dp++ {
			q, err := e.VAFundingFee(context.Background(), dec("250000"), decimal.NewFromInt(int64(dp)), VAFundingOptions{FirstTimeUse: first})
			require.NoError(t, err)
			assert.True(t, q.UpfrontRate.LessThanOrEqual(prev))
			prev = q.UpfrontRate
		}
	}
}

func TestUSDAGuaranteeFee(t *testing.T) {
	e := NewMortgageInsuranceEngine(defaultProvider(t), nil)
	q, err := e.USDAGuaranteeFee(context.Background(), dec("200000"))
	require.NoError(t, err)
	assertDec(t, "2000", q.Upfront)
	assertDec(t, "0.0035", q.AnnualRate)
	assertDec(t, "700", q.AnnualPremium)
	assertDec(t, "58.33", q.Monthly.Round(2))
}
