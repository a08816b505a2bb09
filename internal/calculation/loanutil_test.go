package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		want      string
	}{
		{"30 year at 6%", "200000", "0.06", 30, "1199.10"},
		{"15 year at 5%", "100000", "0.05", 15, "790.79"},
		{"zero rate spreads evenly", "120000", "0", 10, "1000"},
		{"zero principal", "0", "0.06", 30, "0"},
		{"zero term", "100000", "0.06", 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyPayment(dec(tt.principal), dec(tt.rate), tt.term)
			assertDec(t, tt.want, got.Round(2))
		})
	}
}

func TestMonthlyPayment_ZeroRateIsExact(t *testing.T) {
	got := MonthlyPayment(dec("100000"), decimal.Zero, 30)
	assert.True(t, got.Equal(dec("100000").Div(dec("360"))))
}

func TestMaxLoanFromPayment(t *testing.T) {
	t.Run("inverts MonthlyPayment", func(t *testing.T) {
		for _, rate := range []string{"0.03", "0.0625", "0.09"} {
			payment := MonthlyPayment(dec("350000"), dec(rate), 30)
			assertNear(t, dec("350000"), MaxLoanFromPayment(payment, dec(rate), 30), "0.01")
		}
	})
	t.Run("zero rate", func(t *testing.T) {
		assertDec(t, "360000", MaxLoanFromPayment(dec("1000"), decimal.Zero, 30))
	})
	t.Run("non-positive payment", func(t *testing.T) {
		assert.True(t, MaxLoanFromPayment(dec("-50"), dec("0.06"), 30).IsZero())
		assert.True(t, MaxLoanFromPayment(decimal.Zero, dec("0.06"), 30).IsZero())
	})
}

func TestMaxPayment(t *testing.T) {
	assertDec(t, "2875", MaxPayment(dec("7500"), dec("0.45"), dec("500")))
	assert.True(t, MaxPayment(dec("1000"), dec("0.43"), dec("900")).IsNegative())
}

func TestAmortization_Identity(t *testing.T) {
	principal := dec("285000")
	rate := dec("0.06125")
	schedule := Amortization(principal, rate, 30)
	require.Len(t, schedule, 31)

	payment := MonthlyPayment(principal, rate, 30)
	prevBalance := principal
	for _, e := range schedule {
		assert.Truef(t, e.Payment.Equal(e.Principal.Add(e.Interest)), "month %d: payment != principal + interest", e.Month)
		assert.Truef(t, e.Equity.Add(e.Balance).Equal(principal), "month %d: equity + balance != principal", e.Month)
		assert.Truef(t, e.Balance.LessThan(prevBalance), "month %d: balance did not decrease", e.Month)
		assert.Equal(t, (e.Month+11)/12, e.Year)
		prevBalance = e.Balance
	}

	first, last := schedule[0], schedule[len(schedule)-1]
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 360, last.Month)
	assert.True(t, last.Balance.IsZero(), "final balance should be zero, got %s", last.Balance)

	paid := payment.Mul(decimal.NewFromInt(359)).Add(last.Payment)
	assert.True(t, last.TotalInterest.Equal(paid.Sub(principal)), "total interest must equal total paid minus principal")
	assertNear(t, payment, last.Payment, "0.01")
}

func TestAmortization_SamplesYearEnds(t *testing.T) {
	schedule := Amortization(dec("100000"), dec("0.05"), 15)
	require.Len(t, schedule, 16)
	for i, e := range schedule[1:] {
		assert.Equal(t, (i+1)*12, e.Month)
	}
}

func TestAmortization_ZeroRate(t *testing.T) {
	schedule := Amortization(dec("120000"), decimal.Zero, 10)
	require.NotEmpty(t, schedule)
	for _, e := range schedule {
		assert.True(t, e.Interest.IsZero())
		assertDec(t, "1000", e.Payment)
	}
	last := schedule[len(schedule)-1]
	assert.True(t, last.Balance.IsZero())
	assert.True(t, last.TotalInterest.IsZero())
}

func TestAmortizationSchedule_IsRestartable(t *testing.T) {
	seq := AmortizationSchedule(dec("200000"), dec("0.07"), 30)

	var firstPass, secondPass []string
	for e := range seq {
		firstPass = append(firstPass, e.Balance.String())
	}
	for e := range seq {
		secondPass = append(secondPass, e.Balance.String())
	}
	assert.Equal(t, firstPass, secondPass)

	taken := 0
	for range seq {
		taken++
		if taken == 3 {
			break
		}
	}
	assert.Equal(t, 3, taken)
}

func TestAmortizationSchedule_Empty(t *testing.T) {
	assert.Empty(t, Amortization(decimal.Zero, dec("0.05"), 30))
	assert.Empty(t, Amortization(dec("100000"), dec("0.05"), 0))
}
