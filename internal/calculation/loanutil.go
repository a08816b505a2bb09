package calculation

import (
	"iter"
	"math"
	"slices"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	twelve      = decimal.NewFromInt(12)
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// interestScale bounds the precision carried between amortization periods.
const interestScale = 10

// MonthlyPayment returns the level monthly payment for a fully amortizing
// loan. annualRate is a fraction (0.065). A zero rate spreads principal evenly.
func MonthlyPayment(principal, annualRate decimal.Decimal, termYears int) decimal.Decimal {
	n := termYears * 12
	if n <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	if annualRate.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(n)))
	}
	r := annualRate.InexactFloat64() / 12
	factor := math.Pow(1+r, float64(n))
	return principal.Mul(decimal.NewFromFloat(r * factor / (factor - 1)))
}

// MaxLoanFromPayment is the present value of n level payments: the largest
// principal that payment can carry. Non-positive payments yield zero.
func MaxLoanFromPayment(payment, annualRate decimal.Decimal, termYears int) decimal.Decimal {
	n := termYears * 12
	if n <= 0 || !payment.IsPositive() {
		return decimal.Zero
	}
	if annualRate.IsZero() {
		return payment.Mul(decimal.NewFromInt(int64(n)))
	}
	r := annualRate.InexactFloat64() / 12
	return payment.Mul(decimal.NewFromFloat((1 - math.Pow(1+r, -float64(n))) / r))
}

// MaxPayment is the housing budget left after existing debts. It may be
// negative; callers clamp.
func MaxPayment(monthlyIncome, maxDTI, monthlyDebts decimal.Decimal) decimal.Decimal {
	return monthlyIncome.Mul(maxDTI).Sub(monthlyDebts)
}

// AmortizationSchedule yields month 1, every 12th month and the final month
// of the loan. The sequence is recomputed on every range, so it can be
// iterated any number of times.
func AmortizationSchedule(principal, annualRate decimal.Decimal, termYears int) iter.Seq[domain.AmortizationEntry] {
	return func(yield func(domain.AmortizationEntry) bool) {
		n := termYears * 12
		if n <= 0 || !principal.IsPositive() {
			return
		}
		payment := MonthlyPayment(principal, annualRate, termYears)
		monthlyRate := annualRate.Div(twelve)
		balance := principal
		totalInterest := decimal.Zero

		for month := 1; month <= n; month++ {
			interest := balance.Mul(monthlyRate).Round(interestScale)
			principalPart := payment.Sub(interest)
			pay := payment
			if month == n {
				principalPart = balance
				pay = principalPart.Add(interest)
			}
			balance = balance.Sub(principalPart)
			totalInterest = totalInterest.Add(interest)

			if month == 1 || month%12 == 0 || month == n {
				entry := domain.AmortizationEntry{
					Month:         month,
					Year:          (month + 11) / 12,
					Payment:       pay,
					Principal:     principalPart,
					Interest:      interest,
					TotalInterest: totalInterest,
					Balance:       balance,
					Equity:        principal.Sub(balance),
				}
				if !yield(entry) {
					return
				}
			}
		}
	}
}

// Amortization collects AmortizationSchedule into a slice.
func Amortization(principal, annualRate decimal.Decimal, termYears int) []domain.AmortizationEntry {
	return slices.Collect(AmortizationSchedule(principal, annualRate, termYears))
}
