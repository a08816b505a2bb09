// Package decimal holds the money and rate helpers shared by the calculators.
package decimal

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// Dollars renders d as "$1234.56", with a leading minus for negatives.
func Dollars(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Cents rounds a raw decimal to cents.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MonthlyOf divides an annual amount by twelve.
func MonthlyOf(annual decimal.Decimal) decimal.Decimal {
	return annual.Div(twelve)
}

// PercentToRate converts 6.5 (percent) into 0.065.
func PercentToRate(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

// RateToPercent converts 0.065 into 6.5.
func RateToPercent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(hundred)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// NonNegative floors a raw decimal at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
