package output

import (
	"strconv"

	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return money.Dollars(amount) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRatio formats a fraction (0.43) as a percentage ("43.00%").
func FormatRatio(ratio decimal.Decimal) string { return FormatPercentage(ratio.Mul(decimalHundred)) }

// FormatThousands renders whole thousands of dollars, as used in matrix grids.
func FormatThousands(amount decimal.Decimal) string {
	return "$" + amount.Div(decimal.NewFromInt(1000)).Round(0).String() + "K"
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
