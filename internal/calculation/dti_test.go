package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDTIRatios(t *testing.T) {
	r := DTIRatios(dec("7500"), dec("2250"), dec("500"))
	assertDec(t, "30", r.FrontEnd)
	assertDec(t, "36.67", r.BackEnd)
	assertDec(t, "7500", r.MonthlyIncome)

	zero := DTIRatios(dec("0"), dec("2250"), dec("500"))
	assert.True(t, zero.FrontEnd.IsZero())
	assert.True(t, zero.BackEnd.IsZero())
	assertDec(t, "2250", zero.HousingExpense)
}
