package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// creditTier adds Adjustment (a rate fraction) for scores at or above MinScore.
type creditTier struct {
	MinScore   int
	Adjustment decimal.Decimal
}

// Tiers are ordered from the highest score down; the last entry is the floor.
var creditTiers = map[domain.LoanType][]creditTier{
	domain.FHA: {
		{740, dec("-0.0025")},
		{720, dec("-0.00125")},
		{680, decimal.Zero},
		{660, dec("0.00125")},
		{640, dec("0.0025")},
		{620, dec("0.00375")},
		{600, dec("0.005")},
		{0, dec("0.0075")},
	},
	domain.VA: {
		{760, dec("-0.0025")},
		{740, dec("-0.00125")},
		{720, decimal.Zero},
		{680, dec("0.00125")},
		{640, dec("0.0025")},
		{620, dec("0.00375")},
		{600, dec("0.005")},
		{0, dec("0.0075")},
	},
	domain.USDA: {
		{740, dec("-0.00125")},
		{700, decimal.Zero},
		{680, dec("0.00125")},
		{660, dec("0.0025")},
		{0, dec("0.00375")},
	},
}

// LLPA property-type keys by MortgageInput.PropertyType.
var llpaPropertyKeys = map[string]string{
	domain.PropertyTwoUnits:         "2units",
	domain.PropertyThreeUnits:       "3to4units",
	domain.PropertyFourUnits:        "3to4units",
	domain.PropertyCondo:            "condo",
	domain.PropertyTownhouse:        "townhouse",
	domain.PropertyManufacturedHome: "manufacturedHome",
}

// RateQuote is a note rate and how it was built. All values are fractions
// except LLPAPoints.
type RateQuote struct {
	BaseRate   decimal.Decimal
	Adjustment decimal.Decimal
	Rate       decimal.Decimal
	LLPAPoints decimal.Decimal
}

// RateAdjustmentEngine prices the note rate for a scenario.
type RateAdjustmentEngine struct {
	provider data.DataProvider
	logger   Logger
}

func NewRateAdjustmentEngine(provider data.DataProvider, logger Logger) *RateAdjustmentEngine {
	logger = orNop(logger)
	return &RateAdjustmentEngine{provider: provider, logger: logger}
}

// BaseRate returns the published rate for loanType and term as a fraction.
func (e *RateAdjustmentEngine) BaseRate(ctx context.Context, loanType domain.LoanType, termYears int) (decimal.Decimal, error) {
	rates, err := e.provider.GetBaseRates(ctx, loanType)
	if err != nil {
		return decimal.Zero, err
	}
	pct, ok := rates.RateFor(termYears)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s %d-year: %w", loanType, termYears, ErrMissingRate)
	}
	return pct.Div(hundred), nil
}

// LLPA returns the Fannie Mae loan-level price adjustment in points.
func (e *RateAdjustmentEngine) LLPA(ctx context.Context, in *domain.MortgageInput) (decimal.Decimal, error) {
	table, err := e.provider.GetLLPA(ctx, data.FannieMae)
	if err != nil {
		return decimal.Zero, err
	}
	points, err := GridLookup(table.FICO, decimal.NewFromInt(int64(in.FICOScore)), in.LTV)
	if err != nil {
		return decimal.Zero, fmt.Errorf("llpa grid: %w", err)
	}
	if in.Term() <= 15 {
		points = points.Add(table.TermAdjustments["15year"])
	}
	if key, ok := llpaPropertyKeys[in.PropertyType]; ok {
		points = points.Add(table.PropertyTypeAdjustments[key])
	}
	if in.SecondHome {
		points = points.Add(table.SecondHomeAdjustment)
	}
	return points, nil
}

// CreditTierAdjustment is the FHA, VA or USDA rate adder for a score.
// Conventional loans use the LLPA instead and get zero here.
func CreditTierAdjustment(loanType domain.LoanType, fico int) decimal.Decimal {
	for _, tier := range creditTiers[loanType] {
		if fico >= tier.MinScore {
			return tier.Adjustment
		}
	}
	return decimal.Zero
}

// Quote prices the note rate: base rate plus LLPA points for Conventional,
// plus the credit tier for the government programs.
func (e *RateAdjustmentEngine) Quote(ctx context.Context, in *domain.MortgageInput) (RateQuote, error) {
	base, err := e.BaseRate(ctx, in.LoanType, in.Term())
	if err != nil {
		return RateQuote{}, err
	}
	q := RateQuote{BaseRate: base}
	if in.LoanType == domain.Conventional {
		points, err := e.LLPA(ctx, in)
		if err != nil {
			return RateQuote{}, err
		}
		q.LLPAPoints = points
		q.Adjustment = points.Div(hundred)
	} else {
		q.Adjustment = CreditTierAdjustment(in.LoanType, in.FICOScore)
	}
	q.Rate = base.Add(q.Adjustment)
	e.logger.Debugf("rate %s: base %s adj %s -> %s", in.LoanType, base, q.Adjustment, q.Rate)
	return q, nil
}
