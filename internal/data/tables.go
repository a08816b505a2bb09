package data

import (
	"strconv"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Grid is a two-level band table, e.g. FICO band -> LTV band -> value.
// Keys are numeric band thresholds written as strings.
type Grid map[string]map[string]decimal.Decimal

// BaseRates holds note rates in percent keyed by term in years.
type BaseRates struct {
	LoanType string                     `json:"loan_type"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// RateFor returns the percent rate for a term.
func (b *BaseRates) RateFor(termYears int) (decimal.Decimal, bool) {
	r, ok := b.Rates[strconv.Itoa(termYears)]
	return r, ok
}

// LLPATable is an agency loan-level price adjustment grid in points.
type LLPATable struct {
	Entity                  string                     `json:"entity"`
	FICO                    Grid                       `json:"fico"`
	TermAdjustments         map[string]decimal.Decimal `json:"term_adjustments,omitempty"`
	PropertyTypeAdjustments map[string]decimal.Decimal `json:"property_type_adjustments,omitempty"`
	SecondHomeAdjustment    decimal.Decimal            `json:"second_home_adjustment"`
}

// LTVRate is one row of an LTV decision table. A nil MaxLTV matches anything.
type LTVRate struct {
	MaxLTV *decimal.Decimal `json:"max_ltv,omitempty"`
	Rate   decimal.Decimal  `json:"rate"`
}

// FHATermRates splits annual MIP rows by loan size.
type FHATermRates struct {
	AtOrBelowLimit []LTVRate `json:"at_or_below_limit"`
	AboveLimit     []LTVRate `json:"above_limit"`
}

// FHAAnnualMIP is the annual MIP decision table. Rates are percent.
type FHAAnnualMIP struct {
	LoanLimit decimal.Decimal `json:"loan_limit"`
	LongTerm  FHATermRates    `json:"long_term"`
	ShortTerm FHATermRates    `json:"short_term"`
}

// VAFeeTiers are funding fee percentages by down payment.
type VAFeeTiers struct {
	DownUnder5   decimal.Decimal `json:"down_under_5"`
	Down5To10    decimal.Decimal `json:"down_5_to_10"`
	Down10OrMore decimal.Decimal `json:"down_10_or_more"`
}

// VAUsageFees groups tiers by first or subsequent use.
type VAUsageFees struct {
	FirstTimeUse  VAFeeTiers `json:"first_time_use"`
	SubsequentUse VAFeeTiers `json:"subsequent_use"`
}

// VAFundingFees are regular service fees plus the reservist/guard schedule.
type VAFundingFees struct {
	VAUsageFees
	ReservistOrGuard *VAUsageFees `json:"reservist_or_guard,omitempty"`
}

// MortgageInsuranceTables holds the premium table for one program. Only the
// section for that program is populated. All rates are percent.
type MortgageInsuranceTables struct {
	LoanType string `json:"loan_type"`

	// Conventional PMI annual rates, FICO band -> LTV band.
	PMIRates Grid `json:"rates,omitempty"`

	// FHA and USDA upfront premium, USDA annual fee.
	Upfront decimal.Decimal `json:"upfront"`
	Annual  decimal.Decimal `json:"annual"`

	FHAAnnual  *FHAAnnualMIP  `json:"annual_mip,omitempty"`
	FundingFee *VAFundingFees `json:"funding_fee,omitempty"`
}

// StateTaxRates are per-county rates with a state default.
type StateTaxRates struct {
	Default  *decimal.Decimal           `json:"default,omitempty"`
	Counties map[string]decimal.Decimal `json:"counties,omitempty"`
}

// PropertyTaxTable holds effective annual property tax rates (fractions).
type PropertyTaxTable struct {
	Default *decimal.Decimal         `json:"default,omitempty"`
	States  map[string]StateTaxRates `json:"states"`
}

// InsuranceTable holds annual homeowners insurance rates by zip.
type InsuranceTable struct {
	Default *decimal.Decimal           `json:"default,omitempty"`
	Zips    map[string]decimal.Decimal `json:"zips,omitempty"`
}

// TaxCycleTable holds property tax due dates by state.
type TaxCycleTable struct {
	Default *domain.TaxCycle           `json:"default,omitempty"`
	States  map[string]domain.TaxCycle `json:"states,omitempty"`
}

// FeeTier is one step of a tiered schedule. UpTo is inclusive.
type FeeTier struct {
	UpTo       decimal.Decimal  `json:"up_to"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// AgeAdjustment adds Amount when the property is older than OverYears.
type AgeAdjustment struct {
	OverYears int             `json:"over_years"`
	Amount    decimal.Decimal `json:"amount"`
}

// FeeDefinition describes how one closing cost is estimated. Unset optional
// fields are nil so that state variations can be merged field by field.
type FeeDefinition struct {
	CalculationMethod string `json:"calculation_method,omitempty"`
	RegZFinanceCharge *bool  `json:"reg_z_finance_charge,omitempty"`

	BaseAmount    *decimal.Decimal `json:"base_amount,omitempty"`
	TypicalAmount *decimal.Decimal `json:"typical_amount,omitempty"`
	DefaultAmount *decimal.Decimal `json:"default_amount,omitempty"`
	ComplexAmount *decimal.Decimal `json:"complex_amount,omitempty"`
	MaxAmount     *decimal.Decimal `json:"max_amount,omitempty"`

	Percentage       *decimal.Decimal `json:"percentage,omitempty"`
	PointCostPercent *decimal.Decimal `json:"point_cost_percent,omitempty"`
	MinPercentage    *decimal.Decimal `json:"min_percentage,omitempty"`
	MaxPercentage    *decimal.Decimal `json:"max_percentage,omitempty"`

	Tiers                 []FeeTier        `json:"tiers,omitempty"`
	PerAdditional100k     *decimal.Decimal `json:"per_additional_100k,omitempty"`
	PerAdditional250k     *decimal.Decimal `json:"per_additional_250k,omitempty"`
	PerAdditional1000SqFt *decimal.Decimal `json:"per_additional_1000_sqft,omitempty"`
	AgeAdjustment         *AgeAdjustment   `json:"age_adjustment,omitempty"`

	PerCoBorrowerAmount *decimal.Decimal `json:"per_co_borrower_amount,omitempty"`
	PerPageAmount       *decimal.Decimal `json:"per_page_amount,omitempty"`
	EstimatedPages      *int             `json:"estimated_pages,omitempty"`
	IncludedPages       *int             `json:"included_pages,omitempty"`

	BaseAdjustment          *decimal.Decimal `json:"base_adjustment,omitempty"`
	PremiumAdjustmentFactor *decimal.Decimal `json:"premium_adjustment_factor,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// IsFinanceCharge reports the Reg Z flag, false when unset.
func (f FeeDefinition) IsFinanceCharge() bool {
	return f.RegZFinanceCharge != nil && *f.RegZFinanceCharge
}

// Merge returns f with every field set in o copied over it.
func (f FeeDefinition) Merge(o FeeDefinition) FeeDefinition {
	if o.CalculationMethod != "" {
		f.CalculationMethod = o.CalculationMethod
	}
	if o.Tiers != nil {
		f.Tiers = o.Tiers
	}
	if o.AgeAdjustment != nil {
		f.AgeAdjustment = o.AgeAdjustment
	}
	if o.RegZFinanceCharge != nil {
		f.RegZFinanceCharge = o.RegZFinanceCharge
	}
	if o.EstimatedPages != nil {
		f.EstimatedPages = o.EstimatedPages
	}
	if o.IncludedPages != nil {
		f.IncludedPages = o.IncludedPages
	}
	if o.Notes != "" {
		f.Notes = o.Notes
	}
	for _, pair := range []struct{ dst, src **decimal.Decimal }{
		{&f.BaseAmount, &o.BaseAmount},
		{&f.TypicalAmount, &o.TypicalAmount},
		{&f.DefaultAmount, &o.DefaultAmount},
		{&f.ComplexAmount, &o.ComplexAmount},
		{&f.MaxAmount, &o.MaxAmount},
		{&f.Percentage, &o.Percentage},
		{&f.PointCostPercent, &o.PointCostPercent},
		{&f.MinPercentage, &o.MinPercentage},
		{&f.MaxPercentage, &o.MaxPercentage},
		{&f.PerAdditional100k, &o.PerAdditional100k},
		{&f.PerAdditional250k, &o.PerAdditional250k},
		{&f.PerAdditional1000SqFt, &o.PerAdditional1000SqFt},
		{&f.PerCoBorrowerAmount, &o.PerCoBorrowerAmount},
		{&f.PerPageAmount, &o.PerPageAmount},
		{&f.BaseAdjustment, &o.BaseAdjustment},
		{&f.PremiumAdjustmentFactor, &o.PremiumAdjustmentFactor},
	} {
		if *pair.src != nil {
			*pair.dst = *pair.src
		}
	}
	return f
}

// PremiumFormula scales the annual HOI premium by purchase price.
type PremiumFormula struct {
	ScalingFactor decimal.Decimal `json:"scaling_factor"`
	BasePremium   decimal.Decimal `json:"base_premium"`
}

type InterestPrepaid struct {
	RegZFinanceCharge *bool `json:"reg_z_finance_charge,omitempty"`
}

type HOIPrepaid struct {
	RegZFinanceCharge   *bool            `json:"reg_z_finance_charge,omitempty"`
	MonthsPrepaid       *int             `json:"months_prepaid,omitempty"`
	EscrowCushionMonths *int             `json:"escrow_cushion_months,omitempty"`
	TypicalAnnualRate   *decimal.Decimal `json:"typical_annual_rate,omitempty"`
	PremiumFormula      *PremiumFormula  `json:"typical_annual_premium_formula,omitempty"`
}

type TaxPrepaid struct {
	RegZFinanceCharge   *bool `json:"reg_z_finance_charge,omitempty"`
	EscrowCushionMonths *int  `json:"escrow_cushion_months,omitempty"`
}

// PrepaidSettings configures prepaid interest, HOI and the tax escrow.
type PrepaidSettings struct {
	Interest            InterestPrepaid `json:"interest"`
	HomeownersInsurance *HOIPrepaid     `json:"homeowners_insurance,omitempty"`
	PropertyTaxes       *TaxPrepaid     `json:"property_taxes,omitempty"`
}

// StateVariation overrides individual fee fields for one state.
type StateVariation struct {
	Fees map[string]FeeDefinition `json:"fees"`
}

// ClosingCostsData is the full fee schedule.
type ClosingCostsData struct {
	Fees            map[string]FeeDefinition  `json:"fees"`
	Prepaids        PrepaidSettings           `json:"prepaids"`
	StateVariations map[string]StateVariation `json:"state_variations,omitempty"`
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

// DefaultPrepaids is used when the schedule omits prepaid settings.
func DefaultPrepaids() PrepaidSettings {
	rate := decimal.RequireFromString("0.0035")
	return PrepaidSettings{
		Interest: InterestPrepaid{RegZFinanceCharge: boolPtr(true)},
		HomeownersInsurance: &HOIPrepaid{
			RegZFinanceCharge:   boolPtr(false),
			MonthsPrepaid:       intPtr(12),
			EscrowCushionMonths: intPtr(2),
			TypicalAnnualRate:   &rate,
		},
		PropertyTaxes: &TaxPrepaid{
			RegZFinanceCharge:   boolPtr(false),
			EscrowCushionMonths: intPtr(2),
		},
	}
}
