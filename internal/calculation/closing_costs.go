package calculation

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/rpgo/mortgage-calculator/pkg/dateutil"
	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// Fee calculation methods understood by ResolveAmount.
const (
	MethodFixed                      = "fixed"
	MethodPercentageLoanAmount       = "percentageLoanAmount"
	MethodPercentagePurchasePrice    = "percentagePurchasePrice"
	MethodPoints                     = "points"
	MethodTieredLoanAmount           = "tieredLoanAmount"
	MethodTieredPurchasePrice        = "tieredPurchasePrice"
	MethodTieredPercentageLoanAmount = "tieredPercentageLoanAmount"
	MethodPerBorrower                = "perBorrower"
	MethodPerPage                    = "perPage"
	MethodTieredSqFt                 = "tieredSqFt"
	MethodFixedComplexity            = "fixedComplexity"
	MethodTieredComplexity           = "tieredComplexity"
	MethodStateRegulated             = "stateRegulated"

	MethodOverride = "Override"
	MethodPerDiem  = "perDiem"
	MethodEscrow   = "escrow"
	MethodUnknown  = "Unknown"
)

// Detail keys for the prepaid items added next to the fees.
const (
	DetailPrepaidInterest = "Prepaid Interest"
	DetailPrepaidHOI      = "Prepaid Homeowners Insurance"
	DetailPrepaidTaxes    = "Prepaid Property Taxes"
)

// FallbackReason says why ResolveAmount did not use the primary figure of a
// fee definition. The empty reason means no fallback was needed.
type FallbackReason string

const (
	FallbackNone           FallbackReason = ""
	FallbackTypicalAmount  FallbackReason = "typical_amount"
	FallbackDefaultAmount  FallbackReason = "default_amount"
	FallbackZero           FallbackReason = "zero"
	FallbackStateRegulated FallbackReason = "state_regulated"
	FallbackUnknownMethod  FallbackReason = "unknown_method"
)

const (
	defaultEstimatedPages = 20
	defaultIncludedPages  = 5
	defaultMonthsPrepaid  = 12
)

var (
	defaultPointCost = dec("0.01")
	per100k          = decimal.NewFromInt(100000)
	per250k          = decimal.NewFromInt(250000)
	per1000SqFt      = decimal.NewFromInt(1000)
)

// overrideKeys maps fee names to the override keys callers use. Any other fee
// is keyed by its name with whitespace removed.
var overrideKeys = map[string]string{
	"Appraisal Fee":            "AppraisalFee",
	"Lender's Title Insurance": "LenderTitleInsurance",
	"Owner's Title Insurance":  "OwnerTitleInsurance",
	"Loan Origination Fee":     "OriginationFeeAmount",
}

// OverrideKey returns the override key for a fee name.
func OverrideKey(feeName string) string {
	if k, ok := overrideKeys[feeName]; ok {
		return k
	}
	return strings.Join(strings.Fields(feeName), "")
}

// FeeContext carries the scenario values the fee methods read.
type FeeContext struct {
	LoanAmount    decimal.Decimal
	PurchasePrice decimal.Decimal
	Points        decimal.Decimal
	Borrowers     int
	SquareFeet    int
	PropertyAge   int
	Complex       bool
}

func valueOr(p *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if p == nil {
		return fallback
	}
	return *p
}

func isSet(p *decimal.Decimal) bool { return p != nil && !p.IsZero() }

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func sortedTiers(tiers []data.FeeTier) []data.FeeTier {
	out := slices.Clone(tiers)
	slices.SortStableFunc(out, func(a, b data.FeeTier) int { return a.UpTo.Cmp(b.UpTo) })
	return out
}

func increments(excess, step decimal.Decimal) decimal.Decimal {
	return excess.Div(step).Ceil()
}

// ResolveAmount evaluates one fee definition, after any state variation has
// been merged in. The reason reports which fallback, if any, produced the
// amount.
func ResolveAmount(def data.FeeDefinition, fc FeeContext) (decimal.Decimal, FallbackReason) {
	switch def.CalculationMethod {
	case MethodFixed:
		if def.BaseAmount != nil {
			return *def.BaseAmount, FallbackNone
		}
		if def.TypicalAmount != nil {
			return *def.TypicalAmount, FallbackTypicalAmount
		}
		return decimal.Zero, FallbackZero
	case MethodPercentageLoanAmount:
		return fc.LoanAmount.Mul(valueOr(def.Percentage, decimal.Zero)), FallbackNone
	case MethodPercentagePurchasePrice:
		return fc.PurchasePrice.Mul(valueOr(def.Percentage, decimal.Zero)), FallbackNone
	case MethodPoints:
		return fc.LoanAmount.Mul(valueOr(def.PointCostPercent, defaultPointCost)).Mul(fc.Points), FallbackNone
	case MethodTieredLoanAmount, MethodTieredPurchasePrice, MethodTieredPercentageLoanAmount:
		return resolveTiered(def, fc)
	case MethodPerBorrower:
		extra := max(0, fc.Borrowers-1)
		return valueOr(def.BaseAmount, decimal.Zero).
			Add(valueOr(def.PerCoBorrowerAmount, decimal.Zero).Mul(decimal.NewFromInt(int64(extra)))), FallbackNone
	case MethodPerPage:
		pages := max(0, intOr(def.EstimatedPages, defaultEstimatedPages)-intOr(def.IncludedPages, defaultIncludedPages))
		return valueOr(def.BaseAmount, decimal.Zero).
			Add(valueOr(def.PerPageAmount, decimal.Zero).Mul(decimal.NewFromInt(int64(pages)))), FallbackNone
	case MethodTieredSqFt:
		return resolveSqFt(def, fc)
	case MethodFixedComplexity, MethodTieredComplexity:
		amount := valueOr(def.BaseAmount, decimal.Zero)
		if fc.Complex {
			amount = valueOr(def.ComplexAmount, amount)
		}
		if isSet(def.BaseAdjustment) {
			amount = amount.Add(*def.BaseAdjustment)
		}
		return money.NonNegative(amount), FallbackNone
	case MethodStateRegulated:
		return decimal.Zero, FallbackStateRegulated
	default:
		if def.TypicalAmount != nil {
			return *def.TypicalAmount, FallbackUnknownMethod
		}
		return decimal.Zero, FallbackUnknownMethod
	}
}

func resolveTiered(def data.FeeDefinition, fc FeeContext) (decimal.Decimal, FallbackReason) {
	base := fc.PurchasePrice
	percent := def.CalculationMethod == MethodTieredPercentageLoanAmount
	if def.CalculationMethod == MethodTieredLoanAmount || percent {
		base = fc.LoanAmount
	}

	tiers := sortedTiers(def.Tiers)
	amount := valueOr(def.DefaultAmount, decimal.Zero)
	reason := FallbackNone
	matched := false
	for _, t := range tiers {
		if base.GreaterThan(t.UpTo) {
			continue
		}
		matched = true
		if percent {
			amount = base.Mul(valueOr(t.Percentage, decimal.Zero))
			if isSet(def.MinPercentage) {
				amount = decimal.Max(amount, base.Mul(*def.MinPercentage))
			}
			if isSet(def.MaxPercentage) {
				amount = decimal.Min(amount, base.Mul(*def.MaxPercentage))
			}
		} else {
			amount = valueOr(t.Amount, decimal.Zero)
		}
		break
	}

	lastUpTo := decimal.Zero
	var last data.FeeTier
	if len(tiers) > 0 {
		last = tiers[len(tiers)-1]
		lastUpTo = last.UpTo
	}
	above := base.GreaterThan(lastUpTo)
	switch {
	case above && isSet(def.DefaultAmount):
		amount = *def.DefaultAmount
		reason = FallbackDefaultAmount
	case above && len(tiers) > 0 && isSet(def.PerAdditional100k):
		amount = valueOr(last.Amount, decimal.Zero).Add(increments(base.Sub(lastUpTo), per100k).Mul(*def.PerAdditional100k))
	case above && len(tiers) > 0 && isSet(def.PerAdditional250k):
		amount = valueOr(last.Amount, decimal.Zero).Add(increments(base.Sub(lastUpTo), per250k).Mul(*def.PerAdditional250k))
	case !matched:
		reason = FallbackDefaultAmount
		if def.DefaultAmount == nil {
			reason = FallbackZero
		}
	}

	if isSet(def.MaxAmount) && amount.GreaterThan(*def.MaxAmount) {
		amount = *def.MaxAmount
	}
	if isSet(def.BaseAdjustment) {
		amount = amount.Add(*def.BaseAdjustment)
	}
	if isSet(def.PremiumAdjustmentFactor) {
		amount = amount.Mul(*def.PremiumAdjustmentFactor)
	}
	return money.NonNegative(amount), reason
}

func resolveSqFt(def data.FeeDefinition, fc FeeContext) (decimal.Decimal, FallbackReason) {
	sqft := fc.SquareFeet
	if sqft <= 0 {
		sqft = domain.DefaultSquareFeet
	}
	size := decimal.NewFromInt(int64(sqft))
	tiers := sortedTiers(def.Tiers)

	amount := decimal.Zero
	reason := FallbackNone
	for _, t := range tiers {
		if size.LessThanOrEqual(t.UpTo) {
			amount = valueOr(t.Amount, decimal.Zero)
			break
		}
	}
	if n := len(tiers); n > 0 && size.GreaterThan(tiers[n-1].UpTo) && isSet(def.PerAdditional1000SqFt) {
		last := tiers[n-1]
		amount = valueOr(last.Amount, decimal.Zero).Add(increments(size.Sub(last.UpTo), per1000SqFt).Mul(*def.PerAdditional1000SqFt))
	} else if amount.IsZero() && isSet(def.DefaultAmount) {
		amount = *def.DefaultAmount
		reason = FallbackDefaultAmount
	}

	if def.AgeAdjustment != nil && fc.PropertyAge > def.AgeAdjustment.OverYears {
		amount = amount.Add(def.AgeAdjustment.Amount)
	}
	if isSet(def.BaseAdjustment) {
		amount = amount.Add(*def.BaseAdjustment)
	}
	return money.NonNegative(amount), reason
}

// ClosingCostInput is the scenario and priced loan behind a closing cost
// estimate. InterestRate is the note rate as a fraction.
type ClosingCostInput struct {
	Input        *domain.MortgageInput
	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	UpfrontFee   decimal.Decimal
	Location     *domain.LocationFactors
}

func (in ClosingCostInput) feeContext() FeeContext {
	return FeeContext{
		LoanAmount:    in.LoanAmount,
		PurchasePrice: in.Input.PurchasePrice,
		Points:        in.Input.Points,
		Borrowers:     in.Input.Borrowers(),
		SquareFeet:    in.Input.SqFt(),
		PropertyAge:   in.Input.PropertyAge,
		Complex:       in.Input.ComplexTransaction,
	}
}

// ClosingCostEngine itemizes fees, prepaids and the tax escrow deposit.
type ClosingCostEngine struct {
	provider data.DataProvider
	logger   Logger
}

func NewClosingCostEngine(provider data.DataProvider, logger Logger) *ClosingCostEngine {
	logger = orNop(logger)
	return &ClosingCostEngine{provider: provider, logger: logger}
}

// EvaluateFee applies a user override, else the state variation and the fee
// method.
func (e *ClosingCostEngine) EvaluateFee(name string, def data.FeeDefinition, variation data.StateVariation, in *domain.MortgageInput, fc FeeContext) domain.ClosingCostDetail {
	if v, ok := in.Override(OverrideKey(name)); ok {
		return domain.ClosingCostDetail{
			Amount:            v,
			IsOverridden:      true,
			RegZFinanceCharge: def.IsFinanceCharge(),
			CalculationMethod: MethodOverride,
		}
	}
	if sv, ok := variation.Fees[name]; ok {
		def = def.Merge(sv)
	}
	amount, reason := ResolveAmount(def, fc)
	switch reason {
	case FallbackStateRegulated:
		e.logger.Warnf("fee %q uses stateRegulated pricing which is not modelled, using 0", name)
	case FallbackUnknownMethod:
		e.logger.Warnf("fee %q has unknown calculation method %q, using typical amount", name, def.CalculationMethod)
	}
	method := def.CalculationMethod
	if method == "" {
		method = MethodUnknown
	}
	return domain.ClosingCostDetail{
		Amount:            amount.Round(2),
		RegZFinanceCharge: def.IsFinanceCharge(),
		CalculationMethod: method,
		Fallback:          string(reason),
	}
}

// PrepaidInterest is per-diem interest from closing through month end, with
// the closing day counted. It is zero without a valid closing date.
func PrepaidInterest(loan, annualRate decimal.Decimal, closingDate string) decimal.Decimal {
	if closingDate == "" || !loan.IsPositive() || !annualRate.IsPositive() {
		return decimal.Zero
	}
	closing, err := dateutil.ParseISODate(closingDate)
	if err != nil {
		return decimal.Zero
	}
	days := decimal.NewFromInt(int64(dateutil.DaysToMonthEnd(closing)))
	return loan.Mul(annualRate).Div(daysPerYear).Mul(days).Round(2)
}

type prepaidItem struct {
	amount     decimal.Decimal
	annual     decimal.Decimal
	overridden bool
	escrow     *domain.EscrowProjection
}

func prepaidHOI(in *domain.MortgageInput, settings *data.HOIPrepaid, lf *domain.LocationFactors) prepaidItem {
	var item prepaidItem
	if settings == nil {
		return item
	}
	price := in.PurchasePrice
	switch {
	case hasOverride(in, domain.OverrideAnnualHOI):
		item.annual, _ = in.Override(domain.OverrideAnnualHOI)
		item.overridden = true
	case price.IsPositive() && settings.PremiumFormula != nil:
		item.annual = price.Mul(settings.PremiumFormula.ScalingFactor)
		if item.annual.IsZero() {
			item.annual = settings.PremiumFormula.BasePremium
		}
	case price.IsPositive() && isSet(settings.TypicalAnnualRate):
		item.annual = price.Mul(*settings.TypicalAnnualRate)
	case price.IsPositive() && lf != nil:
		item.annual = price.Mul(lf.InsuranceRate)
	}
	months := intOr(settings.MonthsPrepaid, defaultMonthsPrepaid) + intOr(settings.EscrowCushionMonths, 0)
	item.amount = money.Cents(money.MonthlyOf(item.annual).Mul(decimal.NewFromInt(int64(months))))
	return item
}

func hasOverride(in *domain.MortgageInput, key string) bool {
	_, ok := in.Override(key)
	return ok
}

func (e *ClosingCostEngine) prepaidTaxes(in *domain.MortgageInput, settings *data.TaxPrepaid, lf *domain.LocationFactors) (prepaidItem, error) {
	var item prepaidItem
	if v, ok := in.Override(domain.OverrideAnnualPropertyTax); ok {
		item.annual = v
		item.overridden = true
	} else if lf != nil {
		item.annual = in.PurchasePrice.Mul(lf.PropertyTaxRate)
	}

	if settings == nil || in.ClosingDate == "" || lf == nil || len(lf.TaxCycle.DueDates) == 0 {
		e.logger.Debugf("tax escrow skipped: closing date, tax settings or due dates missing")
		return item, nil
	}
	if !item.annual.IsPositive() {
		item.annual = decimal.Zero
		return item, nil
	}
	closing, err := dateutil.ParseISODate(in.ClosingDate)
	if err != nil {
		return item, nil
	}
	proj, err := ProjectTaxEscrow(TaxEscrowInput{
		AnnualTax:     item.annual,
		DueDates:      lf.TaxCycle.DueDates,
		Closing:       closing,
		CushionMonths: intOr(settings.EscrowCushionMonths, 0),
	})
	if err != nil {
		return item, err
	}
	item.amount = proj.InitialDeposit
	item.escrow = proj
	return item, nil
}

// Estimate builds the full closing cost breakdown for a priced loan.
func (e *ClosingCostEngine) Estimate(ctx context.Context, cin ClosingCostInput) (*domain.ClosingCostsBreakdown, error) {
	schedule, err := e.provider.GetClosingCostsData(ctx)
	if err != nil {
		return nil, err
	}
	in := cin.Input
	fc := cin.feeContext()
	variation := schedule.StateVariations[data.FeeStateCode(in.Location)]

	out := &domain.ClosingCostsBreakdown{Details: make(map[string]domain.ClosingCostDetail, len(schedule.Fees)+3)}
	total := decimal.Zero
	for _, name := range slices.Sorted(maps.Keys(schedule.Fees)) {
		detail := e.EvaluateFee(name, schedule.Fees[name], variation, in, fc)
		out.Details[name] = detail
		total = total.Add(detail.Amount)
	}

	prepaids := schedule.Prepaids
	out.PrepaidInterest = PrepaidInterest(cin.LoanAmount, cin.InterestRate, in.ClosingDate)
	out.Details[DetailPrepaidInterest] = domain.ClosingCostDetail{
		Amount:            out.PrepaidInterest,
		RegZFinanceCharge: prepaids.Interest.RegZFinanceCharge == nil || *prepaids.Interest.RegZFinanceCharge,
		CalculationMethod: MethodPerDiem,
	}

	hoi := prepaidHOI(in, prepaids.HomeownersInsurance, cin.Location)
	out.PrepaidHOI = hoi.amount
	out.AnnualHOI = hoi.annual
	out.Details[DetailPrepaidHOI] = domain.ClosingCostDetail{
		Amount:            hoi.amount,
		IsOverridden:      hoi.overridden,
		RegZFinanceCharge: prepaids.HomeownersInsurance != nil && flag(prepaids.HomeownersInsurance.RegZFinanceCharge),
		CalculationMethod: MethodEscrow,
	}

	taxes, err := e.prepaidTaxes(in, prepaids.PropertyTaxes, cin.Location)
	if err != nil {
		return nil, err
	}
	out.PrepaidTaxes = taxes.amount
	out.AnnualPropertyTax = taxes.annual
	out.Escrow = taxes.escrow
	out.Details[DetailPrepaidTaxes] = domain.ClosingCostDetail{
		Amount:            taxes.amount,
		IsOverridden:      taxes.overridden,
		RegZFinanceCharge: prepaids.PropertyTaxes != nil && flag(prepaids.PropertyTaxes.RegZFinanceCharge),
		CalculationMethod: MethodEscrow,
	}

	out.TotalEstimated = total.Round(2)
	out.TotalPrepaids = out.PrepaidInterest.Add(out.PrepaidHOI).Add(out.PrepaidTaxes).Round(2)
	out.FinanceCharges = FinanceCharges(out.Details, in.Points, cin.LoanAmount, cin.UpfrontFee)
	return out, nil
}

func flag(b *bool) bool { return b != nil && *b }

// FinanceCharges sums Reg Z flagged details, the discount points cost and any
// financed upfront insurance fee.
func FinanceCharges(details map[string]domain.ClosingCostDetail, points, loan, upfrontFee decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, d := range details {
		if d.RegZFinanceCharge {
			total = total.Add(d.Amount)
		}
	}
	total = total.Add(points.Mul(defaultPointCost).Mul(loan))
	return total.Add(upfrontFee).Round(2)
}

// RepresentativeAPR spreads finance charges evenly over the term and adds
// them to the note rate. It ignores the time value of money, so it is only
// an approximation of a Reg Z APR. Both rates are percentages.
func RepresentativeAPR(notePercent, financeCharges, loan decimal.Decimal, termYears int) decimal.Decimal {
	apr := notePercent
	if loan.IsPositive() && termYears > 0 {
		apr = apr.Add(financeCharges.Div(decimal.NewFromInt(int64(termYears))).Div(loan).Mul(hundred))
	}
	return apr.Round(3)
}
