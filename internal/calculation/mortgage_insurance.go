package calculation

import (
	"context"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// FHALoanLimit is the conforming threshold used when the MIP table omits one.
var FHALoanLimit = decimal.NewFromInt(726200)

var (
	pmiFreeLTV     = decimal.NewFromInt(80)
	fhaLongMIPLTV  = decimal.NewFromInt(90)
	annualPaydown  = decimal.NewFromInt(2)
	fhaMIPMinYears = 11
)

// MIQuote is the insurance cost for one loan. Rates are fractions.
type MIQuote struct {
	Monthly          decimal.Decimal
	Upfront          decimal.Decimal
	AnnualRate       decimal.Decimal
	UpfrontRate      decimal.Decimal
	AnnualPremium    decimal.Decimal
	PMIRemovalYear   int
	MIPDurationYears int
}

// MortgageInsuranceEngine computes PMI, FHA MIP, the VA funding fee and the
// USDA guarantee fee from the provider's tables.
type MortgageInsuranceEngine struct {
	provider data.DataProvider
	logger   Logger
}

func NewMortgageInsuranceEngine(provider data.DataProvider, logger Logger) *MortgageInsuranceEngine {
	logger = orNop(logger)
	return &MortgageInsuranceEngine{provider: provider, logger: logger}
}

func annualToMonthly(loan, annualRate decimal.Decimal) (premium, monthly decimal.Decimal) {
	premium = loan.Mul(annualRate)
	return premium, premium.Div(twelve)
}

// ConventionalPMI is zero at or below 80% LTV. Above that the annual rate
// comes from the FICO x LTV grid.
func (e *MortgageInsuranceEngine) ConventionalPMI(ctx context.Context, loan, ltv decimal.Decimal, fico int) (MIQuote, error) {
	if ltv.LessThanOrEqual(pmiFreeLTV) {
		return MIQuote{}, nil
	}
	tables, err := e.provider.GetMortgageInsurance(ctx, domain.Conventional)
	if err != nil {
		return MIQuote{}, err
	}
	pct, err := GridLookup(tables.PMIRates, decimal.NewFromInt(int64(fico)), ltv)
	if err != nil {
		e.logger.Warnf("pmi rate lookup failed, assuming no PMI: %v", err)
		return MIQuote{}, nil
	}
	q := MIQuote{AnnualRate: pct.Div(hundred), PMIRemovalYear: PMIRemovalYear(ltv)}
	q.AnnualPremium, q.Monthly = annualToMonthly(loan, q.AnnualRate)
	return q, nil
}

// PMIRemovalYear approximates when 80% LTV is reached assuming 2% paydown a
// year, never earlier than year two.
func PMIRemovalYear(ltv decimal.Decimal) int {
	years := int(ltv.Sub(pmiFreeLTV).Div(annualPaydown).Ceil().IntPart())
	return max(2, years)
}

func matchLTVRow(rows []data.LTVRate, ltv decimal.Decimal) (decimal.Decimal, bool) {
	for _, row := range rows {
		if row.MaxLTV == nil || ltv.LessThanOrEqual(*row.MaxLTV) {
			return row.Rate, true
		}
	}
	return decimal.Zero, false
}

// FHAMIP returns the upfront premium and the annual MIP picked by term, loan
// size against the conforming limit, and LTV.
func (e *MortgageInsuranceEngine) FHAMIP(ctx context.Context, loan, ltv decimal.Decimal, termYears int) (MIQuote, error) {
	tables, err := e.provider.GetMortgageInsurance(ctx, domain.FHA)
	if err != nil {
		return MIQuote{}, err
	}
	q := MIQuote{
		UpfrontRate:      tables.Upfront.Div(hundred),
		MIPDurationYears: fhaMIPMinYears,
	}
	if ltv.GreaterThan(fhaLongMIPLTV) {
		q.MIPDurationYears = termYears
	}
	q.Upfront = loan.Mul(q.UpfrontRate)

	if tables.FHAAnnual == nil {
		e.logger.Warnf("FHA annual MIP table missing, assuming zero annual MIP")
		return q, nil
	}
	limit := tables.FHAAnnual.LoanLimit
	if limit.IsZero() {
		limit = FHALoanLimit
	}
	byTerm := tables.FHAAnnual.LongTerm
	if termYears <= 15 {
		byTerm = tables.FHAAnnual.ShortTerm
	}
	rows := byTerm.AtOrBelowLimit
	if loan.GreaterThan(limit) {
		rows = byTerm.AboveLimit
	}
	pct, ok := matchLTVRow(rows, ltv)
	if !ok {
		e.logger.Warnf("no FHA MIP row for LTV %s, assuming zero annual MIP", ltv)
		return q, nil
	}
	q.AnnualRate = pct.Div(hundred)
	q.AnnualPremium, q.Monthly = annualToMonthly(loan, q.AnnualRate)
	return q, nil
}

// VAFundingOptions selects the funding fee schedule.
type VAFundingOptions struct {
	FirstTimeUse bool
	Reservist    bool
	Exempt       bool
}

func vaTier(tiers data.VAFeeTiers, downPaymentPct decimal.Decimal) decimal.Decimal {
	switch {
	case downPaymentPct.LessThan(decimal.NewFromInt(5)):
		return tiers.DownUnder5
	case downPaymentPct.LessThan(decimal.NewFromInt(10)):
		return tiers.Down5To10
	default:
		return tiers.Down10OrMore
	}
}

// VAFundingFee is a one-time fee financed into the loan. VA loans carry no
// monthly insurance, and exempt veterans pay nothing.
func (e *MortgageInsuranceEngine) VAFundingFee(ctx context.Context, loan, downPaymentPct decimal.Decimal, opts VAFundingOptions) (MIQuote, error) {
	if opts.Exempt {
		return MIQuote{}, nil
	}
	tables, err := e.provider.GetMortgageInsurance(ctx, domain.VA)
	if err != nil {
		return MIQuote{}, err
	}
	if tables.FundingFee == nil {
		e.logger.Warnf("VA funding fee table missing, assuming no funding fee")
		return MIQuote{}, nil
	}
	schedule := tables.FundingFee.VAUsageFees
	if opts.Reservist {
		if tables.FundingFee.ReservistOrGuard != nil {
			schedule = *tables.FundingFee.ReservistOrGuard
		} else {
			e.logger.Warnf("no reservist funding fee schedule, using regular service rates")
		}
	}
	tiers := schedule.SubsequentUse
	if opts.FirstTimeUse {
		tiers = schedule.FirstTimeUse
	}
	q := MIQuote{UpfrontRate: vaTier(tiers, downPaymentPct).Div(hundred)}
	q.Upfront = loan.Mul(q.UpfrontRate)
	return q, nil
}

// USDAGuaranteeFee is a flat upfront fee plus a flat annual fee paid monthly.
func (e *MortgageInsuranceEngine) USDAGuaranteeFee(ctx context.Context, loan decimal.Decimal) (MIQuote, error) {
	tables, err := e.provider.GetMortgageInsurance(ctx, domain.USDA)
	if err != nil {
		return MIQuote{}, err
	}
	q := MIQuote{
		UpfrontRate: tables.Upfront.Div(hundred),
		AnnualRate:  tables.Annual.Div(hundred),
	}
	q.Upfront = loan.Mul(q.UpfrontRate)
	q.AnnualPremium, q.Monthly = annualToMonthly(loan, q.AnnualRate)
	return q, nil
}
