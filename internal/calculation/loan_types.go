package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

// referenceLoan sizes the MI estimate fed to the solver before the real loan
// amount is known.
var referenceLoan = decimal.NewFromInt(300000)

// LoanCalculator prices one mortgage program: rate, affordability, insurance
// and payment.
type LoanCalculator interface {
	LoanType() domain.LoanType
	// MaxDTI is the back-end DTI limit used by the solver, as a fraction.
	MaxDTI(fico int, ltv decimal.Decimal) decimal.Decimal
	// InitialMonthlyMI is the MI assumed while solving for the loan amount.
	InitialMonthlyMI(fico int, ltv decimal.Decimal) decimal.Decimal
	Calculate(ctx context.Context, in *domain.MortgageInput, lf *domain.LocationFactors) (*domain.LoanDetails, error)
}

// loanEngines are shared by every program.
type loanEngines struct {
	rates  *RateAdjustmentEngine
	mi     *MortgageInsuranceEngine
	solver *AffordabilitySolver
	logger Logger
}

// insurer returns the program's insurance for the financed base loan.
type insurer func(ctx context.Context, in *domain.MortgageInput, loan decimal.Decimal) (MIQuote, error)

// LoanCalculatorFor returns the calculator for lt.
func LoanCalculatorFor(lt domain.LoanType, rates *RateAdjustmentEngine, mi *MortgageInsuranceEngine, solver *AffordabilitySolver, logger Logger) (LoanCalculator, error) {
	logger = orNop(logger)
	e := loanEngines{rates: rates, mi: mi, solver: solver, logger: logger}
	switch lt {
	case domain.Conventional:
		return &ConventionalLoan{e}, nil
	case domain.FHA:
		return &FHALoan{e}, nil
	case domain.VA:
		return &VALoan{e}, nil
	case domain.USDA:
		return &USDALoan{e}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLoanType, lt)
	}
}

// price runs the common pipeline: rate quote, solver, insurance at the
// financed loan, then payment and amortization.
func (e loanEngines) price(ctx context.Context, c LoanCalculator, insure insurer, in *domain.MortgageInput, lf *domain.LocationFactors) (*domain.LoanDetails, error) {
	quote, err := e.rates.Quote(ctx, in)
	if err != nil {
		return nil, err
	}
	term := in.Term()
	maxDTI := c.MaxDTI(in.FICOScore, in.LTV)

	solved := e.solver.Solve(SolverInput{
		Income:             in.Income,
		MaxDTI:             maxDTI,
		Rate:               quote.Rate,
		TermYears:          term,
		DownPaymentPercent: in.DownPaymentPercent(),
		MonthlyDebts:       in.MonthlyDebts,
		PropertyTaxRate:    lf.PropertyTaxRate,
		InsuranceRate:      lf.InsuranceRate,
		HOA:                in.HOAFees,
		MonthlyMI:          c.InitialMonthlyMI(in.FICOScore, in.LTV),
	})

	loan := solved.MaxLoanAmount
	price := solved.MaxPurchasePrice
	if in.PurchasePrice.IsPositive() {
		loan = decimal.Min(in.RequestedLoan(), loan)
		price = in.PurchasePrice
	}

	mi, err := insure(ctx, in, loan)
	if err != nil {
		return nil, err
	}
	upfront := money.Cents(mi.Upfront)
	total := loan.Add(upfront)

	adjustment := quote.Adjustment
	if in.LoanType == domain.Conventional {
		adjustment = quote.LLPAPoints
	}

	d := &domain.LoanDetails{
		LoanType:         c.LoanType(),
		MaxLoanAmount:    solved.MaxLoanAmount,
		PurchasingPower:  solved.MaxPurchasePrice,
		MaxDownPayment:   solved.DownPayment,
		SolverIterations: solved.Iterations,
		Converged:        solved.Converged,

		LoanAmount:      loan,
		UpfrontFee:      upfront,
		TotalLoanAmount: total,

		BaseRate:       quote.BaseRate,
		RateAdjustment: adjustment,
		InterestRate:   quote.Rate,
		MaxDTI:         maxDTI,

		PrincipalAndInterest: money.Cents(MonthlyPayment(total, quote.Rate, term)),
		MonthlyMI:            money.Cents(mi.Monthly),
		MonthlyTaxes:         money.Cents(money.MonthlyOf(price.Mul(lf.PropertyTaxRate))),
		MonthlyInsurance:     money.Cents(money.MonthlyOf(price.Mul(lf.InsuranceRate))),

		PMIRemovalYear:   mi.PMIRemovalYear,
		MIPDurationYears: mi.MIPDurationYears,

		Amortization: Amortization(total, quote.Rate, term),
	}
	e.logger.Debugf("%s loan: max %s financed %s upfront %s rate %s", d.LoanType, d.MaxLoanAmount, loan, upfront, quote.Rate)
	return d, nil
}

// monthlyOnReference converts an annual percent into a monthly premium on
// the reference loan.
func monthlyOnReference(pct decimal.Decimal) decimal.Decimal {
	return money.MonthlyOf(referenceLoan.Mul(money.PercentToRate(pct)))
}

// ConventionalLoan prices conforming loans with LLPA and borrower-paid PMI.
type ConventionalLoan struct{ loanEngines }

func (*ConventionalLoan) LoanType() domain.LoanType { return domain.Conventional }

func (*ConventionalLoan) MaxDTI(fico int, _ decimal.Decimal) decimal.Decimal {
	switch {
	case fico >= 720:
		return dec("0.50")
	case fico >= 680:
		return dec("0.45")
	default:
		return dec("0.43")
	}
}

// conventionalMIEstimates are annual PMI percentages for LTV above 95, 90
// and 85, by minimum score.
var conventionalMIEstimates = []struct {
	minScore int
	rates    [3]decimal.Decimal
}{
	{760, [3]decimal.Decimal{dec("0.58"), dec("0.49"), dec("0.25")}},
	{740, [3]decimal.Decimal{dec("0.62"), dec("0.52"), dec("0.28")}},
	{720, [3]decimal.Decimal{dec("0.72"), dec("0.61"), dec("0.33")}},
	{700, [3]decimal.Decimal{dec("0.85"), dec("0.76"), dec("0.38")}},
	{680, [3]decimal.Decimal{dec("0.97"), dec("0.89"), dec("0.45")}},
	{660, [3]decimal.Decimal{dec("1.21"), dec("1.12"), dec("0.56")}},
	{640, [3]decimal.Decimal{dec("1.35"), dec("1.26"), dec("0.72")}},
	{0, [3]decimal.Decimal{dec("1.65"), dec("1.53"), dec("0.88")}},
}

func (*ConventionalLoan) InitialMonthlyMI(fico int, ltv decimal.Decimal) decimal.Decimal {
	if ltv.LessThanOrEqual(pmiFreeLTV) {
		return decimal.Zero
	}
	for _, row := range conventionalMIEstimates {
		if fico < row.minScore {
			continue
		}
		switch {
		case ltv.GreaterThan(decimal.NewFromInt(95)):
			return monthlyOnReference(row.rates[0])
		case ltv.GreaterThan(decimal.NewFromInt(90)):
			return monthlyOnReference(row.rates[1])
		case ltv.GreaterThan(decimal.NewFromInt(85)):
			return monthlyOnReference(row.rates[2])
		}
		return decimal.Zero
	}
	return decimal.Zero
}

func (c *ConventionalLoan) Calculate(ctx context.Context, in *domain.MortgageInput, lf *domain.LocationFactors) (*domain.LoanDetails, error) {
	return c.price(ctx, c, func(ctx context.Context, in *domain.MortgageInput, loan decimal.Decimal) (MIQuote, error) {
		return c.mi.ConventionalPMI(ctx, loan, in.LTV, in.FICOScore)
	}, in, lf)
}

// FHALoan prices FHA loans. The upfront MIP is financed.
type FHALoan struct{ loanEngines }

func (*FHALoan) LoanType() domain.LoanType { return domain.FHA }

func (*FHALoan) MaxDTI(fico int, ltv decimal.Decimal) decimal.Decimal {
	switch {
	case fico >= 680 && ltv.LessThanOrEqual(fhaLongMIPLTV):
		return dec("0.50")
	case fico >= 640:
		return dec("0.45")
	case fico >= 580:
		return dec("0.43")
	default:
		return dec("0.41")
	}
}

func (*FHALoan) InitialMonthlyMI(int, decimal.Decimal) decimal.Decimal {
	return monthlyOnReference(dec("0.55"))
}

func (c *FHALoan) Calculate(ctx context.Context, in *domain.MortgageInput, lf *domain.LocationFactors) (*domain.LoanDetails, error) {
	return c.price(ctx, c, func(ctx context.Context, in *domain.MortgageInput, loan decimal.Decimal) (MIQuote, error) {
		return c.mi.FHAMIP(ctx, loan, in.LTV, in.Term())
	}, in, lf)
}

// VALoan prices VA loans. There is no monthly MI; the funding fee is
// financed.
type VALoan struct{ loanEngines }

func (*VALoan) LoanType() domain.LoanType { return domain.VA }

func (*VALoan) MaxDTI(fico int, _ decimal.Decimal) decimal.Decimal {
	switch {
	case fico >= 680:
		return dec("0.50")
	case fico >= 640:
		return dec("0.45")
	case fico >= 620:
		return dec("0.43")
	default:
		return dec("0.41")
	}
}

func (*VALoan) InitialMonthlyMI(int, decimal.Decimal) decimal.Decimal { return decimal.Zero }

func (c *VALoan) Calculate(ctx context.Context, in *domain.MortgageInput, lf *domain.LocationFactors) (*domain.LoanDetails, error) {
	return c.price(ctx, c, func(ctx context.Context, in *domain.MortgageInput, loan decimal.Decimal) (MIQuote, error) {
		return c.mi.VAFundingFee(ctx, loan, in.DownPaymentPercent(), VAFundingOptions{
			FirstTimeUse: in.FirstTimeVAUse(),
			Reservist:    in.VAReservist,
			Exempt:       in.VAExempt,
		})
	}, in, lf)
}

// USDALoan prices USDA guaranteed loans.
type USDALoan struct{ loanEngines }

func (*USDALoan) LoanType() domain.LoanType { return domain.USDA }

func (*USDALoan) MaxDTI(fico int, _ decimal.Decimal) decimal.Decimal {
	if fico >= 680 {
		return dec("0.44")
	}
	return dec("0.41")
}

func (*USDALoan) InitialMonthlyMI(int, decimal.Decimal) decimal.Decimal {
	return monthlyOnReference(dec("0.35"))
}

func (c *USDALoan) Calculate(ctx context.Context, in *domain.MortgageInput, lf *domain.LocationFactors) (*domain.LoanDetails, error) {
	return c.price(ctx, c, func(ctx context.Context, _ *domain.MortgageInput, loan decimal.Decimal) (MIQuote, error) {
		return c.mi.USDAGuaranteeFee(ctx, loan)
	}, in, lf)
}
