package calculation

import (
	"github.com/rpgo/mortgage-calculator/internal/metrics"
	"github.com/shopspring/decimal"
)

const (
	DefaultSolverIterations = 10
)

var (
	DefaultSolverTolerance = decimal.NewFromInt(1000)
	defaultTaxRate         = dec("0.01")
	defaultInsuranceRate   = dec("0.0035")
)

// SolverInput describes one affordability problem. Rates are fractions,
// DownPaymentPercent is a percentage and money amounts are monthly except
// Income.
type SolverInput struct {
	Income             decimal.Decimal
	MaxDTI             decimal.Decimal
	Rate               decimal.Decimal
	TermYears          int
	DownPaymentPercent decimal.Decimal
	MonthlyDebts       decimal.Decimal
	PropertyTaxRate    decimal.Decimal
	InsuranceRate      decimal.Decimal
	HOA                decimal.Decimal
	MonthlyMI          decimal.Decimal
}

// SolverResult is the best estimate found. Converged is false when the
// iteration limit was hit first; the values are still usable.
type SolverResult struct {
	MaxPurchasePrice    decimal.Decimal
	MaxLoanAmount       decimal.Decimal
	DownPayment         decimal.Decimal
	MaxMonthlyPayment   decimal.Decimal
	MonthlyPI           decimal.Decimal
	MonthlyTax          decimal.Decimal
	MonthlyInsurance    decimal.Decimal
	MonthlyMI           decimal.Decimal
	TotalMonthlyPayment decimal.Decimal
	Iterations          int
	Converged           bool
}

// AffordabilitySolver finds the largest price whose PITI plus MI and HOA fits
// the borrower's DTI budget. Taxes and insurance depend on the price, so it
// iterates to a fixed point.
type AffordabilitySolver struct {
	MaxIterations int
	Tolerance     decimal.Decimal
	logger        Logger
}

func NewAffordabilitySolver(logger Logger) *AffordabilitySolver {
	logger = orNop(logger)
	return &AffordabilitySolver{
		MaxIterations: DefaultSolverIterations,
		Tolerance:     DefaultSolverTolerance,
		logger:        logger,
	}
}

func priceFromLoan(loan, ltvFraction decimal.Decimal) decimal.Decimal {
	if !ltvFraction.IsPositive() {
		return loan
	}
	return loan.Div(ltvFraction)
}

// Solve runs the fixed-point iteration. It never returns a negative amount.
func (s *AffordabilitySolver) Solve(in SolverInput) SolverResult {
	taxRate := in.PropertyTaxRate
	if taxRate.IsZero() {
		taxRate = defaultTaxRate
	}
	insRate := in.InsuranceRate
	if insRate.IsZero() {
		insRate = defaultInsuranceRate
	}
	ltvFraction := decimal.NewFromInt(1).Sub(in.DownPaymentPercent.Div(hundred))

	maxPayment := MaxPayment(in.Income.Div(twelve), in.MaxDTI, in.MonthlyDebts)

	loan := MaxLoanFromPayment(maxPayment, in.Rate, in.TermYears)
	price := priceFromLoan(loan, ltvFraction)

	iterations := 0
	converged := false
	for !converged && iterations < s.MaxIterations {
		monthlyTax := price.Mul(taxRate).Div(twelve)
		monthlyIns := price.Mul(insRate).Div(twelve)
		available := maxPayment.Sub(monthlyTax).Sub(monthlyIns).Sub(in.HOA).Sub(in.MonthlyMI)

		next := MaxLoanFromPayment(available, in.Rate, in.TermYears)
		if next.Sub(loan).Abs().LessThan(s.Tolerance) {
			converged = true
		}
		loan = next
		price = priceFromLoan(loan, ltvFraction)
		iterations++
	}
	metrics.SolverIterations.Observe(float64(iterations))
	if !converged {
		s.logger.Warnf("affordability solver did not converge after %d iterations, returning last estimate", iterations)
	}

	loan = loan.Round(2)
	price = price.Round(2)
	res := SolverResult{
		MaxPurchasePrice:  price,
		MaxLoanAmount:     loan,
		DownPayment:       price.Sub(loan),
		MaxMonthlyPayment: maxPayment,
		MonthlyPI:         MonthlyPayment(loan, in.Rate, in.TermYears),
		MonthlyTax:        price.Mul(taxRate).Div(twelve),
		MonthlyInsurance:  price.Mul(insRate).Div(twelve),
		MonthlyMI:         in.MonthlyMI,
		Iterations:        iterations,
		Converged:         converged,
	}
	res.TotalMonthlyPayment = res.MonthlyPI.Add(res.MonthlyTax).Add(res.MonthlyInsurance).Add(in.HOA).Add(in.MonthlyMI)
	return res
}
