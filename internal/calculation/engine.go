package calculation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/rpgo/mortgage-calculator/internal/metrics"
	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

const (
	// DefaultDataTimeout bounds the data provider calls of one calculation.
	DefaultDataTimeout = 5 * time.Second
	// DefaultMatrixWorkers limits concurrent cells in CalculatePowerMatrix.
	DefaultMatrixWorkers = 10
)

// MatrixFICOScores are the rows of a purchasing-power matrix.
var MatrixFICOScores = []int{580, 620, 660, 700, 740, 780, 820}

var matrixLTVs = map[domain.LoanType][]decimal.Decimal{
	domain.Conventional: {dec("70"), dec("75"), dec("80"), dec("85"), dec("90"), dec("95"), dec("97")},
	domain.FHA:          {dec("70"), dec("75"), dec("80"), dec("85"), dec("90"), dec("95"), dec("96.5")},
}

var defaultMatrixLTVs = []decimal.Decimal{dec("70"), dec("75"), dec("80"), dec("85"), dec("90"), dec("95"), dec("100")}

// MatrixLTVs returns the LTV columns swept for a loan type.
func MatrixLTVs(lt domain.LoanType) []decimal.Decimal {
	if ltvs, ok := matrixLTVs[lt]; ok {
		return ltvs
	}
	return defaultMatrixLTVs
}

var calculationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:mortgage-calculator:calculation"))

// CalculationID derives a stable identifier from every input that shapes a
// result.
func CalculationID(in *domain.MortgageInput) string {
	fingerprint := fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s|%s|%s",
		in.CacheKey(), in.Location, in.PurchasePrice, in.DownPayment, in.ClosingDate,
		in.Points, in.SellerCredits, in.LenderCredits, in.MonthlyDebts)
	return uuid.NewSHA1(calculationNamespace, []byte(fingerprint)).String()
}

// MortgageCalculator orchestrates validation, eligibility, loan pricing,
// closing costs and caching for one scenario at a time. It is safe for
// concurrent use once configured.
type MortgageCalculator struct {
	provider data.DataProvider
	cache    ResultCache

	eligibility *EligibilityEvaluator
	rates       *RateAdjustmentEngine
	mi          *MortgageInsuranceEngine
	solver      *AffordabilitySolver
	closing     *ClosingCostEngine

	logger  Logger
	timeout time.Duration
	workers int
}

// NewMortgageCalculator wires the engines around provider. A nil cache uses
// a MemoryCache.
func NewMortgageCalculator(provider data.DataProvider, cache ResultCache) *MortgageCalculator {
	if cache == nil {
		cache = NewMemoryCache()
	}
	mc := &MortgageCalculator{
		provider:    provider,
		cache:       cache,
		eligibility: NewEligibilityEvaluator(),
		timeout:     DefaultDataTimeout,
		workers:     DefaultMatrixWorkers,
	}
	mc.SetLogger(nil)
	return mc
}

// SetLogger sets the logger for the calculator and its engines. If nil is
// provided, a no-op logger is used.
func (mc *MortgageCalculator) SetLogger(l Logger) {
	l = orNop(l)
	mc.logger = l
	mc.rates = NewRateAdjustmentEngine(mc.provider, l)
	mc.mi = NewMortgageInsuranceEngine(mc.provider, l)
	mc.solver = NewAffordabilitySolver(l)
	mc.closing = NewClosingCostEngine(mc.provider, l)
}

// SetTimeout bounds data access per calculation. Non-positive values restore
// the default.
func (mc *MortgageCalculator) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultDataTimeout
	}
	mc.timeout = d
}

// SetWorkers sets the matrix concurrency. Non-positive values restore the
// default.
func (mc *MortgageCalculator) SetWorkers(n int) {
	if n <= 0 {
		n = DefaultMatrixWorkers
	}
	mc.workers = n
}

// Calculate prices one scenario. Cached results are returned as stored, and
// an ineligible scenario is a normal result rather than an error. Every
// error is a *CalculationError.
func (mc *MortgageCalculator) Calculate(ctx context.Context, in *domain.MortgageInput) (*domain.CalculationResult, error) {
	if in == nil {
		return nil, wrapError("validate", &ValidationError{Field: "input", Message: "Input is required"})
	}
	if err := in.Validate(); err != nil {
		metrics.CalculationsTotal.WithLabelValues(string(in.LoanType), metrics.OutcomeInvalid).Inc()
		return nil, wrapError("validate", err)
	}

	key := in.CacheKey()
	cached, ok, err := mc.cache.Get(ctx, key)
	switch {
	case err != nil:
		mc.logger.Warnf("result cache read failed for %s: %v", key, err)
	case ok:
		metrics.CacheRequests.WithLabelValues(metrics.CacheHit).Inc()
		return cached, nil
	}
	metrics.CacheRequests.WithLabelValues(metrics.CacheMiss).Inc()

	start := time.Now()
	res, err := mc.calculate(ctx, in)
	if err != nil {
		metrics.CalculationsTotal.WithLabelValues(string(in.LoanType), metrics.OutcomeError).Inc()
		mc.logger.Errorf("calculation %s failed: %v", key, err)
		return nil, err
	}
	metrics.CalculationDuration.WithLabelValues(string(in.LoanType)).Observe(time.Since(start).Seconds())
	outcome := metrics.OutcomeEligible
	if !res.Eligible {
		outcome = metrics.OutcomeIneligible
	}
	metrics.CalculationsTotal.WithLabelValues(string(in.LoanType), outcome).Inc()

	stored, err := mc.cache.PutIfAbsent(ctx, key, res)
	if err != nil {
		mc.logger.Warnf("result cache write failed for %s: %v", key, err)
		return res, nil
	}
	return stored, nil
}

func (mc *MortgageCalculator) calculate(ctx context.Context, in *domain.MortgageInput) (*domain.CalculationResult, error) {
	elig := mc.eligibility.Evaluate(in.LoanType, EligibilityInput{
		FICOScore: in.FICOScore,
		LTV:       in.LTV,
		DTI:       in.EffectiveDTI(),
	})
	res := &domain.CalculationResult{
		ID:            CalculationID(in),
		Eligible:      elig.Eligible,
		Reason:        elig.Reason,
		Failures:      elig.Failures,
		Alternatives:  elig.Alternatives,
		LoanType:      in.LoanType,
		FICOScore:     in.FICOScore,
		LTV:           in.LTV,
		LoanTerm:      in.Term(),
		DownPayment:   in.DownPayment,
		PurchasePrice: in.PurchasePrice,
		CalculatedAt:  nowFunc(),
	}
	if !elig.Eligible {
		mc.logger.Infof("%s scenario ineligible: %s", in.LoanType, elig.Reason)
		return res, nil
	}

	ctx, cancel := context.WithTimeout(ctx, mc.timeout)
	defer cancel()

	lf, err := mc.provider.EstimateLocationFactors(ctx, in.Location)
	if err != nil {
		return nil, wrapError("location factors", err)
	}
	calc, err := LoanCalculatorFor(in.LoanType, mc.rates, mc.mi, mc.solver, mc.logger)
	if err != nil {
		return nil, wrapError("loan calculation", err)
	}
	loan, err := calc.Calculate(ctx, in, lf)
	if err != nil {
		return nil, wrapError("loan calculation", err)
	}
	costs, err := mc.closing.Estimate(ctx, ClosingCostInput{
		Input:        in,
		LoanAmount:   loan.LoanAmount,
		InterestRate: loan.InterestRate,
		UpfrontFee:   loan.UpfrontFee,
		Location:     lf,
	})
	if err != nil {
		return nil, wrapError("closing costs", err)
	}

	res.Loan = loan
	res.Location = lf
	res.ClosingCosts = costs
	res.Payment = domain.MonthlyPayment{
		PrincipalAndInterest: loan.PrincipalAndInterest,
		PropertyTax:          escrowedMonthly(costs.AnnualPropertyTax, costs.Details[DetailPrepaidTaxes].IsOverridden, loan.MonthlyTaxes),
		Insurance:            escrowedMonthly(costs.AnnualHOI, costs.Details[DetailPrepaidHOI].IsOverridden, loan.MonthlyInsurance),
		MortgageInsurance:    loan.MonthlyMI,
		HOA:                  in.HOAFees,
	}
	res.Payment.Total = res.Payment.PrincipalAndInterest.Add(res.Payment.PropertyTax).
		Add(res.Payment.Insurance).Add(res.Payment.MortgageInsurance).Add(res.Payment.HOA)

	res.Credits = in.SellerCredits.Add(in.LenderCredits)
	res.CashToClose = money.Cents(in.DownPayment.Add(costs.TotalEstimated).Add(costs.TotalPrepaids).Sub(res.Credits))

	notePct := money.RateToPercent(loan.InterestRate)
	res.InterestRate = notePct.Round(3)
	res.RepAPR = RepresentativeAPR(notePct, costs.FinanceCharges, loan.LoanAmount, in.Term())
	res.DTI = DTIRatios(money.MonthlyOf(in.Income), res.Payment.Total, in.MonthlyDebts)

	mc.logger.Debugf("%s %s: financed %s cash to close %s apr %s", res.ID, in.LoanType, loan.TotalLoanAmount, res.CashToClose, res.RepAPR)
	return res, nil
}

// escrowedMonthly is the monthly escrow for an annual amount from the closing
// cost breakdown. The price-based estimate is used only when the breakdown
// has no amount of its own.
func escrowedMonthly(annual decimal.Decimal, overridden bool, estimate decimal.Decimal) decimal.Decimal {
	if overridden || annual.IsPositive() {
		return money.Cents(money.MonthlyOf(annual))
	}
	return estimate
}

// CalculatePowerMatrix sweeps FICO rows against the LTV columns of base's
// loan type. The matrix always has one cell per grid point, in FICO-major
// order; a cell whose calculation fails is ineligible and carries the error.
func (mc *MortgageCalculator) CalculatePowerMatrix(ctx context.Context, base *domain.MortgageInput) ([]domain.PowerMatrixCell, error) {
	if base == nil {
		return nil, wrapError("power matrix", &ValidationError{Field: "input", Message: "Input is required"})
	}
	ltvs := MatrixLTVs(base.LoanType)
	cells := make([]domain.PowerMatrixCell, len(MatrixFICOScores)*len(ltvs))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, mc.workers)
	for i, fico := range MatrixFICOScores {
		for j, ltv := range ltvs {
			wg.Add(1)
			go func(idx int, point domain.MortgageInput) {
				defer wg.Done()
				semaphore <- struct{}{}
				defer func() { <-semaphore }()
				cells[idx] = mc.matrixCell(ctx, point)
			}(i*len(ltvs)+j, base.WithGridPoint(fico, ltv))
		}
	}
	wg.Wait()
	return cells, nil
}

func (mc *MortgageCalculator) matrixCell(ctx context.Context, point domain.MortgageInput) (cell domain.PowerMatrixCell) {
	cell = domain.PowerMatrixCell{FICOScore: point.FICOScore, LTV: point.LTV, LoanType: point.LoanType}
	defer func() {
		if r := recover(); r != nil {
			mc.logger.Errorf("matrix cell fico=%d ltv=%s panicked: %v", point.FICOScore, point.LTV, r)
			cell.Eligible = false
			cell.Error = fmt.Sprintf("calculation panicked: %v", r)
		}
	}()

	res, err := mc.Calculate(ctx, &point)
	if err != nil {
		cell.Error = err.Error()
		return cell
	}
	cell.Result = res
	cell.Eligible = res.Eligible
	cell.Reason = res.Reason
	if res.Loan != nil {
		cell.PurchasingPower = res.Loan.PurchasingPower
		cell.LoanAmount = res.Loan.TotalLoanAmount
		cell.MonthlyPayment = res.Payment.Total
		cell.InterestRate = res.InterestRate
	}
	return cell
}

// ClearCache empties the result cache.
func (mc *MortgageCalculator) ClearCache(ctx context.Context) error {
	if err := mc.cache.Clear(ctx); err != nil {
		return wrapError("clear cache", err)
	}
	return nil
}
