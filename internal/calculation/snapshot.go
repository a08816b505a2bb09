package calculation

import (
	"github.com/rpgo/mortgage-calculator/internal/domain"
	money "github.com/rpgo/mortgage-calculator/pkg/decimal"
	"github.com/shopspring/decimal"
)

type dtiLimits struct {
	base    decimal.Decimal
	ceiling decimal.Decimal
}

var (
	snapshotLimits = map[domain.LoanType]dtiLimits{
		domain.FHA:          {dec("0.43"), dec("0.57")},
		domain.VA:           {dec("0.41"), dec("0.50")},
		domain.USDA:         {dec("0.41"), dec("0.46")},
		domain.Conventional: {dec("0.45"), dec("0.50")},
	}
	defaultSnapshotLimits = dtiLimits{dec("0.43"), dec("0.50")}
	snapshotFloor         = dec("0.30")
)

// DTISnapshotEstimator estimates the maximum back-end DTI a lender would
// accept from a short borrower profile. It is a heuristic: a program base
// plus additive adjustments for compensating factors, clamped to a floor of
// 30% and the program ceiling.
type DTISnapshotEstimator struct {
	logger Logger
}

func NewDTISnapshotEstimator(logger Logger) *DTISnapshotEstimator {
	logger = orNop(logger)
	return &DTISnapshotEstimator{logger: logger}
}

// favoured reports whether the program rewards strong credit and reserves
// more heavily.
func favoured(lt domain.LoanType) bool {
	return lt == domain.Conventional || lt == domain.FHA
}

func ficoAdjustment(lt domain.LoanType, fico int) decimal.Decimal {
	switch {
	case fico >= 740:
		if favoured(lt) {
			return dec("0.04")
		}
		return dec("0.03")
	case fico >= 700:
		return dec("0.02")
	case fico >= 660:
		return dec("0.01")
	case fico < 620:
		return dec("-0.05")
	case fico < 640:
		return dec("-0.03")
	}
	return decimal.Zero
}

func reservesAdjustment(lt domain.LoanType, r domain.ReservesTier) decimal.Decimal {
	switch r {
	case domain.ReservesMoreThan10:
		if favoured(lt) {
			return dec("0.05")
		}
		return dec("0.04")
	case domain.Reserves6To10:
		return dec("0.03")
	case domain.Reserves2To5:
		return dec("0.01")
	}
	return decimal.Zero
}

func employmentAdjustment(e domain.EmploymentTier) decimal.Decimal {
	switch e {
	case domain.EmploymentMoreThan5:
		return dec("0.03")
	case domain.Employment2To5:
		return dec("0.01")
	case domain.EmploymentUnder1:
		return dec("-0.02")
	}
	return decimal.Zero
}

func ltvAdjustment(lt domain.LoanType, ltv decimal.Decimal) decimal.Decimal {
	switch {
	case ltv.LessThan(dec("0.80")):
		return dec("0.01")
	case ltv.GreaterThan(dec("0.95")) && lt == domain.Conventional:
		return dec("-0.01")
	}
	return decimal.Zero
}

// residualIncomeAdjustment approximates the VA residual income test.
func residualIncomeAdjustment(p *domain.SnapshotProfile) decimal.Decimal {
	adj := decimal.Zero
	switch {
	case p.TaxFreeIncome.GreaterThan(decimal.NewFromInt(1000)):
		adj = adj.Add(dec("0.03"))
	case p.TaxFreeIncome.GreaterThan(decimal.NewFromInt(500)):
		adj = adj.Add(dec("0.02"))
	}

	debts := p.MonthlyDebts()
	if !debts.IsPositive() {
		return adj
	}
	household := p.Household()
	perPerson := debts.Div(decimal.NewFromInt(int64(household)))
	switch {
	case perPerson.LessThan(decimal.NewFromInt(200)) && household >= 4:
		adj = adj.Add(dec("0.02"))
	case perPerson.LessThan(decimal.NewFromInt(150)) && household >= 2:
		adj = adj.Add(dec("0.01"))
	}
	return adj
}

// Estimate returns the estimated max DTI for one program as a fraction.
func (e *DTISnapshotEstimator) Estimate(lt domain.LoanType, p *domain.SnapshotProfile) decimal.Decimal {
	limits, ok := snapshotLimits[lt]
	if !ok {
		e.logger.Warnf("unknown loan type %q, using default DTI limits", lt)
		limits = defaultSnapshotLimits
	}

	adj := ficoAdjustment(lt, p.FICOScore()).
		Add(reservesAdjustment(lt, p.Reserves)).
		Add(employmentAdjustment(p.Employment)).
		Add(ltvAdjustment(lt, p.LTVRatio()))
	if lt == domain.VA {
		adj = adj.Add(residualIncomeAdjustment(p))
	}

	estimate := money.Clamp(limits.base.Add(adj), snapshotFloor, limits.ceiling)
	e.logger.Debugf("dti snapshot %s: base %s adj %s ceiling %s -> %s", lt, limits.base, adj, limits.ceiling, estimate)
	return estimate
}

// EstimateAll runs Estimate for every supported program.
func (e *DTISnapshotEstimator) EstimateAll(p *domain.SnapshotProfile) domain.DTIEstimates {
	out := make(domain.DTIEstimates, len(domain.AllLoanTypes))
	for _, lt := range domain.AllLoanTypes {
		out[lt] = e.Estimate(lt, p)
	}
	return out
}
