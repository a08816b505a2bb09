package calculation

import (
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDTISnapshotEstimator_Estimate(t *testing.T) {
	strong := &domain.SnapshotProfile{
		FICO:       "760-779",
		LTV:        dec("0.75"),
		Reserves:   domain.ReservesMoreThan10,
		Employment: domain.EmploymentMoreThan5,
	}
	tests := []struct {
		name     string
		loanType domain.LoanType
		profile  *domain.SnapshotProfile
		want     string
	}{
		{"fha strong profile", domain.FHA, strong, "0.56"},
		{"conventional capped at ceiling", domain.Conventional, strong, "0.5"},
		{"usda capped at ceiling", domain.USDA, strong, "0.46"},
		{"conventional thin profile", domain.Conventional, &domain.SnapshotProfile{
			Employment: domain.EmploymentUnder1,
		}, "0.37"},
		{"va residual income", domain.VA, &domain.SnapshotProfile{
			FICO:              "720",
			TotalMonthlyDebts: decPtr("600"),
			Employment:        domain.Employment2To5,
			TaxFreeIncome:     dec("1200"),
			HouseholdSize:     4,
		}, "0.49"},
		{"va itemized debts", domain.VA, &domain.SnapshotProfile{
			FICO:          "650",
			Debts:         domain.DebtItems{CarPayments: dec("150"), CreditCardMinimums: dec("50")},
			TaxFreeIncome: dec("600"),
			HouseholdSize: 2,
		}, "0.44"},
	}
	e := NewDTISnapshotEstimator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDec(t, tt.want, e.Estimate(tt.loanType, tt.profile))
		})
	}
}

func TestDTISnapshotEstimator_UnknownLoanType(t *testing.T) {
	logger := &recordingLogger{}
	got := NewDTISnapshotEstimator(logger).Estimate("Jumbo", &domain.SnapshotProfile{})
	assertDec(t, "0.38", got)
	assert.Equal(t, 1, logger.warningCount())
}

func TestDTISnapshotEstimator_EstimateAllBounds(t *testing.T) {
	profiles := []*domain.SnapshotProfile{
		{},
		{FICO: "580", LTV: dec("0.97"), Employment: domain.EmploymentUnder1},
		{FICO: "800", LTV: dec("0.6"), Reserves: domain.ReservesMoreThan10, Employment: domain.EmploymentMoreThan5,
			TaxFreeIncome: dec("2000"), TotalMonthlyDebts: decPtr("100"), HouseholdSize: 5},
	}
	e := NewDTISnapshotEstimator(nil)
	for _, p := range profiles {
		all := e.EstimateAll(p)
		assert.Len(t, all, len(domain.AllLoanTypes))
		for lt, v := range all {
			limits := snapshotLimits[lt]
			assert.True(t, v.GreaterThanOrEqual(snapshotFloor), "%s below floor: %s", lt, v)
			assert.True(t, v.LessThanOrEqual(limits.ceiling), "%s above ceiling: %s", lt, v)
		}
	}
}
