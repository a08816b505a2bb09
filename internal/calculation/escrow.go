package calculation

import (
	"fmt"
	"sort"
	"time"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/rpgo/mortgage-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// EscrowProjectionMonths is the length of the simulated escrow ledger.
const EscrowProjectionMonths = 14

// TaxEscrowInput drives the aggregate escrow analysis.
type TaxEscrowInput struct {
	AnnualTax     decimal.Decimal
	DueDates      []string
	Closing       time.Time
	CushionMonths int
}

// ProjectTaxEscrow sizes the initial tax escrow deposit. Starting at the first
// payment month it steps month by month, collecting one twelfth of the annual
// tax and paying each installment in its due month. The deposit is what keeps
// the lowest balance at the cushion.
func ProjectTaxEscrow(in TaxEscrowInput) (*domain.EscrowProjection, error) {
	if len(in.DueDates) == 0 {
		return nil, fmt.Errorf("no tax due dates: %w", ErrInvalidDueDate)
	}
	dues := make([]dateutil.DueDate, 0, len(in.DueDates))
	for _, s := range in.DueDates {
		d, err := dateutil.ParseDueDate(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDueDate, err)
		}
		dues = append(dues, d)
	}
	sort.Slice(dues, func(i, j int) bool {
		if dues[i].Month != dues[j].Month {
			return dues[i].Month < dues[j].Month
		}
		return dues[i].Day < dues[j].Day
	})

	installment := in.AnnualTax.Div(decimal.NewFromInt(int64(len(dues))))
	disbursements := make(map[time.Month]decimal.Decimal, len(dues))
	for _, d := range dues {
		disbursements[d.Month] = disbursements[d.Month].Add(installment)
	}

	monthlyTax := in.AnnualTax.Div(twelve)
	firstMonth, firstYear := dateutil.FirstPaymentMonth(in.Closing)
	start := time.Date(firstYear, firstMonth, 1, 0, 0, 0, 0, time.UTC)

	proj := &domain.EscrowProjection{
		FirstPaymentMonth: firstMonth,
		FirstPaymentYear:  firstYear,
		MonthlyTax:        monthlyTax.Round(2),
		CushionMonths:     in.CushionMonths,
		Ledger:            make([]domain.EscrowMonth, 0, EscrowProjectionMonths),
	}

	balance := decimal.Zero
	var minBalance decimal.Decimal
	for i := 0; i < EscrowProjectionMonths; i++ {
		month := start.AddDate(0, i, 0)
		balance = balance.Add(monthlyTax)
		paid := disbursements[month.Month()]
		balance = balance.Sub(paid)
		if i == 0 || balance.LessThan(minBalance) {
			minBalance = balance
		}
		proj.Ledger = append(proj.Ledger, domain.EscrowMonth{
			Month:        month.Month(),
			Year:         month.Year(),
			Deposit:      monthlyTax.Round(2),
			Disbursement: paid.Round(2),
			Balance:      balance.Round(2),
		})
	}

	cushion := monthlyTax.Mul(decimal.NewFromInt(int64(in.CushionMonths)))
	deposit := cushion.Sub(minBalance)
	if deposit.IsNegative() {
		deposit = decimal.Zero
	}
	proj.MinBalance = minBalance.Round(2)
	proj.InitialDeposit = deposit.Round(2)
	return proj, nil
}
