package domain

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// ReservesTier buckets cash reserves as a share of the purchase price.
type ReservesTier string

const (
	ReservesNone       ReservesTier = "none"
	ReservesUnder2     ReservesTier = "less-than-2"
	Reserves2To5       ReservesTier = "2-to-5"
	Reserves6To10      ReservesTier = "6-to-10"
	ReservesMoreThan10 ReservesTier = "more-than-10"
)

// EmploymentTier buckets time at the current employer.
type EmploymentTier string

const (
	EmploymentUnder1    EmploymentTier = "less-than-1"
	Employment1To2      EmploymentTier = "1-to-2"
	Employment2To5      EmploymentTier = "2-to-5"
	EmploymentMoreThan5 EmploymentTier = "more-than-5"
)

// DebtItems are the itemized monthly debts collected by the snapshot.
type DebtItems struct {
	CarPayments         decimal.Decimal `yaml:"car_payments,omitempty" json:"car_payments,omitempty"`
	StudentLoans        decimal.Decimal `yaml:"student_loans,omitempty" json:"student_loans,omitempty"`
	CreditCardMinimums  decimal.Decimal `yaml:"credit_card_minimums,omitempty" json:"credit_card_minimums,omitempty"`
	OtherRecurringDebts decimal.Decimal `yaml:"other_recurring_debts,omitempty" json:"other_recurring_debts,omitempty"`
}

// Total sums the itemized debts.
func (d DebtItems) Total() decimal.Decimal {
	return d.CarPayments.Add(d.StudentLoans).Add(d.CreditCardMinimums).Add(d.OtherRecurringDebts)
}

// SnapshotProfile is the borrower profile behind a DTI snapshot.
type SnapshotProfile struct {
	// FICO accepts a score ("720") or a range ("700-739"); the lower bound is used.
	FICO string `yaml:"fico" json:"fico"`
	// LTV is a fraction (0.95). Zero means 1.0.
	LTV decimal.Decimal `yaml:"ltv,omitempty" json:"ltv,omitempty"`

	TotalMonthlyDebts *decimal.Decimal `yaml:"total_monthly_debts,omitempty" json:"total_monthly_debts,omitempty"`
	Debts             DebtItems        `yaml:"debts,omitempty" json:"debts,omitempty"`

	Reserves      ReservesTier    `yaml:"reserves,omitempty" json:"reserves,omitempty"`
	Employment    EmploymentTier  `yaml:"employment,omitempty" json:"employment,omitempty"`
	TaxFreeIncome decimal.Decimal `yaml:"tax_free_income,omitempty" json:"tax_free_income,omitempty"`
	HouseholdSize int             `yaml:"household_size,omitempty" json:"household_size,omitempty"`
}

var ficoLeadingDigits = regexp.MustCompile(`^\s*(\d{3})`)

// FICOScore returns the numeric score, or 0 when FICO is empty or malformed.
func (p *SnapshotProfile) FICOScore() int {
	m := ficoLeadingDigits.FindStringSubmatch(p.FICO)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// LTVRatio returns the LTV fraction, defaulting to 1.0.
func (p *SnapshotProfile) LTVRatio() decimal.Decimal {
	if p.LTV.IsZero() {
		return decimal.NewFromInt(1)
	}
	return p.LTV
}

// MonthlyDebts returns the stated total, else the sum of itemized debts.
func (p *SnapshotProfile) MonthlyDebts() decimal.Decimal {
	if p.TotalMonthlyDebts != nil {
		return *p.TotalMonthlyDebts
	}
	return p.Debts.Total()
}

// Household returns the household size, defaulting to one.
func (p *SnapshotProfile) Household() int {
	if p.HouseholdSize <= 0 {
		return 1
	}
	return p.HouseholdSize
}

// DTIEstimates maps each program to its estimated max back-end DTI (fraction).
type DTIEstimates map[LoanType]decimal.Decimal
