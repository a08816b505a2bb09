package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rpgo/mortgage-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	DefaultLoanTerm      = 30
	DefaultSquareFeet    = 2000
	DefaultBorrowerCount = 1
)

// DefaultDTI is the back-end DTI assumed for eligibility when the caller supplies none.
var DefaultDTI = decimal.RequireFromString("0.43")

// Well-known override keys outside the fee schedule.
const (
	OverrideAnnualHOI         = "AnnualHOI"
	OverrideAnnualPropertyTax = "AnnualPropertyTaxAmount"
)

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = errors.New("invalid mortgage input")

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is lets errors.Is(err, ErrInvalidInput) match.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// MortgageInput is the caller-supplied scenario. It is treated as immutable
// once handed to the calculator.
type MortgageInput struct {
	Income        decimal.Decimal `yaml:"income" json:"income"`
	Location      string          `yaml:"location" json:"location"`
	LTV           decimal.Decimal `yaml:"ltv" json:"ltv"`
	FICOScore     int             `yaml:"fico_score" json:"fico_score"`
	LoanType      LoanType        `yaml:"loan_type" json:"loan_type"`
	LoanTerm      int             `yaml:"loan_term,omitempty" json:"loan_term,omitempty"`
	HOAFees       decimal.Decimal `yaml:"hoa_fees,omitempty" json:"hoa_fees,omitempty"`
	Points        decimal.Decimal `yaml:"points,omitempty" json:"points,omitempty"`
	PurchasePrice decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	DownPayment   decimal.Decimal `yaml:"down_payment" json:"down_payment"`
	ClosingDate   string          `yaml:"closing_date,omitempty" json:"closing_date,omitempty"`
	SellerCredits decimal.Decimal `yaml:"seller_credits,omitempty" json:"seller_credits,omitempty"`
	LenderCredits decimal.Decimal `yaml:"lender_credits,omitempty" json:"lender_credits,omitempty"`

	// Overrides maps a fee key (see ClosingCostEngine) to a known dollar amount.
	Overrides map[string]decimal.Decimal `yaml:"overrides,omitempty" json:"overrides,omitempty"`

	DTI          *decimal.Decimal `yaml:"dti,omitempty" json:"dti,omitempty"`
	MonthlyDebts decimal.Decimal  `yaml:"monthly_debts,omitempty" json:"monthly_debts,omitempty"`

	PropertyType string `yaml:"property_type,omitempty" json:"property_type,omitempty"`
	SecondHome   bool   `yaml:"second_home,omitempty" json:"second_home,omitempty"`

	VAFirstTimeUse *bool `yaml:"va_first_time_use,omitempty" json:"va_first_time_use,omitempty"`
	VAReservist    bool  `yaml:"va_reservist,omitempty" json:"va_reservist,omitempty"`
	VAExempt       bool  `yaml:"va_exempt,omitempty" json:"va_exempt,omitempty"`

	BorrowerCount      int  `yaml:"borrower_count,omitempty" json:"borrower_count,omitempty"`
	SquareFeet         int  `yaml:"square_feet,omitempty" json:"square_feet,omitempty"`
	PropertyAge        int  `yaml:"property_age,omitempty" json:"property_age,omitempty"`
	ComplexTransaction bool `yaml:"complex_transaction,omitempty" json:"complex_transaction,omitempty"`
}

// Validate checks the input contract and returns the first failure.
func (in *MortgageInput) Validate() error {
	if !in.Income.IsPositive() {
		return &ValidationError{Field: "income", Message: "Income must be a positive number"}
	}
	if !in.PurchasePrice.IsPositive() {
		return &ValidationError{Field: "purchase_price", Message: "Purchase Price must be a positive number"}
	}
	if in.DownPayment.IsNegative() {
		return &ValidationError{Field: "down_payment", Message: "Down Payment must be a non-negative number"}
	}
	if in.LTV.LessThan(decimal.NewFromInt(50)) || in.LTV.GreaterThan(decimal.NewFromInt(100)) {
		return &ValidationError{Field: "ltv", Message: "LTV must be a number between 50 and 100"}
	}
	if in.FICOScore < 500 || in.FICOScore > 850 {
		return &ValidationError{Field: "fico_score", Message: "FICO score must be a number between 500 and 850"}
	}
	if in.ClosingDate != "" && !dateutil.IsISODate(in.ClosingDate) {
		return &ValidationError{Field: "closing_date", Message: "Closing Date must be in YYYY-MM-DD format"}
	}
	if !in.LoanType.IsValid() {
		return &ValidationError{
			Field:   "loan_type",
			Message: fmt.Sprintf("Invalid loan type: %s. Must be one of: %s", in.LoanType, LoanTypeNames()),
		}
	}
	if in.LoanTerm < 0 {
		return &ValidationError{Field: "loan_term", Message: "Loan term must be a positive number of years"}
	}
	if in.HOAFees.IsNegative() {
		return &ValidationError{Field: "hoa_fees", Message: "HOA fees must be a non-negative number"}
	}
	if in.Points.IsNegative() {
		return &ValidationError{Field: "points", Message: "Points must be a non-negative number"}
	}
	return nil
}

// Term returns the loan term in years, defaulting to 30.
func (in *MortgageInput) Term() int {
	if in.LoanTerm <= 0 {
		return DefaultLoanTerm
	}
	return in.LoanTerm
}

// DownPaymentPercent is 100 - LTV.
func (in *MortgageInput) DownPaymentPercent() decimal.Decimal {
	return decimal.NewFromInt(100).Sub(in.LTV)
}

// EffectiveDTI returns the supplied DTI or DefaultDTI.
func (in *MortgageInput) EffectiveDTI() decimal.Decimal {
	if in.DTI == nil {
		return DefaultDTI
	}
	return *in.DTI
}

// FirstTimeVAUse defaults to true when unspecified.
func (in *MortgageInput) FirstTimeVAUse() bool {
	return in.VAFirstTimeUse == nil || *in.VAFirstTimeUse
}

// Borrowers returns the borrower count, defaulting to one.
func (in *MortgageInput) Borrowers() int {
	if in.BorrowerCount <= 0 {
		return DefaultBorrowerCount
	}
	return in.BorrowerCount
}

// SqFt returns the property size, defaulting to 2,000 square feet.
func (in *MortgageInput) SqFt() int {
	if in.SquareFeet <= 0 {
		return DefaultSquareFeet
	}
	return in.SquareFeet
}

// Override returns a non-negative override for key.
func (in *MortgageInput) Override(key string) (decimal.Decimal, bool) {
	v, ok := in.Overrides[key]
	if !ok || v.IsNegative() {
		return decimal.Zero, false
	}
	return v, true
}

// RequestedLoan is purchase price minus down payment, floored at zero.
func (in *MortgageInput) RequestedLoan() decimal.Decimal {
	loan := in.PurchasePrice.Sub(in.DownPayment)
	if loan.IsNegative() {
		return decimal.Zero
	}
	return loan
}

// CacheKey is the calculation cache key: type, income, LTV, FICO, term and
// HOA, followed by any eligibility, VA, property or override fields that
// differ from their defaults.
func (in *MortgageInput) CacheKey() string {
	parts := []string{
		string(in.LoanType), in.Income.String(), in.LTV.String(),
		strconv.Itoa(in.FICOScore), strconv.Itoa(in.Term()), in.HOAFees.String(),
	}
	if in.DTI != nil && !in.DTI.Equal(DefaultDTI) {
		parts = append(parts, "dti="+in.DTI.String())
	}
	if !in.MonthlyDebts.IsZero() {
		parts = append(parts, "debts="+in.MonthlyDebts.String())
	}
	if !in.FirstTimeVAUse() {
		parts = append(parts, "va_subsequent")
	}
	if in.VAReservist {
		parts = append(parts, "va_reservist")
	}
	if in.VAExempt {
		parts = append(parts, "va_exempt")
	}
	if in.PropertyType != "" {
		parts = append(parts, "property="+in.PropertyType)
	}
	if in.SecondHome {
		parts = append(parts, "second_home")
	}
	if in.Borrowers() != DefaultBorrowerCount {
		parts = append(parts, "borrowers="+strconv.Itoa(in.Borrowers()))
	}
	if in.SqFt() != DefaultSquareFeet {
		parts = append(parts, "sqft="+strconv.Itoa(in.SqFt()))
	}
	if in.PropertyAge != 0 {
		parts = append(parts, "age="+strconv.Itoa(in.PropertyAge))
	}
	if in.ComplexTransaction {
		parts = append(parts, "complex")
	}
	for _, k := range slices.Sorted(maps.Keys(in.Overrides)) {
		parts = append(parts, k+"="+in.Overrides[k].String())
	}
	return strings.Join(parts, "_")
}

// WithGridPoint returns a copy of in with FICO and LTV replaced.
func (in MortgageInput) WithGridPoint(fico int, ltv decimal.Decimal) MortgageInput {
	in.FICOScore = fico
	in.LTV = ltv
	return in
}
