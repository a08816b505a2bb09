package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxCycle describes when property taxes are disbursed each year.
type TaxCycle struct {
	Frequency string   `json:"frequency" yaml:"frequency"`
	DueDates  []string `json:"due_dates" yaml:"due_dates"`
}

// LocationFactors are the location-derived rates used by a single calculation.
type LocationFactors struct {
	PropertyTaxRate decimal.Decimal `json:"property_tax_rate"`
	InsuranceRate   decimal.Decimal `json:"insurance_rate"`
	State           string          `json:"state"`
	County          string          `json:"county,omitempty"`
	Zip             string          `json:"zip,omitempty"`
	TaxCycle        TaxCycle        `json:"tax_cycle"`
}

// AmortizationEntry is one sampled point of an amortization schedule.
type AmortizationEntry struct {
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Payment       decimal.Decimal `json:"payment"`
	Principal     decimal.Decimal `json:"principal"`
	Interest      decimal.Decimal `json:"interest"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	Balance       decimal.Decimal `json:"balance"`
	Equity        decimal.Decimal `json:"equity"`
}

// LoanDetails is what a loan-type calculator produces. Rates are fractions
// (0.0625), never percentages.
type LoanDetails struct {
	LoanType LoanType `json:"loan_type"`

	// Solver outputs. PurchasingPower*(1-dp%) ≈ MaxLoanAmount.
	MaxLoanAmount    decimal.Decimal `json:"max_loan_amount"`
	PurchasingPower  decimal.Decimal `json:"purchasing_power"`
	MaxDownPayment   decimal.Decimal `json:"max_down_payment"`
	SolverIterations int             `json:"solver_iterations"`
	Converged        bool            `json:"converged"`

	// Financed loan, capped at the solver maximum when a price is known.
	LoanAmount      decimal.Decimal `json:"loan_amount"`
	UpfrontFee      decimal.Decimal `json:"upfront_fee"`
	TotalLoanAmount decimal.Decimal `json:"total_loan_amount"`

	BaseRate       decimal.Decimal `json:"base_rate"`
	RateAdjustment decimal.Decimal `json:"rate_adjustment"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MaxDTI         decimal.Decimal `json:"max_dti"`

	PrincipalAndInterest decimal.Decimal `json:"principal_and_interest"`
	MonthlyMI            decimal.Decimal `json:"monthly_mi"`
	MonthlyTaxes         decimal.Decimal `json:"monthly_taxes"`
	MonthlyInsurance     decimal.Decimal `json:"monthly_insurance"`

	PMIRemovalYear   int `json:"pmi_removal_year,omitempty"`
	MIPDurationYears int `json:"mip_duration_years,omitempty"`

	Amortization []AmortizationEntry `json:"amortization,omitempty"`
}

// ClosingCostDetail is one evaluated fee.
type ClosingCostDetail struct {
	Amount            decimal.Decimal `json:"amount"`
	IsOverridden      bool            `json:"is_overridden"`
	RegZFinanceCharge bool            `json:"reg_z_finance_charge"`
	CalculationMethod string          `json:"calculation_method"`
	Fallback          string          `json:"fallback,omitempty"`
}

// EscrowMonth is one row of the simulated escrow ledger.
type EscrowMonth struct {
	Month        time.Month      `json:"month"`
	Year         int             `json:"year"`
	Deposit      decimal.Decimal `json:"deposit"`
	Disbursement decimal.Decimal `json:"disbursement"`
	Balance      decimal.Decimal `json:"balance"`
}

// EscrowProjection is the aggregate escrow analysis behind the tax reserve.
type EscrowProjection struct {
	FirstPaymentMonth time.Month      `json:"first_payment_month"`
	FirstPaymentYear  int             `json:"first_payment_year"`
	MonthlyTax        decimal.Decimal `json:"monthly_tax"`
	CushionMonths     int             `json:"cushion_months"`
	Ledger            []EscrowMonth   `json:"ledger"`
	MinBalance        decimal.Decimal `json:"min_balance"`
	InitialDeposit    decimal.Decimal `json:"initial_deposit"`
}

// ClosingCostsBreakdown aggregates fees and prepaids for one calculation.
type ClosingCostsBreakdown struct {
	TotalEstimated decimal.Decimal              `json:"total_estimated"`
	TotalPrepaids  decimal.Decimal              `json:"total_prepaids"`
	Details        map[string]ClosingCostDetail `json:"details"`

	PrepaidInterest decimal.Decimal `json:"prepaid_interest"`
	PrepaidTaxes    decimal.Decimal `json:"prepaid_taxes"`
	PrepaidHOI      decimal.Decimal `json:"prepaid_hoi"`

	AnnualPropertyTax decimal.Decimal `json:"annual_property_tax"`
	AnnualHOI         decimal.Decimal `json:"annual_hoi"`

	// Sum of Reg Z flagged fees, points cost and financed upfront fees.
	FinanceCharges decimal.Decimal `json:"finance_charges"`

	Escrow *EscrowProjection `json:"escrow,omitempty"`
}

// EligibilityResult is the outcome of the program rule checks.
type EligibilityResult struct {
	Eligible     bool     `json:"eligible"`
	Reason       string   `json:"reason,omitempty"`
	Failures     []string `json:"failures,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// DTIRatios are housing (front-end) and total (back-end) DTI in percent.
type DTIRatios struct {
	FrontEnd       decimal.Decimal `json:"front_end"`
	BackEnd        decimal.Decimal `json:"back_end"`
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	HousingExpense decimal.Decimal `json:"housing_expense"`
	OtherDebts     decimal.Decimal `json:"other_debts"`
}

// MonthlyPayment is the PITI breakdown plus HOA.
type MonthlyPayment struct {
	PrincipalAndInterest decimal.Decimal `json:"principal_and_interest"`
	PropertyTax          decimal.Decimal `json:"property_tax"`
	Insurance            decimal.Decimal `json:"insurance"`
	MortgageInsurance    decimal.Decimal `json:"mortgage_insurance"`
	HOA                  decimal.Decimal `json:"hoa"`
	Total                decimal.Decimal `json:"total"`
}

// CalculationResult is the immutable output of one calculation. Results may be
// shared through the cache, so callers must not modify them.
type CalculationResult struct {
	ID           string   `json:"id"`
	Eligible     bool     `json:"eligible"`
	Reason       string   `json:"reason,omitempty"`
	Failures     []string `json:"failures,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`

	LoanType  LoanType        `json:"loan_type"`
	FICOScore int             `json:"fico_score"`
	LTV       decimal.Decimal `json:"ltv"`
	LoanTerm  int             `json:"loan_term"`

	Loan *LoanDetails `json:"loan,omitempty"`

	// InterestRate is the note rate in percent.
	InterestRate  decimal.Decimal        `json:"interest_rate"`
	Payment       MonthlyPayment         `json:"monthly_payment"`
	DownPayment   decimal.Decimal        `json:"down_payment"`
	PurchasePrice decimal.Decimal        `json:"purchase_price"`
	ClosingCosts  *ClosingCostsBreakdown `json:"closing_costs,omitempty"`
	Credits       decimal.Decimal        `json:"credits"`
	CashToClose   decimal.Decimal        `json:"cash_to_close"`
	RepAPR        decimal.Decimal        `json:"rep_apr"`
	TrueAPR       *decimal.Decimal       `json:"true_apr"`
	DTI           *DTIRatios             `json:"dti,omitempty"`
	Location      *LocationFactors       `json:"location,omitempty"`
	CalculatedAt  time.Time              `json:"calculated_at"`
}

// PurchasingPower returns the solver's max price, or zero for ineligible results.
func (r *CalculationResult) PurchasingPower() decimal.Decimal {
	if r.Loan == nil {
		return decimal.Zero
	}
	return r.Loan.PurchasingPower
}

// PowerMatrixCell is one FICO×LTV point of a purchasing-power sweep.
type PowerMatrixCell struct {
	FICOScore       int                `json:"fico_score"`
	LTV             decimal.Decimal    `json:"ltv"`
	LoanType        LoanType           `json:"loan_type"`
	Eligible        bool               `json:"eligible"`
	Reason          string             `json:"reason,omitempty"`
	PurchasingPower decimal.Decimal    `json:"purchasing_power"`
	LoanAmount      decimal.Decimal    `json:"loan_amount"`
	MonthlyPayment  decimal.Decimal    `json:"monthly_payment"`
	InterestRate    decimal.Decimal    `json:"interest_rate"`
	Error           string             `json:"error,omitempty"`
	Result          *CalculationResult `json:"-"`
}
