package calculation

import (
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// EligibilityInput is what the program rules look at. LTV is a percentage and
// DTI a fraction.
type EligibilityInput struct {
	FICOScore int
	LTV       decimal.Decimal
	DTI       decimal.Decimal
}

type eligibilityRule struct {
	fails        func(in EligibilityInput) bool
	reason       string
	alternatives []string
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var eligibilityRules = map[domain.LoanType][]eligibilityRule{
	domain.Conventional: {
		{
			fails:        func(in EligibilityInput) bool { return in.FICOScore < 620 },
			reason:       "Credit score below minimum 620 requirement for conventional loans",
			alternatives: []string{"FHA"},
		},
		{
			fails:        func(in EligibilityInput) bool { return in.LTV.GreaterThan(dec("97")) },
			reason:       "LTV exceeds maximum 97% for conventional loans",
			alternatives: []string{"FHA", "VA", "USDA"},
		},
		{
			fails:        func(in EligibilityInput) bool { return in.DTI.GreaterThan(dec("0.45")) },
			reason:       "DTI exceeds maximum 45% for conventional loans",
			alternatives: []string{"FHA", "VA"},
		},
	},
	domain.FHA: {
		{
			fails:  func(in EligibilityInput) bool { return in.FICOScore < 500 },
			reason: "Credit score below minimum 500 requirement for FHA loans",
		},
		{
			fails: func(in EligibilityInput) bool {
				return in.FICOScore >= 500 && in.FICOScore < 580 && in.LTV.GreaterThan(dec("90"))
			},
			reason:       "For credit scores between 500-579, maximum LTV is 90% for FHA loans",
			alternatives: []string{"FHA with 10%+ down payment"},
		},
		{
			fails:        func(in EligibilityInput) bool { return in.FICOScore >= 580 && in.LTV.GreaterThan(dec("96.5")) },
			reason:       "LTV exceeds maximum 96.5% for FHA loans",
			alternatives: []string{"VA", "USDA"},
		},
		{
			fails:        func(in EligibilityInput) bool { return in.DTI.GreaterThan(dec("0.50")) },
			reason:       "DTI exceeds maximum 50% for FHA loans (with compensating factors)",
			alternatives: []string{"VA"},
		},
		{
			fails: func(in EligibilityInput) bool {
				return in.DTI.LessThanOrEqual(dec("0.50")) && in.DTI.GreaterThan(dec("0.43")) && in.FICOScore < 620
			},
			reason: "For credit scores below 620, maximum DTI is 43% for FHA loans",
		},
	},
	domain.VA: {
		{
			fails:        func(in EligibilityInput) bool { return in.FICOScore < 580 },
			reason:       "Credit score too low for most VA lenders (typically 580-620 minimum)",
			alternatives: []string{"FHA"},
		},
		{
			fails:  func(in EligibilityInput) bool { return in.LTV.GreaterThan(dec("100")) },
			reason: "LTV exceeds maximum 100% for VA loans",
		},
		{
			fails:  func(in EligibilityInput) bool { return in.DTI.GreaterThan(dec("0.60")) },
			reason: "DTI exceeds maximum 60% for VA loans (with compensating factors)",
		},
	},
	domain.USDA: {
		{
			fails:        func(in EligibilityInput) bool { return in.FICOScore < 640 },
			reason:       "Credit score below minimum 640 requirement for USDA loans",
			alternatives: []string{"FHA", "VA"},
		},
		{
			fails:  func(in EligibilityInput) bool { return in.LTV.GreaterThan(dec("100")) },
			reason: "LTV exceeds maximum 100% for USDA loans",
		},
		{
			fails:        func(in EligibilityInput) bool { return in.DTI.GreaterThan(dec("0.41")) },
			reason:       "DTI exceeds maximum 41% for USDA loans",
			alternatives: []string{"FHA", "VA", "Conventional"},
		},
	},
}

// EligibilityEvaluator applies the per-program FICO, LTV and DTI limits.
// It is stateless and safe for concurrent use.
type EligibilityEvaluator struct{}

func NewEligibilityEvaluator() *EligibilityEvaluator { return &EligibilityEvaluator{} }

// Evaluate runs every rule for loanType. Reason is the first failed rule;
// Failures lists all of them and Alternatives merges their suggestions in
// first-seen order.
func (e *EligibilityEvaluator) Evaluate(loanType domain.LoanType, in EligibilityInput) domain.EligibilityResult {
	rules, ok := eligibilityRules[loanType]
	if !ok {
		return domain.EligibilityResult{
			Reason:       "Unknown loan type: " + string(loanType),
			Failures:     []string{"Unknown loan type: " + string(loanType)},
			Alternatives: []string{"Conventional", "FHA", "VA", "USDA"},
		}
	}

	result := domain.EligibilityResult{Eligible: true}
	seen := make(map[string]bool)
	for _, rule := range rules {
		if !rule.fails(in) {
			continue
		}
		if result.Eligible {
			result.Eligible = false
			result.Reason = rule.reason
		}
		result.Failures = append(result.Failures, rule.reason)
		for _, alt := range rule.alternatives {
			if !seen[alt] {
				seen[alt] = true
				result.Alternatives = append(result.Alternatives, alt)
			}
		}
	}
	return result
}
