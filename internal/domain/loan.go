package domain

import "strings"

// LoanType identifies a mortgage program.
type LoanType string

const (
	Conventional LoanType = "Conventional"
	FHA          LoanType = "FHA"
	VA           LoanType = "VA"
	USDA         LoanType = "USDA"
)

// AllLoanTypes lists the supported programs in display order.
var AllLoanTypes = []LoanType{Conventional, FHA, VA, USDA}

// IsValid reports whether lt is one of the supported programs (exact match).
func (lt LoanType) IsValid() bool {
	for _, t := range AllLoanTypes {
		if t == lt {
			return true
		}
	}
	return false
}

func (lt LoanType) String() string { return string(lt) }

// ParseLoanType resolves a user-supplied name case-insensitively.
func ParseLoanType(s string) (LoanType, bool) {
	for _, t := range AllLoanTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return LoanType(s), false
}

// LoanTypeNames returns "Conventional, FHA, VA, USDA".
func LoanTypeNames() string {
	names := make([]string, len(AllLoanTypes))
	for i, t := range AllLoanTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Property types recognised by the LLPA grid. Anything else prices as single family.
const (
	PropertySingleFamily     = "SingleFamily"
	PropertyTwoUnits         = "2units"
	PropertyThreeUnits       = "3units"
	PropertyFourUnits        = "4units"
	PropertyCondo            = "Condo"
	PropertyTownhouse        = "Townhouse"
	PropertyManufacturedHome = "ManufacturedHome"
)
