package data

import (
	"regexp"
	"strings"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultState = "CA"

var (
	fallbackTaxRate       = decimal.RequireFromString("0.01")
	fallbackInsuranceRate = decimal.RequireFromString("0.0035")
	fallbackTaxCycle      = domain.TaxCycle{Frequency: "annual", DueDates: []string{"01-15"}}

	statePattern = regexp.MustCompile(`\b([A-Z]{2})\b`)
	zipPattern   = regexp.MustCompile(`\b(\d{5})\b`)
)

// ParsedLocation is what can be recovered from a free-form location string.
type ParsedLocation struct {
	State  string
	County string
	Zip    string
}

// ParseLocation extracts a state code (first standalone two-letter uppercase
// token, default CA), a county (first comma part that is neither the state nor
// a zip) and a five-digit zip.
func ParseLocation(location string) ParsedLocation {
	p := ParsedLocation{State: defaultState}
	if m := statePattern.FindStringSubmatch(location); m != nil {
		p.State = m[1]
	}
	if m := zipPattern.FindStringSubmatch(location); m != nil {
		p.Zip = m[1]
	}
	for _, part := range strings.Split(location, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimSpace(zipPattern.ReplaceAllString(part, ""))
		if part == "" || part == p.State {
			continue
		}
		if statePattern.MatchString(part) && strings.Fields(part)[0] == p.State {
			continue
		}
		p.County = part
		break
	}
	return p
}

// FeeStateCode is the state key used for closing-cost variations: the text
// before the first comma, upper-cased, or "default" when location is empty.
func FeeStateCode(location string) string {
	head, _, _ := strings.Cut(location, ",")
	head = strings.ToUpper(strings.TrimSpace(head))
	if head == "" {
		return "default"
	}
	return head
}

// TaxRate resolves state -> county -> state default -> table default -> 1%.
func (t *PropertyTaxTable) TaxRate(state, county string) decimal.Decimal {
	if t == nil {
		return fallbackTaxRate
	}
	global := fallbackTaxRate
	if t.Default != nil {
		global = *t.Default
	}
	st, ok := t.States[state]
	if !ok {
		return global
	}
	if rate, ok := st.Counties[county]; ok && county != "" {
		return rate
	}
	if st.Default != nil {
		return *st.Default
	}
	return global
}

// Rate resolves zip -> table default -> 0.35%.
func (t *InsuranceTable) Rate(zip string) decimal.Decimal {
	if t == nil {
		return fallbackInsuranceRate
	}
	if rate, ok := t.Zips[zip]; ok && zip != "" {
		return rate
	}
	if t.Default != nil {
		return *t.Default
	}
	return fallbackInsuranceRate
}

// Cycle resolves state -> table default -> annual on January 15.
func (t *TaxCycleTable) Cycle(state string) domain.TaxCycle {
	if t != nil {
		if c, ok := t.States[state]; ok {
			return c
		}
		if t.Default != nil {
			return *t.Default
		}
	}
	return fallbackTaxCycle
}
