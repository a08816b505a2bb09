package config

import (
	"fmt"
	"os"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Scenario is one named mortgage input in a scenario file.
type Scenario struct {
	Name  string               `yaml:"name" json:"name"`
	Input domain.MortgageInput `yaml:",inline" json:"input"`
}

// ScenarioFile is the YAML document read by the CLI. Either scenarios or a
// snapshot profile (or both) must be present.
type ScenarioFile struct {
	Scenarios []Scenario              `yaml:"scenarios" json:"scenarios"`
	Snapshot  *domain.SnapshotProfile `yaml:"snapshot,omitempty" json:"snapshot,omitempty"`
}

// Find returns the scenario called name.
func (f *ScenarioFile) Find(name string) (*Scenario, bool) {
	for i := range f.Scenarios {
		if f.Scenarios[i].Name == name {
			return &f.Scenarios[i], true
		}
	}
	return nil, false
}

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads scenarios from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*ScenarioFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a scenario document.
func (ip *InputParser) Parse(data []byte) (*ScenarioFile, error) {
	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&file); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &file, nil
}

// ValidateConfiguration validates the loaded scenario file
func (ip *InputParser) ValidateConfiguration(file *ScenarioFile) error {
	if len(file.Scenarios) == 0 && file.Snapshot == nil {
		return fmt.Errorf("no scenarios or snapshot provided")
	}

	seen := make(map[string]bool, len(file.Scenarios))
	for i := range file.Scenarios {
		s := &file.Scenarios[i]
		if s.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("scenario %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if err := s.Input.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}

	if file.Snapshot != nil {
		if err := ValidateSnapshot(file.Snapshot); err != nil {
			return fmt.Errorf("snapshot validation failed: %w", err)
		}
	}
	return nil
}

// ValidateSnapshot checks the tiers and ranges of a snapshot profile.
func ValidateSnapshot(p *domain.SnapshotProfile) error {
	switch p.Reserves {
	case "", domain.ReservesNone, domain.ReservesUnder2, domain.Reserves2To5, domain.Reserves6To10, domain.ReservesMoreThan10:
	default:
		return fmt.Errorf("unknown reserves tier %q", p.Reserves)
	}
	switch p.Employment {
	case "", domain.EmploymentUnder1, domain.Employment1To2, domain.Employment2To5, domain.EmploymentMoreThan5:
	default:
		return fmt.Errorf("unknown employment tier %q", p.Employment)
	}
	if p.LTV.IsNegative() || p.LTV.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("ltv must be a fraction between 0 and 1")
	}
	if p.TaxFreeIncome.IsNegative() {
		return fmt.Errorf("tax free income cannot be negative")
	}
	if p.HouseholdSize < 0 {
		return fmt.Errorf("household size cannot be negative")
	}
	return nil
}

// CreateExampleConfiguration returns a scenario file covering every loan
// program plus a snapshot profile.
func (ip *InputParser) CreateExampleConfiguration() *ScenarioFile {
	dti := decimal.RequireFromString("0.40")
	base := domain.MortgageInput{
		Income:        decimal.NewFromInt(90000),
		Location:      "TX, Harris",
		FICOScore:     720,
		LoanTerm:      30,
		PurchasePrice: decimal.NewFromInt(300000),
		ClosingDate:   "2025-03-15",
		DTI:           &dti,
	}

	fha := base
	fha.LoanType = domain.FHA
	fha.LTV = decimal.NewFromInt(95)
	fha.DownPayment = decimal.NewFromInt(15000)

	conventional := base
	conventional.LoanType = domain.Conventional
	conventional.FICOScore = 760
	conventional.LTV = decimal.NewFromInt(80)
	conventional.DownPayment = decimal.NewFromInt(60000)
	conventional.Location = "CA, Los Angeles"
	conventional.SellerCredits = decimal.NewFromInt(2500)

	va := base
	va.LoanType = domain.VA
	va.LTV = decimal.NewFromInt(100)

	usda := base
	usda.LoanType = domain.USDA
	usda.LTV = decimal.NewFromInt(100)
	usda.Income = decimal.NewFromInt(70000)
	usda.PurchasePrice = decimal.NewFromInt(220000)

	return &ScenarioFile{
		Scenarios: []Scenario{
			{Name: "FHA starter home", Input: fha},
			{Name: "Conventional 20% down", Input: conventional},
			{Name: "VA no down payment", Input: va},
			{Name: "USDA rural", Input: usda},
		},
		Snapshot: &domain.SnapshotProfile{
			FICO:          "700-739",
			LTV:           decimal.RequireFromString("0.95"),
			Reserves:      domain.Reserves2To5,
			Employment:    domain.Employment2To5,
			HouseholdSize: 3,
		},
	}
}

// WriteExample marshals the example configuration as YAML.
func (ip *InputParser) WriteExample(filename string) error {
	out, err := yaml.Marshal(ip.CreateExampleConfiguration())
	if err != nil {
		return fmt.Errorf("failed to encode example: %w", err)
	}
	if err := os.WriteFile(filename, out, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}
