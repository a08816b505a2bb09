package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fhaYAML = `
scenarios:
  - name: "FHA starter"
    income: 90000
    location: "TX, Harris"
    ltv: 95
    fico_score: 720
    loan_type: FHA
    loan_term: 30
    purchase_price: 300000
    down_payment: 15000
    closing_date: "2025-03-15"
    overrides:
      AppraisalFee: 425
snapshot:
  fico: "700-739"
  ltv: 0.95
  reserves: 2-to-5
  employment: more-than-5
  debts:
    car_payments: 350
    student_loans: 200
`

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser)
}

func TestLoadFromFile_Success(t *testing.T) {
	file, err := NewInputParser().LoadFromFile(writeTemp(t, fhaYAML))
	require.NoError(t, err)
	require.Len(t, file.Scenarios, 1)

	s, ok := file.Find("FHA starter")
	require.True(t, ok)
	in := s.Input
	assert.Equal(t, domain.FHA, in.LoanType)
	assert.Equal(t, 720, in.FICOScore)
	assert.True(t, in.Income.Equal(decimal.NewFromInt(90000)))
	assert.True(t, in.LTV.Equal(decimal.NewFromInt(95)))
	assert.Equal(t, "2025-03-15", in.ClosingDate)
	v, ok := in.Override("AppraisalFee")
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(425)))

	require.NotNil(t, file.Snapshot)
	assert.Equal(t, 700, file.Snapshot.FICOScore())
	assert.True(t, file.Snapshot.MonthlyDebts().Equal(decimal.NewFromInt(550)))

	_, ok = file.Find("missing")
	assert.False(t, ok)
}

func TestLoadFromFile_FileNotFound(t *testing.T) {
	file, err := NewInputParser().LoadFromFile("nonexistent_file.yaml")
	assert.Error(t, err)
	assert.Nil(t, file)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	file, err := NewInputParser().LoadFromFile(writeTemp(t, "scenarios:\n\t- name: tabs\n"))
	assert.Error(t, err)
	assert.Nil(t, file)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadFromFile_InvalidScenario(t *testing.T) {
	body := `
scenarios:
  - name: "bad fico"
    income: 90000
    location: "TX"
    ltv: 95
    fico_score: 450
    loan_type: FHA
    purchase_price: 300000
    down_payment: 15000
`
	_, err := NewInputParser().LoadFromFile(writeTemp(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
	assert.Contains(t, err.Error(), "FICO score must be a number between 500 and 850")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValidateConfiguration(t *testing.T) {
	valid := func() *ScenarioFile { return NewInputParser().CreateExampleConfiguration() }

	tests := []struct {
		name    string
		mutate  func(*ScenarioFile)
		wantErr string
	}{
		{"example is valid", func(*ScenarioFile) {}, ""},
		{"empty file", func(f *ScenarioFile) { f.Scenarios, f.Snapshot = nil, nil }, "no scenarios or snapshot provided"},
		{"snapshot only", func(f *ScenarioFile) { f.Scenarios = nil }, ""},
		{"missing name", func(f *ScenarioFile) { f.Scenarios[1].Name = "" }, "scenario 1: name is required"},
		{"duplicate name", func(f *ScenarioFile) { f.Scenarios[1].Name = f.Scenarios[0].Name }, "duplicate name"},
		{"bad loan type", func(f *ScenarioFile) { f.Scenarios[0].Input.LoanType = "Jumbo" }, "Invalid loan type: Jumbo"},
		{"bad reserves", func(f *ScenarioFile) { f.Snapshot.Reserves = "lots" }, "unknown reserves tier"},
		{"bad employment", func(f *ScenarioFile) { f.Snapshot.Employment = "forever" }, "unknown employment tier"},
		{"ltv as percent", func(f *ScenarioFile) { f.Snapshot.LTV = decimal.NewFromInt(95) }, "ltv must be a fraction"},
		{"negative household", func(f *ScenarioFile) { f.Snapshot.HouseholdSize = -1 }, "household size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid()
			tt.mutate(f)
			err := NewInputParser().ValidateConfiguration(f)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreateExampleConfiguration(t *testing.T) {
	file := NewInputParser().CreateExampleConfiguration()
	require.Len(t, file.Scenarios, len(domain.AllLoanTypes))

	types := make(map[domain.LoanType]bool)
	for _, s := range file.Scenarios {
		types[s.Input.LoanType] = true
	}
	for _, lt := range domain.AllLoanTypes {
		assert.True(t, types[lt], "missing %s scenario", lt)
	}
}

func TestWriteExample_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	parser := NewInputParser()
	require.NoError(t, parser.WriteExample(path))

	file, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	want := parser.CreateExampleConfiguration()
	require.Len(t, file.Scenarios, len(want.Scenarios))
	for i := range want.Scenarios {
		assert.Equal(t, want.Scenarios[i].Name, file.Scenarios[i].Name)
		assert.Equal(t, want.Scenarios[i].Input.CacheKey(), file.Scenarios[i].Input.CacheKey())
	}
}
