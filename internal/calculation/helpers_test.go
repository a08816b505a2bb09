package calculation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !got.Equal(dec(want)) {
		assert.Fail(t, fmt.Sprintf("decimal mismatch: want %s, got %s", want, got), msgAndArgs...)
	}
}

func assertNear(t *testing.T, want, got decimal.Decimal, tolerance string) {
	t.Helper()
	assert.Truef(t, want.Sub(got).Abs().LessThanOrEqual(dec(tolerance)),
		"want %s ± %s, got %s", want, tolerance, got)
}

func defaultProvider(t *testing.T) *data.FSProvider {
	t.Helper()
	p, err := data.NewDefaultProvider()
	require.NoError(t, err)
	return p
}

type recordingLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Infof(string, ...any)  {}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) warningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

// stubProvider serves the embedded tables except where a field overrides
// them.
type stubProvider struct {
	data.DataProvider

	insurance     map[domain.LoanType]*data.MortgageInsuranceTables
	closing       *data.ClosingCostsData
	location      *domain.LocationFactors
	locationErr   error
	locationPanic bool
}

func newStubProvider(t *testing.T) *stubProvider {
	return &stubProvider{DataProvider: defaultProvider(t)}
}

func (s *stubProvider) GetMortgageInsurance(ctx context.Context, lt domain.LoanType) (*data.MortgageInsuranceTables, error) {
	if tables, ok := s.insurance[lt]; ok {
		return tables, nil
	}
	return s.DataProvider.GetMortgageInsurance(ctx, lt)
}

func (s *stubProvider) GetClosingCostsData(ctx context.Context) (*data.ClosingCostsData, error) {
	if s.closing != nil {
		return s.closing, nil
	}
	return s.DataProvider.GetClosingCostsData(ctx)
}

func (s *stubProvider) EstimateLocationFactors(ctx context.Context, location string) (*domain.LocationFactors, error) {
	if s.locationPanic {
		panic("location table corrupted")
	}
	if s.locationErr != nil {
		return nil, s.locationErr
	}
	if s.location != nil {
		return s.location, nil
	}
	return s.DataProvider.EstimateLocationFactors(ctx, location)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intRef(i int) *int { return &i }

func boolRef(b bool) *bool { return &b }

// fhaScenario is the reference FHA purchase used across the tests.
func fhaScenario() *domain.MortgageInput {
	return &domain.MortgageInput{
		Income:        dec("90000"),
		Location:      "TX, Harris",
		LTV:           dec("95"),
		FICOScore:     720,
		LoanType:      domain.FHA,
		LoanTerm:      30,
		PurchasePrice: dec("300000"),
		DownPayment:   dec("15000"),
		ClosingDate:   "2025-03-15",
	}
}

func texasFactors() *domain.LocationFactors {
	return &domain.LocationFactors{
		PropertyTaxRate: dec("0.0203"),
		InsuranceRate:   dec("0.0035"),
		State:           "TX",
		County:          "Harris",
		TaxCycle:        domain.TaxCycle{Frequency: "annual", DueDates: []string{"01-31"}},
	}
}
