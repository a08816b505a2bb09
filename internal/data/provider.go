// Package data loads the rate, insurance, location and fee tables used by the
// calculation engine.
package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/mortgage-calculator/internal/domain"
)

// DataProvider supplies every table the calculator consumes. Implementations
// must honour ctx cancellation.
type DataProvider interface {
	GetBaseRates(ctx context.Context, loanType domain.LoanType) (*BaseRates, error)
	GetLLPA(ctx context.Context, entity string) (*LLPATable, error)
	GetMortgageInsurance(ctx context.Context, loanType domain.LoanType) (*MortgageInsuranceTables, error)
	EstimateLocationFactors(ctx context.Context, location string) (*domain.LocationFactors, error)
	GetClosingCostsData(ctx context.Context) (*ClosingCostsData, error)
}

// Logger is the subset of calculation.Logger used here.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// Agency names accepted by GetLLPA.
const (
	FannieMae  = "Fannie Mae"
	FreddieMac = "Freddie Mac"
)

// Dataset names, relative to the provider root and without extension.
const (
	DatasetPropertyTax  = "location/property_tax"
	DatasetInsurance    = "location/insurance"
	DatasetTaxCycles    = "location/tax_cycles"
	DatasetClosingCosts = "closing_costs/base"
)

// RatesDataset returns the base-rate dataset for a loan type.
func RatesDataset(lt domain.LoanType) string {
	return "rates/" + strings.ToLower(string(lt))
}

// LLPADataset maps an agency name to its dataset; unknown names use Fannie Mae.
func LLPADataset(entity string) string {
	switch entity {
	case FreddieMac:
		return "llpa/freddie_mac"
	default:
		return "llpa/fannie_mae"
	}
}

// InsuranceDataset returns the mortgage insurance dataset for a loan type.
func InsuranceDataset(lt domain.LoanType) string {
	if lt == domain.Conventional {
		return "mortgage_insurance/pmi"
	}
	return "mortgage_insurance/" + strings.ToLower(string(lt))
}

var (
	// ErrDataLoad is matched by every DataLoadError.
	ErrDataLoad = errors.New("data load failed")
	// ErrSchemaInvalid marks a dataset that failed schema validation.
	ErrSchemaInvalid = errors.New("dataset does not match schema")
)

// DataLoadError reports a dataset that could not be read, parsed or validated.
type DataLoadError struct {
	Dataset string
	Err     error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load %s.json: %v", e.Dataset, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDataLoad) match.
func (e *DataLoadError) Is(target error) bool { return target == ErrDataLoad }

// IsTimeout reports whether err came from a cancelled or expired context.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
