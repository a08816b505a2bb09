package calculation

import (
	"errors"
	"fmt"

	"github.com/rpgo/mortgage-calculator/internal/data"
	"github.com/rpgo/mortgage-calculator/internal/domain"
)

// ErrorCode classifies a CalculationError.
type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeDataLoadFailed      ErrorCode = "DATA_LOAD_FAILED"
	ErrCodeCalculationFailed   ErrorCode = "CALCULATION_FAILED"
	ErrCodeUnsupportedLoanType ErrorCode = "UNSUPPORTED_LOAN_TYPE"
	ErrCodeInvalidDueDate      ErrorCode = "INVALID_DUE_DATE"
)

// ValidationError reports the first offending input field.
type ValidationError = domain.ValidationError

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = domain.ErrInvalidInput

var (
	ErrUnsupportedLoanType = errors.New("unsupported loan type")
	ErrInvalidDueDate      = errors.New("invalid tax due date")
	ErrMissingRate         = errors.New("no base rate for term")
)

// CalculationError wraps any failure returned by Calculate. Err is the root
// cause and stays reachable through errors.Is and errors.As.
type CalculationError struct {
	Op   string
	Code ErrorCode
	Err  error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s failed [%s]: %v", e.Op, e.Code, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CalculationError
	if errors.As(err, &ce) {
		return err
	}
	return &CalculationError{Op: op, Code: classify(err), Err: err}
}

func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return ErrCodeValidationFailed
	case errors.Is(err, data.ErrDataLoad):
		return ErrCodeDataLoadFailed
	case errors.Is(err, ErrUnsupportedLoanType):
		return ErrCodeUnsupportedLoanType
	case errors.Is(err, ErrInvalidDueDate):
		return ErrCodeInvalidDueDate
	default:
		return ErrCodeCalculationFailed
	}
}

// CodeOf returns the code of the first CalculationError in err's chain, or
// an empty code.
func CodeOf(err error) ErrorCode {
	var ce *CalculationError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
