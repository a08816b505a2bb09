package output

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpgo/mortgage-calculator/internal/domain"
)

// ErrUnsupportedFormat is returned for format names no formatter answers to.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// ScenarioResult pairs a named scenario with its calculation outcome. Error
// is set instead of Result when the calculation failed.
type ScenarioResult struct {
	Name   string                    `json:"name"`
	Input  *domain.MortgageInput     `json:"input,omitempty"`
	Result *domain.CalculationResult `json:"result,omitempty"`
	Error  string                    `json:"error,omitempty"`
}

// MatrixReport is one purchasing-power sweep in FICO-major order.
type MatrixReport struct {
	Scenario string                   `json:"scenario"`
	LoanType domain.LoanType          `json:"loan_type"`
	Cells    []domain.PowerMatrixCell `json:"cells"`
}

// SnapshotReport holds the DTI estimates for a borrower profile.
type SnapshotReport struct {
	Profile   *domain.SnapshotProfile `json:"profile"`
	Estimates domain.DTIEstimates     `json:"estimates"`
}

// Report is what every formatter renders. Any section may be empty.
type Report struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Scenarios   []ScenarioResult `json:"scenarios,omitempty"`
	Matrices    []MatrixReport   `json:"matrices,omitempty"`
	Snapshot    *SnapshotReport  `json:"snapshot,omitempty"`
	Assumptions []string         `json:"assumptions,omitempty"`
}

// NewReport returns an empty report stamped with the current time.
func NewReport() *Report {
	return &Report{GeneratedAt: time.Now().UTC()}
}

// AddResult appends a scenario outcome; err wins over res.
func (r *Report) AddResult(name string, in *domain.MortgageInput, res *domain.CalculationResult, err error) {
	sr := ScenarioResult{Name: name, Input: in, Result: res}
	if err != nil {
		sr.Result = nil
		sr.Error = err.Error()
	}
	r.Scenarios = append(r.Scenarios, sr)
}

// AddMatrix appends a purchasing-power sweep.
func (r *Report) AddMatrix(name string, lt domain.LoanType, cells []domain.PowerMatrixCell) {
	r.Matrices = append(r.Matrices, MatrixReport{Scenario: name, LoanType: lt, Cells: cells})
}

// assumptions returns the report's assumptions or the defaults.
func (r *Report) assumptions() []string {
	if len(r.Assumptions) > 0 {
		return r.Assumptions
	}
	return DefaultAssumptions
}

// GenerateReport writes the report in the named format to a timestamped file
// under dir and returns its path.
func GenerateReport(r *Report, format, dir string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
			strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return WriteFormatted(f, r, dir, extensionFor(f.Name()))
}

func extensionFor(name string) string {
	switch {
	case strings.Contains(name, "csv"):
		return "csv"
	case name == "json" || name == "html":
		return name
	default:
		return "txt"
	}
}
