package output

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf, "MORTGAGE AFFORDABILITY ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 72))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range report.assumptions() {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i, sc := range report.Scenarios {
		fmt.Fprintf(&buf, "SCENARIO %d: %s\n", i+1, sc.Name)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeScenario(&buf, sc)
		fmt.Fprintln(&buf)
	}

	for _, m := range report.Matrices {
		fmt.Fprintf(&buf, "PURCHASING POWER MATRIX: %s (%s)\n", m.Scenario, m.LoanType)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeMatrix(&buf, m.Cells)
		fmt.Fprintln(&buf)
	}

	if s := report.Snapshot; s != nil {
		fmt.Fprintln(&buf, "DTI SNAPSHOT")
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		if s.Profile != nil {
			fmt.Fprintf(&buf, "FICO: %s  LTV: %s  Monthly Debts: %s\n",
				s.Profile.FICO, FormatRatio(s.Profile.LTVRatio()), FormatCurrency(s.Profile.MonthlyDebts()))
		}
		for _, lt := range snapshotOrder(s.Estimates) {
			fmt.Fprintf(&buf, "  %-14s max DTI %s\n", lt, FormatRatio(s.Estimates[lt]))
		}
		fmt.Fprintln(&buf)
	}

	if rec := AnalyzeScenarios(report); rec.ScenarioName != "" {
		fmt.Fprintln(&buf, "RECOMMENDATION")
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintf(&buf, "%s (%s) offers the most purchasing power: %s\n", rec.ScenarioName, rec.LoanType, FormatCurrency(rec.PurchasingPower))
		fmt.Fprintf(&buf, "Monthly payment %s, cash to close %s\n", FormatCurrency(rec.MonthlyPayment), FormatCurrency(rec.CashToClose))
		if rec.PowerOverNext.IsPositive() {
			fmt.Fprintf(&buf, "%s more than the next best scenario\n", FormatCurrency(rec.PowerOverNext))
		}
	}
	return buf.Bytes(), nil
}

func writeScenario(w io.Writer, sc ScenarioResult) {
	if sc.Error != "" {
		fmt.Fprintf(w, "Calculation failed: %s\n", sc.Error)
		return
	}
	r := sc.Result
	if r == nil {
		fmt.Fprintln(w, "No result")
		return
	}
	fmt.Fprintf(w, "Loan Type: %s  FICO: %d  LTV: %s  Term: %d years\n", r.LoanType, r.FICOScore, FormatPercentage(r.LTV), r.LoanTerm)
	if !r.Eligible {
		fmt.Fprintf(w, "NOT ELIGIBLE: %s\n", r.Reason)
		for _, f := range r.Failures[min(1, len(r.Failures)):] {
			fmt.Fprintf(w, "  also: %s\n", f)
		}
		if len(r.Alternatives) > 0 {
			fmt.Fprintf(w, "Consider: %s\n", strings.Join(r.Alternatives, ", "))
		}
		return
	}

	if loan := r.Loan; loan != nil {
		fmt.Fprintln(w, "LOAN:")
		fmt.Fprintf(w, "  Purchasing Power:    %s\n", FormatCurrency(loan.PurchasingPower))
		fmt.Fprintf(w, "  Max Loan Amount:     %s\n", FormatCurrency(loan.MaxLoanAmount))
		fmt.Fprintf(w, "  Base Loan Amount:    %s\n", FormatCurrency(loan.LoanAmount))
		if loan.UpfrontFee.IsPositive() {
			fmt.Fprintf(w, "  Financed Upfront Fee: %s\n", FormatCurrency(loan.UpfrontFee))
		}
		fmt.Fprintf(w, "  Total Loan Amount:   %s\n", FormatCurrency(loan.TotalLoanAmount))
		if !loan.Converged {
			fmt.Fprintf(w, "  (solver stopped after %d iterations without converging)\n", loan.SolverIterations)
		}
	}
	fmt.Fprintf(w, "  Interest Rate:       %s\n", FormatPercentage(r.InterestRate))
	fmt.Fprintf(w, "  Representative APR:  %s\n", FormatPercentage(r.RepAPR))

	fmt.Fprintln(w, "MONTHLY PAYMENT:")
	fmt.Fprintf(w, "  Principal & Interest: %s\n", FormatCurrency(r.Payment.PrincipalAndInterest))
	fmt.Fprintf(w, "  Property Tax:         %s\n", FormatCurrency(r.Payment.PropertyTax))
	fmt.Fprintf(w, "  Insurance:            %s\n", FormatCurrency(r.Payment.Insurance))
	fmt.Fprintf(w, "  Mortgage Insurance:   %s\n", FormatCurrency(r.Payment.MortgageInsurance))
	if r.Payment.HOA.IsPositive() {
		fmt.Fprintf(w, "  HOA:                  %s\n", FormatCurrency(r.Payment.HOA))
	}
	fmt.Fprintf(w, "  TOTAL:                %s\n", FormatCurrency(r.Payment.Total))

	if cc := r.ClosingCosts; cc != nil {
		fmt.Fprintln(w, "CLOSING COSTS:")
		keys := make([]string, 0, len(cc.Details))
		for k := range cc.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			d := cc.Details[k]
			marker := ""
			if d.IsOverridden {
				marker = " (override)"
			}
			fmt.Fprintf(w, "  %-32s %12s%s\n", k, FormatCurrency(d.Amount), marker)
		}
		fmt.Fprintf(w, "  %-32s %12s\n", "Total Fees", FormatCurrency(cc.TotalEstimated))
		fmt.Fprintf(w, "  %-32s %12s\n", "Prepaid Interest", FormatCurrency(cc.PrepaidInterest))
		fmt.Fprintf(w, "  %-32s %12s\n", "Prepaid Property Taxes", FormatCurrency(cc.PrepaidTaxes))
		fmt.Fprintf(w, "  %-32s %12s\n", "Prepaid Homeowners Insurance", FormatCurrency(cc.PrepaidHOI))
		fmt.Fprintf(w, "  %-32s %12s\n", "Total Prepaids", FormatCurrency(cc.TotalPrepaids))
	}

	fmt.Fprintln(w, "CASH TO CLOSE:")
	fmt.Fprintf(w, "  Down Payment:  %s\n", FormatCurrency(r.DownPayment))
	if r.Credits.IsPositive() {
		fmt.Fprintf(w, "  Credits:      -%s\n", FormatCurrency(r.Credits))
	}
	fmt.Fprintf(w, "  Total:         %s\n", FormatCurrency(r.CashToClose))

	if d := r.DTI; d != nil {
		fmt.Fprintf(w, "DTI: front-end %s, back-end %s on %s monthly income\n",
			FormatPercentage(d.FrontEnd), FormatPercentage(d.BackEnd), FormatCurrency(d.MonthlyIncome))
	}
}

// matrixGrid indexes cells by row and column in first-seen order.
type matrixGrid struct {
	ficos []int
	ltvs  []decimal.Decimal
	cells map[string]domain.PowerMatrixCell
}

func gridKey(fico int, ltv decimal.Decimal) string { return fmt.Sprintf("%d|%s", fico, ltv.String()) }

func newMatrixGrid(cells []domain.PowerMatrixCell) matrixGrid {
	g := matrixGrid{cells: make(map[string]domain.PowerMatrixCell, len(cells))}
	seenFICO := map[int]bool{}
	seenLTV := map[string]bool{}
	for _, c := range cells {
		if !seenFICO[c.FICOScore] {
			seenFICO[c.FICOScore] = true
			g.ficos = append(g.ficos, c.FICOScore)
		}
		if !seenLTV[c.LTV.String()] {
			seenLTV[c.LTV.String()] = true
			g.ltvs = append(g.ltvs, c.LTV)
		}
		g.cells[gridKey(c.FICOScore, c.LTV)] = c
	}
	return g
}

func writeMatrix(w io.Writer, cells []domain.PowerMatrixCell) {
	g := newMatrixGrid(cells)
	fmt.Fprintf(w, "%-6s", "FICO")
	for _, ltv := range g.ltvs {
		fmt.Fprintf(w, "%10s", ltv.String()+"%")
	}
	fmt.Fprintln(w)
	for _, fico := range g.ficos {
		fmt.Fprintf(w, "%-6d", fico)
		for _, ltv := range g.ltvs {
			c, ok := g.cells[gridKey(fico, ltv)]
			switch {
			case !ok:
				fmt.Fprintf(w, "%10s", "")
			case c.Error != "":
				fmt.Fprintf(w, "%10s", "error")
			case !c.Eligible:
				fmt.Fprintf(w, "%10s", "-")
			default:
				fmt.Fprintf(w, "%10s", FormatThousands(c.PurchasingPower))
			}
		}
		fmt.Fprintln(w)
	}
}

// snapshotOrder lists the known programs first, then any others by name.
func snapshotOrder(est domain.DTIEstimates) []domain.LoanType {
	out := make([]domain.LoanType, 0, len(est))
	known := map[domain.LoanType]bool{}
	for _, lt := range domain.AllLoanTypes {
		known[lt] = true
		if _, ok := est[lt]; ok {
			out = append(out, lt)
		}
	}
	var extra []domain.LoanType
	for lt := range est {
		if !known[lt] {
			extra = append(extra, lt)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
