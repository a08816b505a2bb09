package output

import (
	"bytes"
	"fmt"
	"sort"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "MORTGAGE SCENARIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	scenarios := append([]ScenarioResult(nil), report.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		switch {
		case sc.Error != "":
			fmt.Fprintf(&buf, "%s: ERROR %s\n", sc.Name, sc.Error)
		case sc.Result == nil:
			fmt.Fprintf(&buf, "%s: no result\n", sc.Name)
		case !sc.Result.Eligible:
			fmt.Fprintf(&buf, "%s: %s INELIGIBLE (%s)\n", sc.Name, sc.Result.LoanType, sc.Result.Reason)
		default:
			r := sc.Result
			fmt.Fprintf(&buf, "%s: %s Power=%s Payment=%s Rate=%s APR=%s CashToClose=%s\n",
				sc.Name, r.LoanType,
				FormatCurrency(r.PurchasingPower()),
				FormatCurrency(r.Payment.Total),
				FormatPercentage(r.InterestRate),
				FormatPercentage(r.RepAPR),
				FormatCurrency(r.CashToClose),
			)
		}
	}
	for _, m := range report.Matrices {
		eligible := 0
		for _, cell := range m.Cells {
			if cell.Eligible {
				eligible++
			}
		}
		fmt.Fprintf(&buf, "Matrix %s (%s): %d of %d cells eligible\n", m.Scenario, m.LoanType, eligible, len(m.Cells))
	}
	if s := report.Snapshot; s != nil {
		fmt.Fprint(&buf, "DTI snapshot:")
		for _, lt := range snapshotOrder(s.Estimates) {
			fmt.Fprintf(&buf, " %s=%s", lt, FormatRatio(s.Estimates[lt]))
		}
		fmt.Fprintln(&buf)
	}
	rec := AnalyzeScenarios(report)
	if rec.ScenarioName != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Recommended: %s (%s, %s purchasing power)\n", rec.ScenarioName, rec.LoanType, FormatCurrency(rec.PurchasingPower))
	}
	return buf.Bytes(), nil
}
