package output

import (
	"bytes"
	"encoding/csv"
	"sort"
)

// CSVDetailedExporter writes the sampled amortization schedule of every
// eligible scenario, one row per scenario and sampled month.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "Month", "Year", "Payment", "Principal", "Interest", "TotalInterest", "Balance", "Equity"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	scenarios := append([]ScenarioResult(nil), report.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		if sc.Result == nil || sc.Result.Loan == nil {
			continue
		}
		for _, e := range sc.Result.Loan.Amortization {
			row := []string{
				sc.Name,
				intToString(e.Month),
				intToString(e.Year),
				e.Payment.StringFixed(2),
				e.Principal.StringFixed(2),
				e.Interest.StringFixed(2),
				e.TotalInterest.StringFixed(2),
				e.Balance.StringFixed(2),
				e.Equity.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
