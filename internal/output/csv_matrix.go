package output

import (
	"bytes"
	"encoding/csv"
)

// CSVMatrixExporter writes every purchasing-power matrix cell in sweep order.
type CSVMatrixExporter struct{}

func (c CSVMatrixExporter) Name() string { return "matrix-csv" }

func (c CSVMatrixExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "LoanType", "FICOScore", "LTV", "Eligible", "PurchasingPower", "LoanAmount", "MonthlyPayment", "InterestRate", "Reason", "Error"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, m := range report.Matrices {
		for _, cell := range m.Cells {
			row := []string{
				m.Scenario,
				string(cell.LoanType),
				intToString(cell.FICOScore),
				cell.LTV.String(),
				boolToString(cell.Eligible),
				cell.PurchasingPower.StringFixed(2),
				cell.LoanAmount.StringFixed(2),
				cell.MonthlyPayment.StringFixed(2),
				cell.InterestRate.StringFixed(3),
				cell.Reason,
				cell.Error,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
