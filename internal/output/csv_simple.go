package output

import (
	"bytes"
	"encoding/csv"
	"sort"

	"github.com/shopspring/decimal"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "LoanType", "Eligible", "Reason", "FICOScore", "LTV", "LoanTerm", "PurchasingPower", "MaxLoanAmount", "TotalLoanAmount", "InterestRate", "RepAPR", "PrincipalAndInterest", "PropertyTax", "Insurance", "MortgageInsurance", "HOA", "TotalMonthlyPayment", "ClosingCosts", "Prepaids", "CashToClose", "FrontEndDTI", "BackEndDTI", "Error"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	scenarios := append([]ScenarioResult(nil), report.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Name < scenarios[j].Name })
	for _, sc := range scenarios {
		if err := w.Write(summaryRow(sc, len(header))); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func summaryRow(sc ScenarioResult, width int) []string {
	row := make([]string, width)
	row[0] = sc.Name
	row[width-1] = sc.Error
	r := sc.Result
	if r == nil {
		return row
	}
	fixed := func(d decimal.Decimal) string { return d.StringFixed(2) }
	row[1] = string(r.LoanType)
	row[2] = boolToString(r.Eligible)
	row[3] = r.Reason
	row[4] = intToString(r.FICOScore)
	row[5] = r.LTV.String()
	row[6] = intToString(r.LoanTerm)
	if loan := r.Loan; loan != nil {
		row[7] = fixed(loan.PurchasingPower)
		row[8] = fixed(loan.MaxLoanAmount)
		row[9] = fixed(loan.TotalLoanAmount)
	}
	if !r.Eligible {
		return row
	}
	row[10] = r.InterestRate.StringFixed(3)
	row[11] = r.RepAPR.StringFixed(3)
	row[12] = fixed(r.Payment.PrincipalAndInterest)
	row[13] = fixed(r.Payment.PropertyTax)
	row[14] = fixed(r.Payment.Insurance)
	row[15] = fixed(r.Payment.MortgageInsurance)
	row[16] = fixed(r.Payment.HOA)
	row[17] = fixed(r.Payment.Total)
	if cc := r.ClosingCosts; cc != nil {
		row[18] = fixed(cc.TotalEstimated)
		row[19] = fixed(cc.TotalPrepaids)
	}
	row[20] = fixed(r.CashToClose)
	if d := r.DTI; d != nil {
		row[21] = fixed(d.FrontEnd)
		row[22] = fixed(d.BackEnd)
	}
	return row
}
