package output

import (
	"bytes"
	_ "embed"
	"html/template"
	"sort"

	"github.com/rpgo/mortgage-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":  FormatCurrency,
	"pct":   FormatPercentage,
	"ratio": FormatRatio,
	"k":     FormatThousands,
	"feeKeys": func(details map[string]domain.ClosingCostDetail) []string {
		keys := make([]string, 0, len(details))
		for k := range details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	},
}).Parse(htmlTemplateSource))

type htmlMatrix struct {
	MatrixReport
	LTVs []decimal.Decimal
	Rows []htmlMatrixRow
}

type htmlMatrixRow struct {
	FICO  int
	Cells []domain.PowerMatrixCell
}

type htmlSnapshotRow struct {
	LoanType domain.LoanType
	MaxDTI   decimal.Decimal
}

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var matrices []htmlMatrix
	for _, m := range report.Matrices {
		g := newMatrixGrid(m.Cells)
		hm := htmlMatrix{MatrixReport: m, LTVs: g.ltvs}
		for _, fico := range g.ficos {
			row := htmlMatrixRow{FICO: fico}
			for _, ltv := range g.ltvs {
				row.Cells = append(row.Cells, g.cells[gridKey(fico, ltv)])
			}
			hm.Rows = append(hm.Rows, row)
		}
		matrices = append(matrices, hm)
	}
	var snapshot []htmlSnapshotRow
	if report.Snapshot != nil {
		for _, lt := range snapshotOrder(report.Snapshot.Estimates) {
			snapshot = append(snapshot, htmlSnapshotRow{LoanType: lt, MaxDTI: report.Snapshot.Estimates[lt]})
		}
	}

	data := struct {
		*Report
		Recommendation Recommendation
		Assumptions    []string
		Grids          []htmlMatrix
		SnapshotRows   []htmlSnapshotRow
	}{report, AnalyzeScenarios(report), report.assumptions(), matrices, snapshot}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
