package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// printableRow is one table line of the printable report.
type printableRow struct {
	Date     string
	Desc     string
	Category string
	Type     string
	Value    string
	Class    string
}

type printableData struct {
	Period      string
	Income      string
	Expense     string
	Balance     string
	Rows        []printableRow
	GeneratedAt string
}

// The document is self-contained so the browser print dialog needs no
// external assets. All interpolation goes through html/template, which
// escapes user-supplied description and category text.
var printableTmpl = template.Must(template.New("printable").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Financial Report - {{.Period}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
h1 { color: #1e40af; border-bottom: 2px solid #1e40af; padding-bottom: 10px; }
.summary { display: grid; grid-template-columns: repeat(3, 1fr); gap: 20px; margin: 20px 0; }
.summary-card { padding: 15px; border-radius: 8px; background: #f8fafc; border: 1px solid #e2e8f0; }
.summary-card h3 { margin: 0 0 10px 0; font-size: 14px; color: #64748b; }
.summary-card p { margin: 0; font-size: 24px; font-weight: bold; }
.income { color: #10b981; }
.expense { color: #ef4444; }
.balance { color: #3b82f6; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { padding: 12px; text-align: left; border-bottom: 1px solid #e2e8f0; }
th { background: #f1f5f9; font-weight: bold; color: #475569; }
.footer { margin-top: 40px; padding-top: 20px; border-top: 2px solid #e2e8f0; text-align: center; color: #64748b; font-size: 12px; }
@media print { body { margin: 0; } .summary { page-break-inside: avoid; } }
</style>
</head>
<body>
<h1>XPense Control - Financial Report</h1>
<p><strong>Period:</strong> {{.Period}}</p>
<div class="summary">
<div class="summary-card"><h3>Total Income</h3><p class="income">{{.Income}}</p></div>
<div class="summary-card"><h3>Total Expense</h3><p class="expense">{{.Expense}}</p></div>
<div class="summary-card"><h3>Balance</h3><p class="balance">{{.Balance}}</p></div>
</div>
<table>
<thead>
<tr><th>Date</th><th>Description</th><th>Category</th><th>Type</th><th style="text-align: right;">Value</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr>
<td>{{.Date}}</td>
<td>{{.Desc}}</td>
<td>{{.Category}}</td>
<td><span class="{{.Class}}">{{.Type}}</span></td>
<td style="text-align: right; font-weight: bold;" class="{{.Class}}">{{.Value}}</td>
</tr>
{{end}}</tbody>
</table>
<div class="footer">
<p>Report generated at {{.GeneratedAt}}</p>
<p>XPense Control - your personal finance tracker</p>
</div>
</body>
</html>
`))

// RenderPrintable produces the self-contained printable HTML document for a
// month: title, three summary figures, and the full transaction table in
// input order. The generatedAt timestamp lands in the footer; passing it in
// keeps the output deterministic for a fixed input.
func RenderPrintable(transactions []Transaction, month, year int, generatedAt time.Time) ([]byte, error) {
	summary := Totals(transactions)

	rows := make([]printableRow, 0, len(transactions))
	for _, t := range transactions {
		category := t.Category
		if category == "" {
			category = Uncategorized
		}
		class := "expense"
		if t.Type == TypeIncome {
			class = "income"
		}
		rows = append(rows, printableRow{
			Date:     formatDate(t.Date),
			Desc:     t.Description,
			Category: category,
			Type:     typeLabel(t.Type),
			Value:    formatValue(t.Value),
			Class:    class,
		})
	}

	data := printableData{
		Period:      fmt.Sprintf("%s %d", MonthName(month), year),
		Income:      formatValue(summary.Income),
		Expense:     formatValue(summary.Expense),
		Balance:     formatValue(summary.Balance),
		Rows:        rows,
		GeneratedAt: generatedAt.Format("02/01/2006 15:04"),
	}

	var buf bytes.Buffer
	if err := printableTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
