package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// monthNames indexes resolved month names by month-1.
var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName resolves a 1-12 month number; out-of-range input falls back to
// the number itself so exports stay usable on bad data.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", month)
	}
	return monthNames[month-1]
}

// ExportFilename is the download name for a month's delimited export.
func ExportFilename(month, year int) string {
	return fmt.Sprintf("transactions_%s_%d.csv", MonthName(month), year)
}

const exportHeader = "Date;Description;Category;Type;Value"

// typeLabel is the display form written to exports and reports.
func typeLabel(t TxType) string {
	if t == TypeIncome {
		return "Income"
	}
	return "Expense"
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// quoteField wraps a field in quotes, doubling any embedded quote
// characters.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportDelimited renders the list as a semicolon-delimited table: header,
// one row per transaction in input order, a blank row, and three summary
// rows. Output is deterministic for a given input. A UTF-8 BOM prefixes the
// content so spreadsheet tools detect the encoding.
func ExportDelimited(transactions []Transaction, month, year int) []byte {
	summary := Totals(transactions)

	lines := make([]string, 0, len(transactions)+5)
	lines = append(lines, exportHeader)

	for _, t := range transactions {
		category := t.Category
		if category == "" {
			category = Uncategorized
		}
		lines = append(lines, strings.Join([]string{
			formatDate(t.Date),
			quoteField(t.Description),
			category,
			typeLabel(t.Type),
			formatValue(t.Value),
		}, ";"))
	}

	lines = append(lines, "")
	lines = append(lines, ";;;Total Income;"+formatValue(summary.Income))
	lines = append(lines, ";;;Total Expense;"+formatValue(summary.Expense))
	lines = append(lines, ";;;Balance;"+formatValue(summary.Balance))

	var buf bytes.Buffer
	buf.WriteString("\uFEFF")
	buf.WriteString(strings.Join(lines, "\n"))
	return buf.Bytes()
}
