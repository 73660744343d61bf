// Package export renders ReportData into downloadable CSV, Excel and
// PDF artifacts. The generators derive their table layout per report
// type independently but must agree numerically on every total.
package export

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// MIME types per export format.
const (
	MIMETypeCSV   = "text/csv"
	MIMETypePDF   = "application/pdf"
	MIMETypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const totalLabel = "TOTAL"

const dateLayout = "2006-01-02"

// formatFloat renders a plain machine-readable amount for CSV cells.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatMoney renders an amount as Brazilian currency for display cells.
func formatMoney(v float64) string {
	return brl.Sprintf("R$ %.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
