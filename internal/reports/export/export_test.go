package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/shared"
)

func expenseReport() reports.ReportData {
	return reports.ReportData{
		Type:  reports.TypeExpenseBreakdown,
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Summary: reports.Summary{
			TotalExpenses: 200,
			NetProfit:     -200,
		},
		Expenses: []reports.ExpenseItem{
			{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Description: "fuel stop", Category: "Fuel", Driver: "Ana", Amount: 120},
			{Date: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), Description: "oil change", Category: "Maintenance", Amount: 80},
		},
	}
}

func TestCSVTotalMatchesSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, expenseReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4, "header, two rows, total")

	total := records[len(records)-1]
	require.Equal(t, "TOTAL", total[0])
	value, err := strconv.ParseFloat(total[len(total)-1], 64)
	require.NoError(t, err)
	require.Equal(t, 200.0, value)
}

func TestCSVAndPDFAgreeOnTotals(t *testing.T) {
	data := expenseReport()

	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, data))
	require.Contains(t, buf.String(), formatFloat(data.Summary.TotalExpenses))

	html, err := BuildReportHTML(data)
	require.NoError(t, err)
	require.Contains(t, html, formatMoney(data.Summary.TotalExpenses))
	require.Contains(t, html, "Expense Breakdown")
	require.Contains(t, html, "fuel stop")
}

func TestExcelTotalRowMatchesSummary(t *testing.T) {
	data := expenseReport()
	var buf bytes.Buffer
	require.NoError(t, WriteReportExcel(&buf, data))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "Date", rows[0][0])

	totalRow := rows[len(rows)-1]
	require.Equal(t, "TOTAL", totalRow[0])
	value, err := strconv.ParseFloat(totalRow[len(totalRow)-1], 64)
	require.NoError(t, err)
	require.Equal(t, 200.0, value)
}

func TestDriverPerformanceCSV(t *testing.T) {
	data := reports.ReportData{
		Type: reports.TypeDriverPerformance,
		Summary: reports.Summary{
			TotalRevenue:  350,
			TotalExpenses: 60,
			NetProfit:     290,
		},
		Drivers: []reports.DriverPerformance{
			{Name: "Ana", Trips: 2, TotalRevenue: 300, TotalExpenses: 60, NetProfit: 240, AvgRevenuePerTrip: 150},
			{Name: "Bia", Trips: 1, TotalRevenue: 50, NetProfit: 50, AvgRevenuePerTrip: 50},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, data))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	total := records[len(records)-1]
	require.Equal(t, []string{"TOTAL", "3", "350.00", "60.00", "290.00", ""}, total)
}

func TestMonthlySummaryCSVIncludesBothSides(t *testing.T) {
	data := reports.ReportData{
		Type: reports.TypeMonthlySummary,
		Summary: reports.Summary{
			TotalRevenue:  400,
			TotalExpenses: 100,
			NetProfit:     300,
			ProfitMargin:  75,
		},
		Revenues: []reports.RevenueItem{{Date: time.Now(), Description: "rides", Company: "Uber", Amount: 400}},
		Expenses: []reports.ExpenseItem{{Date: time.Now(), Description: "fuel", Category: "Fuel", Amount: 100}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteReportCSV(&buf, data))
	out := buf.String()
	require.Contains(t, out, "Net Profit,300.00")
	require.Contains(t, out, "Profit Margin,75.0%")
	require.Contains(t, out, "revenue,")
	require.Contains(t, out, "expense,")
	require.True(t, strings.Contains(out, "TOTAL,,,,300.00"))
}

func TestGeneratorsRejectUnknownType(t *testing.T) {
	data := reports.ReportData{Type: reports.Type("WEEKLY")}

	var buf bytes.Buffer
	err := WriteReportCSV(&buf, data)
	require.True(t, errors.Is(err, shared.ErrUnsupportedReportType))
	require.Zero(t, buf.Len(), "no partial file may be emitted")

	err = WriteReportExcel(&buf, data)
	require.True(t, errors.Is(err, shared.ErrUnsupportedReportType))
	require.Zero(t, buf.Len())

	_, err = BuildReportHTML(data)
	require.True(t, errors.Is(err, shared.ErrUnsupportedReportType))
}
