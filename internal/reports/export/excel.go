package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/shared"
)

const sheetName = "Report"

// WriteReportExcel builds a styled worksheet for the report: colored
// header row, numeric formats on amount columns and a bold TOTAL row.
func WriteReportExcel(w io.Writer, data reports.ReportData) error {
	var (
		headers []string
		rows    [][]any
		total   []any
	)

	switch data.Type {
	case reports.TypeExpenseBreakdown:
		headers = []string{"Date", "Description", "Category", "Driver", "Vehicle", "Amount"}
		for _, item := range data.Expenses {
			rows = append(rows, []any{item.Date.Format(dateLayout), item.Description, item.Category, item.Driver, item.Vehicle, item.Amount})
		}
		total = []any{totalLabel, "", "", "", "", data.Summary.TotalExpenses}

	case reports.TypeRevenueBreakdown:
		headers = []string{"Date", "Description", "Company", "Driver", "Vehicle", "Amount"}
		for _, item := range data.Revenues {
			rows = append(rows, []any{item.Date.Format(dateLayout), item.Description, item.Company, item.Driver, item.Vehicle, item.Amount})
		}
		total = []any{totalLabel, "", "", "", "", data.Summary.TotalRevenue}

	case reports.TypeMonthlySummary, reports.TypeDRE:
		headers = []string{"Type", "Date", "Description", "Category", "Amount"}
		for _, item := range data.Revenues {
			rows = append(rows, []any{"revenue", item.Date.Format(dateLayout), item.Description, item.Company, item.Amount})
		}
		for _, item := range data.Expenses {
			rows = append(rows, []any{"expense", item.Date.Format(dateLayout), item.Description, item.Category, item.Amount})
		}
		total = []any{totalLabel, "", "", "", data.Summary.NetProfit}

	case reports.TypeDriverPerformance:
		headers = []string{"Driver", "Trips", "Revenue", "Expenses", "Net Profit", "Avg Revenue/Trip"}
		trips := 0
		for _, d := range data.Drivers {
			trips += d.Trips
			rows = append(rows, []any{d.Name, d.Trips, d.TotalRevenue, d.TotalExpenses, d.NetProfit, d.AvgRevenuePerTrip})
		}
		total = []any{totalLabel, trips, data.Summary.TotalRevenue, data.Summary.TotalExpenses, data.Summary.NetProfit, ""}

	case reports.TypeVehiclePerformance:
		headers = []string{"Vehicle", "Km Driven", "Revenue", "Expenses", "Net Profit"}
		var km float64
		for _, v := range data.Vehicles {
			km += v.KmDriven
			rows = append(rows, []any{v.Name, v.KmDriven, v.TotalRevenue, v.TotalExpenses, v.NetProfit})
		}
		total = []any{totalLabel, km, data.Summary.TotalRevenue, data.Summary.TotalExpenses, data.Summary.NetProfit}

	default:
		return fmt.Errorf("%w: %q", shared.ErrUnsupportedReportType, data.Type)
	}

	return writeWorksheet(w, headers, rows, total)
}

func writeWorksheet(w io.Writer, headers []string, rows [][]any, total []any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E7D32"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: 4,
	})
	if err != nil {
		return err
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return err
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
			if _, isFloat := value.(float64); isFloat {
				if err := f.SetCellStyle(sheetName, cell, cell, numberStyle); err != nil {
					return err
				}
			}
		}
	}

	totalRow := len(rows) + 2
	for col, value := range total {
		cell, err := excelize.CoordinatesToCellName(col+1, totalRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return err
		}
	}
	firstTotal, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	lastTotal, err := excelize.CoordinatesToCellName(len(total), totalRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, firstTotal, lastTotal, totalStyle); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
