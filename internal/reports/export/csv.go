package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gigledger/gigledger/internal/reports"
	"github.com/gigledger/gigledger/internal/shared"
)

// WriteReportCSV serialises a report as a flat delimited table with a
// trailing TOTAL row. The trailing totals always equal the summary
// totals computed by the report pipeline.
func WriteReportCSV(w io.Writer, data reports.ReportData) error {
	switch data.Type {
	case reports.TypeExpenseBreakdown:
		return writeExpenseCSV(w, data)
	case reports.TypeRevenueBreakdown:
		return writeRevenueCSV(w, data)
	case reports.TypeMonthlySummary, reports.TypeDRE:
		return writeSummaryCSV(w, data)
	case reports.TypeDriverPerformance:
		return writeDriverCSV(w, data)
	case reports.TypeVehiclePerformance:
		return writeVehicleCSV(w, data)
	default:
		return fmt.Errorf("%w: %q", shared.ErrUnsupportedReportType, data.Type)
	}
}

func writeExpenseCSV(w io.Writer, data reports.ReportData) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "Description", "Category", "Driver", "Vehicle", "Amount"}); err != nil {
		return err
	}
	for _, item := range data.Expenses {
		record := []string{
			item.Date.Format(dateLayout),
			item.Description,
			item.Category,
			item.Driver,
			item.Vehicle,
			formatFloat(item.Amount),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{totalLabel, "", "", "", "", formatFloat(data.Summary.TotalExpenses)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeRevenueCSV(w io.Writer, data reports.ReportData) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "Description", "Company", "Driver", "Vehicle", "Amount"}); err != nil {
		return err
	}
	for _, item := range data.Revenues {
		record := []string{
			item.Date.Format(dateLayout),
			item.Description,
			item.Company,
			item.Driver,
			item.Vehicle,
			formatFloat(item.Amount),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{totalLabel, "", "", "", "", formatFloat(data.Summary.TotalRevenue)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeSummaryCSV(w io.Writer, data reports.ReportData) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	records := [][]string{
		{"Metric", "Value"},
		{"Total Revenue", formatFloat(data.Summary.TotalRevenue)},
		{"Total Expenses", formatFloat(data.Summary.TotalExpenses)},
		{"Net Profit", formatFloat(data.Summary.NetProfit)},
		{"Profit Margin", formatPercent(data.Summary.ProfitMargin)},
		{},
		{"Type", "Date", "Description", "Category", "Amount"},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	for _, item := range data.Revenues {
		if err := writer.Write([]string{"revenue", item.Date.Format(dateLayout), item.Description, item.Company, formatFloat(item.Amount)}); err != nil {
			return err
		}
	}
	for _, item := range data.Expenses {
		if err := writer.Write([]string{"expense", item.Date.Format(dateLayout), item.Description, item.Category, formatFloat(item.Amount)}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{totalLabel, "", "", "", formatFloat(data.Summary.NetProfit)}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeDriverCSV(w io.Writer, data reports.ReportData) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Driver", "Trips", "Revenue", "Expenses", "Net Profit", "Avg Revenue/Trip"}); err != nil {
		return err
	}
	trips := 0
	for _, d := range data.Drivers {
		trips += d.Trips
		record := []string{
			d.Name,
			strconv.Itoa(d.Trips),
			formatFloat(d.TotalRevenue),
			formatFloat(d.TotalExpenses),
			formatFloat(d.NetProfit),
			formatFloat(d.AvgRevenuePerTrip),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	total := []string{
		totalLabel,
		strconv.Itoa(trips),
		formatFloat(data.Summary.TotalRevenue),
		formatFloat(data.Summary.TotalExpenses),
		formatFloat(data.Summary.NetProfit),
		"",
	}
	if err := writer.Write(total); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeVehicleCSV(w io.Writer, data reports.ReportData) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Vehicle", "Km Driven", "Revenue", "Expenses", "Net Profit"}); err != nil {
		return err
	}
	var km float64
	for _, v := range data.Vehicles {
		km += v.KmDriven
		record := []string{
			v.Name,
			formatFloat(v.KmDriven),
			formatFloat(v.TotalRevenue),
			formatFloat(v.TotalExpenses),
			formatFloat(v.NetProfit),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	total := []string{
		totalLabel,
		formatFloat(km),
		formatFloat(data.Summary.TotalRevenue),
		formatFloat(data.Summary.TotalExpenses),
		formatFloat(data.Summary.NetProfit),
	}
	if err := writer.Write(total); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
