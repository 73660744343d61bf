package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/shared"
)

// Service resolves report data for a report type over a date range.
// Fetching goes through the same owner-scoped row queries the dashboard
// uses, so report totals and dashboard KPIs can never drift apart.
type Service struct {
	rows dashboard.RowFetcher
}

// NewService constructs the report service.
func NewService(rows dashboard.RowFetcher) *Service {
	return &Service{rows: rows}
}

// Fetch dispatches on the report type and reduces the fetched rows into
// the normalized ReportData shape. Unknown types are rejected before
// any fetch happens.
func (s *Service) Fetch(ctx context.Context, userID int64, t Type, start, end time.Time, f dashboard.Filters) (ReportData, error) {
	data := ReportData{Type: t, Start: start, End: end}

	switch t {
	case TypeExpenseBreakdown:
		expenses, err := s.rows.ExpenseRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		data.Expenses = expenseItems(expenses)
		total := sumExpenses(expenses)
		data.Summary = Summary{TotalExpenses: total, NetProfit: -total}

	case TypeRevenueBreakdown:
		revenues, err := s.rows.RevenueRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		data.Revenues = revenueItems(revenues)
		total := sumRevenues(revenues)
		margin := 0.0
		if total > 0 {
			margin = 100
		}
		data.Summary = Summary{TotalRevenue: total, NetProfit: total, ProfitMargin: margin}

	case TypeMonthlySummary, TypeDRE:
		revenues, err := s.rows.RevenueRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		expenses, err := s.rows.ExpenseRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		data.Revenues = revenueItems(revenues)
		data.Expenses = expenseItems(expenses)
		totalRevenue := sumRevenues(revenues)
		totalExpenses := sumExpenses(expenses)
		net := totalRevenue - totalExpenses
		margin := 0.0
		if totalRevenue != 0 {
			margin = net / totalRevenue * 100
		}
		data.Summary = Summary{
			TotalRevenue:  totalRevenue,
			TotalExpenses: totalExpenses,
			NetProfit:     net,
			ProfitMargin:  margin,
		}

	case TypeDriverPerformance:
		revenues, err := s.rows.RevenueRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		expenses, err := s.rows.ExpenseRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		data.Drivers = driverPerformance(revenues, expenses)
		data.Summary = performanceSummary(sumRevenues(revenues), sumExpenses(expenses))

	case TypeVehiclePerformance:
		revenues, err := s.rows.RevenueRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		expenses, err := s.rows.ExpenseRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		workLogs, err := s.rows.WorkLogRows(ctx, userID, start, end, f)
		if err != nil {
			return ReportData{}, err
		}
		data.Vehicles = vehiclePerformance(revenues, expenses, workLogs)
		data.Summary = performanceSummary(sumRevenues(revenues), sumExpenses(expenses))

	default:
		return ReportData{}, fmt.Errorf("%w: %q", shared.ErrUnsupportedReportType, t)
	}

	return data, nil
}

func sumRevenues(rows []dashboard.RevenueRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.Amount
	}
	return total
}

func sumExpenses(rows []dashboard.ExpenseRow) float64 {
	var total float64
	for _, e := range rows {
		total += e.Amount
	}
	return total
}

func performanceSummary(totalRevenue, totalExpenses float64) Summary {
	net := totalRevenue - totalExpenses
	margin := 0.0
	if totalRevenue != 0 {
		margin = net / totalRevenue * 100
	}
	return Summary{
		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetProfit:     net,
		ProfitMargin:  margin,
	}
}

func expenseItems(rows []dashboard.ExpenseRow) []ExpenseItem {
	items := make([]ExpenseItem, 0, len(rows))
	for _, e := range rows {
		items = append(items, ExpenseItem{
			Date:        e.Date,
			Description: e.Description,
			Category:    e.TypeName,
			Driver:      e.DriverName,
			Vehicle:     e.VehicleName,
			Amount:      e.Amount,
		})
	}
	return items
}

func revenueItems(rows []dashboard.RevenueRow) []RevenueItem {
	items := make([]RevenueItem, 0, len(rows))
	for _, r := range rows {
		company := ""
		if len(r.Platforms) > 0 {
			company = r.Platforms[0]
		}
		items = append(items, RevenueItem{
			Date:        r.Date,
			Description: r.Description,
			Company:     company,
			Driver:      r.DriverName,
			Vehicle:     r.VehicleName,
			Amount:      r.Amount,
		})
	}
	return items
}

func driverPerformance(revenues []dashboard.RevenueRow, expenses []dashboard.ExpenseRow) []DriverPerformance {
	perDriver := map[string]*DriverPerformance{}
	get := func(name string) *DriverPerformance {
		p, ok := perDriver[name]
		if !ok {
			p = &DriverPerformance{Name: name}
			perDriver[name] = p
		}
		return p
	}
	for _, r := range revenues {
		if r.DriverName == "" {
			continue
		}
		p := get(r.DriverName)
		p.TotalRevenue += r.Amount
		p.Trips++
	}
	for _, e := range expenses {
		if e.DriverName == "" {
			continue
		}
		get(e.DriverName).TotalExpenses += e.Amount
	}
	out := make([]DriverPerformance, 0, len(perDriver))
	for _, p := range perDriver {
		p.NetProfit = p.TotalRevenue - p.TotalExpenses
		if p.Trips > 0 {
			p.AvgRevenuePerTrip = p.TotalRevenue / float64(p.Trips)
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetProfit != out[j].NetProfit {
			return out[i].NetProfit > out[j].NetProfit
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func vehiclePerformance(revenues []dashboard.RevenueRow, expenses []dashboard.ExpenseRow, workLogs []dashboard.WorkLogRow) []VehiclePerformance {
	perVehicle := map[string]*VehiclePerformance{}
	get := func(name string) *VehiclePerformance {
		p, ok := perVehicle[name]
		if !ok {
			p = &VehiclePerformance{Name: name}
			perVehicle[name] = p
		}
		return p
	}
	for _, r := range revenues {
		if r.VehicleName == "" {
			continue
		}
		p := get(r.VehicleName)
		p.TotalRevenue += r.Amount
		if r.KmDriven != nil {
			p.KmDriven += *r.KmDriven
		}
	}
	for _, e := range expenses {
		if e.VehicleName == "" {
			continue
		}
		get(e.VehicleName).TotalExpenses += e.Amount
	}
	for _, w := range workLogs {
		if w.VehicleName == "" || w.KmDriven == nil {
			continue
		}
		get(w.VehicleName).KmDriven += *w.KmDriven
	}
	out := make([]VehiclePerformance, 0, len(perVehicle))
	for _, p := range perVehicle {
		p.NetProfit = p.TotalRevenue - p.TotalExpenses
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetProfit != out[j].NetProfit {
			return out[i].NetProfit > out[j].NetProfit
		}
		return out[i].Name < out[j].Name
	})
	return out
}
