package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/shared"
)

type mockRows struct {
	revenues     []dashboard.RevenueRow
	expenses     []dashboard.ExpenseRow
	workLogs     []dashboard.WorkLogRow
	revenueCalls int
	expenseCalls int
	workLogCalls int
}

func (m *mockRows) RevenueRows(ctx context.Context, userID int64, from, to time.Time, f dashboard.Filters) ([]dashboard.RevenueRow, error) {
	m.revenueCalls++
	return m.revenues, nil
}

func (m *mockRows) ExpenseRows(ctx context.Context, userID int64, from, to time.Time, f dashboard.Filters) ([]dashboard.ExpenseRow, error) {
	m.expenseCalls++
	return m.expenses, nil
}

func (m *mockRows) WorkLogRows(ctx context.Context, userID int64, from, to time.Time, f dashboard.Filters) ([]dashboard.WorkLogRow, error) {
	m.workLogCalls++
	return m.workLogs, nil
}

func fp(v float64) *float64 { return &v }

var (
	start = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)
)

func TestFetchExpenseBreakdown(t *testing.T) {
	rows := &mockRows{expenses: []dashboard.ExpenseRow{
		{ID: 1, Amount: 120, Date: start, TypeName: "Fuel"},
		{ID: 2, Amount: 80, Date: end, TypeName: "Maintenance"},
	}}
	svc := NewService(rows)

	data, err := svc.Fetch(context.Background(), 7, TypeExpenseBreakdown, start, end, dashboard.Filters{})
	require.NoError(t, err)

	require.Equal(t, 200.0, data.Summary.TotalExpenses)
	require.Equal(t, 0.0, data.Summary.TotalRevenue)
	require.Equal(t, -200.0, data.Summary.NetProfit)
	require.Equal(t, 0.0, data.Summary.ProfitMargin)
	require.Len(t, data.Expenses, 2)
	require.Equal(t, "Fuel", data.Expenses[0].Category)
	require.Zero(t, rows.revenueCalls)
}

func TestFetchRevenueBreakdownMarginConvention(t *testing.T) {
	rows := &mockRows{revenues: []dashboard.RevenueRow{
		{ID: 1, Amount: 500, Date: start, Platforms: []string{"Uber"}},
	}}
	svc := NewService(rows)

	data, err := svc.Fetch(context.Background(), 7, TypeRevenueBreakdown, start, end, dashboard.Filters{})
	require.NoError(t, err)
	require.Equal(t, 500.0, data.Summary.TotalRevenue)
	require.Equal(t, 100.0, data.Summary.ProfitMargin)
	require.Equal(t, "Uber", data.Revenues[0].Company)
}

func TestFetchRevenueBreakdownZeroRevenueZeroMargin(t *testing.T) {
	svc := NewService(&mockRows{})
	data, err := svc.Fetch(context.Background(), 7, TypeRevenueBreakdown, start, end, dashboard.Filters{})
	require.NoError(t, err)
	require.Equal(t, 0.0, data.Summary.ProfitMargin)
}

func TestFetchMonthlySummaryGuardsMargin(t *testing.T) {
	rows := &mockRows{expenses: []dashboard.ExpenseRow{
		{ID: 1, Amount: 75, Date: start, TypeName: "Fuel"},
	}}
	svc := NewService(rows)

	data, err := svc.Fetch(context.Background(), 7, TypeMonthlySummary, start, end, dashboard.Filters{})
	require.NoError(t, err)
	require.Equal(t, -75.0, data.Summary.NetProfit)
	require.Equal(t, 0.0, data.Summary.ProfitMargin, "zero revenue must not produce NaN")
}

func TestFetchDREMatchesMonthlySummary(t *testing.T) {
	rows := &mockRows{
		revenues: []dashboard.RevenueRow{{ID: 1, Amount: 400, Date: start}},
		expenses: []dashboard.ExpenseRow{{ID: 1, Amount: 100, Date: start, TypeName: "Fuel"}},
	}
	svc := NewService(rows)

	dre, err := svc.Fetch(context.Background(), 7, TypeDRE, start, end, dashboard.Filters{})
	require.NoError(t, err)
	require.Equal(t, 300.0, dre.Summary.NetProfit)
	require.InDelta(t, 75.0, dre.Summary.ProfitMargin, 1e-9)
	require.Equal(t, dre.Summary.NetProfit, dre.Summary.TotalRevenue-dre.Summary.TotalExpenses)
}

func TestFetchDriverPerformance(t *testing.T) {
	rows := &mockRows{
		revenues: []dashboard.RevenueRow{
			{ID: 1, Amount: 100, Date: start, DriverName: "Ana"},
			{ID: 2, Amount: 200, Date: start, DriverName: "Ana"},
			{ID: 3, Amount: 50, Date: start, DriverName: "Bia"},
		},
		expenses: []dashboard.ExpenseRow{
			{ID: 1, Amount: 60, Date: start, TypeName: "Fuel", DriverName: "Ana"},
		},
	}
	svc := NewService(rows)

	data, err := svc.Fetch(context.Background(), 7, TypeDriverPerformance, start, end, dashboard.Filters{})
	require.NoError(t, err)
	require.Len(t, data.Drivers, 2)

	ana := data.Drivers[0]
	require.Equal(t, "Ana", ana.Name)
	require.Equal(t, 2, ana.Trips)
	require.Equal(t, 150.0, ana.AvgRevenuePerTrip)
	require.Equal(t, 240.0, ana.NetProfit)

	bia := data.Drivers[1]
	require.Equal(t, 1, bia.Trips)
	require.Equal(t, 50.0, bia.AvgRevenuePerTrip)
}

func TestFetchDriverPerformanceNoTrips(t *testing.T) {
	rows := &mockRows{expenses: []dashboard.ExpenseRow{
		{ID: 1, Amount: 30, Date: start, TypeName: "Fuel", DriverName: "Ana"},
	}}
	svc := NewService(rows)

	data, err := svc.Fetch(context.Background(), 7, TypeDriverPerformance, start, end, dashboard.Filters{})
	require.NoError(t, err)
	require.Len(t, data.Drivers, 1)
	require.Zero(t, data.Drivers[0].Trips)
	require.Equal(t, 0.0, data.Drivers[0].AvgRevenuePerTrip, "no trips must not divide by zero")
}

func TestFetchVehiclePerformanceSumsRealKilometres(t *testing.T) {
	rows := &mockRows{
		revenues: []dashboard.RevenueRow{
			{ID: 1, Amount: 300, Date: start, VehicleName: "Onix", KmDriven: fp(120)},
			{ID: 2, Amount: 100, Date: start, VehicleName: "Onix"},
		},
		expenses: []dashboard.ExpenseRow{
			{ID: 1, Amount: 90, Date: start, TypeName: "Fuel", VehicleName: "Onix"},
		},
		workLogs: []dashboard.WorkLogRow{
			{ID: 1, Date: start, VehicleName: "Onix", KmDriven: fp(80)},
			{ID: 2, Date: start, VehicleName: "HB20", KmDriven: fp(40)},
		},
	}
	svc := NewService(rows)

	data, err := svc.Fetch(context.Background(), 7, TypeVehiclePerformance, start, end, dashboard.Filters{})
	require.NoError(t, err)
	require.Len(t, data.Vehicles, 2)

	onix := data.Vehicles[0]
	require.Equal(t, "Onix", onix.Name)
	require.Equal(t, 200.0, onix.KmDriven)
	require.Equal(t, 310.0, onix.NetProfit)

	hb20 := data.Vehicles[1]
	require.Equal(t, "HB20", hb20.Name)
	require.Equal(t, 40.0, hb20.KmDriven)
}

func TestFetchRejectsUnknownType(t *testing.T) {
	rows := &mockRows{}
	svc := NewService(rows)

	_, err := svc.Fetch(context.Background(), 7, Type("QUARTERLY"), start, end, dashboard.Filters{})
	require.Error(t, err)
	require.True(t, errors.Is(err, shared.ErrUnsupportedReportType))
	require.Zero(t, rows.revenueCalls)
	require.Zero(t, rows.expenseCalls)
}
