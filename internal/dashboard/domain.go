package dashboard

import (
	"time"

	"github.com/gigledger/gigledger/internal/period"
)

// NoCompanyBucket labels revenue rows carrying no platform relation in
// the company breakdown.
const NoCompanyBucket = "no company"

// Filters narrows the dashboard aggregation scope. Nil dimension
// pointers mean "all".
type Filters struct {
	Period    period.Token
	DriverID  *int64
	VehicleID *int64
	CompanyID *int64
}

// RevenueRow is a revenue record with its dimension names resolved.
type RevenueRow struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	KmDriven    *float64  `json:"kmDriven,omitempty"`
	HoursWorked *float64  `json:"hoursWorked,omitempty"`
	DriverName  string    `json:"driverName,omitempty"`
	VehicleName string    `json:"vehicleName,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
}

// ExpenseRow is an expense record with its dimension names resolved.
type ExpenseRow struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	TypeName    string    `json:"typeName"`
	DriverName  string    `json:"driverName,omitempty"`
	VehicleName string    `json:"vehicleName,omitempty"`
}

// WorkLogRow contributes km/hours totals without touching money KPIs.
type WorkLogRow struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	KmDriven    *float64  `json:"kmDriven,omitempty"`
	HoursWorked *float64  `json:"hoursWorked,omitempty"`
	DriverName  string    `json:"driverName,omitempty"`
	VehicleName string    `json:"vehicleName,omitempty"`
}

// KPISet carries the scalar dashboard indicators.
type KPISet struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	TotalKm       float64 `json:"totalKm"`
	TotalHours    float64 `json:"totalHours"`
}

// BreakdownEntry is one group in a top-5 breakdown list.
type BreakdownEntry struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Breakdowns groups the four dashboard breakdown lists.
type Breakdowns struct {
	RevenueByCompany []BreakdownEntry `json:"revenueByCompany"`
	ExpensesByType   []BreakdownEntry `json:"expensesByType"`
	NetByDriver      []BreakdownEntry `json:"netByDriver"`
	NetByVehicle     []BreakdownEntry `json:"netByVehicle"`
}

// Transaction is one entry of the unified revenue/expense feed.
type Transaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Driver      string    `json:"driver,omitempty"`
	Vehicle     string    `json:"vehicle,omitempty"`
	Company     string    `json:"company,omitempty"`
}

// ChartPoint is one day of the revenue/expense series.
type ChartPoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// Result is the full dashboard payload.
type Result struct {
	KPIs         KPISet        `json:"kpis"`
	Breakdowns   Breakdowns    `json:"breakdowns"`
	ChartData    []ChartPoint  `json:"chartData"`
	Transactions []Transaction `json:"transactions"`
}
