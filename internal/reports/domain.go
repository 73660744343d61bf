package reports

import "time"

// Type identifies a report variant. The set is closed: every dispatcher
// switches over exactly these values and rejects anything else.
type Type string

const (
	TypeExpenseBreakdown Type = "EXPENSE_BREAKDOWN"
	// TypeRevenueBreakdown keeps the historical convention of reporting
	// a 100% profit margin whenever any revenue exists. The asymmetry
	// with TypeExpenseBreakdown (margin always 0) is preserved for
	// compatibility with existing report consumers.
	TypeRevenueBreakdown   Type = "REVENUE_BREAKDOWN"
	TypeMonthlySummary     Type = "MONTHLY_SUMMARY"
	TypeDRE                Type = "DRE"
	TypeDriverPerformance  Type = "DRIVER_PERFORMANCE"
	TypeVehiclePerformance Type = "VEHICLE_PERFORMANCE"
)

// Valid reports whether t belongs to the closed report type set.
func (t Type) Valid() bool {
	switch t {
	case TypeExpenseBreakdown, TypeRevenueBreakdown, TypeMonthlySummary,
		TypeDRE, TypeDriverPerformance, TypeVehiclePerformance:
		return true
	}
	return false
}

// Summary carries the headline totals every report agrees on.
type Summary struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	ProfitMargin  float64 `json:"profitMargin"`
}

// ExpenseItem is one expense line of a breakdown report.
type ExpenseItem struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Driver      string    `json:"driver,omitempty"`
	Vehicle     string    `json:"vehicle,omitempty"`
	Amount      float64   `json:"amount"`
}

// RevenueItem is one revenue line of a breakdown report.
type RevenueItem struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Company     string    `json:"company,omitempty"`
	Driver      string    `json:"driver,omitempty"`
	Vehicle     string    `json:"vehicle,omitempty"`
	Amount      float64   `json:"amount"`
}

// DriverPerformance aggregates one driver's activity over the range.
type DriverPerformance struct {
	Name              string  `json:"name"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalExpenses     float64 `json:"totalExpenses"`
	NetProfit         float64 `json:"netProfit"`
	Trips             int     `json:"trips"`
	AvgRevenuePerTrip float64 `json:"avgRevenuePerTrip"`
}

// VehiclePerformance aggregates one vehicle's activity over the range.
type VehiclePerformance struct {
	Name          string  `json:"name"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	KmDriven      float64 `json:"kmDriven"`
}

// ReportData is the normalized shape every report type and every export
// generator agrees on.
type ReportData struct {
	Type     Type                 `json:"type"`
	Start    time.Time            `json:"start"`
	End      time.Time            `json:"end"`
	Summary  Summary              `json:"summary"`
	Expenses []ExpenseItem        `json:"expenses,omitempty"`
	Revenues []RevenueItem        `json:"revenues,omitempty"`
	Drivers  []DriverPerformance  `json:"drivers,omitempty"`
	Vehicles []VehiclePerformance `json:"vehicles,omitempty"`
}
