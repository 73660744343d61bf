package dashboard

import (
	"fmt"
	"sort"
)

const topGroups = 5

// Aggregate reduces the fetched rows into the dashboard payload. It
// never mutates its inputs and is deterministic for identical rows.
func Aggregate(revenues []RevenueRow, expenses []ExpenseRow, workLogs []WorkLogRow) Result {
	return Result{
		KPIs:         computeKPIs(revenues, expenses, workLogs),
		Breakdowns:   computeBreakdowns(revenues, expenses),
		ChartData:    computeChartData(revenues, expenses),
		Transactions: computeTransactions(revenues, expenses),
	}
}

func computeKPIs(revenues []RevenueRow, expenses []ExpenseRow, workLogs []WorkLogRow) KPISet {
	var kpis KPISet
	for _, r := range revenues {
		kpis.TotalRevenue += r.Amount
		if r.KmDriven != nil {
			kpis.TotalKm += *r.KmDriven
		}
		if r.HoursWorked != nil {
			kpis.TotalHours += *r.HoursWorked
		}
	}
	for _, e := range expenses {
		kpis.TotalExpenses += e.Amount
	}
	for _, w := range workLogs {
		if w.KmDriven != nil {
			kpis.TotalKm += *w.KmDriven
		}
		if w.HoursWorked != nil {
			kpis.TotalHours += *w.HoursWorked
		}
	}
	kpis.NetProfit = kpis.TotalRevenue - kpis.TotalExpenses
	return kpis
}

func computeBreakdowns(revenues []RevenueRow, expenses []ExpenseRow) Breakdowns {
	byCompany := map[string]float64{}
	byType := map[string]float64{}
	netByDriver := map[string]float64{}
	netByVehicle := map[string]float64{}

	var totalRevenue, totalExpenses float64
	for _, r := range revenues {
		totalRevenue += r.Amount
		byCompany[companyOf(r)] += r.Amount
		if r.DriverName != "" {
			netByDriver[r.DriverName] += r.Amount
		}
		if r.VehicleName != "" {
			netByVehicle[r.VehicleName] += r.Amount
		}
	}
	for _, e := range expenses {
		totalExpenses += e.Amount
		byType[e.TypeName] += e.Amount
		if e.DriverName != "" {
			netByDriver[e.DriverName] -= e.Amount
		}
		if e.VehicleName != "" {
			netByVehicle[e.VehicleName] -= e.Amount
		}
	}

	return Breakdowns{
		RevenueByCompany: topFive(byCompany, totalRevenue),
		ExpensesByType:   topFive(byType, totalExpenses),
		NetByDriver:      topFive(netByDriver, sumValues(netByDriver)),
		NetByVehicle:     topFive(netByVehicle, sumValues(netByVehicle)),
	}
}

// companyOf attributes a revenue to its first platform; the repository
// orders platform names, so attribution is stable across calls.
func companyOf(r RevenueRow) string {
	if len(r.Platforms) == 0 || r.Platforms[0] == "" {
		return NoCompanyBucket
	}
	return r.Platforms[0]
}

func sumValues(groups map[string]float64) float64 {
	var total float64
	for _, v := range groups {
		total += v
	}
	return total
}

// topFive ranks groups by value and keeps the five largest. The
// percentage denominator of zero yields 0, never NaN or Inf.
func topFive(groups map[string]float64, grandTotal float64) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(groups))
	for name, value := range groups {
		pct := 0.0
		if grandTotal != 0 {
			pct = value / grandTotal * 100
		}
		entries = append(entries, BreakdownEntry{Name: name, Value: value, Percentage: pct})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return entries[i].Name < entries[j].Name
	})
	if len(entries) > topGroups {
		entries = entries[:topGroups]
	}
	return entries
}

func computeTransactions(revenues []RevenueRow, expenses []ExpenseRow) []Transaction {
	feed := make([]Transaction, 0, len(revenues)+len(expenses))
	for _, r := range revenues {
		company := ""
		if len(r.Platforms) > 0 {
			company = r.Platforms[0]
		}
		feed = append(feed, Transaction{
			ID:          fmt.Sprintf("revenue-%d", r.ID),
			Description: r.Description,
			Category:    companyOf(r),
			Amount:      r.Amount,
			Type:        "revenue",
			Date:        r.Date,
			Driver:      r.DriverName,
			Vehicle:     r.VehicleName,
			Company:     company,
		})
	}
	for _, e := range expenses {
		feed = append(feed, Transaction{
			ID:          fmt.Sprintf("expense-%d", e.ID),
			Description: e.Description,
			Category:    e.TypeName,
			Amount:      e.Amount,
			Type:        "expense",
			Date:        e.Date,
			Driver:      e.DriverName,
			Vehicle:     e.VehicleName,
		})
	}
	sort.Slice(feed, func(i, j int) bool {
		if !feed[i].Date.Equal(feed[j].Date) {
			return feed[i].Date.After(feed[j].Date)
		}
		return feed[i].ID < feed[j].ID
	})
	return feed
}

func computeChartData(revenues []RevenueRow, expenses []ExpenseRow) []ChartPoint {
	days := map[string]*ChartPoint{}
	point := func(day string) *ChartPoint {
		p, ok := days[day]
		if !ok {
			p = &ChartPoint{Date: day}
			days[day] = p
		}
		return p
	}
	for _, r := range revenues {
		point(r.Date.Format("2006-01-02")).Revenue += r.Amount
	}
	for _, e := range expenses {
		point(e.Date.Format("2006-01-02")).Expenses += e.Amount
	}
	series := make([]ChartPoint, 0, len(days))
	for _, p := range days {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}
