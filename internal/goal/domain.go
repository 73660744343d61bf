package goal

import "time"

// Metric is the quantity a goal tracks.
type Metric string

const (
	MetricRevenue Metric = "revenue"
	MetricProfit  Metric = "profit"
	MetricKm      Metric = "km"
	MetricHours   Metric = "hours"
)

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricRevenue, MetricProfit, MetricKm, MetricHours:
		return true
	}
	return false
}

// Goal is a user target over a rolling period, optionally narrowed to
// one driver or vehicle.
type Goal struct {
	ID          int64     `json:"id"`
	Metric      Metric    `json:"metric"`
	TargetValue float64   `json:"targetValue"`
	Period      string    `json:"period"`
	DriverID    *int64    `json:"driverId,omitempty"`
	VehicleID   *int64    `json:"vehicleId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Progress pairs a goal with its measured actual.
type Progress struct {
	Goal    Goal    `json:"goal"`
	Actual  float64 `json:"actual"`
	Percent float64 `json:"percent"`
}

// Input is the create/update payload.
type Input struct {
	Metric      Metric  `json:"metric" validate:"required"`
	TargetValue float64 `json:"targetValue" validate:"required,gt=0"`
	Period      string  `json:"period" validate:"required,oneof=today thisWeek thisMonth last30Days"`
	DriverID    *int64  `json:"driverId"`
	VehicleID   *int64  `json:"vehicleId"`
}
