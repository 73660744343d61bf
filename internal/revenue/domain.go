package revenue

import "time"

// Revenue is one earning record. Ownership is transitive through the
// driver or platform relations; there is no user_id column.
type Revenue struct {
	ID              int64     `json:"id"`
	Amount          float64   `json:"amount"`
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	KmDriven        *float64  `json:"kmDriven,omitempty"`
	HoursWorked     *float64  `json:"hoursWorked,omitempty"`
	DriverID        *int64    `json:"driverId,omitempty"`
	VehicleID       *int64    `json:"vehicleId,omitempty"`
	PaymentMethodID *int64    `json:"paymentMethodId,omitempty"`
	PlatformIDs     []int64   `json:"platformIds"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted when recording a revenue.
type CreateInput struct {
	Amount          float64   `json:"amount" validate:"required,gt=0"`
	Date            time.Time `json:"date" validate:"required"`
	Description     string    `json:"description"`
	KmDriven        *float64  `json:"kmDriven" validate:"omitempty,gte=0"`
	HoursWorked     *float64  `json:"hoursWorked" validate:"omitempty,gte=0"`
	DriverID        *int64    `json:"driverId"`
	VehicleID       *int64    `json:"vehicleId"`
	PaymentMethodID *int64    `json:"paymentMethodId"`
	PlatformIDs     []int64   `json:"platformIds"`
}

// UpdateInput mirrors CreateInput for full-record updates.
type UpdateInput = CreateInput
