package worklog

import "time"

// WorkLog records a shift: distance and time behind the wheel without
// any monetary amount. Ownership is transitive through the driver or
// vehicle relations.
type WorkLog struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	KmDriven    float64   `json:"kmDriven"`
	HoursWorked float64   `json:"hoursWorked"`
	DriverID    *int64    `json:"driverId,omitempty"`
	VehicleID   *int64    `json:"vehicleId,omitempty"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted when recording a work log.
type CreateInput struct {
	Date        time.Time `json:"date" validate:"required"`
	KmDriven    float64   `json:"kmDriven" validate:"gte=0"`
	HoursWorked float64   `json:"hoursWorked" validate:"gte=0"`
	DriverID    *int64    `json:"driverId"`
	VehicleID   *int64    `json:"vehicleId"`
	Notes       string    `json:"notes"`
}

// UpdateInput mirrors CreateInput for full-record updates.
type UpdateInput = CreateInput
