package expense

import "time"

// Expense is one cost record. Ownership is transitive through the
// driver or expense-type relations.
type Expense struct {
	ID              int64     `json:"id"`
	Amount          float64   `json:"amount"`
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	DriverID        *int64    `json:"driverId,omitempty"`
	VehicleID       *int64    `json:"vehicleId,omitempty"`
	ExpenseTypeID   *int64    `json:"expenseTypeId,omitempty"`
	PaymentMethodID *int64    `json:"paymentMethodId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted when recording an expense.
type CreateInput struct {
	Amount          float64   `json:"amount" validate:"required,gt=0"`
	Date            time.Time `json:"date" validate:"required"`
	Description     string    `json:"description"`
	DriverID        *int64    `json:"driverId"`
	VehicleID       *int64    `json:"vehicleId"`
	ExpenseTypeID   *int64    `json:"expenseTypeId" validate:"required"`
	PaymentMethodID *int64    `json:"paymentMethodId"`
}

// UpdateInput mirrors CreateInput for full-record updates.
type UpdateInput = CreateInput
