package budget

import "time"

// Budget caps one expense type per calendar month.
type Budget struct {
	ID            int64     `json:"id"`
	ExpenseTypeID int64     `json:"expenseTypeId"`
	ExpenseType   string    `json:"expenseType"`
	MonthlyCap    float64   `json:"monthlyCap"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Utilization pairs a budget with the month-to-date spend against it.
type Utilization struct {
	Budget  Budget  `json:"budget"`
	Spent   float64 `json:"spent"`
	Percent float64 `json:"percent"`
}

// Input is the create/update payload.
type Input struct {
	ExpenseTypeID int64   `json:"expenseTypeId" validate:"required,gt=0"`
	MonthlyCap    float64 `json:"monthlyCap" validate:"required,gt=0"`
}
