// Package dailyentry implements the end-of-shift quick form: one call
// records the day's earnings and, optionally, the day's cost in a
// single transaction so a partial write can never survive.
package dailyentry

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/cache"
	"github.com/gigledger/gigledger/internal/expense"
	"github.com/gigledger/gigledger/internal/revenue"
	"github.com/gigledger/gigledger/internal/shared"
)

// Input is the combined daily form.
type Input struct {
	Date            time.Time `json:"date" validate:"required"`
	RevenueAmount   float64   `json:"revenueAmount" validate:"required,gt=0"`
	ExpenseAmount   *float64  `json:"expenseAmount" validate:"omitempty,gt=0"`
	ExpenseTypeID   *int64    `json:"expenseTypeId" validate:"required_with=ExpenseAmount"`
	KmDriven        *float64  `json:"kmDriven" validate:"omitempty,gte=0"`
	HoursWorked     *float64  `json:"hoursWorked" validate:"omitempty,gte=0"`
	DriverID        *int64    `json:"driverId"`
	VehicleID       *int64    `json:"vehicleId"`
	PaymentMethodID *int64    `json:"paymentMethodId"`
	PlatformIDs     []int64   `json:"platformIds"`
	Description     string    `json:"description"`
}

// Result returns both created records.
type Result struct {
	Revenue *revenue.Revenue `json:"revenue"`
	Expense *expense.Expense `json:"expense,omitempty"`
}

// Service writes the daily entry atomically.
type Service struct {
	pool  *pgxpool.Pool
	cache *cache.TagCache
}

// NewService constructs the daily entry service.
func NewService(pool *pgxpool.Pool, tagCache *cache.TagCache) *Service {
	return &Service{pool: pool, cache: tagCache}
}

// Create inserts the revenue and the optional expense in one
// transaction, then evicts every touched cache tag. An entry naming no
// driver or platform would be invisible to every owner-scoped read, so
// it is rejected up front.
func (s *Service) Create(ctx context.Context, userID int64, input Input) (*Result, error) {
	if input.DriverID == nil && len(input.PlatformIDs) == 0 {
		return nil, shared.ErrMissingOwnerRelation
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rev, err := revenue.CreateTx(ctx, tx, userID, revenue.CreateInput{
		Amount:          input.RevenueAmount,
		Date:            input.Date,
		Description:     input.Description,
		KmDriven:        input.KmDriven,
		HoursWorked:     input.HoursWorked,
		DriverID:        input.DriverID,
		VehicleID:       input.VehicleID,
		PaymentMethodID: input.PaymentMethodID,
		PlatformIDs:     input.PlatformIDs,
	})
	if err != nil {
		return nil, err
	}

	result := Result{Revenue: rev}
	if input.ExpenseAmount != nil {
		exp, err := expense.CreateTx(ctx, tx, userID, expense.CreateInput{
			Amount:          *input.ExpenseAmount,
			Date:            input.Date,
			Description:     input.Description,
			DriverID:        input.DriverID,
			VehicleID:       input.VehicleID,
			ExpenseTypeID:   input.ExpenseTypeID,
			PaymentMethodID: input.PaymentMethodID,
		})
		if err != nil {
			return nil, err
		}
		result.Expense = exp
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, cache.TagRevenues, cache.TagExpenses, cache.TagDashboard)
	return &result, nil
}
