package budget

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/shared"
)

// Repository persists budgets and measures spend against them.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a budget. The expense type must belong to the user.
func (r *Repository) Create(ctx context.Context, userID int64, input Input) (*Budget, error) {
	const query = `
		INSERT INTO budgets (user_id, expense_type_id, monthly_cap, created_at, updated_at)
		SELECT $1, et.id, $3, NOW(), NOW()
		FROM expense_types et WHERE et.id = $2 AND et.user_id = $1
		RETURNING id, expense_type_id, monthly_cap, created_at, updated_at`

	var b Budget
	err := r.pool.QueryRow(ctx, query, userID, input.ExpenseTypeID, input.MonthlyCap).Scan(
		&b.ID, &b.ExpenseTypeID, &b.MonthlyCap, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns the user's budgets with their expense type names.
func (r *Repository) List(ctx context.Context, userID int64) ([]Budget, error) {
	const query = `
		SELECT b.id, b.expense_type_id, et.name, b.monthly_cap, b.created_at, b.updated_at
		FROM budgets b
		JOIN expense_types et ON et.id = b.expense_type_id
		WHERE b.user_id = $1
		ORDER BY et.name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]Budget, 0)
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.ExpenseTypeID, &b.ExpenseType,
			&b.MonthlyCap, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// Update rewrites an owner-scoped budget cap.
func (r *Repository) Update(ctx context.Context, userID, id int64, input Input) (*Budget, error) {
	const query = `
		UPDATE budgets SET monthly_cap = $3, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
		RETURNING id, expense_type_id, monthly_cap, created_at, updated_at`

	var b Budget
	err := r.pool.QueryRow(ctx, query, userID, id, input.MonthlyCap).Scan(
		&b.ID, &b.ExpenseTypeID, &b.MonthlyCap, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes an owner-scoped budget.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM budgets WHERE id = $2 AND user_id = $1", userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SpentBetween sums the user's expenses of one type inside a window.
func (r *Repository) SpentBetween(ctx context.Context, userID, expenseTypeID int64, from, to time.Time) (float64, error) {
	const query = `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM expenses e
		JOIN expense_types et ON et.id = e.expense_type_id
		WHERE et.user_id = $1 AND e.expense_type_id = $2 AND e.date >= $3 AND e.date <= $4`

	var spent float64
	if err := r.pool.QueryRow(ctx, query, userID, expenseTypeID, from, to).Scan(&spent); err != nil {
		return 0, err
	}
	return spent, nil
}
