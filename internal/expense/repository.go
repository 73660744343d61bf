package expense

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/ledger"
	"github.com/gigledger/gigledger/internal/shared"
)

const columns = `e.id, e.amount, e.date, COALESCE(e.description, ''), e.driver_id, e.vehicle_id,
	e.expense_type_id, e.payment_method_id, e.created_at, e.updated_at`

// Repository provides PostgreSQL backed persistence for expenses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an expense.
func (r *Repository) Create(ctx context.Context, userID int64, input CreateInput) (*Expense, error) {
	return insertExpense(ctx, r.pool, userID, input)
}

// CreateTx inserts an expense inside an already-open transaction so the
// daily-entry flow can pair it atomically with a revenue insert.
func CreateTx(ctx context.Context, tx pgx.Tx, userID int64, input CreateInput) (*Expense, error) {
	return insertExpense(ctx, tx, userID, input)
}

// verifyRefs confirms every dimension id on the input belongs to the
// writing user before the row is inserted or rewritten.
func verifyRefs(ctx context.Context, q ledger.Querier, userID int64, input CreateInput) error {
	refs := ledger.RefIf(nil, "drivers", input.DriverID)
	refs = ledger.RefIf(refs, "vehicles", input.VehicleID)
	refs = ledger.RefIf(refs, "expense_types", input.ExpenseTypeID)
	refs = ledger.RefIf(refs, "payment_methods", input.PaymentMethodID)
	return ledger.VerifyRefs(ctx, q, userID, refs...)
}

func insertExpense(ctx context.Context, q ledger.Querier, userID int64, input CreateInput) (*Expense, error) {
	if input.ExpenseTypeID == nil && input.DriverID == nil {
		return nil, shared.ErrMissingOwnerRelation
	}
	if err := verifyRefs(ctx, q, userID, input); err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO expenses (amount, date, description, driver_id, vehicle_id,
		                      expense_type_id, payment_method_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	exp := Expense{
		Amount:          input.Amount,
		Date:            input.Date,
		Description:     input.Description,
		DriverID:        input.DriverID,
		VehicleID:       input.VehicleID,
		ExpenseTypeID:   input.ExpenseTypeID,
		PaymentMethodID: input.PaymentMethodID,
	}
	err := q.QueryRow(ctx, query,
		input.Amount, input.Date, input.Description, input.DriverID, input.VehicleID,
		input.ExpenseTypeID, input.PaymentMethodID,
	).Scan(&exp.ID, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// Get fetches one owner-scoped expense.
func (r *Repository) Get(ctx context.Context, userID, id int64) (*Expense, error) {
	query := `SELECT ` + columns + ` FROM expenses e
		WHERE e.id = $2 AND ` + ledger.ExpenseOwnerClause("e", 1)

	var exp Expense
	err := r.pool.QueryRow(ctx, query, userID, id).Scan(
		&exp.ID, &exp.Amount, &exp.Date, &exp.Description, &exp.DriverID, &exp.VehicleID,
		&exp.ExpenseTypeID, &exp.PaymentMethodID, &exp.CreatedAt, &exp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// Count returns how many expenses the user owns.
func (r *Repository) Count(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM expenses e WHERE ` + ledger.ExpenseOwnerClause("e", 1)
	var total int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&total)
	return total, err
}

// List returns a page of the user's expenses, newest first.
func (r *Repository) List(ctx context.Context, userID int64, limit, offset int) ([]Expense, error) {
	query := `SELECT ` + columns + ` FROM expenses e
		WHERE ` + ledger.ExpenseOwnerClause("e", 1) + `
		ORDER BY e.date DESC, e.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]Expense, 0)
	for rows.Next() {
		var exp Expense
		if err := rows.Scan(
			&exp.ID, &exp.Amount, &exp.Date, &exp.Description, &exp.DriverID, &exp.VehicleID,
			&exp.ExpenseTypeID, &exp.PaymentMethodID, &exp.CreatedAt, &exp.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

// Update rewrites an owner-scoped expense.
func (r *Repository) Update(ctx context.Context, userID, id int64, input UpdateInput) (*Expense, error) {
	if err := verifyRefs(ctx, r.pool, userID, input); err != nil {
		return nil, err
	}

	query := `
		UPDATE expenses e
		SET amount = $3, date = $4, description = $5, driver_id = $6, vehicle_id = $7,
		    expense_type_id = $8, payment_method_id = $9, updated_at = NOW()
		WHERE e.id = $2 AND ` + ledger.ExpenseOwnerClause("e", 1) + `
		RETURNING e.id, e.created_at, e.updated_at`

	exp := Expense{
		Amount:          input.Amount,
		Date:            input.Date,
		Description:     input.Description,
		DriverID:        input.DriverID,
		VehicleID:       input.VehicleID,
		ExpenseTypeID:   input.ExpenseTypeID,
		PaymentMethodID: input.PaymentMethodID,
	}
	err := r.pool.QueryRow(ctx, query, userID, id,
		input.Amount, input.Date, input.Description, input.DriverID, input.VehicleID,
		input.ExpenseTypeID, input.PaymentMethodID,
	).Scan(&exp.ID, &exp.CreatedAt, &exp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

// Delete removes an owner-scoped expense.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM expenses e WHERE e.id = $2 AND "+ledger.ExpenseOwnerClause("e", 1),
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
