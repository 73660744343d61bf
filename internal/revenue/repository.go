package revenue

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/ledger"
	"github.com/gigledger/gigledger/internal/shared"
)

// Repository provides PostgreSQL backed persistence for revenues.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a revenue and its platform join rows in one transaction.
func (r *Repository) Create(ctx context.Context, userID int64, input CreateInput) (*Revenue, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rev, err := insertRevenue(ctx, tx, userID, input)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rev, nil
}

// verifyRefs confirms every dimension id on the input belongs to the
// writing user before the row is inserted or rewritten.
func verifyRefs(ctx context.Context, q ledger.Querier, userID int64, input CreateInput) error {
	refs := ledger.RefIf(nil, "drivers", input.DriverID)
	refs = ledger.RefIf(refs, "vehicles", input.VehicleID)
	refs = ledger.RefIf(refs, "payment_methods", input.PaymentMethodID)
	for _, platformID := range input.PlatformIDs {
		refs = append(refs, ledger.Ref{Table: "platforms", ID: platformID})
	}
	return ledger.VerifyRefs(ctx, q, userID, refs...)
}

// CreateTx inserts a revenue inside an already-open transaction so the
// daily-entry flow can pair it atomically with an expense insert.
func CreateTx(ctx context.Context, tx pgx.Tx, userID int64, input CreateInput) (*Revenue, error) {
	return insertRevenue(ctx, tx, userID, input)
}

func insertRevenue(ctx context.Context, tx pgx.Tx, userID int64, input CreateInput) (*Revenue, error) {
	if input.DriverID == nil && len(input.PlatformIDs) == 0 {
		return nil, shared.ErrMissingOwnerRelation
	}
	if err := verifyRefs(ctx, tx, userID, input); err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO revenues (amount, date, description, km_driven, hours_worked,
		                      driver_id, vehicle_id, payment_method_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	rev := Revenue{
		Amount:          input.Amount,
		Date:            input.Date,
		Description:     input.Description,
		KmDriven:        input.KmDriven,
		HoursWorked:     input.HoursWorked,
		DriverID:        input.DriverID,
		VehicleID:       input.VehicleID,
		PaymentMethodID: input.PaymentMethodID,
		PlatformIDs:     input.PlatformIDs,
	}
	err := tx.QueryRow(ctx, query,
		input.Amount, input.Date, input.Description, input.KmDriven, input.HoursWorked,
		input.DriverID, input.VehicleID, input.PaymentMethodID,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, platformID := range input.PlatformIDs {
		if _, err := tx.Exec(ctx,
			"INSERT INTO revenue_platforms (revenue_id, platform_id) VALUES ($1, $2)",
			rev.ID, platformID); err != nil {
			return nil, err
		}
	}
	return &rev, nil
}

// Get fetches one owner-scoped revenue.
func (r *Repository) Get(ctx context.Context, userID, id int64) (*Revenue, error) {
	query := `
		SELECT r.id, r.amount, r.date, COALESCE(r.description, ''), r.km_driven, r.hours_worked,
		       r.driver_id, r.vehicle_id, r.payment_method_id,
		       COALESCE((SELECT array_agg(rp.platform_id ORDER BY rp.platform_id)
		                 FROM revenue_platforms rp WHERE rp.revenue_id = r.id), '{}'),
		       r.created_at, r.updated_at
		FROM revenues r
		WHERE r.id = $2 AND ` + ledger.RevenueOwnerClause("r", 1)

	var rev Revenue
	err := r.pool.QueryRow(ctx, query, userID, id).Scan(
		&rev.ID, &rev.Amount, &rev.Date, &rev.Description, &rev.KmDriven, &rev.HoursWorked,
		&rev.DriverID, &rev.VehicleID, &rev.PaymentMethodID, &rev.PlatformIDs,
		&rev.CreatedAt, &rev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// Count returns how many revenues the user owns.
func (r *Repository) Count(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM revenues r WHERE ` + ledger.RevenueOwnerClause("r", 1)
	var total int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&total)
	return total, err
}

// List returns a page of the user's revenues, newest first.
func (r *Repository) List(ctx context.Context, userID int64, limit, offset int) ([]Revenue, error) {
	query := `
		SELECT r.id, r.amount, r.date, COALESCE(r.description, ''), r.km_driven, r.hours_worked,
		       r.driver_id, r.vehicle_id, r.payment_method_id,
		       COALESCE((SELECT array_agg(rp.platform_id ORDER BY rp.platform_id)
		                 FROM revenue_platforms rp WHERE rp.revenue_id = r.id), '{}'),
		       r.created_at, r.updated_at
		FROM revenues r
		WHERE ` + ledger.RevenueOwnerClause("r", 1) + `
		ORDER BY r.date DESC, r.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenues := make([]Revenue, 0)
	for rows.Next() {
		var rev Revenue
		if err := rows.Scan(
			&rev.ID, &rev.Amount, &rev.Date, &rev.Description, &rev.KmDriven, &rev.HoursWorked,
			&rev.DriverID, &rev.VehicleID, &rev.PaymentMethodID, &rev.PlatformIDs,
			&rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		revenues = append(revenues, rev)
	}
	return revenues, rows.Err()
}

// Update rewrites an owner-scoped revenue and its platform joins.
func (r *Repository) Update(ctx context.Context, userID, id int64, input UpdateInput) (*Revenue, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if input.DriverID == nil && len(input.PlatformIDs) == 0 {
		return nil, shared.ErrMissingOwnerRelation
	}
	if err := verifyRefs(ctx, tx, userID, input); err != nil {
		return nil, err
	}

	query := `
		UPDATE revenues r
		SET amount = $3, date = $4, description = $5, km_driven = $6, hours_worked = $7,
		    driver_id = $8, vehicle_id = $9, payment_method_id = $10, updated_at = NOW()
		WHERE r.id = $2 AND ` + ledger.RevenueOwnerClause("r", 1) + `
		RETURNING r.id, r.created_at, r.updated_at`

	rev := Revenue{
		Amount:          input.Amount,
		Date:            input.Date,
		Description:     input.Description,
		KmDriven:        input.KmDriven,
		HoursWorked:     input.HoursWorked,
		DriverID:        input.DriverID,
		VehicleID:       input.VehicleID,
		PaymentMethodID: input.PaymentMethodID,
		PlatformIDs:     input.PlatformIDs,
	}
	err = tx.QueryRow(ctx, query, userID, id,
		input.Amount, input.Date, input.Description, input.KmDriven, input.HoursWorked,
		input.DriverID, input.VehicleID, input.PaymentMethodID,
	).Scan(&rev.ID, &rev.CreatedAt, &rev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM revenue_platforms WHERE revenue_id = $1", id); err != nil {
		return nil, err
	}
	for _, platformID := range input.PlatformIDs {
		if _, err := tx.Exec(ctx,
			"INSERT INTO revenue_platforms (revenue_id, platform_id) VALUES ($1, $2)",
			id, platformID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &rev, nil
}

// Delete removes an owner-scoped revenue.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM revenues r WHERE r.id = $2 AND "+ledger.RevenueOwnerClause("r", 1),
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
