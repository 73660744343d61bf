package goal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/shared"
)

const columns = "id, metric, target_value, period, driver_id, vehicle_id, created_at, updated_at"

// Repository persists goals. Goals carry user_id directly since they
// are not ledger records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a goal for the user.
func (r *Repository) Create(ctx context.Context, userID int64, input Input) (*Goal, error) {
	const query = `
		INSERT INTO goals (user_id, metric, target_value, period, driver_id, vehicle_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + columns

	return r.scanOne(r.pool.QueryRow(ctx, query,
		userID, input.Metric, input.TargetValue, input.Period, input.DriverID, input.VehicleID))
}

// List returns the user's goals, newest first.
func (r *Repository) List(ctx context.Context, userID int64) ([]Goal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+columns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]Goal, 0)
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Metric, &g.TargetValue, &g.Period,
			&g.DriverID, &g.VehicleID, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Update rewrites an owner-scoped goal.
func (r *Repository) Update(ctx context.Context, userID, id int64, input Input) (*Goal, error) {
	const query = `
		UPDATE goals
		SET metric = $3, target_value = $4, period = $5, driver_id = $6, vehicle_id = $7, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
		RETURNING ` + columns

	return r.scanOne(r.pool.QueryRow(ctx, query,
		userID, id, input.Metric, input.TargetValue, input.Period, input.DriverID, input.VehicleID))
}

// Delete removes an owner-scoped goal.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM goals WHERE id = $2 AND user_id = $1", userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) scanOne(row pgx.Row) (*Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.Metric, &g.TargetValue, &g.Period,
		&g.DriverID, &g.VehicleID, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}
