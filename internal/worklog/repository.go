package worklog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/ledger"
	"github.com/gigledger/gigledger/internal/shared"
)

const columns = `w.id, w.date, w.km_driven, w.hours_worked, w.driver_id, w.vehicle_id,
	COALESCE(w.notes, ''), w.created_at, w.updated_at`

// Repository provides PostgreSQL backed persistence for work logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// verifyRefs confirms the driver and vehicle on the input belong to the
// writing user.
func verifyRefs(ctx context.Context, q ledger.Querier, userID int64, input CreateInput) error {
	refs := ledger.RefIf(nil, "drivers", input.DriverID)
	refs = ledger.RefIf(refs, "vehicles", input.VehicleID)
	return ledger.VerifyRefs(ctx, q, userID, refs...)
}

// Create inserts a work log.
func (r *Repository) Create(ctx context.Context, userID int64, input CreateInput) (*WorkLog, error) {
	if input.DriverID == nil && input.VehicleID == nil {
		return nil, shared.ErrMissingOwnerRelation
	}
	if err := verifyRefs(ctx, r.pool, userID, input); err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO work_logs (date, km_driven, hours_worked, driver_id, vehicle_id, notes,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	log := WorkLog{
		Date:        input.Date,
		KmDriven:    input.KmDriven,
		HoursWorked: input.HoursWorked,
		DriverID:    input.DriverID,
		VehicleID:   input.VehicleID,
		Notes:       input.Notes,
	}
	err := r.pool.QueryRow(ctx, query,
		input.Date, input.KmDriven, input.HoursWorked, input.DriverID, input.VehicleID, input.Notes,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Get fetches one owner-scoped work log.
func (r *Repository) Get(ctx context.Context, userID, id int64) (*WorkLog, error) {
	query := `SELECT ` + columns + ` FROM work_logs w
		WHERE w.id = $2 AND ` + ledger.WorkLogOwnerClause("w", 1)

	var log WorkLog
	err := r.pool.QueryRow(ctx, query, userID, id).Scan(
		&log.ID, &log.Date, &log.KmDriven, &log.HoursWorked, &log.DriverID, &log.VehicleID,
		&log.Notes, &log.CreatedAt, &log.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Count returns how many work logs the user owns.
func (r *Repository) Count(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM work_logs w WHERE ` + ledger.WorkLogOwnerClause("w", 1)
	var total int
	err := r.pool.QueryRow(ctx, query, userID).Scan(&total)
	return total, err
}

// List returns a page of the user's work logs, newest first.
func (r *Repository) List(ctx context.Context, userID int64, limit, offset int) ([]WorkLog, error) {
	query := `SELECT ` + columns + ` FROM work_logs w
		WHERE ` + ledger.WorkLogOwnerClause("w", 1) + `
		ORDER BY w.date DESC, w.id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]WorkLog, 0)
	for rows.Next() {
		var log WorkLog
		if err := rows.Scan(
			&log.ID, &log.Date, &log.KmDriven, &log.HoursWorked, &log.DriverID, &log.VehicleID,
			&log.Notes, &log.CreatedAt, &log.UpdatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Update rewrites an owner-scoped work log.
func (r *Repository) Update(ctx context.Context, userID, id int64, input UpdateInput) (*WorkLog, error) {
	if input.DriverID == nil && input.VehicleID == nil {
		return nil, shared.ErrMissingOwnerRelation
	}
	if err := verifyRefs(ctx, r.pool, userID, input); err != nil {
		return nil, err
	}

	query := `
		UPDATE work_logs w
		SET date = $3, km_driven = $4, hours_worked = $5, driver_id = $6, vehicle_id = $7,
		    notes = $8, updated_at = NOW()
		WHERE w.id = $2 AND ` + ledger.WorkLogOwnerClause("w", 1) + `
		RETURNING w.id, w.created_at, w.updated_at`

	log := WorkLog{
		Date:        input.Date,
		KmDriven:    input.KmDriven,
		HoursWorked: input.HoursWorked,
		DriverID:    input.DriverID,
		VehicleID:   input.VehicleID,
		Notes:       input.Notes,
	}
	err := r.pool.QueryRow(ctx, query, userID, id,
		input.Date, input.KmDriven, input.HoursWorked, input.DriverID, input.VehicleID, input.Notes,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// Delete removes an owner-scoped work log.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM work_logs w WHERE w.id = $2 AND "+ledger.WorkLogOwnerClause("w", 1),
		userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
