package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/ledger"
)

// Repository provides PostgreSQL backed row fetches for the dashboard.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RevenueRows fetches owner-scoped revenues inside [from, to] with their
// dimension names resolved. Platform names are ordered so downstream
// attribution stays deterministic.
func (r *Repository) RevenueRows(ctx context.Context, userID int64, from, to time.Time, f Filters) ([]RevenueRow, error) {
	var sb strings.Builder
	args := []any{userID, from, to}
	sb.WriteString(`
		SELECT r.id, r.amount, r.date, COALESCE(r.description, ''),
		       r.km_driven, r.hours_worked,
		       COALESCE(d.name, ''), COALESCE(v.name, ''),
		       COALESCE((SELECT array_agg(p.name ORDER BY p.name)
		                 FROM revenue_platforms rp
		                 JOIN platforms p ON p.id = rp.platform_id
		                 WHERE rp.revenue_id = r.id), '{}')
		FROM revenues r
		LEFT JOIN drivers d ON d.id = r.driver_id
		LEFT JOIN vehicles v ON v.id = r.vehicle_id
		WHERE `)
	sb.WriteString(ledger.RevenueOwnerClause("r", 1))
	sb.WriteString(" AND r.date >= $2 AND r.date <= $3")
	if f.DriverID != nil {
		args = append(args, *f.DriverID)
		fmt.Fprintf(&sb, " AND r.driver_id = $%d", len(args))
	}
	if f.VehicleID != nil {
		args = append(args, *f.VehicleID)
		fmt.Fprintf(&sb, " AND r.vehicle_id = $%d", len(args))
	}
	if f.CompanyID != nil {
		args = append(args, *f.CompanyID)
		fmt.Fprintf(&sb, " AND EXISTS (SELECT 1 FROM revenue_platforms rp WHERE rp.revenue_id = r.id AND rp.platform_id = $%d)", len(args))
	}
	sb.WriteString(" ORDER BY r.date DESC, r.id")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RevenueRow
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.ID, &row.Amount, &row.Date, &row.Description,
			&row.KmDriven, &row.HoursWorked, &row.DriverName, &row.VehicleName, &row.Platforms); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// ExpenseRows fetches owner-scoped expenses inside [from, to].
func (r *Repository) ExpenseRows(ctx context.Context, userID int64, from, to time.Time, f Filters) ([]ExpenseRow, error) {
	var sb strings.Builder
	args := []any{userID, from, to}
	sb.WriteString(`
		SELECT e.id, e.amount, e.date, COALESCE(e.description, ''),
		       et.name, COALESCE(d.name, ''), COALESCE(v.name, '')
		FROM expenses e
		JOIN expense_types et ON et.id = e.expense_type_id
		LEFT JOIN drivers d ON d.id = e.driver_id
		LEFT JOIN vehicles v ON v.id = e.vehicle_id
		WHERE `)
	sb.WriteString(ledger.ExpenseOwnerClause("e", 1))
	sb.WriteString(" AND e.date >= $2 AND e.date <= $3")
	if f.DriverID != nil {
		args = append(args, *f.DriverID)
		fmt.Fprintf(&sb, " AND e.driver_id = $%d", len(args))
	}
	if f.VehicleID != nil {
		args = append(args, *f.VehicleID)
		fmt.Fprintf(&sb, " AND e.vehicle_id = $%d", len(args))
	}
	sb.WriteString(" ORDER BY e.date DESC, e.id")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var row ExpenseRow
		if err := rows.Scan(&row.ID, &row.Amount, &row.Date, &row.Description,
			&row.TypeName, &row.DriverName, &row.VehicleName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// WorkLogRows fetches owner-scoped work logs inside [from, to].
func (r *Repository) WorkLogRows(ctx context.Context, userID int64, from, to time.Time, f Filters) ([]WorkLogRow, error) {
	var sb strings.Builder
	args := []any{userID, from, to}
	sb.WriteString(`
		SELECT w.id, w.date, w.km_driven, w.hours_worked,
		       COALESCE(d.name, ''), COALESCE(v.name, '')
		FROM work_logs w
		LEFT JOIN drivers d ON d.id = w.driver_id
		LEFT JOIN vehicles v ON v.id = w.vehicle_id
		WHERE `)
	sb.WriteString(ledger.WorkLogOwnerClause("w", 1))
	sb.WriteString(" AND w.date >= $2 AND w.date <= $3")
	if f.DriverID != nil {
		args = append(args, *f.DriverID)
		fmt.Fprintf(&sb, " AND w.driver_id = $%d", len(args))
	}
	if f.VehicleID != nil {
		args = append(args, *f.VehicleID)
		fmt.Fprintf(&sb, " AND w.vehicle_id = $%d", len(args))
	}
	sb.WriteString(" ORDER BY w.date, w.id")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkLogRow
	for rows.Next() {
		var row WorkLogRow
		if err := rows.Scan(&row.ID, &row.Date, &row.KmDriven, &row.HoursWorked, &row.DriverName, &row.VehicleName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
