package onboarding

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads wizard signals straight from the owning tables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Signals gathers the per-user facts in one round trip.
func (r *Repository) Signals(ctx context.Context, userID int64) (Signals, error) {
	const query = `
		SELECT
			COALESCE(u.name, '') <> '',
			u.onboarding_completed,
			(SELECT COUNT(*) FROM drivers d WHERE d.user_id = u.id),
			(SELECT COUNT(*) FROM vehicles v WHERE v.user_id = u.id),
			(SELECT COUNT(*) FROM platforms p WHERE p.user_id = u.id),
			(SELECT COUNT(*) FROM revenues r
			 WHERE EXISTS (SELECT 1 FROM drivers d WHERE d.id = r.driver_id AND d.user_id = u.id)
			    OR EXISTS (SELECT 1 FROM revenue_platforms rp
			               JOIN platforms p ON p.id = rp.platform_id
			               WHERE rp.revenue_id = r.id AND p.user_id = u.id))
		FROM users u WHERE u.id = $1`

	var s Signals
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.HasName, &s.Completed, &s.DriverCount, &s.VehicleCount, &s.PlatformCnt, &s.RevenueCount)
	if err != nil {
		return Signals{}, err
	}
	return s, nil
}

// MarkCompleted persists the explicit completion flag.
func (r *Repository) MarkCompleted(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET onboarding_completed = TRUE, updated_at = NOW() WHERE id = $1", userID)
	return err
}
