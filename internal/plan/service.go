// Package plan implements plan tiers and the export quota gate.
package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigledger/gigledger/internal/shared"
)

// Tier names a subscription plan.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// Monthly export quotas per tier. Pro is effectively unmetered.
var exportQuota = map[Tier]int{
	TierFree: 5,
	TierPro:  1000,
}

// Repository provides persistence for plan lookups and export usage.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UserTier resolves the user's plan tier, defaulting to free.
func (r *Repository) UserTier(ctx context.Context, userID int64) (Tier, error) {
	var tier string
	err := r.pool.QueryRow(ctx, "SELECT COALESCE(plan, 'free') FROM users WHERE id = $1", userID).Scan(&tier)
	if err != nil {
		return "", err
	}
	return Tier(tier), nil
}

// ExportsThisMonth counts the user's exports since the start of the
// current calendar month.
func (r *Repository) ExportsThisMonth(ctx context.Context, userID int64, monthStart time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM export_usages WHERE user_id = $1 AND created_at >= $2",
		userID, monthStart).Scan(&count)
	return count, err
}

// InsertExportUsage records one successful export.
func (r *Repository) InsertExportUsage(ctx context.Context, userID int64, reportType, format string) error {
	_, err := r.pool.Exec(ctx,
		"INSERT INTO export_usages (user_id, report_type, format, created_at) VALUES ($1, $2, $3, NOW())",
		userID, reportType, format)
	return err
}

// UsageStore is the persistence surface the Service needs.
type UsageStore interface {
	UserTier(ctx context.Context, userID int64) (Tier, error)
	ExportsThisMonth(ctx context.Context, userID int64, monthStart time.Time) (int, error)
	InsertExportUsage(ctx context.Context, userID int64, reportType, format string) error
}

// Service gates exports on the plan quota.
type Service struct {
	store UsageStore
	now   func() time.Time
}

// NewService constructs the plan service.
func NewService(store UsageStore) *Service {
	return &Service{store: store, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// CheckExportAllowed returns ErrExportLimitExceeded when the user has
// spent this month's quota. It runs before any generation work begins.
func (s *Service) CheckExportAllowed(ctx context.Context, userID int64) error {
	tier, err := s.store.UserTier(ctx, userID)
	if err != nil {
		return err
	}
	quota, ok := exportQuota[tier]
	if !ok {
		quota = exportQuota[TierFree]
	}
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	used, err := s.store.ExportsThisMonth(ctx, userID, monthStart)
	if err != nil {
		return err
	}
	if used >= quota {
		return fmt.Errorf("%w: %d of %d used", shared.ErrExportLimitExceeded, used, quota)
	}
	return nil
}

// RecordExport increments the usage counter after a successful export.
func (s *Service) RecordExport(ctx context.Context, userID int64, reportType, format string) error {
	return s.store.InsertExportUsage(ctx, userID, reportType, format)
}
