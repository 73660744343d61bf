package dashboard

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gigledger/gigledger/internal/cache"
	"github.com/gigledger/gigledger/internal/period"
)

// RowFetcher exposes the ledger queries the aggregation relies on.
type RowFetcher interface {
	RevenueRows(ctx context.Context, userID int64, from, to time.Time, f Filters) ([]RevenueRow, error)
	ExpenseRows(ctx context.Context, userID int64, from, to time.Time, f Filters) ([]ExpenseRow, error)
	WorkLogRows(ctx context.Context, userID int64, from, to time.Time, f Filters) ([]WorkLogRow, error)
}

// Service coordinates row fetching, aggregation and the cache layer.
type Service struct {
	repo  RowFetcher
	cache *cache.TagCache
	now   func() time.Time
}

// NewService wires a RowFetcher with the tag cache.
func NewService(repo RowFetcher, tc *cache.TagCache) *Service {
	return &Service{repo: repo, cache: tc, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// GetDashboard resolves the period, fetches owner-scoped rows and
// reduces them into the dashboard payload, memoized under the
// DASHBOARD tag.
func (s *Service) GetDashboard(ctx context.Context, userID int64, f Filters) (Result, error) {
	rng := period.Resolve(f.Period, s.now().UTC())

	loader := func(ctx context.Context) (interface{}, error) {
		var (
			revenues []RevenueRow
			expenses []ExpenseRow
			workLogs []WorkLogRow
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			revenues, err = s.repo.RevenueRows(gctx, userID, rng.Start, rng.End, f)
			return err
		})
		g.Go(func() error {
			var err error
			expenses, err = s.repo.ExpenseRows(gctx, userID, rng.Start, rng.End, f)
			return err
		})
		g.Go(func() error {
			var err error
			workLogs, err = s.repo.WorkLogRows(gctx, userID, rng.Start, rng.End, f)
			return err
		})
		if err := g.Wait(); err != nil {
			return Result{}, err
		}
		return Aggregate(revenues, expenses, workLogs), nil
	}

	key := cacheKey(userID, f)
	var result Result
	if err := s.cache.FetchJSON(ctx, key, []cache.Tag{cache.TagDashboard}, &result, loader); err != nil {
		return Result{}, err
	}
	return result, nil
}

func cacheKey(userID int64, f Filters) string {
	return cache.Key("dashboard",
		strconv.FormatInt(userID, 10),
		string(f.Period),
		dimToken(f.DriverID),
		dimToken(f.VehicleID),
		dimToken(f.CompanyID),
	)
}

func dimToken(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}
