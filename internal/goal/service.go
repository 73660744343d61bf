package goal

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gigledger/gigledger/internal/dashboard"
	"github.com/gigledger/gigledger/internal/period"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, userID int64, input Input) (*Goal, error)
	List(ctx context.Context, userID int64) ([]Goal, error)
	Update(ctx context.Context, userID, id int64, input Input) (*Goal, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Service measures goal progress against the same ledger rows the
// dashboard aggregates, so both screens always agree.
type Service struct {
	store Store
	rows  dashboard.RowFetcher
	now   func() time.Time
}

// NewService constructs the goal service.
func NewService(store Store, rows dashboard.RowFetcher) *Service {
	return &Service{store: store, rows: rows, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores a goal.
func (s *Service) Create(ctx context.Context, userID int64, input Input) (*Goal, error) {
	return s.store.Create(ctx, userID, input)
}

// Update rewrites a goal.
func (s *Service) Update(ctx context.Context, userID, id int64, input Input) (*Goal, error) {
	return s.store.Update(ctx, userID, id, input)
}

// Delete removes a goal.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, userID, id)
}

// ListWithProgress returns every goal with its actual measured over the
// goal's own period and dimension filters.
func (s *Service) ListWithProgress(ctx context.Context, userID int64) ([]Progress, error) {
	goals, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Progress, 0, len(goals))
	for _, g := range goals {
		actual, err := s.measure(ctx, userID, g)
		if err != nil {
			return nil, err
		}
		out = append(out, Progress{Goal: g, Actual: actual, Percent: percent(actual, g.TargetValue)})
	}
	return out, nil
}

func (s *Service) measure(ctx context.Context, userID int64, g Goal) (float64, error) {
	rng := period.Resolve(period.Token(g.Period), s.now().UTC())
	filters := dashboard.Filters{DriverID: g.DriverID, VehicleID: g.VehicleID}

	var (
		revenues []dashboard.RevenueRow
		expenses []dashboard.ExpenseRow
		workLogs []dashboard.WorkLogRow
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		revenues, err = s.rows.RevenueRows(gctx, userID, rng.Start, rng.End, filters)
		return err
	})
	if g.Metric == MetricProfit {
		eg.Go(func() error {
			var err error
			expenses, err = s.rows.ExpenseRows(gctx, userID, rng.Start, rng.End, filters)
			return err
		})
	}
	if g.Metric == MetricKm || g.Metric == MetricHours {
		eg.Go(func() error {
			var err error
			workLogs, err = s.rows.WorkLogRows(gctx, userID, rng.Start, rng.End, filters)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}

	kpis := dashboard.Aggregate(revenues, expenses, workLogs).KPIs
	switch g.Metric {
	case MetricRevenue:
		return kpis.TotalRevenue, nil
	case MetricProfit:
		return kpis.NetProfit, nil
	case MetricKm:
		return kpis.TotalKm, nil
	case MetricHours:
		return kpis.TotalHours, nil
	}
	return 0, nil
}

func percent(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return actual / target * 100
}
