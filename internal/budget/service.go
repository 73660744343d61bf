package budget

import (
	"context"
	"time"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, userID int64, input Input) (*Budget, error)
	List(ctx context.Context, userID int64) ([]Budget, error)
	Update(ctx context.Context, userID, id int64, input Input) (*Budget, error)
	Delete(ctx context.Context, userID, id int64) error
	SpentBetween(ctx context.Context, userID, expenseTypeID int64, from, to time.Time) (float64, error)
}

// Service computes month-to-date utilization for each budget.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs the budget service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create stores a budget.
func (s *Service) Create(ctx context.Context, userID int64, input Input) (*Budget, error) {
	return s.store.Create(ctx, userID, input)
}

// Update rewrites a budget cap.
func (s *Service) Update(ctx context.Context, userID, id int64, input Input) (*Budget, error) {
	return s.store.Update(ctx, userID, id, input)
}

// Delete removes a budget.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, userID, id)
}

// ListWithUtilization returns every budget with spend measured from the
// first instant of the current month up to now.
func (s *Service) ListWithUtilization(ctx context.Context, userID int64) ([]Utilization, error) {
	budgets, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]Utilization, 0, len(budgets))
	for _, b := range budgets {
		spent, err := s.store.SpentBetween(ctx, userID, b.ExpenseTypeID, monthStart, now)
		if err != nil {
			return nil, err
		}
		out = append(out, Utilization{Budget: b, Spent: spent, Percent: percent(spent, b.MonthlyCap)})
	}
	return out, nil
}

func percent(spent, limit float64) float64 {
	if limit == 0 {
		return 0
	}
	return spent / limit * 100
}
