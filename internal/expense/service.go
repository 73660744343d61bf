package expense

import (
	"context"

	"github.com/gigledger/gigledger/internal/cache"
	"github.com/gigledger/gigledger/internal/shared"
)

// Store is the persistence surface the service depends on.
type Store interface {
	Create(ctx context.Context, userID int64, input CreateInput) (*Expense, error)
	Get(ctx context.Context, userID, id int64) (*Expense, error)
	Count(ctx context.Context, userID int64) (int, error)
	List(ctx context.Context, userID int64, limit, offset int) ([]Expense, error)
	Update(ctx context.Context, userID, id int64, input UpdateInput) (*Expense, error)
	Delete(ctx context.Context, userID, id int64) error
}

// ListResult is a page of expenses plus paging metadata.
type ListResult struct {
	Items      []Expense         `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service applies cache invalidation on top of the store.
type Service struct {
	store Store
	cache *cache.TagCache
}

// NewService constructs the expense service.
func NewService(store Store, tagCache *cache.TagCache) *Service {
	return &Service{store: store, cache: tagCache}
}

// Cache eviction failures never fail the mutation; entries expire by TTL.
func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, cache.TagExpenses, cache.TagDashboard)
}

// Create records an expense and evicts derived caches.
func (s *Service) Create(ctx context.Context, userID int64, input CreateInput) (*Expense, error) {
	exp, err := s.store.Create(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return exp, nil
}

// Get fetches one expense scoped to the user.
func (s *Service) Get(ctx context.Context, userID, id int64) (*Expense, error) {
	return s.store.Get(ctx, userID, id)
}

// List returns one page of the user's expenses, newest first.
func (s *Service) List(ctx context.Context, userID int64, page, perPage int) (*ListResult, error) {
	total, err := s.store.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	pagination := shared.NewPagination(page, perPage, total)
	items, err := s.store.List(ctx, userID, pagination.PerPage, pagination.Offset())
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Pagination: pagination}, nil
}

// Update rewrites an expense and evicts derived caches.
func (s *Service) Update(ctx context.Context, userID, id int64, input UpdateInput) (*Expense, error) {
	exp, err := s.store.Update(ctx, userID, id, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return exp, nil
}

// Delete removes an expense and evicts derived caches.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
