package catalog

import (
	"context"

	"github.com/gigledger/gigledger/internal/cache"
)

// Store is the persistence surface the service depends on.
type Store interface {
	List(ctx context.Context, kind Kind, userID int64) ([]Item, error)
	Create(ctx context.Context, kind Kind, userID int64, name string) (*Item, error)
	Update(ctx context.Context, kind Kind, userID, id int64, name string) (*Item, error)
	Delete(ctx context.Context, kind Kind, userID, id int64) error
}

// Service applies per-kind cache invalidation on top of the store.
type Service struct {
	store Store
	cache *cache.TagCache
}

// NewService constructs the catalog service.
func NewService(store Store, tagCache *cache.TagCache) *Service {
	return &Service{store: store, cache: tagCache}
}

// Cache eviction failures never fail the mutation; entries expire by TTL.
// Lookup names surface inside dashboard breakdowns, so the dashboard
// tag is evicted alongside the kind's own tag.
func (s *Service) invalidate(ctx context.Context, kind Kind) {
	_ = s.cache.Invalidate(ctx, kind.Tag(), cache.TagDashboard)
}

// List returns the user's items of one kind.
func (s *Service) List(ctx context.Context, kind Kind, userID int64) ([]Item, error) {
	return s.store.List(ctx, kind, userID)
}

// Create adds an item and evicts the kind's caches.
func (s *Service) Create(ctx context.Context, kind Kind, userID int64, name string) (*Item, error) {
	item, err := s.store.Create(ctx, kind, userID, name)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, kind)
	return item, nil
}

// Update renames an item and evicts the kind's caches.
func (s *Service) Update(ctx context.Context, kind Kind, userID, id int64, name string) (*Item, error) {
	item, err := s.store.Update(ctx, kind, userID, id, name)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, kind)
	return item, nil
}

// Delete removes an item and evicts the kind's caches.
func (s *Service) Delete(ctx context.Context, kind Kind, userID, id int64) error {
	if err := s.store.Delete(ctx, kind, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, kind)
	return nil
}
