package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gigledger/gigledger/internal/cache"
	"github.com/gigledger/gigledger/internal/shared"
)

type fakeStore struct {
	items  map[Kind]map[int64]*Item
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[Kind]map[int64]*Item{}, nextID: 1}
}

func (f *fakeStore) bucket(kind Kind) map[int64]*Item {
	if f.items[kind] == nil {
		f.items[kind] = map[int64]*Item{}
	}
	return f.items[kind]
}

func (f *fakeStore) List(ctx context.Context, kind Kind, userID int64) ([]Item, error) {
	out := make([]Item, 0)
	for _, item := range f.bucket(kind) {
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, kind Kind, userID int64, name string) (*Item, error) {
	for _, item := range f.bucket(kind) {
		if item.Name == name {
			return nil, shared.ErrDuplicateName
		}
	}
	item := &Item{ID: f.nextID, Name: name}
	f.bucket(kind)[f.nextID] = item
	f.nextID++
	return item, nil
}

func (f *fakeStore) Update(ctx context.Context, kind Kind, userID, id int64, name string) (*Item, error) {
	item, ok := f.bucket(kind)[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	item.Name = name
	return item, nil
}

func (f *fakeStore) Delete(ctx context.Context, kind Kind, userID, id int64) error {
	if _, ok := f.bucket(kind)[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.bucket(kind), id)
	return nil
}

func cacheForTest(t *testing.T) (*cache.TagCache, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.New(client, time.Minute), client
}

func primeTag(t *testing.T, tagCache *cache.TagCache, tag cache.Tag, key string) {
	t.Helper()
	var out string
	err := tagCache.FetchJSON(context.Background(), key, []cache.Tag{tag}, &out,
		func(context.Context) (interface{}, error) { return "cached", nil })
	require.NoError(t, err)
}

func TestEveryKindHasRegistryEntry(t *testing.T) {
	for _, kind := range []Kind{KindDriver, KindVehicle, KindPlatform, KindExpenseType, KindPaymentMethod} {
		require.True(t, kind.Valid())
		require.NotEmpty(t, kind.Tag())
	}
	require.False(t, Kind("trailer").Valid())
}

func TestCreateDriverEvictsDriverAndDashboardTags(t *testing.T) {
	tagCache, client := cacheForTest(t)
	primeTag(t, tagCache, cache.TagDrivers, "drivers:7")
	primeTag(t, tagCache, cache.TagDashboard, "dashboard:7:thisMonth")
	primeTag(t, tagCache, cache.TagVehicles, "vehicles:7")

	svc := NewService(newFakeStore(), tagCache)
	_, err := svc.Create(context.Background(), KindDriver, 7, "Marcos")
	require.NoError(t, err)

	ctx := context.Background()
	require.Equal(t, int64(0), client.Exists(ctx, "drivers:7").Val())
	require.Equal(t, int64(0), client.Exists(ctx, "dashboard:7:thisMonth").Val())
	require.Equal(t, int64(1), client.Exists(ctx, "vehicles:7").Val(), "other kinds stay cached")
}

func TestCreateDuplicateNameRejected(t *testing.T) {
	svc := NewService(newFakeStore(), nil)
	_, err := svc.Create(context.Background(), KindPlatform, 7, "Uber")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), KindPlatform, 7, "Uber")
	require.ErrorIs(t, err, shared.ErrDuplicateName)
}

func TestDeleteMissingItemLeavesCache(t *testing.T) {
	tagCache, client := cacheForTest(t)
	primeTag(t, tagCache, cache.TagVehicles, "vehicles:7")

	svc := NewService(newFakeStore(), tagCache)
	err := svc.Delete(context.Background(), KindVehicle, 7, 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, int64(1), client.Exists(context.Background(), "vehicles:7").Val())
}
