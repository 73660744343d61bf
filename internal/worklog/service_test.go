package worklog

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
	logs   map[int64]*WorkLog
	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{logs: map[int64]*WorkLog{}, nextID: 1}
}

func (f *fakeStore) Create(ctx context.Context, userID int64, input CreateInput) (*WorkLog, error) {
	log := &WorkLog{
		ID:          f.nextID,
		Date:        input.Date,
		KmDriven:    input.KmDriven,
		HoursWorked: input.HoursWorked,
		DriverID:    input.DriverID,
		Notes:       input.Notes,
	}
	f.logs[f.nextID] = log
	f.nextID++
	return log, nil
}

func (f *fakeStore) Get(ctx context.Context, userID, id int64) (*WorkLog, error) {
	log, ok := f.logs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return log, nil
}

func (f *fakeStore) Count(ctx context.Context, userID int64) (int, error) {
	return len(f.logs), nil
}

func (f *fakeStore) List(ctx context.Context, userID int64, limit, offset int) ([]WorkLog, error) {
	out := make([]WorkLog, 0, len(f.logs))
	for _, log := range f.logs {
		out = append(out, *log)
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, userID, id int64, input UpdateInput) (*WorkLog, error) {
	log, ok := f.logs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	log.KmDriven = input.KmDriven
	log.HoursWorked = input.HoursWorked
	return log, nil
}

func (f *fakeStore) Delete(ctx context.Context, userID, id int64) error {
	if _, ok := f.logs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(f.logs, id)
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

func idRef(v int64) *int64 {
	return &v
}

func TestCreateEvictsWorkLogAndDashboardTags(t *testing.T) {
	tagCache, client := cacheForTest(t)
	primeTag(t, tagCache, cache.TagWorkLogs, "worklogs:7")
	primeTag(t, tagCache, cache.TagDashboard, "dashboard:7:thisWeek")
	primeTag(t, tagCache, cache.TagRevenues, "revenues:7")

	svc := NewService(newFakeStore(), tagCache)
	_, err := svc.Create(context.Background(), 7, CreateInput{Date: time.Now(), KmDriven: 120, HoursWorked: 8, DriverID: idRef(3)})
	require.NoError(t, err)

	ctx := context.Background()
	require.Equal(t, int64(0), client.Exists(ctx, "worklogs:7").Val())
	require.Equal(t, int64(0), client.Exists(ctx, "dashboard:7:thisWeek").Val())
	require.Equal(t, int64(1), client.Exists(ctx, "revenues:7").Val(), "unrelated tags stay cached")
}

func TestListReportsPagination(t *testing.T) {
	tagCache, _ := cacheForTest(t)
	svc := NewService(newFakeStore(), tagCache)
	for i := 0; i < 7; i++ {
		_, err := svc.Create(context.Background(), 7, CreateInput{Date: time.Now(), KmDriven: 50, HoursWorked: 4, DriverID: idRef(3)})
		require.NoError(t, err)
	}

	res, err := svc.List(context.Background(), 7, 1, 5)
	require.NoError(t, err)
	require.Equal(t, 7, res.Pagination.Total)
	require.Equal(t, 2, res.Pagination.TotalPages)
}

func TestCreateWithoutOwningRelationIsRejected(t *testing.T) {
	tagCache, client := cacheForTest(t)
	primeTag(t, tagCache, cache.TagWorkLogs, "worklogs:7")
	store := newFakeStore()
	svc := NewService(store, tagCache)

	_, err := svc.Create(context.Background(), 7, CreateInput{Date: time.Now(), KmDriven: 80, HoursWorked: 6})
	require.ErrorIs(t, err, shared.ErrMissingOwnerRelation)
	require.Empty(t, store.logs, "nothing persisted")
	require.Equal(t, int64(1), client.Exists(context.Background(), "worklogs:7").Val(), "cache untouched")

	_, err = svc.Update(context.Background(), 7, 1, UpdateInput{Date: time.Now(), KmDriven: 80, HoursWorked: 6})
	require.ErrorIs(t, err, shared.ErrMissingOwnerRelation)
}

func TestDeleteMissingWorkLogKeepsCache(t *testing.T) {
	tagCache, client := cacheForTest(t)
	primeTag(t, tagCache, cache.TagWorkLogs, "worklogs:7")

	svc := NewService(newFakeStore(), tagCache)
	err := svc.Delete(context.Background(), 7, 42)
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.Equal(t, int64(1), client.Exists(context.Background(), "worklogs:7").Val())
}
