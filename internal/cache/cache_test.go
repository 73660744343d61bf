package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *TagCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute)
}

func TestFetchJSONMemoizes(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return map[string]float64{"total": 300}, nil
	}

	var out map[string]float64
	require.NoError(t, c.FetchJSON(ctx, Key("dashboard", "7", "thisMonth"), []Tag{TagDashboard}, &out, loader))
	require.Equal(t, 300.0, out["total"])
	require.Equal(t, 1, calls)

	out = nil
	require.NoError(t, c.FetchJSON(ctx, Key("dashboard", "7", "thisMonth"), []Tag{TagDashboard}, &out, loader))
	require.Equal(t, 300.0, out["total"])
	require.Equal(t, 1, calls, "second call should be served from cache")
}

func TestInvalidateEvictsTaggedKeysOnly(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	dashCalls := 0
	lookupCalls := 0

	var v int
	require.NoError(t, c.FetchJSON(ctx, "dash:7", []Tag{TagDashboard, TagRevenues}, &v, func(context.Context) (interface{}, error) {
		dashCalls++
		return dashCalls, nil
	}))
	require.NoError(t, c.FetchJSON(ctx, "drivers:7", []Tag{TagDrivers}, &v, func(context.Context) (interface{}, error) {
		lookupCalls++
		return lookupCalls, nil
	}))

	require.NoError(t, c.Invalidate(ctx, TagRevenues))

	require.NoError(t, c.FetchJSON(ctx, "dash:7", []Tag{TagDashboard, TagRevenues}, &v, func(context.Context) (interface{}, error) {
		dashCalls++
		return dashCalls, nil
	}))
	require.Equal(t, 2, dashCalls, "tagged key should have been evicted")

	require.NoError(t, c.FetchJSON(ctx, "drivers:7", []Tag{TagDrivers}, &v, func(context.Context) (interface{}, error) {
		lookupCalls++
		return lookupCalls, nil
	}))
	require.Equal(t, 1, lookupCalls, "unrelated tag must be untouched")
}

func TestNilClientPassthrough(t *testing.T) {
	var c *TagCache
	calls := 0
	var out int
	err := c.FetchJSON(context.Background(), "k", nil, &out, func(context.Context) (interface{}, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, out)
	require.Equal(t, 1, calls)
	require.NoError(t, c.Invalidate(context.Background(), TagDashboard))
}
