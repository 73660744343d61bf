package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tag names a group of cache keys evicted together when the underlying
// rows change.
type Tag string

// Invalidation vocabulary. Every mutating action invalidates each tag
// whose rows it touched.
const (
	TagDashboard      Tag = "DASHBOARD"
	TagRevenues       Tag = "REVENUES"
	TagExpenses       Tag = "EXPENSES"
	TagWorkLogs       Tag = "WORK_LOGS"
	TagDrivers        Tag = "DRIVERS"
	TagVehicles       Tag = "VEHICLES"
	TagPlatforms      Tag = "PLATFORMS"
	TagPaymentMethods Tag = "PAYMENT_METHODS"
	TagExpenseTypes   Tag = "EXPENSE_TYPES"
)

const tagSetPrefix = "cache:tag:"

// TagCache wraps Redis based caching with tag-scoped invalidation. Each
// cached key is registered in a set per tag; invalidating a tag deletes
// every member of the set.
type TagCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New instantiates the cache helper.
func New(client *redis.Client, ttl time.Duration) *TagCache {
	return &TagCache{client: client, ttl: ttl}
}

// Key composes a cache key from its parts.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// FetchJSON loads a cached value or populates it using the loader,
// registering the key under each tag. A nil client degrades to calling
// the loader directly.
func (c *TagCache) FetchJSON(ctx context.Context, key string, tags []Tag, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagSetKey(tag), key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Invalidate evicts every key registered under the given tags.
func (c *TagCache) Invalidate(ctx context.Context, tags ...Tag) error {
	if c == nil || c.client == nil {
		return nil
	}
	for _, tag := range tags {
		setKey := tagSetKey(tag)
		keys, err := c.client.SMembers(ctx, setKey).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if err := c.client.Del(ctx, setKey).Err(); err != nil {
			return err
		}
	}
	return nil
}

func tagSetKey(tag Tag) string {
	return tagSetPrefix + string(tag)
}
