package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/angelmondragon/kurvfo/pkg/logger"
	"github.com/angelmondragon/kurvfo/pkg/metrics"
	"github.com/angelmondragon/kurvfo/pkg/redis"
	"golang.org/x/sync/singleflight"
)

// SnapshotStore is the key/value surface the cache needs; *redis.Client satisfies it.
type SnapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, keys ...string) error
	CatalogKey(parts ...string) string
}

// CachedProvider serves provider reads from Redis snapshots. Concurrent misses
// for the same key share one upstream fetch. Cache faults are logged and
// bypassed; provider errors are returned and never cached.
type CachedProvider struct {
	next    Provider
	store   SnapshotStore
	ttl     time.Duration
	group   singleflight.Group
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
}

// NewCachedProvider wraps next with a snapshot cache entry lifetime of ttl.
func NewCachedProvider(next Provider, store SnapshotStore, ttl time.Duration, logg *logger.Logger, m *metrics.CatalogMetrics) *CachedProvider {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CachedProvider{
		next:    next,
		store:   store,
		ttl:     ttl,
		logg:    logg,
		metrics: m,
	}
}

func (c *CachedProvider) ActiveDeals(ctx context.Context) ([]Deal, error) {
	return cached(ctx, c, c.store.CatalogKey(resourceDeals), c.next.ActiveDeals)
}

func (c *CachedProvider) ActiveStores(ctx context.Context) ([]Store, error) {
	return cached(ctx, c, c.store.CatalogKey(resourceStores), c.next.ActiveStores)
}

func (c *CachedProvider) PriceHistory(ctx context.Context, productID string, limit int) ([]PriceRecord, error) {
	key := c.store.CatalogKey(resourceHistory, productID, strconv.Itoa(limit))
	return cached(ctx, c, key, func(ctx context.Context) ([]PriceRecord, error) {
		return c.next.PriceHistory(ctx, productID, limit)
	})
}

// Invalidate drops the deal and store snapshots so the next load goes upstream.
func (c *CachedProvider) Invalidate(ctx context.Context) error {
	return c.store.Del(ctx, c.store.CatalogKey(resourceDeals), c.store.CatalogKey(resourceStores))
}

// cached runs one shared lookup per key. The shared call keeps the first
// caller's deadline but not its cancellation, so callers that joined it are
// not failed by one that left; each caller still returns on its own ctx.
func cached[T any](ctx context.Context, c *CachedProvider, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		ctx, cancel := detach(ctx)
		defer cancel()
		logCtx := c.logg.WithField(ctx, "cache_key", key)

		data, err := c.store.GetBytes(ctx, key)
		switch {
		case err == nil:
			var out []T
			jsonErr := json.Unmarshal(data, &out)
			if jsonErr == nil {
				c.metrics.ObserveCache(true)
				return out, nil
			}
			c.logg.Warn(c.logg.WithField(logCtx, "error", jsonErr.Error()), "discarding undecodable catalog snapshot")
		case !redis.IsNil(err):
			c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "catalog cache read failed")
		}
		c.metrics.ObserveCache(false)

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(fetched)
		if err != nil {
			return nil, fmt.Errorf("marshal catalog snapshot: %w", err)
		}
		if err := c.store.Set(ctx, key, payload, c.ttlWithJitter()); err != nil {
			c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "catalog cache write failed")
		}
		return fetched, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		return context.WithDeadline(base, deadline)
	}
	return context.WithCancel(base)
}

// ttlWithJitter spreads expiries by up to a tenth of the ttl so snapshots do
// not all lapse together.
func (c *CachedProvider) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	return c.ttl + time.Duration(rand.Int64N(int64(c.ttl)/10+1))
}
