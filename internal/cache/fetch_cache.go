// Package cache memoizes per-match provider fetches in memory.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-lines/internal/logger"
	"github.com/yourusername/value-lines/internal/metrics"
	"github.com/yourusername/value-lines/internal/models"
	"github.com/yourusername/value-lines/internal/stats"
)

// FetchCache stores successful detail and view fetches keyed by stage and match ID.
// Finished matches do not change, so entries only expire to bound memory.
type FetchCache struct {
	cache  *gocache.Cache
	ttl    time.Duration
	log    *logger.AggregationLogger
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewFetchCache creates a cache with the given entry lifetime and cleanup interval
func NewFetchCache(ttl, cleanupInterval time.Duration, log *logrus.Logger) *FetchCache {
	if log == nil {
		log = logger.Discard()
	}
	return &FetchCache{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
		log:   logger.NewAggregationLogger(log),
	}
}

func key(stage, matchID string) string {
	return stage + ":" + matchID
}

func (c *FetchCache) lookup(stage, matchID string) (interface{}, bool) {
	v, found := c.cache.Get(key(stage, matchID))
	if found {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	metrics.RecordCacheAccess(stage, found)
	_, _, ratio := c.Stats()
	metrics.UpdateCacheHitRatio(stage, ratio)
	c.log.LogCacheAccess(stage, matchID, found)
	return v, found
}

// WrapDetail returns a detail fetcher that consults the cache first.
// Errors are never cached.
func (c *FetchCache) WrapDetail(next stats.DetailFetcher) stats.DetailFetcher {
	if next == nil {
		return nil
	}
	return func(ctx context.Context, matchID string) (models.StatPayload, error) {
		if v, ok := c.lookup(metrics.StageDetail, matchID); ok {
			if payload, ok := v.(models.StatPayload); ok {
				return payload, nil
			}
		}
		payload, err := next(ctx, matchID)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key(metrics.StageDetail, matchID), payload, c.ttl)
		return payload, nil
	}
}

// WrapView returns a view fetcher that consults the cache first.
// Errors are never cached.
func (c *FetchCache) WrapView(next stats.ViewFetcher) stats.ViewFetcher {
	if next == nil {
		return nil
	}
	return func(ctx context.Context, matchID string) (*models.MatchView, error) {
		if v, ok := c.lookup(metrics.StageView, matchID); ok {
			if view, ok := v.(*models.MatchView); ok {
				return view, nil
			}
		}
		view, err := next(ctx, matchID)
		if err != nil {
			return nil, err
		}
		c.cache.Set(key(metrics.StageView, matchID), view, c.ttl)
		return view, nil
	}
}

// Clear flushes the cache and resets statistics
func (c *FetchCache) Clear() {
	c.cache.Flush()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns cache statistics
func (c *FetchCache) Stats() (hits, misses uint64, ratio float64) {
	hits = c.hits.Load()
	misses = c.misses.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return hits, misses, ratio
}

// ItemCount returns the number of items in cache
func (c *FetchCache) ItemCount() int {
	return c.cache.ItemCount()
}
