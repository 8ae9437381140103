package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

// CachedStore wraps a store with a read-through, write-through cache
type CachedStore struct {
	next   store.Store
	cache  Cache
	ttl    time.Duration
	logger log.Logger
}

// NewCachedStore creates a new cached store
func NewCachedStore(next store.Store, cache Cache, ttl time.Duration, logger log.Logger) *CachedStore {
	return &CachedStore{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Load serves from cache and falls back to the wrapped store
func (cs *CachedStore) Load(ctx context.Context, collection string) (store.Snapshot, error) {
	snap, err := cs.cache.GetCollection(ctx, collection)
	if err == nil {
		return snap, nil
	}

	snap, err = cs.next.Load(ctx, collection)
	if err != nil {
		return store.Snapshot{}, err
	}

	// The cache keeps whichever snapshot is newer, so a slow read cannot
	// overwrite what a concurrent Save just cached. A failed fill only costs
	// the next read a store round trip.
	if err := cs.cache.SetCollection(ctx, collection, snap, cs.ttl); err != nil {
		level.Warn(cs.logger).Log("msg", "failed to cache collection", "collection", collection, "err", err)
	}

	return snap, nil
}

// Save writes to the wrapped store and refreshes the cached snapshot. On a
// version conflict the cached copy is stale and gets dropped.
func (cs *CachedStore) Save(ctx context.Context, collection string, data []byte, expectedVersion int64) (int64, error) {
	version, err := cs.next.Save(ctx, collection, data, expectedVersion)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			cs.invalidate(ctx, collection)
		}
		return 0, err
	}

	cs.invalidate(ctx, collection)
	if err := cs.cache.SetCollection(ctx, collection, store.Snapshot{Data: data, Version: version}, cs.ttl); err != nil {
		level.Warn(cs.logger).Log("msg", "failed to cache collection", "collection", collection, "err", err)
	}

	return version, nil
}

func (cs *CachedStore) invalidate(ctx context.Context, collection string) {
	if err := cs.cache.Invalidate(ctx, collection); err != nil {
		level.Warn(cs.logger).Log("msg", "failed to invalidate collection", "collection", collection, "err", err)
	}
}

// Ping checks the wrapped store
func (cs *CachedStore) Ping(ctx context.Context) error {
	return store.Ping(ctx, cs.next)
}

// InvalidateCache clears all cached data
func (cs *CachedStore) InvalidateCache(ctx context.Context) error {
	return cs.cache.InvalidateAll(ctx)
}

// GetCacheStats returns cache performance statistics
func (cs *CachedStore) GetCacheStats() CacheStats {
	return cs.cache.GetStats()
}
