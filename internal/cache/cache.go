package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

// Cache defines the interface for collection snapshot caching
type Cache interface {
	GetCollection(ctx context.Context, name string) (store.Snapshot, error)
	SetCollection(ctx context.Context, name string, snap store.Snapshot, ttl time.Duration) error

	// Cache management
	Invalidate(ctx context.Context, name string) error
	InvalidateAll(ctx context.Context) error
	GetStats() CacheStats
}

// CacheStats holds cache performance statistics
type CacheStats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Errors      int64     `json:"errors"`
	HitRatio    float64   `json:"hit_ratio"`
	TotalOps    int64     `json:"total_ops"`
	LastUpdated time.Time `json:"last_updated"`
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL      time.Duration
	MemoryCacheSize int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	EnableMemory    bool
	EnableRedis     bool
}

// Enabled reports whether at least one tier is switched on
func (c CacheConfig) Enabled() bool {
	return c.EnableMemory || c.EnableRedis
}

// HybridCache keeps snapshots in process memory and, optionally, in Redis
// so several instances share them.
type HybridCache struct {
	memoryCache *memoryCache
	redisCache  *redisCache
	config      CacheConfig
	stats       CacheStats
	mu          sync.RWMutex
}

// NewHybridCache creates a new hybrid cache
func NewHybridCache(config CacheConfig) (*HybridCache, error) {
	hc := &HybridCache{
		config: config,
		stats: CacheStats{
			LastUpdated: time.Now(),
		},
	}

	if config.EnableMemory {
		hc.memoryCache = newMemoryCache(config.MemoryCacheSize)
	}

	if config.EnableRedis {
		var err error
		hc.redisCache, err = newRedisCache(config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis cache: %w", err)
		}
	}

	return hc, nil
}

// GetCollection looks in memory first, then Redis
func (hc *HybridCache) GetCollection(ctx context.Context, name string) (store.Snapshot, error) {
	if hc.memoryCache != nil {
		if snap, found := hc.memoryCache.get(name); found {
			hc.recordHit()
			return snap, nil
		}
	}

	if hc.redisCache != nil {
		snap, err := hc.redisCache.get(ctx, name)
		if err == nil {
			hc.recordHit()
			if hc.memoryCache != nil {
				hc.memoryCache.set(name, snap, hc.config.DefaultTTL)
			}
			return snap, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			hc.recordError()
		}
	}

	hc.recordMiss()
	return store.Snapshot{}, ErrCacheMiss
}

// SetCollection stores a snapshot in every enabled tier
func (hc *HybridCache) SetCollection(ctx context.Context, name string, snap store.Snapshot, ttl time.Duration) error {
	if hc.memoryCache != nil {
		hc.memoryCache.set(name, snap, ttl)
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.set(ctx, name, snap, ttl); err != nil {
			hc.recordError()
			return fmt.Errorf("cache store error: %w", err)
		}
	}

	return nil
}

// Invalidate drops one collection from every tier and tells other instances
// to do the same.
func (hc *HybridCache) Invalidate(ctx context.Context, name string) error {
	if hc.memoryCache != nil {
		hc.memoryCache.delete(name)
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.delete(ctx, name); err != nil {
			return fmt.Errorf("cache invalidation error: %w", err)
		}
		if err := hc.redisCache.publishInvalidation(ctx, name); err != nil {
			return fmt.Errorf("cache invalidation publish error: %w", err)
		}
	}

	return nil
}

// InvalidateAll clears all caches
func (hc *HybridCache) InvalidateAll(ctx context.Context) error {
	if hc.memoryCache != nil {
		hc.memoryCache.clear()
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.clear(ctx); err != nil {
			return fmt.Errorf("cache invalidation error: %w", err)
		}
		if err := hc.redisCache.publishInvalidation(ctx, invalidateAllEvent); err != nil {
			return fmt.Errorf("cache invalidation publish error: %w", err)
		}
	}

	return nil
}

// Listen drops memory entries named by invalidation events published by
// other instances. It blocks until ctx is done and is a no-op without Redis.
func (hc *HybridCache) Listen(ctx context.Context) error {
	if hc.redisCache == nil || hc.memoryCache == nil {
		<-ctx.Done()
		return nil
	}

	return hc.redisCache.subscribeInvalidation(ctx, func(name string) {
		if name == invalidateAllEvent {
			hc.memoryCache.clear()
			return
		}
		hc.memoryCache.delete(name)
	})
}

// Close releases background resources
func (hc *HybridCache) Close() error {
	if hc.memoryCache != nil {
		hc.memoryCache.close()
	}
	if hc.redisCache != nil {
		return hc.redisCache.close()
	}
	return nil
}

// Ping checks the Redis tier, if any
func (hc *HybridCache) Ping(ctx context.Context) error {
	if hc.redisCache == nil {
		return nil
	}
	return hc.redisCache.healthCheck(ctx)
}

// GetStats returns cache statistics
func (hc *HybridCache) GetStats() CacheStats {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	stats := hc.stats
	if stats.TotalOps > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(stats.TotalOps)
	}
	return stats
}

func (hc *HybridCache) recordHit() {
	hc.mu.Lock()
	hc.stats.Hits++
	hc.stats.TotalOps++
	hc.stats.LastUpdated = time.Now()
	hc.mu.Unlock()
}

func (hc *HybridCache) recordMiss() {
	hc.mu.Lock()
	hc.stats.Misses++
	hc.stats.TotalOps++
	hc.stats.LastUpdated = time.Now()
	hc.mu.Unlock()
}

func (hc *HybridCache) recordError() {
	hc.mu.Lock()
	hc.stats.Errors++
	hc.mu.Unlock()
}

const invalidateAllEvent = "*"

// ErrCacheMiss is returned when no tier holds the collection
var ErrCacheMiss = errors.New("cache miss")
