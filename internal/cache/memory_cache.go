package cache

import (
	"slices"
	"sync"
	"time"

	"github.com/prajwalbharadwajbm/crmbeacon/internal/store"
)

// cacheItem represents a cached snapshot with expiration
type cacheItem struct {
	snap      store.Snapshot
	expiresAt time.Time
}

func (ci *cacheItem) isExpired() bool {
	return time.Now().After(ci.expiresAt)
}

// memoryCache implements in-memory caching with TTL
type memoryCache struct {
	items     map[string]*cacheItem
	mu        sync.RWMutex
	maxSize   int
	stopChan  chan struct{}
	closeOnce sync.Once
}

func newMemoryCache(maxSize int) *memoryCache {
	mc := &memoryCache{
		items:    make(map[string]*cacheItem),
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
	}

	go mc.cleanup()

	return mc
}

func (mc *memoryCache) get(name string) (store.Snapshot, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	item, exists := mc.items[name]
	if !exists || item.isExpired() {
		return store.Snapshot{}, false
	}

	snap := item.snap
	snap.Data = slices.Clone(snap.Data)
	return snap, true
}

// set stores snap unless a live entry already holds a newer version
func (mc *memoryCache) set(name string, snap store.Snapshot, ttl time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if current, ok := mc.items[name]; ok && !current.isExpired() && current.snap.Version > snap.Version {
		return
	}

	snap.Data = slices.Clone(snap.Data)
	mc.items[name] = &cacheItem{
		snap:      snap,
		expiresAt: time.Now().Add(ttl),
	}

	mc.evictIfNeeded(name)
}

func (mc *memoryCache) delete(name string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	delete(mc.items, name)
}

func (mc *memoryCache) clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*cacheItem)
}

// evictIfNeeded removes expired items and then arbitrary ones until the
// cache fits maxSize. keep is never evicted. Callers hold mc.mu.
func (mc *memoryCache) evictIfNeeded(keep string) {
	for key, item := range mc.items {
		if item.isExpired() {
			delete(mc.items, key)
		}
	}

	if mc.maxSize <= 0 || len(mc.items) <= mc.maxSize {
		return
	}

	count := len(mc.items) - mc.maxSize
	for key := range mc.items {
		if count <= 0 {
			break
		}
		if key == keep {
			continue
		}
		delete(mc.items, key)
		count--
	}
}

// cleanup periodically removes expired items
func (mc *memoryCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.mu.Lock()
			for key, item := range mc.items {
				if item.isExpired() {
					delete(mc.items, key)
				}
			}
			mc.mu.Unlock()
		case <-mc.stopChan:
			return
		}
	}
}

func (mc *memoryCache) close() {
	mc.closeOnce.Do(func() { close(mc.stopChan) })
}

func (mc *memoryCache) size() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.items)
}
