// Package cache provides memoization for process discovery. Mining the
// same log repeatedly — for example while rendering different views of
// one dataset — can skip the subset enumeration entirely on a hit.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
	"sync"

	"github.com/petrimine/petrimine/eventlog"
	"github.com/petrimine/petrimine/mining"
)

// DiscoveryCache caches discovery results keyed by a hash of the log's
// variant multiset. Two logs with the same distinct traces and counts
// produce the same model, regardless of case IDs or trace order.
type DiscoveryCache struct {
	mu        sync.RWMutex
	cache     map[string]*mining.DiscoveryResult
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewDiscoveryCache creates a cache with the specified maximum size.
// When the cache is full the next insert evicts an arbitrary entry.
// Set maxSize to 0 for an unbounded cache.
func NewDiscoveryCache(maxSize int) *DiscoveryCache {
	return &DiscoveryCache{
		cache:   make(map[string]*mining.DiscoveryResult),
		maxSize: maxSize,
	}
}

// HashLog returns a deterministic digest of the log's variant multiset.
// Variants are hashed in sorted key order so insertion order is
// irrelevant.
func HashLog(log *eventlog.EventLog) string {
	variants := log.Variants()
	keys := make([]string, len(variants))
	counts := make(map[string]int, len(variants))
	for i, v := range variants {
		keys[i] = v.Key()
		counts[v.Key()] = v.Count
	}
	sort.Strings(keys)

	h := sha256.New()
	buf := make([]byte, 8)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf, uint64(counts[k]))
		h.Write(buf)
	}
	return string(h.Sum(nil))
}

// Get retrieves a cached result for the log. Returns nil on a miss.
func (c *DiscoveryCache) Get(log *eventlog.EventLog) *mining.DiscoveryResult {
	key := HashLog(log)

	c.mu.Lock()
	defer c.mu.Unlock()

	if result, ok := c.cache[key]; ok {
		c.hits++
		return result
	}
	c.misses++
	return nil
}

// Put stores a result for the log.
func (c *DiscoveryCache) Put(log *eventlog.EventLog, result *mining.DiscoveryResult) {
	key := HashLog(log)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}
	c.cache[key] = result
}

// GetOrDiscover returns the cached result or runs discovery and caches it.
func (c *DiscoveryCache) GetOrDiscover(log *eventlog.EventLog, opts mining.PlaceOptions) (*mining.DiscoveryResult, error) {
	if result := c.Get(log); result != nil {
		return result, nil
	}

	result, err := mining.DiscoverWithOptions(log, opts)
	if err != nil {
		return nil, err
	}
	c.Put(log, result)
	return result, nil
}

// Clear removes all entries.
func (c *DiscoveryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*mining.DiscoveryResult)
}

// Size returns the current number of cached entries.
func (c *DiscoveryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats holds cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns a snapshot of the cache statistics.
func (c *DiscoveryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
