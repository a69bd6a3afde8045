package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"scrollstory/internal/logging"
)

// ParseCache keeps parsed datasets keyed by source, invalidated by a hash of
// the fetched bytes. A rebuild after an edit re-fetches every source but only
// re-parses the ones whose content changed. Cached datasets are shared
// between builds and must be treated as read-only.
type ParseCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry

	// Statistics (atomic for lock-free reads)
	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	hash    string
	dataset *Dataset
	stored  time.Time
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewParseCache returns an empty cache.
func NewParseCache() *ParseCache {
	return &ParseCache{entries: make(map[string]*cacheEntry)}
}

// GetOrParse returns the cached dataset for src if content hashes the same
// as last time, otherwise it calls parse and caches a successful result.
func (c *ParseCache) GetOrParse(src Source, content []byte, parse func() (*Dataset, error)) (*Dataset, error) {
	key := src.String()
	hash := computeHash(content)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && entry.hash == hash {
		c.hits.Add(1)
		logging.LoaderDebug("parse cache HIT: %s (hash: %s)", key, hash[:8])
		return entry.dataset, nil
	}

	c.misses.Add(1)
	ds, err := parse()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{hash: hash, dataset: ds, stored: time.Now()}
	c.mu.Unlock()
	logging.LoaderDebug("parse cache STORED: %s", key)
	return ds, nil
}

// Invalidate drops every entry for location, whatever its format.
func (c *ParseCache) Invalidate(location string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.dataset != nil && e.dataset.Source.Location == location {
			delete(c.entries, key)
		}
	}
}

// Clear drops every entry and resets the counters.
func (c *ParseCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns the current counters.
func (c *ParseCache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return CacheStats{Entries: n, Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func computeHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
