package glyph

import (
	"log/slog"
	"math"
	"sync"
)

// CacheConfig configures a Cache.
type CacheConfig struct {
	// Policy bounds the cache. Nil means Unbounded.
	Policy EvictionPolicy

	// Logger receives debug diagnostics. Nil means the package logger
	// configured with SetLogger.
	Logger *slog.Logger
}

// DefaultCacheConfig returns an append-only configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Policy: Unbounded()}
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// Failures counts rasterization errors; failed glyphs are not cached.
	Failures uint64
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Cache memoizes rasterized glyphs.
//
// Cache is safe for concurrent use. Rasterization of a missing key happens
// under the cache lock, so each resident key is rasterized exactly once.
// Cache must not be copied after creation.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*Entry
	policy  EvictionPolicy
	logger  *slog.Logger
	stats   Stats
}

// NewCache creates a cache with the given configuration.
func NewCache(cfg CacheConfig) *Cache {
	if cfg.Policy == nil {
		cfg.Policy = Unbounded()
	}
	return &Cache{
		entries: make(map[Key]*Entry),
		policy:  cfg.Policy,
		logger:  cfg.Logger,
	}
}

func (c *Cache) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slogger()
}

// GetOrRasterize returns the entry for (font, size, r), rasterizing it on
// the first request. Failures are returned as *GlyphError and are not
// cached, so a later call retries.
func (c *Cache) GetOrRasterize(f Font, size float64, r rune) (*Entry, error) {
	key := Key{Char: r}
	if f != nil {
		key.Font = f.ID()
	}
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return nil, &GlyphError{Key: key, Err: ErrInvalidSize}
	}
	key.Size = SizeKey(size)
	if key.Size <= 0 {
		return nil, &GlyphError{Key: key, Err: ErrInvalidSize}
	}
	if f == nil {
		return nil, &GlyphError{Key: key, Err: ErrGlyphNotFound}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.stats.Hits++
		c.policy.Touch(key)
		return e, nil
	}
	c.stats.Misses++

	e, err := f.Rasterize(r, key.Size)
	if err != nil {
		c.stats.Failures++
		return nil, &GlyphError{Key: key, Err: err}
	}
	e.Key = key
	c.entries[key] = e

	for _, k := range c.policy.Insert(key, e) {
		if _, ok := c.entries[k]; !ok {
			continue
		}
		delete(c.entries, k)
		c.stats.Evictions++
		c.log().Debug("glyph: evicted", "key", k)
	}
	return e, nil
}

// Lookup returns a resident entry without rasterizing.
func (c *Cache) Lookup(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if ok {
		c.policy.Touch(key)
	}
	return e, ok
}

// Remove drops a key. Returns true if it was resident.
func (c *Cache) Remove(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.policy.Remove(key)
	return true
}

// Clear removes all entries. Statistics are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]*Entry)
	c.policy.Reset()
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Len = len(c.entries)
	return s
}
