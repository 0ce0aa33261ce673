package renderbuf

import (
	"sync"

	"github.com/gogpu/renderbuf/glyph"
)

// Option configures a Rasterizer during creation.
//
// Example:
//
//	// Default: shared unbounded glyph cache, identity transform
//	r := renderbuf.NewRasterizer(buf)
//
//	// Bounded cache and kerning
//	cache := glyph.NewCache(glyph.CacheConfig{Policy: glyph.NewLRU(512)})
//	r := renderbuf.NewRasterizer(buf,
//	    renderbuf.WithGlyphCache(cache),
//	    renderbuf.WithShaper(glyph.KerningShaper{}))
type Option func(*options)

type options struct {
	cache     *glyph.Cache
	cacheSet  bool
	shaper    glyph.Shaper
	transform Matrix
}

func defaultOptions() options {
	return options{
		transform: Identity(),
	}
}

// WithGlyphCache sets the glyph cache used for text. Passing nil disables
// text drawing: DrawText and MeasureText then fail with ErrNoGlyphCache.
//
// Without this option the Rasterizer uses a process-wide unbounded cache
// shared by all rasterizers.
func WithGlyphCache(c *glyph.Cache) Option {
	return func(o *options) {
		o.cache = c
		o.cacheSet = true
	}
}

// WithShaper sets the shaper used to position glyphs. Without it the pen
// advances by each glyph's own advance.
func WithShaper(s glyph.Shaper) Option {
	return func(o *options) {
		o.shaper = s
	}
}

// WithTransform sets the initial transform.
func WithTransform(m Matrix) Option {
	return func(o *options) {
		o.transform = m
	}
}

var (
	sharedCacheOnce sync.Once
	sharedCache     *glyph.Cache
)

// SharedGlyphCache returns the process-wide glyph cache used by
// rasterizers created without WithGlyphCache.
func SharedGlyphCache() *glyph.Cache {
	sharedCacheOnce.Do(func() {
		sharedCache = glyph.NewCache(glyph.DefaultCacheConfig())
	})
	return sharedCache
}
