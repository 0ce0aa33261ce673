// Package glyph rasterizes and caches glyph coverage masks.
//
// A glyph is identified by a Key: the font's identifier, the pixel size in
// 26.6 fixed point and the character. Cache.GetOrRasterize fills the cache
// lazily on a miss and returns the same Entry for the same Key on every
// later call, so the coverage mask and metrics of a key are bit-identical
// for as long as the entry is resident. Entries are shared and must be
// treated as read-only.
//
// # Eviction
//
// By default the cache only grows. Long-running processes can bound it by
// installing an EvictionPolicy, such as the least-recently-used policy
// returned by NewLRU:
//
//	cache := glyph.NewCache(glyph.CacheConfig{Policy: glyph.NewLRU(1024)})
//
// The policy decides which keys to drop; it never changes what
// GetOrRasterize returns for a resident key.
//
// # Fonts
//
// OpenTypeFont rasterizes TrueType/OpenType data with
// golang.org/x/image/font/opentype. DefaultFont returns Go Regular.
//
// # Shaping
//
// A Shaper computes pen offsets for a run of runes. KerningShaper applies
// the font's kerning table; GoTextShaper runs HarfBuzz shaping from
// github.com/go-text/typesetting.
package glyph
