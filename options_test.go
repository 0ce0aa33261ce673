package renderbuf

import (
	"testing"

	"github.com/gogpu/renderbuf/glyph"
)

// TestNewRasterizerDefault tests that NewRasterizer uses the shared glyph
// cache and the identity transform by default.
func TestNewRasterizerDefault(t *testing.T) {
	r := NewRasterizer(New(10, 20))
	if w, h := r.Size(); w != 10 || h != 20 {
		t.Errorf("Size() = %d, %d, want 10, 20", w, h)
	}
	if r.GlyphCache() != SharedGlyphCache() {
		t.Error("default rasterizer does not use the shared glyph cache")
	}
	if !r.Transform().IsIdentity() {
		t.Errorf("Transform() = %v, want identity", r.Transform())
	}
	if r.ClipDepth() != 0 {
		t.Errorf("ClipDepth() = %d, want 0", r.ClipDepth())
	}
}

func TestSharedGlyphCache_Singleton(t *testing.T) {
	if SharedGlyphCache() != SharedGlyphCache() {
		t.Error("SharedGlyphCache returned different caches")
	}
}

func TestWithGlyphCache(t *testing.T) {
	c := glyph.NewCache(glyph.CacheConfig{Policy: glyph.NewLRU(4)})
	r := NewRasterizer(New(1, 1), WithGlyphCache(c))
	if r.GlyphCache() != c {
		t.Error("WithGlyphCache not applied")
	}
}

func TestWithGlyphCache_Nil(t *testing.T) {
	r := NewRasterizer(New(4, 4), WithGlyphCache(nil))
	if r.GlyphCache() != nil {
		t.Error("GlyphCache() != nil after WithGlyphCache(nil)")
	}
}

func TestWithTransform(t *testing.T) {
	buf := New(4, 4)
	r := NewRasterizer(buf, WithTransform(Translate(2, 0)))
	if err := r.DrawRect(0, 0, 1, 1, Red); err != nil {
		t.Fatal(err)
	}
	if buf.NRGBAAt(2, 0).A != 255 || buf.NRGBAAt(0, 0).A != 0 {
		t.Errorf("initial transform not applied:\n%v", coverage(buf))
	}
}

func TestWithShaper(t *testing.T) {
	r := NewRasterizer(New(1, 1), WithShaper(glyph.KerningShaper{}))
	if r.shaper == nil {
		t.Error("WithShaper not applied")
	}
}
