package recording

import (
	"image"

	"github.com/gogpu/renderbuf/glyph"
)

// ResourcePool stores resources referenced by recording commands.
// Resources are stored in slices indexed by their reference types.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	images []image.Image
	fonts  []glyph.Font
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		images: make([]image.Image, 0, 8),
		fonts:  make([]glyph.Font, 0, 4),
	}
}

// AddImage adds an image to the pool and returns its reference.
// Images are stored directly; callers must not mutate them afterwards.
func (p *ResourcePool) AddImage(img image.Image) ImageRef {
	p.images = append(p.images, img)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return ImageRef(uint32(len(p.images) - 1))
}

// GetImage returns the image for the given reference.
// Returns nil if the reference is invalid.
func (p *ResourcePool) GetImage(ref ImageRef) image.Image {
	if int(ref) >= len(p.images) {
		return nil
	}
	return p.images[ref]
}

// ImageCount returns the number of images in the pool.
func (p *ResourcePool) ImageCount() int {
	return len(p.images)
}

// AddFont adds a font to the pool and returns its reference. A nil font
// yields InvalidRef, which playback maps to the default font. Fonts with
// the same ID share a reference.
func (p *ResourcePool) AddFont(f glyph.Font) FontRef {
	if f == nil {
		return FontRef(InvalidRef)
	}
	for i, have := range p.fonts {
		if have.ID() == f.ID() {
			// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
			return FontRef(uint32(i))
		}
	}
	p.fonts = append(p.fonts, f)
	// #nosec G115 -- pool size is bounded by available memory, well under uint32 max
	return FontRef(uint32(len(p.fonts) - 1))
}

// GetFont returns the font for the given reference.
// Returns nil if the reference is invalid.
func (p *ResourcePool) GetFont(ref FontRef) glyph.Font {
	if !ref.IsValid() || int(ref) >= len(p.fonts) {
		return nil
	}
	return p.fonts[ref]
}

// FontCount returns the number of fonts in the pool.
func (p *ResourcePool) FontCount() int {
	return len(p.fonts)
}
