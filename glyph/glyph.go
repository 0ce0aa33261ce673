package glyph

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/math/fixed"
)

// Errors reported for individual glyphs.
var (
	// ErrGlyphNotFound means the font has no glyph for the character.
	ErrGlyphNotFound = errors.New("glyph: no glyph for character")

	// ErrInvalidSize means the requested pixel size is not a positive
	// finite number.
	ErrInvalidSize = errors.New("glyph: invalid size")
)

// FontID identifies a font. Fonts with identical data share an ID.
type FontID uint64

// Key identifies one rasterized glyph.
type Key struct {
	Font FontID
	// Size is the pixel size (pixels per em) in 26.6 fixed point.
	Size fixed.Int26_6
	Char rune
}

func (k Key) String() string {
	return fmt.Sprintf("font=%016x size=%v char=%q", uint64(k.Font), k.Size, k.Char)
}

// SizeKey converts a pixel size to the fixed-point form used in Key.
func SizeKey(size float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(size * 64))
}

// Mask is a rasterized coverage mask.
type Mask struct {
	Width, Height int
	// Coverage holds Width*Height values, row-major, 0 (empty) to 255 (full).
	Coverage []uint8
	// OriginX and OriginY locate the mask's top-left pixel relative to the
	// pen position on the baseline.
	OriginX, OriginY int
}

// At returns the coverage at mask pixel (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Coverage[y*m.Width+x]
}

// Entry is a cached glyph: coverage mask plus metrics.
type Entry struct {
	Key  Key
	Mask Mask
	// Advance is the horizontal pen advance in pixels.
	Advance float64
	// VAdvance is the vertical advance (line height) in pixels.
	VAdvance float64
}

// entryOverhead approximates the fixed cost of an Entry in bytes.
const entryOverhead = 96

// ByteSize approximates the memory held by the entry.
func (e *Entry) ByteSize() int {
	return len(e.Mask.Coverage) + entryOverhead
}

// GlyphError reports a failure to rasterize one glyph.
type GlyphError struct {
	Key Key
	Err error
}

func (e *GlyphError) Error() string {
	return fmt.Sprintf("glyph: rasterize %v: %v", e.Key, e.Err)
}

func (e *GlyphError) Unwrap() error {
	return e.Err
}
