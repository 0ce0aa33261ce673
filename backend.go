package renderbuf

import (
	"image"

	"github.com/gogpu/renderbuf/glyph"
)

// Backend is the capability set a 2D immediate-mode graphics API expects
// from a render target.
//
// Rasterizer implements it in software. The gpubridge package provides a
// hardware-side implementation with the same contract, and the recording
// package captures calls for later playback, so callers can be written
// against Backend alone.
//
// Coordinates are in user space and pass through the current transform.
// Drawing methods that return an error leave the target unmodified when
// the primitive is rejected.
type Backend interface {
	// Size returns the target dimensions in pixels.
	Size() (width, height int)

	// Clear fills the whole target, ignoring the clip.
	Clear(c RGBA)

	SetTransform(m Matrix)
	Transform() Matrix

	// PushClip narrows the clip to its intersection with r (pixel space).
	PushClip(r Rect)
	// PopClip restores the previous clip. Popping an empty stack is a no-op.
	PopClip()
	// Clip returns the active clip rectangle.
	Clip() Rect

	// FillPolygon fills a polygon using the even-odd rule.
	FillPolygon(pts []Point, c RGBA) error
	// FillTriangles fills a triangle list; len(tris) must be a multiple of 3.
	FillTriangles(tris []Point, c RGBA) error
	// FillTrianglesUV fills textured triangles. uvs are normalized texture
	// coordinates, one per vertex.
	FillTrianglesUV(tris, uvs []Point, tex image.Image, tint RGBA) error

	// DrawLine draws segment ab as a quad of the given width.
	DrawLine(a, b Point, width float64, c RGBA) error
	DrawRect(x, y, w, h float64, c RGBA) error

	// DrawImage blits img with its top-left corner at (x, y).
	DrawImage(img image.Image, x, y float64) error
	// DrawImageRect blits the src pixels of img into the user-space
	// rectangle (x, y, w, h), multiplied by tint.
	DrawImageRect(img image.Image, src Rect, x, y, w, h float64, tint RGBA) error

	// DrawText draws text with its first baseline starting at (x, y).
	// A nil font selects the default font.
	DrawText(f glyph.Font, size float64, text string, x, y float64, c RGBA) error
	// MeasureText returns the advance width and line-box height of text.
	MeasureText(f glyph.Font, size float64, text string) (w, h float64, err error)
}

var _ Backend = (*Rasterizer)(nil)
