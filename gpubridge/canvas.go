// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpubridge

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/renderbuf"
	"github.com/gogpu/renderbuf/glyph"
)

var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("gpubridge: canvas is closed")

	// ErrNilBridge is returned when NewCanvas is given a nil Bridge.
	ErrNilBridge = errors.New("gpubridge: nil bridge")
)

// Canvas is a renderbuf.Backend whose pixels are shown through a GPU
// texture. Drawing goes to a software Rasterizer; Flush uploads the result
// when anything changed since the last upload.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	*renderbuf.Rasterizer

	bridge      *Bridge
	handle      *TextureHandle
	dirty       bool
	sizeChanged bool
	closed      bool
}

var _ renderbuf.Backend = (*Canvas)(nil)

// NewCanvas creates a width x height canvas uploading through bridge.
// opts configure the underlying Rasterizer.
func NewCanvas(bridge *Bridge, width, height int, opts ...renderbuf.Option) (*Canvas, error) {
	if bridge == nil {
		return nil, ErrNilBridge
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Canvas{
		Rasterizer: renderbuf.NewRasterizer(renderbuf.New(width, height), opts...),
		bridge:     bridge,
		dirty:      true,
	}, nil
}

// IsDirty reports whether the canvas has drawing not yet uploaded.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the canvas for upload on the next Flush. Call it after
// writing to Buffer directly.
func (c *Canvas) MarkDirty() {
	c.dirty = true
}

// Resize changes the canvas size, clearing it. The next Flush creates a
// new texture.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if w, h := c.Size(); w == width && h == height {
		return nil
	}
	c.Rasterizer.Resize(width, height)
	c.sizeChanged = true
	c.dirty = true
	return nil
}

// Flush uploads the canvas if it changed and returns the current texture.
// The texture is created on the first Flush and recreated after Resize.
func (c *Canvas) Flush() (*TextureHandle, error) {
	if c.closed {
		return nil, ErrCanvasClosed
	}
	if c.sizeChanged && c.handle != nil {
		c.bridge.Release(c.handle)
		c.handle = nil
	}
	c.sizeChanged = false
	if !c.dirty && c.handle != nil {
		return c.handle, nil
	}

	buf := c.Buffer()
	if c.handle != nil {
		err := c.bridge.Update(c.handle, buf)
		switch {
		case err == nil:
			c.dirty = false
			return c.handle, nil
		case errors.Is(err, ErrNotUpdatable):
			c.bridge.Release(c.handle)
			c.handle = nil
		default:
			return nil, err
		}
	}

	h, err := c.bridge.ToTexture(buf)
	if err != nil {
		return nil, err
	}
	c.handle = h
	c.dirty = false
	return h, nil
}

// Texture returns the current texture without flushing, or nil before the
// first Flush.
func (c *Canvas) Texture() *TextureHandle {
	return c.handle
}

// RenderTo flushes the canvas and draws its texture at (x, y).
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer, x, y float32) error {
	h, err := c.Flush()
	if err != nil {
		return err
	}
	return dc.DrawTexture(h.Texture, x, y)
}

// Close releases the texture. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.bridge.Release(c.handle)
	c.handle = nil
	return nil
}

// Clear implements renderbuf.Backend.
func (c *Canvas) Clear(col renderbuf.RGBA) {
	c.Rasterizer.Clear(col)
	c.dirty = true
}

// FillPolygon implements renderbuf.Backend.
func (c *Canvas) FillPolygon(pts []renderbuf.Point, col renderbuf.RGBA) error {
	return c.mark(c.Rasterizer.FillPolygon(pts, col))
}

// FillTriangles implements renderbuf.Backend.
func (c *Canvas) FillTriangles(tris []renderbuf.Point, col renderbuf.RGBA) error {
	return c.mark(c.Rasterizer.FillTriangles(tris, col))
}

// FillTrianglesUV implements renderbuf.Backend.
func (c *Canvas) FillTrianglesUV(tris, uvs []renderbuf.Point, tex image.Image, tint renderbuf.RGBA) error {
	return c.mark(c.Rasterizer.FillTrianglesUV(tris, uvs, tex, tint))
}

// DrawLine implements renderbuf.Backend.
func (c *Canvas) DrawLine(a, b renderbuf.Point, width float64, col renderbuf.RGBA) error {
	return c.mark(c.Rasterizer.DrawLine(a, b, width, col))
}

// DrawRect implements renderbuf.Backend.
func (c *Canvas) DrawRect(x, y, w, h float64, col renderbuf.RGBA) error {
	return c.mark(c.Rasterizer.DrawRect(x, y, w, h, col))
}

// DrawImage implements renderbuf.Backend.
func (c *Canvas) DrawImage(img image.Image, x, y float64) error {
	return c.mark(c.Rasterizer.DrawImage(img, x, y))
}

// DrawImageRect implements renderbuf.Backend.
func (c *Canvas) DrawImageRect(img image.Image, src renderbuf.Rect, x, y, w, h float64, tint renderbuf.RGBA) error {
	return c.mark(c.Rasterizer.DrawImageRect(img, src, x, y, w, h, tint))
}

// DrawText implements renderbuf.Backend. Glyph errors still leave the
// other glyphs drawn, so the canvas is marked dirty either way.
func (c *Canvas) DrawText(f glyph.Font, size float64, text string, x, y float64, col renderbuf.RGBA) error {
	err := c.Rasterizer.DrawText(f, size, text, x, y, col)
	c.dirty = true
	return err
}

// mark flags the canvas dirty when a primitive was drawn. Rejected
// primitives leave the buffer untouched.
func (c *Canvas) mark(err error) error {
	if err == nil {
		c.dirty = true
	}
	return err
}
