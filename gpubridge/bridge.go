// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpubridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/renderbuf"
)

// Common errors returned by the bridge.
var (
	// ErrNilSurface is returned when the bridge has no texture creator.
	ErrNilSurface = errors.New("gpubridge: nil surface")

	// ErrInvalidDimensions is returned for zero or oversized textures.
	ErrInvalidDimensions = errors.New("gpubridge: invalid dimensions")

	// ErrUnsupportedFormat is returned when the surface wants a texture
	// format the bridge cannot produce from RGBA8 pixels.
	ErrUnsupportedFormat = errors.New("gpubridge: unsupported texture format")

	// ErrStaleHandle is returned by Update when the buffer was resized
	// after the handle was created.
	ErrStaleHandle = errors.New("gpubridge: stale texture handle")

	// ErrNotUpdatable is returned by Update when the texture does not
	// accept new data.
	ErrNotUpdatable = errors.New("gpubridge: texture does not support updates")

	// ErrReleased is returned when a released handle is used.
	ErrReleased = errors.New("gpubridge: texture handle released")
)

// UploadError reports a failed texture upload.
type UploadError struct {
	Op     string // "create", "update" or "shader"
	Width  int
	Height int
	Format gputypes.TextureFormat
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("gpubridge: %s %dx%d %v texture: %v", e.Op, e.Width, e.Height, e.Format, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// DefaultMaxTextureSize is the largest texture edge accepted unless
// WithMaxTextureSize says otherwise.
const DefaultMaxTextureSize = 8192

// Surface creates GPU textures from RGBA pixel data. Hosts typically pass
// the creator returned by their TextureDrawer.
type Surface = gpucontext.TextureCreator

// Option configures a Bridge.
type Option func(*Bridge)

// WithDeviceProvider takes the texture format from the provider's
// surface.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(b *Bridge) {
		if p != nil {
			b.format = p.SurfaceFormat()
		}
	}
}

// WithFormat sets the texture format directly.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(b *Bridge) {
		b.format = f
	}
}

// WithMaxTextureSize sets the largest accepted texture width or height.
func WithMaxTextureSize(n int) Option {
	return func(b *Bridge) {
		if n > 0 {
			b.maxSize = n
		}
	}
}

// WithLogger sets the bridge's logger. By default it logs through
// renderbuf.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// Bridge converts RenderBuffer snapshots into GPU textures.
//
// Bridge is not safe for concurrent use.
type Bridge struct {
	surface    Surface
	format     gputypes.TextureFormat
	maxSize    int
	logger     *slog.Logger
	shaderSent bool
}

// New creates a Bridge that uploads through surface.
func New(surface Surface, opts ...Option) *Bridge {
	b := &Bridge{
		surface: surface,
		format:  gputypes.TextureFormatRGBA8Unorm,
		maxSize: DefaultMaxTextureSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Format returns the texture format the bridge uploads.
func (b *Bridge) Format() gputypes.TextureFormat {
	return b.format
}

func (b *Bridge) log() *slog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return renderbuf.Logger()
}

// TextureHandle is a GPU texture made from a RenderBuffer snapshot.
type TextureHandle struct {
	// Texture is the host texture. It implements gpucontext.TextureUpdater
	// when the host supports in-place updates.
	Texture gpucontext.Texture

	Width, Height int
	Format        gputypes.TextureFormat

	// Generation is the source buffer's generation at creation.
	Generation uint64

	released bool
}

// Stale reports whether buf no longer matches the dimensions the handle
// was created from.
func (h *TextureHandle) Stale(buf *renderbuf.RenderBuffer) bool {
	return buf.Generation() != h.Generation || buf.Width() != h.Width || buf.Height() != h.Height
}

// Released reports whether Release was called on the handle.
func (h *TextureHandle) Released() bool {
	return h.released
}

// ToTexture uploads a snapshot of buf to a new texture.
func (b *Bridge) ToTexture(buf *renderbuf.RenderBuffer) (*TextureHandle, error) {
	w, h := buf.Size()
	if b.surface == nil {
		return nil, b.uploadError("create", w, h, ErrNilSurface)
	}
	data, err := b.pixels(buf)
	if err != nil {
		return nil, b.uploadError("create", w, h, err)
	}
	if err := b.sendShader(); err != nil {
		return nil, b.uploadError("shader", w, h, err)
	}
	tex, err := b.surface.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return nil, b.uploadError("create", w, h, err)
	}
	b.log().Debug("gpubridge: texture created", "width", w, "height", h, "format", b.format)
	return &TextureHandle{
		Texture:    tex,
		Width:      w,
		Height:     h,
		Format:     b.format,
		Generation: buf.Generation(),
	}, nil
}

// Update uploads a new snapshot of buf into the texture behind h. The
// handle must have been made from a buffer of the same size and
// generation.
func (b *Bridge) Update(h *TextureHandle, buf *renderbuf.RenderBuffer) error {
	if h == nil || h.released {
		return ErrReleased
	}
	if h.Stale(buf) {
		return fmt.Errorf("%w: handle %dx%d gen %d, buffer %dx%d gen %d",
			ErrStaleHandle, h.Width, h.Height, h.Generation, buf.Width(), buf.Height(), buf.Generation())
	}
	up, ok := h.Texture.(gpucontext.TextureUpdater)
	if !ok {
		return ErrNotUpdatable
	}
	data, err := b.pixels(buf)
	if err != nil {
		return b.uploadError("update", h.Width, h.Height, err)
	}
	if err := up.UpdateData(data); err != nil {
		return b.uploadError("update", h.Width, h.Height, err)
	}
	b.log().Debug("gpubridge: texture updated", "width", h.Width, "height", h.Height)
	return nil
}

// Release destroys the texture behind h if it supports destruction.
// Releasing a handle twice is a no-op.
func (b *Bridge) Release(h *TextureHandle) {
	if h == nil || h.released {
		return
	}
	h.released = true
	if d, ok := h.Texture.(textureDestroyer); ok {
		d.Destroy()
	}
}

// textureDestroyer matches the host texture's Destroy method.
type textureDestroyer interface {
	Destroy()
}

// pixels validates buf against the bridge limits and returns a copy of its
// bytes in the upload format.
func (b *Bridge) pixels(buf *renderbuf.RenderBuffer) ([]byte, error) {
	w, h := buf.Size()
	if w <= 0 || h <= 0 || w > b.maxSize || h > b.maxSize {
		return nil, fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidDimensions, w, h, b.maxSize)
	}
	switch b.format {
	case gputypes.TextureFormatUndefined, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return append([]byte(nil), buf.Bytes()...), nil
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb:
		return swizzleBGRA(buf.Bytes()), nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// swizzleBGRA returns a copy of RGBA pixels with red and blue swapped.
func swizzleBGRA(src []byte) []byte {
	dst := make([]byte, len(src))
	for i := 0; i+3 < len(src); i += 4 {
		dst[i+0] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+0]
		dst[i+3] = src[i+3]
	}
	return dst
}

// sendShader hands the blit shader to surfaces that accept one, once.
func (b *Bridge) sendShader() error {
	if b.shaderSent {
		return nil
	}
	sink, ok := b.surface.(blitShaderSink)
	if !ok {
		b.shaderSent = true
		return nil
	}
	words, err := BlitShaderSPIRV()
	if err != nil {
		return err
	}
	if err := sink.SetBlitShader(words); err != nil {
		return err
	}
	b.shaderSent = true
	return nil
}

func (b *Bridge) uploadError(op string, w, h int, err error) *UploadError {
	return &UploadError{Op: op, Width: w, Height: h, Format: b.format, Err: err}
}
