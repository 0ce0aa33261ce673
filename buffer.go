package renderbuf

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// LayoutVersion identifies the byte layout returned by Bytes and IntoBytes:
// row-major RGBA8, straight alpha, 4 bytes per pixel, no padding or header.
// It changes only if that layout changes.
const LayoutVersion = 1

// RenderBuffer is an in-memory RGBA pixel buffer used as a render target.
//
// Pixels are stored row by row, 4 bytes per pixel (R, G, B, A) with
// straight alpha. The buffer is not safe for concurrent use; a Rasterizer
// owns it for the duration of a render pass.
type RenderBuffer struct {
	width  int
	height int
	pix    []uint8
	gen    uint64
}

// New creates a buffer of the given dimensions filled with transparent
// black. Negative dimensions are treated as zero. New panics with an error
// wrapping ErrBufferTooLarge when width*height*4 overflows an int.
func New(width, height int) *RenderBuffer {
	width, height = max(width, 0), max(height, 0)
	return &RenderBuffer{
		width:  width,
		height: height,
		pix:    make([]uint8, mustPixelBytes(width, height)),
	}
}

// FromBytes wraps data as a width x height buffer without copying it.
//
// It fails with *ContainerTooSmallError when either dimension is negative,
// when width*height*4 overflows an int, or when len(data) is not exactly
// width*height*4. The error's Pixels is width*height as given, saturated
// to the int range.
func FromBytes(width, height int, data []byte) (*RenderBuffer, error) {
	n, ok := pixelBytes(width, height)
	if !ok || len(data) != n {
		return nil, &ContainerTooSmallError{Len: len(data), Pixels: pixelCount(width, height)}
	}
	return &RenderBuffer{
		width:  width,
		height: height,
		pix:    data,
	}, nil
}

// pixelBytes returns width*height*4, or false when a dimension is negative
// or the product overflows an int.
func pixelBytes(width, height int) (int, bool) {
	if width < 0 || height < 0 {
		return 0, false
	}
	if width != 0 && height > math.MaxInt/4/width {
		return 0, false
	}
	return width * height * 4, true
}

func mustPixelBytes(width, height int) int {
	n, ok := pixelBytes(width, height)
	if !ok {
		panic(fmt.Errorf("%w: %dx%d", ErrBufferTooLarge, width, height))
	}
	return n
}

// pixelCount returns width*height saturated to [math.MinInt, math.MaxInt].
func pixelCount(width, height int) int {
	if width == 0 || height == 0 {
		return 0
	}
	neg := (width < 0) != (height < 0)
	if width == math.MinInt || height == math.MinInt {
		if neg {
			return math.MinInt
		}
		return math.MaxInt
	}
	aw, ah := width, height
	if aw < 0 {
		aw = -aw
	}
	if ah < 0 {
		ah = -ah
	}
	if aw > math.MaxInt/ah {
		if neg {
			return math.MinInt
		}
		return math.MaxInt
	}
	return width * height
}

// FromImage creates a buffer holding a copy of img, converted to straight
// alpha RGBA.
func FromImage(img image.Image) *RenderBuffer {
	b := img.Bounds()
	rb := New(b.Dx(), b.Dy())
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < rb.height; y++ {
			src := n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(rb.pix[y*rb.width*4:(y+1)*rb.width*4], src[:rb.width*4])
		}
		return rb
	}
	dst := &image.NRGBA{Pix: rb.pix, Stride: rb.width * 4, Rect: image.Rect(0, 0, rb.width, rb.height)}
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return rb
}

// Width returns the width of the buffer in pixels.
func (b *RenderBuffer) Width() int {
	return b.width
}

// Height returns the height of the buffer in pixels.
func (b *RenderBuffer) Height() int {
	return b.height
}

// Size returns width and height.
func (b *RenderBuffer) Size() (width, height int) {
	return b.width, b.height
}

// Generation is incremented every time the buffer is resized.
func (b *RenderBuffer) Generation() uint64 {
	return b.gen
}

// PixelRect returns the buffer extent as a Rect.
func (b *RenderBuffer) PixelRect() Rect {
	return Rect{X1: b.width, Y1: b.height}
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *RenderBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *RenderBuffer) offset(x, y int) int {
	if !b.InBounds(x, y) {
		panic(&OutOfBoundsError{X: x, Y: y, Width: b.width, Height: b.height})
	}
	return (y*b.width + x) * 4
}

// Pixel returns the color of the pixel at (x, y).
// It panics with *OutOfBoundsError if the coordinates are outside the buffer.
func (b *RenderBuffer) Pixel(x, y int) RGBA {
	return fromNRGBA(b.NRGBAAt(x, y))
}

// SetPixel sets the pixel at (x, y), quantizing each channel to 8 bits.
// It panics with *OutOfBoundsError if the coordinates are outside the buffer.
func (b *RenderBuffer) SetPixel(x, y int, c RGBA) {
	b.SetNRGBA(x, y, c.NRGBA())
}

// NRGBAAt returns the raw 8-bit value of the pixel at (x, y).
func (b *RenderBuffer) NRGBAAt(x, y int) color.NRGBA {
	i := b.offset(x, y)
	p := b.pix[i : i+4 : i+4]
	return color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// SetNRGBA writes a raw 8-bit value to the pixel at (x, y).
func (b *RenderBuffer) SetNRGBA(x, y int, c color.NRGBA) {
	i := b.offset(x, y)
	p := b.pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Clear fills the entire buffer with a color.
func (b *RenderBuffer) Clear(c RGBA) {
	n := c.NRGBA()
	if len(b.pix) == 0 {
		return
	}
	b.pix[0], b.pix[1], b.pix[2], b.pix[3] = n.R, n.G, n.B, n.A
	// Doubling copy fills the rest in O(log n) copy calls.
	for filled := 4; filled < len(b.pix); filled *= 2 {
		copy(b.pix[filled:], b.pix[:filled])
	}
}

// Bytes returns the backing pixel slice. The slice aliases the buffer:
// writes through it are visible to the buffer and vice versa.
func (b *RenderBuffer) Bytes() []byte {
	return b.pix
}

// IntoBytes transfers the pixel storage to the caller. The buffer is left
// empty (0x0) and its generation advanced.
func (b *RenderBuffer) IntoBytes() []byte {
	pix := b.pix
	b.pix = nil
	b.width, b.height = 0, 0
	b.gen++
	return pix
}

// Resize reallocates the buffer with new dimensions, cleared to transparent
// black. Anything derived from the old contents (such as GPU texture
// handles) becomes stale. Like New, it panics with ErrBufferTooLarge when
// the byte size overflows an int, leaving the buffer unchanged.
func (b *RenderBuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == b.width && height == b.height {
		return
	}
	n := mustPixelBytes(width, height)
	b.width, b.height = width, height
	b.pix = make([]uint8, n)
	b.gen++
}

// Clone returns a deep copy of the buffer.
func (b *RenderBuffer) Clone() *RenderBuffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &RenderBuffer{width: b.width, height: b.height, pix: pix}
}

// ToNRGBA returns a copy of the buffer as an *image.NRGBA.
func (b *RenderBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}

// At implements the image.Image interface. Out-of-bounds coordinates
// yield transparent, as image.Image requires.
func (b *RenderBuffer) At(x, y int) color.Color {
	if !b.InBounds(x, y) {
		return color.NRGBA{}
	}
	return b.NRGBAAt(x, y)
}

// Bounds implements the image.Image interface.
func (b *RenderBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *RenderBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}
