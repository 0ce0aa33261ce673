// Package renderbuf provides an in-memory RGBA render target for 2D
// immediate-mode graphics.
//
// # Overview
//
// A RenderBuffer holds width*height pixels as row-major RGBA8 with straight
// alpha. A Rasterizer draws into it: polygons, triangle lists, lines,
// images and text, under a 2x3 affine transform and a stack of clip
// rectangles. The Backend interface describes that drawing contract so the
// software Rasterizer, the GPU-side Canvas in package gpubridge and the
// command Recorder in package recording are interchangeable.
//
// # Quick Start
//
//	buf := renderbuf.New(4, 4)
//	r := renderbuf.NewRasterizer(buf)
//	r.Clear(renderbuf.Transparent)
//	_ = r.DrawRect(1, 1, 2, 2, renderbuf.Blue)
//	fmt.Println(buf.Pixel(1, 1)) // {0 0 1 1}
//
// # Coverage
//
// Pixel (x, y) is covered by a primitive when its center (x+0.5, y+0.5) is
// inside under the even-odd rule. There is no anti-aliasing; callers that
// need smooth edges tessellate accordingly. Colors blend with straight
// alpha source-over; opaque sources overwrite.
//
// # Errors
//
// Drawing either succeeds or leaves the buffer untouched: primitives are
// validated before any pixel is written. FromBytes reports a size mismatch
// as *ContainerTooSmallError. Pixel and SetPixel panic with
// *OutOfBoundsError on coordinates outside the buffer.
//
// # Text
//
// Glyphs come from a glyph.Cache keyed by (font, size, character). By
// default all rasterizers share one unbounded cache; see WithGlyphCache to
// bound it with an LRU policy.
//
// # Byte layout
//
// Bytes and IntoBytes expose the pixel storage directly. The layout is
// versioned by LayoutVersion.
package renderbuf
