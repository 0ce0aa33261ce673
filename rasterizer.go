package renderbuf

import (
	"fmt"
	"math"
	"slices"

	"github.com/gogpu/renderbuf/glyph"
)

// Rasterizer is the software Backend: it scan-converts primitives into a
// RenderBuffer.
//
// Coverage is binary. A pixel (x, y) is covered when its center
// (x+0.5, y+0.5) lies inside the primitive under the even-odd rule. Edges
// are half-open: a center exactly on a left or top edge is inside, one on
// a right or bottom edge is outside, so triangles sharing an edge never
// blend a pixel twice. There is no anti-aliasing.
//
// A Rasterizer owns its buffer during a render pass and is not safe for
// concurrent use.
type Rasterizer struct {
	buf       *RenderBuffer
	transform Matrix
	clip      clipStack
	cache     *glyph.Cache
	shaper    glyph.Shaper

	// scratch
	xs  []float64
	dev []Point
}

// NewRasterizer creates a rasterizer drawing into buf.
func NewRasterizer(buf *RenderBuffer, opts ...Option) *Rasterizer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.cacheSet {
		o.cache = SharedGlyphCache()
	}
	return &Rasterizer{
		buf:       buf,
		transform: o.transform,
		clip:      newClipStack(unboundedRect),
		cache:     o.cache,
		shaper:    o.shaper,
	}
}

// Buffer returns the target buffer.
func (r *Rasterizer) Buffer() *RenderBuffer {
	return r.buf
}

// GlyphCache returns the glyph cache, or nil if text is disabled.
func (r *Rasterizer) GlyphCache() *glyph.Cache {
	return r.cache
}

// Size implements Backend.
func (r *Rasterizer) Size() (int, int) {
	return r.buf.Size()
}

// Clear implements Backend.
func (r *Rasterizer) Clear(c RGBA) {
	r.buf.Clear(c)
}

// Resize resizes the buffer and clears the clip stack.
func (r *Rasterizer) Resize(width, height int) {
	r.buf.Resize(width, height)
	r.clip.reset(unboundedRect)
}

// SetTransform implements Backend.
func (r *Rasterizer) SetTransform(m Matrix) {
	r.transform = m
}

// Transform implements Backend.
func (r *Rasterizer) Transform() Matrix {
	return r.transform
}

// PushClip implements Backend.
func (r *Rasterizer) PushClip(rect Rect) {
	r.clip.push(rect)
}

// PopClip implements Backend.
func (r *Rasterizer) PopClip() {
	r.clip.pop()
}

// Clip implements Backend. The result never extends past the buffer.
func (r *Rasterizer) Clip() Rect {
	return r.clip.bounds.Intersect(r.buf.PixelRect())
}

// ClipDepth returns the number of clips pushed and not yet popped.
func (r *Rasterizer) ClipDepth() int {
	return r.clip.depth()
}

// toDevice maps user-space points through the transform into r.dev.
// It fails if any resulting coordinate is not finite.
func (r *Rasterizer) toDevice(pts []Point) ([]Point, error) {
	if !r.transform.isFinite() {
		return nil, fmt.Errorf("%w: non-finite transform %v", ErrInvalidPrimitive, r.transform)
	}
	r.dev = r.dev[:0]
	for i, p := range pts {
		q := r.transform.TransformPoint(p)
		if !p.finite() || !q.finite() {
			return nil, fmt.Errorf("%w: point %d (%v, %v) is not finite", ErrInvalidPrimitive, i, p.X, p.Y)
		}
		r.dev = append(r.dev, q)
	}
	return r.dev, nil
}

// FillPolygon implements Backend.
func (r *Rasterizer) FillPolygon(pts []Point, c RGBA) error {
	if len(pts) < 3 {
		return fmt.Errorf("%w: polygon has %d points, need at least 3", ErrDegeneratePolygon, len(pts))
	}
	dev, err := r.toDevice(pts)
	if err != nil {
		return err
	}
	c = c.clamped()
	r.scanPolygon(dev, func(y, x0, x1 int) {
		r.fillSpan(y, x0, x1, c)
	})
	return nil
}

// FillTriangles implements Backend. The whole list is validated before any
// triangle is drawn.
func (r *Rasterizer) FillTriangles(tris []Point, c RGBA) error {
	if len(tris) == 0 || len(tris)%3 != 0 {
		return fmt.Errorf("%w: triangle list has %d points, need a positive multiple of 3", ErrDegeneratePolygon, len(tris))
	}
	dev, err := r.toDevice(tris)
	if err != nil {
		return err
	}
	c = c.clamped()
	for i := 0; i < len(dev); i += 3 {
		r.scanPolygon(dev[i:i+3], func(y, x0, x1 int) {
			r.fillSpan(y, x0, x1, c)
		})
	}
	return nil
}

// DrawLine implements Backend. A zero-length segment draws nothing.
func (r *Rasterizer) DrawLine(a, b Point, width float64, c RGBA) error {
	quad, err := lineQuad(a, b, width)
	if err != nil || quad == nil {
		return err
	}
	return r.FillPolygon(quad, c)
}

// lineQuad returns the quad covering segment ab with the given width, or
// nil for a zero-length segment.
func lineQuad(a, b Point, width float64) ([]Point, error) {
	if math.IsNaN(width) || math.IsInf(width, 0) || width < 0 {
		return nil, fmt.Errorf("%w: line width %v", ErrInvalidPrimitive, width)
	}
	if !a.finite() || !b.finite() {
		return nil, fmt.Errorf("%w: line endpoint is not finite", ErrInvalidPrimitive)
	}
	d := b.Sub(a)
	l := d.Length()
	if l == 0 {
		return nil, nil
	}
	n := Point{X: -d.Y / l, Y: d.X / l}.Mul(width / 2)
	return []Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, nil
}

// DrawRect implements Backend.
func (r *Rasterizer) DrawRect(x, y, w, h float64, c RGBA) error {
	return r.FillPolygon(rectPoints(x, y, w, h), c)
}

func rectPoints(x, y, w, h float64) []Point {
	return []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
}

// scanPolygon calls span for every covered run of pixels inside the active
// clip, row by row, using the even-odd rule. pts are in pixel space.
func (r *Rasterizer) scanPolygon(pts []Point, span func(y, x0, x1 int)) {
	clip := r.Clip()
	if clip.Empty() {
		return
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	// Row y is sampled at y+0.5, so rows [ceil(minY-0.5), ceil(maxY-0.5)).
	y0 := ceilClamp(minY-0.5, clip.Y0, clip.Y1)
	y1 := ceilClamp(maxY-0.5, clip.Y0, clip.Y1)
	if y0 >= y1 || ceilClamp(maxX-0.5, clip.X0, clip.X1) <= ceilClamp(minX-0.5, clip.X0, clip.X1) {
		return
	}

	n := len(pts)
	for y := y0; y < y1; y++ {
		sy := float64(y) + 0.5
		xs := r.xs[:0]
		for i := range n {
			a, b := pts[i], pts[(i+1)%n]
			if a.Y == b.Y {
				continue
			}
			if a.Y > b.Y {
				a, b = b, a
			}
			if sy < a.Y || sy >= b.Y {
				continue
			}
			t := (sy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			// Pixel x is covered when xa <= x+0.5 < xb.
			x0 := ceilClamp(xs[i]-0.5, clip.X0, clip.X1)
			x1 := ceilClamp(xs[i+1]-0.5, clip.X0, clip.X1)
			if x0 < x1 {
				span(y, x0, x1)
			}
		}
		r.xs = xs
	}
}

// ceilClamp returns ceil(v) limited to [lo, hi], computed in float so that
// huge coordinates do not overflow int.
func ceilClamp(v float64, lo, hi int) int {
	v = math.Ceil(v)
	if v <= float64(lo) {
		return lo
	}
	if v >= float64(hi) {
		return hi
	}
	return int(v)
}
