package renderbuf

import (
	"fmt"
	"image"
	"math"
)

// texture is a read-only straight-alpha RGBA8 view used for sampling.
type texture struct {
	width, height int
	stride        int
	pix           []uint8
}

// textureOf returns a sampling view of img. NRGBA images and buffers are
// read in place; anything else is converted once. The buffer being drawn
// into is copied so a self-blit reads the original pixels.
func (r *Rasterizer) textureOf(img image.Image) texture {
	switch t := img.(type) {
	case *RenderBuffer:
		if t == r.buf {
			t = t.Clone()
		}
		return texture{width: t.width, height: t.height, stride: t.width * 4, pix: t.pix}
	case *image.NRGBA:
		b := t.Rect
		return texture{width: b.Dx(), height: b.Dy(), stride: t.Stride, pix: t.Pix[t.PixOffset(b.Min.X, b.Min.Y):]}
	}
	rb := FromImage(img)
	return texture{width: rb.width, height: rb.height, stride: rb.width * 4, pix: rb.pix}
}

// at returns texel (x, y) clamped to the texture edge.
func (t *texture) at(x, y int) RGBA {
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	i := y*t.stride + x*4
	p := t.pix[i : i+4 : i+4]
	return RGBA{
		R: float64(p[0]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[2]) / 255,
		A: float64(p[3]) / 255,
	}
}

// sample returns the texel nearest to normalized coordinates (u, v).
func (t *texture) sample(u, v float64) RGBA {
	return t.at(int(math.Floor(u*float64(t.width))), int(math.Floor(v*float64(t.height))))
}

// FillTrianglesUV implements Backend. Each covered pixel samples the
// texture nearest-neighbor at its center's interpolated UV.
func (r *Rasterizer) FillTrianglesUV(tris, uvs []Point, tex image.Image, tint RGBA) error {
	if len(tris) == 0 || len(tris)%3 != 0 {
		return fmt.Errorf("%w: triangle list has %d points, need a positive multiple of 3", ErrDegeneratePolygon, len(tris))
	}
	if len(uvs) != len(tris) {
		return fmt.Errorf("%w: %d texture coordinates for %d vertices", ErrInvalidPrimitive, len(uvs), len(tris))
	}
	if tex == nil || tex.Bounds().Empty() {
		return fmt.Errorf("%w: empty texture", ErrInvalidPrimitive)
	}
	for i, uv := range uvs {
		if !uv.finite() {
			return fmt.Errorf("%w: texture coordinate %d is not finite", ErrInvalidPrimitive, i)
		}
	}
	dev, err := r.toDevice(tris)
	if err != nil {
		return err
	}
	t := r.textureOf(tex)
	tint = tint.clamped()
	for i := 0; i < len(dev); i += 3 {
		r.fillTexturedTriangle(dev[i:i+3], uvs[i:i+3], &t, tint)
	}
	return nil
}

func (r *Rasterizer) fillTexturedTriangle(p, uv []Point, t *texture, tint RGBA) {
	a, b, c := p[0], p[1], p[2]
	area := cross(b.Sub(a), c.Sub(a))
	if area == 0 {
		return
	}
	pix := r.buf.pix
	stride := r.buf.width * 4
	r.scanPolygon(p, func(y, x0, x1 int) {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			q := Point{X: float64(x) + 0.5, Y: py}
			w0 := cross(b.Sub(q), c.Sub(q)) / area
			w1 := cross(c.Sub(q), a.Sub(q)) / area
			w2 := 1 - w0 - w1
			u := w0*uv[0].X + w1*uv[1].X + w2*uv[2].X
			v := w0*uv[0].Y + w1*uv[1].Y + w2*uv[2].Y
			s := t.sample(u, v).Mul(tint)
			blendAt(pix, y*stride+x*4, s, s.A)
		}
	})
}

func cross(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

// DrawImage implements Backend.
func (r *Rasterizer) DrawImage(img image.Image, x, y float64) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidPrimitive)
	}
	b := img.Bounds()
	return r.DrawImageRect(img, RectXYWH(0, 0, b.Dx(), b.Dy()), x, y, float64(b.Dx()), float64(b.Dy()), White)
}

// DrawImageRect implements Backend. src is relative to the image's
// top-left corner and must lie within the image.
//
// The blit is two textured triangles. A translation-only transform that
// maps src 1:1 onto whole pixels takes a row-wise fast path with the same
// result.
func (r *Rasterizer) DrawImageRect(img image.Image, src Rect, x, y, w, h float64, tint RGBA) error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidPrimitive)
	}
	b := img.Bounds()
	if src.Empty() || src.Intersect(RectXYWH(0, 0, b.Dx(), b.Dy())) != src {
		return fmt.Errorf("%w: source rect %v outside %dx%d image", ErrInvalidPrimitive, src, b.Dx(), b.Dy())
	}
	if !Pt(x, y).finite() || !Pt(w, h).finite() {
		return fmt.Errorf("%w: destination rect is not finite", ErrInvalidPrimitive)
	}

	m := r.transform
	if m.IsTranslation() && m.isFinite() && w == float64(src.Dx()) && h == float64(src.Dy()) {
		dx, dy := x+m.C, y+m.F
		if dx == math.Trunc(dx) && dy == math.Trunc(dy) &&
			math.Abs(dx) < math.MaxInt32 && math.Abs(dy) < math.MaxInt32 {
			r.blitTranslated(r.textureOf(img), src, int(dx), int(dy), tint.clamped())
			return nil
		}
	}

	u0 := float64(src.X0) / float64(b.Dx())
	v0 := float64(src.Y0) / float64(b.Dy())
	u1 := float64(src.X1) / float64(b.Dx())
	v1 := float64(src.Y1) / float64(b.Dy())
	q := rectPoints(x, y, w, h)
	tris := []Point{q[0], q[1], q[2], q[0], q[2], q[3]}
	uvs := []Point{{u0, v0}, {u1, v0}, {u1, v1}, {u0, v0}, {u1, v1}, {u0, v1}}
	return r.FillTrianglesUV(tris, uvs, img, tint)
}

// blitTranslated copies src to pixel offset (dx, dy), clipped.
func (r *Rasterizer) blitTranslated(t texture, src Rect, dx, dy int, tint RGBA) {
	dst := RectXYWH(dx, dy, src.Dx(), src.Dy()).Intersect(r.Clip())
	if dst.Empty() {
		return
	}
	pix := r.buf.pix
	stride := r.buf.width * 4
	plain := tint == White
	for y := dst.Y0; y < dst.Y1; y++ {
		sy := src.Y0 + y - dy
		for x := dst.X0; x < dst.X1; x++ {
			s := t.at(src.X0+x-dx, sy)
			if !plain {
				s = s.Mul(tint)
			}
			blendAt(pix, y*stride+x*4, s, s.A)
		}
	}
}
