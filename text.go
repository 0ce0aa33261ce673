package renderbuf

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/renderbuf/glyph"
)

// placedGlyph is a glyph positioned on a line, relative to the run origin.
type placedGlyph struct {
	entry *glyph.Entry
	x     float64
}

// layoutLine resolves the glyphs of one line. Glyphs that fail to
// rasterize are reported and skipped; the rest of the line still lays out.
func (r *Rasterizer) layoutLine(f glyph.Font, size float64, line []rune) ([]placedGlyph, float64, []error) {
	var errs []error
	entries := make([]*glyph.Entry, len(line))
	for i, ch := range line {
		e, err := r.cache.GetOrRasterize(f, size, ch)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries[i] = e
	}

	var offsets []float64
	var advance float64
	ok := false
	if r.shaper != nil {
		offsets, advance, ok = r.shaper.Layout(f, size, line)
	}

	placed := make([]placedGlyph, 0, len(line))
	if ok {
		for i, e := range entries {
			if e != nil {
				placed = append(placed, placedGlyph{entry: e, x: offsets[i]})
			}
		}
		return placed, advance, errs
	}

	var pen float64
	for _, e := range entries {
		if e == nil {
			continue
		}
		placed = append(placed, placedGlyph{entry: e, x: pen})
		pen += e.Advance
	}
	return placed, pen, errs
}

func (r *Rasterizer) textArgs(f glyph.Font, size float64) (glyph.Font, error) {
	if r.cache == nil {
		return nil, ErrNoGlyphCache
	}
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return nil, fmt.Errorf("%w: text size %v", ErrInvalidPrimitive, size)
	}
	if f == nil {
		return glyph.DefaultFont(), nil
	}
	return f, nil
}

// tabWidth is the distance between tab stops, in characters.
const tabWidth = 4

// textLines normalizes text to NFC, splits it into lines and expands tabs
// to spaces up to the next tab stop.
func textLines(text string) [][]rune {
	parts := strings.Split(norm.NFC.String(text), "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = expandTabs([]rune(strings.TrimSuffix(p, "\r")))
	}
	return lines
}

func expandTabs(line []rune) []rune {
	if !slices.Contains(line, '\t') {
		return line
	}
	out := make([]rune, 0, len(line)+tabWidth)
	for _, c := range line {
		if c != '\t' {
			out = append(out, c)
			continue
		}
		for n := tabWidth - len(out)%tabWidth; n > 0; n-- {
			out = append(out, ' ')
		}
	}
	return out
}

// DrawText implements Backend.
//
// Each glyph's pen position is mapped through the transform and rounded to
// the nearest pixel; the coverage mask itself is not transformed. Coverage
// scales the source alpha in the usual blend. Lines are separated by '\n'
// and spaced by the font's line height. A '\t' advances to the next
// multiple of four characters, drawn as spaces.
//
// Characters that fail to rasterize are skipped and reported together as
// *glyph.GlyphError values joined into the returned error; the remaining
// glyphs are still drawn.
func (r *Rasterizer) DrawText(f glyph.Font, size float64, text string, x, y float64, c RGBA) error {
	f, err := r.textArgs(f, size)
	if err != nil {
		return err
	}
	if _, err := r.toDevice([]Point{{x, y}}); err != nil {
		return err
	}
	c = c.clamped()
	lineHeight := f.Metrics(glyph.SizeKey(size)).Height

	var errs []error
	for i, line := range textLines(text) {
		placed, _, lerrs := r.layoutLine(f, size, line)
		errs = append(errs, lerrs...)
		baseline := y + float64(i)*lineHeight
		for _, g := range placed {
			pen := r.transform.TransformPoint(Point{X: x + g.x, Y: baseline})
			if !pen.finite() {
				continue
			}
			r.drawMask(&g.entry.Mask, pen, c)
		}
	}
	return errors.Join(errs...)
}

// drawMask blends a coverage mask with its origin relative to the rounded
// pen position.
func (r *Rasterizer) drawMask(m *glyph.Mask, pen Point, c RGBA) {
	clip := r.Clip()
	px, py := math.Round(pen.X), math.Round(pen.Y)
	// Masks entirely off the clip are skipped before converting to int.
	if px+float64(m.OriginX) >= float64(clip.X1) || px+float64(m.OriginX+m.Width) <= float64(clip.X0) ||
		py+float64(m.OriginY) >= float64(clip.Y1) || py+float64(m.OriginY+m.Height) <= float64(clip.Y0) {
		return
	}
	ox, oy := int(px)+m.OriginX, int(py)+m.OriginY
	dst := RectXYWH(ox, oy, m.Width, m.Height).Intersect(clip)
	if dst.Empty() {
		return
	}

	pix := r.buf.pix
	stride := r.buf.width * 4
	for y := dst.Y0; y < dst.Y1; y++ {
		row := m.Coverage[(y-oy)*m.Width:]
		for x := dst.X0; x < dst.X1; x++ {
			cov := row[x-ox]
			if cov == 0 {
				continue
			}
			blendAt(pix, y*stride+x*4, c, c.A*float64(cov)/255)
		}
	}
}

// MeasureText implements Backend. The width is that of the widest line and
// the height is the number of lines times the font's line height. Glyph
// failures are reported as in DrawText.
func (r *Rasterizer) MeasureText(f glyph.Font, size float64, text string) (float64, float64, error) {
	f, err := r.textArgs(f, size)
	if err != nil {
		return 0, 0, err
	}
	lines := textLines(text)
	var w float64
	var errs []error
	for _, line := range lines {
		_, adv, lerrs := r.layoutLine(f, size, line)
		errs = append(errs, lerrs...)
		w = math.Max(w, adv)
	}
	h := float64(len(lines)) * f.Metrics(glyph.SizeKey(size)).Height
	return w, h, errors.Join(errs...)
}
