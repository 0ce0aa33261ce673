package glyph

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics holds font-wide metrics at a given size, in pixels.
type Metrics struct {
	Ascent  float64
	Descent float64
	// Height is the recommended line height.
	Height float64
}

// Font rasterizes glyphs for a Cache.
//
// Rasterize must be deterministic: the same character and size always
// produce the same mask and metrics.
type Font interface {
	ID() FontID
	Rasterize(r rune, size fixed.Int26_6) (*Entry, error)
	Metrics(size fixed.Int26_6) Metrics
}

// OpenTypeFont is a Font backed by golang.org/x/image/font/opentype.
//
// Faces are created per size on first use. OpenTypeFont is safe for
// concurrent use.
type OpenTypeFont struct {
	id   FontID
	data []byte
	font *opentype.Font

	mu    sync.Mutex
	faces map[fixed.Int26_6]font.Face
}

// ParseFont parses TrueType or OpenType data.
func ParseFont(data []byte) (*OpenTypeFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("glyph: failed to parse font: %w", err)
	}
	h := fnv.New64a()
	_, _ = h.Write(data) // fnv.Write never returns an error
	return &OpenTypeFont{
		id:    FontID(h.Sum64()),
		data:  data,
		font:  f,
		faces: make(map[fixed.Int26_6]font.Face),
	}, nil
}

var (
	defaultFontOnce sync.Once
	defaultFont     *OpenTypeFont
)

// DefaultFont returns the Go Regular font.
func DefaultFont() *OpenTypeFont {
	defaultFontOnce.Do(func() {
		f, err := ParseFont(goregular.TTF)
		if err != nil {
			panic(err) // embedded font data is known to be valid
		}
		defaultFont = f
	})
	return defaultFont
}

// ID implements Font.
func (f *OpenTypeFont) ID() FontID {
	return f.id
}

// Data returns the raw font data.
func (f *OpenTypeFont) Data() []byte {
	return f.data
}

// Name returns the font family name, or "" if it has none.
func (f *OpenTypeFont) Name() string {
	if name, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

// face returns the face for size. Caller must hold f.mu.
func (f *OpenTypeFont) face(size fixed.Int26_6) (font.Face, error) {
	if face, ok := f.faces[size]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    fixedToFloat64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	f.faces[size] = face
	return face, nil
}

// HasGlyph reports whether the font maps r to a real glyph.
func (f *OpenTypeFont) HasGlyph(r rune) bool {
	var buf sfnt.Buffer
	idx, err := f.font.GlyphIndex(&buf, r)
	return err == nil && idx != 0
}

// Rasterize implements Font.
func (f *OpenTypeFont) Rasterize(r rune, size fixed.Int26_6) (*Entry, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if !f.HasGlyph(r) {
		return nil, ErrGlyphNotFound
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	face, err := f.face(size)
	if err != nil {
		return nil, err
	}
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, ErrGlyphNotFound
	}

	// The face reuses its mask between calls, so the coverage is copied.
	e := &Entry{
		Mask: Mask{
			Width:    dr.Dx(),
			Height:   dr.Dy(),
			Coverage: make([]uint8, dr.Dx()*dr.Dy()),
			OriginX:  dr.Min.X,
			OriginY:  dr.Min.Y,
		},
		Advance:  fixedToFloat64(advance),
		VAdvance: fixedToFloat64(face.Metrics().Height),
	}
	copyCoverage(e.Mask.Coverage, dr.Dx(), dr.Dy(), mask, maskp)
	return e, nil
}

func copyCoverage(dst []uint8, w, h int, mask image.Image, maskp image.Point) {
	if alpha, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			i := alpha.PixOffset(maskp.X, maskp.Y+y)
			copy(dst[y*w:(y+1)*w], alpha.Pix[i:i+w])
		}
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := color.AlphaModel.Convert(mask.At(maskp.X+x, maskp.Y+y)).(color.Alpha)
			dst[y*w+x] = a.A
		}
	}
}

// Metrics implements Font.
func (f *OpenTypeFont) Metrics(size fixed.Int26_6) Metrics {
	if size <= 0 {
		return Metrics{}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face, err := f.face(size)
	if err != nil {
		return Metrics{}
	}
	m := face.Metrics()
	return Metrics{
		Ascent:  fixedToFloat64(m.Ascent),
		Descent: fixedToFloat64(m.Descent),
		Height:  fixedToFloat64(m.Height),
	}
}

// Kern returns the kerning adjustment between a and b in pixels.
func (f *OpenTypeFont) Kern(a, b rune, size fixed.Int26_6) float64 {
	if size <= 0 {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face, err := f.face(size)
	if err != nil {
		return 0
	}
	return fixedToFloat64(face.Kern(a, b))
}

// Advance returns the horizontal advance of r in pixels.
func (f *OpenTypeFont) Advance(r rune, size fixed.Int26_6) (float64, bool) {
	if size <= 0 {
		return 0, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	face, err := f.face(size)
	if err != nil {
		return 0, false
	}
	adv, ok := face.GlyphAdvance(r)
	return fixedToFloat64(adv), ok
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}
