package glyph

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Shaper positions the runes of a text run.
//
// Layout returns, for each rune, the pen offset in pixels from the run
// origin along the baseline, plus the total advance of the run. When ok is
// false the shaper cannot handle the run and the caller falls back to
// summing glyph advances.
type Shaper interface {
	Layout(f Font, size float64, runes []rune) (offsets []float64, advance float64, ok bool)
}

// Kerner is implemented by fonts that expose a kerning table.
type Kerner interface {
	Kern(a, b rune, size fixed.Int26_6) float64
}

// Advancer is implemented by fonts that report advances without
// rasterizing.
type Advancer interface {
	Advance(r rune, size fixed.Int26_6) (float64, bool)
}

// KerningShaper sums advances and applies pair kerning. It requires a font
// implementing both Advancer and Kerner, as OpenTypeFont does.
type KerningShaper struct{}

// Layout implements Shaper.
func (KerningShaper) Layout(f Font, size float64, runes []rune) ([]float64, float64, bool) {
	adv, ok1 := f.(Advancer)
	kern, ok2 := f.(Kerner)
	if !ok1 || !ok2 || size <= 0 {
		return nil, 0, false
	}
	sz := SizeKey(size)
	offsets := make([]float64, len(runes))
	var x float64
	for i, r := range runes {
		if i > 0 {
			x += kern.Kern(runes[i-1], r, sz)
		}
		offsets[i] = x
		a, ok := adv.Advance(r, sz)
		if !ok {
			return nil, 0, false
		}
		x += a
	}
	return offsets, x, true
}

// FontDataSource is implemented by fonts that expose their raw data.
type FontDataSource interface {
	Font
	Data() []byte
}

// GoTextShaper shapes runs with HarfBuzz from go-text/typesetting.
//
// Shaping can merge or reorder runes (ligatures, complex scripts). Glyph
// masks are keyed by character, so runs whose shaped glyphs do not map one
// to one onto the input runes are reported as not ok and the caller falls
// back to plain advances.
//
// GoTextShaper is safe for concurrent use. Parsed fonts are cached per
// FontID; HarfbuzzShaper instances are pooled since they are not.
type GoTextShaper struct {
	shaperPool sync.Pool

	mu        sync.RWMutex
	fontCache map[FontID]*gotext.Font
}

// NewGoTextShaper creates a HarfBuzz-backed shaper.
func NewGoTextShaper() *GoTextShaper {
	return &GoTextShaper{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fontCache: make(map[FontID]*gotext.Font),
	}
}

// Layout implements Shaper.
func (s *GoTextShaper) Layout(f Font, size float64, runes []rune) ([]float64, float64, bool) {
	src, ok := f.(FontDataSource)
	if !ok || len(runes) == 0 || size <= 0 {
		return nil, 0, false
	}
	parsed, err := s.getOrCreateFont(src)
	if err != nil {
		return nil, 0, false
	}

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gotext.NewFace(parsed),
		Size:      SizeKey(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	if len(output.Glyphs) != len(runes) {
		return nil, 0, false
	}
	offsets := make([]float64, len(runes))
	seen := make([]bool, len(runes))
	var x float64
	for _, g := range output.Glyphs {
		i := g.TextIndex()
		if i < 0 || i >= len(runes) || seen[i] {
			return nil, 0, false
		}
		seen[i] = true
		offsets[i] = x + fixedToFloat64(g.XOffset)
		x += fixedToFloat64(g.Advance)
	}
	return offsets, x, true
}

func (s *GoTextShaper) getOrCreateFont(src FontDataSource) (*gotext.Font, error) {
	id := src.ID()
	s.mu.RLock()
	if f, ok := s.fontCache[id]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fontCache[id]; ok {
		return f, nil
	}
	face, err := gotext.ParseTTF(bytes.NewReader(src.Data()))
	if err != nil {
		return nil, err
	}
	s.fontCache[id] = face.Font
	return face.Font, nil
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
