package glyph

import (
	"math"
	"testing"
)

func TestKerningShaper(t *testing.T) {
	f := DefaultFont()
	runes := []rune("AVA")
	offsets, adv, ok := KerningShaper{}.Layout(f, 32, runes)
	if !ok {
		t.Fatal("KerningShaper should handle OpenTypeFont")
	}
	if len(offsets) != len(runes) {
		t.Fatalf("len(offsets) = %d, want %d", len(offsets), len(runes))
	}
	if offsets[0] != 0 {
		t.Errorf("offsets[0] = %v, want 0", offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] <= offsets[i-1] {
			t.Errorf("offsets not increasing: %v", offsets)
		}
	}
	if adv <= offsets[len(offsets)-1] {
		t.Errorf("advance %v should exceed last offset %v", adv, offsets[len(offsets)-1])
	}
}

func TestKerningShaper_Unsupported(t *testing.T) {
	if _, _, ok := (KerningShaper{}).Layout(&boxFont{id: 1}, 16, []rune("ab")); ok {
		t.Error("KerningShaper should decline fonts without kerning")
	}
	if _, _, ok := (KerningShaper{}).Layout(DefaultFont(), 16, []rune{'\U0001F600'}); ok {
		t.Error("KerningShaper should decline runs with missing glyphs")
	}
}

func TestGoTextShaper(t *testing.T) {
	s := NewGoTextShaper()
	f := DefaultFont()
	runes := []rune("Hello")

	offsets, adv, ok := s.Layout(f, 16, runes)
	if !ok {
		t.Fatal("GoTextShaper should shape plain Latin text")
	}
	if len(offsets) != len(runes) {
		t.Fatalf("len(offsets) = %d, want %d", len(offsets), len(runes))
	}
	if adv <= 0 {
		t.Errorf("advance = %v, want > 0", adv)
	}

	// Shaped advances agree with the font's own advances for unkerned text.
	var sum float64
	for _, r := range runes {
		a, _ := f.Advance(r, SizeKey(16))
		sum += a
	}
	if math.Abs(sum-adv) > 1 {
		t.Errorf("shaped advance %v differs from summed advances %v", adv, sum)
	}
}

func TestGoTextShaper_Declines(t *testing.T) {
	s := NewGoTextShaper()
	if _, _, ok := s.Layout(&boxFont{id: 1}, 16, []rune("ab")); ok {
		t.Error("fonts without data should be declined")
	}
	if _, _, ok := s.Layout(DefaultFont(), 16, nil); ok {
		t.Error("empty runs should be declined")
	}
}
