package renderbuf

import (
	"image/color"
	"math"
	"testing"
)

// Verify at compile time that RGBA converts to color.Color.
var _ color.Color = RGBA{}.Color()

func TestRGBA_NRGBA(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want color.NRGBA
	}{
		{"opaque black", Black, color.NRGBA{A: 255}},
		{"opaque white", White, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"half red", RGBA{R: 1, A: 0.5}, color.NRGBA{R: 255, A: 128}},
		{"out of range clamps", RGBA{R: 2, G: -1, B: 0.5, A: 1.5}, color.NRGBA{R: 255, G: 0, B: 128, A: 255}},
		{"nan is zero", RGBA{R: math.NaN(), A: 1}, color.NRGBA{A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.NRGBA(); got != tt.want {
				t.Errorf("NRGBA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGBA_Roundtrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		n := color.NRGBA{R: uint8(v), G: uint8(255 - v), B: uint8(v / 2), A: uint8(v)}
		if got := fromNRGBA(n).NRGBA(); got != n {
			t.Fatalf("round-trip of %v = %v", n, got)
		}
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.RGBA{R: 128, A: 128})
	if got.R != 1 || got.A != 128.0/255 {
		t.Errorf("FromColor(premultiplied half red) = %v", got)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#3498db", color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 255}},
		{"fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#f008", color.NRGBA{R: 255, A: 0x88}},
		{"11223344", color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}},
	}
	for _, tt := range tests {
		if got := Hex(tt.in).NRGBA(); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRGBA_Mul(t *testing.T) {
	got := RGBA{R: 1, G: 0.5, B: 0.25, A: 1}.Mul(RGBA{R: 0.5, G: 0.5, B: 1, A: 0.5})
	want := RGBA{R: 0.5, G: 0.25, B: 0.25, A: 0.5}
	if got != want {
		t.Errorf("Mul = %v, want %v", got, want)
	}
}
