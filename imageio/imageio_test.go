package imageio

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/renderbuf"
)

// opaqueBuffer returns a buffer with a distinct opaque color per pixel.
// Opaque content keeps every codec lossless.
func opaqueBuffer(w, h int) *renderbuf.RenderBuffer {
	b := renderbuf.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetPixel(x, y, renderbuf.RGBA{
				R: float64(x*32%256) / 255,
				G: float64(y*48%256) / 255,
				B: float64((x+y)*16%256) / 255,
				A: 1,
			})
		}
	}
	return b
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"shot.png", PNG},
		{"dir/shot.PNG", PNG},
		{"a.bmp", BMP},
		{"a.tga", TGA},
		{"a.webp", WebP},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil {
			t.Errorf("FormatFromPath(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	for _, bad := range []string{"noext", "a.jpg", "a."} {
		if _, err := FormatFromPath(bad); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("FormatFromPath(%q) err = %v, want ErrUnknownFormat", bad, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("targa"); err != nil || f != TGA {
		t.Errorf("ParseFormat(targa) = %v, %v", f, err)
	}
	if f, err := ParseFormat("WebP"); err != nil || f != WebP {
		t.Errorf("ParseFormat(WebP) = %v, %v", f, err)
	}
	if WebP.Ext() != ".webp" {
		t.Errorf("Ext = %q", WebP.Ext())
	}
	if got := Format(42).String(); got != "Format(42)" {
		t.Errorf("String = %q", got)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	src := opaqueBuffer(9, 5)
	for _, f := range []Format{PNG, BMP, TGA, WebP} {
		t.Run(f.String(), func(t *testing.T) {
			var out bytes.Buffer
			if err := Encode(&out, src, f); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := DecodeFormat(bytes.NewReader(out.Bytes()), f)
			if err != nil {
				t.Fatalf("DecodeFormat: %v", err)
			}
			if got.Width() != 9 || got.Height() != 5 {
				t.Fatalf("size = %dx%d, want 9x5", got.Width(), got.Height())
			}
			if diff := cmp.Diff(src.Bytes(), got.Bytes()); diff != "" {
				t.Errorf("pixels mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Sniffs(t *testing.T) {
	src := opaqueBuffer(3, 3)
	for _, f := range []Format{PNG, BMP, WebP} {
		var out bytes.Buffer
		if err := Encode(&out, src, f); err != nil {
			t.Fatal(err)
		}
		_, name, err := Decode(&out)
		if err != nil {
			t.Fatalf("Decode(%v): %v", f, err)
		}
		if name != f.String() {
			t.Errorf("Decode reported %q, want %q", name, f.String())
		}
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, opaqueBuffer(1, 1), Format(0)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	src := opaqueBuffer(4, 6)
	for _, name := range []string{"s.png", "s.bmp", "s.tga", "s.webp"} {
		path := filepath.Join(dir, name)
		if err := Save(path, src); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if diff := cmp.Diff(src.Bytes(), got.Bytes()); diff != "" {
			t.Errorf("%s: pixels mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Load of a missing file should fail")
	}
	if err := Save(filepath.Join(t.TempDir(), "x.gif"), opaqueBuffer(1, 1)); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save(.gif) err = %v, want ErrUnknownFormat", err)
	}
}
