package recording

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/renderbuf"
)

func TestDecodeScene(t *testing.T) {
	const scene = `{
		"width": 8, "height": 8,
		"ops": [
			{"op": "clear", "color": "#fff"},
			{"op": "transform", "matrix": [[1, 0, 2], [0, 1, 2]]},
			{"op": "clip", "rect": [0, 0, 6, 6]},
			{"op": "rect", "rect": [0, 0, 2, 2], "color": "#0000ff"},
			{"op": "pop_clip"},
			{"op": "line", "from": [0, 0], "to": [4, 0]}
		]
	}`
	rec, err := DecodeScene(strings.NewReader(scene))
	if err != nil {
		t.Fatalf("DecodeScene() error = %v", err)
	}
	want := []Command{
		ClearCommand{Color: renderbuf.White},
		SetTransformCommand{Matrix: renderbuf.Translate(2, 2)},
		PushClipCommand{Rect: renderbuf.RectXYWH(0, 0, 6, 6)},
		DrawRectCommand{W: 2, H: 2, Color: renderbuf.Blue},
		PopClipCommand{},
		DrawLineCommand{A: renderbuf.Pt(0, 0), B: renderbuf.Pt(4, 0), Width: 1, Color: renderbuf.Black},
	}
	if diff := cmp.Diff(want, rec.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	buf := renderbuf.New(8, 8)
	if err := rec.Playback(renderbuf.NewRasterizer(buf)); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	if got, want := buf.NRGBAAt(3, 3), (color.NRGBA{B: 255, A: 255}); got != want {
		t.Errorf("pixel (3,3) = %v, want %v", got, want)
	}
}

func TestDecodeScene_Images(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	loads := 0
	loader := func(path string) (image.Image, error) {
		loads++
		if path != "dot.png" {
			return nil, errors.New("not found")
		}
		return img, nil
	}
	const scene = `{"width": 4, "height": 4, "ops": [
		{"op": "image", "path": "dot.png", "at": [0, 0]},
		{"op": "image", "path": "dot.png", "at": [2, 2], "src": [0, 0, 1, 1], "size": [2, 2]}
	]}`
	rec, err := DecodeScene(strings.NewReader(scene), WithImageLoader(loader))
	if err != nil {
		t.Fatalf("DecodeScene() error = %v", err)
	}
	if loads != 1 {
		t.Errorf("loader called %d times, want 1", loads)
	}
	cmds := rec.Commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	second, ok := cmds[1].(DrawImageCommand)
	if !ok {
		t.Fatalf("command 1 is %T, want DrawImageCommand", cmds[1])
	}
	if second.Src != renderbuf.RectXYWH(0, 0, 1, 1) || second.W != 2 || second.H != 2 {
		t.Errorf("command 1 = %+v", second)
	}
}

func TestDecodeScene_KeepsMalformedGeometry(t *testing.T) {
	const scene = `{"width": 4, "height": 4, "ops": [
		{"op": "polygon", "points": [[0, 0], [4, 0]], "color": "#f00"},
		{"op": "rect", "rect": [0, 0, 4, 4], "color": "#00f"}
	]}`
	rec, err := DecodeScene(strings.NewReader(scene))
	if err != nil {
		t.Fatalf("DecodeScene() error = %v", err)
	}
	err = rec.Playback(renderbuf.NewRasterizer(renderbuf.New(4, 4)))
	var pe *PlaybackError
	if !errors.As(err, &pe) || pe.Index != 0 {
		t.Errorf("Playback() error = %v, want PlaybackError at index 0", err)
	}
}

func TestDecodeScene_Errors(t *testing.T) {
	tests := []struct {
		name  string
		scene string
	}{
		{"bad json", `{"width": 4,`},
		{"zero size", `{"width": 0, "height": 4, "ops": []}`},
		{"unknown op", `{"width": 4, "height": 4, "ops": [{"op": "spline"}]}`},
		{"unknown field", `{"width": 4, "height": 4, "ops": [{"op": "clear", "colour": "#000"}]}`},
		{"bad color", `{"width": 4, "height": 4, "ops": [{"op": "clear", "color": "#12345"}]}`},
		{"non-hex color", `{"width": 4, "height": 4, "ops": [{"op": "clear", "color": "#zzz"}]}`},
		{"short rect", `{"width": 4, "height": 4, "ops": [{"op": "rect", "rect": [0, 0, 1]}]}`},
		{"missing matrix", `{"width": 4, "height": 4, "ops": [{"op": "transform"}]}`},
		{"line without end", `{"width": 4, "height": 4, "ops": [{"op": "line", "from": [0, 0]}]}`},
		{"text without position", `{"width": 4, "height": 4, "ops": [{"op": "text", "text": "a"}]}`},
		{"image without loader", `{"width": 4, "height": 4, "ops": [{"op": "image", "path": "a.png", "at": [0, 0]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeScene(strings.NewReader(tt.scene))
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("DecodeScene() error = %v, want ErrInvalidScene", err)
			}
		})
	}
}

func TestDecodeScene_Text(t *testing.T) {
	const scene = `{"width": 32, "height": 16, "ops": [
		{"op": "text", "text": "Hi", "size": 12, "at": [1, 12]},
		{"op": "text", "text": "Hi", "at": [1, 12], "color": "#f00"}
	]}`
	rec, err := DecodeScene(strings.NewReader(scene))
	if err != nil {
		t.Fatalf("DecodeScene() error = %v", err)
	}
	want := []Command{
		DrawTextCommand{Font: FontRef(InvalidRef), Size: 12, Text: "Hi", X: 1, Y: 12, Color: renderbuf.Black},
		DrawTextCommand{Font: FontRef(InvalidRef), Size: 16, Text: "Hi", X: 1, Y: 12, Color: renderbuf.Red},
	}
	if diff := cmp.Diff(want, rec.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}
