package recording

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/renderbuf"
)

// drawScene issues the same calls against any backend.
func drawScene(b renderbuf.Backend) {
	b.Clear(renderbuf.White)
	b.PushClip(renderbuf.RectXYWH(2, 2, 28, 28))
	_ = b.FillPolygon([]renderbuf.Point{{X: 0, Y: 0}, {X: 24, Y: 4}, {X: 8, Y: 20}}, renderbuf.RGBA2(1, 0, 0, 0.5))
	b.SetTransform(renderbuf.Translate(4, 4))
	_ = b.DrawRect(10, 10, 6, 6, renderbuf.Blue)
	_ = b.DrawLine(renderbuf.Pt(0, 26), renderbuf.Pt(30, 26), 2, renderbuf.Green)
	b.PopClip()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	_ = b.DrawImage(img, 0, 0)
}

func TestRecorder_CapturesCommands(t *testing.T) {
	rec := NewRecorder(8, 8)
	pts := []renderbuf.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}
	rec.Clear(renderbuf.Black)
	rec.PushClip(renderbuf.RectXYWH(1, 1, 4, 4))
	_ = rec.FillPolygon(pts, renderbuf.Red)
	rec.PopClip()
	rec.PopClip() // unbalanced, not recorded

	pts[0].X = 99 // the recorder keeps its own copy

	got := rec.FinishRecording()
	want := []Command{
		ClearCommand{Color: renderbuf.Black},
		PushClipCommand{Rect: renderbuf.RectXYWH(1, 1, 4, 4)},
		FillPolygonCommand{Points: []renderbuf.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}, Color: renderbuf.Red},
		PopClipCommand{},
	}
	if diff := cmp.Diff(want, got.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if got.Width() != 8 || got.Height() != 8 {
		t.Errorf("size = %dx%d, want 8x8", got.Width(), got.Height())
	}
}

func TestRecorder_TracksState(t *testing.T) {
	rec := NewRecorder(10, 10)
	m := renderbuf.Scale(2, 2)
	rec.SetTransform(m)
	if rec.Transform() != m {
		t.Errorf("Transform() = %v, want %v", rec.Transform(), m)
	}
	rec.PushClip(renderbuf.RectXYWH(5, 5, 20, 20))
	if want := (renderbuf.Rect{X0: 5, Y0: 5, X1: 10, Y1: 10}); rec.Clip() != want {
		t.Errorf("Clip() = %v, want %v", rec.Clip(), want)
	}
	rec.PopClip()
	if want := (renderbuf.Rect{X1: 10, Y1: 10}); rec.Clip() != want {
		t.Errorf("Clip() after pop = %v, want %v", rec.Clip(), want)
	}
}

func TestRecording_PlaybackMatchesDirect(t *testing.T) {
	direct := renderbuf.New(32, 32)
	drawScene(renderbuf.NewRasterizer(direct))

	rec := NewRecorder(32, 32)
	drawScene(rec)
	replayed := renderbuf.New(32, 32)
	if err := rec.FinishRecording().Playback(renderbuf.NewRasterizer(replayed)); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}

	if diff := cmp.Diff(direct.Bytes(), replayed.Bytes()); diff != "" {
		t.Errorf("replayed pixels differ from direct drawing (-direct +replayed):\n%s", diff)
	}
}

func TestRecording_PlaybackSkipsInvalid(t *testing.T) {
	rec := NewRecorder(4, 4)
	rec.Clear(renderbuf.Transparent)
	_ = rec.FillPolygon([]renderbuf.Point{{X: 0, Y: 0}, {X: 4, Y: 0}}, renderbuf.Red)
	_ = rec.DrawRect(0, 0, 2, 4, renderbuf.Blue)

	buf := renderbuf.New(4, 4)
	err := rec.FinishRecording().Playback(renderbuf.NewRasterizer(buf))

	var pe *PlaybackError
	if !errors.As(err, &pe) {
		t.Fatalf("Playback() error = %v, want *PlaybackError", err)
	}
	if pe.Index != 1 || pe.Type != CmdFillPolygon {
		t.Errorf("PlaybackError = {%d %v}, want {1 FillPolygon}", pe.Index, pe.Type)
	}
	if !errors.Is(err, renderbuf.ErrDegeneratePolygon) {
		t.Errorf("Playback() error = %v, want ErrDegeneratePolygon", err)
	}

	blue := color.NRGBA{B: 255, A: 255}
	if got := buf.NRGBAAt(1, 1); got != blue {
		t.Errorf("pixel (1,1) = %v, want %v", got, blue)
	}
	if got := buf.NRGBAAt(3, 1); got.A != 0 {
		t.Errorf("pixel (3,1) = %v, want transparent", got)
	}
}

func TestRecording_PlaybackBalancesClips(t *testing.T) {
	rec := NewRecorder(8, 8)
	rec.PushClip(renderbuf.RectXYWH(0, 0, 2, 2))
	rec.PushClip(renderbuf.RectXYWH(1, 1, 2, 2))

	r := renderbuf.NewRasterizer(renderbuf.New(8, 8))
	r.PushClip(renderbuf.RectXYWH(0, 0, 6, 6))
	if err := rec.FinishRecording().Playback(r); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	if r.ClipDepth() != 1 {
		t.Errorf("ClipDepth() = %d, want 1", r.ClipDepth())
	}
	if want := renderbuf.RectXYWH(0, 0, 6, 6); r.Clip() != want {
		t.Errorf("Clip() = %v, want %v", r.Clip(), want)
	}
}

func TestRecording_PlaybackMissingImage(t *testing.T) {
	rec := NewRecorder(4, 4)
	_ = rec.DrawImage(nil, 0, 0)
	err := rec.FinishRecording().Playback(renderbuf.NewRasterizer(renderbuf.New(4, 4)))
	if !errors.Is(err, errMissingImage) {
		t.Errorf("Playback() error = %v, want errMissingImage", err)
	}
}

func TestRecorder_ClonesBufferImages(t *testing.T) {
	src := renderbuf.New(2, 2)
	src.Clear(renderbuf.Red)

	rec := NewRecorder(2, 2)
	_ = rec.DrawImage(src, 0, 0)
	src.Clear(renderbuf.Green)

	dst := renderbuf.New(2, 2)
	if err := rec.FinishRecording().Playback(renderbuf.NewRasterizer(dst)); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	if got, want := dst.NRGBAAt(0, 0), (color.NRGBA{R: 255, A: 255}); got != want {
		t.Errorf("pixel (0,0) = %v, want %v", got, want)
	}
}

func TestRecorder_MeasureText(t *testing.T) {
	rec := NewRecorder(1, 1)
	w, h, err := rec.MeasureText(nil, 12, "Hi")
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	if w <= 0 || h <= 0 {
		t.Errorf("MeasureText() = %v, %v, want positive", w, h)
	}
	if len(rec.FinishRecording().Commands()) != 0 {
		t.Error("MeasureText recorded a command")
	}
}
