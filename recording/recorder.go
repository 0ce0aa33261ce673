package recording

import (
	"errors"
	"image"
	"slices"

	"github.com/gogpu/renderbuf"
	"github.com/gogpu/renderbuf/glyph"
)

// Recorder captures drawing calls as commands. It implements
// renderbuf.Backend, so code written against the Backend interface can
// record instead of drawing.
//
// Drawing methods never fail: primitives are validated when the recording
// is played back. Point slices are copied and RenderBuffer images cloned,
// so callers may reuse their arguments.
//
// Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	resources     *ResourcePool

	transform renderbuf.Matrix
	clip      renderbuf.Rect
	clipStack []renderbuf.Rect

	// measure answers MeasureText; it draws into an empty buffer.
	measure *renderbuf.Rasterizer
}

var _ renderbuf.Backend = (*Recorder)(nil)

// NewRecorder creates a new Recorder for the given dimensions.
// Text is measured with the shared glyph cache.
func NewRecorder(width, height int) *Recorder {
	width, height = max(width, 0), max(height, 0)
	return &Recorder{
		width:     width,
		height:    height,
		commands:  make([]Command, 0, 256),
		resources: NewResourcePool(),
		transform: renderbuf.Identity(),
		clip:      renderbuf.Rect{X1: width, Y1: height},
		measure:   renderbuf.NewRasterizer(renderbuf.New(0, 0)),
	}
}

// FinishRecording returns an immutable Recording containing all recorded
// commands. After calling FinishRecording, the Recorder should not be used
// again.
func (r *Recorder) FinishRecording() *Recording {
	return &Recording{
		width:     r.width,
		height:    r.height,
		commands:  r.commands,
		resources: r.resources,
	}
}

func (r *Recorder) record(c Command) {
	r.commands = append(r.commands, c)
}

// Size implements renderbuf.Backend.
func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

// Clear implements renderbuf.Backend.
func (r *Recorder) Clear(c renderbuf.RGBA) {
	r.record(ClearCommand{Color: c})
}

// SetTransform implements renderbuf.Backend.
func (r *Recorder) SetTransform(m renderbuf.Matrix) {
	r.transform = m
	r.record(SetTransformCommand{Matrix: m})
}

// Transform implements renderbuf.Backend.
func (r *Recorder) Transform() renderbuf.Matrix {
	return r.transform
}

// PushClip implements renderbuf.Backend.
func (r *Recorder) PushClip(rect renderbuf.Rect) {
	r.clipStack = append(r.clipStack, r.clip)
	r.clip = r.clip.Intersect(rect)
	r.record(PushClipCommand{Rect: rect})
}

// PopClip implements renderbuf.Backend. Popping an empty stack records
// nothing.
func (r *Recorder) PopClip() {
	if len(r.clipStack) == 0 {
		return
	}
	last := len(r.clipStack) - 1
	r.clip = r.clipStack[last]
	r.clipStack = r.clipStack[:last]
	r.record(PopClipCommand{})
}

// Clip implements renderbuf.Backend.
func (r *Recorder) Clip() renderbuf.Rect {
	return r.clip
}

// FillPolygon implements renderbuf.Backend.
func (r *Recorder) FillPolygon(pts []renderbuf.Point, c renderbuf.RGBA) error {
	r.record(FillPolygonCommand{Points: slices.Clone(pts), Color: c})
	return nil
}

// FillTriangles implements renderbuf.Backend.
func (r *Recorder) FillTriangles(tris []renderbuf.Point, c renderbuf.RGBA) error {
	r.record(FillTrianglesCommand{Points: slices.Clone(tris), Color: c})
	return nil
}

// FillTrianglesUV implements renderbuf.Backend.
func (r *Recorder) FillTrianglesUV(tris, uvs []renderbuf.Point, tex image.Image, tint renderbuf.RGBA) error {
	r.record(FillTrianglesUVCommand{
		Points: slices.Clone(tris),
		UVs:    slices.Clone(uvs),
		Image:  r.addImage(tex),
		Tint:   tint,
	})
	return nil
}

// DrawLine implements renderbuf.Backend.
func (r *Recorder) DrawLine(a, b renderbuf.Point, width float64, c renderbuf.RGBA) error {
	r.record(DrawLineCommand{A: a, B: b, Width: width, Color: c})
	return nil
}

// DrawRect implements renderbuf.Backend.
func (r *Recorder) DrawRect(x, y, w, h float64, c renderbuf.RGBA) error {
	r.record(DrawRectCommand{X: x, Y: y, W: w, H: h, Color: c})
	return nil
}

// DrawImage implements renderbuf.Backend.
func (r *Recorder) DrawImage(img image.Image, x, y float64) error {
	var src renderbuf.Rect
	var w, h float64
	if img != nil {
		b := img.Bounds()
		src = renderbuf.RectXYWH(0, 0, b.Dx(), b.Dy())
		w, h = float64(b.Dx()), float64(b.Dy())
	}
	return r.DrawImageRect(img, src, x, y, w, h, renderbuf.White)
}

// DrawImageRect implements renderbuf.Backend.
func (r *Recorder) DrawImageRect(img image.Image, src renderbuf.Rect, x, y, w, h float64, tint renderbuf.RGBA) error {
	r.record(DrawImageCommand{Image: r.addImage(img), Src: src, X: x, Y: y, W: w, H: h, Tint: tint})
	return nil
}

func (r *Recorder) addImage(img image.Image) ImageRef {
	if img == nil {
		return ImageRef(InvalidRef)
	}
	if rb, ok := img.(*renderbuf.RenderBuffer); ok {
		img = rb.Clone()
	}
	return r.resources.AddImage(img)
}

// DrawText implements renderbuf.Backend.
func (r *Recorder) DrawText(f glyph.Font, size float64, text string, x, y float64, c renderbuf.RGBA) error {
	r.record(DrawTextCommand{Font: r.resources.AddFont(f), Size: size, Text: text, X: x, Y: y, Color: c})
	return nil
}

// MeasureText implements renderbuf.Backend.
func (r *Recorder) MeasureText(f glyph.Font, size float64, text string) (float64, float64, error) {
	return r.measure.MeasureText(f, size, text)
}

// Recording is an immutable container for recorded drawing commands.
// It can be replayed to any renderbuf.Backend.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the width of the recording canvas.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the height of the recording canvas.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Resources returns the resource pool.
func (r *Recording) Resources() *ResourcePool {
	return r.resources
}

// Playback replays the recording onto b.
//
// Every command is replayed. Commands the target rejects are skipped,
// leaving the target as it was, and reported as *PlaybackError values
// joined into the returned error. Pushed clips still open at the end are
// popped so b is left with the clip it started with.
func (r *Recording) Playback(b renderbuf.Backend) error {
	var errs []error
	depth := 0
	for i, cmd := range r.commands {
		var err error
		switch c := cmd.(type) {
		case ClearCommand:
			b.Clear(c.Color)
		case SetTransformCommand:
			b.SetTransform(c.Matrix)
		case PushClipCommand:
			b.PushClip(c.Rect)
			depth++
		case PopClipCommand:
			if depth > 0 {
				b.PopClip()
				depth--
			}
		case FillPolygonCommand:
			err = b.FillPolygon(c.Points, c.Color)
		case FillTrianglesCommand:
			err = b.FillTriangles(c.Points, c.Color)
		case FillTrianglesUVCommand:
			err = b.FillTrianglesUV(c.Points, c.UVs, r.resources.GetImage(c.Image), c.Tint)
		case DrawLineCommand:
			err = b.DrawLine(c.A, c.B, c.Width, c.Color)
		case DrawRectCommand:
			err = b.DrawRect(c.X, c.Y, c.W, c.H, c.Color)
		case DrawImageCommand:
			img := r.resources.GetImage(c.Image)
			if img == nil {
				err = errMissingImage
				break
			}
			err = b.DrawImageRect(img, c.Src, c.X, c.Y, c.W, c.H, c.Tint)
		case DrawTextCommand:
			err = b.DrawText(r.resources.GetFont(c.Font), c.Size, c.Text, c.X, c.Y, c.Color)
		default:
			err = errUnknownCommand
		}
		if err != nil {
			errs = append(errs, &PlaybackError{Index: i, Type: cmd.Type(), Err: err})
		}
	}
	for ; depth > 0; depth-- {
		b.PopClip()
	}
	if len(errs) > 0 {
		renderbuf.Logger().Debug("recording: playback skipped commands",
			"skipped", len(errs), "total", len(r.commands))
	}
	return errors.Join(errs...)
}

var (
	errMissingImage   = errors.New("recording: image not in resource pool")
	errUnknownCommand = errors.New("recording: unknown command")
)
