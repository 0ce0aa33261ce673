package recording

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/gogpu/renderbuf"
	"github.com/gogpu/renderbuf/glyph"
)

// ErrInvalidScene is returned when a scene description cannot be decoded.
var ErrInvalidScene = errors.New("recording: invalid scene")

// Scene is the JSON form of a recording:
//
//	{
//	  "width": 128, "height": 64,
//	  "ops": [
//	    {"op": "clear", "color": "#ffffff"},
//	    {"op": "transform", "matrix": [[1, 0, 10], [0, 1, 10]]},
//	    {"op": "clip", "rect": [0, 0, 64, 64]},
//	    {"op": "polygon", "points": [[0, 0], [40, 0], [20, 30]], "color": "#ff000080"},
//	    {"op": "triangles", "points": [[0, 0], [8, 0], [0, 8]], "color": "#00f"},
//	    {"op": "line", "from": [0, 50], "to": [100, 50], "width": 2, "color": "#000"},
//	    {"op": "rect", "rect": [70, 5, 20, 20], "color": "#0f0"},
//	    {"op": "image", "path": "logo.png", "at": [90, 30]},
//	    {"op": "text", "text": "hello", "size": 16, "at": [4, 60], "color": "#000"},
//	    {"op": "pop_clip"}
//	  ]
//	}
//
// Colors are hex strings as accepted by renderbuf.Hex and default to
// opaque black. An image op may also give "src" (x, y, w, h in image
// pixels), "size" (w, h in user space) and "color" (tint, default white).
// Text size defaults to 16.
type Scene struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Ops    []SceneOp `json:"ops"`
}

// SceneOp is one operation of a Scene. Which fields apply depends on Op.
type SceneOp struct {
	Op     string         `json:"op"`
	Color  string         `json:"color,omitempty"`
	Matrix *[2][3]float64 `json:"matrix,omitempty"`
	Rect   []float64      `json:"rect,omitempty"`
	Points [][2]float64   `json:"points,omitempty"`
	UVs    [][2]float64   `json:"uvs,omitempty"`
	From   *[2]float64    `json:"from,omitempty"`
	To     *[2]float64    `json:"to,omitempty"`
	Width  float64        `json:"width,omitempty"`
	At     *[2]float64    `json:"at,omitempty"`
	Size   numbers        `json:"size,omitempty"`
	Src    []int          `json:"src,omitempty"`
	Path   string         `json:"path,omitempty"`
	Text   string         `json:"text,omitempty"`
}

// numbers decodes either a single JSON number or an array of numbers.
type numbers []float64

func (n *numbers) UnmarshalJSON(b []byte) error {
	var one float64
	if err := json.Unmarshal(b, &one); err == nil {
		*n = numbers{one}
		return nil
	}
	var many []float64
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*n = many
	return nil
}

// ImageLoader loads the image referenced by a scene's image op.
type ImageLoader func(path string) (image.Image, error)

// SceneOption configures DecodeScene.
type SceneOption func(*sceneOptions)

type sceneOptions struct {
	loadImage ImageLoader
	font      glyph.Font
}

// WithImageLoader sets the loader for image ops. Without it, scenes that
// contain image ops fail to decode.
func WithImageLoader(l ImageLoader) SceneOption {
	return func(o *sceneOptions) {
		o.loadImage = l
	}
}

// WithFont sets the font for text ops. Without it the target's default
// font is used.
func WithFont(f glyph.Font) SceneOption {
	return func(o *sceneOptions) {
		o.font = f
	}
}

// DecodeScene reads a JSON scene and records it.
//
// Structural problems (bad JSON, unknown ops, missing fields, bad colors,
// unloadable images) fail the whole decode with ErrInvalidScene.
// Geometric problems such as a polygon with too few points are recorded as
// given and reported by Playback.
func DecodeScene(r io.Reader, opts ...SceneOption) (*Recording, error) {
	var o sceneOptions
	for _, opt := range opts {
		opt(&o)
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScene, err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidScene, s.Width, s.Height)
	}

	rec := NewRecorder(s.Width, s.Height)
	images := make(map[string]image.Image)
	for i, op := range s.Ops {
		if err := recordOp(rec, &op, &o, images); err != nil {
			return nil, fmt.Errorf("%w: op %d (%s): %w", ErrInvalidScene, i, op.Op, err)
		}
	}
	return rec.FinishRecording(), nil
}

func recordOp(rec *Recorder, op *SceneOp, o *sceneOptions, images map[string]image.Image) error {
	switch op.Op {
	case "clear":
		c, err := parseColor(op.Color, renderbuf.Black)
		if err != nil {
			return err
		}
		rec.Clear(c)

	case "transform":
		if op.Matrix == nil {
			return errors.New("missing matrix")
		}
		rec.SetTransform(renderbuf.MatrixFromRows(*op.Matrix))

	case "clip":
		if len(op.Rect) != 4 {
			return errors.New("rect needs 4 numbers")
		}
		rec.PushClip(renderbuf.RectXYWH(int(op.Rect[0]), int(op.Rect[1]), int(op.Rect[2]), int(op.Rect[3])))

	case "pop_clip":
		rec.PopClip()

	case "polygon", "triangles":
		c, err := parseColor(op.Color, renderbuf.Black)
		if err != nil {
			return err
		}
		pts := toPoints(op.Points)
		if op.Op == "polygon" {
			return rec.FillPolygon(pts, c)
		}
		if len(op.UVs) == 0 {
			return rec.FillTriangles(pts, c)
		}
		img, err := sceneImage(op.Path, o, images)
		if err != nil {
			return err
		}
		tint, err := parseColor(op.Color, renderbuf.White)
		if err != nil {
			return err
		}
		return rec.FillTrianglesUV(pts, toPoints(op.UVs), img, tint)

	case "line":
		if op.From == nil || op.To == nil {
			return errors.New("missing from or to")
		}
		c, err := parseColor(op.Color, renderbuf.Black)
		if err != nil {
			return err
		}
		width := op.Width
		if width == 0 {
			width = 1
		}
		return rec.DrawLine(renderbuf.Pt(op.From[0], op.From[1]), renderbuf.Pt(op.To[0], op.To[1]), width, c)

	case "rect":
		if len(op.Rect) != 4 {
			return errors.New("rect needs 4 numbers")
		}
		c, err := parseColor(op.Color, renderbuf.Black)
		if err != nil {
			return err
		}
		return rec.DrawRect(op.Rect[0], op.Rect[1], op.Rect[2], op.Rect[3], c)

	case "image":
		if op.At == nil {
			return errors.New("missing at")
		}
		img, err := sceneImage(op.Path, o, images)
		if err != nil {
			return err
		}
		tint, err := parseColor(op.Color, renderbuf.White)
		if err != nil {
			return err
		}
		b := img.Bounds()
		src := renderbuf.RectXYWH(0, 0, b.Dx(), b.Dy())
		if op.Src != nil {
			if len(op.Src) != 4 {
				return errors.New("src needs 4 numbers")
			}
			src = renderbuf.RectXYWH(op.Src[0], op.Src[1], op.Src[2], op.Src[3])
		}
		w, h := float64(src.Dx()), float64(src.Dy())
		if op.Size != nil {
			if len(op.Size) != 2 {
				return errors.New("size needs 2 numbers")
			}
			w, h = op.Size[0], op.Size[1]
		}
		return rec.DrawImageRect(img, src, op.At[0], op.At[1], w, h, tint)

	case "text":
		if op.At == nil {
			return errors.New("missing at")
		}
		c, err := parseColor(op.Color, renderbuf.Black)
		if err != nil {
			return err
		}
		size := 16.0
		if len(op.Size) == 1 {
			size = op.Size[0]
		} else if len(op.Size) > 1 {
			return errors.New("text size needs 1 number")
		}
		return rec.DrawText(o.font, size, op.Text, op.At[0], op.At[1], c)

	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
	return nil
}

func sceneImage(path string, o *sceneOptions, images map[string]image.Image) (image.Image, error) {
	if path == "" {
		return nil, errors.New("missing path")
	}
	if img, ok := images[path]; ok {
		return img, nil
	}
	if o.loadImage == nil {
		return nil, fmt.Errorf("no image loader for %q", path)
	}
	img, err := o.loadImage(path)
	if err != nil {
		return nil, err
	}
	images[path] = img
	return img, nil
}

func toPoints(in [][2]float64) []renderbuf.Point {
	pts := make([]renderbuf.Point, len(in))
	for i, p := range in {
		pts[i] = renderbuf.Pt(p[0], p[1])
	}
	return pts
}

// parseColor parses a hex color, returning def for an empty string.
func parseColor(s string, def renderbuf.RGBA) (renderbuf.RGBA, error) {
	if s == "" {
		return def, nil
	}
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return renderbuf.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return renderbuf.RGBA{}, fmt.Errorf("bad color %q", s)
		}
	}
	return renderbuf.Hex(h), nil
}
