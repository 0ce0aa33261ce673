package renderbuf

import "math"

// Rect is an axis-aligned pixel rectangle, half-open: it contains the
// pixels with X0 <= x < X1 and Y0 <= y < Y1.
type Rect struct {
	X0, Y0, X1, Y1 int
}

// RectXYWH creates a Rect from an origin and a size.
func RectXYWH(x, y, w, h int) Rect {
	return Rect{X0: x, Y0: y, X1: x + w, Y1: y + h}
}

// Dx returns the width of the rectangle.
func (r Rect) Dx() int {
	return r.X1 - r.X0
}

// Dy returns the height of the rectangle.
func (r Rect) Dy() int {
	return r.Y1 - r.Y0
}

// Empty reports whether the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// Contains reports whether pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Intersect returns the largest rectangle contained by both r and s.
// Disjoint rectangles produce an empty Rect.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		X0: max(r.X0, s.X0),
		Y0: max(r.Y0, s.Y0),
		X1: min(r.X1, s.X1),
		Y1: min(r.Y1, s.Y1),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}

// unboundedRect is the base of a clip stack. The buffer extent is applied
// when the clip is read, so it follows the buffer through resizes.
var unboundedRect = Rect{X0: math.MinInt32, Y0: math.MinInt32, X1: math.MaxInt32, Y1: math.MaxInt32}

// clipStack manages nested rectangular clip regions.
type clipStack struct {
	saved  []Rect
	bounds Rect
}

func newClipStack(bounds Rect) clipStack {
	return clipStack{
		saved:  make([]Rect, 0, 8),
		bounds: bounds,
	}
}

// push narrows the clip to its intersection with r.
func (cs *clipStack) push(r Rect) {
	cs.saved = append(cs.saved, cs.bounds)
	cs.bounds = cs.bounds.Intersect(r)
}

// pop restores the clip active before the last push.
// Popping an empty stack is a no-op.
func (cs *clipStack) pop() {
	if len(cs.saved) == 0 {
		return
	}
	last := len(cs.saved) - 1
	cs.bounds = cs.saved[last]
	cs.saved = cs.saved[:last]
}

func (cs *clipStack) depth() int {
	return len(cs.saved)
}

func (cs *clipStack) reset(bounds Rect) {
	cs.saved = cs.saved[:0]
	cs.bounds = bounds
}
