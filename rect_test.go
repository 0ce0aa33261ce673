package renderbuf

import "testing"

func TestRect_Intersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", Rect{0, 0, 4, 4}, Rect{2, 1, 6, 3}, Rect{2, 1, 4, 3}},
		{"contained", Rect{0, 0, 10, 10}, Rect{2, 2, 3, 3}, Rect{2, 2, 3, 3}},
		{"touching edges", Rect{0, 0, 2, 2}, Rect{2, 0, 4, 2}, Rect{}},
		{"disjoint", Rect{0, 0, 1, 1}, Rect{5, 5, 6, 6}, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRect_Basics(t *testing.T) {
	r := RectXYWH(1, 2, 3, 4)
	if r != (Rect{X0: 1, Y0: 2, X1: 4, Y1: 6}) {
		t.Errorf("RectXYWH = %v", r)
	}
	if r.Dx() != 3 || r.Dy() != 4 {
		t.Errorf("Dx, Dy = %d, %d", r.Dx(), r.Dy())
	}
	if !r.Contains(1, 2) || r.Contains(4, 2) || r.Contains(1, 6) {
		t.Error("Contains should be half-open")
	}
	if !(Rect{X0: 3, X1: 3, Y1: 1}).Empty() {
		t.Error("zero-width rect should be empty")
	}
}

func TestClipStack(t *testing.T) {
	cs := newClipStack(Rect{X1: 10, Y1: 10})
	cs.push(Rect{X0: 2, Y0: 2, X1: 20, Y1: 5})
	if cs.bounds != (Rect{X0: 2, Y0: 2, X1: 10, Y1: 5}) {
		t.Errorf("bounds after push = %v", cs.bounds)
	}
	if cs.depth() != 1 {
		t.Errorf("depth = %d, want 1", cs.depth())
	}
	cs.pop()
	cs.pop()
	if cs.bounds != (Rect{X1: 10, Y1: 10}) || cs.depth() != 0 {
		t.Errorf("after pops: bounds %v depth %d", cs.bounds, cs.depth())
	}
	cs.push(Rect{X1: 1, Y1: 1})
	cs.reset(Rect{X1: 3, Y1: 3})
	if cs.bounds != (Rect{X1: 3, Y1: 3}) || cs.depth() != 0 {
		t.Errorf("after reset: bounds %v depth %d", cs.bounds, cs.depth())
	}
}
