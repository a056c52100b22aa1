package physics

import (
	"math"
	"testing"
)

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 10, Y: 10, W: 10, H: 10}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"identical", base, true},
		{"contained", Rect{X: 12, Y: 12, W: 2, H: 2}, true},
		{"partial", Rect{X: 15, Y: 15, W: 10, H: 10}, true},
		{"touching right edge", Rect{X: 20, Y: 10, W: 5, H: 10}, false},
		{"touching left edge", Rect{X: 5, Y: 10, W: 5, H: 10}, false},
		{"touching bottom edge", Rect{X: 10, Y: 20, W: 10, H: 5}, false},
		{"touching top edge", Rect{X: 10, Y: 5, W: 10, H: 5}, false},
		{"touching corner", Rect{X: 20, Y: 20, W: 5, H: 5}, false},
		{"apart", Rect{X: 40, Y: 40, W: 5, H: 5}, false},
		{"sliver inside edge", Rect{X: 19.999, Y: 10, W: 5, H: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Fatalf("Overlaps(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Fatalf("reverse Overlaps(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectCenter(t *testing.T) {
	r := RectAt(Vec{X: 100, Y: 80}, Vec{X: 30, Y: 30})
	if got := r.Center(); got != (Vec{X: 115, Y: 95}) {
		t.Fatalf("Center() = %+v, want {115 95}", got)
	}
	if r.Right() != 130 || r.Bottom() != 110 {
		t.Fatalf("Right/Bottom = %v/%v, want 130/110", r.Right(), r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-5, 0, 760); got != 0 {
		t.Fatalf("Clamp(-5) = %v, want 0", got)
	}
	if got := Clamp(900, 0, 760); got != 760 {
		t.Fatalf("Clamp(900) = %v, want 760", got)
	}
	if got := Clamp(42, 0, 760); got != 42 {
		t.Fatalf("Clamp(42) = %v, want 42", got)
	}
	if got := Clamp(5, 10, 0); got != 10 {
		t.Fatalf("Clamp with inverted bounds = %v, want 10", got)
	}
}

func TestFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/2, 100)
	if math.Abs(v.X) > 1e-9 || math.Abs(v.Y-100) > 1e-9 {
		t.Fatalf("FromAngle(pi/2, 100) = %+v, want {0 100}", v)
	}
	sum := Vec{X: 1, Y: 2}.Add(Vec{X: 3, Y: 4}).Scale(2)
	if sum != (Vec{X: 8, Y: 12}) {
		t.Fatalf("Add/Scale = %+v, want {8 12}", sum)
	}
}
