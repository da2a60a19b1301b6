package geometry

import (
	"math"
	"testing"
)

func TestArrowheadAtMidpoint(t *testing.T) {
	head := Arrowhead(Point{0, 0}, Point{100, 0}, 10)

	c := 10 * math.Cos(math.Pi/6)
	want := [3]Point{{50, 0}, {50 - c, 5}, {50 - c, -5}}
	for i := range head {
		if !head[i].Eq(want[i], tol) {
			t.Errorf("point %d = %v, want %v", i, head[i], want[i])
		}
	}
}

func TestArrowheadWingsTrailTip(t *testing.T) {
	from, to := Point{10, 10}, Point{-40, 130}
	head := Arrowhead(from, to, DefaultArrowSize)

	for _, w := range head[1:] {
		if d := Distance(head[0], w); math.Abs(d-DefaultArrowSize) > tol {
			t.Errorf("wing distance = %v, want %v", d, DefaultArrowSize)
		}
		// Wings sit behind the tip, closer to the source.
		if Distance(w, from) >= Distance(head[0], from) {
			t.Errorf("wing %v is not behind the tip %v", w, head[0])
		}
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		to   Point
		want Edge
	}{
		{Point{5, 1}, East},
		{Point{-5, 1}, West},
		{Point{1, 5}, South},
		{Point{1, -5}, North},
		{Point{0, 0}, None},
	}
	for _, tt := range tests {
		if got := Heading(Point{}, tt.to); got != tt.want {
			t.Errorf("Heading(%v) = %v, want %v", tt.to, got, tt.want)
		}
	}
}
