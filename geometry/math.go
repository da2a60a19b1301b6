package geometry

import "math"

// Epsilon is the tolerance used for floating-point comparisons.
const Epsilon = 1e-9

// Point is a position in canvas pixels. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) (dx, dy float64) {
	return p.X - q.X, p.Y - q.Y
}

// Eq reports whether p and q are equal within tol.
func (p Point) Eq(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// IsHorizontal returns true if the segment from a to b is more horizontal than vertical.
func IsHorizontal(a, b Point) bool {
	return math.Abs(b.X-a.X) > math.Abs(b.Y-a.Y)
}

func cross(ax, ay, bx, by float64) float64 {
	return ax*by - ay*bx
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(p, a, b Point) float64 {
	ex, ey := b.Sub(a)
	lenSq := ex*ex + ey*ey
	if lenSq == 0 {
		return Distance(p, a)
	}
	wx, wy := p.Sub(a)
	t := (wx*ex + wy*ey) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Distance(p, Point{X: a.X + t*ex, Y: a.Y + t*ey})
}
