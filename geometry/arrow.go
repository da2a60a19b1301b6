package geometry

import "math"

// DefaultArrowSize is the wing length of a connector arrowhead in pixels.
const DefaultArrowSize = 10

// Arrowhead returns the triangle marking a connector's direction. The tip
// sits at the segment midpoint and both wings trail it by size, spread 30
// degrees either side of the segment.
func Arrowhead(from, to Point, size float64) [3]Point {
	mid := Midpoint(from, to)
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	wing := func(a float64) Point {
		return Point{X: mid.X - size*math.Cos(a), Y: mid.Y - size*math.Sin(a)}
	}
	return [3]Point{mid, wing(angle - math.Pi/6), wing(angle + math.Pi/6)}
}

// Heading returns the edge a segment from a to b points toward, by its
// dominant axis.
func Heading(a, b Point) Edge {
	dx, dy := b.Sub(a)
	switch {
	case dx == 0 && dy == 0:
		return None
	case IsHorizontal(a, b):
		return sideEdge(dx)
	default:
		return capEdge(dy)
	}
}
