// Package geometry computes where connectors meet flowchart shapes.
//
// A connector between two shapes is drawn along the line joining their
// centers, clipped to each shape's outline, so the arrow touches the edges
// instead of overlapping the interiors. Every function here is pure.
package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Kind is the outline of a shape.
type Kind int

const (
	Rectangle Kind = iota
	Diamond
	Parallelogram
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case Rectangle:
		return "rectangle"
	case Diamond:
		return "diamond"
	case Parallelogram:
		return "parallelogram"
	default:
		return "unknown"
	}
}

// ParseKind converts a name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangle", "rect", "box", "":
		return Rectangle, nil
	case "diamond", "rhombus":
		return Diamond, nil
	case "parallelogram", "para":
		return Parallelogram, nil
	default:
		return Rectangle, fmt.Errorf("unknown shape kind: %s", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Edge names the side of a shape a connector attaches to.
type Edge int

const (
	None Edge = iota
	North
	East
	South
	West
)

// String returns the string representation of an Edge.
func (e Edge) String() string {
	switch e {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Edge) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Opposite returns the opposite edge.
func (e Edge) Opposite() Edge {
	switch e {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return e
	}
}

// Shape is a rectangle, diamond or parallelogram given by its center and
// half extents. Skew only applies to parallelograms: it is the horizontal
// offset of the bottom edge from the center line; the top edge is offset
// by -Skew.
type Shape struct {
	Kind       Kind    `json:"kind"`
	Center     Point   `json:"center"`
	HalfWidth  float64 `json:"halfWidth"`
	HalfHeight float64 `json:"halfHeight"`
	Skew       float64 `json:"skew,omitempty"`
}

// NewRect returns a rectangle centered on (cx, cy).
func NewRect(cx, cy, halfWidth, halfHeight float64) Shape {
	return Shape{Kind: Rectangle, Center: Point{X: cx, Y: cy}, HalfWidth: halfWidth, HalfHeight: halfHeight}
}

// NewDiamond returns a diamond centered on (cx, cy).
func NewDiamond(cx, cy, halfWidth, halfHeight float64) Shape {
	return Shape{Kind: Diamond, Center: Point{X: cx, Y: cy}, HalfWidth: halfWidth, HalfHeight: halfHeight}
}

// NewParallelogram returns a parallelogram centered on (cx, cy).
func NewParallelogram(cx, cy, halfWidth, halfHeight, skew float64) Shape {
	return Shape{Kind: Parallelogram, Center: Point{X: cx, Y: cy}, HalfWidth: halfWidth, HalfHeight: halfHeight, Skew: skew}
}

// Degenerate reports whether the shape has collapsed to a point.
func (s Shape) Degenerate() bool {
	return !(s.HalfWidth > 0) || !(s.HalfHeight > 0)
}

// Polygon returns the outline vertices in clockwise order (screen
// coordinates). Rectangles and parallelograms start at the top-left corner,
// diamonds at the top vertex.
func (s Shape) Polygon() []Point {
	c, a, b := s.Center, s.HalfWidth, s.HalfHeight
	switch s.Kind {
	case Diamond:
		return []Point{c.Add(0, -b), c.Add(a, 0), c.Add(0, b), c.Add(-a, 0)}
	case Parallelogram:
		k := s.Skew
		return []Point{c.Add(-a-k, -b), c.Add(a-k, -b), c.Add(a+k, b), c.Add(-a+k, b)}
	default:
		return []Point{c.Add(-a, -b), c.Add(a, -b), c.Add(a, b), c.Add(-a, b)}
	}
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s Shape) Bounds() (min, max Point) {
	min = Point{X: math.Inf(1), Y: math.Inf(1)}
	max = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, p := range s.Polygon() {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	return min, max
}

// Hit is a point on a shape's outline and the side it lies on.
type Hit struct {
	Point Point `json:"point"`
	Edge  Edge  `json:"edge"`
}

// Boundary returns where the ray from the shape's center along (dx, dy)
// crosses its outline. A zero direction or a degenerate shape yields the
// center with Edge None.
func Boundary(s Shape, dx, dy float64) Hit {
	if (dx == 0 && dy == 0) || s.Degenerate() {
		return Hit{Point: s.Center, Edge: None}
	}
	switch s.Kind {
	case Diamond:
		return diamondBoundary(s, dx, dy)
	case Parallelogram:
		return polygonBoundary(s, dx, dy)
	default:
		return rectBoundary(s, dx, dy)
	}
}

// BoundaryToward returns where the line from the shape's center to p
// crosses its outline.
func BoundaryToward(s Shape, p Point) Hit {
	dx, dy := p.Sub(s.Center)
	return Boundary(s, dx, dy)
}

// Connect returns the endpoints of a connector from source to target: the
// crossing of the center line with each shape's outline.
func Connect(source, target Shape) (from, to Point) {
	from = BoundaryToward(source, target.Center).Point
	to = BoundaryToward(target, source.Center).Point
	return from, to
}

// sidesFirst reports whether a ray along (dx, dy) leaves through the
// left/right part of the outline. The threshold slope is
// halfHeight/halfWidth; a ray exactly on it counts as a side hit.
func sidesFirst(s Shape, dx, dy float64) bool {
	if dx == 0 {
		return false
	}
	if dy == 0 {
		return true
	}
	return math.Abs(dy)*s.HalfWidth <= math.Abs(dx)*s.HalfHeight
}

func sideEdge(dx float64) Edge {
	if dx > 0 {
		return East
	}
	return West
}

func capEdge(dy float64) Edge {
	if dy > 0 {
		return South
	}
	return North
}

func rectBoundary(s Shape, dx, dy float64) Hit {
	c, a, b := s.Center, s.HalfWidth, s.HalfHeight
	if sidesFirst(s, dx, dy) {
		return Hit{
			Point: Point{X: c.X + math.Copysign(a, dx), Y: c.Y + dy/math.Abs(dx)*a},
			Edge:  sideEdge(dx),
		}
	}
	return Hit{
		Point: Point{X: c.X + dx/math.Abs(dy)*b, Y: c.Y + math.Copysign(b, dy)},
		Edge:  capEdge(dy),
	}
}

// diamondBoundary solves |x|/a + |y|/b = 1 along the ray directly; both
// coordinates move along the facet at once.
func diamondBoundary(s Shape, dx, dy float64) Hit {
	c, a, b := s.Center, s.HalfWidth, s.HalfHeight
	t := 1 / (math.Abs(dx)/a + math.Abs(dy)/b)
	edge := capEdge(dy)
	if sidesFirst(s, dx, dy) {
		edge = sideEdge(dx)
	}
	return Hit{Point: Point{X: c.X + t*dx, Y: c.Y + t*dy}, Edge: edge}
}

// polygonBoundary intersects the ray with each outline segment and keeps
// the nearest crossing. Segments are ordered north, east, south, west.
// The direction is normalized first so the parallel test does not depend
// on its length.
func polygonBoundary(s Shape, dx, dy float64) Hit {
	const tol = 1e-12
	n := math.Hypot(dx, dy)
	dx, dy = dx/n, dy/n
	c := s.Center
	verts := s.Polygon()
	edges := [4]Edge{North, East, South, West}

	best := Hit{Point: c, Edge: None}
	bestT := math.Inf(1)
	for i, p := range verts {
		q := verts[(i+1)%len(verts)]
		ex, ey := q.Sub(p)
		denom := cross(dx, dy, ex, ey)
		if math.Abs(denom) < tol {
			continue
		}
		wx, wy := p.Sub(c)
		t := cross(wx, wy, ex, ey) / denom
		u := cross(wx, wy, dx, dy) / denom
		if t < 0 || u < -tol || u > 1+tol {
			continue
		}
		if t < bestT {
			bestT = t
			best = Hit{Point: Point{X: c.X + t*dx, Y: c.Y + t*dy}, Edge: edges[i%len(edges)]}
		}
	}
	return best
}

// OnBoundary reports whether p lies on the outline of s within tol.
func OnBoundary(s Shape, p Point, tol float64) bool {
	if s.Degenerate() {
		return Distance(p, s.Center) <= tol
	}
	verts := s.Polygon()
	for i, a := range verts {
		if segmentDistance(p, a, verts[(i+1)%len(verts)]) <= tol {
			return true
		}
	}
	return false
}
