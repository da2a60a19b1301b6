package canvas

import (
	"errors"
	"math"

	"flowedit/diagram"
	"flowedit/geometry"
)

// Options controls how pixel coordinates map onto character cells.
type Options struct {
	CellWidth  float64 // pixels per column
	CellHeight float64 // pixels per row
	Selected   string  // block drawn with a heavy outline
}

// DefaultOptions maps a 10x20 pixel area to one cell, roughly the aspect
// of a terminal glyph.
func DefaultOptions() Options {
	return Options{CellWidth: 10, CellHeight: 20}
}

// Viewport maps canvas pixels onto cells.
type Viewport struct {
	originX, originY float64
	cellW, cellH     float64
	Width, Height    int
}

// Cell converts a pixel position to a cell.
func (v Viewport) Cell(p geometry.Point) (int, int) {
	return int(math.Round((p.X - v.originX) / v.cellW)), int(math.Round((p.Y - v.originY) / v.cellH))
}

// Fit returns a viewport covering every block and connector with a one
// cell margin.
func Fit(fc *diagram.Flowchart, opts Options) Viewport {
	opts = normalize(opts)
	min := geometry.Point{X: math.Inf(1), Y: math.Inf(1)}
	max := geometry.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(p geometry.Point) {
		min.X, min.Y = math.Min(min.X, p.X), math.Min(min.Y, p.Y)
		max.X, max.Y = math.Max(max.X, p.X), math.Max(max.Y, p.Y)
	}
	for _, b := range fc.Blocks {
		lo, hi := b.Shape().Bounds()
		grow(lo)
		grow(hi)
	}
	for _, c := range fc.Connections {
		grow(c.FromPosition.Point())
		grow(c.ToPosition.Point())
	}
	if math.IsInf(min.X, 1) {
		min, max = geometry.Point{}, geometry.Point{}
	}

	v := Viewport{
		originX: min.X - opts.CellWidth,
		originY: min.Y - opts.CellHeight,
		cellW:   opts.CellWidth,
		cellH:   opts.CellHeight,
	}
	v.Width, v.Height = v.Cell(max)
	v.Width += 2
	v.Height += 2
	return v
}

func normalize(opts Options) Options {
	def := DefaultOptions()
	if opts.CellWidth <= 0 {
		opts.CellWidth = def.CellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = def.CellHeight
	}
	return opts
}

// Render draws the flowchart and returns the canvas. Connectors go down
// first, then blocks on top of them, then the arrowheads at connector
// midpoints. Flowcharts spread wider than MaxCells allows fail with
// ErrTooLarge.
func Render(fc *diagram.Flowchart, opts Options) (*Canvas, error) {
	if fc == nil {
		return nil, errors.New("flowchart is nil")
	}
	opts = normalize(opts)
	v := Fit(fc, opts)
	if v.Width <= 0 || v.Height <= 0 {
		// The extent overflowed int.
		return nil, ErrTooLarge
	}
	c, err := New(v.Width, v.Height)
	if err != nil {
		return nil, err
	}
	DrawFlowchart(c, fc, v, opts)
	return c, nil
}

// DrawFlowchart draws the flowchart onto an existing canvas through v.
func DrawFlowchart(c *Canvas, fc *diagram.Flowchart, v Viewport, opts Options) {
	for _, conn := range fc.Connections {
		x0, y0 := v.Cell(conn.FromPosition.Point())
		x1, y1 := v.Cell(conn.ToPosition.Point())
		c.DrawLine(x0, y0, x1, y1, ConnectorStyle)
	}
	for _, b := range fc.Blocks {
		drawBlock(c, b, v, b.ID == opts.Selected)
	}
	for _, conn := range fc.Connections {
		from, to := conn.FromPosition.Point(), conn.ToPosition.Point()
		x, y := v.Cell(geometry.Midpoint(from, to))
		c.set(x, y, arrowGlyph(geometry.Heading(from, to)))
	}
}

func arrowGlyph(e geometry.Edge) rune {
	switch e {
	case geometry.North:
		return '▲'
	case geometry.South:
		return '▼'
	case geometry.West:
		return '◀'
	default:
		return '▶'
	}
}

func drawBlock(c *Canvas, b diagram.Block, v Viewport, selected bool) {
	s := b.Shape()
	poly := s.Polygon()
	xs, ys := make([]int, len(poly)), make([]int, len(poly))
	for i, p := range poly {
		xs[i], ys[i] = v.Cell(p)
	}
	lo, hi := s.Bounds()
	x0, y0 := v.Cell(lo)
	x1, y1 := v.Cell(hi)

	switch s.Kind {
	case geometry.Rectangle:
		c.Fill(x0+1, y0+1, x1-1, y1-1, ' ')
		style := SquareBox
		if b.Type == diagram.BlockStart || b.Type == diagram.BlockEnd {
			style = RoundedBox
		}
		if selected {
			style = BoxStyle{TopLeft: '┏', TopRight: '┓', BottomLeft: '┗', BottomRight: '┛'}
		}
		c.DrawBox(x0, y0, x1, y1, style)
	default:
		style := OutlineStyle
		if selected {
			style.Horizontal, style.Vertical = '━', '┃'
		}
		c.DrawPolygon(xs, ys, style)
	}

	// The middle row spans the full width of every shape.
	cx, cy := v.Cell(s.Center)
	c.DrawText(cx, cy, b.Text, int(2*s.HalfWidth/v.cellW)-2)
}
