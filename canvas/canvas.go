// Package canvas draws flowcharts onto a grid of character cells.
package canvas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Common errors
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrTooLarge    = errors.New("canvas too large")
)

// MaxCells caps the number of cells a canvas may hold.
const MaxCells = 1 << 22

// LineStyle picks the glyph for each step of a line.
type LineStyle struct {
	Horizontal rune
	Vertical   rune
	DownRight  rune // step where x and y grow together
	UpRight    rune // step where x grows and y shrinks
	Merge      bool // join crossings instead of overwriting
}

var (
	// ConnectorStyle draws connectors with light box-drawing lines.
	ConnectorStyle = LineStyle{Horizontal: '─', Vertical: '│', DownRight: '╲', UpRight: '╱', Merge: true}
	// OutlineStyle draws slanted block outlines.
	OutlineStyle = LineStyle{Horizontal: '─', Vertical: '│', DownRight: '\\', UpRight: '/'}
)

// BoxStyle holds the corner glyphs of a rectangle.
type BoxStyle struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
}

var (
	SquareBox  = BoxStyle{TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘'}
	RoundedBox = BoxStyle{TopLeft: '╭', TopRight: '╮', BottomLeft: '╰', BottomRight: '╯'}
)

// Canvas is a rune matrix. Origin (0,0) is top-left, X grows rightward and
// Y downward. It is not safe for concurrent writes.
type Canvas struct {
	cells  [][]rune
	width  int
	height int
}

// New creates a blank canvas.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if width > MaxCells/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrTooLarge, width, height, MaxCells)
	}
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", width))
	}
	return &Canvas{cells: cells, width: width, height: height}, nil
}

// Size returns the width and height of the canvas.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Get returns the rune at (x, y), or a space outside the canvas.
func (c *Canvas) Get(x, y int) rune {
	if !c.inBounds(x, y) {
		return ' '
	}
	return c.cells[y][x]
}

// Set places a rune at (x, y).
func (c *Canvas) Set(x, y int, r rune) error {
	if !c.inBounds(x, y) {
		return ErrOutOfBounds
	}
	c.cells[y][x] = r
	return nil
}

// set writes a rune and silently clips out-of-range cells.
func (c *Canvas) set(x, y int, r rune) {
	if c.inBounds(x, y) {
		c.cells[y][x] = r
	}
}

// Rows returns the canvas as one string per row.
func (c *Canvas) Rows() []string {
	rows := make([]string, c.height)
	for y, row := range c.cells {
		var sb strings.Builder
		for _, r := range row {
			if r != 0 {
				sb.WriteRune(r)
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// String returns the canvas with trailing spaces trimmed from each row.
func (c *Canvas) String() string {
	var sb strings.Builder
	for _, row := range c.Rows() {
		sb.WriteString(strings.TrimRight(row, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DrawLine draws a line from (x0, y0) to (x1, y1) with Bresenham's
// algorithm, choosing each glyph from the direction of the step into it.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, style LineStyle) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy

	glyph := func(stepX, stepY int) rune {
		switch {
		case stepX != 0 && stepY != 0:
			if stepX == stepY {
				return style.DownRight
			}
			return style.UpRight
		case stepY != 0:
			return style.Vertical
		default:
			return style.Horizontal
		}
	}

	// step reports the move Bresenham makes next without taking it.
	step := func() (int, int) {
		e2 := 2 * err
		stepX, stepY := 0, 0
		if e2 >= dy {
			stepX = sx
		}
		if e2 <= dx {
			stepY = sy
		}
		return stepX, stepY
	}

	put := c.set
	if style.Merge {
		put = c.merge
	}

	x, y := x0, y0
	put(x, y, glyph(step()))
	for x != x1 || y != y1 {
		stepX, stepY := step()
		if stepX != 0 {
			err += dy
			x += stepX
		}
		if stepY != 0 {
			err += dx
			y += stepY
		}
		put(x, y, glyph(stepX, stepY))
	}
}

// DrawBox draws a rectangle outline with corners at (x0, y0) and (x1, y1).
func (c *Canvas) DrawBox(x0, y0, x1, y1 int, style BoxStyle) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─')
		c.set(x, y1, '─')
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│')
		c.set(x1, y, '│')
	}
	c.set(x0, y0, style.TopLeft)
	c.set(x1, y0, style.TopRight)
	c.set(x0, y1, style.BottomLeft)
	c.set(x1, y1, style.BottomRight)
}

// DrawPolygon draws a closed outline through the given vertices.
func (c *Canvas) DrawPolygon(xs, ys []int, style LineStyle) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		c.DrawLine(xs[i], ys[i], xs[j], ys[j], style)
	}
}

// Fill clears the rectangle between two corners, inclusive.
func (c *Canvas) Fill(x0, y0, x1, y1 int, r rune) {
	for y := min(y0, y1); y <= max(y0, y1); y++ {
		for x := min(x0, x1); x <= max(x0, x1); x++ {
			c.set(x, y, r)
		}
	}
}

// DrawText writes text centered on (cx, y), truncated to maxWidth display
// columns. Wide runes take two cells.
func (c *Canvas) DrawText(cx, y int, text string, maxWidth int) {
	if maxWidth <= 0 {
		return
	}
	text = runewidth.Truncate(text, maxWidth, "…")
	x := cx - runewidth.StringWidth(text)/2
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(x, y, r)
		for i := 1; i < w; i++ {
			// Wide runes occupy the following cell too.
			c.set(x+i, y, 0)
		}
		x += w
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
