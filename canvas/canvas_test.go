package canvas

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowedit/diagram"
)

func TestNewCanvasSize(t *testing.T) {
	_, err := New(0, 5)
	assert.ErrorIs(t, err, ErrInvalidSize)

	c, err := New(3, 2)
	require.NoError(t, err)
	w, h := c.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.ErrorIs(t, c.Set(3, 0, 'x'), ErrOutOfBounds)
	assert.Equal(t, ' ', c.Get(-1, 0))

	_, err = New(MaxCells/2048+1, 2048)
	assert.ErrorIs(t, err, ErrTooLarge)
	_, err = New(MaxCells, MaxCells)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           []string
	}{
		{"horizontal", 0, 0, 4, 0, []string{"─────"}},
		{"vertical", 1, 0, 1, 2, []string{" │", " │", " │"}},
		{"down right", 0, 0, 2, 2, []string{"╲", " ╲", "  ╲"}},
		{"up right", 0, 2, 2, 0, []string{"  ╱", " ╱", "╱"}},
		{"single cell", 1, 1, 1, 1, []string{"", " ─"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(5, 3)
			require.NoError(t, err)
			c.DrawLine(tt.x0, tt.y0, tt.x1, tt.y1, ConnectorStyle)
			got := strings.Split(strings.TrimRight(c.String(), "\n"), "\n")
			assert.Equal(t, tt.want, got[:len(tt.want)])
		})
	}
}

func TestConnectorsJoinAtCrossings(t *testing.T) {
	c, err := New(5, 5)
	require.NoError(t, err)
	c.DrawLine(0, 2, 4, 2, ConnectorStyle)
	c.DrawLine(2, 0, 2, 4, ConnectorStyle)
	assert.Equal(t, '┼', c.Get(2, 2))
	assert.Equal(t, '─', c.Get(1, 2))
	assert.Equal(t, '│', c.Get(2, 1))

	d, err := New(5, 5)
	require.NoError(t, err)
	d.DrawLine(0, 0, 4, 4, ConnectorStyle)
	d.DrawLine(0, 4, 4, 0, ConnectorStyle)
	assert.Equal(t, '╳', d.Get(2, 2))

	// Outlines overwrite instead of joining.
	o, err := New(3, 1)
	require.NoError(t, err)
	o.DrawLine(0, 0, 2, 0, OutlineStyle)
	o.DrawLine(1, 0, 1, 0, LineStyle{Vertical: '│', Horizontal: '│'})
	assert.Equal(t, "─│─\n", o.String())
}

func TestJunction(t *testing.T) {
	tests := []struct {
		existing, r, want rune
	}{
		{' ', '─', '─'},
		{'─', '─', '─'},
		{'─', '│', '┼'},
		{'│', '─', '┼'},
		{'╱', '╲', '╳'},
		{'┼', '│', '┼'},
		{'─', '╲', '╲'},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, junction(tt.existing, tt.r), "%q over %q", tt.r, tt.existing)
	}
}

func TestDrawBox(t *testing.T) {
	c, err := New(4, 3)
	require.NoError(t, err)
	c.DrawBox(3, 2, 0, 0, RoundedBox)
	assert.Equal(t, "╭──╮\n│  │\n╰──╯\n", c.String())
}

func TestDrawText(t *testing.T) {
	c, err := New(10, 1)
	require.NoError(t, err)
	c.DrawText(5, 0, "Hello World", 5)
	assert.Equal(t, "   Hell…\n", c.String())

	wide, err := New(6, 1)
	require.NoError(t, err)
	wide.DrawText(3, 0, "日本", 6)
	assert.Equal(t, " 日本\n", wide.String())
}

func TestRenderSideBySide(t *testing.T) {
	fc := diagram.New()
	a, _ := fc.AddBlock(diagram.BlockProcess, diagram.At(diagram.Position{X: 0, Y: 0}))
	b, _ := fc.AddBlock(diagram.BlockProcess, diagram.At(diagram.Position{X: 300, Y: 0}))
	_, err := fc.Connect(a.ID, b.ID)
	require.NoError(t, err)

	c, err := Render(fc, DefaultOptions())
	require.NoError(t, err)

	w, h := c.Size()
	assert.Equal(t, 48, w)
	assert.Equal(t, 6, h)

	rows := c.Rows()
	assert.Contains(t, rows[1], "┌──────────────┐")
	assert.Contains(t, rows[3], "Process")
	assert.Contains(t, rows[3], "│───────▶──────│")
}

func TestRenderShapes(t *testing.T) {
	fc := diagram.New()
	start, _ := fc.AddBlock(diagram.BlockStart, diagram.At(diagram.Position{X: 0, Y: 0}))
	dec, _ := fc.AddBlock(diagram.BlockDecision, diagram.At(diagram.Position{X: 0, Y: 150}))
	in, _ := fc.AddBlock(diagram.BlockInput, diagram.At(diagram.Position{X: 0, Y: 400}))
	_, err := fc.Connect(start.ID, dec.ID)
	require.NoError(t, err)
	_, err = fc.Connect(dec.ID, in.ID)
	require.NoError(t, err)

	c, err := Render(fc, Options{Selected: dec.ID})
	require.NoError(t, err)
	out := c.String()

	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "Start")
	assert.Contains(t, out, "Decision?")
	assert.Contains(t, out, "Input")
	assert.Contains(t, out, "/")
	assert.Contains(t, out, "\\")
	assert.Equal(t, 2, strings.Count(out, "▼"))
}

func TestRenderFarApartBlocks(t *testing.T) {
	fc := diagram.New()
	_, err := fc.AddBlock(diagram.BlockProcess, diagram.At(diagram.Position{X: 0, Y: 0}))
	require.NoError(t, err)
	_, err = fc.AddBlock(diagram.BlockProcess, diagram.At(diagram.Position{X: 2e6, Y: 4e5}))
	require.NoError(t, err)

	v := Fit(fc, DefaultOptions())
	assert.Greater(t, v.Width*v.Height, MaxCells)

	_, err = Render(fc, DefaultOptions())
	assert.ErrorIs(t, err, ErrTooLarge)

	fc.Blocks[1].Position = diagram.Position{X: 1e300, Y: 1e300}
	_, err = Render(fc, DefaultOptions())
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRenderEmpty(t *testing.T) {
	c, err := Render(diagram.New(), DefaultOptions())
	require.NoError(t, err)
	w, h := c.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 3, h)

	_, err = Render(nil, DefaultOptions())
	assert.Error(t, err)
}
