package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"flowedit/diagram"
	"flowedit/geometry"
)

// SVGExporter draws flowcharts as standalone SVG images
type SVGExporter struct {
	ArrowSize float64
	Margin    float64
}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{ArrowSize: geometry.DefaultArrowSize, Margin: 20}
}

// Export converts the flowchart to SVG. Connectors are drawn under the
// blocks and their arrowheads above them.
func (e *SVGExporter) Export(fc *diagram.Flowchart) (string, error) {
	if err := checkDrawable(fc); err != nil {
		return "", err
	}
	size := e.ArrowSize
	if size <= 0 {
		size = geometry.DefaultArrowSize
	}

	lo, hi := bounds(fc)
	lo = lo.Add(-e.Margin, -e.Margin)
	hi = hi.Add(e.Margin, e.Margin)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`+"\n",
		formatNumber(hi.X-lo.X), formatNumber(hi.Y-lo.Y),
		formatNumber(lo.X), formatNumber(lo.Y), formatNumber(hi.X-lo.X), formatNumber(hi.Y-lo.Y))
	if fc.Metadata.Name != "" {
		fmt.Fprintf(&sb, "  <title>%s</title>\n", html.EscapeString(fc.Metadata.Name))
	}

	sb.WriteString(`  <g class="connections" stroke="#333" stroke-width="2">` + "\n")
	for _, c := range fc.Connections {
		fmt.Fprintf(&sb, `    <line id="%s" x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
			html.EscapeString(c.ID),
			formatNumber(c.FromPosition.X), formatNumber(c.FromPosition.Y),
			formatNumber(c.ToPosition.X), formatNumber(c.ToPosition.Y))
	}
	sb.WriteString("  </g>\n")

	sb.WriteString(`  <g class="blocks" fill="#fff" stroke="#333" stroke-width="2">` + "\n")
	for _, b := range fc.Blocks {
		e.writeBlock(&sb, b)
	}
	sb.WriteString("  </g>\n")

	sb.WriteString(`  <g class="arrows" fill="#333">` + "\n")
	for _, c := range fc.Connections {
		head := geometry.Arrowhead(c.FromPosition.Point(), c.ToPosition.Point(), size)
		fmt.Fprintf(&sb, `    <polygon points="%s"/>`+"\n", points(head[:]))
	}
	sb.WriteString("  </g>\n")

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

func (e *SVGExporter) writeBlock(sb *strings.Builder, b diagram.Block) {
	id := html.EscapeString(b.ID)
	s := b.Shape()
	switch b.Type {
	case diagram.BlockStart, diagram.BlockEnd:
		fmt.Fprintf(sb, `    <rect id="%s" class="%s" x="%s" y="%s" width="%s" height="%s" rx="%s"/>`+"\n",
			id, b.Type, formatNumber(b.Position.X), formatNumber(b.Position.Y),
			formatNumber(b.Width), formatNumber(b.Height), formatNumber(b.Height/2))
	default:
		fmt.Fprintf(sb, `    <polygon id="%s" class="%s" points="%s"/>`+"\n", id, b.Type, points(s.Polygon()))
	}
	fmt.Fprintf(sb, `    <text x="%s" y="%s" fill="#333" stroke="none" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
		formatNumber(s.Center.X), formatNumber(s.Center.Y), html.EscapeString(b.Text))
}

// bounds returns the box covering every block outline and connector.
func bounds(fc *diagram.Flowchart) (geometry.Point, geometry.Point) {
	lo := geometry.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi := geometry.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	grow := func(p geometry.Point) {
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
	}
	for _, b := range fc.Blocks {
		min, max := b.Shape().Bounds()
		grow(min)
		grow(max)
	}
	for _, c := range fc.Connections {
		grow(c.FromPosition.Point())
		grow(c.ToPosition.Point())
	}
	return lo, hi
}

func points(ps []geometry.Point) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = formatNumber(p.X) + "," + formatNumber(p.Y)
	}
	return strings.Join(parts, " ")
}

// FileExtension returns the recommended file extension
func (e *SVGExporter) FileExtension() string {
	return ".svg"
}

// FormatName returns the format name
func (e *SVGExporter) FormatName() string {
	return "SVG"
}
