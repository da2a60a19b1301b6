package export

import (
	"fmt"
	"strconv"
	"strings"

	"flowedit/diagram"
)

// GraphvizExporter exports flowcharts to Graphviz DOT syntax
type GraphvizExporter struct {
	// Pinned adds pos attributes so neato keeps the editor layout.
	Pinned bool
}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{Pinned: true}
}

// Export converts the flowchart to Graphviz DOT syntax
func (e *GraphvizExporter) Export(fc *diagram.Flowchart) (string, error) {
	if err := checkDrawable(fc); err != nil {
		return "", err
	}

	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	if fc.Metadata.Name != "" {
		fmt.Fprintf(&sb, "  label=\"%s\";\n", e.escapeLabel(fc.Metadata.Name))
	}
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box];\n")
	sb.WriteString("  edge [arrowhead=normal];\n\n")

	for _, b := range fc.Blocks {
		attrs := []string{fmt.Sprintf("label=\"%s\"", e.escapeLabel(b.Text))}
		attrs = append(attrs, e.shapeAttributes(b.Type)...)
		if e.Pinned {
			// DOT's y axis points up.
			c := b.Center()
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", formatNumber(c.X), formatNumber(-c.Y)))
		}
		fmt.Fprintf(&sb, "  %s [%s];\n", nodeID(b.ID), strings.Join(attrs, ", "))
	}

	if len(fc.Connections) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range fc.Connections {
		fmt.Fprintf(&sb, "  %s -> %s;\n", nodeID(c.From), nodeID(c.To))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

// shapeAttributes maps a block type to DOT node attributes.
func (e *GraphvizExporter) shapeAttributes(t diagram.BlockType) []string {
	switch t {
	case diagram.BlockStart, diagram.BlockEnd:
		return []string{"style=\"rounded\""}
	case diagram.BlockDecision:
		return []string{"shape=diamond"}
	case diagram.BlockInput:
		return []string{"shape=parallelogram"}
	case diagram.BlockOutput:
		return []string{"shape=parallelogram", "skew=-0.36"}
	default:
		return nil
	}
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	label = strings.ReplaceAll(label, "\n", `\n`)
	return label
}

// FileExtension returns the recommended file extension
func (e *GraphvizExporter) FileExtension() string {
	return ".dot"
}

// FormatName returns the format name
func (e *GraphvizExporter) FormatName() string {
	return "Graphviz DOT"
}

// formatNumber prints a coordinate with at most two decimals.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
