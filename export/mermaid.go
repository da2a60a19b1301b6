package export

import (
	"fmt"
	"strings"

	"flowedit/diagram"
)

// MermaidExporter exports flowcharts to Mermaid syntax
type MermaidExporter struct {
	// Direction is the flowchart orientation: TD, LR, BT or RL.
	Direction string
}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{Direction: "TD"}
}

// Export converts the flowchart to Mermaid syntax
func (e *MermaidExporter) Export(fc *diagram.Flowchart) (string, error) {
	if err := checkDrawable(fc); err != nil {
		return "", err
	}

	dir := e.Direction
	if dir == "" {
		dir = "TD"
	}

	var sb strings.Builder
	if fc.Metadata.Name != "" {
		fmt.Fprintf(&sb, "---\ntitle: %s\n---\n", fc.Metadata.Name)
	}
	fmt.Fprintf(&sb, "flowchart %s\n", dir)

	for _, b := range fc.Blocks {
		left, right := mermaidShape(b.Type)
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(b.ID), left, e.escapeLabel(b.Text), right)
	}

	if len(fc.Connections) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range fc.Connections {
		fmt.Fprintf(&sb, "    %s --> %s\n", nodeID(c.From), nodeID(c.To))
	}

	return sb.String(), nil
}

// mermaidShape returns the brackets that give a block its Mermaid shape.
func mermaidShape(t diagram.BlockType) (string, string) {
	switch t {
	case diagram.BlockStart, diagram.BlockEnd:
		return "([", "])"
	case diagram.BlockDecision:
		return "{", "}"
	case diagram.BlockInput:
		return "[/", "/]"
	case diagram.BlockOutput:
		return `[\`, `\]`
	default:
		return "[", "]"
	}
}

// escapeLabel makes text safe inside a quoted Mermaid label
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, "\n", "<br/>")
	return label
}

// FileExtension returns the recommended file extension
func (e *MermaidExporter) FileExtension() string {
	return ".mmd"
}

// FormatName returns the format name
func (e *MermaidExporter) FormatName() string {
	return "Mermaid"
}
