package export

import (
	"fmt"
	"strings"

	"flowedit/diagram"
)

// D2Exporter exports flowcharts to D2 syntax
type D2Exporter struct{}

// NewD2Exporter creates a new D2 exporter
func NewD2Exporter() *D2Exporter {
	return &D2Exporter{}
}

// Export converts the flowchart to D2 syntax
func (e *D2Exporter) Export(fc *diagram.Flowchart) (string, error) {
	if err := checkDrawable(fc); err != nil {
		return "", err
	}

	var sb strings.Builder

	if fc.Metadata.Name != "" {
		fmt.Fprintf(&sb, "# %s\n\n", fc.Metadata.Name)
	}
	sb.WriteString("direction: down\n\n")

	for _, b := range fc.Blocks {
		id := nodeID(b.ID)
		fmt.Fprintf(&sb, "%s: %s\n", id, e.escapeLabel(b.Text))
		fmt.Fprintf(&sb, "%s.shape: %s\n", id, e.shape(b.Type))
	}

	if len(fc.Connections) > 0 {
		sb.WriteString("\n")
	}
	for _, c := range fc.Connections {
		fmt.Fprintf(&sb, "%s -> %s\n", nodeID(c.From), nodeID(c.To))
	}

	return sb.String(), nil
}

// shape maps a block type to a D2 shape name.
func (e *D2Exporter) shape(t diagram.BlockType) string {
	switch t {
	case diagram.BlockStart, diagram.BlockEnd:
		return "oval"
	case diagram.BlockDecision:
		return "diamond"
	case diagram.BlockInput, diagram.BlockOutput:
		return "parallelogram"
	default:
		return "rectangle"
	}
}

// escapeLabel quotes labels D2 would otherwise parse as syntax.
func (e *D2Exporter) escapeLabel(label string) string {
	if label == "" {
		return `""`
	}
	if strings.ContainsAny(label, ":;{}[]|#'\"\\\n-><") || strings.TrimSpace(label) != label {
		label = strings.ReplaceAll(label, `\`, `\\`)
		label = strings.ReplaceAll(label, `"`, `\"`)
		label = strings.ReplaceAll(label, "\n", `\n`)
		return `"` + label + `"`
	}
	return label
}

// FileExtension returns the recommended file extension
func (e *D2Exporter) FileExtension() string {
	return ".d2"
}

// FormatName returns the format name
func (e *D2Exporter) FormatName() string {
	return "D2"
}
