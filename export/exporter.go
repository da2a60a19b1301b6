// Package export converts flowcharts to text-based formats.
package export

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"flowedit/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatJSON is the editor's native document
	FormatJSON Format = "json"
	// FormatYAML is the native document as YAML
	FormatYAML Format = "yaml"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatGraphviz exports to Graphviz DOT syntax
	FormatGraphviz Format = "graphviz"
	// FormatD2 exports to D2 syntax
	FormatD2 Format = "d2"
	// FormatSVG draws the flowchart as an SVG image
	FormatSVG Format = "svg"
	// FormatASCII renders the flowchart as Unicode art
	FormatASCII Format = "ascii"
)

// Common errors
var (
	ErrNilFlowchart   = errors.New("flowchart is nil")
	ErrEmptyFlowchart = errors.New("flowchart has no blocks")
	ErrUnknownFormat  = errors.New("unknown format")
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a flowchart to the target format
	Export(fc *diagram.Flowchart) (string, error)
	// FileExtension returns the recommended file extension, dot included
	FileExtension() string
	// FormatName returns a human-readable name for this format
	FormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML:
		return NewYAMLExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatGraphviz:
		return NewGraphvizExporter(), nil
	case FormatD2:
		return NewD2Exporter(), nil
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatASCII:
		return NewASCIIExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "graphviz", "dot", "gv":
		return FormatGraphviz, nil
	case "d2":
		return FormatD2, nil
	case "svg":
		return FormatSVG, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// AvailableFormats returns every export format.
func AvailableFormats() []Format {
	return []Format{
		FormatJSON,
		FormatYAML,
		FormatMermaid,
		FormatGraphviz,
		FormatD2,
		FormatSVG,
		FormatASCII,
	}
}

// FormatDescriptions returns human-readable descriptions of all formats
func FormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatJSON:     "Flowchart document (blocks and connections)",
		FormatYAML:     "Flowchart document as YAML",
		FormatMermaid:  "Mermaid flowchart syntax (for Markdown)",
		FormatGraphviz: "Graphviz DOT syntax",
		FormatD2:       "D2 diagram syntax",
		FormatSVG:      "SVG image with connector arrowheads",
		FormatASCII:    "ASCII/Unicode art",
	}
}

// checkDrawable rejects flowcharts the diagram formats cannot express.
func checkDrawable(fc *diagram.Flowchart) error {
	if fc == nil {
		return ErrNilFlowchart
	}
	if len(fc.Blocks) == 0 {
		return ErrEmptyFlowchart
	}
	return nil
}

// nodeID turns a block ID into an identifier every text format accepts.
func nodeID(id string) string {
	var sb strings.Builder
	for i, r := range id {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if i == 0 && unicode.IsDigit(r) {
				sb.WriteByte('n')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
