package export

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"flowedit/diagram"
)

// YAMLExporter exports flowcharts as YAML documents
type YAMLExporter struct{}

// NewYAMLExporter creates a new YAML exporter
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

// Export converts a flowchart to YAML with two-space indentation.
func (e *YAMLExporter) Export(fc *diagram.Flowchart) (string, error) {
	if fc == nil {
		return "", ErrNilFlowchart
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(document(fc)); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FileExtension returns the file extension for YAML
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// FormatName returns the format name
func (e *YAMLExporter) FormatName() string {
	return "YAML"
}
