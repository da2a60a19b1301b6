package export

import (
	"encoding/json"

	"flowedit/diagram"
)

// JSONExporter exports flowcharts as the editor's native JSON document
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a flowchart to indented JSON. An empty flowchart is a
// valid document.
func (e *JSONExporter) Export(fc *diagram.Flowchart) (string, error) {
	if fc == nil {
		return "", ErrNilFlowchart
	}
	data, err := json.MarshalIndent(document(fc), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// FileExtension returns the file extension for JSON
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// FormatName returns the format name
func (e *JSONExporter) FormatName() string {
	return "JSON"
}

// document returns a copy whose slices encode as arrays, never null.
func document(fc *diagram.Flowchart) *diagram.Flowchart {
	doc := fc.Clone()
	return doc
}
