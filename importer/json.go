package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"flowedit/diagram"
)

// JSONImporter imports the native JSON document
type JSONImporter struct{}

// NewJSONImporter creates a new JSON importer
func NewJSONImporter() *JSONImporter {
	return &JSONImporter{}
}

// CanImport checks if the content is a JSON object
func (j *JSONImporter) CanImport(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "{")
}

// Import decodes a {blocks, connections} document.
func (j *JSONImporter) Import(content string) (*diagram.Flowchart, error) {
	var doc document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return doc.flowchart()
}

// FormatName returns the format name
func (j *JSONImporter) FormatName() string {
	return "JSON"
}

// FileExtensions returns common file extensions
func (j *JSONImporter) FileExtensions() []string {
	return []string{".json"}
}
