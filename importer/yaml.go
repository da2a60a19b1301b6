package importer

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"flowedit/diagram"
)

var yamlBlocksKey = regexp.MustCompile(`(?m)^blocks:`)

// YAMLImporter imports the native document written as YAML
type YAMLImporter struct{}

// NewYAMLImporter creates a new YAML importer
func NewYAMLImporter() *YAMLImporter {
	return &YAMLImporter{}
}

// CanImport checks for a top-level blocks key
func (y *YAMLImporter) CanImport(content string) bool {
	return yamlBlocksKey.MatchString(content)
}

// Import decodes a {blocks, connections} document.
func (y *YAMLImporter) Import(content string) (*diagram.Flowchart, error) {
	var doc document
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return doc.flowchart()
}

// FormatName returns the format name
func (y *YAMLImporter) FormatName() string {
	return "YAML"
}

// FileExtensions returns common file extensions
func (y *YAMLImporter) FileExtensions() []string {
	return []string{".yaml", ".yml"}
}
