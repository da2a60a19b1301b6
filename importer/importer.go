// Package importer reads flowcharts from the native JSON and YAML documents
// and from Mermaid flowchart syntax.
package importer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"flowedit/diagram"
)

// ErrInvalidFormat is returned for documents without blocks and
// connections arrays.
var ErrInvalidFormat = errors.New("invalid flowchart data format")

// ErrUnknownFormat is returned when no importer matches.
var ErrUnknownFormat = errors.New("unknown import format")

// Importer interface defines methods for importing flowcharts from various formats
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import converts the input content into a flowchart
	Import(content string) (*diagram.Flowchart, error)

	// FormatName returns the human-readable name of the format
	FormatName() string

	// FileExtensions returns common file extensions for this format
	FileExtensions() []string
}

// Registry manages available importers
type Registry struct {
	importers []Importer
}

// NewRegistry creates a registry with the JSON, Mermaid and YAML importers,
// tried in that order during detection.
func NewRegistry() *Registry {
	return &Registry{
		importers: []Importer{
			NewJSONImporter(),
			NewMermaidImporter(),
			NewYAMLImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *Registry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// Detect attempts to detect the format of the given content
func (r *Registry) Detect(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: unable to detect format", ErrUnknownFormat)
}

// Import attempts to import content using auto-detection
func (r *Registry) Import(content string) (*diagram.Flowchart, error) {
	importer, err := r.Detect(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using the importer whose name or file
// extension matches format.
func (r *Registry) ImportWithFormat(content, format string) (*diagram.Flowchart, error) {
	imp, err := r.Lookup(format)
	if err != nil {
		return nil, err
	}
	return imp.Import(content)
}

// Lookup finds an importer by format name or file extension.
func (r *Registry) Lookup(format string) (Importer, error) {
	format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	for _, imp := range r.importers {
		if strings.ToLower(imp.FormatName()) == format {
			return imp, nil
		}
		if slices.Contains(imp.FileExtensions(), "."+format) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// AvailableFormats returns a list of available import formats
func (r *Registry) AvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.FormatName()
	}
	return formats
}

// document is the on-disk flowchart shape. Pointer slices tell a missing
// key apart from an empty array.
type document struct {
	Blocks      *[]diagram.Block      `json:"blocks" yaml:"blocks"`
	Connections *[]diagram.Connection `json:"connections" yaml:"connections"`
	NextID      int                   `json:"nextId" yaml:"nextId"`
	Metadata    diagram.Metadata      `json:"metadata" yaml:"metadata"`
}

// flowchart checks the document and builds a flowchart from it. NextID is
// always recomputed from the block IDs and every connector is rerouted, so
// stale or missing endpoint positions are repaired.
func (d document) flowchart() (*diagram.Flowchart, error) {
	if d.Blocks == nil || d.Connections == nil {
		return nil, ErrInvalidFormat
	}

	fc := diagram.New()
	fc.Blocks = append(fc.Blocks, *d.Blocks...)
	fc.Connections = append(fc.Connections, *d.Connections...)
	if d.Metadata != (diagram.Metadata{}) {
		fc.Metadata = d.Metadata
	}
	fc.SyncNextID()
	fc.EnsureConnectionIDs()
	fc.Reroute()
	return fc, nil
}
