package export

import (
	"fmt"

	"flowedit/canvas"
	"flowedit/diagram"
)

// ASCIIExporter exports flowcharts to Unicode box-drawing art
type ASCIIExporter struct {
	Options canvas.Options
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter() *ASCIIExporter {
	return &ASCIIExporter{Options: canvas.DefaultOptions()}
}

// Export renders the flowchart onto a character canvas
func (e *ASCIIExporter) Export(fc *diagram.Flowchart) (string, error) {
	if err := checkDrawable(fc); err != nil {
		return "", err
	}

	c, err := canvas.Render(fc, e.Options)
	if err != nil {
		return "", fmt.Errorf("failed to render flowchart: %w", err)
	}
	return c.String(), nil
}

// FileExtension returns the recommended file extension
func (e *ASCIIExporter) FileExtension() string {
	return ".txt"
}

// FormatName returns the format name
func (e *ASCIIExporter) FormatName() string {
	return "ASCII/Unicode Art"
}
