package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"flowedit/diagram"
)

// ExportAll writes the flowchart in every format to dir, one file per
// format named base plus the format's extension. Formats are rendered
// concurrently; the returned paths follow AvailableFormats order.
func ExportAll(ctx context.Context, fc *diagram.Flowchart, dir, base string) ([]string, error) {
	if err := checkDrawable(fc); err != nil {
		return nil, err
	}
	if base == "" {
		base = "flowchart"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	formats := AvailableFormats()
	paths := make([]string, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for i, format := range formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			exp, err := NewExporter(format)
			if err != nil {
				return err
			}
			out, err := exp.Export(fc)
			if err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			path := filepath.Join(dir, base+exp.FileExtension())
			if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
				return fmt.Errorf("%s: %w", format, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
