package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowedit/canvas"
	"flowedit/diagram"
	"flowedit/export"
	"flowedit/importer"
	"flowedit/markdown"
	"flowedit/validation"
)

func (a *app) renderOptions() canvas.Options {
	return canvas.Options{CellWidth: a.cfg.Render.CellWidth, CellHeight: a.cfg.Render.CellHeight}
}

// exporter returns the exporter for format with the configured render
// settings applied.
func (a *app) exporter(format export.Format) (export.Exporter, error) {
	exp, err := export.NewExporter(format)
	if err != nil {
		return nil, err
	}
	switch e := exp.(type) {
	case *export.SVGExporter:
		e.ArrowSize = a.cfg.Render.ArrowSize
	case *export.ASCIIExporter:
		e.Options = a.renderOptions()
	}
	return exp, nil
}

func newRenderCmd(a *app) *cobra.Command {
	var selected string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the flowchart as Unicode art",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			opts := a.renderOptions()
			opts.Selected = selected
			c, err := canvas.Render(fc, opts)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), c.String())
			return err
		},
	}
	cmd.Flags().StringVar(&selected, "select", "", "block to highlight")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
		allDir string
		base   string
		into   string
		fence  int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the flowchart",
		Long:  "Exports the flowchart to one format, or to every format with --all.\n\nFormats:\n" + formatHelp(),
		Example: `  flowedit export --format mermaid
  flowedit export -f svg -o chart.svg
  flowedit export --all out/
  flowedit export -f mermaid --into README.md --fence 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			if allDir != "" {
				paths, err := export.ExportAll(cmd.Context(), fc, allDir, base)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				a.logger.Info("exported all formats", zap.String("dir", allDir), zap.Int("files", len(paths)))
				return nil
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			exp, err := a.exporter(f)
			if err != nil {
				return err
			}
			out, err := exp.Export(fc)
			if err != nil {
				return err
			}
			if into != "" {
				return writeFence(into, fence, f, out)
			}
			return writeOutput(cmd, output, out)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&format, "format", "f", string(export.FormatJSON), "export format")
	fl.StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	fl.StringVar(&allDir, "all", "", "write every format into this directory")
	fl.StringVar(&base, "name", "flowchart", "file name used with --all, without extension")
	fl.StringVar(&into, "into", "", "replace a code fence in this Markdown file")
	fl.IntVar(&fence, "fence", 1, "code fence to replace with --into, counting from 1")
	cmd.MarkFlagsMutuallyExclusive("all", "output", "into")
	return cmd
}

// writeFence replaces the n-th flowchart fence of a Markdown file. The
// fence language must match the export format.
func writeFence(path string, n int, format export.Format, content string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc := string(data)
	f, err := markdown.Select(doc, n)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if markdown.Languages[f.Lang] != string(format) {
		return fmt.Errorf("%s: fence %d is %s, not %s", path, n, f.Lang, format)
	}
	updated, err := markdown.Replace(doc, f, content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, []byte(updated), 0o644)
}

func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func formatHelp() string {
	desc := export.FormatDescriptions()
	var sb strings.Builder
	for _, f := range export.AvailableFormats() {
		fmt.Fprintf(&sb, "  %-9s %s\n", f, desc[f])
	}
	return sb.String()
}

// readFlowchart imports a file, or stdin for "-". The format comes from
// the flag, then the file extension, then the content. Markdown files are
// read from their n-th flowchart code fence.
func readFlowchart(cmd *cobra.Command, path, format string, fence int) (*diagram.Flowchart, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	reg := importer.NewRegistry()
	content := string(data)
	if isMarkdown(path) {
		f, err := markdown.Select(content, fence)
		if err != nil {
			return nil, err
		}
		if format == "" {
			format = markdown.Languages[f.Lang]
		}
		return reg.ImportWithFormat(f.Content, format)
	}
	if format != "" {
		return reg.ImportWithFormat(content, format)
	}
	if ext := filepath.Ext(path); ext != "" {
		if imp, err := reg.Lookup(ext); err == nil {
			return imp.Import(content)
		}
	}
	return reg.Import(content)
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func newImportCmd(a *app) *cobra.Command {
	var (
		format string
		fence  int
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the stored flowchart with an imported one",
		Long: `Reads a JSON or YAML flowchart document or a Mermaid flowchart and replaces
the stored flowchart with it. Use - to read stdin. Connector endpoints are
recomputed from the blocks.

Markdown files are searched for mermaid, json or yaml code fences; --fence
picks which one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := readFlowchart(cmd, args[0], format, fence)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			err = a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				*fc = *imported
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d blocks and %d connections\n",
				len(imported.Blocks), len(imported.Connections))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json, yaml, mermaid (default: detect)")
	cmd.Flags().IntVar(&fence, "fence", 1, "code fence to read from a Markdown file, counting from 1")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the stored flowchart for broken references and stale connectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			issues := validation.Validate(fc)
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "no issues found")
				return nil
			}
			errs := 0
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
				if issue.Severity == validation.Error {
					errs++
				}
			}
			if errs > 0 {
				return fmt.Errorf("%d of %d issues are errors", errs, len(issues))
			}
			return nil
		},
	}
}
