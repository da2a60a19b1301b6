package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowedit/export"
	"flowedit/server"
	"flowedit/watcher"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the flowchart over HTTP",
		Long: `Starts the preview API:

  GET  /healthz
  GET  /api/flowchart
  PUT  /api/flowchart[?format=json|yaml|mermaid]
  GET  /api/flowchart/export/{format}
  GET  /api/flowchart/validate
  POST /api/geometry/connect`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeFn, err := a.open()
			if err != nil {
				return err
			}
			defer closeFn()

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			router := server.NewRouter(server.NewHandler(repo, a.logger), a.logger)
			return server.New(cfg, router, a.logger).Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		format   string
		inFormat string
		output   string
		save     bool
	)
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-export a flowchart file whenever it changes",
		Long: `Watches a JSON, YAML or Mermaid flowchart file. On every change the file is
imported again and exported in --format to --output (stdout by default).
With --save the imported flowchart also replaces the stored one.`,
		Example: `  flowedit watch chart.mmd -f svg -o chart.svg`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			exp, err := a.exporter(f)
			if err != nil {
				return err
			}

			refresh := func(ctx context.Context) error {
				fc, err := readFlowchart(cmd, path, inFormat, 1)
				if err != nil {
					return fmt.Errorf("importing %s: %w", path, err)
				}
				if save {
					repo, closeFn, err := a.open()
					if err != nil {
						return err
					}
					defer closeFn()
					if err := repo.Save(ctx, fc); err != nil {
						return err
					}
				}
				out, err := exp.Export(fc)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd, output, out); err != nil {
					return err
				}
				a.logger.Info("re-exported", zap.String("path", path), zap.String("format", string(f)))
				return nil
			}

			w, err := watcher.New(path, refresh,
				watcher.WithDebounce(a.cfg.Watch.Debounce),
				watcher.WithLogger(a.logger))
			if err != nil {
				return err
			}
			if err := refresh(cmd.Context()); err != nil {
				a.logger.Warn("initial export failed", zap.Error(err))
			}
			return w.Run(cmd.Context())
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&format, "format", "f", string(export.FormatASCII), "export format")
	fl.StringVar(&inFormat, "input-format", "", "input format (default: detect)")
	fl.StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	fl.BoolVar(&save, "save", false, "also replace the stored flowchart")
	return cmd
}
