// Command flowedit builds flowcharts from the terminal: it edits the stored
// flowchart block by block or interactively, renders and exports it, and
// serves it over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowedit/config"
	"flowedit/diagram"
	"flowedit/logging"
	"flowedit/store"
)

// app carries the global flags and everything built from them in
// PersistentPreRunE.
type app struct {
	configPath string
	backend    string
	storePath  string
	logLevel   string

	cfg      *config.Config
	logger   *zap.Logger
	closeLog func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "flowedit",
		Short: "Flowchart editor with shape-aware connectors",
		Long: `flowedit keeps a flowchart of start, process, decision, input, output and
end blocks. Connectors run between block centers and are clipped to each
block's outline, so arrows meet rectangles, diamonds and parallelograms at
their edges.

The flowchart is stored under store.path (".flowedit" by default) and every
command works on it in place.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.backend, "store", "", "store backend: memory, file or sqlite")
	pf.StringVar(&a.storePath, "store-path", "", "store directory (file) or database (sqlite)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newConnectCmd(),
		newAddCmd(a),
		newMoveCmd(a),
		newTextCmd(a),
		newRemoveCmd(a),
		newLinkCmd(a),
		newUnlinkCmd(a),
		newClearCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newValidateCmd(a),
		newEditCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Store.Backend = a.backend
	}
	if a.storePath != "" {
		cfg.Store.Path = a.storePath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	switch {
	case cfg.Log.File != "":
		a.logger, a.closeLog, err = logging.Open(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
	case cmd.Name() == "edit":
		// The editor owns the terminal.
		a.logger, a.closeLog = zap.NewNop(), func() error { return nil }
	default:
		a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
		a.closeLog = func() error { return nil }
	}
	return nil
}

func (a *app) teardown() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// open returns the repository for the configured store and a function
// that closes it.
func (a *app) open() (*store.Repository, func(), error) {
	s, err := store.Open(a.cfg.Store.Backend, a.cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", a.cfg.Store.Backend, err)
	}
	closeFn := func() {
		if err := s.Close(); err != nil {
			a.logger.Warn("closing store", zap.Error(err))
		}
	}
	return store.NewRepository(s), closeFn, nil
}

// load reads the stored flowchart and places new blocks on the configured
// canvas.
func (a *app) load(ctx context.Context) (*diagram.Flowchart, error) {
	repo, closeFn, err := a.open()
	if err != nil {
		return nil, err
	}
	defer closeFn()
	fc, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	fc.SetCanvas(a.cfg.Canvas.Width, a.cfg.Canvas.Height)
	return fc, nil
}

// update loads the flowchart, applies fn and saves the result when fn
// succeeds.
func (a *app) update(ctx context.Context, fn func(fc *diagram.Flowchart) error) error {
	repo, closeFn, err := a.open()
	if err != nil {
		return err
	}
	defer closeFn()

	fc, err := repo.Load(ctx)
	if err != nil {
		return err
	}
	fc.SetCanvas(a.cfg.Canvas.Width, a.cfg.Canvas.Height)
	if err := fn(fc); err != nil {
		return err
	}
	if err := repo.Save(ctx, fc); err != nil {
		return fmt.Errorf("saving flowchart: %w", err)
	}
	a.logger.Debug("flowchart saved",
		zap.Int("blocks", len(fc.Blocks)),
		zap.Int("connections", len(fc.Connections)))
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
