package main

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowedit/editor"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the flowchart in the terminal",
		Long: `Opens the interactive editor on the stored flowchart.

Keys:
  1-6          add start, process, decision, input, output, end
  Tab/S-Tab    select next/previous block
  arrows       move the selected block (Shift for 5x)
  c            connect: Tab picks the target, Enter links
  t            edit text (Enter saves, Esc cancels)
  x / X        delete block / delete its connections
  u / r        undo / redo
  C            clear everything (asks first)
  w            save
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, closeFn, err := a.open()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			fc, err := repo.Load(ctx)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("opening terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing terminal: %w", err)
			}
			defer screen.Fini()

			ed := editor.New(fc,
				editor.WithSaver(repo),
				editor.WithLogger(a.logger),
				editor.WithMoveStep(a.cfg.Editor.MoveStep),
				editor.WithAutosave(a.cfg.Editor.Autosave),
				editor.WithHistoryCapacity(a.cfg.History.Capacity),
				editor.WithCanvas(a.cfg.Canvas.Width, a.cfg.Canvas.Height),
				editor.WithRenderOptions(a.renderOptions()),
			)
			err = ed.Run(ctx, screen)
			if errors.Is(err, ctx.Err()) {
				err = nil
			}
			if ed.Dirty() {
				a.logger.Warn("editor closed with unsaved changes")
			}
			a.logger.Info("editor closed", zap.Int("blocks", len(ed.Flowchart().Blocks)))
			return err
		},
	}
}
