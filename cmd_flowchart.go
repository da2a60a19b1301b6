package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowedit/diagram"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		text   string
		x, y   float64
		width  float64
		height float64
	)
	cmd := &cobra.Command{
		Use:   "add TYPE",
		Short: "Add a block (start, process, decision, input, output, end)",
		Long: `Adds a block and prints its ID. Without --x and --y the block is centered
on the canvas. Size and text default per type.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: blockTypeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := diagram.ParseBlockType(args[0])
			if err != nil {
				return err
			}
			var opts []diagram.BlockOption
			flags := cmd.Flags()
			if flags.Changed("x") || flags.Changed("y") {
				opts = append(opts, diagram.At(diagram.Position{X: x, Y: y}))
			}
			if flags.Changed("text") {
				opts = append(opts, diagram.WithText(text))
			}
			if flags.Changed("width") || flags.Changed("height") {
				w, h := t.DefaultSize()
				if flags.Changed("width") {
					w = width
				}
				if flags.Changed("height") {
					h = height
				}
				if w <= 0 || h <= 0 {
					return fmt.Errorf("block size must be positive, got %gx%g", w, h)
				}
				opts = append(opts, diagram.WithSize(w, h))
				if !flags.Changed("x") && !flags.Changed("y") {
					cw, ch := a.cfg.Canvas.Width, a.cfg.Canvas.Height
					opts = append(opts, diagram.At(diagram.Position{X: cw/2 - w/2, Y: ch/2 - h/2}))
				}
			}

			var added diagram.Block
			err = a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				added, err = fc.AddBlock(t, opts...)
				return err
			})
			if err != nil {
				return err
			}
			a.logger.Info("block added", zap.String("id", added.ID), zap.String("type", string(added.Type)))
			fmt.Fprintln(cmd.OutOrStdout(), added.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&text, "text", "", "block text")
	f.Float64Var(&x, "x", 0, "left edge in pixels")
	f.Float64Var(&y, "y", 0, "top edge in pixels")
	f.Float64Var(&width, "width", 0, "width in pixels")
	f.Float64Var(&height, "height", 0, "height in pixels")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move BLOCK X Y",
		Short: "Move a block's top-left corner and reroute its connectors",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid x %q", args[1])
			}
			y, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid y %q", args[2])
			}
			return a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				return fc.MoveBlock(args[0], diagram.Position{X: x, Y: y})
			})
		},
	}
}

func newTextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "text BLOCK TEXT...",
		Short: "Replace a block's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				return fc.SetText(args[0], strings.Join(args[1:], " "))
			})
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove BLOCK",
		Aliases: []string{"rm"},
		Short:   "Delete a block and every connection touching it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				return fc.DeleteBlock(args[0])
			})
		},
	}
}

func newLinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link FROM TO",
		Short: "Connect two blocks and print the connection ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var conn diagram.Connection
			err := a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				var err error
				conn, err = fc.Connect(args[0], args[1])
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), conn.ID)
			return nil
		},
	}
}

func newUnlinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink CONNECTION | unlink FROM TO",
		Short: "Remove a connection",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if len(args) == 2 {
				id = diagram.ConnectionID(args[0], args[1])
			}
			return a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				return fc.Disconnect(id)
			})
		},
	}
}

var errClearNotConfirmed = errors.New("clear removes every block and connection; rerun with --yes")

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every block and connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errClearNotConfirmed
			}
			return a.update(cmd.Context(), func(fc *diagram.Flowchart) error {
				fc.Clear()
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm")
	return cmd
}

func blockTypeNames() []string {
	names := make([]string, len(diagram.BlockTypes))
	for i, t := range diagram.BlockTypes {
		names[i] = string(t)
	}
	return names
}
