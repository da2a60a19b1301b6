package editor

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"flowedit/canvas"
)

var (
	styleCanvas = tcell.StyleDefault
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleHint   = tcell.StyleDefault.Dim(true)
)

const hintLine = "1-6 add Tab select arrows c link t text x/X del u/r undo C clear w save q quit"

// Draw renders the flowchart and the status lines onto the screen. The
// view scrolls so the highlighted block stays visible.
func (e *Editor) Draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	viewH := height - 2
	if viewH < 1 {
		viewH = 1
	}

	opts := e.renderOptions
	opts.Selected = e.selected
	if e.mode == ModeConnect {
		opts.Selected = e.target
	}

	if len(e.fc.Blocks) > 0 {
		c, err := canvas.Render(e.fc, opts)
		if err != nil {
			e.fail("render", err)
		} else {
			offX, offY := e.scroll(canvas.Fit(e.fc, opts), opts.Selected, width, viewH)
			cw, ch := c.Size()
			for y := 0; y < viewH && y+offY < ch; y++ {
				for x := 0; x < width && x+offX < cw; x++ {
					r := c.Get(x+offX, y+offY)
					if r == 0 {
						continue
					}
					screen.SetContent(x, y, r, nil, styleCanvas)
				}
			}
		}
	}

	drawLine(screen, 0, height-2, width, hintLine, styleHint)
	drawLine(screen, 0, height-1, width, e.statusLine(), styleStatus)
	if e.mode == ModeEditText {
		prefix := fmt.Sprintf(" %s | %s: ", e.mode, e.selected)
		x := runewidth.StringWidth(prefix) + runewidth.StringWidth(string(e.textBuffer[:e.cursorPos]))
		screen.ShowCursor(x, height-1)
	} else {
		screen.HideCursor()
	}
}

// scroll returns the cell offset that keeps the block with id in view.
func (e *Editor) scroll(v canvas.Viewport, id string, width, height int) (int, int) {
	b, ok := e.fc.Block(id)
	if !ok {
		return 0, 0
	}
	lo, hi := b.Shape().Bounds()
	x0, y0 := v.Cell(lo)
	x1, y1 := v.Cell(hi)
	return follow(x0, x1, v.Width, width), follow(y0, y1, v.Height, height)
}

// follow picks an offset so [lo, hi] fits in a window of size over a
// canvas of length total.
func follow(lo, hi, total, size int) int {
	if total <= size {
		return 0
	}
	off := 0
	if hi >= size {
		off = hi - size + 2
	}
	if lo < off {
		off = lo
	}
	return max(0, min(off, total-size))
}

func (e *Editor) statusLine() string {
	switch e.mode {
	case ModeEditText:
		return fmt.Sprintf(" %s | %s: %s", e.mode, e.selected, string(e.textBuffer))
	case ModeConnect:
		return fmt.Sprintf(" %s | %s %s %s | %s", e.mode, e.selected, "→", e.target, e.status)
	}
	sel := e.selected
	if sel == "" {
		sel = "-"
	}
	mark := ""
	if e.dirty {
		mark = " *"
	}
	cur, total := e.history.Stats()
	return fmt.Sprintf(" %s | %s | %d blocks %d links | history %d/%d%s | %s",
		e.mode, sel, len(e.fc.Blocks), len(e.fc.Connections), cur, total, mark, e.status)
}

// drawLine writes text from (x, y), padding the rest of the row with the
// style so status bars span the screen.
func drawLine(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if x+w > width {
			break
		}
		screen.SetContent(x, y, r, nil, style)
		x += w
	}
	for ; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, style)
	}
}

// Run draws the editor and handles events until the user quits or ctx is
// cancelled. The caller initializes and finalizes the screen.
func (e *Editor) Run(ctx context.Context, screen tcell.Screen) error {
	e.ctx = ctx
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		e.Draw(screen)
		screen.Show()

		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			if err := ctx.Err(); err != nil {
				return err
			}
		case *tcell.EventKey:
			if e.HandleKey(ev) {
				return nil
			}
		}
	}
}
