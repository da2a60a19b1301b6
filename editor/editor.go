// Package editor is the interactive terminal flowchart editor.
package editor

import (
	"context"

	"go.uber.org/zap"

	"flowedit/canvas"
	"flowedit/diagram"
	"flowedit/history"
)

// Saver persists the flowchart. *store.Repository satisfies it.
type Saver interface {
	Save(ctx context.Context, fc *diagram.Flowchart) error
}

// Editor holds the flowchart being edited and the interaction state around
// it. It is driven one key at a time by HandleKey and is not safe for
// concurrent use.
type Editor struct {
	fc   *diagram.Flowchart
	mode Mode

	selected string // Currently selected block ID ("" for none)
	target   string // Connect-mode target block ID

	// Text input state
	textBuffer []rune
	cursorPos  int

	history *history.Manager
	saver   Saver
	log     *zap.Logger
	ctx     context.Context

	moveStep      float64
	autosave      bool
	canvasW       float64
	canvasH       float64
	renderOptions canvas.Options

	status string // Message shown on the status line
	dirty  bool   // Unsaved changes
}

// Option configures an Editor.
type Option func(*Editor)

// WithSaver sets where the flowchart is persisted.
func WithSaver(s Saver) Option {
	return func(e *Editor) { e.saver = s }
}

// WithLogger sets the logger. The editor owns the terminal, so the logger
// should write to a file.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithMoveStep sets how far an arrow key moves a block, in pixels.
func WithMoveStep(step float64) Option {
	return func(e *Editor) { e.moveStep = step }
}

// WithAutosave saves after every change when enabled.
func WithAutosave(on bool) Option {
	return func(e *Editor) { e.autosave = on }
}

// WithHistoryCapacity sets how many undo snapshots are kept.
func WithHistoryCapacity(n int) Option {
	return func(e *Editor) { e.history = history.New(n) }
}

// WithCanvas sets the area new blocks are centered in.
func WithCanvas(width, height float64) Option {
	return func(e *Editor) { e.canvasW, e.canvasH = width, height }
}

// WithRenderOptions sets the pixel to cell scaling.
func WithRenderOptions(opts canvas.Options) Option {
	return func(e *Editor) { e.renderOptions = opts }
}

// New creates an editor for fc. A nil flowchart starts empty.
func New(fc *diagram.Flowchart, opts ...Option) *Editor {
	if fc == nil {
		fc = diagram.New()
	}
	e := &Editor{
		fc:            fc,
		mode:          ModeNormal,
		history:       history.New(history.DefaultCapacity),
		log:           zap.NewNop(),
		ctx:           context.Background(),
		moveStep:      10,
		renderOptions: canvas.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.moveStep <= 0 {
		e.moveStep = 10
	}
	if e.canvasW > 0 && e.canvasH > 0 {
		e.fc.SetCanvas(e.canvasW, e.canvasH)
	}
	if len(fc.Blocks) > 0 {
		e.selected = fc.Blocks[0].ID
	}

	// The initial state is the first undo point.
	if err := e.history.SaveState(e.fc); err != nil {
		e.log.Warn("recording initial history", zap.Error(err))
	}
	return e
}

// Flowchart returns the flowchart being edited.
func (e *Editor) Flowchart() *diagram.Flowchart {
	return e.fc
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Selected returns the selected block ID, or "".
func (e *Editor) Selected() string {
	return e.selected
}

// Target returns the connect-mode target block ID, or "".
func (e *Editor) Target() string {
	return e.target
}

// Status returns the status line message.
func (e *Editor) Status() string {
	return e.status
}

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// TextBuffer returns the label being edited.
func (e *Editor) TextBuffer() string {
	return string(e.textBuffer)
}

// nextBlock returns the block dir steps away from id in document order,
// skipping skip. It returns "" when there is no such block.
func (e *Editor) nextBlock(id string, dir int, skip string) string {
	n := len(e.fc.Blocks)
	if n == 0 {
		return ""
	}
	start := -1
	for i, b := range e.fc.Blocks {
		if b.ID == id {
			start = i
			break
		}
	}
	if start < 0 && dir < 0 {
		start = n
	}
	for step := 1; step <= n; step++ {
		i := ((start+dir*step)%n + n) % n
		if e.fc.Blocks[i].ID != skip {
			return e.fc.Blocks[i].ID
		}
	}
	return ""
}
