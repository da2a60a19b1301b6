package editor

// Mode represents the current editing mode
type Mode int

const (
	ModeNormal       Mode = iota // Selecting, adding and moving blocks
	ModeConnect                  // Picking the target of a new connection
	ModeEditText                 // Editing the selected block's label
	ModeConfirmClear             // Waiting for y/n before clearing
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeConnect:
		return "CONNECT"
	case ModeEditText:
		return "TEXT"
	case ModeConfirmClear:
		return "CLEAR?"
	default:
		return "UNKNOWN"
	}
}

// SetMode changes the editor mode
func (e *Editor) SetMode(mode Mode) {
	e.mode = mode

	switch mode {
	case ModeEditText:
		e.textBuffer = nil
		if b, ok := e.fc.Block(e.selected); ok {
			e.textBuffer = []rune(b.Text)
		}
		e.cursorPos = len(e.textBuffer)
	case ModeConnect:
		e.target = e.nextBlock(e.selected, 1, e.selected)
	default:
		e.target = ""
		e.textBuffer = nil
		e.cursorPos = 0
	}
}
