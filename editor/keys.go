package editor

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"flowedit/diagram"
)

// HandleKey processes one key event and returns true when the editor
// should quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	switch e.mode {
	case ModeConnect:
		e.handleConnectKey(ev)
	case ModeEditText:
		e.handleTextKey(ev)
	case ModeConfirmClear:
		e.handleConfirmKey(ev)
	default:
		return e.handleNormalKey(ev)
	}
	return false
}

// blockKeys maps the number row to block types in toolbar order.
var blockKeys = map[rune]diagram.BlockType{
	'1': diagram.BlockStart,
	'2': diagram.BlockProcess,
	'3': diagram.BlockDecision,
	'4': diagram.BlockInput,
	'5': diagram.BlockOutput,
	'6': diagram.BlockEnd,
}

// handleNormalKey processes keys in normal mode
func (e *Editor) handleNormalKey(ev *tcell.EventKey) bool {
	step := e.moveStep
	if ev.Modifiers()&tcell.ModShift != 0 {
		step *= 5
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyTab:
		e.selectBlock(e.nextBlock(e.selected, 1, ""))
	case tcell.KeyBacktab:
		e.selectBlock(e.nextBlock(e.selected, -1, ""))
	case tcell.KeyUp:
		e.moveSelected(0, -step)
	case tcell.KeyDown:
		e.moveSelected(0, step)
	case tcell.KeyLeft:
		e.moveSelected(-step, 0)
	case tcell.KeyRight:
		e.moveSelected(step, 0)
	case tcell.KeyRune:
		r := ev.Rune()
		if t, ok := blockKeys[r]; ok {
			e.addBlock(t)
			return false
		}
		switch r {
		case 'q':
			return true
		case 'c':
			if e.requireSelection() && len(e.fc.Blocks) >= 2 {
				e.SetMode(ModeConnect)
				e.status = "Tab picks the target, Enter connects, Esc cancels"
			} else if e.selected != "" {
				e.status = "need another block to connect to"
			}
		case 'x':
			e.deleteSelected()
		case 'X':
			e.disconnectSelected()
		case 't':
			if e.requireSelection() {
				e.SetMode(ModeEditText)
				e.status = "Enter saves, Esc cancels"
			}
		case 'u':
			e.undo()
		case 'r':
			e.redo()
		case 'C':
			if len(e.fc.Blocks) > 0 || len(e.fc.Connections) > 0 {
				e.SetMode(ModeConfirmClear)
				e.status = "Clear the whole flowchart? (y/n)"
			}
		case 'w':
			e.save()
		}
	}
	return false
}

// handleConnectKey picks a target block and completes the connection.
func (e *Editor) handleConnectKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.SetMode(ModeNormal)
		e.status = "connect cancelled"
	case tcell.KeyTab:
		e.target = e.nextBlock(e.target, 1, e.selected)
	case tcell.KeyBacktab:
		e.target = e.nextBlock(e.target, -1, e.selected)
	case tcell.KeyEnter:
		e.connect(e.selected, e.target)
		e.SetMode(ModeNormal)
	}
}

// handleTextKey processes keys while editing a label
func (e *Editor) handleTextKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.SetMode(ModeNormal)
		e.status = "edit cancelled"
	case tcell.KeyEnter:
		e.setText(e.selected, string(e.textBuffer))
		e.SetMode(ModeNormal)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.cursorPos > 0 {
			e.textBuffer = append(e.textBuffer[:e.cursorPos-1], e.textBuffer[e.cursorPos:]...)
			e.cursorPos--
		}
	case tcell.KeyLeft:
		if e.cursorPos > 0 {
			e.cursorPos--
		}
	case tcell.KeyRight:
		if e.cursorPos < len(e.textBuffer) {
			e.cursorPos++
		}
	case tcell.KeyCtrlU:
		e.textBuffer = e.textBuffer[e.cursorPos:]
		e.cursorPos = 0
	case tcell.KeyRune:
		if r := ev.Rune(); unicode.IsPrint(r) {
			e.textBuffer = append(e.textBuffer[:e.cursorPos], append([]rune{r}, e.textBuffer[e.cursorPos:]...)...)
			e.cursorPos++
		}
	}
}

// handleConfirmKey clears on y and cancels on anything else.
func (e *Editor) handleConfirmKey(ev *tcell.EventKey) {
	e.SetMode(ModeNormal)
	if ev.Key() == tcell.KeyRune && (ev.Rune() == 'y' || ev.Rune() == 'Y') {
		e.clear()
		return
	}
	e.status = "clear cancelled"
}
