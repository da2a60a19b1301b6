package editor

import (
	"go.uber.org/zap"

	"flowedit/diagram"
)

func (e *Editor) requireSelection() bool {
	if e.selected == "" {
		e.status = "no block selected"
		return false
	}
	return true
}

func (e *Editor) selectBlock(id string) {
	e.selected = id
	if id != "" {
		e.status = "selected " + id
	}
}

func (e *Editor) addBlock(t diagram.BlockType) {
	b, err := e.fc.AddBlock(t)
	if err != nil {
		e.fail("add block", err)
		return
	}
	e.selected = b.ID
	e.commit("added " + b.ID)
}

func (e *Editor) moveSelected(dx, dy float64) {
	b, ok := e.fc.Block(e.selected)
	if !ok {
		return
	}
	pos := diagram.Position{X: b.Position.X + dx, Y: b.Position.Y + dy}
	if err := e.fc.MoveBlock(b.ID, pos); err != nil {
		e.fail("move", err)
		return
	}
	e.commit("")
}

func (e *Editor) setText(id, text string) {
	if err := e.fc.SetText(id, text); err != nil {
		e.fail("edit text", err)
		return
	}
	e.commit("renamed " + id)
}

func (e *Editor) deleteSelected() {
	if !e.requireSelection() {
		return
	}
	id := e.selected
	next := e.nextBlock(id, 1, id)
	if err := e.fc.DeleteBlock(id); err != nil {
		e.fail("delete", err)
		return
	}
	e.selected = next
	e.commit("deleted " + id)
}

func (e *Editor) disconnectSelected() {
	if !e.requireSelection() {
		return
	}
	conns := e.fc.ConnectionsOf(e.selected)
	if len(conns) == 0 {
		e.status = "no connections on " + e.selected
		return
	}
	for _, c := range conns {
		if err := e.fc.Disconnect(c.ID); err != nil {
			e.fail("disconnect", err)
			return
		}
	}
	e.commit("removed connections of " + e.selected)
}

func (e *Editor) connect(from, to string) {
	c, err := e.fc.Connect(from, to)
	if err != nil {
		e.fail("connect", err)
		return
	}
	e.commit("connected " + c.ID)
}

func (e *Editor) clear() {
	e.fc.Clear()
	e.selected = ""
	e.commit("cleared")
}

// restore swaps in a flowchart from history, keeping the selection when the
// block still exists.
func (e *Editor) restore(fc *diagram.Flowchart, msg string) {
	if e.canvasW > 0 && e.canvasH > 0 {
		fc.SetCanvas(e.canvasW, e.canvasH)
	}
	e.fc = fc
	if _, ok := fc.Block(e.selected); !ok {
		e.selected = e.nextBlock("", 1, "")
	}
	e.dirty = true
	e.status = msg
	if e.autosave {
		e.persist()
	}
}

func (e *Editor) undo() {
	fc, err := e.history.Undo()
	if err != nil {
		e.fail("undo", err)
		return
	}
	if fc == nil {
		e.status = "nothing to undo"
		return
	}
	e.restore(fc, "undo")
}

func (e *Editor) redo() {
	fc, err := e.history.Redo()
	if err != nil {
		e.fail("redo", err)
		return
	}
	if fc == nil {
		e.status = "nothing to redo"
		return
	}
	e.restore(fc, "redo")
}

// commit records an undo point after a change and autosaves if enabled.
func (e *Editor) commit(msg string) {
	if err := e.history.SaveState(e.fc); err != nil {
		e.log.Warn("recording history", zap.Error(err))
	}
	e.dirty = true
	if msg != "" {
		e.status = msg
		e.log.Debug(msg, zap.Int("blocks", len(e.fc.Blocks)), zap.Int("connections", len(e.fc.Connections)))
	}
	if e.autosave {
		e.persist()
	}
}

func (e *Editor) save() {
	if e.saver == nil {
		e.status = "no store configured"
		return
	}
	if e.persist() {
		e.status = "saved"
	}
}

func (e *Editor) persist() bool {
	if e.saver == nil {
		return false
	}
	if err := e.saver.Save(e.ctx, e.fc); err != nil {
		e.fail("save", err)
		return false
	}
	e.dirty = false
	return true
}

func (e *Editor) fail(op string, err error) {
	e.status = op + ": " + err.Error()
	e.log.Warn(op+" failed", zap.Error(err))
}
