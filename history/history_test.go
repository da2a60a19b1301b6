package history

import (
	"fmt"
	"testing"

	"flowedit/diagram"
)

func snapshot(n int) *diagram.Flowchart {
	return &diagram.Flowchart{
		Blocks: []diagram.Block{{ID: fmt.Sprintf("block-%d", n), Type: diagram.BlockProcess}},
		NextID: n + 1,
	}
}

func TestHistoryManager(t *testing.T) {
	h := New(5)

	for i := 1; i <= 3; i++ {
		if err := h.SaveState(snapshot(i)); err != nil {
			t.Fatalf("Failed to save state: %v", err)
		}
	}

	current, total := h.Stats()
	if current != 3 || total != 3 {
		t.Errorf("Stats() = %d/%d, want 3/3", current, total)
	}

	if !h.CanUndo() {
		t.Fatal("Should be able to undo")
	}
	undone, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if undone.Blocks[0].ID != "block-2" {
		t.Errorf("Undo returned %s, want block-2", undone.Blocks[0].ID)
	}

	if !h.CanRedo() {
		t.Fatal("Should be able to redo after undo")
	}
	redone, err := h.Redo()
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if redone.Blocks[0].ID != "block-3" {
		t.Errorf("Redo returned %s, want block-3", redone.Blocks[0].ID)
	}
	if h.CanRedo() {
		t.Error("Should not be able to redo at the newest state")
	}
}

func TestSaveAfterUndoTruncatesRedo(t *testing.T) {
	h := New(10)
	for i := 1; i <= 4; i++ {
		_ = h.SaveState(snapshot(i))
	}
	_, _ = h.Undo()
	_, _ = h.Undo()

	if err := h.SaveState(snapshot(9)); err != nil {
		t.Fatal(err)
	}
	if h.CanRedo() {
		t.Error("Redo tail should be dropped after a new save")
	}
	current, total := h.Stats()
	if current != 3 || total != 3 {
		t.Errorf("Stats() = %d/%d, want 3/3", current, total)
	}

	prev, _ := h.Undo()
	if prev.Blocks[0].ID != "block-2" {
		t.Errorf("Undo returned %s, want block-2", prev.Blocks[0].ID)
	}
}

func TestRingBufferOverwritesOldest(t *testing.T) {
	h := New(3)
	for i := 1; i <= 5; i++ {
		_ = h.SaveState(snapshot(i))
	}

	_, total := h.Stats()
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}

	var seen []string
	for h.CanUndo() {
		f, err := h.Undo()
		if err != nil {
			t.Fatal(err)
		}
		seen = append(seen, f.Blocks[0].ID)
	}
	want := []string{"block-4", "block-3"}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Errorf("undo sequence = %v, want %v", seen, want)
	}
}

func TestEmptyHistory(t *testing.T) {
	h := New(0)
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history should not undo or redo")
	}
	if f, err := h.Undo(); f != nil || err != nil {
		t.Errorf("Undo on empty = %v, %v", f, err)
	}

	_ = h.SaveState(snapshot(1))
	if h.CanUndo() {
		t.Error("a single state cannot be undone")
	}
	h.Clear()
	if current, total := h.Stats(); current != 0 || total != 0 {
		t.Errorf("Stats after Clear = %d/%d", current, total)
	}
}
