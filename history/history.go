// Package history keeps undo/redo snapshots of a flowchart.
package history

import (
	"encoding/json"

	"flowedit/diagram"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 50

// Manager stores serialized flowchart snapshots in a ring buffer. When the
// buffer is full the oldest snapshot is overwritten.
type Manager struct {
	states   []string // Ring buffer of JSON snapshots
	start    int      // Slot holding the oldest snapshot
	size     int      // Number of snapshots stored
	cursor   int      // Logical index of the current snapshot, -1 when empty
	capacity int
}

// New creates a history manager holding up to capacity snapshots.
func New(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		states:   make([]string, capacity),
		cursor:   -1,
		capacity: capacity,
	}
}

func (m *Manager) slot(logical int) int {
	return (m.start + logical) % m.capacity
}

// SaveState records a snapshot. Saving after an undo discards the redo tail.
func (m *Manager) SaveState(f *diagram.Flowchart) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}

	// Drop anything newer than the cursor.
	m.size = m.cursor + 1

	if m.size == m.capacity {
		m.states[m.start] = ""
		m.start = (m.start + 1) % m.capacity
		m.size--
	}
	m.states[m.slot(m.size)] = string(data)
	m.size++
	m.cursor = m.size - 1
	return nil
}

// CanUndo returns true if there is an older snapshot.
func (m *Manager) CanUndo() bool {
	return m.cursor > 0
}

// CanRedo returns true if an undone snapshot can be restored.
func (m *Manager) CanRedo() bool {
	return m.cursor >= 0 && m.cursor < m.size-1
}

// Undo steps back and returns the previous snapshot, or nil if there is none.
func (m *Manager) Undo() (*diagram.Flowchart, error) {
	if !m.CanUndo() {
		return nil, nil
	}
	m.cursor--
	return m.load()
}

// Redo steps forward and returns the next snapshot, or nil if there is none.
func (m *Manager) Redo() (*diagram.Flowchart, error) {
	if !m.CanRedo() {
		return nil, nil
	}
	m.cursor++
	return m.load()
}

func (m *Manager) load() (*diagram.Flowchart, error) {
	var f diagram.Flowchart
	if err := json.Unmarshal([]byte(m.states[m.slot(m.cursor)]), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Clear drops every snapshot.
func (m *Manager) Clear() {
	for i := range m.states {
		m.states[i] = ""
	}
	m.start, m.size, m.cursor = 0, 0, -1
}

// Stats returns the 1-based position of the current snapshot and the total
// number stored.
func (m *Manager) Stats() (current, total int) {
	return m.cursor + 1, m.size
}
