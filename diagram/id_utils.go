package diagram

import (
	"strconv"
	"strings"
)

const blockPrefix = "block-"

// BlockNumber extracts N from a "block-N" identifier.
func BlockNumber(id string) (int, bool) {
	if !strings.HasPrefix(id, blockPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, blockPrefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// MaxBlockNumber returns the highest N among "block-N" IDs, or 0.
// Identifiers in any other form are ignored.
func (f *Flowchart) MaxBlockNumber() int {
	max := 0
	for _, b := range f.Blocks {
		if n, ok := BlockNumber(b.ID); ok && n > max {
			max = n
		}
	}
	return max
}

// SyncNextID sets NextID past the highest block number so newly added
// blocks never collide with imported ones.
func (f *Flowchart) SyncNextID() {
	f.NextID = f.MaxBlockNumber() + 1
}

// EnsureConnectionIDs fills in missing connection IDs from their endpoints.
func (f *Flowchart) EnsureConnectionIDs() {
	for i := range f.Connections {
		if f.Connections[i].ID == "" {
			f.Connections[i].ID = ConnectionID(f.Connections[i].From, f.Connections[i].To)
		}
	}
}
