package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"flowedit/diagram"
)

// Keys the flowchart is split across, matching the browser editor's
// local-storage layout.
const (
	KeyBlocks      = "flowchartBlocks"
	KeyConnections = "flowchartConnections"
	KeyNextID      = "flowchartNextId"
	KeyMeta        = "flowchartMeta"
)

// Repository loads and saves a flowchart through a Store.
type Repository struct {
	store Store
}

// NewRepository wraps a store.
func NewRepository(s Store) *Repository {
	return &Repository{store: s}
}

// Load reads the flowchart. Missing keys load as empty, so a fresh store
// yields an empty flowchart with NextID 1.
func (r *Repository) Load(ctx context.Context) (*diagram.Flowchart, error) {
	f := diagram.New()
	if _, err := r.read(ctx, KeyMeta, &f.Metadata); err != nil {
		return nil, err
	}
	if _, err := r.read(ctx, KeyBlocks, &f.Blocks); err != nil {
		return nil, err
	}
	if _, err := r.read(ctx, KeyConnections, &f.Connections); err != nil {
		return nil, err
	}
	if _, err := r.read(ctx, KeyNextID, &f.NextID); err != nil {
		return nil, err
	}

	if f.Blocks == nil {
		f.Blocks = []diagram.Block{}
	}
	if f.Connections == nil {
		f.Connections = []diagram.Connection{}
	}
	if f.NextID <= f.MaxBlockNumber() {
		f.SyncNextID()
	}
	return f, nil
}

// read decodes the blob at key into v and reports whether it existed.
func (r *Repository) read(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Save writes every key of the flowchart.
func (r *Repository) Save(ctx context.Context, f *diagram.Flowchart) error {
	if f == nil {
		return errors.New("flowchart is nil")
	}
	blocks, conns := f.Blocks, f.Connections
	if blocks == nil {
		blocks = []diagram.Block{}
	}
	if conns == nil {
		conns = []diagram.Connection{}
	}

	entries := []struct {
		key string
		val any
	}{
		{KeyBlocks, blocks},
		{KeyConnections, conns},
		{KeyNextID, f.NextID},
		{KeyMeta, f.Metadata},
	}
	for _, e := range entries {
		data, err := json.Marshal(e.val)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", e.key, err)
		}
		if err := r.store.Set(ctx, e.key, data); err != nil {
			return fmt.Errorf("writing %s: %w", e.key, err)
		}
	}
	return nil
}

// Reset removes every flowchart key.
func (r *Repository) Reset(ctx context.Context) error {
	for _, key := range []string{KeyBlocks, KeyConnections, KeyNextID, KeyMeta} {
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	return nil
}
