package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowedit/diagram"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "blobs"))
	require.NoError(t, err)
	sq, err := NewSQLiteStore(filepath.Join(dir, "flow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		BackendMemory: NewMemoryStore(),
		BackendFile:   fs,
		BackendSQLite: sq,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "b", []byte(`[1]`)))
			require.NoError(t, s.Set(ctx, "a", []byte(`{"x":1}`)))
			require.NoError(t, s.Set(ctx, "b", []byte(`[2]`)))

			got, err := s.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, `[2]`, string(got))

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, keys)

			require.NoError(t, s.Delete(ctx, "a"))
			require.NoError(t, s.Delete(ctx, "a"))
			_, err = s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, s.Set(ctx, "../escape", nil), ErrInvalidKey)
			assert.ErrorIs(t, s.Set(ctx, "", nil), ErrInvalidKey)
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), KeyNextID, []byte("4")))
	data, err := os.ReadFile(filepath.Join(dir, KeyNextID+".json"))
	require.NoError(t, err)
	assert.Equal(t, "4", string(data))

	// Stray files are not keys.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0o644))
	keys, err := s.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{KeyNextID}, keys)
}

func TestOpen(t *testing.T) {
	s, err := Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open("redis", "")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open(BackendFile, "")
	assert.Error(t, err)
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewRepository(s)

			empty, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty.Blocks)
			assert.NotNil(t, empty.Connections)
			assert.Equal(t, 1, empty.NextID)

			f := diagram.New(diagram.WithName("plan"))
			a, _ := f.AddBlock(diagram.BlockStart, diagram.At(diagram.Position{X: 0, Y: 0}))
			b, _ := f.AddBlock(diagram.BlockDecision, diagram.At(diagram.Position{X: 0, Y: 200}))
			_, err = f.Connect(a.ID, b.ID)
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, f))

			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, f.Blocks, loaded.Blocks)
			assert.Equal(t, f.Connections, loaded.Connections)
			assert.Equal(t, 3, loaded.NextID)
			assert.Equal(t, f.Metadata, loaded.Metadata)

			require.NoError(t, repo.Reset(ctx))
			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)
		})
	}
}

func TestRepositoryRepairsNextID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyBlocks, []byte(`[{"id":"block-9","type":"process","text":"x","position":{"x":0,"y":0},"width":150,"height":60}]`)))

	f, err := NewRepository(s).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, f.NextID)
}

func TestRepositoryRejectsCorruptBlob(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, KeyConnections, []byte(`{not json`)))

	_, err := NewRepository(s).Load(ctx)
	assert.ErrorContains(t, err, KeyConnections)
}
