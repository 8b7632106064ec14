package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/storage"
)

func testSnapshot(n, dim int) *core.Snapshot {
	snap := &core.Snapshot{Dimension: dim}
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		for j := range v {
			v[j] = float32(i) + float32(j)/10
		}
		snap.Entries = append(snap.Entries, core.Entry{
			Record: &core.DocumentRecord{
				Identifier:  fmt.Sprintf("resume-%d.pdf", i),
				Text:        fmt.Sprintf("resume number %d with python", i),
				ContentHash: fmt.Sprintf("hash-%d", i),
				Skills: core.SkillProfile{
					TechnicalSkills: []string{"python"},
					SoftSkills:      []string{},
					Certifications:  []string{},
					YearsExperience: core.YearsUnknown,
				},
				Position:   i,
				IngestedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			},
			Vector: v,
		})
	}
	return snap
}

func TestLoad_NotFound(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "index"))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	snap := testSnapshot(3, 4)
	require.NoError(t, store.Save(ctx, snap))

	for _, name := range []string{IndexFile, MetadataFile, MirrorFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Dimension)
	require.Len(t, loaded.Entries, 3)
	for i, e := range loaded.Entries {
		assert.Equal(t, snap.Entries[i].Vector, e.Vector)
		assert.Equal(t, snap.Entries[i].Record.Identifier, e.Record.Identifier)
		assert.Equal(t, snap.Entries[i].Record.ContentHash, e.Record.ContentHash)
		assert.Equal(t, snap.Entries[i].Record.Skills, e.Record.Skills)
		assert.Equal(t, i, e.Record.Position)
	}

	t.Run("save overwrites", func(t *testing.T) {
		require.NoError(t, store.Replace(ctx, testSnapshot(1, 4)))
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded.Entries, 1)
	})

	t.Run("no temp files left", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}

func TestSave_EmptySnapshot(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, &core.Snapshot{Dimension: 8}))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, loaded.Dimension)
	assert.Empty(t, loaded.Entries)
}

func TestSave_DimensionMismatch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	snap := testSnapshot(2, 4)
	snap.Entries[1].Vector = []float32{1}
	assert.ErrorIs(t, store.Save(context.Background(), snap), core.ErrDimensionMismatch)
}

func TestMirror(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), testSnapshot(2, 2)))

	data, err := os.ReadFile(filepath.Join(dir, MirrorFile))
	require.NoError(t, err)

	var m mirror
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, 2, m.Total)
	assert.Equal(t, "resume-1.pdf", m.Records[1].Filename)
	assert.Equal(t, []string{"python"}, m.Records[0].Skills.TechnicalSkills)
	assert.NotContains(t, string(data), "hash-0")
}

func TestLoad_Corrupted(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (string, storage.IndexStore) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, testSnapshot(3, 4)))
		return dir, store
	}

	t.Run("metadata missing", func(t *testing.T) {
		dir, store := setup(t)
		require.NoError(t, os.Remove(filepath.Join(dir, MetadataFile)))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})

	t.Run("vectors missing", func(t *testing.T) {
		dir, store := setup(t)
		require.NoError(t, os.Remove(filepath.Join(dir, IndexFile)))
		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})

	t.Run("count mismatch", func(t *testing.T) {
		dir, store := setup(t)
		other := t.TempDir()
		otherStore, err := NewStore(other)
		require.NoError(t, err)
		require.NoError(t, otherStore.Save(ctx, testSnapshot(2, 4)))

		data, err := os.ReadFile(filepath.Join(other, MetadataFile))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), data, 0o644))

		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})

	t.Run("truncated vectors", func(t *testing.T) {
		dir, store := setup(t)
		path := filepath.Join(dir, IndexFile)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data[:len(data)-3], 0o644))

		_, err = store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})

	t.Run("garbage metadata", func(t *testing.T) {
		dir, store := setup(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte("not an index"), 0o644))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})
}

func TestClosed(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
	assert.ErrorIs(t, store.Save(context.Background(), testSnapshot(1, 1)), storage.ErrStorageClosed)
}
