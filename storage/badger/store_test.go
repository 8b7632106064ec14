package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/storage"
)

func testSnapshot(n, dim int) *core.Snapshot {
	snap := &core.Snapshot{Dimension: dim}
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		v[i%dim] = 1
		snap.Entries = append(snap.Entries, core.Entry{
			Record: &core.DocumentRecord{
				Identifier:  fmt.Sprintf("resume-%d.docx", i),
				Text:        fmt.Sprintf("candidate %d knows go and docker", i),
				ContentHash: fmt.Sprintf("hash-%d", i),
				Skills: core.SkillProfile{
					TechnicalSkills: []string{"docker", "go"},
					SoftSkills:      []string{},
					Certifications:  []string{},
					YearsExperience: core.YearsUnknown,
				},
				Position: i,
			},
			Vector: v,
		})
	}
	return snap
}

func newStore(t *testing.T) *IndexStore {
	t.Helper()
	store, err := NewMemoryIndexStore()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoad_Empty(t *testing.T) {
	store := newStore(t)
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	snap := testSnapshot(3, 4)
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Dimension)
	require.Len(t, loaded.Entries, 3)
	for i, e := range loaded.Entries {
		assert.Equal(t, snap.Entries[i].Vector, e.Vector)
		assert.Equal(t, snap.Entries[i].Record.Identifier, e.Record.Identifier)
		assert.Equal(t, snap.Entries[i].Record.Skills, e.Record.Skills)
		assert.Equal(t, i, e.Record.Position)
	}
}

func TestSave_Incremental(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	full := testSnapshot(5, 4)
	require.NoError(t, store.Save(ctx, &core.Snapshot{Dimension: 4, Entries: full.Entries[:2]}))
	require.NoError(t, store.Save(ctx, full))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Entries, 5)
	assert.Equal(t, "resume-4.docx", loaded.Entries[4].Record.Identifier)

	t.Run("saving the same snapshot is a no-op", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, full))
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded.Entries, 5)
	})

	t.Run("shorter snapshot rejected", func(t *testing.T) {
		err := store.Save(ctx, &core.Snapshot{Dimension: 4, Entries: full.Entries[:3]})
		assert.ErrorIs(t, err, storage.ErrNotAppendOnly)
	})

	t.Run("diverging snapshot rejected", func(t *testing.T) {
		other := testSnapshot(6, 4)
		r := *other.Entries[4].Record
		r.Identifier = "someone-else.pdf"
		other.Entries[4].Record = &r
		assert.ErrorIs(t, store.Save(ctx, other), storage.ErrNotAppendOnly)
	})

	t.Run("dimension change rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, testSnapshot(6, 3)), storage.ErrNotAppendOnly)
	})
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.Save(ctx, testSnapshot(4, 4)))
	require.NoError(t, store.Replace(ctx, testSnapshot(2, 3)))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Dimension)
	assert.Len(t, loaded.Entries, 2)

	t.Run("replace with empty snapshot", func(t *testing.T) {
		require.NoError(t, store.Replace(ctx, &core.Snapshot{Dimension: 3}))
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, loaded.Entries)
	})
}

func TestLoad_Corrupted(t *testing.T) {
	ctx := context.Background()

	t.Run("missing vector", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, testSnapshot(3, 4)))
		deleteKey(t, store, makeVectorKey(1))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})

	t.Run("garbage record", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, testSnapshot(3, 4)))
		setKey(t, store, makeRecordKey(2), []byte{0xff})

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})

	t.Run("wrong vector width", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, testSnapshot(2, 4)))
		setKey(t, store, makeVectorKey(0), storage.MarshalVector([]float32{1, 2}))

		_, err := store.Load(ctx)
		assert.ErrorIs(t, err, core.ErrIndexCorrupted)
	})
}

func TestSave_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewIndexStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, testSnapshot(2, 4)))
	require.NoError(t, store.Close())

	reopened, err := NewIndexStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Entries, 2)
}

func TestNewIndexStoreWithBackend(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	store := NewIndexStoreWithBackend(backend)
	require.NoError(t, store.Close())
	assert.False(t, backend.IsClosed())
}

func deleteKey(t *testing.T, s *IndexStore, key []byte) {
	t.Helper()
	require.NoError(t, s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true))
}

func setKey(t *testing.T, s *IndexStore, key, value []byte) {
	t.Helper()
	require.NoError(t, s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(key, value); err != nil {
			return err
		}
		return tx.Commit()
	}, true))
}
