package index

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/resumatch/core"
)

func record(id string) *core.DocumentRecord {
	return &core.DocumentRecord{
		Identifier:  id,
		Text:        "resume text for " + id,
		ContentHash: "hash-" + id,
		Skills:      core.EmptySkillProfile(),
	}
}

func TestNew(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	x, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, x.Dimension())
	assert.Equal(t, 0, x.Len())
}

func TestAppend(t *testing.T) {
	x, err := New(2)
	require.NoError(t, err)

	t.Run("assigns dense positions", func(t *testing.T) {
		for i, id := range []string{"a.pdf", "b.pdf", "c.pdf"} {
			r := record(id)
			pos, err := x.Append([]float32{float32(i), 0}, r)
			require.NoError(t, err)
			assert.Equal(t, i, pos)
			assert.Equal(t, i, r.Position)
		}
		assert.Equal(t, 3, x.Len())
	})

	t.Run("duplicate identifier changes nothing", func(t *testing.T) {
		r := record("a.pdf")
		r.ContentHash = "other"
		_, err := x.Append([]float32{9, 9}, r)
		assert.ErrorIs(t, err, core.ErrDuplicateIdentifier)
		assert.Equal(t, 3, x.Len())
		assert.False(t, x.HasContentHash("other"))
	})

	t.Run("duplicate content hash changes nothing", func(t *testing.T) {
		r := record("d.pdf")
		r.ContentHash = "hash-a.pdf"
		_, err := x.Append([]float32{9, 9}, r)
		assert.ErrorIs(t, err, core.ErrDuplicateContent)
		assert.False(t, x.HasIdentifier("d.pdf"))
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := x.Append([]float32{1, 2, 3}, record("e.pdf"))
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})

	t.Run("invalid record", func(t *testing.T) {
		_, err := x.Append([]float32{1, 2}, &core.DocumentRecord{Identifier: "f.pdf"})
		assert.ErrorIs(t, err, core.ErrInvalidDocumentRecord)
		_, err = x.Append([]float32{1, 2}, nil)
		assert.ErrorIs(t, err, core.ErrInvalidDocumentRecord)
	})

	t.Run("caller vector is copied", func(t *testing.T) {
		v := []float32{5, 5}
		pos, err := x.Append(v, record("g.pdf"))
		require.NoError(t, err)
		v[0] = 100
		snap := x.Snapshot()
		assert.Equal(t, []float32{5, 5}, snap.Entries[pos].Vector)
	})
}

func TestSearch(t *testing.T) {
	x, err := New(2)
	require.NoError(t, err)

	t.Run("empty index", func(t *testing.T) {
		got, err := x.Search([]float32{0, 0}, 5)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	for i, v := range [][]float32{{3, 0}, {1, 0}, {2, 0}, {1, 0}} {
		_, err := x.Append(v, record(fmt.Sprintf("r%d", i)))
		require.NoError(t, err)
	}

	t.Run("ascending distance with stable ties", func(t *testing.T) {
		got, err := x.Search([]float32{0, 0}, 4)
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, []int{1, 3, 2, 0}, []int{got[0].Position, got[1].Position, got[2].Position, got[3].Position})
		assert.Equal(t, 1.0, got[0].Distance)
		assert.Equal(t, 9.0, got[3].Distance)
	})

	t.Run("k clamped to size", func(t *testing.T) {
		got, err := x.Search([]float32{0, 0}, 100)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("k truncates", func(t *testing.T) {
		got, err := x.Search([]float32{3, 0}, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].Position)
		assert.Equal(t, 0.0, got[0].Distance)
	})

	t.Run("invalid k", func(t *testing.T) {
		_, err := x.Search([]float32{0, 0}, 0)
		assert.ErrorIs(t, err, ErrInvalidK)
	})

	t.Run("query dimension", func(t *testing.T) {
		_, err := x.Search([]float32{0}, 1)
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})
}

func TestLookups(t *testing.T) {
	x, err := New(1)
	require.NoError(t, err)
	_, err = x.Append([]float32{1}, record("a.pdf"))
	require.NoError(t, err)

	r, ok := x.Lookup("a.pdf")
	require.True(t, ok)
	assert.Equal(t, 0, r.Position)

	_, ok = x.Lookup("missing.pdf")
	assert.False(t, ok)

	r, ok = x.Record(0)
	require.True(t, ok)
	assert.Equal(t, "a.pdf", r.Identifier)

	_, ok = x.Record(1)
	assert.False(t, ok)
	_, ok = x.Record(-1)
	assert.False(t, ok)

	assert.True(t, x.HasIdentifier("a.pdf"))
	assert.True(t, x.HasContentHash("hash-a.pdf"))
	assert.Len(t, x.Records(), 1)
}

func TestSnapshotRestore(t *testing.T) {
	src, err := New(2)
	require.NoError(t, err)
	for i, id := range []string{"a", "b"} {
		_, err := src.Append([]float32{float32(i), 1}, record(id))
		require.NoError(t, err)
	}

	t.Run("round trip", func(t *testing.T) {
		dst, err := New(2)
		require.NoError(t, err)
		require.NoError(t, dst.Restore(src.Snapshot()))

		assert.Equal(t, 2, dst.Len())
		assert.True(t, dst.HasIdentifier("b"))
		assert.True(t, dst.HasContentHash("hash-a"))

		_, err = dst.Append([]float32{0, 0}, record("a"))
		assert.ErrorIs(t, err, core.ErrDuplicateIdentifier)
	})

	corrupt := []struct {
		name   string
		mutate func(s *core.Snapshot)
	}{
		{"gap in positions", func(s *core.Snapshot) {
			r := *s.Entries[1].Record
			r.Position = 5
			s.Entries[1].Record = &r
		}},
		{"missing record", func(s *core.Snapshot) { s.Entries[0].Record = nil }},
		{"short vector", func(s *core.Snapshot) { s.Entries[0].Vector = []float32{1} }},
		{"duplicate identifier", func(s *core.Snapshot) {
			r := *s.Entries[1].Record
			r.Identifier = "a"
			s.Entries[1].Record = &r
		}},
		{"duplicate hash", func(s *core.Snapshot) {
			r := *s.Entries[1].Record
			r.ContentHash = "hash-a"
			s.Entries[1].Record = &r
		}},
	}

	for _, tt := range corrupt {
		t.Run(tt.name, func(t *testing.T) {
			snap := src.Snapshot()
			tt.mutate(snap)

			dst, err := New(2)
			require.NoError(t, err)
			err = dst.Restore(snap)
			assert.ErrorIs(t, err, core.ErrIndexCorrupted)
			assert.Equal(t, 0, dst.Len())
		})
	}

	t.Run("dimension mismatch", func(t *testing.T) {
		dst, err := New(3)
		require.NoError(t, err)
		assert.ErrorIs(t, dst.Restore(src.Snapshot()), core.ErrDimensionMismatch)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		dst, err := New(2)
		require.NoError(t, err)
		assert.ErrorIs(t, dst.Restore(nil), core.ErrIndexCorrupted)
	})
}

func TestConcurrentAppendAndSearch(t *testing.T) {
	x, err := New(2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, err := x.Append([]float32{float32(i), 0}, record(fmt.Sprintf("doc-%d", i)))
			assert.NoError(t, err)
		}(i)
		go func() {
			defer wg.Done()
			_, err := x.Search([]float32{0, 0}, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, x.Len())
	for pos, r := range x.Records() {
		assert.Equal(t, pos, r.Position)
	}
}
