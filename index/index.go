package index

import (
	"fmt"
	"slices"
	"sync"

	"github.com/poiesic/resumatch/core"
)

// Index is a thread-safe arena of (vector, record) entries.
// Appends are exclusive; searches and lookups share a read lock and see a
// consistent entry count.
type Index struct {
	mu          sync.RWMutex
	dimension   int
	entries     []core.Entry
	identifiers map[string]int
	hashes      map[string]int
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dimension)
	}
	return &Index{
		dimension:   dimension,
		identifiers: make(map[string]int),
		hashes:      make(map[string]int),
	}, nil
}

// Dimension returns the vector dimension of the index.
func (x *Index) Dimension() int {
	return x.dimension
}

// Len returns the number of entries.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}

// Append adds a vector and its record as one entry and returns the assigned
// position. The record's Position is overwritten. Either both halves are
// stored or nothing changes.
func (x *Index) Append(vector []float32, record *core.DocumentRecord) (int, error) {
	if err := core.ValidateDocumentRecord(record); err != nil {
		return -1, err
	}
	if err := core.ValidateVector(vector, x.dimension); err != nil {
		return -1, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.identifiers[record.Identifier]; ok {
		return -1, fmt.Errorf("%w: %s", core.ErrDuplicateIdentifier, record.Identifier)
	}
	if _, ok := x.hashes[record.ContentHash]; ok {
		return -1, fmt.Errorf("%w: %s", core.ErrDuplicateContent, record.Identifier)
	}

	pos := len(x.entries)
	stored := *record
	stored.Position = pos
	x.entries = append(x.entries, core.Entry{
		Record: &stored,
		Vector: slices.Clone(vector),
	})
	x.identifiers[stored.Identifier] = pos
	x.hashes[stored.ContentHash] = pos
	record.Position = pos

	return pos, nil
}

// Search returns the k nearest entries to query by squared L2 distance,
// nearest first. Ties keep position order. k is clamped to the index size;
// an empty index returns no neighbors.
func (x *Index) Search(query []float32, k int) ([]core.Neighbor, error) {
	if err := core.ValidateVector(query, x.dimension); err != nil {
		return nil, err
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	n := len(x.entries)
	if n == 0 {
		return []core.Neighbor{}, nil
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	k = min(k, n)

	neighbors := make([]core.Neighbor, n)
	for i, e := range x.entries {
		neighbors[i] = core.Neighbor{Position: i, Distance: SquaredL2(query, e.Vector)}
	}
	slices.SortStableFunc(neighbors, func(a, b core.Neighbor) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	return neighbors[:k], nil
}

// Record returns the record at pos.
func (x *Index) Record(pos int) (*core.DocumentRecord, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if pos < 0 || pos >= len(x.entries) {
		return nil, false
	}
	return x.entries[pos].Record, true
}

// Lookup returns the record with the given identifier.
func (x *Index) Lookup(identifier string) (*core.DocumentRecord, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	pos, ok := x.identifiers[identifier]
	if !ok {
		return nil, false
	}
	return x.entries[pos].Record, true
}

// HasIdentifier reports whether a record with identifier exists.
func (x *Index) HasIdentifier(identifier string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.identifiers[identifier]
	return ok
}

// HasContentHash reports whether a record with hash exists.
func (x *Index) HasContentHash(hash string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.hashes[hash]
	return ok
}

// Records returns all records in position order.
func (x *Index) Records() []*core.DocumentRecord {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make([]*core.DocumentRecord, len(x.entries))
	for i, e := range x.entries {
		out[i] = e.Record
	}
	return out
}

// Snapshot returns a point-in-time copy of the entries. Records are shared
// since they are immutable; vectors are shared for the same reason.
func (x *Index) Snapshot() *core.Snapshot {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return &core.Snapshot{
		Dimension: x.dimension,
		Entries:   slices.Clone(x.entries),
	}
}

// Restore replaces the contents of the index with snap after checking that
// positions are dense, identifiers and hashes are unique and every vector
// has the index dimension. On failure the index is left unchanged.
func (x *Index) Restore(snap *core.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", core.ErrIndexCorrupted)
	}
	if snap.Dimension != x.dimension && snap.Len() > 0 {
		return fmt.Errorf("%w: snapshot dimension %d, index dimension %d",
			core.ErrDimensionMismatch, snap.Dimension, x.dimension)
	}

	identifiers := make(map[string]int, snap.Len())
	hashes := make(map[string]int, snap.Len())
	for i, e := range snap.Entries {
		if e.Record == nil {
			return fmt.Errorf("%w: entry %d has no record", core.ErrIndexCorrupted, i)
		}
		if e.Record.Position != i {
			return fmt.Errorf("%w: entry %d has position %d", core.ErrIndexCorrupted, i, e.Record.Position)
		}
		if len(e.Vector) != x.dimension {
			return fmt.Errorf("%w: entry %d has %d dimensions", core.ErrIndexCorrupted, i, len(e.Vector))
		}
		if _, ok := identifiers[e.Record.Identifier]; ok {
			return fmt.Errorf("%w: duplicate identifier %s", core.ErrIndexCorrupted, e.Record.Identifier)
		}
		if _, ok := hashes[e.Record.ContentHash]; ok {
			return fmt.Errorf("%w: duplicate content hash at %d", core.ErrIndexCorrupted, i)
		}
		identifiers[e.Record.Identifier] = i
		hashes[e.Record.ContentHash] = i
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries = slices.Clone(snap.Entries)
	x.identifiers = identifiers
	x.hashes = hashes
	return nil
}

// SquaredL2 returns the squared Euclidean distance between a and b.
// The vectors must have equal length.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
