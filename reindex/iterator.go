package reindex

import (
	"context"

	"github.com/poiesic/resumatch/core"
)

// DefaultBatchSize is the default number of documents embedded per request.
const DefaultBatchSize = 32

// EntryIterator walks the entries of a snapshot in position order.
type EntryIterator struct {
	snap      *core.Snapshot
	batchSize int
}

// NewEntryIterator creates an iterator over snap.
// batchSize: number of entries per batch; values below one use DefaultBatchSize
func NewEntryIterator(snap *core.Snapshot, batchSize int) *EntryIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &EntryIterator{snap: snap, batchSize: batchSize}
}

// ForEach calls fn for each batch of entries.
// Iteration stops on the first error from fn or when ctx is cancelled.
func (it *EntryIterator) ForEach(ctx context.Context, fn func([]core.Entry) error) error {
	var entries []core.Entry
	if it.snap != nil {
		entries = it.snap.Entries
	}
	for i := 0; i < len(entries); i += it.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(i+it.batchSize, len(entries))
		if err := fn(entries[i:end]); err != nil {
			return err
		}
	}
	return ctx.Err()
}
