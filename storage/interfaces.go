package storage

import (
	"context"

	"github.com/poiesic/resumatch/core"
)

// IndexStore persists index snapshots.
// Implementations must be thread-safe and support concurrent access.
type IndexStore interface {
	// Load reads the persisted snapshot.
	// Returns ErrNotFound if nothing has been persisted, and an error
	// wrapping core.ErrIndexCorrupted if the persisted halves are unreadable
	// or misaligned.
	Load(ctx context.Context) (*core.Snapshot, error)

	// Save persists snap. Backends that support it write only the entries
	// beyond what is already stored; snap must then extend the persisted
	// state (ErrNotAppendOnly otherwise).
	Save(ctx context.Context, snap *core.Snapshot) error

	// Replace discards the persisted state and writes snap in full.
	Replace(ctx context.Context, snap *core.Snapshot) error

	// Close releases resources held by the store.
	Close() error
}
