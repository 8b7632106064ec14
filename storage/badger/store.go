package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/storage"
)

// IndexStore implements storage.IndexStore for BadgerDB.
//
// Each record and each vector has its own key. A header key holds the
// dimension and the number of committed entries; entries are written before
// the header, so a crash mid-save leaves the previous count in place and
// any extra keys are ignored by Load and overwritten by the next Save.
type IndexStore struct {
	backend *Backend
	owned   bool
	logger  *slog.Logger
	mu      sync.Mutex
}

var _ storage.IndexStore = (*IndexStore)(nil)

// NewIndexStore opens (or creates) a BadgerDB index store at path.
func NewIndexStore(path string) (storage.IndexStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newIndexStore(backend, true), nil
}

// NewIndexStoreWithBackend creates an index store on an existing backend.
// The caller keeps ownership of the backend.
func NewIndexStoreWithBackend(backend *Backend) *IndexStore {
	return newIndexStore(backend, false)
}

func newIndexStore(backend *Backend, owned bool) *IndexStore {
	return &IndexStore{
		backend: backend,
		owned:   owned,
		logger:  backend.logger.With("component", "badger-index-store"),
	}
}

type header struct {
	dimension int
	count     int
}

func marshalHeader(h header) []byte {
	buf := make([]byte, varint.Int.Size(h.dimension)+varint.Int.Size(h.count))
	n := varint.Int.Marshal(h.dimension, buf)
	varint.Int.Marshal(h.count, buf[n:])
	return buf
}

func unmarshalHeader(data []byte) (header, error) {
	dim, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return header{}, err
	}
	count, _, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return header{}, err
	}
	if dim < 0 || count < 0 {
		return header{}, fmt.Errorf("negative header values %d/%d", dim, count)
	}
	return header{dimension: dim, count: count}, nil
}

func readHeader(tx *badger.Txn) (header, error) {
	data, err := get(tx, []byte(headerKey))
	if err != nil {
		return header{}, err
	}
	h, err := unmarshalHeader(data)
	if err != nil {
		return header{}, fmt.Errorf("%w: header: %w", core.ErrIndexCorrupted, err)
	}
	return h, nil
}

// Load reads every committed entry.
func (s *IndexStore) Load(ctx context.Context) (*core.Snapshot, error) {
	var snap *core.Snapshot
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		h, err := readHeader(tx)
		if err != nil {
			return err
		}
		snap = &core.Snapshot{Dimension: h.dimension, Entries: make([]core.Entry, h.count)}
		for pos := 0; pos < h.count; pos++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := readEntry(tx, pos, h.dimension)
			if err != nil {
				return err
			}
			snap.Entries[pos] = entry
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("loaded index", "entries", snap.Len(), "dimension", snap.Dimension)
	return snap, nil
}

func readEntry(tx *badger.Txn, pos, dim int) (core.Entry, error) {
	recData, err := get(tx, makeRecordKey(pos))
	if err != nil {
		return core.Entry{}, fmt.Errorf("%w: record %d: %w", core.ErrIndexCorrupted, pos, err)
	}
	record, err := storage.UnmarshalDocumentRecord(recData)
	if err != nil {
		return core.Entry{}, fmt.Errorf("%w: record %d: %w", core.ErrIndexCorrupted, pos, err)
	}
	if record.Position != pos {
		return core.Entry{}, fmt.Errorf("%w: record %d has position %d", core.ErrIndexCorrupted, pos, record.Position)
	}

	vecData, err := get(tx, makeVectorKey(pos))
	if err != nil {
		return core.Entry{}, fmt.Errorf("%w: vector %d: %w", core.ErrIndexCorrupted, pos, err)
	}
	vector, err := storage.UnmarshalVector(vecData)
	if err != nil {
		return core.Entry{}, fmt.Errorf("%w: vector %d: %w", core.ErrIndexCorrupted, pos, err)
	}
	if len(vector) != dim {
		return core.Entry{}, fmt.Errorf("%w: vector %d has %d dimensions", core.ErrIndexCorrupted, pos, len(vector))
	}

	return core.Entry{Record: record, Vector: vector}, nil
}

// Save writes only the entries beyond the persisted count.
func (s *IndexStore) Save(ctx context.Context, snap *core.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var persisted header
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		h, err := readHeader(tx)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		persisted = h
		return s.checkExtends(tx, h, snap)
	}, false)
	if err != nil {
		return err
	}

	if err := s.writeEntries(ctx, snap, persisted.count); err != nil {
		return err
	}
	s.logger.Debug("saved index", "new_entries", snap.Len()-persisted.count, "entries", snap.Len())
	return nil
}

// checkExtends verifies that snap starts with the persisted entries.
// Only the last persisted identifier is compared.
func (s *IndexStore) checkExtends(tx *badger.Txn, h header, snap *core.Snapshot) error {
	if h.count == 0 {
		return nil
	}
	if snap.Dimension != h.dimension {
		return fmt.Errorf("%w: dimension %d, persisted %d", storage.ErrNotAppendOnly, snap.Dimension, h.dimension)
	}
	if snap.Len() < h.count {
		return fmt.Errorf("%w: %d entries, persisted %d", storage.ErrNotAppendOnly, snap.Len(), h.count)
	}
	last := h.count - 1
	data, err := get(tx, makeRecordKey(last))
	if err != nil {
		return fmt.Errorf("%w: record %d: %w", core.ErrIndexCorrupted, last, err)
	}
	record, err := storage.UnmarshalDocumentRecord(data)
	if err != nil {
		return fmt.Errorf("%w: record %d: %w", core.ErrIndexCorrupted, last, err)
	}
	if record.Identifier != snap.Entries[last].Record.Identifier {
		return fmt.Errorf("%w: position %d holds %s, snapshot has %s",
			storage.ErrNotAppendOnly, last, record.Identifier, snap.Entries[last].Record.Identifier)
	}
	return nil
}

// Replace drops all persisted state and writes snap in full.
func (s *IndexStore) Replace(ctx context.Context, snap *core.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.DropAll(); err != nil {
		return err
	}
	if err := s.writeEntries(ctx, snap, 0); err != nil {
		return err
	}
	s.logger.Debug("replaced index", "entries", snap.Len())
	return nil
}

// writeEntries stores snap.Entries[from:] and then the header. Transactions
// that grow too big are committed and continued in a fresh one.
func (s *IndexStore) writeEntries(ctx context.Context, snap *core.Snapshot, from int) error {
	for i := from; i < snap.Len(); i++ {
		if len(snap.Entries[i].Vector) != snap.Dimension {
			return fmt.Errorf("%w: entry %d has %d dimensions, snapshot %d",
				core.ErrDimensionMismatch, i, len(snap.Entries[i].Vector), snap.Dimension)
		}
	}

	next := from
	for next < snap.Len() {
		if err := ctx.Err(); err != nil {
			return err
		}
		written := 0
		err := s.backend.WithTx(func(tx *badger.Txn) error {
			for pos := next; pos < snap.Len(); pos++ {
				err := setEntry(tx, pos, snap.Entries[pos])
				if errors.Is(err, badger.ErrTxnTooBig) && written > 0 {
					break
				}
				if err != nil {
					return err
				}
				written++
			}
			return tx.Commit()
		}, true)
		if err != nil {
			return err
		}
		next += written
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		h := header{dimension: snap.Dimension, count: snap.Len()}
		if err := tx.Set([]byte(headerKey), marshalHeader(h)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func setEntry(tx *badger.Txn, pos int, e core.Entry) error {
	record := *e.Record
	record.Position = pos
	if err := tx.Set(makeRecordKey(pos), storage.MarshalDocumentRecord(&record)); err != nil {
		return err
	}
	return tx.Set(makeVectorKey(pos), storage.MarshalVector(e.Vector))
}

// Close closes the backend if this store opened it.
func (s *IndexStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.backend.Close()
}
