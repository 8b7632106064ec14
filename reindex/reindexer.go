package reindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/index"
	"github.com/poiesic/resumatch/storage"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of documents embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// Logger receives structured progress events. Default is slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
	}
}

// Reindexer re-embeds every document of a persisted index.
type Reindexer struct {
	store     storage.IndexStore
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(store storage.IndexStore, embedder ai.Embedder, config *Config, progress io.Writer) (*Reindexer, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reindexer{
		store:     store,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(embedder),
		logger:    logger.With("component", "reindex"),
	}, nil
}

// Run re-embeds all persisted documents and replaces the stored snapshot.
// It returns the number of documents re-embedded. A missing index is not
// an error. Nothing is written unless every document was re-embedded.
func (r *Reindexer) Run(ctx context.Context) (int, error) {
	snap, err := r.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(r.progress, "No index found (0 documents)\n")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load index: %w", err)
	}

	total := snap.Len()
	if total == 0 {
		fmt.Fprintf(r.progress, "Index is empty (0 documents)\n")
		return 0, nil
	}

	dimension := r.embedder.Dimension()
	fmt.Fprintf(r.progress, "Starting reindex of %d documents (batch size: %d, dimension: %d -> %d)\n",
		total, r.config.BatchSize, snap.Dimension, dimension)
	r.logger.Info("reindex started", "documents", total, "from_dimension", snap.Dimension, "to_dimension", dimension)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	entries := make([]core.Entry, 0, total)
	err = NewEntryIterator(snap, r.config.BatchSize).ForEach(ctx, func(batch []core.Entry) error {
		reembedded, err := r.processor.Process(ctx, batch)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		entries = append(entries, reembedded...)
		tracker.Update(len(entries))
		return nil
	})
	if err != nil {
		return 0, err
	}

	next := &core.Snapshot{Dimension: dimension, Entries: entries}
	if err := verify(next); err != nil {
		return 0, err
	}
	if err := r.store.Replace(ctx, next); err != nil {
		return 0, fmt.Errorf("failed to replace index: %w", err)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d documents in %v (%.1f docs/sec)\n",
		total, elapsed.Round(time.Millisecond), rate(total, elapsed))
	r.logger.Info("reindex complete", "documents", total, "elapsed", elapsed)

	return total, nil
}

// verify checks the re-embedded snapshot is a well-formed index.
func verify(snap *core.Snapshot) error {
	idx, err := index.New(snap.Dimension)
	if err != nil {
		return err
	}
	return idx.Restore(snap)
}
