package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/extract"
	"github.com/poiesic/resumatch/fingerprint"
	"github.com/poiesic/resumatch/index"
	"github.com/poiesic/resumatch/metrics"
	"github.com/poiesic/resumatch/skills"
)

// supporter is implemented by extractors that can tell which files they handle.
type supporter interface {
	Supports(path string) bool
}

// Pipeline orchestrates the ingestion of resume files into an index.
// At most one batch runs at a time per pipeline.
type Pipeline struct {
	index         *index.Index
	extractor     extract.TextExtractor
	embedder      ai.Embedder
	skills        *skills.Extractor
	pool          *ants.Pool
	processors    []processor
	minTextLength int
	clock         func() time.Time
	logger        *slog.Logger
	mu            sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent preparation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMinTextLength sets the shortest extracted text, in characters after
// trimming, that is accepted. Default is core.MinTextLength.
func WithMinTextLength(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidMinTextLength, n)
		}
		p.minTextLength = n
		return nil
	}
}

// WithSkillExtractor replaces the built-in skill vocabularies.
func WithSkillExtractor(e *skills.Extractor) Option {
	return func(p *Pipeline) error {
		if e == nil {
			return ErrSkillExtractorRequired
		}
		p.skills = e
		return nil
	}
}

// WithClock sets the time source used for IngestedAt.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) error {
		if clock != nil {
			p.clock = clock
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline appending to idx.
func NewPipeline(idx *index.Index, extractor extract.TextExtractor, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if extractor == nil {
		return nil, ErrTextExtractorRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if embedder.Dimension() != idx.Dimension() {
		return nil, fmt.Errorf("%w: embedder produces %d, index holds %d",
			core.ErrDimensionMismatch, embedder.Dimension(), idx.Dimension())
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		index:         idx,
		extractor:     extractor,
		embedder:      embedder,
		pool:          pool,
		minTextLength: core.MinTextLength,
		clock:         time.Now,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	if p.skills == nil {
		if p.skills, err = skills.NewExtractor(skills.WithLogger(p.logger)); err != nil {
			p.Release()
			return nil, err
		}
	}

	// Processors are created after options so they get the final config.
	textProc, err := newTextProcessor(extractor, p.minTextLength, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	embeddingProc, err := newEmbeddingProcessor(embedder, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.processors = []processor{textProc, embeddingProc, &skillsProcessor{extractor: p.skills}}

	return p, nil
}

// Ingest runs a batch over dir and returns the number of documents added.
func (p *Pipeline) Ingest(ctx context.Context, dir string) (int, error) {
	report, err := p.Run(ctx, dir)
	if report == nil {
		return 0, err
	}
	return report.Added, err
}

// Run ingests every supported file directly inside dir and reports the
// outcome of each. A missing directory is logged and yields an empty report.
// Nothing is appended when ctx is cancelled before the commit phase.
func (p *Pipeline) Run(ctx context.Context, dir string) (*core.IngestReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := time.Now()
	defer func() {
		metrics.IngestBatchDuration.Observe(time.Since(start).Seconds())
	}()

	report := &core.IngestReport{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("resume directory does not exist", "dir", dir)
			report.Total = p.index.Len()
			return report, nil
		}
		return nil, fmt.Errorf("failed to read resume directory: %w", err)
	}

	docs := p.classify(dir, entries, report)
	if len(docs) > 0 {
		p.logger.Info("preparing documents", "documents", len(docs))
		p.prepare(ctx, docs)
	}
	if err := ctx.Err(); err != nil {
		report.Total = p.index.Len()
		return report, err
	}

	for _, doc := range docs {
		p.commit(doc, report)
	}

	report.Total = p.index.Len()
	metrics.IndexDocuments.Set(float64(report.Total))

	p.logger.Info("ingestion complete",
		"added", report.Added,
		"skipped_existing", report.SkippedExisting,
		"skipped_duplicates", report.SkippedDuplicates,
		"unsupported", report.Unsupported,
		"failed", report.Failed,
		"total", report.Total)

	return report, nil
}

// classify walks entries in filename order and returns the documents that
// need preparing. Skips and fingerprint failures are recorded in report.
func (p *Pipeline) classify(dir string, entries []os.DirEntry, report *core.IngestReport) []*document {
	support, canFilter := p.extractor.(supporter)
	seen := make(map[string]struct{})
	var docs []*document

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		if canFilter && !support.Supports(path) {
			p.logger.Debug("skipping unsupported file", "file", name)
			report.Unsupported++
			metrics.IngestDocumentsTotal.WithLabelValues(metrics.OutcomeUnsupported).Inc()
			continue
		}

		if p.index.HasIdentifier(name) {
			p.logger.Debug("skipping already indexed file", "file", name)
			p.skipExisting(report)
			continue
		}

		hash, err := fingerprint.File(path)
		if err != nil {
			p.fail(report, name, err)
			continue
		}
		if _, dup := seen[hash]; dup || p.index.HasContentHash(hash) {
			p.logger.Info("skipping duplicate content", "file", name)
			p.skipDuplicate(report)
			continue
		}
		seen[hash] = struct{}{}

		docs = append(docs, &document{path: path, identifier: name, contentHash: hash})
	}
	return docs
}

// prepare runs the processors for every document on the worker pool and
// waits for all of them.
func (p *Pipeline) prepare(ctx context.Context, docs []*document) {
	var wg sync.WaitGroup
	for _, doc := range docs {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for _, proc := range p.processors {
				if err := ctx.Err(); err != nil {
					doc.err = err
					return
				}
				if err := proc.process(ctx, doc); err != nil {
					doc.err = err
					return
				}
			}
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			doc.err = fmt.Errorf("failed to schedule document: %w", err)
		}
	}
	wg.Wait()
}

// commit appends a prepared document to the index.
func (p *Pipeline) commit(doc *document, report *core.IngestReport) {
	if doc.err != nil {
		p.fail(report, doc.identifier, doc.err)
		return
	}

	record := &core.DocumentRecord{
		Identifier:  doc.identifier,
		Text:        doc.text,
		ContentHash: doc.contentHash,
		Skills:      doc.skills,
		IngestedAt:  p.clock().UTC(),
	}

	pos, err := p.index.Append(doc.vector, record)
	switch {
	case errors.Is(err, core.ErrDuplicateIdentifier):
		p.skipExisting(report)
	case errors.Is(err, core.ErrDuplicateContent):
		p.logger.Info("skipping duplicate content", "file", doc.identifier)
		p.skipDuplicate(report)
	case err != nil:
		p.fail(report, doc.identifier, err)
	default:
		p.logger.Info("ingested resume", "file", doc.identifier, "position", pos,
			"technical_skills", len(doc.skills.TechnicalSkills))
		report.Added++
		metrics.IngestDocumentsTotal.WithLabelValues(metrics.OutcomeAdded).Inc()
	}
}

func (p *Pipeline) skipExisting(report *core.IngestReport) {
	report.SkippedExisting++
	metrics.IngestDocumentsTotal.WithLabelValues(metrics.OutcomeSkippedExisting).Inc()
}

func (p *Pipeline) skipDuplicate(report *core.IngestReport) {
	report.SkippedDuplicates++
	metrics.IngestDocumentsTotal.WithLabelValues(metrics.OutcomeSkippedDuplicate).Inc()
}

func (p *Pipeline) fail(report *core.IngestReport, file string, err error) {
	p.logger.Warn("failed to ingest document", "file", file, "err", err)
	report.Failed++
	report.Errors = append(report.Errors, core.FileError{File: file, Err: err})
	metrics.IngestDocumentsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
