// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package resumatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/poiesic/resumatch/ai"
	aiprovider "github.com/poiesic/resumatch/ai/provider"
	"github.com/poiesic/resumatch/config"
	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/extract"
	"github.com/poiesic/resumatch/index"
	"github.com/poiesic/resumatch/ingestion"
	"github.com/poiesic/resumatch/metrics"
	"github.com/poiesic/resumatch/ranking"
	"github.com/poiesic/resumatch/reindex"
	"github.com/poiesic/resumatch/skills"
	"github.com/poiesic/resumatch/storage"
	"github.com/poiesic/resumatch/storage/badger"
	"github.com/poiesic/resumatch/storage/file"
)

// ErrUnknownBackend indicates a storage backend name other than "file" or "badger".
var ErrUnknownBackend = errors.New("unknown storage backend")

// Engine owns one resume index together with the pipeline that grows it
// and the ranker that queries it.
type Engine struct {
	store        storage.IndexStore
	provider     ai.AIProvider
	ownsProvider bool
	embedder     ai.Embedder
	index        *index.Index
	pipeline     *ingestion.Pipeline
	ranker       *ranking.Ranker
	logger       *slog.Logger

	// mu serializes operations that write the store.
	mu sync.Mutex
	// replace is set when the persisted snapshot could not be loaded; the
	// next save rewrites the store instead of appending to it.
	replace bool
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	aiConfig     *ai.Config
	provider     ai.AIProvider
	backend      string
	store        storage.IndexStore
	extractor    extract.TextExtractor
	extensions   []string
	logger       *slog.Logger
	pipelineOpts []ingestion.Option
	rankerOpts   []ranking.Option
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider uses an existing provider. The caller keeps ownership and
// must close it after the engine.
func WithProvider(p ai.AIProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithBackend selects the storage backend, "file" (default) or "badger".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithStore uses an already opened store. The engine closes it on Close.
func WithStore(store storage.IndexStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithTextExtractor replaces the built-in extraction registry.
func WithTextExtractor(e extract.TextExtractor) Option {
	return func(o *options) {
		o.extractor = e
	}
}

// WithExtensions limits the built-in registry to the given extensions.
// Ignored when WithTextExtractor is used.
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = exts
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPoolSize sets the number of files prepared concurrently.
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.pipelineOpts = append(o.pipelineOpts, ingestion.WithPoolSize(n))
	}
}

// WithMinTextLength sets the shortest extracted text that is ingested.
func WithMinTextLength(n int) Option {
	return func(o *options) {
		o.pipelineOpts = append(o.pipelineOpts, ingestion.WithMinTextLength(n))
	}
}

// WithAlpha sets the semantic weight of the hybrid score.
func WithAlpha(alpha float64) Option {
	return func(o *options) {
		o.rankerOpts = append(o.rankerOpts, ranking.WithAlpha(alpha))
	}
}

// WithCandidates sets the default number of nearest neighbors scored.
func WithCandidates(k int) Option {
	return func(o *options) {
		o.rankerOpts = append(o.rankerOpts, ranking.WithCandidates(k))
	}
}

// WithResults sets the default number of results returned.
func WithResults(k int) Option {
	return func(o *options) {
		o.rankerOpts = append(o.rankerOpts, ranking.WithResults(k))
	}
}

// WithMinJobLength sets the shortest job description accepted for ranking.
func WithMinJobLength(n int) Option {
	return func(o *options) {
		o.rankerOpts = append(o.rankerOpts, ranking.WithMinJobLength(n))
	}
}

// Open opens the index stored under indexDir and wires the components
// around it. A missing index starts empty; an unreadable one, or one
// embedded at another dimension, is logged and replaced on the next save.
func Open(indexDir string, opts ...Option) (*Engine, error) {
	o := &options{
		aiConfig: ai.DefaultConfig(),
		backend:  config.BackendFile,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	ctx := context.Background()

	e := &Engine{
		provider: o.provider,
		logger:   o.logger.With("component", "engine"),
	}
	providerName := "custom"
	if e.provider == nil {
		p, err := aiprovider.NewProvider(o.aiConfig)
		if err != nil {
			return nil, err
		}
		e.provider, e.ownsProvider = p, true
		providerName = o.aiConfig.Provider
	}
	e.embedder = metrics.InstrumentEmbedder(e.provider.Embedder(), providerName)

	e.store = o.store
	if e.store == nil {
		store, err := openStore(indexDir, o.backend, o.logger)
		if err != nil {
			e.closeProvider()
			return nil, err
		}
		e.store = store
	}

	if err := e.load(ctx); err != nil {
		e.Close()
		return nil, err
	}

	extractor, err := newExtractor(ctx, o)
	if err != nil {
		e.Close()
		return nil, err
	}

	attrs, err := skills.NewExtractor(skills.WithLogger(o.logger))
	if err != nil {
		e.Close()
		return nil, err
	}

	pipelineOpts := append([]ingestion.Option{
		ingestion.WithLogger(o.logger),
		ingestion.WithSkillExtractor(attrs),
	}, o.pipelineOpts...)
	if e.pipeline, err = ingestion.NewPipeline(e.index, extractor, e.embedder, pipelineOpts...); err != nil {
		e.Close()
		return nil, err
	}

	rankerOpts := append([]ranking.Option{
		ranking.WithLogger(o.logger),
		ranking.WithSkillExtractor(attrs),
	}, o.rankerOpts...)
	if e.ranker, err = ranking.NewRanker(e.index, e.embedder, rankerOpts...); err != nil {
		e.Close()
		return nil, err
	}

	return e, nil
}

func openStore(dir, backend string, logger *slog.Logger) (storage.IndexStore, error) {
	switch backend {
	case config.BackendFile, "":
		return file.NewStore(dir, file.WithLogger(logger))
	case config.BackendBadger:
		return badger.NewIndexStore(dir)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func newExtractor(ctx context.Context, o *options) (extract.TextExtractor, error) {
	if o.extractor != nil {
		return o.extractor, nil
	}
	reg, err := extract.NewRegistry(ctx)
	if err != nil {
		return nil, err
	}
	if len(o.extensions) == 0 {
		return reg, nil
	}
	return reg.Restrict(o.extensions...)
}

// load restores the persisted snapshot into a fresh index.
func (e *Engine) load(ctx context.Context) error {
	dim := e.embedder.Dimension()
	idx, err := index.New(dim)
	if err != nil {
		return err
	}
	e.index = idx
	defer func() { metrics.IndexDocuments.Set(float64(e.index.Len())) }()

	snap, err := e.store.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		e.logger.Info("no index found, starting empty", "dimension", dim)
		return nil
	}
	if err != nil {
		e.logger.Warn("failed to load index, starting empty", "err", err)
		e.replace = true
		return nil
	}
	if err := idx.Restore(snap); err != nil {
		e.logger.Warn("persisted index unusable, starting empty",
			"err", err, "documents", snap.Len(), "dimension", snap.Dimension)
		e.replace = true
		return nil
	}
	e.logger.Info("index loaded", "documents", idx.Len(), "dimension", dim)
	return nil
}

// Ingest runs one batch over dir and persists the index when it changed.
// The report is returned even when saving fails.
func (e *Engine) Ingest(ctx context.Context, dir string) (*core.IngestReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	report, err := e.pipeline.Run(ctx, dir)
	if err != nil {
		return report, err
	}
	if report.Added > 0 || e.replace {
		if err := e.save(ctx); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Save persists the current index.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save(ctx)
}

func (e *Engine) save(ctx context.Context) error {
	snap := e.index.Snapshot()
	var err error
	if e.replace {
		err = e.store.Replace(ctx, snap)
	} else {
		err = e.store.Save(ctx, snap)
	}
	if err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	e.replace = false
	e.logger.Debug("index saved", "documents", snap.Len())
	return nil
}

// Rank returns the best matching resumes for jobText with the default limits.
func (e *Engine) Rank(ctx context.Context, jobText string) ([]core.MatchResult, error) {
	return e.ranker.Rank(ctx, jobText)
}

// RankN is Rank with explicit candidate and result limits.
func (e *Engine) RankN(ctx context.Context, jobText string, kCandidates, kResults int) ([]core.MatchResult, error) {
	return e.ranker.RankN(ctx, jobText, kCandidates, kResults)
}

// Explain analyzes one indexed resume against jobText.
func (e *Engine) Explain(ctx context.Context, identifier, jobText string) (*core.Analysis, error) {
	return e.ranker.Explain(ctx, identifier, jobText)
}

// Stats describes the index.
func (e *Engine) Stats() core.Stats {
	n := e.index.Len()
	return core.Stats{
		TotalDocuments: n,
		Dimension:      e.index.Dimension(),
		IndexReady:     n > 0,
	}
}

// Index returns the in-memory index.
func (e *Engine) Index() *index.Index {
	return e.index
}

// Reindex re-embeds the persisted index with the engine's embedder and
// reloads the result. progress receives human readable progress lines.
func (e *Engine) Reindex(ctx context.Context, cfg *reindex.Config, progress io.Writer) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cfg == nil {
		cfg = reindex.DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = e.logger
	}
	r, err := reindex.NewReindexer(e.store, e.embedder, cfg, progress)
	if err != nil {
		return 0, err
	}
	n, err := r.Run(ctx)
	if err != nil || n == 0 {
		return n, err
	}

	snap, err := e.store.Load(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to reload index: %w", err)
	}
	if err := e.index.Restore(snap); err != nil {
		return n, fmt.Errorf("failed to reload index: %w", err)
	}
	e.replace = false
	metrics.IndexDocuments.Set(float64(e.index.Len()))
	return n, nil
}

// Close releases the pipeline, the store and, when the engine created it,
// the AI provider.
func (e *Engine) Close() error {
	if e.pipeline != nil {
		e.pipeline.Release()
	}
	e.closeProvider()
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing index store", "err", err)
		return err
	}
	return nil
}

func (e *Engine) closeProvider() {
	if !e.ownsProvider {
		return
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
}
