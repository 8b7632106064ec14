package ranking

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/poiesic/resumatch/ai"
	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/index"
	"github.com/poiesic/resumatch/metrics"
	"github.com/poiesic/resumatch/skills"
)

// Defaults for ranking requests.
const (
	DefaultAlpha         = 0.6
	DefaultCandidates    = 10
	DefaultResults       = 5
	DefaultPreviewLength = 1000
)

// Ranker provides hybrid semantic and skill-overlap ranking over an index.
type Ranker struct {
	index        *index.Index
	embedder     ai.Embedder
	skills       *skills.Extractor
	alpha        float64
	candidates   int
	results      int
	minJobLength int
	logger       *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithAlpha sets the weight of the semantic score in the hybrid score.
// The skills score gets 1 - alpha. Default is 0.6.
func WithAlpha(alpha float64) Option {
	return func(r *Ranker) error {
		if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
			return fmt.Errorf("%w: %v", ErrInvalidAlpha, alpha)
		}
		r.alpha = alpha
		return nil
	}
}

// WithCandidates sets how many nearest neighbors are re-ranked. Default is 10.
func WithCandidates(k int) Option {
	return func(r *Ranker) error {
		if k < 1 {
			return fmt.Errorf("%w: candidates %d", ErrInvalidLimit, k)
		}
		r.candidates = k
		return nil
	}
}

// WithResults sets how many ranked results are returned. Default is 5.
func WithResults(k int) Option {
	return func(r *Ranker) error {
		if k < 1 {
			return fmt.Errorf("%w: results %d", ErrInvalidLimit, k)
		}
		r.results = k
		return nil
	}
}

// WithMinJobLength sets the shortest accepted job description in
// characters after trimming. Default is core.MinTextLength.
func WithMinJobLength(n int) Option {
	return func(r *Ranker) error {
		if n < 1 {
			return fmt.Errorf("%w: minimum job length %d", ErrInvalidLimit, n)
		}
		r.minJobLength = n
		return nil
	}
}

// WithSkillExtractor replaces the extractor used for job descriptions.
// It should match the one used at ingestion time.
func WithSkillExtractor(e *skills.Extractor) Option {
	return func(r *Ranker) error {
		if e != nil {
			r.skills = e
		}
		return nil
	}
}

// NewRanker creates a new ranker over idx.
func NewRanker(idx *index.Index, embedder ai.Embedder, opts ...Option) (*Ranker, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Ranker{
		index:        idx,
		embedder:     embedder,
		alpha:        DefaultAlpha,
		candidates:   DefaultCandidates,
		results:      DefaultResults,
		minJobLength: core.MinTextLength,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "ranking")

	if r.skills == nil {
		e, err := skills.NewExtractor(skills.WithLogger(r.logger))
		if err != nil {
			return nil, err
		}
		r.skills = e
	}

	return r, nil
}

// Rank returns the best matching resumes for jobText using the configured
// candidate and result counts.
func (r *Ranker) Rank(ctx context.Context, jobText string) ([]core.MatchResult, error) {
	return r.RankWithMonitor(ctx, jobText, r.candidates, r.results, nil)
}

// RankN ranks with explicit candidate and result counts.
func (r *Ranker) RankN(ctx context.Context, jobText string, kCandidates, kResults int) ([]core.MatchResult, error) {
	return r.RankWithMonitor(ctx, jobText, kCandidates, kResults, nil)
}

// RankWithMonitor ranks resumes against jobText. The monitor receives
// callbacks at each stage of the ranking process.
//
// An empty index fails with core.ErrNoCandidates before any embedding or
// search is attempted. Results are unique by identifier, sorted by hybrid
// score descending with ties kept in distance order, and number at most
// kResults.
func (r *Ranker) RankWithMonitor(ctx context.Context, jobText string, kCandidates, kResults int, monitor RankMonitor) (results []core.MatchResult, err error) {
	start := time.Now()
	defer func() {
		metrics.RankDuration.Observe(time.Since(start).Seconds())
		metrics.RankRequestsTotal.WithLabelValues(metrics.Status(err)).Inc()
	}()

	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if kCandidates < 1 || kResults < 1 {
		return nil, fmt.Errorf("%w: candidates %d, results %d", ErrInvalidLimit, kCandidates, kResults)
	}

	if r.index.Len() == 0 {
		return nil, core.ErrNoCandidates
	}

	job := strings.TrimSpace(jobText)
	if utf8.RuneCountInString(job) < r.minJobLength {
		return nil, fmt.Errorf("%w: job description must be at least %d characters", core.ErrInvalidInput, r.minJobLength)
	}

	monitor.Start(job)

	// 1. Query profile
	vector, err := r.embedder.EmbedText(ctx, job)
	if err != nil {
		r.logger.Error("error generating embedding for job description", "err", err)
		return nil, err
	}
	profile := core.QueryProfile{Vector: vector, Skills: r.skills.Extract(job)}
	monitor.AfterQueryProfile(profile)

	// 2. Candidate retrieval
	neighbors, err := r.index.Search(profile.Vector, kCandidates)
	if err != nil {
		r.logger.Error("error searching index", "err", err)
		return nil, err
	}
	monitor.AfterCandidateSearch(neighbors)

	// 3. Hybrid scoring
	seen := make(map[string]struct{}, len(neighbors))
	candidates := make([]core.MatchResult, 0, len(neighbors))
	for _, n := range neighbors {
		record, ok := r.index.Record(n.Position)
		if !ok {
			continue
		}
		if _, dup := seen[record.Identifier]; dup {
			continue
		}
		seen[record.Identifier] = struct{}{}

		result := r.score(n, record, profile.Skills)
		monitor.Scored(result)
		candidates = append(candidates, result)
	}

	// 4. Re-rank and truncate
	slices.SortStableFunc(candidates, func(a, b core.MatchResult) int {
		return cmp.Compare(b.HybridScore, a.HybridScore)
	})
	if len(candidates) > kResults {
		candidates = candidates[:kResults]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}

	monitor.Finish(candidates)
	r.logger.Info("ranked resumes", "candidates", len(neighbors), "results", len(candidates))

	return candidates, nil
}

func (r *Ranker) score(n core.Neighbor, record *core.DocumentRecord, job core.SkillProfile) core.MatchResult {
	semantic := 100 * math.Exp(-n.Distance)
	comparison := skills.Compare(job, record.Skills)
	hybrid := r.alpha*semantic + (1-r.alpha)*comparison.Score

	return core.MatchResult{
		DocumentIdentifier: record.Identifier,
		Position:           n.Position,
		Distance:           n.Distance,
		SemanticScore:      skills.Round2(semantic),
		SkillsScore:        comparison.Score,
		HybridScore:        skills.Round2(hybrid),
		MatchedSkills:      comparison.MatchedSkills,
		MissingSkills:      comparison.MissingSkills,
		TotalMatched:       comparison.TotalMatched,
		TotalRequired:      comparison.TotalRequired,
		Preview:            Preview(record.Text, DefaultPreviewLength),
	}
}

// Preview returns at most n characters of text.
func Preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n])
}
