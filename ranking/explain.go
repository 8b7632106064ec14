package ranking

import (
	"context"
	"fmt"
	"strings"

	"github.com/poiesic/resumatch/core"
	"github.com/poiesic/resumatch/skills"
)

const (
	highFitScore   = 70
	mediumFitScore = 40
	explainTop     = 5
)

// Explain compares the job description with the cached skill profile of
// one indexed resume. Unknown identifiers fail with core.ErrDocumentNotFound.
func (r *Ranker) Explain(ctx context.Context, identifier, jobText string) (*core.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	job := strings.TrimSpace(jobText)
	if err := core.ValidateText(job); err != nil {
		return nil, fmt.Errorf("%w: no job description provided", core.ErrInvalidInput)
	}

	record, ok := r.index.Lookup(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrDocumentNotFound, identifier)
	}

	comparison := skills.Compare(r.skills.Extract(job), record.Skills)
	reasoning := fmt.Sprintf("Matched %d/%d required skills (%.1f%%)",
		comparison.TotalMatched, comparison.TotalRequired, comparison.Score)

	analysis := &core.Analysis{
		Strengths:  prefixed("Has ", comparison.MatchedSkills),
		Weaknesses: prefixed("Missing ", comparison.MissingSkills),
		OverallFit: fitLevel(comparison.Score),
		Reasoning:  reasoning,
		MatchScore: comparison.Score,
	}

	r.logger.Debug("explained match", "file", identifier, "fit", analysis.OverallFit, "score", analysis.MatchScore)
	return analysis, nil
}

func fitLevel(score float64) string {
	switch {
	case score >= highFitScore:
		return core.FitHigh
	case score >= mediumFitScore:
		return core.FitMedium
	default:
		return core.FitLow
	}
}

// prefixed renders the first explainTop items with prefix.
func prefixed(prefix string, items []string) []string {
	items = items[:min(len(items), explainTop)]
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = prefix + item
	}
	return out
}
