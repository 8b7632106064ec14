package ranking

import (
	"log/slog"

	"github.com/poiesic/resumatch/core"
)

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps and results.
type RankMonitor interface {
	Start(jobText string)
	AfterQueryProfile(profile core.QueryProfile)
	AfterCandidateSearch(neighbors []core.Neighbor)
	Scored(result core.MatchResult)
	Finish(results []core.MatchResult)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterQueryProfile(_ core.QueryProfile)  {}
func (n *noopMonitor) AfterCandidateSearch(_ []core.Neighbor) {}
func (n *noopMonitor) Scored(_ core.MatchResult)              {}
func (n *noopMonitor) Finish(_ []core.MatchResult)            {}

// LogMonitor writes every ranking stage at debug level.
type LogMonitor struct {
	logger *slog.Logger
}

var _ RankMonitor = (*LogMonitor)(nil)

// NewLogMonitor creates a LogMonitor. A nil logger uses slog.Default().
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMonitor{logger: logger.With("component", "rank-monitor")}
}

func (m *LogMonitor) Start(jobText string) {
	m.logger.Debug("ranking started", "job_chars", len(jobText))
}

func (m *LogMonitor) AfterQueryProfile(profile core.QueryProfile) {
	m.logger.Debug("query profile computed",
		"technical_skills", profile.Skills.TechnicalSkills,
		"certifications", profile.Skills.Certifications,
		"years", profile.Skills.YearsExperience)
}

func (m *LogMonitor) AfterCandidateSearch(neighbors []core.Neighbor) {
	m.logger.Debug("candidate search complete", "candidates", len(neighbors))
}

func (m *LogMonitor) Scored(result core.MatchResult) {
	m.logger.Debug("candidate scored",
		"file", result.DocumentIdentifier,
		"semantic", result.SemanticScore,
		"skills", result.SkillsScore,
		"hybrid", result.HybridScore)
}

func (m *LogMonitor) Finish(results []core.MatchResult) {
	m.logger.Debug("ranking finished", "results", len(results))
}
