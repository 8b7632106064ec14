package core

import (
	"slices"
	"strings"
	"time"
)

// YearsUnknown is the years-of-experience value used when no phrase matched.
const YearsUnknown = "N/A"

// SkillProfile is the structured attribute extraction of a document.
// The slices are sorted and deduplicated and are treated as sets.
type SkillProfile struct {
	TechnicalSkills []string
	SoftSkills      []string
	Certifications  []string
	YearsExperience string
}

// EmptySkillProfile returns the profile of text that yielded no attributes.
func EmptySkillProfile() SkillProfile {
	return SkillProfile{YearsExperience: YearsUnknown}
}

// IsEmpty reports whether no skills, soft skills or certifications were found.
func (p SkillProfile) IsEmpty() bool {
	return len(p.TechnicalSkills) == 0 && len(p.SoftSkills) == 0 && len(p.Certifications) == 0
}

// Requirements returns the normalized union of technical skills and
// certifications. These are the items compared between a job and a resume.
func (p SkillProfile) Requirements() map[string]struct{} {
	set := make(map[string]struct{}, len(p.TechnicalSkills)+len(p.Certifications))
	for _, group := range [][]string{p.TechnicalSkills, p.Certifications} {
		for _, item := range group {
			item = strings.ToLower(strings.TrimSpace(item))
			if item == "" {
				continue
			}
			set[item] = struct{}{}
		}
	}
	return set
}

// DocumentRecord is one ingested resume. It is immutable once appended to
// the index; Position is its slot in the vector index.
type DocumentRecord struct {
	Identifier  string       // Source filename, unique across the index
	Text        string       // Full extracted text
	ContentHash string       // Fingerprint of the raw file bytes, unique across the index
	Skills      SkillProfile // Computed once at ingestion time
	Position    int          // Slot in the vector index
	IngestedAt  time.Time    // When the record was appended
}

// Entry pairs a record with its embedding. The index is an ordered list of entries.
type Entry struct {
	Record *DocumentRecord
	Vector []float32
}

// Snapshot is the persisted form of the index.
type Snapshot struct {
	Dimension int
	Entries   []Entry
}

// Len returns the number of entries in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Entries)
}

// Neighbor is a single nearest-neighbor hit. Distance is squared L2.
type Neighbor struct {
	Position int
	Distance float64
}

// QueryProfile is computed fresh for every ranking request and never stored.
type QueryProfile struct {
	Vector []float32
	Skills SkillProfile
}

// SkillComparison is the outcome of comparing a job profile with a resume profile.
type SkillComparison struct {
	Score         float64 // 0-100, rounded to two decimals
	MatchedSkills []string
	MissingSkills []string
	TotalMatched  int
	TotalRequired int
}

// MatchResult is one ranked candidate for a job description.
type MatchResult struct {
	Rank               int
	DocumentIdentifier string
	Position           int
	Distance           float64
	SemanticScore      float64
	SkillsScore        float64
	HybridScore        float64
	MatchedSkills      []string
	MissingSkills      []string
	TotalMatched       int
	TotalRequired      int
	Preview            string
}

// Analysis is the on-demand explanation of a single resume against a job.
type Analysis struct {
	Strengths  []string
	Weaknesses []string
	OverallFit string
	Reasoning  string
	MatchScore float64
}

// Overall fit levels.
const (
	FitHigh   = "High"
	FitMedium = "Medium"
	FitLow    = "Low"
)

// FileError records why a single file could not be ingested.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error {
	return e.Err
}

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	Added             int
	SkippedExisting   int
	SkippedDuplicates int
	Unsupported       int
	Failed            int
	Total             int // Index size after the batch
	Errors            []FileError
}

// Stats describes the current state of the index.
type Stats struct {
	TotalDocuments int
	Dimension      int
	IndexReady     bool
}

// SortedSet returns the keys of set in ascending order.
func SortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
