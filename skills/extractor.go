package skills

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/resumatch/core"
)

// Extractor matches text against fixed vocabularies and patterns.
// An Extractor is immutable after construction and safe for concurrent use.
type Extractor struct {
	technical      []string
	soft           []string
	certifications []*regexp.Regexp
	years          []*regexp.Regexp
	minLength      int
	logger         *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor) error

// WithTechnicalSkills replaces the technical vocabulary.
func WithTechnicalSkills(vocabulary []string) Option {
	return func(e *Extractor) error {
		e.technical = normalizeVocabulary(vocabulary)
		return nil
	}
}

// WithSoftSkills replaces the soft-skill vocabulary.
func WithSoftSkills(vocabulary []string) Option {
	return func(e *Extractor) error {
		e.soft = normalizeVocabulary(vocabulary)
		return nil
	}
}

// WithCertificationPatterns replaces the certification patterns.
// Patterns are regular expressions and are wrapped in word boundaries.
func WithCertificationPatterns(patterns []string) Option {
	return func(e *Extractor) error {
		compiled, err := compileBounded(patterns)
		if err != nil {
			return err
		}
		e.certifications = compiled
		return nil
	}
}

// WithMinTextLength sets the shortest normalized text that is inspected.
// Default is core.MinTextLength.
func WithMinTextLength(n int) Option {
	return func(e *Extractor) error {
		if n < 0 {
			return ErrInvalidMinLength
		}
		e.minLength = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewExtractor creates an extractor over the built-in vocabularies unless
// options replace them.
func NewExtractor(opts ...Option) (*Extractor, error) {
	certs, err := compileBounded(certificationPatterns)
	if err != nil {
		return nil, err
	}
	years := make([]*regexp.Regexp, 0, len(yearsPatterns))
	for _, p := range yearsPatterns {
		years = append(years, regexp.MustCompile(p))
	}

	e := &Extractor{
		technical:      TechnicalSkills(),
		soft:           SoftSkills(),
		certifications: certs,
		years:          years,
		minLength:      core.MinTextLength,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

var defaultExtractor = mustDefault()

func mustDefault() *Extractor {
	e, err := NewExtractor()
	if err != nil {
		panic(err)
	}
	return e
}

// Extract computes a profile with the built-in vocabularies.
func Extract(text string) core.SkillProfile {
	return defaultExtractor.Extract(text)
}

// Extract computes the skill profile of text. Text that is empty or shorter
// than the minimum length after whitespace normalization yields the empty
// profile. Extract never fails.
func (e *Extractor) Extract(text string) core.SkillProfile {
	normalized := normalize(text)
	if normalized == "" || utf8.RuneCountInString(normalized) < e.minLength {
		return core.EmptySkillProfile()
	}

	profile := core.SkillProfile{
		TechnicalSkills: matchVocabulary(normalized, e.technical),
		SoftSkills:      matchVocabulary(normalized, e.soft),
		Certifications:  e.matchCertifications(normalized),
		YearsExperience: e.matchYears(normalized),
	}

	e.logger.Debug("extracted skills",
		"technical", len(profile.TechnicalSkills),
		"soft", len(profile.SoftSkills),
		"certifications", len(profile.Certifications),
		"years", profile.YearsExperience)

	return profile
}

func (e *Extractor) matchCertifications(text string) []string {
	found := make(map[string]struct{})
	for _, re := range e.certifications {
		for _, m := range re.FindAllString(text, -1) {
			found[m] = struct{}{}
		}
	}
	return core.SortedSet(found)
}

func (e *Extractor) matchYears(text string) string {
	for _, re := range e.years {
		if m := re.FindStringSubmatch(text); len(m) > 1 {
			return m[1] + "+ years"
		}
	}
	return core.YearsUnknown
}

// normalize lowercases text and collapses whitespace runs to single spaces.
func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func normalizeVocabulary(vocabulary []string) []string {
	seen := make(map[string]struct{}, len(vocabulary))
	out := make([]string, 0, len(vocabulary))
	for _, v := range vocabulary {
		v = normalize(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func compileBounded(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`\b(?:` + p + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

func matchVocabulary(text string, vocabulary []string) []string {
	found := make(map[string]struct{})
	for _, term := range vocabulary {
		if containsWord(text, term) {
			found[term] = struct{}{}
		}
	}
	return core.SortedSet(found)
}

// containsWord reports whether phrase occurs in text with a non-word rune
// (or the edge of the text) on both sides.
func containsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for offset := 0; offset <= len(text)-len(phrase); {
		i := strings.Index(text[offset:], phrase)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
