package ingestion

import "errors"

var (
	// ErrIndexRequired is returned when an index is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrTextExtractorRequired is returned when a text extractor is not provided.
	ErrTextExtractorRequired = errors.New("text extractor required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrSkillExtractorRequired is returned when WithSkillExtractor is given nil.
	ErrSkillExtractorRequired = errors.New("skill extractor required")

	// ErrInvalidMinTextLength is returned for a minimum text length below one.
	ErrInvalidMinTextLength = errors.New("minimum text length must be positive")
)
