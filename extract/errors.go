package extract

import "errors"

var (
	// ErrInvalidExtension indicates an extension that is empty or lacks the leading dot.
	ErrInvalidExtension = errors.New("invalid extension")

	// ErrExtractorRequired indicates a nil extractor passed to Register.
	ErrExtractorRequired = errors.New("extractor is required")
)
