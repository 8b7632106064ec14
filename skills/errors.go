package skills

import "errors"

var (
	// ErrInvalidPattern is returned when a certification pattern does not compile.
	ErrInvalidPattern = errors.New("invalid certification pattern")

	// ErrInvalidMinLength is returned for a negative minimum text length.
	ErrInvalidMinLength = errors.New("minimum text length must not be negative")
)
