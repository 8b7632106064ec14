package index

import "errors"

var (
	// ErrInvalidK is returned when a search asks for fewer than one neighbor.
	ErrInvalidK = errors.New("k must be at least 1")

	// ErrInvalidDimension is returned when creating an index with a non-positive dimension.
	ErrInvalidDimension = errors.New("index dimension must be positive")
)
