package ai

import "errors"

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("ai config")

	// ErrUnknownProvider is returned for a provider name with no implementation.
	ErrUnknownProvider = errors.New("unknown embedding provider")
)
