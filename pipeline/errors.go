package pipeline

import "errors"

var (
	// ErrSourceRequired is returned when a candidate source is not provided.
	ErrSourceRequired = errors.New("candidate source required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidOption is returned when an option value is out of range.
	ErrInvalidOption = errors.New("invalid pipeline option")

	// ErrMatchFailed wraps any failure that aborts a request.
	// The original cause is attached and can be tested with errors.Is.
	ErrMatchFailed = errors.New("match failed")
)
