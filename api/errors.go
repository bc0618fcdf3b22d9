package api

import "errors"

var (
	// ErrProcessorRequired is returned when no report processor is provided.
	ErrProcessorRequired = errors.New("report processor required")

	// ErrStoreRequired is returned when no report store is provided.
	ErrStoreRequired = errors.New("report store required")

	// ErrBadRequest marks request bodies or parameters that cannot be used.
	ErrBadRequest = errors.New("bad request")
)
