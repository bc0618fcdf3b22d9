package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrLoaderRequired is returned when no report loader is provided.
	ErrLoaderRequired = errors.New("report loader required")

	// ErrCacheRequired is returned when no embedding cache is provided.
	ErrCacheRequired = errors.New("embedding cache required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrEmbeddingMismatch is returned when the embedder returns a different
	// number of vectors than texts it was given, or an empty vector.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
