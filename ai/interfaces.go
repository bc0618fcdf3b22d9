package ai

import (
	"context"

	"github.com/poiesic/petmatch/core"
)

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Every vector from one Embedder has the same dimensionality.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AttributeExtractor derives structured pet attributes from raw submissions.
// Image analysis and text analysis are independent; the caller merges them.
// Implementations must be thread-safe for concurrent use.
type AttributeExtractor interface {
	// ExtractFromText reads a free-text description. The location gives the
	// model context and is not itself extracted.
	ExtractFromText(ctx context.Context, description string, loc core.Location) (core.PartialAttributes, error)

	// ExtractFromImages analyzes images given as URLs, data URLs or local file paths.
	// An empty image list yields empty attributes without calling the model.
	ExtractFromImages(ctx context.Context, images []string) (core.PartialAttributes, error)
}

// Explainer phrases match results for people.
// Implementations must be thread-safe for concurrent use.
type Explainer interface {
	// Explain returns a short natural-language summary of result.
	Explain(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) (string, error)

	// Recommend returns next steps for the reporter, at most MaxRecommendations items.
	Recommend(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) ([]string, error)
}

// MaxRecommendations caps the number of recommended actions.
const MaxRecommendations = 6

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// AttributeExtractor returns the attribute extraction service.
	AttributeExtractor() AttributeExtractor

	// Explainer returns the explanation service.
	Explainer() Explainer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
