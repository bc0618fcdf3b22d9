package similarity

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage"
)

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// Zero vectors have similarity 0.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, ErrEmptyVector
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return max(-1, min(1, cos)), nil
}

// NormalizeVector normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var magnitude float64
	for _, val := range v {
		magnitude += float64(val) * float64(val)
	}
	magnitude = math.Sqrt(magnitude)

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = float32(float64(val) / magnitude)
	}
	return result
}

// Vector scores profiles by cosine similarity of their canonical-text
// embeddings, remapped from [-1, 1] to [0, 1].
//
// Embeddings are looked up in an in-process memo, then in the optional
// persistent cache, then fetched from the embedder under a per-call timeout.
// A Vector holds per-request state; create one per matching request.
type Vector struct {
	embedder ai.Embedder
	cache    storage.EmbeddingCache
	timeout  time.Duration
	logger   *slog.Logger

	memo sync.Map // core.ID -> []float32
}

var _ Scorer = (*Vector)(nil)

// VectorOption configures a Vector scorer.
type VectorOption func(*Vector)

// WithCache sets a persistent embedding cache.
func WithCache(cache storage.EmbeddingCache) VectorOption {
	return func(v *Vector) {
		v.cache = cache
	}
}

// WithTimeout bounds each embedder call. Zero means no bound beyond ctx.
func WithTimeout(d time.Duration) VectorOption {
	return func(v *Vector) {
		v.timeout = d
	}
}

// WithLogger sets the scorer logger.
func WithLogger(logger *slog.Logger) VectorOption {
	return func(v *Vector) {
		v.logger = logger
	}
}

// NewVector creates a vector scorer over embedder.
func NewVector(embedder ai.Embedder, opts ...VectorOption) *Vector {
	v := &Vector{
		embedder: embedder,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With("component", "vector-scorer")
	return v
}

// Name implements Scorer.
func (v *Vector) Name() string { return "vector" }

// Score implements Scorer.
func (v *Vector) Score(ctx context.Context, query, candidate *core.PetProfile) (float64, error) {
	qv, err := v.Embed(ctx, query)
	if err != nil {
		return 0, err
	}
	cv, err := v.Embed(ctx, candidate)
	if err != nil {
		return 0, err
	}
	cos, err := CosineSimilarity(qv, cv)
	if err != nil {
		return 0, err
	}
	return core.ClampScore((cos + 1) / 2), nil
}

// Embed returns the embedding of a profile's canonical text.
// Embedder failures are reported wrapping ai.ErrServiceUnavailable.
func (v *Vector) Embed(ctx context.Context, p *core.PetProfile) ([]float32, error) {
	text := core.CanonicalText(p)
	key := core.IDFromContent(text)

	if vec, ok := v.memo.Load(key); ok {
		return vec.([]float32), nil
	}

	if v.cache != nil {
		vec, ok, err := v.cache.GetEmbedding(ctx, key)
		if err != nil {
			v.logger.Warn("embedding cache read failed", "key", key, "error", err)
		} else if ok {
			v.memo.Store(key, vec)
			return vec, nil
		}
	}

	callCtx := ctx
	if v.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}
	vec, err := v.embedder.EmbedText(callCtx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrServiceUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: %w", ai.ErrServiceUnavailable, ErrEmptyVector)
	}

	v.memo.Store(key, vec)
	if v.cache != nil {
		if err := v.cache.PutEmbedding(ctx, key, vec); err != nil {
			v.logger.Warn("embedding cache write failed", "key", key, "error", err)
		}
	}
	return vec, nil
}
