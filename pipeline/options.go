package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/petmatch/matching"
	"github.com/poiesic/petmatch/storage"
)

// Defaults applied by NewPipeline.
const (
	DefaultThreshold        = 0.6
	DefaultTopK             = 5
	DefaultEmbeddingTimeout = 10 * time.Second
)

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithThreshold sets the minimum similarity score a candidate needs, in [0, 1].
func WithThreshold(threshold float64) Option {
	return func(p *Pipeline) error {
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("%w: threshold %v outside [0, 1]", ErrInvalidOption, threshold)
		}
		p.threshold = threshold
		return nil
	}
}

// WithTopK caps the number of candidates returned. Zero means no cap.
func WithTopK(topK int) Option {
	return func(p *Pipeline) error {
		if topK < 0 {
			return fmt.Errorf("%w: topK %d is negative", ErrInvalidOption, topK)
		}
		p.topK = topK
		return nil
	}
}

// WithPoolSize sets the number of candidates scored concurrently.
// Default is runtime.NumCPU().
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		p.rankerOpts = append(p.rankerOpts, matching.WithPoolSize(size))
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithEmbeddings enables or disables vector scoring. When disabled, or when
// the embedding service cannot embed the query, the heuristic scorer is used.
// Default is enabled.
func WithEmbeddings(enabled bool) Option {
	return func(p *Pipeline) error {
		p.useEmbeddings = enabled
		return nil
	}
}

// WithEmbeddingTimeout bounds each embedding call. Zero disables the bound.
func WithEmbeddingTimeout(d time.Duration) Option {
	return func(p *Pipeline) error {
		if d < 0 {
			return fmt.Errorf("%w: embedding timeout %v is negative", ErrInvalidOption, d)
		}
		p.embeddingTimeout = d
		return nil
	}
}

// WithEmbeddingCache sets a persistent cache for candidate embeddings.
func WithEmbeddingCache(cache storage.EmbeddingCache) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		return nil
	}
}

// WithMonitor sets hooks that observe each ranking.
func WithMonitor(monitor matching.RankMonitor) Option {
	return func(p *Pipeline) error {
		p.monitor = monitor
		return nil
	}
}

// WithClock overrides the wall clock used for timestamps and report age.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) error {
		if now == nil {
			now = time.Now
		}
		p.now = now
		return nil
	}
}

// WithViewURLBase sets the base URL used to build candidate view links.
func WithViewURLBase(base string) Option {
	return func(p *Pipeline) error {
		p.rankerOpts = append(p.rankerOpts, matching.WithViewURLBase(base))
		return nil
	}
}
