package reembed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/similarity"
	"github.com/poiesic/petmatch/storage"
)

// BatchStats counts what happened to the reports of one or more batches.
type BatchStats struct {
	// Embedded is the number of distinct profiles sent to the embedder
	Embedded int

	// Cached is the number of reports whose profile was already in the cache
	Cached int

	// Duplicates is the number of reports sharing canonical text with an
	// earlier report in the same batch
	Duplicates int
}

// Add accumulates o into s.
func (s *BatchStats) Add(o BatchStats) {
	s.Embedded += o.Embedded
	s.Cached += o.Cached
	s.Duplicates += o.Duplicates
}

// BatchProcessor embeds the profiles of a batch of reports and writes the
// normalized vectors to the embedding cache.
type BatchProcessor struct {
	cache    storage.EmbeddingCache
	embedder ai.Embedder
	backoff  Backoff
	force    bool
	logger   *slog.Logger
}

// NewBatchProcessor creates a new batch processor.
// When force is false, profiles already present in the cache are skipped.
func NewBatchProcessor(cache storage.EmbeddingCache, embedder ai.Embedder, backoff Backoff, force bool) *BatchProcessor {
	logger := backoff.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchProcessor{
		cache:    cache,
		embedder: embedder,
		backoff:  backoff,
		force:    force,
		logger:   logger,
	}
}

// Process embeds one batch. Vectors are normalized before they are stored.
func (bp *BatchProcessor) Process(ctx context.Context, reports []*core.Report) (BatchStats, error) {
	var stats BatchStats
	if len(reports) == 0 {
		return stats, nil
	}

	seen := make(map[core.ID]struct{}, len(reports))
	keys := make([]core.ID, 0, len(reports))
	texts := make([]string, 0, len(reports))
	for _, report := range reports {
		text := core.CanonicalText(&report.Profile)
		key := core.IDFromContent(text)
		if _, dup := seen[key]; dup {
			stats.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		if !bp.force {
			_, ok, err := bp.cache.GetEmbedding(ctx, key)
			if err != nil {
				return stats, fmt.Errorf("failed to read cache for report %s: %w", report.ReportID, err)
			}
			if ok {
				stats.Cached++
				continue
			}
		}
		keys = append(keys, key)
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return stats, nil
	}

	var embeddings [][]float32
	err := bp.backoff.Do(ctx, func(ctx context.Context) error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	})
	if err != nil {
		return stats, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.backoff.MaxAttempts, err)
	}
	if len(embeddings) != len(texts) {
		return stats, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingMismatch, len(texts), len(embeddings))
	}

	for i, key := range keys {
		if len(embeddings[i]) == 0 {
			return stats, fmt.Errorf("%w: empty vector for %q", ErrEmbeddingMismatch, texts[i])
		}
		if err := bp.cache.PutEmbedding(ctx, key, similarity.NormalizeVector(embeddings[i])); err != nil {
			return stats, fmt.Errorf("failed to store embedding: %w", err)
		}
		stats.Embedded++
	}
	bp.logger.Debug("batch embedded", "reports", len(reports), "embedded", stats.Embedded, "cached", stats.Cached)

	return stats, nil
}
