// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage"
)

// Config holds configuration for a cache warm-up.
type Config struct {
	// BatchSize is the number of reports embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of reports)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Force re-embeds profiles that are already cached
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder fills the embedding cache for every stored report.
type Reembedder struct {
	loader    storage.ReportLoader
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(loader storage.ReportLoader, cache storage.EmbeddingCache, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	switch {
	case loader == nil:
		return nil, ErrLoaderRequired
	case cache == nil:
		return nil, ErrCacheRequired
	case embedder == nil:
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	logger := slog.Default().With("component", "reembed")
	backoff := Backoff{
		MaxAttempts: config.MaxRetries,
		BaseDelay:   config.RetryDelay,
		Logger:      logger,
	}
	return &Reembedder{
		loader:    loader,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(cache, embedder, backoff, config.Force),
		logger:    logger,
	}, nil
}

// Run embeds every stored report's profile and returns what was done.
func (r *Reembedder) Run(ctx context.Context) (BatchStats, error) {
	var stats BatchStats

	reports, err := r.loader.LoadReports(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to load reports: %w", err)
	}

	total := len(reports)
	if total == 0 {
		fmt.Fprintf(r.progress, "No reports found (0 reports)\n")
		return stats, nil
	}

	fmt.Fprintf(r.progress, "Starting embedding of %d reports (batch size: %d)\n", total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = NewReportIterator(reports, r.config.BatchSize).ForEach(ctx, func(batch []*core.Report) error {
		batchStats, err := r.processor.Process(ctx, batch)
		stats.Add(batchStats)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		r.logger.Error("embedding run aborted", "processed", processed, "total", total, "error", err)
		return stats, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Embedding complete. %d reports in %v: %d embedded, %d already cached, %d duplicates (%.1f reports/s)\n",
		total, elapsed.Round(time.Millisecond), stats.Embedded, stats.Cached, stats.Duplicates, rate(total, elapsed))
	r.logger.Info("embedding run complete", "reports", total, "embedded", stats.Embedded, "cached", stats.Cached)

	return stats, nil
}
