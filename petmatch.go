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


// Package petmatch wires storage, AI services and the matching pipeline
// into a single Service.
package petmatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/ai/openai"
	"github.com/poiesic/petmatch/api"
	"github.com/poiesic/petmatch/pipeline"
	"github.com/poiesic/petmatch/reembed"
	"github.com/poiesic/petmatch/storage"
	"github.com/poiesic/petmatch/storage/badger"
	"github.com/poiesic/petmatch/storage/catalog"
)

// SeedBatchSize is the number of reports written per transaction by Seed.
const SeedBatchSize = 500

// Service owns one badger database and the AI provider, and hands out the
// components built on them: the report repository, the embedding cache,
// the candidate catalog, matching pipelines, the HTTP server and the
// embedding warm-up. Close releases the provider and the database.
type Service struct {
	backend  *badger.Backend
	reports  storage.ReportRepository
	cache    storage.EmbeddingCache
	catalog  *catalog.Catalog
	provider ai.AIProvider
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the configuration of the OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The Service closes it on Close.
func WithProvider(provider ai.AIProvider) ServiceOption {
	return func(o *serviceOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory. The file path is ignored.
func WithInMemory() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// Open opens (or creates) the report store at filePath and connects the AI provider.
func Open(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backendOpts := []badger.BackendOption{badger.WithBackendLogger(options.logger)}
	if options.inMemory {
		backendOpts = append(backendOpts, badger.WithInMemory())
	}
	backend, err := badger.OpenBackend(filePath, backendOpts...)
	if err != nil {
		return nil, err
	}

	reports, err := badger.NewReportRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	cache, err := badger.NewEmbeddingCache(backend)
	if err != nil {
		reports.Close()
		backend.Close()
		return nil, err
	}

	cat, err := catalog.New(reports, catalog.WithLogger(options.logger))
	if err != nil {
		reports.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			reports.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Service{
		backend:  backend,
		reports:  reports,
		cache:    cache,
		catalog:  cat,
		provider: provider,
		logger:   options.logger,
	}, nil
}

func (s *Service) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.reports.Close(); err != nil {
		s.logger.Error("error closing report repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Compact reclaims disk space held by overwritten records. It is worth
// running after a forced re-embed.
func (s *Service) Compact() (int, error) {
	return s.backend.Compact()
}

func (s *Service) Reports() storage.ReportRepository {
	return s.reports
}

func (s *Service) EmbeddingCache() storage.EmbeddingCache {
	return s.cache
}

// Catalog is the read-only candidate pool. It is loaded on first use and
// does not see reports added afterwards.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

func (s *Service) Provider() ai.AIProvider {
	return s.provider
}

// NewPipeline creates a pipeline over the catalog that caches candidate
// embeddings in the store. opts are applied after the defaults.
func (s *Service) NewPipeline(opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	base := []pipeline.Option{
		pipeline.WithEmbeddingCache(s.cache),
		pipeline.WithLogger(s.logger),
	}
	return pipeline.NewPipeline(s.catalog, s.provider, append(base, opts...)...)
}

// NewServer creates the HTTP API over p, filing reports into the store.
func (s *Service) NewServer(p *pipeline.Pipeline, opts ...api.Option) (*api.Server, error) {
	base := []api.Option{api.WithLogger(s.logger)}
	return api.NewServer(p, s.reports, s.catalog, append(base, opts...)...)
}

// NewReembedder creates a warm-up run over every stored report.
func (s *Service) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	embedder := s.provider.Embedder()
	if embedder == nil {
		return nil, reembed.ErrEmbedderRequired
	}
	return reembed.NewReembedder(s.reports, s.cache, embedder, config, progress)
}

// Seed imports every report from loader into the store, replacing reports
// with the same ID. It returns the number of reports written.
func (s *Service) Seed(ctx context.Context, loader storage.ReportLoader) (int, error) {
	reports, err := loader.LoadReports(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load seed reports: %w", err)
	}

	written := 0
	for start := 0; start < len(reports); start += SeedBatchSize {
		end := min(start+SeedBatchSize, len(reports))
		if err := s.reports.AddReports(ctx, reports[start:end]...); err != nil {
			return written, fmt.Errorf("failed to store reports %d-%d: %w", start, end, err)
		}
		written = end
	}
	s.logger.Info("seeded reports", "count", written)
	return written, nil
}
