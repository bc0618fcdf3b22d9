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


package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/explain"
	"github.com/poiesic/petmatch/matching"
	"github.com/poiesic/petmatch/similarity"
	"github.com/poiesic/petmatch/storage"
	"golang.org/x/sync/errgroup"
)

// Source yields the candidate pool for a request.
// A nil report type means every type.
type Source interface {
	GetAllByType(ctx context.Context, reportType *core.ReportType) ([]*core.Report, error)
}

// Pipeline coordinates a matching request: extraction, candidate lookup,
// scoring and ranking, confidence classification and explanation.
// A Pipeline is safe for concurrent use; Release it when done.
type Pipeline struct {
	source    Source
	provider  ai.AIProvider
	ranker    *matching.Ranker
	explainer *explain.Explainer

	threshold        float64
	topK             int
	useEmbeddings    bool
	embeddingTimeout time.Duration
	cache            storage.EmbeddingCache
	monitor          matching.RankMonitor
	now              func() time.Time
	rankerOpts       []matching.Option
	logger           *slog.Logger
}

// Match is the outcome of matching one profile.
type Match struct {
	Result   core.MatchResult
	Metadata core.ProcessingMetadata
}

// NewPipeline creates a new matching pipeline.
func NewPipeline(source Source, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		source:           source,
		provider:         provider,
		threshold:        DefaultThreshold,
		topK:             DefaultTopK,
		useEmbeddings:    true,
		embeddingTimeout: DefaultEmbeddingTimeout,
		now:              time.Now,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "pipeline")

	// Create the ranker after options are applied (so it gets final config)
	rankerOpts := append(p.rankerOpts, matching.WithLogger(p.logger), matching.WithClock(p.now))
	ranker, err := matching.NewRanker(rankerOpts...)
	if err != nil {
		return nil, err
	}
	p.ranker = ranker
	p.explainer = explain.New(provider.Explainer(), explain.WithLogger(p.logger))
	return p, nil
}

// Release releases the scoring pool.
func (p *Pipeline) Release() {
	if p.ranker != nil {
		p.ranker.Release()
	}
}

// Ranker returns the pipeline's ranker.
func (p *Pipeline) Ranker() *matching.Ranker {
	return p.ranker
}

// Match scores the candidate pool against query and classifies the result.
// A nil reportType matches against every report type.
func (p *Pipeline) Match(ctx context.Context, query *core.PetProfile, reportType *core.ReportType) (*Match, error) {
	start := p.now()

	pool, err := p.source.GetAllByType(ctx, reportType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchFailed, err)
	}

	scorer, err := p.scorer(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchFailed, err)
	}

	candidates, total, err := p.ranker.RankWithMonitor(ctx, scorer, query, pool, p.threshold, p.topK, p.monitor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchFailed, err)
	}

	end := p.now()
	result := matching.NewResult(candidates, total, end)
	p.logger.Info("matched",
		"scorer", scorer.Name(),
		"pool", len(pool),
		"scored", total,
		"matches", len(result.Candidates),
		"confidence", result.ConfidenceLevel)

	return &Match{
		Result:   result,
		Metadata: metadata(start, end, scorer.Name(), &result),
	}, nil
}

// scorer picks vector scoring when the embedding service can embed the
// query, and the heuristic otherwise. Only cancellation of ctx is an error.
func (p *Pipeline) scorer(ctx context.Context, query *core.PetProfile) (similarity.Scorer, error) {
	if !p.useEmbeddings || p.provider.Embedder() == nil {
		return similarity.Heuristic{}, nil
	}

	vector := similarity.NewVector(p.provider.Embedder(),
		similarity.WithCache(p.cache),
		similarity.WithTimeout(p.embeddingTimeout),
		similarity.WithLogger(p.logger))
	if _, err := vector.Embed(ctx, query); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn("embedding unavailable, using heuristic scorer", "error", err)
		return similarity.Heuristic{}, nil
	}
	return vector, nil
}

// Extract builds a profile from a submission. Images and text are analyzed
// concurrently; a source that fails contributes nothing. Cancellation of ctx
// is terminal.
func (p *Pipeline) Extract(ctx context.Context, input *core.UserInput) (core.PetProfile, error) {
	extractor := p.provider.AttributeExtractor()
	var fromImages, fromText core.PartialAttributes

	if extractor != nil {
		var g errgroup.Group
		if len(input.Images) > 0 {
			g.Go(func() error {
				attrs, err := extractor.ExtractFromImages(ctx, input.Images)
				if err != nil {
					p.logger.Warn("image extraction failed", "images", len(input.Images), "error", err)
					return nil
				}
				fromImages = attrs
				return nil
			})
		}
		g.Go(func() error {
			attrs, err := extractor.ExtractFromText(ctx, input.Description, input.Location)
			if err != nil {
				p.logger.Warn("text extraction failed", "error", err)
				return nil
			}
			fromText = attrs
			return nil
		})
		_ = g.Wait()
	}

	if err := ctx.Err(); err != nil {
		return core.PetProfile{}, fmt.Errorf("%w: %w", ErrMatchFailed, err)
	}
	lastSeen := p.now().UTC().Format(time.RFC3339)
	return core.MergeAttributes(fromImages, fromText, input.Location, lastSeen), nil
}

// Process runs a submission end to end: validation, extraction, matching
// against every report type, and explanation. A submission without a
// report type is treated as a lost report.
func (p *Pipeline) Process(ctx context.Context, input *core.UserInput) (*core.FinalOutput, error) {
	start := p.now()
	if input == nil {
		return nil, fmt.Errorf("%w: %w: input is nil", ErrMatchFailed, core.ErrValidation)
	}
	in := *input
	if in.ReportType == "" {
		in.ReportType = core.ReportTypeLost
	}
	if err := core.ValidateUserInput(&in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchFailed, err)
	}

	profile, err := p.Extract(ctx, &in)
	if err != nil {
		return nil, err
	}

	match, err := p.Match(ctx, &profile, nil)
	if err != nil {
		return nil, err
	}

	explanation, _ := p.explainer.Explain(ctx, &profile, &match.Result)
	actions, _ := p.explainer.Recommend(ctx, &profile, &match.Result)

	meta := metadata(start, p.now(), match.Metadata.Scorer, &match.Result)
	return &core.FinalOutput{
		EnrichedProfile:    profile,
		Matches:            match.Result,
		Explanation:        explanation,
		RecommendedActions: actions,
		ConfidenceSummary:  explain.Summary(match.Result.ConfidenceLevel),
		ProcessingMetadata: meta,
	}, nil
}

func metadata(start, end time.Time, scorer string, result *core.MatchResult) core.ProcessingMetadata {
	return core.ProcessingMetadata{
		StartTime:             start.UTC().Format(time.RFC3339Nano),
		EndTime:               end.UTC().Format(time.RFC3339Nano),
		ElapsedSeconds:        end.Sub(start).Seconds(),
		Scorer:                scorer,
		TotalMatchesFound:     result.TotalCandidatesFound,
		MatchesAboveThreshold: len(result.Candidates),
	}
}
