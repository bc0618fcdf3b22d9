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


// Package explain turns match results into text for the person who filed
// the report: an explanation, recommended next steps and a confidence summary.
//
// Explanations come from an ai.Explainer when one is configured and reachable.
// Otherwise the deterministic templates in this package are used, so a
// request never fails because the language model is down.
package explain

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
)

// MinExplanationLength is the shortest generated explanation accepted.
const MinExplanationLength = 20

// Explainer wraps an optional ai.Explainer and degrades to templates.
type Explainer struct {
	llm    ai.Explainer
	logger *slog.Logger
}

var _ ai.Explainer = (*Explainer)(nil)

// Option configures an Explainer.
type Option func(*Explainer)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Explainer) {
		e.logger = logger
	}
}

// New creates an Explainer. A nil llm always uses the templates.
func New(llm ai.Explainer, opts ...Option) *Explainer {
	e := &Explainer{
		llm:    llm,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "explainer")
	return e
}

// Explain implements ai.Explainer. It never returns an error.
func (e *Explainer) Explain(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) (string, error) {
	if e.llm == nil {
		return Fallback(profile, result), nil
	}
	text, err := e.llm.Explain(ctx, profile, result)
	if err != nil {
		e.logger.Warn("explanation unavailable, using template", "error", err)
		return Fallback(profile, result), nil
	}
	text = strings.TrimSpace(text)
	if len(text) < MinExplanationLength {
		e.logger.Warn("explanation too short, using template", "length", len(text))
		return Fallback(profile, result), nil
	}
	return text, nil
}

// Recommend implements ai.Explainer. It never returns an error.
func (e *Explainer) Recommend(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) ([]string, error) {
	if e.llm == nil {
		return Recommendations(profile, result), nil
	}
	recs, err := e.llm.Recommend(ctx, profile, result)
	if err != nil {
		e.logger.Warn("recommendations unavailable, using rules", "error", err)
		return Recommendations(profile, result), nil
	}
	if recs = Clean(recs); len(recs) == 0 {
		return Recommendations(profile, result), nil
	}
	return recs, nil
}
