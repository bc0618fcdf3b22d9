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


// Package matching ranks candidate reports against a query profile and
// classifies the outcome into a confidence tier.
package matching

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/similarity"
	"github.com/poiesic/petmatch/storage"
)

// ErrNoScorer indicates Rank was called without a scorer.
var ErrNoScorer = errors.New("scorer is required")

// ReportPath is the URL path, relative to the view base, at which a report is served.
const ReportPath = "/api/v1/reports/"

// Ranker scores a candidate pool in parallel and orders the results.
// A Ranker is safe for concurrent use; Release it when done.
type Ranker struct {
	pool        *ants.Pool
	poolSize    int
	logger      *slog.Logger
	now         func() time.Time
	viewURLBase string
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithPoolSize sets the number of candidates scored concurrently.
func WithPoolSize(size int) Option {
	return func(r *Ranker) error {
		if size < 1 {
			size = 1
		}
		r.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithClock overrides the wall clock used for days-since-report.
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) error {
		r.now = now
		return nil
	}
}

// WithViewURLBase sets the base URL from which candidate view links are built.
// Empty disables view links.
func WithViewURLBase(base string) Option {
	return func(r *Ranker) error {
		r.viewURLBase = strings.TrimSuffix(base, "/")
		return nil
	}
}

// NewRanker creates a Ranker with its worker pool.
func NewRanker(opts ...Option) (*Ranker, error) {
	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	r := &Ranker{
		poolSize: poolSize,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "ranker")

	pool, err := ants.NewPool(r.poolSize)
	if err != nil {
		return nil, err
	}
	r.pool = pool
	return r, nil
}

// Release releases the worker pool.
func (r *Ranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

type scoreResult struct {
	score float64
	err   error
}

// Rank scores every report in pool against query and returns the candidates
// scoring at least threshold, best first, capped at topK (topK <= 0 means no cap).
// Equal scores keep their pool order. The second result is the number of
// reports scored successfully, before threshold filtering.
//
// A report whose scoring fails is logged and skipped. Cancellation of ctx is
// terminal and returned as an error.
func (r *Ranker) Rank(ctx context.Context, scorer similarity.Scorer, query *core.PetProfile, pool []*core.Report, threshold float64, topK int) ([]core.MatchCandidate, int, error) {
	return r.RankWithMonitor(ctx, scorer, query, pool, threshold, topK, nil)
}

// RankWithMonitor is Rank with observation hooks.
func (r *Ranker) RankWithMonitor(ctx context.Context, scorer similarity.Scorer, query *core.PetProfile, pool []*core.Report, threshold float64, topK int, monitor RankMonitor) ([]core.MatchCandidate, int, error) {
	if scorer == nil {
		return nil, 0, ErrNoScorer
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query, len(pool))

	results := make([]scoreResult, len(pool))
	var wg sync.WaitGroup
	for i, report := range pool {
		wg.Add(1)
		err := r.pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return
			}
			score, err := scorer.Score(ctx, query, &report.Profile)
			results[i] = scoreResult{score: core.ClampScore(score), err: err}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, 0, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	scored := make([]int, 0, len(pool))
	for i, report := range pool {
		if err := results[i].err; err != nil {
			r.logger.Warn("skipping candidate", "report_id", report.ReportID, "scorer", scorer.Name(), "error", err)
			monitor.CandidateSkipped(report, err)
			continue
		}
		monitor.CandidateScored(report, results[i].score)
		scored = append(scored, i)
	}

	slices.SortStableFunc(scored, func(a, b int) int {
		return cmp.Compare(results[b].score, results[a].score)
	})

	now := r.now()
	candidates := make([]core.MatchCandidate, 0)
	for _, i := range scored {
		if results[i].score < threshold {
			break
		}
		if topK > 0 && len(candidates) >= topK {
			break
		}
		candidates = append(candidates, r.candidate(query, pool[i], results[i].score, now))
	}

	monitor.Finish(candidates, len(scored))
	return candidates, len(scored), nil
}

// candidate derives the presentation fields for one scored report.
func (r *Ranker) candidate(query *core.PetProfile, report *core.Report, score float64, now time.Time) core.MatchCandidate {
	distance := storage.LocationDistance(&query.LastSeenLocation, &report.Profile.LastSeenLocation)
	days := storage.DaysSince(report.ReportDate, now)
	return core.NewMatchCandidate(core.MatchCandidate{
		MatchID:            report.ReportID,
		ReportType:         report.ReportType,
		SimilarityScore:    score,
		MatchingReasons:    Reasons(query, &report.Profile),
		LocationDistanceKm: &distance,
		DaysSinceReport:    &days,
		PetName:            report.PetName,
		ContactAvailable:   strings.TrimSpace(report.ContactInfo) != "",
		ViewURL:            r.ViewURL(report.ReportID),
	})
}

// ViewURL returns the link at which a report can be viewed, or "" when no
// base URL is configured.
func (r *Ranker) ViewURL(reportID string) string {
	if r.viewURLBase == "" {
		return ""
	}
	return r.viewURLBase + ReportPath + url.PathEscape(reportID)
}
