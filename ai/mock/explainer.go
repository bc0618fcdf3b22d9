package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
)

// MockExplainer is a test double for ai.Explainer.
type MockExplainer struct {
	// ExplainFunc is called by Explain if set.
	ExplainFunc func(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) (string, error)

	// RecommendFunc is called by Recommend if set.
	RecommendFunc func(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) ([]string, error)

	callCount atomic.Int64
}

var _ ai.Explainer = (*MockExplainer)(nil)

// NewMockExplainer creates a mock explainer with fixed default output.
func NewMockExplainer() *MockExplainer {
	return &MockExplainer{}
}

// Explain returns a short fixed summary unless overridden.
func (m *MockExplainer) Explain(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) (string, error) {
	m.callCount.Add(1)

	if m.ExplainFunc != nil {
		return m.ExplainFunc(ctx, profile, result)
	}
	return fmt.Sprintf("Mock explanation: %d candidates at %s confidence.", len(result.Candidates), result.ConfidenceLevel), nil
}

// Recommend returns a single fixed action unless overridden.
func (m *MockExplainer) Recommend(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) ([]string, error) {
	m.callCount.Add(1)

	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, profile, result)
	}
	return []string{"Check back regularly as new reports are added daily"}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockExplainer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and injected behavior.
func (m *MockExplainer) Reset() {
	m.callCount.Store(0)
	m.ExplainFunc = nil
	m.RecommendFunc = nil
}
