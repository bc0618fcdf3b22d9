package mock

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
)

// MockExtractor is a test double for ai.AttributeExtractor.
// It allows custom behavior injection via function fields.
type MockExtractor struct {
	// ExtractFromTextFunc is called by ExtractFromText if set.
	// If nil, uses default keyword matching.
	ExtractFromTextFunc func(ctx context.Context, description string, loc core.Location) (core.PartialAttributes, error)

	// ExtractFromImagesFunc is called by ExtractFromImages if set.
	// If nil, returns empty attributes.
	ExtractFromImagesFunc func(ctx context.Context, images []string) (core.PartialAttributes, error)

	textCalls  atomic.Int64
	imageCalls atomic.Int64
}

var _ ai.AttributeExtractor = (*MockExtractor)(nil)

// NewMockExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockExtractor() *MockExtractor {
	return &MockExtractor{}
}

// knownColors are recognized by the default keyword matcher.
var knownColors = []string{
	"black", "white", "brown", "gray", "grey", "golden", "orange", "cream", "tan", "spotted",
}

// ExtractFromText recognizes species, size and color keywords in the description.
func (m *MockExtractor) ExtractFromText(ctx context.Context, description string, loc core.Location) (core.PartialAttributes, error) {
	m.textCalls.Add(1)

	if m.ExtractFromTextFunc != nil {
		return m.ExtractFromTextFunc(ctx, description, loc)
	}

	raw := ai.RawAttributes{}
	for _, word := range strings.Fields(strings.ToLower(description)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		switch word {
		case "dog", "puppy", "perro":
			raw.Species = string(core.SpeciesDog)
		case "cat", "kitten", "gato":
			raw.Species = string(core.SpeciesCat)
		case "small", "medium", "large":
			raw.Size = word
		}
		if slices.Contains(knownColors, word) && !slices.Contains(raw.Colors, word) {
			raw.Colors = append(raw.Colors, word)
		}
	}
	return raw.ToPartial(), nil
}

// ExtractFromImages returns empty attributes unless overridden.
func (m *MockExtractor) ExtractFromImages(ctx context.Context, images []string) (core.PartialAttributes, error) {
	m.imageCalls.Add(1)

	if m.ExtractFromImagesFunc != nil {
		return m.ExtractFromImagesFunc(ctx, images)
	}
	return core.PartialAttributes{}, nil
}

// TextCallCount returns the number of ExtractFromText calls.
func (m *MockExtractor) TextCallCount() int {
	return int(m.textCalls.Load())
}

// ImageCallCount returns the number of ExtractFromImages calls.
func (m *MockExtractor) ImageCallCount() int {
	return int(m.imageCalls.Load())
}

// CallCount returns the number of times any method was called.
func (m *MockExtractor) CallCount() int {
	return m.TextCallCount() + m.ImageCallCount()
}

// Reset clears call counts and injected behavior.
func (m *MockExtractor) Reset() {
	m.textCalls.Store(0)
	m.imageCalls.Store(0)
	m.ExtractFromTextFunc = nil
	m.ExtractFromImagesFunc = nil
}
