package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/explain"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	explainTemperature = 0.7
	explainMaxTokens   = 250
)

// Explainer implements ai.Explainer with a chat model. Recommendations are
// rule based and do not call the model.
type Explainer struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.Explainer = (*Explainer)(nil)

func newExplainer(config *ai.Config) (*Explainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ExplainerModel),
	)
	if err != nil {
		return nil, err
	}
	return newExplainerWithModel(client), nil
}

func newExplainerWithModel(client llms.Model) *Explainer {
	return &Explainer{
		client: client,
		logger: slog.Default().With("component", "openai-explainer"),
	}
}

// NewExplainer creates a new explainer using the provided configuration.
func NewExplainer(config *ai.Config) (ai.Explainer, error) {
	return newExplainer(config)
}

// Explain asks the model for a short, empathetic summary of result.
func (e *Explainer) Explain(ctx context.Context, profile *core.PetProfile, result *core.MatchResult) (string, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, explainerSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildExplainPrompt(profile, result)),
	}
	response, err := e.client.GenerateContent(ctx, content,
		llms.WithTemperature(explainTemperature),
		llms.WithMaxTokens(explainMaxTokens))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ai.ErrServiceUnavailable, err)
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("%w: %w", ai.ErrServiceUnavailable, errNoChoices)
	}
	text := strings.TrimSpace(response.Choices[0].Content)
	e.logger.Debug("generated explanation", "length", len(text))
	return text, nil
}

// Recommend returns the rule-based next steps.
func (e *Explainer) Recommend(_ context.Context, profile *core.PetProfile, result *core.MatchResult) ([]string, error) {
	return explain.Recommendations(profile, result), nil
}
