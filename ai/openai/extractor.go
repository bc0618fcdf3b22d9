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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// parseAttempts is how many times a malformed model reply is retried.
const parseAttempts = 3

const (
	textTemperature   = 0.1
	textMaxTokens     = 400
	visionTemperature = 0.2
	visionMaxTokens   = 500
)

var errNoChoices = errors.New("model returned no choices")

// AttributeExtractor implements ai.AttributeExtractor using OpenAI-compatible chat APIs.
// Text and images go to separate models so a text-only model can serve descriptions.
type AttributeExtractor struct {
	text   llms.Model
	vision llms.Model
	logger *slog.Logger
}

var _ ai.AttributeExtractor = (*AttributeExtractor)(nil)

// newAttributeExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAttributeExtractor(config *ai.Config) (*AttributeExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	text, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}
	vision, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}
	return newAttributeExtractorWithModels(text, vision), nil
}

func newAttributeExtractorWithModels(text, vision llms.Model) *AttributeExtractor {
	return &AttributeExtractor{
		text:   text,
		vision: vision,
		logger: slog.Default().With("component", "openai-extractor"),
	}
}

// NewAttributeExtractor creates a new attribute extractor using the provided configuration.
//
// Returns ai.AttributeExtractor interface to enforce abstraction.
func NewAttributeExtractor(config *ai.Config) (ai.AttributeExtractor, error) {
	return newAttributeExtractor(config)
}

// ExtractFromText reads attributes from a free-text description.
func (e *AttributeExtractor) ExtractFromText(ctx context.Context, description string, loc core.Location) (core.PartialAttributes, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, extractorSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, buildTextPrompt(description, loc)),
	}
	return e.generate(ctx, e.text, content,
		llms.WithTemperature(textTemperature),
		llms.WithMaxTokens(textMaxTokens),
		llms.WithJSONMode())
}

// ExtractFromImages reads attributes from up to MaxImagesPerRequest images.
// Unreadable images are skipped; if none remain the result is empty.
func (e *AttributeExtractor) ExtractFromImages(ctx context.Context, images []string) (core.PartialAttributes, error) {
	parts := []llms.ContentPart{llms.TextPart(buildImagePrompt())}
	for _, ref := range images {
		if len(parts) > MaxImagesPerRequest {
			break
		}
		part, err := imagePart(ref)
		if err != nil {
			e.logger.Warn("skipping image", "image", ref, "err", err)
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 1 {
		e.logger.Debug("no usable images", "given", len(images))
		return core.PartialAttributes{}, nil
	}

	content := []llms.MessageContent{{Role: llms.ChatMessageTypeHuman, Parts: parts}}
	return e.generate(ctx, e.vision, content,
		llms.WithTemperature(visionTemperature),
		llms.WithMaxTokens(visionMaxTokens))
}

// generate calls model and parses its reply as RawAttributes, retrying
// malformed replies. Transport failures are not retried.
func (e *AttributeExtractor) generate(ctx context.Context, model llms.Model, content []llms.MessageContent, options ...llms.CallOption) (core.PartialAttributes, error) {
	var lastErr error
	for attempt := 0; attempt < parseAttempts; attempt++ {
		response, err := model.GenerateContent(ctx, content, options...)
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return core.PartialAttributes{}, fmt.Errorf("%w: %w", ai.ErrServiceUnavailable, err)
		}
		if len(response.Choices) < 1 {
			lastErr = errNoChoices
			continue
		}

		reply := cleanModelJSON(response.Choices[0].Content)
		var raw ai.RawAttributes
		if err := json.Unmarshal([]byte(reply), &raw); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", reply,
				"err", err)
			continue
		}
		return raw.ToPartial(), nil
	}

	e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
	return core.PartialAttributes{}, fmt.Errorf("%w: %w", ai.ErrServiceUnavailable, lastErr)
}
