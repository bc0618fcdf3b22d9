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


package ai

import (
	"fmt"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// ChatHost is the base URL for the extraction and explanation service API.
	ChatHost string

	// Token is the API key sent to both hosts. Local servers accept any value.
	Token string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string

	// ExtractorModel reads free-text descriptions.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	ExtractorModel string

	// VisionModel analyzes pet photos. It must accept image inputs.
	// Example: "llava", "gpt-4o"
	VisionModel string

	// ExplainerModel writes match explanations.
	ExplainerModel string

	// MaxEmbeddingTokens truncates embedding input to this many tokens.
	// Zero disables truncation.
	MaxEmbeddingTokens int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithChatHost sets the extraction and explanation service host URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithHost sets both embedding and chat hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.ChatHost = host
	}
}

// WithToken sets the API key.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithExtractorModel sets the text extraction model identifier.
func WithExtractorModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExtractorModel = model
	}
}

// WithVisionModel sets the image analysis model identifier.
func WithVisionModel(model string) ConfigOption {
	return func(c *Config) {
		c.VisionModel = model
	}
}

// WithExplainerModel sets the explanation model identifier.
func WithExplainerModel(model string) ConfigOption {
	return func(c *Config) {
		c.ExplainerModel = model
	}
}

// WithMaxEmbeddingTokens sets the embedding input token budget.
func WithMaxEmbeddingTokens(n int) ConfigOption {
	return func(c *Config) {
		c.MaxEmbeddingTokens = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:      defaultHost,
		ChatHost:           defaultHost,
		Token:              "none",
		EmbeddingModel:     "embeddinggemma",
		ExtractorModel:     "qwen2.5:3b",
		VisionModel:        "llava",
		ExplainerModel:     "qwen2.5:3b",
		MaxEmbeddingTokens: 2048,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("https://api.openai.com/v1"),
//	    WithToken(os.Getenv("OPENAI_API_KEY")),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	    WithVisionModel("gpt-4o"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.EmbeddingHost = normalizeHost(c.EmbeddingHost)
	c.ChatHost = normalizeHost(c.ChatHost)
	if c.Token == "" {
		c.Token = "none"
	}
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	required := []struct {
		name, value string
	}{
		{"EmbeddingHost", c.EmbeddingHost},
		{"ChatHost", c.ChatHost},
		{"EmbeddingModel", c.EmbeddingModel},
		{"ExtractorModel", c.ExtractorModel},
		{"VisionModel", c.VisionModel},
		{"ExplainerModel", c.ExplainerModel},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidConfig, r.name)
		}
	}
	if c.MaxEmbeddingTokens < 0 {
		return fmt.Errorf("%w: MaxEmbeddingTokens must not be negative", ErrInvalidConfig)
	}
	return nil
}
