// Package config loads the petmatch application configuration from YAML.
//
// Values missing from the file keep their Default() value, so a config file
// only needs the settings that differ. Command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/pipeline"
	"gopkg.in/yaml.v3"
)

// AI provider names accepted in ai.provider.
const (
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	LogLevel string         `yaml:"log_level"`
	Database DatabaseConfig `yaml:"database"`
	DataFile string         `yaml:"data_file"` // seed document imported by `petmatch seed`
	Matching MatchingConfig `yaml:"matching"`
	AI       AIConfig       `yaml:"ai"`
	Server   ServerConfig   `yaml:"server"`
}

type DatabaseConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"`
}

type MatchingConfig struct {
	Threshold        float64       `yaml:"threshold"`
	TopK             int           `yaml:"top_k"`
	PoolSize         int           `yaml:"pool_size"` // 0 means one worker per CPU
	Embeddings       bool          `yaml:"embeddings"`
	EmbeddingTimeout time.Duration `yaml:"embedding_timeout"`
}

type AIConfig struct {
	Provider           string `yaml:"provider"`
	EmbeddingHost      string `yaml:"embedding_host"`
	ChatHost           string `yaml:"chat_host"`
	Token              string `yaml:"token"` // environment variables are expanded
	EmbeddingModel     string `yaml:"embedding_model"`
	ExtractorModel     string `yaml:"extractor_model"`
	VisionModel        string `yaml:"vision_model"`
	ExplainerModel     string `yaml:"explainer_model"`
	MaxEmbeddingTokens int    `yaml:"max_embedding_tokens"`
}

type ServerConfig struct {
	Address      string        `yaml:"address"`
	ViewURLBase  string        `yaml:"view_url_base"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		LogLevel: "info",
		Database: DatabaseConfig{Path: "petmatch.db"},
		DataFile: "pets.json",
		Matching: MatchingConfig{
			Threshold:        pipeline.DefaultThreshold,
			TopK:             pipeline.DefaultTopK,
			Embeddings:       true,
			EmbeddingTimeout: pipeline.DefaultEmbeddingTimeout,
		},
		AI: AIConfig{
			Provider:           ProviderOpenAI,
			EmbeddingHost:      aiDefaults.EmbeddingHost,
			ChatHost:           aiDefaults.ChatHost,
			Token:              aiDefaults.Token,
			EmbeddingModel:     aiDefaults.EmbeddingModel,
			ExtractorModel:     aiDefaults.ExtractorModel,
			VisionModel:        aiDefaults.VisionModel,
			ExplainerModel:     aiDefaults.ExplainerModel,
			MaxEmbeddingTokens: aiDefaults.MaxEmbeddingTokens,
		},
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
	}
}

// Load reads a YAML file over Default() and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.AI.Token = os.ExpandEnv(cfg.AI.Token)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and required values.
func (c *Config) Validate() error {
	m := c.Matching
	switch {
	case m.Threshold < 0 || m.Threshold > 1:
		return fmt.Errorf("%w: matching.threshold %v outside [0, 1]", ErrInvalidConfig, m.Threshold)
	case m.TopK < 0:
		return fmt.Errorf("%w: matching.top_k must not be negative", ErrInvalidConfig)
	case m.PoolSize < 0:
		return fmt.Errorf("%w: matching.pool_size must not be negative", ErrInvalidConfig)
	case m.EmbeddingTimeout < 0:
		return fmt.Errorf("%w: matching.embedding_timeout must not be negative", ErrInvalidConfig)
	case !c.Database.InMemory && c.Database.Path == "":
		return fmt.Errorf("%w: database.path is required unless database.in_memory is set", ErrInvalidConfig)
	}
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("%w: unknown ai.provider %q", ErrInvalidConfig, c.AI.Provider)
	}
	return nil
}

// AIConfig converts the ai section to the provider configuration.
func (c *Config) AIConfig() *ai.Config {
	a := c.AI
	return ai.NewConfig(
		ai.WithEmbeddingHost(a.EmbeddingHost),
		ai.WithChatHost(a.ChatHost),
		ai.WithToken(a.Token),
		ai.WithEmbeddingModel(a.EmbeddingModel),
		ai.WithExtractorModel(a.ExtractorModel),
		ai.WithVisionModel(a.VisionModel),
		ai.WithExplainerModel(a.ExplainerModel),
		ai.WithMaxEmbeddingTokens(a.MaxEmbeddingTokens),
	)
}

// PipelineOptions converts the matching and server sections to pipeline options.
func (c *Config) PipelineOptions() []pipeline.Option {
	opts := []pipeline.Option{
		pipeline.WithThreshold(c.Matching.Threshold),
		pipeline.WithTopK(c.Matching.TopK),
		pipeline.WithEmbeddings(c.Matching.Embeddings),
		pipeline.WithEmbeddingTimeout(c.Matching.EmbeddingTimeout),
	}
	if c.Matching.PoolSize > 0 {
		opts = append(opts, pipeline.WithPoolSize(c.Matching.PoolSize))
	}
	if c.Server.ViewURLBase != "" {
		opts = append(opts, pipeline.WithViewURLBase(c.Server.ViewURLBase))
	}
	return opts
}
