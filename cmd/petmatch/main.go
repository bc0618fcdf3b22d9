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


package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/petmatch"
	"github.com/poiesic/petmatch/ai/mock"
	"github.com/poiesic/petmatch/api"
	"github.com/poiesic/petmatch/config"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/reembed"
	"github.com/poiesic/petmatch/storage/jsonfile"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// storeFlags select the database and the AI services. Every command that
// opens the service accepts them; set values override the config file.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
		},
		&cli.StringFlag{
			Name:  "ai-provider",
			Usage: "AI provider (openai, mock)",
		},
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible host URL for both embeddings and chat",
		},
		&cli.StringFlag{
			Name:    "ai-token",
			Usage:   "API key for the AI host",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
	}
}

func matchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Minimum similarity score for a match, in [0, 1]",
		},
		&cli.IntFlag{
			Name:  "top-k",
			Usage: "Maximum number of matches returned (0 for no limit)",
		},
		&cli.BoolFlag{
			Name:  "no-embeddings",
			Usage: "Score with the attribute heuristic instead of embeddings",
		},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "petmatch",
		Usage: "Match lost-pet reports against sightings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API",
				Action: serveCommand,
				Flags: append(append(storeFlags(), matchFlags()...),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
					},
				),
			},
			{
				Name:   "match",
				Usage:  "Match a single description against stored reports",
				Action: matchCommand,
				Flags: append(append(storeFlags(), matchFlags()...),
					&cli.StringFlag{
						Name:     "description",
						Usage:    "Free-text description of the pet (at least 10 characters)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "province",
						Usage:    "Province where the pet was lost or seen",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "canton",
						Usage:    "Canton",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "district",
						Usage:    "District",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "details",
						Usage: "Additional location details",
					},
					&cli.StringSliceFlag{
						Name:  "image",
						Usage: "Image path or URL (repeatable, up to 5)",
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Report type (lost, sighting)",
						Value: string(core.ReportTypeLost),
					},
				),
			},
			{
				Name:   "seed",
				Usage:  "Import reports from a JSON seed document",
				Action: seedCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Path to the seed document",
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Embed every stored report into the embedding cache",
				Action: reembedCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of reports to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N reports",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Re-embed reports that are already cached",
					},
				),
			},
		},
	}
}

// resolveConfig loads the config file, if any, and applies set flags over it.
func resolveConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet("db") {
		cfg.Database.Path = c.String("db")
	}
	if c.IsSet("ai-provider") {
		cfg.AI.Provider = c.String("ai-provider")
	}
	if c.IsSet("ai-host") {
		cfg.AI.EmbeddingHost = c.String("ai-host")
		cfg.AI.ChatHost = c.String("ai-host")
	}
	if c.IsSet("ai-token") {
		cfg.AI.Token = c.String("ai-token")
	}
	if c.IsSet("embedding-model") {
		cfg.AI.EmbeddingModel = c.String("embedding-model")
	}
	if c.IsSet("threshold") {
		cfg.Matching.Threshold = c.Float64("threshold")
	}
	if c.IsSet("top-k") {
		cfg.Matching.TopK = c.Int("top-k")
	}
	if c.Bool("no-embeddings") {
		cfg.Matching.Embeddings = false
	}
	if c.IsSet("addr") {
		cfg.Server.Address = c.String("addr")
	}
	if c.IsSet("file") {
		cfg.DataFile = c.String("file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openService(cfg *config.Config) (*petmatch.Service, error) {
	opts := []petmatch.ServiceOption{petmatch.WithAIConfig(cfg.AIConfig())}
	if cfg.AI.Provider == config.ProviderMock {
		opts = append(opts, petmatch.WithProvider(mock.NewMockProvider()))
	}
	if cfg.Database.InMemory {
		opts = append(opts, petmatch.WithInMemory())
	}
	svc, err := petmatch.Open(cfg.Database.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return svc, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	p, err := svc.NewPipeline(cfg.PipelineOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	srv, err := svc.NewServer(p, api.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.ListenAndServe(ctx, cfg.Server.Address)
}

func matchCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	reportType, err := core.ParseReportType(c.String("type"))
	if err != nil {
		return err
	}

	svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	p, err := svc.NewPipeline(cfg.PipelineOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Release()

	output, err := p.Process(c.Context, &core.UserInput{
		Images:      c.StringSlice("image"),
		Description: c.String("description"),
		ReportType:  reportType,
		Location: core.Location{
			Province:          c.String("province"),
			Canton:            strings.TrimSpace(c.String("canton")),
			District:          strings.TrimSpace(c.String("district")),
			AdditionalDetails: strings.TrimSpace(c.String("details")),
		},
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func seedCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	loader, err := jsonfile.NewLoader(cfg.DataFile)
	if err != nil {
		return err
	}

	svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	n, err := svc.Seed(c.Context, loader)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Imported %d reports from %s into %s\n", n, cfg.DataFile, cfg.Database.Path)
	return nil
}

func reembedCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Force:          c.Bool("force"),
	}
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	svc, err := openService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	reembedder, err := svc.NewReembedder(reembedConfig, c.App.ErrWriter)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(c.App.ErrWriter)

	if _, err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	if reembedConfig.Force {
		if _, err := svc.Compact(); err != nil {
			slog.Warn("value log compaction failed", "error", err)
		}
	}
	return nil
}

// setupLogger configures the default logger. An explicit --log-level wins
// over the log_level of the config file.
func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))
	if path := c.String("config"); path != "" && !c.IsSet("log-level") {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		levelStr = strings.ToLower(cfg.LogLevel)
	}

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
