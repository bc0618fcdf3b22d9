package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/petmatch/config"
	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// testApp returns the real app with its output captured.
func testApp() (*cli.App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	return app, &stdout, &stderr
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findFlag[T cli.Flag](cmd *cli.Command, name string) T {
	var zero T
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok {
			for _, n := range f.Names() {
				if n == name {
					return f
				}
			}
		}
	}
	return zero
}

func TestReembedCommandFlags(t *testing.T) {
	app, _, _ := testApp()
	cmd := findCommand(t, app, "reembed")

	t.Run("batch-size has default value of 100", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](cmd, "batch-size")
		require.NotNil(t, f)
		assert.Equal(t, 100, f.Value)
	})

	t.Run("report-interval has default value of 100", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](cmd, "report-interval")
		require.NotNil(t, f)
		assert.Equal(t, 100, f.Value)
	})

	t.Run("max-retries has default value of 3", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](cmd, "max-retries")
		require.NotNil(t, f)
		assert.Equal(t, 3, f.Value)
	})

	t.Run("retry-delay has default value of 1s", func(t *testing.T) {
		f := findFlag[*cli.DurationFlag](cmd, "retry-delay")
		require.NotNil(t, f)
		assert.Equal(t, time.Second, f.Value)
	})

	t.Run("db has alias d", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](cmd, "d")
		require.NotNil(t, f)
		assert.Equal(t, "db", f.Name)
	})

	t.Run("ai-token reads OPENAI_API_KEY", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](cmd, "ai-token")
		require.NotNil(t, f)
		assert.Equal(t, []string{"OPENAI_API_KEY"}, f.EnvVars)
	})
}

func TestMatchCommandFlags(t *testing.T) {
	app, _, _ := testApp()
	cmd := findCommand(t, app, "match")

	for _, name := range []string{"description", "province", "canton", "district"} {
		t.Run(name+" is required", func(t *testing.T) {
			f := findFlag[*cli.StringFlag](cmd, name)
			require.NotNil(t, f)
			assert.True(t, f.Required)
		})
	}

	t.Run("type defaults to lost", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](cmd, "type")
		require.NotNil(t, f)
		assert.Equal(t, "lost", f.Value)
	})

	t.Run("missing description fails", func(t *testing.T) {
		app, _, _ := testApp()
		err := app.Run([]string{"petmatch", "match", "--province", "Alajuela", "--canton", "Grecia", "--district", "Centro"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description")
	})
}

func TestReembedCommandValidation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero batch size", []string{"--batch-size", "0"}, "batch-size must be greater than 0"},
		{"negative batch size", []string{"--batch-size", "-1"}, "batch-size must be greater than 0"},
		{"zero report interval", []string{"--report-interval", "0"}, "report-interval must be greater than 0"},
		{"zero max retries", []string{"--max-retries", "0"}, "max-retries must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _ := testApp()
			args := append([]string{"petmatch", "reembed", "--db", dbPath, "--ai-provider", "mock"}, tt.args...)
			err := app.Run(args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "validation failures must not open the database")
}

func TestResolveConfig(t *testing.T) {
	t.Run("flags override the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "petmatch.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /var/lib/petmatch
matching:
  threshold: 0.5
  top_k: 3
ai:
  provider: mock
`), 0o644))

		var got *config.Config
		app, _, _ := testApp()
		cmd := findCommand(t, app, "seed")
		cmd.Action = func(c *cli.Context) error {
			var err error
			got, err = resolveConfig(c)
			return err
		}
		require.NoError(t, app.Run([]string{"petmatch", "-c", path, "seed", "--db", "/tmp/other", "--file", "reports.json"}))

		require.NotNil(t, got)
		assert.Equal(t, "/tmp/other", got.Database.Path)
		assert.Equal(t, "reports.json", got.DataFile)
		assert.Equal(t, 0.5, got.Matching.Threshold)
		assert.Equal(t, 3, got.Matching.TopK)
		assert.Equal(t, config.ProviderMock, got.AI.Provider)
	})

	t.Run("invalid override fails validation", func(t *testing.T) {
		app, _, _ := testApp()
		err := app.Run([]string{"petmatch", "match", "--ai-provider", "mock", "--threshold", "1.5",
			"--description", "black dog with a red collar", "--province", "Alajuela", "--canton", "Grecia", "--district", "Centro"})
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("missing config file fails", func(t *testing.T) {
		app, _, _ := testApp()
		err := app.Run([]string{"petmatch", "--log-level", "info", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "seed"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}

func TestSeedMatchReembed(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "db")
	seedPath := filepath.Join(dir, "pets.json")

	loc := core.Location{Province: "Alajuela", Canton: "Grecia", District: "Centro"}
	reports := []*core.Report{
		{
			ReportID:   "lost-1",
			ReportType: core.ReportTypeLost,
			Profile: core.PetProfile{
				Species:          core.SpeciesDog,
				Size:             core.SizeLarge,
				Colors:           []string{"black"},
				LastSeenLocation: loc,
			},
			RawDescription: "large black dog",
			ImagePaths:     []string{},
			ReportDate:     "2024-10-01T09:30:00",
			Status:         core.StatusActive,
		},
		{
			ReportID:   "sighting-1",
			ReportType: core.ReportTypeSighting,
			Profile: core.PetProfile{
				Species:          core.SpeciesCat,
				Size:             core.SizeSmall,
				Colors:           []string{"white"},
				LastSeenLocation: core.Location{Province: "Limón", Canton: "Limón", District: "Centro"},
			},
			RawDescription: "small white cat",
			ImagePaths:     []string{},
			ReportDate:     "2024-10-02T10:00:00",
			Status:         core.StatusActive,
		},
	}
	var buf bytes.Buffer
	require.NoError(t, jsonfile.Encode(&buf, reports))
	require.NoError(t, os.WriteFile(seedPath, buf.Bytes(), 0o644))

	t.Run("seed", func(t *testing.T) {
		app, _, stderr := testApp()
		err := app.Run([]string{"petmatch", "seed", "--db", dbPath, "--ai-provider", "mock", "--file", seedPath})
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "Imported 2 reports")
	})

	t.Run("match", func(t *testing.T) {
		app, stdout, _ := testApp()
		err := app.Run([]string{"petmatch", "match",
			"--db", dbPath, "--ai-provider", "mock", "--no-embeddings", "--threshold", "0.3",
			"--description", "large black dog seen near the church",
			"--province", "Alajuela", "--canton", "Grecia", "--district", "Centro",
			"--type", "sighting"})
		require.NoError(t, err)

		var output core.FinalOutput
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &output))
		assert.Equal(t, core.SpeciesDog, output.EnrichedProfile.Species)
		require.NotEmpty(t, output.Matches.Candidates)
		assert.Equal(t, "lost-1", output.Matches.Candidates[0].MatchID)
		assert.NotEmpty(t, output.RecommendedActions)
	})

	t.Run("match rejects unknown type", func(t *testing.T) {
		app, _, _ := testApp()
		err := app.Run([]string{"petmatch", "match",
			"--db", dbPath, "--ai-provider", "mock",
			"--description", "large black dog seen near the church",
			"--province", "Alajuela", "--canton", "Grecia", "--district", "Centro",
			"--type", "found"})
		require.Error(t, err)
	})

	t.Run("reembed", func(t *testing.T) {
		app, _, stderr := testApp()
		err := app.Run([]string{"petmatch", "reembed", "--db", dbPath, "--ai-provider", "mock", "--batch-size", "1"})
		require.NoError(t, err)
		out := stderr.String()
		assert.Contains(t, out, "Starting embedding of 2 reports (batch size: 1)")
		assert.Contains(t, out, "2 embedded, 0 already cached")
	})

	t.Run("reembed again uses the cache", func(t *testing.T) {
		app, _, stderr := testApp()
		err := app.Run([]string{"petmatch", "reembed", "--db", dbPath, "--ai-provider", "mock"})
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "0 embedded, 2 already cached")
	})

	t.Run("reembed force", func(t *testing.T) {
		app, _, stderr := testApp()
		err := app.Run([]string{"petmatch", "reembed", "--db", dbPath, "--ai-provider", "mock", "--force"})
		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "2 embedded, 0 already cached")
	})
}

func TestSetupLogger(t *testing.T) {
	run := func(args ...string) error {
		app := newApp()
		app.Writer = io.Discard
		app.ErrWriter = io.Discard
		return app.Run(append([]string{"petmatch"}, args...))
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, run("--log-level", level))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, run("--log-level", level))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := run("--log-level", "verbose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("alias l", func(t *testing.T) {
		require.NoError(t, run("-l", "debug"))
	})

	t.Run("config file level applies when flag unset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "petmatch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: chatty\n"), 0o644))
		err := run("-c", path)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "invalid log level"))
	})

	t.Run("flag wins over config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "petmatch.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: chatty\n"), 0o644))
		require.NoError(t, run("-c", path, "--log-level", "warn"))
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
