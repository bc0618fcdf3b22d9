package jsonfile

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/petmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedDoc = `{
  "lost_pets": [
    {
      "report_id": "lost-001",
      "report_type": "lost",
      "pet_description": {
        "species": "dog", "size": "medium", "colors": ["white", "brown"],
        "distinctive_features": ["black spot on ear"], "breed": "Beagle",
        "last_seen_location": {"province": "San José", "canton": "Escazú", "district": "San Antonio"}
      },
      "raw_description": "Beagle with a spot",
      "image_paths": [],
      "contact_info": "8888-1111",
      "report_date": "2024-05-01T10:00:00",
      "status": "active"
    },
    {
      "report_id": "lost-bad",
      "pet_description": {"species": "unicorn"},
      "report_date": "2024-05-01"
    }
  ],
  "sightings": [
    {
      "report_id": "sighting-001",
      "pet_description": {
        "species": "cat", "size": "small", "colors": ["black"],
        "distinctive_features": [],
        "last_seen_location": {"province": "Heredia", "canton": "Belén", "district": "La Ribera"}
      },
      "raw_description": "small black cat",
      "image_paths": ["img/1.jpg"],
      "report_date": "2024-05-03T08:00:00Z"
    }
  ]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestDecode(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	reports, err := Decode(context.Background(), strings.NewReader(seedDoc), logger)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "lost-001", reports[0].ReportID)
	assert.Equal(t, core.ReportTypeLost, reports[0].ReportType)
	assert.Equal(t, "sighting-001", reports[1].ReportID)
	assert.Equal(t, core.ReportTypeSighting, reports[1].ReportType, "section supplies missing report_type")
	assert.Equal(t, core.StatusActive, reports[1].Status)

	assert.Contains(t, logs.String(), "lost-bad")
}

func TestDecode_KeepsUndatedReports(t *testing.T) {
	const doc = `{
  "lost_pets": [
    {
      "report_id": "L1",
      "pet_description": {
        "species": "dog", "size": "small", "colors": ["tan"],
        "last_seen_location": {"province": "Alajuela", "canton": "Grecia", "district": "Centro"}
      },
      "raw_description": "small tan dog"
    },
    {
      "report_id": "L2",
      "pet_description": {
        "species": "cat", "size": "small", "colors": ["gray"],
        "last_seen_location": {"province": "Alajuela", "canton": "Grecia", "district": "Centro"}
      },
      "raw_description": "gray cat",
      "report_date": "last tuesday"
    }
  ]
}`
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	reports, err := Decode(context.Background(), strings.NewReader(doc), logger)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.NotEmpty(t, reports[0].ReportDate)
	_, err = core.ParseISOTime(reports[0].ReportDate)
	assert.NoError(t, err)
	assert.Equal(t, "last tuesday", reports[1].ReportDate)
	assert.NotContains(t, logs.String(), "skipping")
}

func TestDecode_InvalidDocument(t *testing.T) {
	_, err := Decode(context.Background(), strings.NewReader("[1,2]"), discardLogger())
	assert.Error(t, err)
}

func TestLoader_LoadReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc), 0644))

	loader, err := NewLoader(path, WithLogger(discardLogger()))
	require.NoError(t, err)

	reports, err := loader.LoadReports(context.Background())
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestLoader_MissingFile(t *testing.T) {
	loader, err := NewLoader(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	_, err = loader.LoadReports(context.Background())
	assert.Error(t, err)
}

func TestEncodeDecode(t *testing.T) {
	reports, err := Decode(context.Background(), strings.NewReader(seedDoc), discardLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, reports))

	again, err := Decode(context.Background(), &buf, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, reports, again)
}
