package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLoader struct {
	calls   atomic.Int32
	reports []*core.Report
	err     error
}

func (l *countingLoader) LoadReports(ctx context.Context) ([]*core.Report, error) {
	l.calls.Add(1)
	return l.reports, l.err
}

func report(id string, t core.ReportType, species core.Species, province string) *core.Report {
	return &core.Report{
		ReportID:   id,
		ReportType: t,
		Profile: core.PetProfile{
			Species:          species,
			Size:             core.SizeSmall,
			Colors:           []string{"black"},
			LastSeenLocation: core.Location{Province: province, Canton: "Central", District: "Centro"},
		},
		ReportDate: "2024-01-01",
		Status:     core.StatusActive,
	}
}

func testLoader() *countingLoader {
	return &countingLoader{reports: []*core.Report{
		report("s-1", core.ReportTypeSighting, core.SpeciesCat, "Heredia"),
		report("l-1", core.ReportTypeLost, core.SpeciesDog, "Cartago"),
		report("l-2", core.ReportTypeLost, core.SpeciesCat, "Heredia"),
		report("l-1", core.ReportTypeLost, core.SpeciesDog, "Limón"),
	}}
}

func TestCatalog_GetAllByType(t *testing.T) {
	loader := testLoader()
	c, err := New(loader)
	require.NoError(t, err)
	ctx := context.Background()

	all, err := c.GetAllByType(ctx, nil)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ReportID
	}
	assert.Equal(t, []string{"l-1", "l-2", "s-1"}, ids)

	lost := core.ReportTypeLost
	lostOnly, err := c.GetAllByType(ctx, &lost)
	require.NoError(t, err)
	assert.Len(t, lostOnly, 2)
	assert.Equal(t, "Cartago", lostOnly[0].Profile.LastSeenLocation.Province, "first of duplicate IDs wins")

	sighting := core.ReportTypeSighting
	sightings, err := c.GetAllByType(ctx, &sighting)
	require.NoError(t, err)
	assert.Len(t, sightings, 1)

	assert.EqualValues(t, 1, loader.calls.Load())
}

func TestCatalog_LoadsOnceUnderConcurrency(t *testing.T) {
	loader := testLoader()
	c, err := New(loader)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			all, err := c.GetAllByType(context.Background(), nil)
			assert.NoError(t, err)
			assert.Len(t, all, 3)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, loader.calls.Load())
}

func TestCatalog_RetriesAfterLoadError(t *testing.T) {
	boom := errors.New("disk on fire")
	loader := testLoader()
	loader.err = boom
	c, err := New(loader)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.GetAllByType(ctx, nil)
	assert.ErrorIs(t, err, boom)
	_, err = c.Get(ctx, "l-1")
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 2, loader.calls.Load())

	loader.err = nil
	all, err := c.GetAllByType(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// loaded now; later calls do not reload
	_, err = c.Get(ctx, "l-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, loader.calls.Load())
}

func TestCatalog_Get(t *testing.T) {
	c, err := New(testLoader())
	require.NoError(t, err)

	r, err := c.Get(context.Background(), "l-2")
	require.NoError(t, err)
	assert.Equal(t, "l-2", r.ReportID)

	_, err = c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCatalog_Search(t *testing.T) {
	c, err := New(testLoader())
	require.NoError(t, err)
	ctx := context.Background()

	cats, err := c.Search(ctx, Filter{Species: core.SpeciesCat})
	require.NoError(t, err)
	assert.Len(t, cats, 2)

	heredia, err := c.Search(ctx, Filter{Province: "heredia", Limit: 1})
	require.NoError(t, err)
	require.Len(t, heredia, 1)
	assert.Equal(t, "l-2", heredia[0].ReportID)

	none, err := c.Search(ctx, Filter{Size: core.SizeLarge})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestCatalog_SearchQuery(t *testing.T) {
	withText := func(r *core.Report, description string, features ...string) *core.Report {
		r.RawDescription = description
		r.Profile.DistinctiveFeatures = features
		return r
	}
	loader := &countingLoader{reports: []*core.Report{
		withText(report("l-1", core.ReportTypeLost, core.SpeciesDog, "Cartago"), "Perro negro con collar rojo", "red collar"),
		withText(report("l-2", core.ReportTypeLost, core.SpeciesDog, "Heredia"), "Friendly dog, answers to Max.", "limps"),
		withText(report("s-1", core.ReportTypeSighting, core.SpeciesCat, "Heredia"), "Cat seen near the bakery"),
	}}
	c, err := New(loader)
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single word", "collar", []string{"l-1"}},
		{"case and punctuation", "MAX!", []string{"l-2"}},
		{"all words required", "friendly limps", []string{"l-2"}},
		{"one word missing", "friendly collar", []string{}},
		{"colors are searchable", "black", []string{"l-1", "l-2", "s-1"}},
		{"spanish stop words ignored", "perro con collar", []string{"l-1"}},
		{"only stop words", "the de", []string{}},
		{"blank query matches all", "   ", []string{"l-1", "l-2", "s-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(ctx, Filter{Query: tt.query})
			require.NoError(t, err)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ReportID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
