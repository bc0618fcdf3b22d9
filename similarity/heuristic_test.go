package similarity

import (
	"context"
	"testing"

	"github.com/poiesic/petmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryProfile() *core.PetProfile {
	return &core.PetProfile{
		Species:             core.SpeciesDog,
		Size:                core.SizeMedium,
		Colors:              []string{"white", "brown"},
		DistinctiveFeatures: []string{"black spot on ear"},
		LastSeenLocation:    core.Location{Province: "San José", Canton: "Escazú", District: "San Antonio"},
	}
}

func TestHeuristicScore_Identity(t *testing.T) {
	q := queryProfile()
	c := queryProfile()
	score, err := Heuristic{}.Score(context.Background(), q, c)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestHeuristicScore(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *core.PetProfile)
		want   float64
	}{
		{"other province", func(c *core.PetProfile) { c.LastSeenLocation.Province = "Alajuela" }, 0.90},
		{"other canton", func(c *core.PetProfile) { c.LastSeenLocation.Canton = "Santa Ana" }, 0.95},
		{"other district", func(c *core.PetProfile) { c.LastSeenLocation.District = "San Rafael" }, 0.98},
		{"other species", func(c *core.PetProfile) { c.Species = core.SpeciesCat }, 0.70},
		{"other size", func(c *core.PetProfile) { c.Size = core.SizeLarge }, 0.80},
		{"half colors", func(c *core.PetProfile) { c.Colors = []string{"white", "black"} }, 1 - 0.2*(2.0/3.0)},
		{"no features on candidate", func(c *core.PetProfile) { c.DistinctiveFeatures = nil }, 0.80},
		{"feature casing ignored", func(c *core.PetProfile) { c.DistinctiveFeatures = []string{"Black Spot On Ear"} }, 1.0},
		{"nothing in common", func(c *core.PetProfile) {
			*c = core.PetProfile{
				Species:          core.SpeciesCat,
				Size:             core.SizeSmall,
				Colors:           []string{"gray"},
				LastSeenLocation: core.Location{Province: "Limón", Canton: "Talamanca", District: "Cahuita"},
			}
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := queryProfile()
			c := queryProfile()
			tt.modify(c)
			got := HeuristicScore(q, c)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.InDelta(t, got, HeuristicScore(c, q), 1e-9, "heuristic is symmetric")
		})
	}
}

func TestHeuristicScore_Bounds(t *testing.T) {
	empty := &core.PetProfile{}
	full := queryProfile()
	for _, pair := range [][2]*core.PetProfile{{empty, empty}, {empty, full}, {full, empty}} {
		s := HeuristicScore(pair[0], pair[1])
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard(nil, []string{"a"}))
	assert.Equal(t, 0.0, Jaccard([]string{"a"}, nil))
	assert.Equal(t, 1.0, Jaccard([]string{"A", "b"}, []string{"b", "a"}))
	assert.InDelta(t, 1.0/3.0, Jaccard([]string{"a", "b"}, []string{"b", "c"}), 1e-12)
}

func TestIntersection(t *testing.T) {
	assert.Equal(t, []string{"white", "brown"}, Intersection([]string{"White", "brown", "white", "tan"}, []string{"BROWN", "white"}))
	assert.Empty(t, Intersection([]string{"a"}, []string{"b"}))
}
