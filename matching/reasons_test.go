package matching

import (
	"testing"

	"github.com/poiesic/petmatch/core"
	"github.com/stretchr/testify/assert"
)

func TestReasons(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *core.PetProfile)
		want   []string
	}{
		{
			name:   "identical",
			modify: func(c *core.PetProfile) {},
			want: []string{
				"Same species (dog)",
				"Same size (medium)",
				"Matching colors: white, brown",
				"Similar features: black spot on ear",
				"Same area (Escazú)",
			},
		},
		{
			name: "other canton, breed overlap",
			modify: func(c *core.PetProfile) {
				c.Colors = []string{"Brown"}
				c.DistinctiveFeatures = nil
				c.Breed = "Labrador Retriever"
				c.LastSeenLocation.Canton = "Santa Ana"
			},
			want: []string{
				"Same species (dog)",
				"Same size (medium)",
				"Matching colors: brown",
				"Similar breed (labrador)",
				"Same province (San José)",
			},
		},
		{
			name: "nothing in common",
			modify: func(c *core.PetProfile) {
				*c = core.PetProfile{
					Species:          core.SpeciesCat,
					Size:             core.SizeSmall,
					Colors:           []string{"gray"},
					LastSeenLocation: core.Location{Province: "Limón", Canton: "Talamanca", District: "Cahuita"},
				}
			},
			want: []string{core.GeneralSimilarityReason},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := dogProfile()
			q.Breed = "labrador"
			c := dogProfile()
			tt.modify(&c)
			if tt.name == "identical" {
				c.Breed = ""
			}
			assert.Equal(t, tt.want, Reasons(&q, &c))
		})
	}
}

func TestBreedsOverlap(t *testing.T) {
	assert.True(t, breedsOverlap("Labrador", "labrador mix"))
	assert.True(t, breedsOverlap("german shepherd mix", "German Shepherd"))
	assert.False(t, breedsOverlap("", "labrador"))
	assert.False(t, breedsOverlap("poodle", "beagle"))
}
