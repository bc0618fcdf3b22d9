package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeAttributes(t *testing.T) {
	loc := validLocation()
	cat, dog := SpeciesCat, SpeciesDog
	small := SizeSmall
	senior := AgeSenior
	siamese, tabby := "Siamese", "tabby"

	tests := []struct {
		name         string
		image        PartialAttributes
		text         PartialAttributes
		wantSpecies  Species
		wantSize     Size
		wantColors   []string
		wantFeatures []string
		wantBreed    string
		wantAge      Age
	}{
		{
			name:         "both empty uses defaults",
			wantSpecies:  SpeciesOther,
			wantSize:     SizeMedium,
			wantColors:   []string{"unknown"},
			wantFeatures: []string{},
		},
		{
			name:         "image preferred over text",
			image:        PartialAttributes{Species: &cat, Breed: &siamese, Colors: []string{"Cream"}},
			text:         PartialAttributes{Species: &dog, Size: &small, Breed: &tabby, ApproximateAge: &senior, Colors: []string{"brown"}},
			wantSpecies:  SpeciesCat,
			wantSize:     SizeSmall,
			wantColors:   []string{"cream", "brown"},
			wantFeatures: []string{},
			wantBreed:    "Siamese",
			wantAge:      AgeSenior,
		},
		{
			name:         "lists union case-insensitively keeping first",
			image:        PartialAttributes{Colors: []string{"White", "brown"}, DistinctiveFeatures: []string{"Red Collar"}},
			text:         PartialAttributes{Colors: []string{"BROWN", "black", ""}, DistinctiveFeatures: []string{"red collar", "limp"}},
			wantSpecies:  SpeciesOther,
			wantSize:     SizeMedium,
			wantColors:   []string{"white", "brown", "black"},
			wantFeatures: []string{"Red Collar", "limp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MergeAttributes(tt.image, tt.text, loc, "")
			assert.Equal(t, tt.wantSpecies, p.Species)
			assert.Equal(t, tt.wantSize, p.Size)
			assert.Equal(t, tt.wantColors, p.Colors)
			assert.Equal(t, tt.wantFeatures, p.DistinctiveFeatures)
			assert.Equal(t, tt.wantBreed, p.Breed)
			assert.Equal(t, tt.wantAge, p.ApproximateAge)
			assert.Equal(t, loc, p.LastSeenLocation)
			assert.NoError(t, ValidatePetProfile(&p))
		})
	}
}

func TestMergeAttributes_FallsBackOnInvalidData(t *testing.T) {
	loc := validLocation()
	bogus := Species("dragon")
	p := MergeAttributes(PartialAttributes{Species: &bogus, Colors: []string{"green"}}, PartialAttributes{}, loc, "not a date")
	assert.Equal(t, MinimalProfile(loc), p)
}

func TestPartialAttributes_IsEmpty(t *testing.T) {
	assert.True(t, PartialAttributes{}.IsEmpty())
	assert.False(t, PartialAttributes{Colors: []string{"black"}}.IsEmpty())
}
