package ai

import (
	"strings"

	"github.com/poiesic/petmatch/core"
)

// RawAttributes is the loosely typed attribute set a model returns.
// Every field is optional; values outside the closed vocabularies are dropped
// by ToPartial rather than rejected.
type RawAttributes struct {
	Species             string   `json:"species"`
	Size                string   `json:"size"`
	Colors              []string `json:"colors"`
	DistinctiveFeatures []string `json:"distinctive_features"`
	Breed               string   `json:"breed"`
	ApproximateAge      string   `json:"approximate_age"`
}

// nullWords are placeholder answers models give instead of omitting a field.
var nullWords = map[string]bool{
	"":        true,
	"null":    true,
	"none":    true,
	"unknown": true,
	"n/a":     true,
}

// ToPartial converts raw model output into typed partial attributes.
func (r RawAttributes) ToPartial() core.PartialAttributes {
	var p core.PartialAttributes
	if s, err := core.ParseSpecies(r.Species); err == nil {
		p.Species = &s
	}
	if s, err := core.ParseSize(r.Size); err == nil {
		p.Size = &s
	}
	if a, err := core.ParseAge(r.ApproximateAge); err == nil && a != core.AgeUnknown {
		p.ApproximateAge = &a
	}
	if b := strings.TrimSpace(r.Breed); !nullWords[strings.ToLower(b)] {
		p.Breed = &b
	}
	p.Colors = dropNullWords(r.Colors)
	p.DistinctiveFeatures = dropNullWords(r.DistinctiveFeatures)
	return p
}

func dropNullWords(items []string) []string {
	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if nullWords[strings.ToLower(item)] {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Vocabulary lists the accepted values for each closed attribute,
// for inclusion in extraction prompts.
var Vocabulary = struct {
	Species []core.Species
	Sizes   []core.Size
	Ages    []core.Age
}{
	Species: []core.Species{core.SpeciesDog, core.SpeciesCat, core.SpeciesOther},
	Sizes:   []core.Size{core.SizeSmall, core.SizeMedium, core.SizeLarge},
	Ages:    []core.Age{core.AgePuppy, core.AgeYoungAdult, core.AgeAdult, core.AgeSenior},
}
