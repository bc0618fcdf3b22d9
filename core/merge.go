package core

import "strings"

// PartialAttributes is one independently derived set of pet attributes,
// such as the output of image analysis or of text analysis.
// A nil pointer means the source did not determine the attribute.
type PartialAttributes struct {
	Species             *Species
	Size                *Size
	Colors              []string
	DistinctiveFeatures []string
	Breed               *string
	ApproximateAge      *Age
}

// IsEmpty reports whether the source determined nothing at all.
func (a PartialAttributes) IsEmpty() bool {
	return a.Species == nil && a.Size == nil && a.Breed == nil && a.ApproximateAge == nil &&
		len(a.Colors) == 0 && len(a.DistinctiveFeatures) == 0
}

// Defaults applied when neither source determines a required attribute.
const (
	DefaultSpecies = SpeciesOther
	DefaultSize    = SizeMedium
	UnknownColor   = "unknown"
)

// MergeAttributes builds a validated PetProfile from image-derived and text-derived attributes.
//
// Scalar fields prefer the image value, then the text value, then a default.
// Colors and features are the union of both sources in order, image first,
// de-duplicated case-insensitively keeping the first spelling.
// A profile with no colors gets UnknownColor. If the merged data still fails
// validation, a minimal profile at loc is returned instead; MergeAttributes never fails.
func MergeAttributes(image, text PartialAttributes, loc Location, lastSeenDate string) PetProfile {
	merged := PetProfile{
		Species:             firstOf(image.Species, text.Species, DefaultSpecies),
		Size:                firstOf(image.Size, text.Size, DefaultSize),
		Colors:              mergeLists(image.Colors, text.Colors),
		DistinctiveFeatures: mergeLists(image.DistinctiveFeatures, text.DistinctiveFeatures),
		Breed:               firstOf(image.Breed, text.Breed, ""),
		ApproximateAge:      firstOf(image.ApproximateAge, text.ApproximateAge, AgeUnknown),
		LastSeenLocation:    loc,
		LastSeenDate:        lastSeenDate,
	}
	if len(merged.Colors) == 0 {
		merged.Colors = []string{UnknownColor}
	}

	profile, err := NewPetProfile(merged)
	if err != nil {
		return MinimalProfile(loc)
	}
	return profile
}

// MinimalProfile is the fallback profile used when merged attributes are unusable.
func MinimalProfile(loc Location) PetProfile {
	return PetProfile{
		Species:             DefaultSpecies,
		Size:                DefaultSize,
		Colors:              []string{UnknownColor},
		DistinctiveFeatures: []string{},
		LastSeenLocation:    loc,
	}
}

// firstOf returns the first non-nil, non-zero value, or fallback.
func firstOf[T ~string](a, b *T, fallback T) T {
	if a != nil && strings.TrimSpace(string(*a)) != "" {
		return *a
	}
	if b != nil && strings.TrimSpace(string(*b)) != "" {
		return *b
	}
	return fallback
}

// mergeLists concatenates lists, dropping blanks and case-insensitive duplicates.
func mergeLists(first, second []string) []string {
	seen := make(map[string]struct{}, len(first)+len(second))
	out := make([]string, 0, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, item := range list {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			key := strings.ToLower(item)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
