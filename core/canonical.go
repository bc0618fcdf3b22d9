package core

import (
	"fmt"
	"strings"
)

// CanonicalSeparator joins the sections of a canonical text serialization.
const CanonicalSeparator = " | "

// CanonicalText renders a profile into the stable string used as embedding input.
// Sections appear in a fixed order: size and species, breed, colors, features,
// age, location, location details. Optional sections are omitted when empty.
func CanonicalText(p *PetProfile) string {
	parts := make([]string, 0, 7)
	parts = append(parts, fmt.Sprintf("%s %s", p.Size, p.Species))
	if p.Breed != "" {
		parts = append(parts, "breed: "+p.Breed)
	}
	parts = append(parts, "colors: "+strings.Join(p.Colors, ", "))
	if len(p.DistinctiveFeatures) > 0 {
		parts = append(parts, "features: "+strings.Join(p.DistinctiveFeatures, ", "))
	}
	if p.ApproximateAge != AgeUnknown {
		parts = append(parts, "age: "+string(p.ApproximateAge))
	}
	loc := p.LastSeenLocation
	parts = append(parts, fmt.Sprintf("location: %s, %s, %s", loc.District, loc.Canton, loc.Province))
	if loc.AdditionalDetails != "" {
		parts = append(parts, "details: "+loc.AdditionalDetails)
	}
	return strings.Join(parts, CanonicalSeparator)
}

// ContentKey is the cache key for a profile's embedding.
func ContentKey(p *PetProfile) ID {
	return IDFromContent(CanonicalText(p))
}
