package matching

import (
	"fmt"
	"strings"

	"github.com/poiesic/petmatch/core"
	"github.com/poiesic/petmatch/similarity"
)

// Reasons lists the human-readable ways candidate agrees with query.
// The result is never empty.
func Reasons(query, candidate *core.PetProfile) []string {
	var reasons []string

	if query.Species == candidate.Species {
		reasons = append(reasons, fmt.Sprintf("Same species (%s)", query.Species))
	}
	if query.Size == candidate.Size {
		reasons = append(reasons, fmt.Sprintf("Same size (%s)", query.Size))
	}
	if common := similarity.Intersection(query.Colors, candidate.Colors); len(common) > 0 {
		reasons = append(reasons, "Matching colors: "+strings.Join(common, ", "))
	}
	if common := similarity.Intersection(query.DistinctiveFeatures, candidate.DistinctiveFeatures); len(common) > 0 {
		reasons = append(reasons, "Similar features: "+strings.Join(common, ", "))
	}
	if breedsOverlap(query.Breed, candidate.Breed) {
		reasons = append(reasons, fmt.Sprintf("Similar breed (%s)", query.Breed))
	}

	ql, cl := &query.LastSeenLocation, &candidate.LastSeenLocation
	if ql.Province == cl.Province {
		if ql.Canton == cl.Canton {
			reasons = append(reasons, fmt.Sprintf("Same area (%s)", ql.Canton))
		} else {
			reasons = append(reasons, fmt.Sprintf("Same province (%s)", ql.Province))
		}
	}

	if len(reasons) == 0 {
		return []string{core.GeneralSimilarityReason}
	}
	return reasons
}

// breedsOverlap reports whether either breed contains the other, ignoring case.
func breedsOverlap(a, b string) bool {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
