package similarity

import (
	"context"
	"strings"

	"github.com/poiesic/petmatch/core"
)

// Heuristic weights in points out of 100. Integer points keep the sum
// exact, so identical profiles score exactly 1.0.
const (
	speciesPoints  = 30
	sizePoints     = 20
	colorPoints    = 20
	featurePoints  = 20
	provincePoints = 5
	cantonPoints   = 3
	districtPoints = 2
	totalPoints    = 100
)

// Heuristic scores profiles by weighted field agreement. It needs no
// external services and never fails.
type Heuristic struct{}

var _ Scorer = Heuristic{}

// Name implements Scorer.
func (Heuristic) Name() string { return "heuristic" }

// Score implements Scorer.
func (Heuristic) Score(_ context.Context, query, candidate *core.PetProfile) (float64, error) {
	return HeuristicScore(query, candidate), nil
}

// HeuristicScore is the weighted sum of species, size, color overlap,
// feature overlap and nested location agreement, capped at 1.
func HeuristicScore(q, c *core.PetProfile) float64 {
	points := 0.0
	if q.Species == c.Species {
		points += speciesPoints
	}
	if q.Size == c.Size {
		points += sizePoints
	}
	points += colorPoints * Jaccard(q.Colors, c.Colors)
	points += featurePoints * Jaccard(q.DistinctiveFeatures, c.DistinctiveFeatures)

	ql, cl := &q.LastSeenLocation, &c.LastSeenLocation
	if ql.Province == cl.Province {
		points += provincePoints
		if ql.Canton == cl.Canton {
			points += cantonPoints
			if ql.District == cl.District {
				points += districtPoints
			}
		}
	}
	return core.ClampScore(points / totalPoints)
}

// Jaccard returns |a∩b| / |a∪b| over case-insensitive sets.
// It is 0 when either set is empty.
func Jaccard(a, b []string) float64 {
	sa, sb := lowerSet(a), lowerSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for k := range sa {
		if _, ok := sb[k]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// Intersection returns the case-insensitive intersection of a and b,
// lowercased, in the order items appear in a.
func Intersection(a, b []string) []string {
	sb := lowerSet(b)
	seen := make(map[string]struct{})
	var out []string
	for _, item := range a {
		k := strings.ToLower(strings.TrimSpace(item))
		if _, ok := sb[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		k := strings.ToLower(strings.TrimSpace(item))
		if k == "" {
			continue
		}
		set[k] = struct{}{}
	}
	return set
}
