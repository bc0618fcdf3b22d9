package matching

import (
	"time"

	"github.com/poiesic/petmatch/core"
)

// Confidence tier boundaries, inclusive.
const (
	HighConfidenceScore   = 0.8
	MediumConfidenceScore = 0.6
)

// Notification thresholds used by ShouldNotify.
const (
	NotifyScore            = 0.75
	NotifyNearbyScore      = 0.6
	NotifyNearbyDistanceKm = 5.0
	NotifyRecentScore      = 0.65
	NotifyRecentDays       = 7
)

// ClassifyScore maps a top score to a confidence tier.
func ClassifyScore(score float64) core.Confidence {
	switch {
	case score >= HighConfidenceScore:
		return core.ConfidenceHigh
	case score >= MediumConfidenceScore:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}

// Classify assigns a confidence tier from the first (best) candidate.
// An empty list is ConfidenceNone.
func Classify(candidates []core.MatchCandidate) core.Confidence {
	if len(candidates) == 0 {
		return core.ConfidenceNone
	}
	return ClassifyScore(candidates[0].SimilarityScore)
}

// ShouldNotify reports whether a candidate is significant enough to alert
// the reporter: a strong score, a decent score close by, or a decent score
// on a recent sighting. Unknown distance or age never satisfies its rule.
func ShouldNotify(c *core.MatchCandidate) bool {
	if c.SimilarityScore >= NotifyScore {
		return true
	}
	if c.SimilarityScore >= NotifyNearbyScore &&
		c.LocationDistanceKm != nil && *c.LocationDistanceKm < NotifyNearbyDistanceKm {
		return true
	}
	return c.ReportType == core.ReportTypeSighting &&
		c.DaysSinceReport != nil && *c.DaysSinceReport <= NotifyRecentDays &&
		c.SimilarityScore >= NotifyRecentScore
}

// NewResult packages ranked candidates into a MatchResult.
// The top match is the first candidate; totalScored is the pool size
// before threshold filtering.
func NewResult(candidates []core.MatchCandidate, totalScored int, at time.Time) core.MatchResult {
	var top *core.MatchCandidate
	if len(candidates) > 0 {
		top = &candidates[0]
	}
	return core.NewMatchResult(candidates, top, Classify(candidates), totalScored, at.Format(time.RFC3339Nano))
}
