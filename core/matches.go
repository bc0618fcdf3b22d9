package core

import (
	"encoding/json"
	"math"
	"slices"
)

// GeneralSimilarityReason is used when no specific matching rule fires.
const GeneralSimilarityReason = "General similarity in description"

// MatchCandidate is a stored report scored against a query profile.
// Candidates are derived per request and never stored.
type MatchCandidate struct {
	MatchID            string     `json:"match_id"`
	ReportType         ReportType `json:"report_type"`
	SimilarityScore    float64    `json:"similarity_score"`
	MatchingReasons    []string   `json:"matching_reasons"`
	LocationDistanceKm *float64   `json:"location_distance_km"`
	DaysSinceReport    *int       `json:"days_since_report"`
	PetName            string     `json:"pet_name,omitempty"`
	ContactAvailable   bool       `json:"contact_available"`
	ViewURL            string     `json:"view_url,omitempty"`
}

// NewMatchCandidate returns c with its score clamped to [0, 1] and rounded
// to three decimals, and with a generic reason if none were given.
func NewMatchCandidate(c MatchCandidate) MatchCandidate {
	c.SimilarityScore = RoundScore(ClampScore(c.SimilarityScore))
	if len(c.MatchingReasons) == 0 {
		c.MatchingReasons = []string{GeneralSimilarityReason}
	}
	if c.LocationDistanceKm != nil && *c.LocationDistanceKm < 0 {
		c.LocationDistanceKm = nil
	}
	if c.DaysSinceReport != nil && *c.DaysSinceReport < 0 {
		c.DaysSinceReport = nil
	}
	return c
}

// Equal reports whether two candidates carry the same field values.
func (c *MatchCandidate) Equal(o *MatchCandidate) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.MatchID == o.MatchID &&
		c.ReportType == o.ReportType &&
		c.SimilarityScore == o.SimilarityScore &&
		slices.Equal(c.MatchingReasons, o.MatchingReasons) &&
		equalPtr(c.LocationDistanceKm, o.LocationDistanceKm) &&
		equalPtr(c.DaysSinceReport, o.DaysSinceReport) &&
		c.PetName == o.PetName &&
		c.ContactAvailable == o.ContactAvailable &&
		c.ViewURL == o.ViewURL
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ClampScore bounds a score to [0, 1]. NaN becomes 0.
func ClampScore(s float64) float64 {
	if math.IsNaN(s) || s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// RoundScore rounds to three decimals.
func RoundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}

// MatchResult is the ranked outcome of matching one query profile.
//
// TopMatch, when non-nil, always points at an element of Candidates.
type MatchResult struct {
	Candidates           []MatchCandidate `json:"candidates"`
	TopMatch             *MatchCandidate  `json:"top_match"`
	ConfidenceLevel      Confidence       `json:"confidence_level"`
	TotalCandidatesFound int              `json:"total_candidates_found"`
	SearchTimestamp      string           `json:"search_timestamp"`
}

// NewMatchResult builds a MatchResult and links top to the matching element of candidates.
// A top match that is not among candidates is dropped.
func NewMatchResult(candidates []MatchCandidate, top *MatchCandidate, level Confidence, total int, timestamp string) MatchResult {
	if candidates == nil {
		candidates = []MatchCandidate{}
	}
	r := MatchResult{
		Candidates:           candidates,
		TopMatch:             top,
		ConfidenceLevel:      level,
		TotalCandidatesFound: max(total, len(candidates)),
		SearchTimestamp:      timestamp,
	}
	r.linkTopMatch()
	return r
}

func (r *MatchResult) linkTopMatch() {
	if r.TopMatch == nil {
		return
	}
	for i := range r.Candidates {
		if r.Candidates[i].Equal(r.TopMatch) {
			r.TopMatch = &r.Candidates[i]
			return
		}
	}
	r.TopMatch = nil
}

// UnmarshalJSON decodes the document form and re-links TopMatch into Candidates.
func (r *MatchResult) UnmarshalJSON(data []byte) error {
	type alias MatchResult
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = MatchResult(a)
	if r.Candidates == nil {
		r.Candidates = []MatchCandidate{}
	}
	r.linkTopMatch()
	return nil
}
