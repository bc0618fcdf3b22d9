package explain

import (
	"fmt"
	"strings"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
)

// FocusDistanceKm is the distance under which medium-confidence advice
// narrows the search area.
const FocusDistanceKm = 5.0

// maxEmphasizedFeatures bounds the features named in the posting advice.
const maxEmphasizedFeatures = 3

var strength = map[core.Confidence]string{
	core.ConfidenceHigh:   "strong",
	core.ConfidenceMedium: "moderate",
	core.ConfidenceLow:    "weak",
}

// Fallback renders a deterministic explanation of result: the number of
// candidates, the top match id, its score and its distance.
func Fallback(profile *core.PetProfile, result *core.MatchResult) string {
	if len(result.Candidates) == 0 || result.TopMatch == nil {
		return fmt.Sprintf("No matches found yet for this %s %s. We'll keep searching and notify you of new reports in %s.",
			profile.Size, profile.Species, profile.LastSeenLocation.Canton)
	}

	top := result.TopMatch
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d potential %s with %s similarity. ",
		len(result.Candidates), plural(len(result.Candidates), "match", "matches"), strength[result.ConfidenceLevel])
	fmt.Fprintf(&b, "The top match (%s) has a %.0f%% similarity score", top.MatchID, top.SimilarityScore*100)
	if top.LocationDistanceKm != nil {
		fmt.Fprintf(&b, " and is located %.1fkm away", *top.LocationDistanceKm)
	}
	b.WriteString(". Review the details and contact the reporter if it looks promising.")
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Recommendations returns rule-based next steps for the reporter, at most
// ai.MaxRecommendations items.
func Recommendations(profile *core.PetProfile, result *core.MatchResult) []string {
	var recs []string

	switch {
	case len(result.Candidates) == 0 || result.TopMatch == nil:
		recs = append(recs,
			"Continue monitoring for new sightings in your area",
			"Post on local social media groups and pet recovery pages",
			"Visit nearby shelters and veterinary clinics",
			"Put up physical flyers in the neighborhood",
			"Check back regularly as new reports are added daily",
		)

	case result.ConfidenceLevel == core.ConfidenceHigh:
		top := result.TopMatch
		recs = append(recs,
			fmt.Sprintf("Contact the reporter of %s immediately, this is a strong match", top.MatchID),
			"Bring photos of your pet when meeting to verify identity",
			"Ask specific questions about distinctive features to confirm",
			"Be prepared to provide proof of ownership if the pet is found",
		)
		if top.ReportType == core.ReportTypeSighting {
			recs = append(recs, fmt.Sprintf("Visit the sighting location (%s) as soon as possible", profile.LastSeenLocation.Canton))
		}

	case result.ConfidenceLevel == core.ConfidenceMedium:
		recs = append(recs,
			"Review the potential matches carefully and contact reporters for more details",
			"Ask for additional photos or descriptions to verify",
			"Continue active searching in the reported areas",
			"Post your pet's information on local lost pet groups",
		)
		if d := result.TopMatch.LocationDistanceKm; d != nil && *d > 0 && *d < FocusDistanceKm {
			recs = append(recs, fmt.Sprintf("Focus search efforts within %.1fkm of last known location", *d))
		}

	default:
		recs = append(recs,
			"The matches found have low similarity, continue searching",
			"Expand your search radius to nearby areas",
			"Post detailed descriptions and clear photos on multiple platforms",
			"Contact local animal control and shelters with your pet's description",
			"Consider offering a reward to increase community engagement",
		)
	}

	if len(profile.DistinctiveFeatures) > 0 {
		features := profile.DistinctiveFeatures[:min(len(profile.DistinctiveFeatures), maxEmphasizedFeatures)]
		recs = append(recs, "When posting, emphasize distinctive features: "+strings.Join(features, ", "))
	}

	return Clean(recs)
}

// Clean trims actions, drops blank ones and caps the list at
// ai.MaxRecommendations.
func Clean(actions []string) []string {
	out := make([]string, 0, min(len(actions), ai.MaxRecommendations))
	for _, a := range actions {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		out = append(out, a)
		if len(out) == ai.MaxRecommendations {
			break
		}
	}
	return out
}

// Summary is the one-sentence confidence summary for a tier.
func Summary(level core.Confidence) string {
	switch level {
	case core.ConfidenceHigh:
		return "High confidence match found! This could be your pet."
	case core.ConfidenceMedium:
		return "Moderate confidence matches found. Worth investigating further."
	case core.ConfidenceLow:
		return "Low confidence matches. Continue searching and monitoring."
	default:
		return "No strong matches found yet. Keep searching and check back regularly."
	}
}
