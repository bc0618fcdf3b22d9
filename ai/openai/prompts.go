package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/petmatch/ai"
	"github.com/poiesic/petmatch/core"
)

const extractorSystemPrompt = "You are a precise information extractor. Output only valid JSON."

const explainerSystemPrompt = "You are a helpful assistant specializing in lost pet recovery."

const attributeSchemaTemplate = `{
  "species": "%s",
  "size": "%s",
  "colors": ["color1", "color2"],
  "distinctive_features": ["feature1", "feature2"],
  "breed": "breed name or null if unknown",
  "approximate_age": "%s or null if unknown"
}`

const imagePromptTemplate = `Analyze these pet images and extract the following information in JSON format:
%s

Be specific about distinctive features like: collar color, ear shape, markings, scars, tail characteristics, eye color, etc.
Output ONLY the JSON object. Start your response directly with { and end with }.`

const textPromptTemplate = `Analyze this pet description and extract information in JSON format:

Description: %q
Location: %s

Extract:
%s

Be conservative - only extract information explicitly mentioned. Use null for anything not stated.
Output ONLY the JSON object. Start your response directly with { and end with }.`

const explainPromptTemplate = `You are helping someone find their lost pet. Analyze these results and provide a clear, empathetic explanation.

PET PROFILE:
%s

MATCH RESULTS:
Confidence Level: %s
Total Candidates Found: %d
Matches Above Threshold: %d

%s

Write a 2-3 sentence explanation that:
1. Summarizes the search results
2. Highlights the most promising match (if any)
3. Is empathetic and encouraging
4. Is specific about matching details

Be concise but warm. Don't use phrases like "I found" - speak directly about the results.`

// promptMatches is the number of top candidates described to the explainer.
const promptMatches = 3

// promptReasons is the number of reasons listed per described candidate.
const promptReasons = 4

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, "|")
}

func attributeSchema() string {
	return fmt.Sprintf(attributeSchemaTemplate,
		joinValues(ai.Vocabulary.Species),
		joinValues(ai.Vocabulary.Sizes),
		joinValues(ai.Vocabulary.Ages))
}

func buildImagePrompt() string {
	return fmt.Sprintf(imagePromptTemplate, attributeSchema())
}

func buildTextPrompt(description string, loc core.Location) string {
	where := fmt.Sprintf("%s, %s, %s", loc.District, loc.Canton, loc.Province)
	return fmt.Sprintf(textPromptTemplate, collapseSpace(description), where, attributeSchema())
}

func buildExplainPrompt(profile *core.PetProfile, result *core.MatchResult) string {
	return fmt.Sprintf(explainPromptTemplate,
		formatProfile(profile),
		result.ConfidenceLevel,
		result.TotalCandidatesFound,
		len(result.Candidates),
		formatMatches(result))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func formatProfile(p *core.PetProfile) string {
	features := "none specified"
	if len(p.DistinctiveFeatures) > 0 {
		features = strings.Join(p.DistinctiveFeatures, ", ")
	}
	return fmt.Sprintf("Species: %s\nSize: %s\nColors: %s\nDistinctive Features: %s\nBreed: %s\nLocation: %s, %s",
		p.Species, p.Size, strings.Join(p.Colors, ", "), features,
		orDefault(p.Breed, "unknown"),
		p.LastSeenLocation.Canton, p.LastSeenLocation.Province)
}

func formatMatches(result *core.MatchResult) string {
	if len(result.Candidates) == 0 {
		return "No matches found above similarity threshold."
	}

	blocks := make([]string, 0, promptMatches)
	for i, m := range result.Candidates[:min(len(result.Candidates), promptMatches)] {
		var b strings.Builder
		fmt.Fprintf(&b, "Match %d (%s):\n", i+1, m.MatchID)
		fmt.Fprintf(&b, "  - Type: %s\n", m.ReportType)
		fmt.Fprintf(&b, "  - Similarity: %.2f%%\n", m.SimilarityScore*100)
		if m.LocationDistanceKm != nil {
			fmt.Fprintf(&b, "  - Distance: %.1fkm\n", *m.LocationDistanceKm)
		}
		if m.DaysSinceReport != nil {
			fmt.Fprintf(&b, "  - Days ago: %d\n", *m.DaysSinceReport)
		}
		fmt.Fprintf(&b, "  - Reasons: %s", strings.Join(m.MatchingReasons[:min(len(m.MatchingReasons), promptReasons)], "; "))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
