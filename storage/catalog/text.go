package catalog

import (
	"strings"

	"github.com/poiesic/petmatch/core"
)

// Words ignored by free-text queries. Reports are filed in English and Spanish.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"to": true, "of": true, "and": true, "in": true, "on": true, "with": true,
	"at": true, "by": true, "from": true, "near": true,
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true,
	"de": true, "del": true, "y": true, "en": true, "con": true, "por": true,
}

// tokenize splits text into lowercased words, trims punctuation and drops stop words.
func tokenize(text string) []string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			out = append(out, cleaned)
		}
	}
	return out
}

// searchableText is the text a free-text query is matched against.
func searchableText(r *core.Report) string {
	p := &r.Profile
	parts := make([]string, 0, 4+len(p.Colors)+len(p.DistinctiveFeatures))
	parts = append(parts, r.RawDescription, p.Breed, r.PetName, p.LastSeenLocation.Canton)
	parts = append(parts, p.Colors...)
	parts = append(parts, p.DistinctiveFeatures...)
	return strings.Join(parts, " ")
}

// containsAllWords reports whether every query word appears in the report.
// A query made only of stop words matches nothing.
func containsAllWords(r *core.Report, queryWords []string) bool {
	if len(queryWords) == 0 {
		return false
	}
	docWords := tokenize(searchableText(r))
	set := make(map[string]bool, len(docWords))
	for _, w := range docWords {
		set[w] = true
	}
	for _, w := range queryWords {
		if !set[w] {
			return false
		}
	}
	return true
}
