package domain

import (
	"strings"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Earlier substring hits score higher
	ScorePositionBonus = 10.0

	// A title hit outranks the same hit inside the url
	ScoreTitleBonus = 20.0

	minSimilarityQuery = 4
)

// ScoreResource scores a resource against a filter query using its title and url.
func ScoreResource(query string, r *Resource) float64 {
	if r == nil {
		return 0.0
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return 0.0
	}

	titleScore := scoreField(query, strings.ToLower(r.Title))
	if titleScore > 0 {
		titleScore += ScoreTitleBonus
	}

	urlScore := scoreField(query, strings.ToLower(stripScheme(r.URL)))

	return max(titleScore, urlScore)
}

func scoreField(query, field string) float64 {
	if field == "" {
		return 0.0
	}

	if query == field {
		return ScoreExactMatch
	}

	if strings.HasPrefix(field, query) {
		return ScorePrefixMatch
	}

	if index := strings.Index(field, query); index >= 0 {
		substringBonus := ScorePositionBonus * (1.0 - float64(index)/float64(len(field)))
		return ScoreSubstringMatch + substringBonus
	}

	// Every query word appears somewhere in the field
	if words := strings.Fields(query); len(words) > 1 {
		allMatch := true
		for _, word := range words {
			if !strings.Contains(field, word) {
				allMatch = false
				break
			}
		}
		if allMatch {
			return ScoreFuzzyMatch
		}
	}

	// Short queries would match almost anything by rune overlap
	if len(query) < minSimilarityQuery {
		return 0.0
	}

	similarity := calculateSimilarity(query, field)
	if similarity > 0.8 {
		return ScoreFuzzyMatch * similarity
	}

	return 0.0
}

// calculateSimilarity is the share of query runes present in s.
func calculateSimilarity(query, s string) float64 {
	if query == "" || s == "" {
		return 0.0
	}

	total, matches := 0, 0
	for _, c := range query {
		total++
		if strings.ContainsRune(s, c) {
			matches++
		}
	}

	return float64(matches) / float64(total)
}

func stripScheme(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[i+3:]
	}
	return url
}

// FilterResources returns the resources matching query, keeping insertion
// order. A blank query matches everything.
func FilterResources(query string, resources []Resource) []Resource {
	if strings.TrimSpace(query) == "" {
		return resources
	}

	matches := make([]Resource, 0, len(resources))
	for i := range resources {
		if ScoreResource(query, &resources[i]) > 0 {
			matches = append(matches, resources[i])
		}
	}
	return matches
}
