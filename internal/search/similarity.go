package search

import (
	"math"
	"sort"
	"strings"

	"github.com/patware/priorart/internal/model"
)

// AnalyzeSimilarity assigns the legacy keyword-hit similarity score (0-100)
// to each non-placeholder record and sorts descending by it. The score is the
// fraction of whitespace-separated query keywords found in title+abstract.
func AnalyzeSimilarity(query string, items []model.PriorArtRecord) []model.PriorArtRecord {
	kwSet := make(map[string]bool)
	for _, kw := range strings.Fields(strings.ToLower(strings.TrimSpace(query))) {
		kwSet[kw] = true
	}

	for i := range items {
		if items[i].IsPlaceholder() {
			continue
		}
		score := 0.0
		if len(kwSet) > 0 {
			text := strings.ToLower(items[i].Title + " " + items[i].Abstract)
			matched := 0
			for kw := range kwSet {
				if strings.Contains(text, kw) {
					matched++
				}
			}
			score = math.Round(float64(matched)/float64(len(kwSet))*1000) / 10
		}
		s := score
		items[i].SimilarityScore = &s
	}

	sort.SliceStable(items, func(a, b int) bool {
		return similarityOf(items[a]) > similarityOf(items[b])
	})
	return items
}

func similarityOf(it model.PriorArtRecord) float64 {
	if it.SimilarityScore == nil {
		return 0
	}
	return *it.SimilarityScore
}
