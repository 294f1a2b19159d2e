package agent

import (
	"fmt"
	"strings"

	"github.com/patware/priorart/internal/model"
)

const maxScoreItems = 40

const querySystemPrompt = `You draft patent prior-art search queries. ` +
	`Respond with JSON only: {"queries": ["...", ...]}. ` +
	`Mix Chinese and English phrasings when the profile is bilingual. ` +
	`Each query is 2-8 terms, no boolean operators.`

const scoreSystemPrompt = `You score patent search results for relevance to an invention profile. ` +
	`Respond with JSON only: {"items": [{"patent_number": "...", "url": "...", "score": 0.0, "reason": "..."}]}. ` +
	`Scores are 0..1. Score only from the given title and abstract; never invent records.`

func buildQueryPrompt(profile *model.InventionProfile, maxQueries int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Draft at most %d search queries for this invention.\n\n", maxQueries)
	writeProfile(&b, profile)
	return b.String()
}

func buildScorePrompt(profile *model.InventionProfile, items []model.PriorArtRecord) string {
	var b strings.Builder
	b.WriteString("Score each result for relevance to this invention.\n\n")
	writeProfile(&b, profile)
	b.WriteString("\nResults:\n")
	n := 0
	for _, it := range items {
		if it.IsPlaceholder() {
			continue
		}
		if n >= maxScoreItems {
			break
		}
		n++
		fmt.Fprintf(&b, "%d. patent_number=%s url=%s\n   title: %s\n", n, it.PatentNumber, it.URL, it.Title)
		if it.Abstract != "" {
			fmt.Fprintf(&b, "   abstract: %s\n", truncate(it.Abstract, 400))
		}
	}
	return b.String()
}

func writeProfile(b *strings.Builder, profile *model.InventionProfile) {
	if kws := append(append([]string{}, profile.Keywords.CN...), profile.Keywords.EN...); len(kws) > 0 {
		fmt.Fprintf(b, "Keywords: %s\n", strings.Join(kws, ", "))
	}
	if len(profile.KeyFeatures) > 0 {
		b.WriteString("Key features:\n")
		for _, f := range profile.KeyFeatures {
			fmt.Fprintf(b, "- %s\n", f.Text)
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
