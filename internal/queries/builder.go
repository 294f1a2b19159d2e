// Package queries derives patent search queries from an invention profile
// and merges them with externally supplied (agent) queries under an
// agent-first selection policy.
package queries

import (
	"fmt"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// Builder derives queries from an invention profile.
type Builder struct {
	MaxQueries     int
	MinQueryTokens int
}

// NewBuilder returns a Builder with the standard caps.
func NewBuilder(maxQueries, minQueryTokens int) *Builder {
	if maxQueries <= 0 {
		maxQueries = 8
	}
	if minQueryTokens <= 0 {
		minQueryTokens = 2
	}
	return &Builder{MaxQueries: maxQueries, MinQueryTokens: minQueryTokens}
}

// splitTerms cleans raw keyword terms, separating quality terms from
// garbled ones.
func splitTerms(raw []string) (kept, dropped []string) {
	for _, item := range raw {
		term := textutil.NormalizeKeyword(item)
		if term == "" {
			continue
		}
		if textutil.IsGarbled(term) {
			dropped = append(dropped, term)
			continue
		}
		kept = append(kept, term)
	}
	return textutil.Dedup(kept), textutil.Dedup(dropped)
}

// Build composes the profile-derived query set: a few combination queries
// over top keywords and feature tokens, then singleton fallbacks, all
// deduplicated, quality-gated and capped.
func (b *Builder) Build(profile *model.InventionProfile) model.QuerySet {
	kwsCN, droppedCN := splitTerms(profile.Keywords.CN)
	kwsEN, droppedEN := splitTerms(profile.Keywords.EN)
	kws := textutil.Dedup(append(append([]string{}, kwsCN...), kwsEN...))

	var featTokens []string
	var droppedFeatureFragments int
	for _, f := range profile.KeyFeatures {
		for _, t := range textutil.Tokens(f.Text) {
			featTokens = append(featTokens, strings.ToLower(t))
		}
		// Count fragments the garble gate rejected inside feature text.
		droppedFeatureFragments += garbledFragmentCount(f.Text)
	}
	featTokens = textutil.Dedup(featTokens)
	if len(featTokens) > 16 {
		featTokens = featTokens[:16]
	}

	var queries []string
	if len(kws) > 0 {
		queries = append(queries, strings.Join(head(kws, 3), " "))
		if len(kws) >= 6 {
			queries = append(queries, strings.Join(head(kws, 6), " "))
		}
		queries = append(queries, strings.Join(head(kws, 2), " "))
	}
	if len(featTokens) > 0 {
		queries = append(queries, strings.Join(head(featTokens, 5), " "))
		queries = append(queries, strings.Join(head(featTokens, 3), " "))
	}
	for _, k := range head(kws, b.MaxQueries) {
		if len(queries) >= b.MaxQueries {
			break
		}
		if !contains(queries, k) {
			queries = append(queries, k)
		}
	}

	valid := make([]string, 0, len(queries))
	for _, q := range queries {
		if textutil.IsQueryValid(q, b.MinQueryTokens) {
			valid = append(valid, q)
		}
	}
	valid = head(textutil.Dedup(valid), b.MaxQueries)

	var warnings []string
	droppedTotal := len(droppedCN) + len(droppedEN) + droppedFeatureFragments
	if droppedTotal > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"dropped %d garbled keyword/feature fragments (e.g., '?', replacement chars)", droppedTotal))
	}
	if len(valid) == 0 {
		warnings = append(warnings, "no valid queries generated")
	}

	return model.QuerySet{
		KeywordsCN:        kwsCN,
		KeywordsEN:        kwsEN,
		DroppedKeywordsCN: droppedCN,
		DroppedKeywordsEN: droppedEN,
		FeatureTokens:     featTokens,
		Queries:           valid,
		Warnings:          warnings,
		QuerySource:       model.QuerySourceProfile,
	}
}

// garbledFragmentCount counts raw token matches rejected by the garble gate.
func garbledFragmentCount(text string) int {
	n := 0
	for _, t := range textutil.AllTokenMatches(text) {
		if textutil.IsGarbled(t) {
			n++
		}
	}
	return n
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
