// Package rerank orders prior-art records by relevance to the invention
// profile. The heuristic score is fully explainable (the breakdown is
// persisted per record) and can be blended with externally supplied agent
// scores.
package rerank

import (
	"math"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// Sub-score weights. Phrase and title matches dominate; token overlap is the
// secondary signal.
const (
	weightPhrase      = 0.40
	weightTitlePhrase = 0.25
	weightToken       = 0.25
	weightQuery       = 0.10
)

// ProfileTerms extracts the match vocabulary from a profile: lowercased
// phrases (keywords plus feature texts, garbled ones excluded) and the token
// set over them.
func ProfileTerms(profile *model.InventionProfile) (phrases, tokens []string) {
	for _, k := range append(append([]string{}, profile.Keywords.CN...), profile.Keywords.EN...) {
		s := strings.TrimSpace(k)
		if s == "" || textutil.IsGarbled(s) {
			continue
		}
		phrases = append(phrases, strings.ToLower(s))
	}
	for _, f := range profile.KeyFeatures {
		s := strings.TrimSpace(f.Text)
		if s == "" || textutil.IsGarbled(s) {
			continue
		}
		phrases = append(phrases, strings.ToLower(s))
	}
	phrases = textutil.Dedup(phrases)

	for _, p := range phrases {
		tokens = append(tokens, textutil.Tokenize(p)...)
	}
	return phrases, textutil.Dedup(tokens)
}

// ScoreRecord computes the heuristic relevance of one record, in [0,1], with
// the sub-score breakdown.
func ScoreRecord(it *model.PriorArtRecord, phrases, profileTokens []string) (float64, model.RelevanceBreakdown) {
	title := strings.TrimSpace(it.Title)
	abstract := strings.TrimSpace(it.Abstract)
	combined := strings.ToLower(title + "\n" + abstract)
	titleL := strings.ToLower(title)

	phraseHits, titlePhraseHits := 0, 0
	for _, p := range phrases {
		if p != "" && strings.Contains(combined, p) {
			phraseHits++
			if strings.Contains(titleL, p) {
				titlePhraseHits++
			}
		}
	}

	docTokens := toSet(textutil.Tokenize(combined))
	tokenHits := 0
	for _, t := range profileTokens {
		if docTokens[t] {
			tokenHits++
		}
	}

	queryTokens := textutil.Tokenize(it.Query)
	queryHits := 0
	for _, t := range queryTokens {
		if docTokens[t] {
			queryHits++
		}
	}

	phraseScore := float64(phraseHits) / float64(maxInt(1, len(phrases)))
	titlePhraseScore := float64(titlePhraseHits) / float64(maxInt(1, len(phrases)))
	tokenScore := float64(tokenHits) / float64(maxInt(1, len(profileTokens)))
	queryScore := 0.0
	if len(queryTokens) > 0 {
		queryScore = float64(queryHits) / float64(len(queryTokens))
	}

	heuristic := weightPhrase*phraseScore + weightTitlePhrase*titlePhraseScore +
		weightToken*tokenScore + weightQuery*queryScore
	heuristic = clamp01(heuristic)

	return heuristic, model.RelevanceBreakdown{
		PhraseHits:       phraseHits,
		TitlePhraseHits:  titlePhraseHits,
		TokenHits:        tokenHits,
		QueryHits:        queryHits,
		PhraseScore:      round4(phraseScore),
		TitlePhraseScore: round4(titlePhraseScore),
		TokenScore:       round4(tokenScore),
		QueryScore:       round4(queryScore),
	}
}

// NormalizeScore maps an external score onto [0,1]. Values above 1 are read
// as 0-100 style and divided by 100.
func NormalizeScore(f float64) float64 {
	if f > 1.0 {
		f = f / 100.0
	}
	return clamp01(f)
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[s] = true
	}
	return set
}
