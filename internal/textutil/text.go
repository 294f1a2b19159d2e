// Package textutil holds the shared text-quality and tokenization helpers
// used by every pipeline stage. Profile and page text is frequently noisy
// bilingual (CN/EN) content, sometimes corrupted by encoding mismatches, so
// all stages funnel through the same garble gate and token pattern.
package textutil

import (
	"regexp"
	"strings"
)

// tokenRE matches either a Latin token (2-31 chars) or a CJK run of 2-8
// characters. CJK has no word boundaries, so short runs stand in for words.
var tokenRE = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_-]{1,30}|[\x{4e00}-\x{9fff}]{2,8}`)

// keywordNoiseRE strips bracket/quote noise around profile keywords.
var keywordNoiseRE = regexp.MustCompile(`[\[\]（）()"“”]`)

// mojibakeMarkers are CJK characters that almost never occur in real
// technical text but are common products of GBK/UTF-8 mis-decoding.
var mojibakeMarkers = func() map[rune]bool {
	m := make(map[rune]bool)
	for _, r := range "锛銆鍙鏃鏈鍥鍚鎴闂涓鸿澶勭悊" {
		m[r] = true
	}
	return m
}()

// IsGarbled reports whether text looks like mojibake: empty, containing the
// Unicode replacement character, question-mark dense, or dominated by known
// mis-decoded-character markers.
func IsGarbled(text string) bool {
	s := strings.TrimSpace(text)
	if s == "" {
		return true
	}
	if strings.ContainsRune(s, '�') {
		return true
	}
	runes := []rune(s)
	qCount := strings.Count(s, "?")
	if qCount >= 2 && float64(qCount)/float64(len(runes)) >= 0.2 {
		return true
	}
	if len(runes) >= 4 {
		hits := 0
		for _, r := range runes {
			if mojibakeMarkers[r] {
				hits++
			}
		}
		if float64(hits)/float64(len(runes)) >= 0.25 {
			return true
		}
	}
	return false
}

// NormalizeKeyword removes bracket/quote noise and trims.
func NormalizeKeyword(k string) string {
	return strings.TrimSpace(keywordNoiseRE.ReplaceAllString(k, ""))
}

// Dedup removes empty strings and duplicates, preserving first-seen order.
func Dedup(seq []string) []string {
	seen := make(map[string]bool, len(seq))
	out := make([]string, 0, len(seq))
	for _, s := range seq {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// AllTokenMatches returns every token pattern match in text, including
// garbled ones. Callers that need to report how much was rejected diff this
// against Tokens.
func AllTokenMatches(text string) []string {
	return tokenRE.FindAllString(text, -1)
}

// Tokens returns the raw token matches in text, garbled tokens excluded.
func Tokens(text string) []string {
	raw := tokenRE.FindAllString(text, -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if IsGarbled(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Tokenize lowercases and dedups the tokens in text.
func Tokenize(text string) []string {
	raw := Tokens(text)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		out = append(out, strings.ToLower(t))
	}
	return Dedup(out)
}

// QueryTokenCount counts quality tokens in a query string.
func QueryTokenCount(query string) int {
	return len(Tokens(query))
}

// IsQueryValid applies the query quality gate: non-empty, not garbled, and
// carrying at least minTokens quality tokens.
func IsQueryValid(query string, minTokens int) bool {
	q := strings.TrimSpace(query)
	if q == "" || IsGarbled(q) {
		return false
	}
	if minTokens < 1 {
		minTokens = 1
	}
	return QueryTokenCount(q) >= minTokens
}
