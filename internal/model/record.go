package model

import "strings"

// Accepted prior-art providers. Records labeled with anything else are
// rejected by strict validation.
const (
	SourceGooglePatents = "Google Patents"
	SourceLens          = "Lens.org"
	SourceEspacenet     = "Espacenet"
	SourceCNIPA         = "CNIPA"
)

// AcceptedSources is the closed set of provider labels allowed in prior_art
// artifacts.
var AcceptedSources = map[string]bool{
	SourceGooglePatents: true,
	SourceLens:          true,
	SourceEspacenet:     true,
	SourceCNIPA:         true,
}

// ForbiddenSourceMarkers flag source labels that indicate fabricated or
// test data leaking into a real run.
var ForbiddenSourceMarkers = []string{"manual", "fallback", "synthetic", "mock", "test"}

// PriorArtRecord is one retrieved prior-art candidate (title/abstract level).
// Placeholder records carry only Note + URL and are produced by scrape
// providers that found nothing extractable.
type PriorArtRecord struct {
	Source       string `json:"source"`
	PatentNumber string `json:"patent_number,omitempty"`
	Title        string `json:"title,omitempty"`
	Abstract     string `json:"abstract,omitempty"`
	Assignee     string `json:"assignee,omitempty"`
	FilingDate   string `json:"filing_date,omitempty"`
	URL          string `json:"url,omitempty"`
	Note         string `json:"note,omitempty"`

	Query      string `json:"query,omitempty"`
	QueryIndex int    `json:"query_index,omitempty"`

	// SimilarityScore is the legacy keyword-hit score on a 0-100 scale.
	SimilarityScore *float64 `json:"similarity_score,omitempty"`

	// Relevance fields are filled by the rerank stage (0-1 scale).
	RelevanceScore          *float64            `json:"relevance_score,omitempty"`
	RelevanceScoreHeuristic *float64            `json:"relevance_score_heuristic,omitempty"`
	RelevanceScoreAgent     *float64            `json:"relevance_score_agent,omitempty"`
	RelevanceScoreMode      string              `json:"relevance_score_mode,omitempty"`
	RelevanceBreakdown      *RelevanceBreakdown `json:"relevance_breakdown,omitempty"`
	RelevanceReason         string              `json:"relevance_reason,omitempty"`
	RelevanceRank           int                 `json:"relevance_rank,omitempty"`
}

// RelevanceBreakdown exposes the sub-scores behind a heuristic relevance
// score so reranking stays explainable.
type RelevanceBreakdown struct {
	PhraseHits       int     `json:"phrase_hits"`
	TitlePhraseHits  int     `json:"title_phrase_hits"`
	TokenHits        int     `json:"token_hits"`
	QueryHits        int     `json:"query_hits"`
	PhraseScore      float64 `json:"phrase_score"`
	TitlePhraseScore float64 `json:"title_phrase_score"`
	TokenScore       float64 `json:"token_score"`
	QueryScore       float64 `json:"query_score"`
}

// IsPlaceholder reports whether the record is a search-link placeholder
// rather than a real candidate.
func (r *PriorArtRecord) IsPlaceholder() bool {
	return r.Note != ""
}

// IdentityKey returns the dedup key: (source, patent_number) when the number
// is present, else (source, url), else (source, title).
func (r *PriorArtRecord) IdentityKey() string {
	pn := strings.ToUpper(strings.TrimSpace(r.PatentNumber))
	if pn != "" {
		return r.Source + "\x00pn\x00" + pn
	}
	if url := strings.TrimSpace(r.URL); url != "" {
		return r.Source + "\x00url\x00" + url
	}
	return r.Source + "\x00title\x00" + r.Title
}
