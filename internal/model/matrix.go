package model

// Novelty labels for one (feature, document) cell.
const (
	LabelNo      = "NO"
	LabelPartial = "PARTIAL"
	LabelYes     = "YES"
)

// NoveltyCell is one cell of the feature x document matrix.
type NoveltyCell struct {
	FeatureID        string   `json:"feature_id"`
	Feature          string   `json:"feature"`
	Tokens           []string `json:"tokens"`
	ScoreClaims      float64  `json:"score_claims"`
	ScoreAbstract    float64  `json:"score_abstract"`
	ScoreBest        float64  `json:"score_best"`
	Label            string   `json:"label"`
	EvidenceSnippets []string `json:"evidence_snippets"`
}

// NoveltyCandidate ranks a feature by how often it is absent from prior art.
type NoveltyCandidate struct {
	FeatureID    string   `json:"feature_id"`
	Feature      string   `json:"feature"`
	NoRatio      float64  `json:"no_ratio"`
	PartialRatio float64  `json:"partial_ratio"`
	YesCount     int      `json:"yes_count"`
	PartialCount int      `json:"partial_count"`
	NoCount      int      `json:"no_count"`
	Tokens       []string `json:"tokens"`
}

// PairCandidate flags a feature pair that appears across documents
// individually but rarely together.
type PairCandidate struct {
	Pair       []string `json:"pair"`
	Features   []string `json:"features"`
	UnionRatio float64  `json:"union_ratio"`
	CoRatio    float64  `json:"co_ratio"`
	Note       string   `json:"note"`
}

// ClaimsQualityGate summarizes claims-extraction quality over the documents
// that entered the matrix.
type ClaimsQualityGate struct {
	ClaimsOK         int            `json:"claims_ok"`
	ClaimsTotal      int            `json:"claims_total"`
	ClaimsOKRatio    float64        `json:"claims_ok_ratio"`
	StatusCounts     map[string]int `json:"claims_status_counts"`
	MinClaimsOKRatio float64        `json:"min_claims_ok_ratio"`
	Pass             bool           `json:"pass"`
}

// MatrixDocument is the per-document summary kept in the matrix artifact.
type MatrixDocument struct {
	Source       string  `json:"source"`
	PatentNumber string  `json:"patent_number,omitempty"`
	Title        string  `json:"title,omitempty"`
	URL          string  `json:"url,omitempty"`
	Abstract     string  `json:"abstract,omitempty"`
	ClaimsStatus string  `json:"claims_status"`
	OverallMatch float64 `json:"overall_match,omitempty"`
}

// NoveltyMatrix is the novelty_matrix.json artifact.
type NoveltyMatrix struct {
	FeatureIDs        []string           `json:"feature_ids"`
	Features          []string           `json:"features"`
	Documents         []MatrixDocument   `json:"documents"`
	QualityGate       ClaimsQualityGate  `json:"quality_gate"`
	TopPriorArt       []MatrixDocument   `json:"top_prior_art"`
	Matrix            [][]NoveltyCell    `json:"matrix"`
	NoveltyCandidates []NoveltyCandidate `json:"novelty_candidates"`
	PairCandidates    []PairCandidate    `json:"pair_candidates"`
	Note              string             `json:"note"`
}
