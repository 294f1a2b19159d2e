package rerank

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/patware/priorart/internal/textutil"
)

// AgentScore is one externally supplied relevance judgment.
type AgentScore struct {
	Score  float64
	Reason string
}

// agentRecord tolerates the field-name variants agent outputs use.
type agentRecord struct {
	PatentNumber   string   `json:"patent_number"`
	URL            string   `json:"url"`
	Score          *float64 `json:"score"`
	RelevanceScore *float64 `json:"relevance_score"`
	SemanticScore  *float64 `json:"semantic_score"`
	Reason         string   `json:"reason"`
	Note           string   `json:"note"`
}

// LoadAgentScores reads an agent score file (bare list or {items:[...]}) into
// a map keyed by normalized patent number, falling back to url. Records
// without a key or score are skipped.
func LoadAgentScores(path string) (map[string]AgentScore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent score file: %w", err)
	}
	var records []agentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var obj struct {
			Items []agentRecord `json:"items"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("parse agent score file %s: %w", path, err)
		}
		records = obj.Items
	}

	out := make(map[string]AgentScore, len(records))
	for _, r := range records {
		key := textutil.NormalizePatentNumber(r.PatentNumber)
		if key == "" {
			key = strings.TrimSpace(r.URL)
		}
		if key == "" {
			continue
		}
		score := r.Score
		if score == nil {
			score = r.RelevanceScore
		}
		if score == nil {
			score = r.SemanticScore
		}
		if score == nil {
			continue
		}
		reason := strings.TrimSpace(r.Reason)
		if reason == "" {
			reason = strings.TrimSpace(r.Note)
		}
		out[key] = AgentScore{Score: NormalizeScore(*score), Reason: reason}
	}
	return out, nil
}
