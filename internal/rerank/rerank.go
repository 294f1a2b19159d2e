package rerank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// Relevance score modes persisted on records.
const (
	ModeHeuristicOnly = "heuristic_only"
	ModeAgentBlend    = "agent_blend"
)

// Rerank scores every record against the profile, blends agent scores where
// present, and returns the records sorted by relevance with ranks assigned.
// agentWeight is clamped to [0,1]; agent may be nil.
func Rerank(items []model.PriorArtRecord, profile *model.InventionProfile, agent map[string]AgentScore, agentWeight float64) ([]model.PriorArtRecord, error) {
	phrases, tokens := ProfileTerms(profile)
	if len(phrases) == 0 && len(tokens) == 0 {
		return nil, fmt.Errorf("profile has no usable keywords/features for reranking")
	}
	w := clamp01(agentWeight)

	out := make([]model.PriorArtRecord, len(items))
	copy(out, items)
	for i := range out {
		heur, breakdown := ScoreRecord(&out[i], phrases, tokens)

		agentScore, agentReason, hasAgent := lookupAgent(agent, &out[i])
		final := heur
		mode := ModeHeuristicOnly
		if hasAgent {
			final = w*agentScore + (1-w)*heur
			mode = ModeAgentBlend
			a := round4(agentScore)
			out[i].RelevanceScoreAgent = &a
		}

		score := round4(clamp01(final))
		h := round4(heur)
		out[i].RelevanceScore = &score
		out[i].RelevanceScoreHeuristic = &h
		out[i].RelevanceScoreMode = mode
		out[i].RelevanceBreakdown = &breakdown
		if agentReason != "" {
			out[i].RelevanceReason = agentReason
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := scoreOrZero(out[a].RelevanceScore), scoreOrZero(out[b].RelevanceScore)
		if ra != rb {
			return ra > rb
		}
		sa, sb := scoreOrZero(out[a].SimilarityScore), scoreOrZero(out[b].SimilarityScore)
		if sa != sb {
			return sa > sb
		}
		return hasAbstract(&out[a]) && !hasAbstract(&out[b])
	})
	for i := range out {
		out[i].RelevanceRank = i + 1
	}
	return out, nil
}

// lookupAgent resolves the agent score for a record: by normalized patent
// number first, then by url.
func lookupAgent(agent map[string]AgentScore, it *model.PriorArtRecord) (float64, string, bool) {
	if len(agent) == 0 {
		return 0, "", false
	}
	pn := textutil.NormalizePatentNumber(it.PatentNumber)
	url := strings.TrimSpace(it.URL)
	key := pn
	if key == "" {
		key = url
	}
	if s, ok := agent[key]; ok {
		return s.Score, s.Reason, true
	}
	if pn != "" && url != "" {
		if s, ok := agent[url]; ok {
			return s.Score, s.Reason, true
		}
	}
	return 0, "", false
}

// TopKAverage returns the mean relevance of the first k records (the list is
// already sorted). k is floored at 1.
func TopKAverage(items []model.PriorArtRecord, k int) float64 {
	if k < 1 {
		k = 1
	}
	if k > len(items) {
		k = len(items)
	}
	if k == 0 {
		return 0
	}
	sum := 0.0
	for _, it := range items[:k] {
		sum += scoreOrZero(it.RelevanceScore)
	}
	return sum / float64(k)
}

func scoreOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func hasAbstract(it *model.PriorArtRecord) bool {
	return strings.TrimSpace(it.Abstract) != ""
}
