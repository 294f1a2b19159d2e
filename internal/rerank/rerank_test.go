package rerank

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/patware/priorart/internal/model"
)

func rerankProfile() *model.InventionProfile {
	return &model.InventionProfile{
		Keywords: model.ProfileKeywords{
			CN: []string{"缓存调度"},
			EN: []string{"cache scheduling", "retry backoff"},
		},
		KeyFeatures: []model.InventionFeature{
			{ID: "F1", Text: "content hash page cache"},
		},
	}
}

func TestProfileTermsExcludesGarbled(t *testing.T) {
	p := rerankProfile()
	p.Keywords.EN = append(p.Keywords.EN, "wh?t ?s ??")
	phrases, tokens := ProfileTerms(p)
	for _, ph := range phrases {
		if ph == "wh?t ?s ??" {
			t.Error("garbled phrase kept")
		}
	}
	if len(phrases) != 4 {
		t.Errorf("phrases = %v", phrases)
	}
	if len(tokens) == 0 {
		t.Error("no tokens extracted")
	}
}

func TestScoreRecordRangeAndBreakdown(t *testing.T) {
	phrases, tokens := ProfileTerms(rerankProfile())
	it := &model.PriorArtRecord{
		Title:    "Cache scheduling with retry backoff",
		Abstract: "Uses a content hash page cache for scheduling.",
		Query:    "cache scheduling",
	}
	score, breakdown := ScoreRecord(it, phrases, tokens)
	if score <= 0 || score > 1 {
		t.Fatalf("score = %v, want (0,1]", score)
	}
	if breakdown.PhraseHits < 2 {
		t.Errorf("phrase_hits = %d", breakdown.PhraseHits)
	}
	if breakdown.TitlePhraseHits < 1 {
		t.Errorf("title_phrase_hits = %d", breakdown.TitlePhraseHits)
	}
	if breakdown.QueryScore != 1.0 {
		t.Errorf("query_score = %v, want 1", breakdown.QueryScore)
	}

	empty := &model.PriorArtRecord{Title: "unrelated subject", Abstract: "nothing shared"}
	zero, _ := ScoreRecord(empty, phrases, tokens)
	if zero < 0 || zero > 1 {
		t.Errorf("score out of range: %v", zero)
	}
	if zero >= score {
		t.Errorf("unrelated record scored %v >= relevant record %v", zero, score)
	}
}

func TestNormalizeScoreHandles100Scale(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0.8, 0.8},
		{85, 0.85},
		{-3, 0},
		{150, 1},
		{1.0, 1.0},
	}
	for _, c := range cases {
		if got := NormalizeScore(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("NormalizeScore(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestRerankSortsAndRanks(t *testing.T) {
	items := []model.PriorArtRecord{
		{Source: model.SourceGooglePatents, PatentNumber: "CN1A", Title: "unrelated", Abstract: "none"},
		{Source: model.SourceGooglePatents, PatentNumber: "CN2B",
			Title: "Cache scheduling with retry backoff", Abstract: "content hash page cache"},
	}
	out, err := Rerank(items, rerankProfile(), nil, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	if out[0].PatentNumber != "CN2B" {
		t.Fatalf("best match should rank first: %+v", out[0])
	}
	if out[0].RelevanceRank != 1 || out[1].RelevanceRank != 2 {
		t.Errorf("ranks = %d, %d", out[0].RelevanceRank, out[1].RelevanceRank)
	}
	if out[0].RelevanceScoreMode != ModeHeuristicOnly {
		t.Errorf("mode = %q", out[0].RelevanceScoreMode)
	}
	if out[0].RelevanceBreakdown == nil {
		t.Error("breakdown not persisted")
	}
	// Input order untouched.
	if items[0].RelevanceRank != 0 {
		t.Error("input slice mutated")
	}
}

func TestRerankAgentBlend(t *testing.T) {
	items := []model.PriorArtRecord{
		{Source: model.SourceGooglePatents, PatentNumber: "CN1A", Title: "unrelated", Abstract: "none"},
	}
	agent := map[string]AgentScore{"CN1A": {Score: 1.0, Reason: "close art"}}

	out, err := Rerank(items, rerankProfile(), agent, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	rec := out[0]
	if rec.RelevanceScoreMode != ModeAgentBlend {
		t.Fatalf("mode = %q", rec.RelevanceScoreMode)
	}
	if rec.RelevanceScoreAgent == nil || *rec.RelevanceScoreAgent != 1.0 {
		t.Errorf("agent score = %v", rec.RelevanceScoreAgent)
	}
	heur := *rec.RelevanceScoreHeuristic
	want := 0.7*1.0 + 0.3*heur
	if math.Abs(*rec.RelevanceScore-want) > 1e-3 {
		t.Errorf("blended = %v, want about %v", *rec.RelevanceScore, want)
	}
	if rec.RelevanceReason != "close art" {
		t.Errorf("reason = %q", rec.RelevanceReason)
	}
}

func TestRerankEmptyProfileFails(t *testing.T) {
	_, err := Rerank(nil, &model.InventionProfile{}, nil, 0.7)
	if err == nil {
		t.Fatal("expected error for empty profile")
	}
}

func TestLoadAgentScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rerank.agent.json")
	content := `{"items": [
		{"patent_number": "cn1a", "score": 85, "reason": "strong overlap"},
		{"url": "https://x/patent/CN2B", "relevance_score": 0.4, "note": "partial"},
		{"patent_number": "CN3C"},
		{"score": 0.9}
	]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	scores, err := LoadAgentScores(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 2 {
		t.Fatalf("scores = %+v, want 2 usable entries", scores)
	}
	if s := scores["CN1A"]; s.Score != 0.85 || s.Reason != "strong overlap" {
		t.Errorf("CN1A = %+v", s)
	}
	if s := scores["https://x/patent/CN2B"]; s.Score != 0.4 || s.Reason != "partial" {
		t.Errorf("url-keyed = %+v", s)
	}
}

func TestTopKAverage(t *testing.T) {
	mk := func(v float64) model.PriorArtRecord {
		s := v
		return model.PriorArtRecord{RelevanceScore: &s}
	}
	items := []model.PriorArtRecord{mk(0.9), mk(0.5), mk(0.1)}
	if avg := TopKAverage(items, 2); math.Abs(avg-0.7) > 1e-9 {
		t.Errorf("avg = %v, want 0.7", avg)
	}
	if avg := TopKAverage(items, 10); math.Abs(avg-0.5) > 1e-9 {
		t.Errorf("avg over all = %v, want 0.5", avg)
	}
	if avg := TopKAverage(nil, 5); avg != 0 {
		t.Errorf("avg of none = %v", avg)
	}
}
