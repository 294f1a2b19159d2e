package novelty

import (
	"strings"
	"testing"

	"github.com/patware/priorart/internal/model"
)

func noveltyConfig() model.NoveltyConfig {
	return model.NoveltyConfig{
		MaxDocs:          10,
		YesThreshold:     0.6,
		PartialThreshold: 0.25,
		PairUnionMin:     0.3,
		PairCoMax:        0.2,
		MinClaimsOKRatio: 0.3,
		MaxSnippets:      3,
		SnippetWindow:    90,
	}
}

func noveltyProfile() *model.InventionProfile {
	return &model.InventionProfile{
		KeyFeatures: []model.InventionFeature{
			{ID: "F1", Text: "内容哈希、页面缓存"},
			{ID: "F2", Text: "失败重试、指数退避"},
			{ID: "F3", Text: "feature pair scoring over token vectors"},
		},
	}
}

func claimDoc(pn, claimsText, abstract, status string) model.ClaimRecord {
	return model.ClaimRecord{
		PriorArtRecord: model.PriorArtRecord{
			Source:       model.SourceGooglePatents,
			PatentNumber: pn,
			Title:        "title " + pn,
			Abstract:     abstract,
		},
		ClaimsStatus: status,
		ClaimsText:   claimsText,
	}
}

func TestFeatureTokensDropsGenericAndExpandsSynonyms(t *testing.T) {
	toks := FeatureTokens("缓存 调度 方法 cache scheduler system")
	set := map[string]bool{}
	for _, tok := range toks {
		set[tok] = true
	}
	if set["方法"] || set["system"] {
		t.Errorf("generic terms kept: %v", toks)
	}
	// Synonym expansion must bridge CN and EN.
	if !set["cache"] || !set["缓存"] {
		t.Errorf("cache synonyms missing: %v", toks)
	}
	if !set["调度"] || !set["scheduler"] {
		t.Errorf("scheduler synonyms missing: %v", toks)
	}
}

func TestTokenHitRatio(t *testing.T) {
	toks := []string{"缓存", "重试", "missing"}
	text := "权利要求：缓存页面并重试失败请求"
	got := TokenHitRatio(toks, text)
	want := 2.0 / 3.0
	if got < want-1e-9 || got > want+1e-9 {
		t.Errorf("ratio = %v, want %v", got, want)
	}
	if TokenHitRatio(nil, text) != 0 {
		t.Error("empty tokens should score 0")
	}
	if TokenHitRatio(toks, "") != 0 {
		t.Error("empty text should score 0")
	}
}

func TestBuildRequiresThreeFeatures(t *testing.T) {
	b := NewBuilder(noveltyConfig())
	profile := &model.InventionProfile{
		KeyFeatures: []model.InventionFeature{{ID: "F1", Text: "only one"}},
	}
	if _, err := b.Build(profile, nil); err == nil {
		t.Fatal("expected feature-count error")
	}
}

func TestBuildMatrixShapeAndLabels(t *testing.T) {
	b := NewBuilder(noveltyConfig())
	docs := []model.ClaimRecord{
		claimDoc("CN1A",
			"1. 内容哈希与页面缓存，失败重试与指数退避。",
			"页面缓存。", model.ClaimsStatusOK),
		claimDoc("CN2B", "", "完全无关的描述。", model.ClaimsStatusSectionNotFound),
	}
	m, err := b.Build(noveltyProfile(), docs)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Matrix) != 2 {
		t.Fatalf("rows = %d", len(m.Matrix))
	}
	if len(m.Matrix[0]) != 3 {
		t.Fatalf("cols = %d", len(m.Matrix[0]))
	}
	for _, row := range m.Matrix {
		for _, cell := range row {
			switch cell.Label {
			case model.LabelNo, model.LabelPartial, model.LabelYes:
			default:
				t.Errorf("bad label %q", cell.Label)
			}
			if cell.ScoreBest < cell.ScoreClaims || cell.ScoreBest < cell.ScoreAbstract {
				t.Errorf("score_best not the max: %+v", cell)
			}
		}
	}

	// Doc 1 carries both F1 terms in claims and one in the abstract.
	f1 := m.Matrix[0][0]
	if f1.Label != model.LabelYes || f1.ScoreClaims != 1.0 {
		t.Errorf("F1 cell = %+v", f1)
	}
	if m.Matrix[0][2].Label != model.LabelNo {
		t.Errorf("F3 cell = %+v", m.Matrix[0][2])
	}
	// Doc 2 shares nothing with the features.
	for _, cell := range m.Matrix[1] {
		if cell.Label != model.LabelNo {
			t.Errorf("unrelated doc cell = %+v", cell)
		}
	}
	if m.Note == "" {
		t.Error("note missing")
	}
}

func TestBuildQualityGate(t *testing.T) {
	cfg := noveltyConfig()
	cfg.MinClaimsOKRatio = 0.6
	b := NewBuilder(cfg)
	docs := []model.ClaimRecord{
		claimDoc("CN1A", "1. 页面缓存。", "", model.ClaimsStatusOK),
		claimDoc("CN2B", "", "", model.ClaimsStatusFetchBlocked403),
	}
	m, err := b.Build(noveltyProfile(), docs)
	if err != nil {
		t.Fatal(err)
	}
	gate := m.QualityGate
	if gate.ClaimsOK != 1 || gate.ClaimsTotal != 2 {
		t.Errorf("gate = %+v", gate)
	}
	if gate.ClaimsOKRatio != 0.5 {
		t.Errorf("ratio = %v", gate.ClaimsOKRatio)
	}
	if gate.Pass {
		t.Error("gate should fail at min 0.6")
	}
	if gate.StatusCounts[model.ClaimsStatusFetchBlocked403] != 1 {
		t.Errorf("status counts = %v", gate.StatusCounts)
	}
}

func TestBuildNoveltyAndPairCandidates(t *testing.T) {
	b := NewBuilder(noveltyConfig())
	// F1 and F2 appear in every doc; F3's vocabulary never does.
	docs := []model.ClaimRecord{
		claimDoc("CN1A", "1. 内容哈希 页面缓存 失败重试 指数退避。", "", model.ClaimsStatusOK),
		claimDoc("CN2B", "1. 内容哈希 页面缓存 失败重试 指数退避。", "", model.ClaimsStatusOK),
	}
	m, err := b.Build(noveltyProfile(), docs)
	if err != nil {
		t.Fatal(err)
	}
	top := m.NoveltyCandidates[0]
	if top.FeatureID != "F3" || top.NoRatio != 1.0 {
		t.Errorf("top candidate = %+v", top)
	}

	// F1+F2 always co-occur (co_ratio 1.0) so only the pairs with F3
	// survive the co-occurrence cutoff.
	if len(m.PairCandidates) != 2 {
		t.Fatalf("pairs = %+v", m.PairCandidates)
	}
	for _, p := range m.PairCandidates {
		if p.Pair[1] != "F3" {
			t.Errorf("unexpected pair %v", p.Pair)
		}
		if p.CoRatio != 0 || p.UnionRatio != 1.0 {
			t.Errorf("pair ratios = %+v", p)
		}
	}
}

func TestBuildSnippets(t *testing.T) {
	b := NewBuilder(noveltyConfig())
	docs := []model.ClaimRecord{
		claimDoc("CN1A", "1. 一种基于内容哈希的页面缓存方法。", "", model.ClaimsStatusOK),
		claimDoc("CN2B", "x", "", model.ClaimsStatusOK),
		claimDoc("CN3C", "y", "", model.ClaimsStatusOK),
	}
	m, err := b.Build(noveltyProfile(), docs)
	if err != nil {
		t.Fatal(err)
	}
	cell := m.Matrix[0][0]
	if len(cell.EvidenceSnippets) == 0 {
		t.Fatal("no snippets for matching feature")
	}
	if !strings.Contains(cell.EvidenceSnippets[0], "内容哈希") {
		t.Errorf("snippet = %q", cell.EvidenceSnippets[0])
	}
	if len(cell.EvidenceSnippets) > 3 {
		t.Errorf("snippets exceed cap: %d", len(cell.EvidenceSnippets))
	}
}

func TestBuildTopPriorArt(t *testing.T) {
	b := NewBuilder(noveltyConfig())
	docs := []model.ClaimRecord{
		claimDoc("CN1A", "完全无关的文字。", "", model.ClaimsStatusOK),
		claimDoc("CN2B", "1. 内容哈希 页面缓存 失败重试 指数退避 feature pair scoring token vectors。", "", model.ClaimsStatusOK),
	}
	m, err := b.Build(noveltyProfile(), docs)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.TopPriorArt) != 2 {
		t.Fatalf("top = %+v", m.TopPriorArt)
	}
	if m.TopPriorArt[0].PatentNumber != "CN2B" {
		t.Errorf("best doc = %+v", m.TopPriorArt[0])
	}
	if m.TopPriorArt[0].OverallMatch <= m.TopPriorArt[1].OverallMatch {
		t.Errorf("overall ordering wrong: %+v", m.TopPriorArt)
	}
}
