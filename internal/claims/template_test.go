package claims

import (
	"testing"
	"time"

	"github.com/patware/priorart/internal/model"
)

func TestBuildTemplateRanksByClaimability(t *testing.T) {
	prior := []model.PriorArtRecord{
		{Source: "Google Patents", PatentNumber: "cn114567890a", Title: "缓存调度方法", URL: "https://patents.google.com/patent/CN114567890A/en", Query: "缓存 调度"},
		{Source: "Lens.org", Title: "placeholder", Note: "manual search", URL: "https://www.lens.org/lens/search"},
		{Source: "Espacenet", PatentNumber: "EP3123456B1", Title: "Cache scheduling", URL: "https://worldwide.espacenet.com/patent/EP3123456B1"},
	}
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	tpl := BuildTemplate(prior, "prior_art.json", 2, now)

	if tpl.GeneratedAt != "2026-08-28T10:00:00Z" {
		t.Errorf("generated_at = %q", tpl.GeneratedAt)
	}
	if tpl.Input != "prior_art.json" || tpl.TopK != 2 {
		t.Errorf("header = %q/%d", tpl.Input, tpl.TopK)
	}
	// Claimability ranks the placeholder last, so the cap drops it.
	if len(tpl.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(tpl.Items))
	}
	if tpl.Items[1].PatentNumber != "EP3123456B1" {
		t.Errorf("second item = %q, want EP3123456B1", tpl.Items[1].PatentNumber)
	}
	first := tpl.Items[0]
	if first.Rank != 1 {
		t.Errorf("rank = %d", first.Rank)
	}
	if first.PatentNumber != "CN114567890A" {
		t.Errorf("patent_number = %q, want normalized", first.PatentNumber)
	}
	if first.ClaimsText != "" || len(first.Claims) != 0 || first.Claims == nil {
		t.Errorf("claims fields must be an empty skeleton: %q %v", first.ClaimsText, first.Claims)
	}
	if first.Notes == "" {
		t.Error("notes hint missing")
	}
}
