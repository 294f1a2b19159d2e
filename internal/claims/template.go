package claims

import (
	"time"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// TemplateItem is one row of the manual-claims skeleton a reviewer fills in.
type TemplateItem struct {
	Rank             int                `json:"rank"`
	PatentNumber     string             `json:"patent_number"`
	Title            string             `json:"title"`
	URL              string             `json:"url"`
	Source           string             `json:"source"`
	Query            string             `json:"query"`
	ClaimsText       string             `json:"claims_text"`
	Claims           []model.ClaimEntry `json:"claims"`
	ClaimsSourceURL  string             `json:"claims_source_url"`
	ClaimsSourceType string             `json:"claims_source_type"`
	Notes            string             `json:"notes"`
}

// Template is the claims_manual.json skeleton document.
type Template struct {
	GeneratedAt string         `json:"generated_at"`
	Input       string         `json:"input"`
	TopK        int            `json:"topk"`
	Items       []TemplateItem `json:"items"`
}

// BuildTemplate selects the top-k claim-eligible records and turns them into
// an empty manual-claims skeleton.
func BuildTemplate(prior []model.PriorArtRecord, input string, topk int, now time.Time) Template {
	selected := SelectTopK(prior, topk)
	items := make([]TemplateItem, 0, len(selected))
	for idx, it := range selected {
		items = append(items, TemplateItem{
			Rank:         idx + 1,
			PatentNumber: textutil.NormalizePatentNumber(it.PatentNumber),
			Title:        it.Title,
			URL:          it.URL,
			Source:       it.Source,
			Query:        it.Query,
			Claims:       []model.ClaimEntry{},
			Notes:        "Fill at least independent claim(s). Use plain text.",
		})
	}
	return Template{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Input:       input,
		TopK:        topk,
		Items:       items,
	}
}
