package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/patware/priorart/internal/model"
)

// scrapeProvider covers the providers that expose no structured API. It
// fetches the static search-result page and mines publication-number-shaped
// tokens from it; when the page is unreachable or yields nothing (these sites
// often need JS or a login), it degrades to a single placeholder record that
// carries the search link and an advisory note.
type scrapeProvider struct {
	deps     Deps
	key      string
	source   string
	note     string
	buildURL func(query string, limit int) string
}

func (p *scrapeProvider) Key() string    { return p.key }
func (p *scrapeProvider) Source() string { return p.source }

func (p *scrapeProvider) Search(ctx context.Context, query string, opts Options) ([]model.PriorArtRecord, error) {
	searchURL := p.buildURL(query, opts.Limit)
	placeholder := []model.PriorArtRecord{{
		Source: p.source,
		Note:   p.note,
		URL:    searchURL,
	}}

	if p.deps.Robots != nil && !p.deps.Robots.Allowed(ctx, searchURL) {
		return placeholder, nil
	}
	body, err := p.deps.Fetcher.Get(ctx, searchURL, "")
	if err != nil {
		return placeholder, nil
	}
	pns := extractPublicationNumbers(string(body), opts.Country, opts.Limit)
	if len(pns) == 0 {
		return placeholder, nil
	}

	records := make([]model.PriorArtRecord, 0, len(pns))
	for _, pn := range pns {
		records = append(records, model.PriorArtRecord{
			Source:       p.source,
			PatentNumber: pn,
			Title:        pn,
			URL:          searchURL,
		})
	}
	return records, nil
}

// NewLensProvider builds the Lens.org scrape provider.
func NewLensProvider(deps Deps) Provider {
	return &scrapeProvider{
		deps:   deps,
		key:    "lens",
		source: model.SourceLens,
		note:   "Lens 页面结构可能变化，建议浏览器访问检索链接",
		buildURL: func(query string, limit int) string {
			return fmt.Sprintf("https://www.lens.org/lens/search/patent/list?q=%s&n=%d",
				url.QueryEscape(query), limit)
		},
	}
}

// NewEspacenetProvider builds the Espacenet scrape provider.
func NewEspacenetProvider(deps Deps) Provider {
	return &scrapeProvider{
		deps:   deps,
		key:    "espacenet",
		source: model.SourceEspacenet,
		note:   "需浏览器访问，此处提供搜索链接",
		buildURL: func(query string, limit int) string {
			return "https://worldwide.espacenet.com/patent/search?q=" + url.QueryEscape(query)
		},
	}
}

// NewCNIPAProvider builds the CNIPA scrape provider.
func NewCNIPAProvider(deps Deps) Provider {
	return &scrapeProvider{
		deps:   deps,
		key:    "cnipa",
		source: model.SourceCNIPA,
		note:   "官方数据库通常需要登录，此处提供搜索链接",
		buildURL: func(query string, limit int) string {
			return "https://pss-system.cponline.cnipa.gov.cn/conventionalSearch?searchWord=" + url.QueryEscape(query)
		},
	}
}
