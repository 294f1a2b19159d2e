package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

const googleBaseURL = "https://patents.google.com"

// GoogleProvider queries the Google Patents structured XHR endpoint and, when
// that errors out or comes back empty, scrapes publication numbers off the
// rendered search page instead.
type GoogleProvider struct {
	deps Deps

	// baseURL is overridable in tests.
	baseURL string
}

// NewGoogleProvider builds the google provider.
func NewGoogleProvider(deps Deps) *GoogleProvider {
	return &GoogleProvider{deps: deps, baseURL: googleBaseURL}
}

func (p *GoogleProvider) Key() string    { return "google" }
func (p *GoogleProvider) Source() string { return model.SourceGooglePatents }

// xhrResponse mirrors the cluster/result/patent nesting of the XHR payload.
type xhrResponse struct {
	Results struct {
		Cluster []struct {
			Result []struct {
				Patent struct {
					PublicationNumber string `json:"publication_number"`
					Title             string `json:"title"`
					Abstract          string `json:"abstract"`
					Assignee          string `json:"assignee"`
					FilingDate        string `json:"filing_date"`
				} `json:"patent"`
			} `json:"result"`
		} `json:"cluster"`
	} `json:"results"`
}

// Search tries the structured endpoint first and degrades to the page scrape.
func (p *GoogleProvider) Search(ctx context.Context, query string, opts Options) ([]model.PriorArtRecord, error) {
	records, err := p.searchStructured(ctx, query, opts)
	if err == nil && len(records) > 0 {
		return records, nil
	}
	scraped, scrapeErr := p.searchPageScrape(ctx, query, opts)
	if scrapeErr != nil {
		if err != nil {
			return nil, fmt.Errorf("google structured search: %w (page fallback also failed: %v)", err, scrapeErr)
		}
		return nil, scrapeErr
	}
	return scraped, nil
}

func (p *GoogleProvider) searchStructured(ctx context.Context, query string, opts Options) ([]model.PriorArtRecord, error) {
	q := url.QueryEscape(fmt.Sprintf("%s country:%s", query, opts.Country))
	xhrURL := fmt.Sprintf("%s/xhr/query?url=q%%3D%s&num=%d&exp=", p.baseURL, q, opts.Limit)

	body, err := p.deps.Fetcher.Get(ctx, xhrURL, "application/json")
	if err != nil {
		return nil, err
	}
	var payload xhrResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse google xhr response: %w", err)
	}

	var records []model.PriorArtRecord
	for _, cluster := range payload.Results.Cluster {
		for _, result := range cluster.Result {
			patent := result.Patent
			pub := strings.TrimSpace(patent.PublicationNumber)
			rec := model.PriorArtRecord{
				Source:       model.SourceGooglePatents,
				PatentNumber: pub,
				Title:        strings.TrimSpace(stripBold(patent.Title)),
				Abstract:     truncateRunes(strings.TrimSpace(stripBold(patent.Abstract)), 1500),
				Assignee:     patent.Assignee,
				FilingDate:   patent.FilingDate,
			}
			if pub != "" {
				rec.URL = googleBaseURL + "/patent/" + pub
			}
			records = append(records, rec)
		}
	}
	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return records, nil
}

// searchPageScrape fetches the rendered search page and extracts
// publication-number-shaped tokens. Scraped records carry the publication
// number as their title since the static page exposes no reliable titles.
func (p *GoogleProvider) searchPageScrape(ctx context.Context, query string, opts Options) ([]model.PriorArtRecord, error) {
	pageURL := fmt.Sprintf("%s/?q=%s&country=%s", p.baseURL,
		url.QueryEscape(query), url.QueryEscape(opts.Country))
	if p.deps.Robots != nil && !p.deps.Robots.Allowed(ctx, pageURL) {
		return nil, fmt.Errorf("robots.txt disallows %s", pageURL)
	}
	body, err := p.deps.Fetcher.Get(ctx, pageURL, "")
	if err != nil {
		return nil, err
	}
	pns := extractPublicationNumbers(string(body), opts.Country, opts.Limit)
	records := make([]model.PriorArtRecord, 0, len(pns))
	for _, pn := range pns {
		records = append(records, model.PriorArtRecord{
			Source:       model.SourceGooglePatents,
			PatentNumber: pn,
			Title:        pn,
			URL:          googleBaseURL + "/patent/" + pn,
		})
	}
	return records, nil
}

// extractPublicationNumbers pulls deduplicated publication numbers out of
// page HTML, capped at limit.
func extractPublicationNumbers(html, country string, limit int) []string {
	matches := textutil.PublicationNumberRegex(country).FindAllString(html, -1)
	var out []string
	seen := map[string]bool{}
	for _, m := range matches {
		pn := textutil.NormalizePatentNumber(m)
		if seen[pn] {
			continue
		}
		seen[pn] = true
		out = append(out, pn)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func stripBold(s string) string {
	s = strings.ReplaceAll(s, "<b>", "")
	return strings.ReplaceAll(s, "</b>", "")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
