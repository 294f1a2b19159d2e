package search

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/patware/priorart/internal/model"
)

// fakeFetcher serves canned bodies keyed by URL substring.
type fakeFetcher struct {
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func (f *fakeFetcher) Get(_ context.Context, rawURL, _ string) ([]byte, error) {
	f.calls = append(f.calls, rawURL)
	for frag, err := range f.errs {
		if strings.Contains(rawURL, frag) {
			return nil, err
		}
	}
	for frag, body := range f.bodies {
		if strings.Contains(rawURL, frag) {
			return []byte(body), nil
		}
	}
	return nil, errors.New("no fixture for " + rawURL)
}

const googleXHRFixture = `{
  "results": {
    "cluster": [
      {
        "result": [
          {
            "patent": {
              "publication_number": "CN114567890A",
              "title": "一种<b>缓存调度</b>方法",
              "abstract": "本发明公开了一种<b>缓存</b>调度方法。",
              "assignee": "某公司",
              "filing_date": "2021-12-01"
            }
          },
          {
            "patent": {
              "publication_number": "CN113111222B",
              "title": "Distributed retry scheduler",
              "abstract": "A scheduler with retry backoff.",
              "assignee": "Acme",
              "filing_date": "2020-05-20"
            }
          }
        ]
      }
    ]
  }
}`

func TestGoogleStructuredSearch(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{"/xhr/query": googleXHRFixture}}
	p := NewGoogleProvider(Deps{Fetcher: fetcher})

	records, err := p.Search(context.Background(), "缓存 调度", Options{Limit: 30, Country: "CN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	first := records[0]
	if first.Source != model.SourceGooglePatents {
		t.Errorf("source = %q", first.Source)
	}
	if first.PatentNumber != "CN114567890A" {
		t.Errorf("patent_number = %q", first.PatentNumber)
	}
	if strings.Contains(first.Title, "<b>") {
		t.Errorf("bold markup not stripped: %q", first.Title)
	}
	if first.URL != "https://patents.google.com/patent/CN114567890A" {
		t.Errorf("url = %q", first.URL)
	}
}

func TestGoogleFallsBackToPageScrape(t *testing.T) {
	fetcher := &fakeFetcher{
		errs:   map[string]error{"/xhr/query": errors.New("boom")},
		bodies: map[string]string{"/?q=": `<html>see CN114567890A and EP3123456B1 and CN114567890A</html>`},
	}
	p := NewGoogleProvider(Deps{Fetcher: fetcher})

	records, err := p.Search(context.Background(), "cache scheduling", Options{Limit: 30, Country: "CN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %v, want 2 unique publication numbers", records)
	}
	if records[0].PatentNumber != "CN114567890A" || records[1].PatentNumber != "EP3123456B1" {
		t.Errorf("records = %+v", records)
	}
	for _, r := range records {
		if r.Title == "" {
			t.Errorf("scraped record missing title: %+v", r)
		}
		if r.IsPlaceholder() {
			t.Errorf("scraped record must not be a placeholder: %+v", r)
		}
	}
}

func TestGoogleEmptyStructuredTriggersFallback(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{
		"/xhr/query": `{"results": {"cluster": []}}`,
		"/?q=":       `no numbers here`,
	}}
	p := NewGoogleProvider(Deps{Fetcher: fetcher})

	records, err := p.Search(context.Background(), "cache scheduling", Options{Limit: 10, Country: "CN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %v, want none", records)
	}
	if len(fetcher.calls) != 2 {
		t.Errorf("calls = %v, want xhr then page", fetcher.calls)
	}
}

func TestScrapeProviderExtractsNumbers(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{
		"lens.org": `rows: CN109876543B, US10123456B2`,
	}}
	p := NewLensProvider(Deps{Fetcher: fetcher})

	records, err := p.Search(context.Background(), "cache", Options{Limit: 20, Country: "CN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %+v", records)
	}
	if records[0].Source != model.SourceLens || records[0].IsPlaceholder() {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestScrapeProviderDegradesToPlaceholder(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{"cnipa": errors.New("403")}}
	p := NewCNIPAProvider(Deps{Fetcher: fetcher})

	records, err := p.Search(context.Background(), "缓存 调度", Options{Limit: 20, Country: "CN"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %+v", records)
	}
	ph := records[0]
	if !ph.IsPlaceholder() || ph.URL == "" || ph.Source != model.SourceCNIPA {
		t.Errorf("placeholder = %+v", ph)
	}
}

func TestProvidersAllExpansion(t *testing.T) {
	ps, err := Providers([]string{"all"}, Deps{Fetcher: &fakeFetcher{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 4 {
		t.Fatalf("providers = %d, want 4", len(ps))
	}
	if _, err := Providers([]string{"bing"}, Deps{}); err == nil {
		t.Error("unknown source should error")
	}
}

func TestDedupIdempotent(t *testing.T) {
	items := []model.PriorArtRecord{
		{Source: model.SourceGooglePatents, PatentNumber: "CN1A", Title: "a"},
		{Source: model.SourceGooglePatents, PatentNumber: "cn1a", Title: "a again"},
		{Source: model.SourceGooglePatents, URL: "https://x/patent/CN2B", Title: "b"},
		{Source: model.SourceLens, Note: "check manually", URL: "https://lens"},
		{Source: model.SourceLens, Note: "check manually", URL: "https://lens"},
	}
	once := Dedup(items)
	if len(once) != 3 {
		t.Fatalf("dedup = %d records, want 3", len(once))
	}
	twice := Dedup(once)
	if len(twice) != len(once) {
		t.Errorf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
}

func TestCountUniquePatents(t *testing.T) {
	items := []model.PriorArtRecord{
		{Source: model.SourceGooglePatents, PatentNumber: "CN1A", Title: "t"},
		{Source: model.SourceLens, URL: "https://x/patent/cn1a", Title: "t"},
		{Source: model.SourceGooglePatents, PatentNumber: "EP2B", Title: "t"},
		{Source: model.SourceLens, Note: "placeholder", URL: "https://x/patent/ZZ9"},
	}
	if got := CountUniquePatents(items); got != 2 {
		t.Fatalf("unique patents = %d, want 2", got)
	}
}

func TestAnalyzeSimilarity(t *testing.T) {
	items := []model.PriorArtRecord{
		{Source: model.SourceGooglePatents, PatentNumber: "A", Title: "cache scheduler", Abstract: "retry backoff"},
		{Source: model.SourceGooglePatents, PatentNumber: "B", Title: "unrelated", Abstract: "nothing"},
		{Source: model.SourceLens, Note: "placeholder"},
	}
	out := AnalyzeSimilarity("cache retry", items)

	if out[0].PatentNumber != "A" {
		t.Fatalf("best match should sort first: %+v", out[0])
	}
	if *out[0].SimilarityScore != 100.0 {
		t.Errorf("score = %v, want 100", *out[0].SimilarityScore)
	}
	if *out[1].SimilarityScore != 0.0 {
		t.Errorf("score = %v, want 0", *out[1].SimilarityScore)
	}
	for _, it := range out {
		if it.IsPlaceholder() && it.SimilarityScore != nil {
			t.Error("placeholder must not be scored")
		}
	}
	if s := *out[0].SimilarityScore; s < 0 || s > 100 {
		t.Errorf("score out of range: %v", s)
	}
}

type stubProvider struct {
	key     string
	source  string
	records []model.PriorArtRecord
	err     error
	delay   time.Duration
}

func (s *stubProvider) Key() string    { return s.key }
func (s *stubProvider) Source() string { return s.source }
func (s *stubProvider) Search(context.Context, string, Options) ([]model.PriorArtRecord, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.records, s.err
}

func TestDispatcherCollectsFailures(t *testing.T) {
	ok := &stubProvider{key: "google", source: model.SourceGooglePatents,
		records: []model.PriorArtRecord{{Source: model.SourceGooglePatents, PatentNumber: "CN1A", Title: "t"}}}
	bad := &stubProvider{key: "lens", source: model.SourceLens, err: errors.New("rate limited")}

	d := NewDispatcher([]Provider{ok, bad}, Options{Limit: 10, Country: "CN"})
	d.sleepBetween = func(time.Duration, float64) {}

	items, failures := d.Run(context.Background(), []string{"q one", "q two"})
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if len(failures) != 2 {
		t.Fatalf("failures = %+v, want one per query", failures)
	}
	if failures[0].Source != "lens" || failures[0].Query != "q one" {
		t.Errorf("failure = %+v", failures[0])
	}
	if items[0].Query != "q one" || items[0].QueryIndex != 1 {
		t.Errorf("query annotation = %+v", items[0])
	}
	if items[1].QueryIndex != 2 {
		t.Errorf("second query index = %d", items[1].QueryIndex)
	}
}

func TestDispatcherParallel(t *testing.T) {
	a := &stubProvider{key: "google", source: model.SourceGooglePatents, delay: 10 * time.Millisecond,
		records: []model.PriorArtRecord{{Source: model.SourceGooglePatents, PatentNumber: "CN1A", Title: "t"}}}
	b := &stubProvider{key: "lens", source: model.SourceLens,
		records: []model.PriorArtRecord{{Source: model.SourceLens, Note: "placeholder", URL: "u"}}}

	d := NewDispatcher([]Provider{a, b}, Options{Limit: 10, Country: "CN"})
	d.Parallel = true
	d.sleepBetween = func(time.Duration, float64) {}

	items, failures := d.Run(context.Background(), []string{"only query"})
	if len(failures) != 0 {
		t.Fatalf("failures = %+v", failures)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
}
