package claims

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/patware/priorart/internal/cache"
	"github.com/patware/priorart/internal/httpx"
	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// PageFetcher is the claims fetcher's HTTP dependency; httpx.Client
// satisfies it.
type PageFetcher interface {
	Get(ctx context.Context, rawURL string, accept string) ([]byte, error)
}

// Fetcher resolves claim text for a batch of prior-art records.
type Fetcher struct {
	client    PageFetcher
	pages     cache.Cache
	cfg       model.ClaimsConfig
	extractor *Extractor

	// sleep and now are injectable for tests.
	sleep func(time.Duration, float64)
	now   func() time.Time
}

// NewFetcher builds a Fetcher. pages may be nil to disable caching.
func NewFetcher(client PageFetcher, pages cache.Cache, cfg model.ClaimsConfig) *Fetcher {
	return &Fetcher{
		client:    client,
		pages:     pages,
		cfg:       cfg,
		extractor: NewExtractor(cfg.MaxClaims, cfg.MaxClaimsTextLen),
		sleep:     httpx.SleepWithJitter,
		now:       time.Now,
	}
}

// claimability orders records by how likely a claims fetch is to succeed:
// has a patent number, has a direct Google patent URL, came from Google.
func claimability(it *model.PriorArtRecord) [3]int {
	var s [3]int
	if textutil.NormalizePatentNumber(it.PatentNumber) != "" {
		s[0] = 1
	}
	if strings.Contains(strings.ToLower(it.URL), "patents.google.com/patent/") {
		s[1] = 1
	}
	if strings.EqualFold(strings.TrimSpace(it.Source), model.SourceGooglePatents) {
		s[2] = 1
	}
	return s
}

// SelectTopK picks the k most claim-eligible records: identity-bearing
// records deduplicated by patent number or url, sorted by claimability.
func SelectTopK(prior []model.PriorArtRecord, k int) []model.PriorArtRecord {
	var items []model.PriorArtRecord
	seen := map[string]bool{}
	for _, it := range prior {
		pn := textutil.NormalizePatentNumber(it.PatentNumber)
		url := strings.TrimSpace(it.URL)
		key := pn
		if key == "" {
			key = url
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, it)
	}

	sort.SliceStable(items, func(a, b int) bool {
		sa, sb := claimability(&items[a]), claimability(&items[b])
		for i := 0; i < 3; i++ {
			if sa[i] != sb[i] {
				return sa[i] > sb[i]
			}
		}
		return false
	})

	if k < 1 {
		k = 1
	}
	if len(items) > k {
		items = items[:k]
	}
	return items
}

// ExistingByPatent indexes a prior run's output for --resume.
func ExistingByPatent(records []model.ClaimRecord) map[string]model.ClaimRecord {
	out := make(map[string]model.ClaimRecord, len(records))
	for _, rec := range records {
		if pn := textutil.NormalizePatentNumber(rec.PatentNumber); pn != "" {
			out[pn] = rec
		}
	}
	return out
}

// Run fetches claims for the already-selected records. existing (from a
// prior run) lets terminally successful records skip re-fetching unless
// force is set.
func (f *Fetcher) Run(ctx context.Context, items []model.PriorArtRecord, existing map[string]model.ClaimRecord) []model.ClaimRecord {
	out := make([]model.ClaimRecord, 0, len(items))
	for idx, it := range items {
		pn := textutil.NormalizePatentNumber(it.PatentNumber)
		if prev, ok := existing[pn]; ok && !f.cfg.Force && model.IsClaimsTerminalSuccess(prev.ClaimsStatus) {
			out = append(out, prev)
			continue
		}

		rec, fetched := f.fetchOne(ctx, it)
		out = append(out, rec)

		if idx < len(items)-1 {
			jitter := f.cfg.Jitter
			if !fetched {
				jitter = math.Max(jitter, 0.35)
			}
			f.sleep(f.cfg.Sleep, jitter)
		}
	}
	return out
}

// fetchOne walks the source priority and URL candidates for one record until
// a page yields claims, accumulating the attempt log. The second return
// reports whether any network fetch happened (cache-only passes pace
// differently).
func (f *Fetcher) fetchOne(ctx context.Context, it model.PriorArtRecord) (model.ClaimRecord, bool) {
	out := model.ClaimRecord{PriorArtRecord: it}

	anyCandidate := false
	hadFetchSuccess := false
	hadParseNoClaims := false
	fetched := false
	var lastErr error
	var attempts []model.FetchAttempt

	for _, src := range ChooseSources(&it, f.cfg.Sources) {
		candidates := CandidateURLs(&it, src)
		if len(candidates) == 0 {
			continue
		}
		anyCandidate = true

		for _, candidate := range candidates {
			key := cache.Key(src, candidate)
			var page string
			fromCache := false
			gotPage := false

			if f.pages != nil && !f.cfg.Force {
				if data, ok := f.pages.Get(key); ok {
					page = string(data)
					fromCache = true
					gotPage = true
					hadFetchSuccess = true
				}
			}
			if !gotPage {
				body, err := f.client.Get(ctx, candidate, "")
				if err != nil {
					lastErr = err
					status, msg := httpx.ClassifyFetchError(err)
					attempts = append(attempts, model.FetchAttempt{
						Source: src, URL: candidate, Result: status, Error: msg,
					})
					continue
				}
				page = string(body)
				if f.pages != nil {
					_ = f.pages.Set(key, body)
				}
				fetched = true
				hadFetchSuccess = true
			}

			text, claimList, status := f.extractor.Parse(page)
			attempts = append(attempts, model.FetchAttempt{
				Source: src, URL: candidate, Result: status,
				FromCache: fromCache, ClaimsCount: len(claimList),
			})
			if text != "" {
				out.ClaimsText = text
				out.Claims = claimList
				out.ClaimsStatus = status
				out.ClaimsSource = src
				out.ClaimsPageURL = candidate
				out.FetchAttempts = attempts
				out.FetchedAt = f.timestamp()
				return out, fetched
			}
			hadParseNoClaims = true
		}
	}

	out.Claims = []model.ClaimEntry{}
	out.ClaimsPageURL = strings.TrimSpace(it.URL)
	out.FetchAttempts = attempts
	out.FetchedAt = f.timestamp()

	switch {
	case !anyCandidate:
		out.ClaimsStatus = model.ClaimsStatusMissingRouting
		out.ClaimsError = "No patent number/url available for claim source routing"
	case hadFetchSuccess && hadParseNoClaims:
		out.ClaimsStatus = model.ClaimsStatusSectionNotFound
		out.ClaimsError = "no claims found in fetched pages"
		if lastErr != nil {
			status, msg := httpx.ClassifyFetchError(lastErr)
			out.ClaimsError = fmt.Sprintf("no claims found in fetched pages; last fetch error: %s %s", status, msg)
		}
	case lastErr != nil:
		out.ClaimsStatus, out.ClaimsError = httpx.ClassifyFetchError(lastErr)
	default:
		out.ClaimsStatus = model.ClaimsStatusFetchFailed
		out.ClaimsError = "Unknown claims fetch failure"
	}
	return out, fetched
}

func (f *Fetcher) timestamp() string {
	return f.now().UTC().Format(time.RFC3339)
}

// OKRatio is the fraction of records whose status counts as a success.
func OKRatio(records []model.ClaimRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	ok := 0
	for _, rec := range records {
		if model.IsClaimsSuccess(rec.ClaimsStatus) {
			ok++
		}
	}
	return float64(ok) / float64(len(records))
}

// StatusCounts tallies records per terminal status.
func StatusCounts(records []model.ClaimRecord) map[string]int {
	counts := make(map[string]int)
	for _, rec := range records {
		status := rec.ClaimsStatus
		if status == "" {
			status = "unknown"
		}
		counts[status]++
	}
	return counts
}
