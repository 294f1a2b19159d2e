package search

import (
	"context"
	"time"

	"github.com/patware/priorart/internal/httpx"
	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/worker"
)

// Failure records one provider error during recall, kept in the failures
// artifact for replay and debugging.
type Failure struct {
	Query  string `json:"query"`
	Source string `json:"source"`
	Error  string `json:"error"`
	At     string `json:"at"`
}

// Dispatcher fans queries out across the configured providers.
type Dispatcher struct {
	providers []Provider
	opts      Options

	// Parallel runs one query's providers concurrently (pool sized to the
	// provider count); sequential otherwise.
	Parallel bool
	// Analyze assigns the legacy keyword-hit similarity per query.
	Analyze bool
	// QuerySleep/QueryJitter pace consecutive queries.
	QuerySleep  time.Duration
	QueryJitter float64

	// sleepBetween is injectable for tests.
	sleepBetween func(time.Duration, float64)
}

// NewDispatcher builds a dispatcher over the given providers.
func NewDispatcher(providers []Provider, opts Options) *Dispatcher {
	return &Dispatcher{
		providers:    providers,
		opts:         opts,
		sleepBetween: httpx.SleepWithJitter,
	}
}

type searchJob struct {
	provider Provider
	query    string
	opts     Options
}

type searchResult struct {
	provider Provider
	query    string
	records  []model.PriorArtRecord
	err      error
}

func (r *searchResult) GetError() error { return r.err }

func (j *searchJob) Execute(ctx context.Context) worker.Result {
	records, err := j.provider.Search(ctx, j.query, j.opts)
	return &searchResult{provider: j.provider, query: j.query, records: records, err: err}
}

// Run executes every query against every provider and returns the annotated
// records plus the provider failures. Records carry the query text and its
// 1-based index.
func (d *Dispatcher) Run(ctx context.Context, queries []string) ([]model.PriorArtRecord, []Failure) {
	var all []model.PriorArtRecord
	var failures []Failure

	for i, q := range queries {
		items, errs := d.runQuery(ctx, q)
		failures = append(failures, errs...)
		if d.Analyze {
			items = AnalyzeSimilarity(q, items)
		}
		for j := range items {
			items[j].Query = q
			items[j].QueryIndex = i + 1
		}
		all = append(all, items...)
		if i < len(queries)-1 {
			d.sleepBetween(d.QuerySleep, d.QueryJitter)
		}
	}
	return all, failures
}

func (d *Dispatcher) runQuery(ctx context.Context, query string) ([]model.PriorArtRecord, []Failure) {
	if d.Parallel && len(d.providers) > 1 {
		return d.runQueryParallel(ctx, query)
	}

	var items []model.PriorArtRecord
	var failures []Failure
	for _, p := range d.providers {
		records, err := p.Search(ctx, query, d.opts)
		if err != nil {
			failures = append(failures, newFailure(query, p.Key(), err))
			continue
		}
		items = append(items, records...)
	}
	return items, failures
}

func (d *Dispatcher) runQueryParallel(ctx context.Context, query string) ([]model.PriorArtRecord, []Failure) {
	pool := worker.NewPool(len(d.providers))
	pool.Start()
	for _, p := range d.providers {
		pool.Submit(&searchJob{provider: p, query: query, opts: d.opts})
	}

	var items []model.PriorArtRecord
	var failures []Failure
	for _, res := range pool.Wait() {
		sr := res.(*searchResult)
		if sr.err != nil {
			failures = append(failures, newFailure(query, sr.provider.Key(), sr.err))
			continue
		}
		items = append(items, sr.records...)
	}
	return items, failures
}

func newFailure(query, source string, err error) Failure {
	return Failure{
		Query:  query,
		Source: source,
		Error:  err.Error(),
		At:     time.Now().UTC().Format(time.RFC3339),
	}
}
