// Package search implements the recall stage: fanning queries out across
// patent search providers, deduplicating the hits, and gating the result on
// strict source validation and recall thresholds.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/patware/priorart/internal/httpx"
	"github.com/patware/priorart/internal/model"
)

// Fetcher is the page-fetching dependency of every provider. httpx.Client
// satisfies it; tests substitute fixtures.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, accept string) ([]byte, error)
}

// Options carries the per-search parameters shared by all providers.
type Options struct {
	Limit   int
	Country string
}

// Provider is one patent search backend.
type Provider interface {
	// Key is the short config name (google, lens, espacenet, cnipa).
	Key() string
	// Source is the provider label stamped on records.
	Source() string
	Search(ctx context.Context, query string, opts Options) ([]model.PriorArtRecord, error)
}

// ProviderKeys is the full provider set, in dispatch order.
var ProviderKeys = []string{"google", "lens", "espacenet", "cnipa"}

// Deps holds the shared dependencies injected into providers.
type Deps struct {
	Fetcher Fetcher
	// Robots, when non-nil, is consulted before scraping result pages.
	Robots *httpx.RobotsChecker
}

// Providers resolves the requested provider keys ("all" expands to every
// provider) into constructed providers.
func Providers(keys []string, deps Deps) ([]Provider, error) {
	if len(keys) == 1 && strings.ToLower(keys[0]) == "all" {
		keys = ProviderKeys
	}
	out := make([]Provider, 0, len(keys))
	for _, key := range keys {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "google":
			out = append(out, NewGoogleProvider(deps))
		case "lens":
			out = append(out, NewLensProvider(deps))
		case "espacenet":
			out = append(out, NewEspacenetProvider(deps))
		case "cnipa":
			out = append(out, NewCNIPAProvider(deps))
		case "":
			continue
		default:
			return nil, fmt.Errorf("unknown search source %q (want google/lens/espacenet/cnipa/all)", key)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no search sources selected")
	}
	return out, nil
}
