// Package claims fetches full claim text for top-ranked prior-art records.
// Providers are tried in country-aware priority order; every page goes
// through the content-hash cache, and every record ends with exactly one
// terminal claims_status.
package claims

import (
	"net/url"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// SupportedSources are the claim-source keys accepted in priority overrides.
var SupportedSources = map[string]bool{
	"google":    true,
	"espacenet": true,
	"cnipa":     true,
	"lens":      true,
}

// ChooseSources resolves the claim-source priority for one record. "auto"
// routes by the publication number's jurisdiction; anything else is an
// explicit comma-separated priority list filtered to supported sources.
func ChooseSources(it *model.PriorArtRecord, sourcesArg string) []string {
	arg := strings.ToLower(strings.TrimSpace(sourcesArg))
	if arg != "" && arg != "auto" {
		var selected []string
		for _, s := range strings.Split(arg, ",") {
			s = strings.TrimSpace(s)
			if SupportedSources[s] {
				selected = append(selected, s)
			}
		}
		if len(selected) == 0 {
			return []string{"google"}
		}
		return selected
	}

	switch textutil.PatentCountryCode(it.PatentNumber) {
	case "CN":
		return []string{"cnipa", "google", "espacenet", "lens"}
	case "EP", "WO":
		return []string{"espacenet", "google", "lens", "cnipa"}
	case "US", "JP", "KR", "DE", "FR", "GB":
		return []string{"google", "espacenet", "lens", "cnipa"}
	}
	return []string{"google", "espacenet", "cnipa", "lens"}
}

// CandidateURLs returns the URL family to try for a record on one source,
// deduplicated in priority order.
func CandidateURLs(it *model.PriorArtRecord, source string) []string {
	pn := textutil.NormalizePatentNumber(it.PatentNumber)
	var out []string
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "google":
		if u := strings.TrimSpace(it.URL); strings.HasPrefix(u, "https://patents.google.com/") {
			out = append(out, u)
		}
		if pn != "" {
			out = append(out,
				"https://patents.google.com/patent/"+pn,
				"https://patents.google.com/patent/"+pn+"/en",
				"https://patents.google.com/patent/"+pn+"?oq="+pn,
			)
		}
	case "espacenet":
		if pn != "" {
			out = append(out,
				"https://worldwide.espacenet.com/patent/search?q="+url.QueryEscape("pn="+pn),
				"https://worldwide.espacenet.com/patent/search/publication/"+pn,
			)
		}
	case "cnipa":
		if pn != "" {
			q := url.QueryEscape(pn)
			out = append(out,
				"https://pss-system.cponline.cnipa.gov.cn/conventionalSearch?searchWord="+q,
				"https://pss-system.cponline.cnipa.gov.cn/seniorSearch?searchWord="+q,
			)
		}
	case "lens":
		if pn != "" {
			q := url.QueryEscape(pn)
			out = append(out,
				"https://www.lens.org/lens/search/patent/list?q="+q,
				"https://www.lens.org/search/patent/list?q="+q,
			)
		}
	}
	return textutil.Dedup(out)
}
