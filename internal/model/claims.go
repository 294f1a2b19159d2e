package model

// Claims fetch terminal statuses. Each ClaimRecord gets exactly one.
const (
	ClaimsStatusOK              = "ok"
	ClaimsStatusOKFallback      = "ok_fallback"
	ClaimsStatusManualOK        = "manual_ok"
	ClaimsStatusSectionNotFound = "claims_section_not_found"
	ClaimsStatusMissingRouting  = "missing_patent_number_or_url"
	ClaimsStatusFetchTimeout    = "fetch_timeout"
	ClaimsStatusFetchNetwork    = "fetch_failed_network"
	ClaimsStatusFetchBlocked403 = "fetch_blocked_403"
	ClaimsStatusFetchBlocked412 = "fetch_blocked_412"
	ClaimsStatusFetchFailed503  = "fetch_failed_503"
	ClaimsStatusFetchFailed429  = "fetch_failed_429"
	ClaimsStatusFetchFailed     = "fetch_failed"
)

// IsClaimsSuccess reports whether a status counts toward the ok-ratio gate.
func IsClaimsSuccess(status string) bool {
	switch status {
	case ClaimsStatusOK, ClaimsStatusOKFallback, ClaimsStatusManualOK:
		return true
	}
	return false
}

// IsClaimsTerminalSuccess reports whether a prior-run record can be carried
// forward on --resume without re-fetching.
func IsClaimsTerminalSuccess(status string) bool {
	return status == ClaimsStatusOK || status == ClaimsStatusManualOK
}

// ManualSourceTypes is the allow-list for claims_source_type on manual
// evidence. Manual claims outside this list are rejected in strict mode.
var ManualSourceTypes = map[string]bool{
	"official_register": true,
	"google_patents":    true,
	"espacenet":         true,
	"cnipa":             true,
	"lens":              true,
	"patent_office_pdf": true,
}

// ClaimEntry is one numbered claim. Num is empty when the source text had no
// usable numbering.
type ClaimEntry struct {
	Num  string `json:"num,omitempty"`
	Text string `json:"text"`
}

// FetchAttempt is one entry of the per-record diagnostics log.
type FetchAttempt struct {
	Source      string `json:"source"`
	URL         string `json:"url"`
	Result      string `json:"result"`
	Error       string `json:"error,omitempty"`
	FromCache   bool   `json:"from_cache,omitempty"`
	ClaimsCount int    `json:"claims_count,omitempty"`
}

// ClaimRecord extends a PriorArtRecord with fetched claim text and the
// fetch diagnostics that produced it.
type ClaimRecord struct {
	PriorArtRecord

	ClaimsStatus     string         `json:"claims_status"`
	ClaimsError      string         `json:"claims_error"`
	ClaimsText       string         `json:"claims_text"`
	Claims           []ClaimEntry   `json:"claims"`
	ClaimsSource     string         `json:"claims_source"`
	ClaimsPageURL    string         `json:"claims_page_url"`
	ClaimsSourceURL  string         `json:"claims_source_url,omitempty"`
	ClaimsSourceType string         `json:"claims_source_type,omitempty"`
	FetchAttempts    []FetchAttempt `json:"claims_fetch_attempts"`
	FetchedAt        string         `json:"fetched_at,omitempty"`

	// ManualClaimsSource is the path of the manual claims file a manual_ok
	// record came from.
	ManualClaimsSource string `json:"manual_claims_source,omitempty"`
}
