package textutil

import (
	"regexp"
	"strings"
)

var (
	countryCodeRE = regexp.MustCompile(`^[A-Z]{2}`)
	patentURLRE   = regexp.MustCompile(`(?i)/patent/([A-Za-z0-9]+)`)
)

// NormalizePatentNumber trims and upper-cases a publication number.
func NormalizePatentNumber(pn string) string {
	return strings.ToUpper(strings.TrimSpace(pn))
}

// PatentCountryCode returns the two-letter jurisdiction prefix of a
// normalized publication number, or "" when there is none.
func PatentCountryCode(pn string) string {
	return countryCodeRE.FindString(NormalizePatentNumber(pn))
}

// PatentNumberFromURL extracts a publication identifier embedded in a
// /patent/<id> URL path, normalized upper-case. Returns "" when absent.
func PatentNumberFromURL(url string) string {
	m := patentURLRE.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// PublicationNumberRegex builds a matcher for publication-number-shaped
// tokens with the requested country prefix plus the cross-jurisdictional
// prefixes (EP/WO/US) that routinely show up in any result page.
func PublicationNumberRegex(country string) *regexp.Regexp {
	prefixes := Dedup([]string{strings.ToUpper(strings.TrimSpace(country)), "EP", "WO", "US"})
	quoted := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if len(p) == 2 {
			quoted = append(quoted, regexp.QuoteMeta(p))
		}
	}
	if len(quoted) == 0 {
		quoted = []string{"EP", "WO", "US"}
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\d{6,13}[A-Z]\d?\b`)
}
