package claims

import (
	"regexp"
	"strings"

	"github.com/patware/priorart/internal/model"
)

var (
	// claimLeadRE marks "N." claim prefixes at the start of the text or
	// after whitespace so the split below can find them on line starts.
	claimLeadRE = regexp.MustCompile(`(^|\s)(\d{1,3})\.`)
	claimNumRE  = regexp.MustCompile(`\n\s*(\d{1,3})\.`)
)

// SplitClaims splits claim text on "N." numbering. Empty bodies are dropped
// and the count is capped at max; text with no usable numbering becomes a
// single unnumbered entry.
func SplitClaims(text string, max int) []model.ClaimEntry {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if max <= 0 {
		max = 60
	}

	t := claimLeadRE.ReplaceAllString(text, "\n$2.")
	marks := claimNumRE.FindAllStringSubmatchIndex(t, -1)
	if len(marks) == 0 {
		return []model.ClaimEntry{{Text: trimmed}}
	}

	var claims []model.ClaimEntry
	for i, m := range marks {
		num := t[m[2]:m[3]]
		end := len(t)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		body := strings.TrimSpace(t[m[1]:end])
		if body == "" {
			continue
		}
		claims = append(claims, model.ClaimEntry{Num: num, Text: body})
		if len(claims) >= max {
			break
		}
	}
	if len(claims) == 0 {
		if prefix := strings.TrimSpace(t[:marks[0][0]]); prefix != "" {
			return []model.ClaimEntry{{Text: prefix}}
		}
		return nil
	}
	return claims
}

// JoinClaims renders a claim list back into numbered text.
func JoinClaims(claims []model.ClaimEntry) string {
	parts := make([]string, 0, len(claims))
	for _, c := range claims {
		if c.Num != "" {
			parts = append(parts, c.Num+". "+c.Text)
		} else {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}
