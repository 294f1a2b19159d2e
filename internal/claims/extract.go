package claims

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/patware/priorart/internal/model"
)

// fallbackWindow caps how much flattened text is kept after a claims keyword
// anchor.
const fallbackWindow = 40000

// Parse outcomes used in attempt logs before a terminal status is chosen.
const (
	parseOK              = "ok"
	parseOKFallback      = "ok_fallback"
	parseEmpty           = "empty"
	parseSectionNotFound = "claims_section_not_found"
)

// fallbackAnchors mark where a claims block starts in flattened page text.
// Lowercased English anchors require a preceding newline to avoid matching
// mid-sentence mentions; the CN anchors are specific enough on their own.
var fallbackAnchors = []string{"\nclaims", "\nclaim", "权利要求书", "权利要求"}

var excessNewlinesRE = regexp.MustCompile(`\n\s*\n\s*\n+`)

// Extractor parses claim text out of patent pages. Strategy chain: a
// structured claims <section> first, then a keyword anchor over the flattened
// page text.
type Extractor struct {
	maxClaims  int
	maxTextLen int
}

// NewExtractor builds an extractor with the claim-count and text-length caps.
func NewExtractor(maxClaims, maxTextLen int) *Extractor {
	if maxClaims <= 0 {
		maxClaims = 60
	}
	if maxTextLen <= 0 {
		maxTextLen = 200000
	}
	return &Extractor{maxClaims: maxClaims, maxTextLen: maxTextLen}
}

// Parse extracts the claims from page HTML. The returned status is parseOK,
// parseOKFallback, parseEmpty or parseSectionNotFound; text is non-empty only
// for the ok statuses.
func (e *Extractor) Parse(pageHTML string) (string, []model.ClaimEntry, string) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return "", nil, parseSectionNotFound
	}

	if section := findClaimsSection(doc); section != nil {
		text := flattenNode(section)
		if text == "" {
			return "", nil, parseEmpty
		}
		text = truncate(text, e.maxTextLen)
		return text, SplitClaims(text, e.maxClaims), parseOK
	}

	flat := flattenNode(doc)
	fallback := claimsFromFlatText(flat)
	if fallback != "" {
		fallback = truncate(fallback, e.maxTextLen)
		return fallback, SplitClaims(fallback, e.maxClaims), parseOKFallback
	}
	return "", nil, parseSectionNotFound
}

// findClaimsSection locates the claims <section>: itemprop="claims" first,
// then id="claims", then a class containing "claims".
func findClaimsSection(doc *html.Node) *html.Node {
	match := func(pred func(*html.Node) bool) *html.Node {
		var found *html.Node
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if found != nil {
				return
			}
			if n.Type == html.ElementNode && n.DataAtom == atom.Section && pred(n) {
				found = n
				return
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(doc)
		return found
	}

	if n := match(func(n *html.Node) bool { return attrVal(n, "itemprop") == "claims" }); n != nil {
		return n
	}
	if n := match(func(n *html.Node) bool { return attrVal(n, "id") == "claims" }); n != nil {
		return n
	}
	return match(func(n *html.Node) bool {
		return strings.Contains(attrVal(n, "class"), "claims")
	})
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// flattenNode renders a node subtree as plain text, keeping block structure
// as newlines so claim numbering survives.
func flattenNode(root *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Iframe:
				return
			case atom.Br:
				buf.WriteString("\n")
			case atom.Li:
				buf.WriteString("- ")
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(collapseSpaces(n.Data))
			buf.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.P, atom.Div, atom.Li, atom.Section, atom.Tr:
				buf.WriteString("\n")
			}
		}
	}
	walk(root)

	return strings.TrimSpace(excessNewlinesRE.ReplaceAllString(buf.String(), "\n\n"))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// claimsFromFlatText finds the earliest claims anchor in flattened text and
// returns the window after it.
func claimsFromFlatText(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	start := -1
	for _, anchor := range fallbackAnchors {
		if idx := strings.Index(lower, anchor); idx >= 0 && (start < 0 || idx < start) {
			start = idx
		}
	}
	if start < 0 {
		return ""
	}
	return strings.TrimSpace(truncate(text[start:], fallbackWindow))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
