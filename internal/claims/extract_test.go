package claims

import (
	"strings"
	"testing"
)

const structuredPage = `<html><body>
<section itemprop="description"><p>Background text.</p></section>
<section itemprop="claims">
  <div>1. A method for caching pages by content hash.</div>
  <div>2. The method of claim 1, wherein fetches retry with backoff.</div>
</section>
</body></html>`

const fallbackPage = `<html><body>
<h2>Description</h2>
<p>Some description text.</p>
<h2>Claims</h2>
<p>1. A scheduler for dispatching fetch jobs.</p>
<p>2. The scheduler of claim 1.</p>
</body></html>`

const noClaimsPage = `<html><body><p>Nothing to see.</p></body></html>`

func TestExtractStructuredSection(t *testing.T) {
	e := NewExtractor(60, 200000)
	text, claimList, status := e.Parse(structuredPage)
	if status != parseOK {
		t.Fatalf("status = %q", status)
	}
	if len(claimList) != 2 {
		t.Fatalf("claims = %+v", claimList)
	}
	if strings.Contains(text, "Background text") {
		t.Error("description leaked into claims text")
	}
	if claimList[0].Num != "1" || !strings.Contains(claimList[0].Text, "content hash") {
		t.Errorf("first claim = %+v", claimList[0])
	}
}

func TestExtractKeywordFallback(t *testing.T) {
	e := NewExtractor(60, 200000)
	text, claimList, status := e.Parse(fallbackPage)
	if status != parseOKFallback {
		t.Fatalf("status = %q", status)
	}
	if text == "" || len(claimList) != 2 {
		t.Fatalf("text = %q, claims = %+v", text, claimList)
	}
}

func TestExtractNothingFound(t *testing.T) {
	e := NewExtractor(60, 200000)
	text, _, status := e.Parse(noClaimsPage)
	if status != parseSectionNotFound || text != "" {
		t.Fatalf("status = %q, text = %q", status, text)
	}
}

func TestExtractChineseAnchor(t *testing.T) {
	page := `<html><body><p>说明书内容。</p><p>权利要求书</p><p>1. 一种缓存调度方法。</p></body></html>`
	e := NewExtractor(60, 200000)
	text, claimList, status := e.Parse(page)
	if status != parseOKFallback {
		t.Fatalf("status = %q", status)
	}
	if !strings.Contains(text, "权利要求书") || len(claimList) == 0 {
		t.Errorf("text = %q, claims = %+v", text, claimList)
	}
}

func TestExtractSkipsScripts(t *testing.T) {
	page := `<html><body><section id="claims"><script>var claims = "1. fake";</script>
<p>1. A real claim.</p></section></body></html>`
	e := NewExtractor(60, 200000)
	text, _, status := e.Parse(page)
	if status != parseOK {
		t.Fatalf("status = %q", status)
	}
	if strings.Contains(text, "fake") {
		t.Errorf("script content leaked: %q", text)
	}
}
