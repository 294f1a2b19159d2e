// Package novelty builds the feature x prior-art comparison matrix. Scoring
// is token-hit heuristics over claims text (abstract as backup), bilingual
// via a small synonym table. The output is a screening aid, not a legal
// novelty conclusion.
package novelty

import (
	"strings"

	"github.com/patware/priorart/internal/textutil"
)

// genericTerms are drafting boilerplate in both languages; they match almost
// every patent and would drown the signal.
var genericTerms = map[string]bool{
	"方法": true, "系统": true, "装置": true, "模块": true, "步骤": true,
	"数据": true, "信息": true, "处理": true, "实现": true, "用于": true,
	"包括": true, "其中": true, "一种": true, "技术": true, "特征": true,
	"method": true, "system": true, "device": true, "module": true, "step": true,
	"data": true, "information": true, "process": true, "processing": true,
	"implement": true, "including": true, "wherein": true,
	"a": true, "an": true, "the": true,
}

// synonyms bridges the CN/EN vocabulary gap for the domain terms that
// actually recur in claims.
var synonyms = map[string][]string{
	"cache":     {"缓存"},
	"缓存":        {"cache"},
	"dedup":     {"去重", "去重复", "重复消除"},
	"去重":        {"dedup", "deduplication"},
	"scheduler": {"调度", "调度器"},
	"调度":        {"scheduler", "scheduling"},
	"pipeline":  {"流水线", "管线"},
	"流水线":       {"pipeline"},
	"retry":     {"重试"},
	"重试":        {"retry"},
	"score":     {"评分", "打分"},
	"scoring":   {"评分", "打分"},
	"评分":        {"score", "scoring"},
	"ranking":   {"排序"},
	"排序":        {"ranking"},
	"vector":    {"向量"},
	"向量":        {"vector", "embedding"},
	"embedding": {"向量", "嵌入"},
}

// FeatureTokens tokenizes a feature description for matching: lowercased,
// generic terms dropped, synonyms expanded, first-seen order preserved.
func FeatureTokens(text string) []string {
	var out []string
	for _, t := range textutil.AllTokenMatches(text) {
		tl := strings.ToLower(t)
		if genericTerms[tl] || genericTerms[t] {
			continue
		}
		out = append(out, tl)
		for _, s := range synonyms[tl] {
			out = append(out, strings.ToLower(s))
		}
	}
	return textutil.Dedup(out)
}

// TokenHitRatio is the fraction of tokens found in text (already lowercased).
func TokenHitRatio(tokens []string, text string) float64 {
	if len(tokens) == 0 || text == "" {
		return 0
	}
	hits := 0
	for _, t := range tokens {
		if strings.Contains(text, t) {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}
