// Package report renders the human-facing markdown companions to the JSON
// artifacts. The JSON is what downstream stages read; the markdown is what a
// reviewer skims.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/patware/priorart/internal/claims"
	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

const abstractPreviewRunes = 220

// SearchMarkdown renders recall results grouped by source, in first-seen
// source order. Placeholder entries render as a hint plus the search link.
func SearchMarkdown(items []model.PriorArtRecord) string {
	var order []string
	bySource := map[string][]model.PriorArtRecord{}
	for _, it := range items {
		src := it.Source
		if src == "" {
			src = "未知"
		}
		if _, ok := bySource[src]; !ok {
			order = append(order, src)
		}
		bySource[src] = append(bySource[src], it)
	}

	lines := []string{"## 专利检索结果\n"}
	for _, src := range order {
		lines = append(lines, fmt.Sprintf("### %s\n", src))
		for i, it := range bySource[src] {
			if it.IsPlaceholder() {
				lines = append(lines, fmt.Sprintf("- 提示：%s", it.Note))
				if it.URL != "" {
					lines = append(lines, fmt.Sprintf("  - 链接：%s", it.URL))
				}
				continue
			}
			title := it.Title
			if title == "" {
				title = "无标题"
			}
			lines = append(lines, fmt.Sprintf("%d. **%s**", i+1, title))
			if it.PatentNumber != "" {
				lines = append(lines, fmt.Sprintf("   - 专利号：%s", it.PatentNumber))
			}
			if it.SimilarityScore != nil {
				lines = append(lines, fmt.Sprintf("   - 相似度：%v%%", *it.SimilarityScore))
			}
			if it.URL != "" {
				lines = append(lines, fmt.Sprintf("   - 链接：%s", it.URL))
			}
			if it.Abstract != "" {
				lines = append(lines, fmt.Sprintf("   - 摘要：%s", abstractPreview(it.Abstract)))
			}
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func abstractPreview(abstract string) string {
	a := strings.TrimSpace(strings.ReplaceAll(abstract, "\n", " "))
	r := []rune(a)
	if len(r) > abstractPreviewRunes {
		return string(r[:abstractPreviewRunes]) + "..."
	}
	return a
}

// RerankMarkdown renders the rerank summary with the top 20 lines.
func RerankMarkdown(items []model.PriorArtRecord, inputPath, profilePath string, topKAvg float64, topK int) string {
	lines := []string{
		"# Prior Art Rerank Report",
		"",
		fmt.Sprintf("- input: %s", inputPath),
		fmt.Sprintf("- profile: %s", profilePath),
		fmt.Sprintf("- total_items: %d", len(items)),
		fmt.Sprintf("- top%d_avg_relevance: %.4f", topK, topKAvg),
		"",
		"## Top 20",
		"",
	}
	for i, it := range items {
		if i >= 20 {
			break
		}
		pn := textutil.NormalizePatentNumber(it.PatentNumber)
		if pn == "" {
			pn = "(no-pn)"
		}
		score := 0.0
		if it.RelevanceScore != nil {
			score = *it.RelevanceScore
		}
		lines = append(lines, fmt.Sprintf("%d. `%s` score=%v | %s", i+1, pn, score, strings.TrimSpace(it.Title)))
	}
	return strings.Join(lines, "\n")
}

// ManualChecklistMarkdown renders the per-patent checklist that accompanies
// the manual claims template.
func ManualChecklistMarkdown(tpl *claims.Template) string {
	lines := []string{
		"# Manual Claims Extraction Checklist",
		"",
		fmt.Sprintf("- generated_at: %s", tpl.GeneratedAt),
		fmt.Sprintf("- input: %s", tpl.Input),
		fmt.Sprintf("- topk: %d", tpl.TopK),
		"",
	}
	for _, it := range tpl.Items {
		pn := it.PatentNumber
		if pn == "" {
			pn = "(no patent number)"
		}
		lines = append(lines,
			fmt.Sprintf("## %d. %s", it.Rank, pn),
			fmt.Sprintf("- source: %s", it.Source),
			fmt.Sprintf("- title: %s", it.Title),
			fmt.Sprintf("- url: %s", it.URL),
			fmt.Sprintf("- query: %s", it.Query),
			"- status: TODO fill claims_text / claims[] in claims_manual.json",
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// MatrixMarkdown renders the novelty matrix as a reviewer-facing table plus
// the candidate lists.
func MatrixMarkdown(m *model.NoveltyMatrix, generatedAt time.Time) string {
	lines := []string{
		"# Novelty Matrix",
		"",
		fmt.Sprintf("- generated_at: %s", generatedAt.UTC().Format(time.RFC3339)),
		fmt.Sprintf("- documents: %d", len(m.Documents)),
		fmt.Sprintf("- claims_ok_ratio: %v (min %v, pass=%v)",
			m.QualityGate.ClaimsOKRatio, m.QualityGate.MinClaimsOKRatio, m.QualityGate.Pass),
		"",
		"## Matrix",
		"",
	}

	header := "| 文献 |"
	sep := "| --- |"
	for _, id := range m.FeatureIDs {
		header += fmt.Sprintf(" %s |", id)
		sep += " --- |"
	}
	lines = append(lines, header, sep)
	for di, row := range m.Matrix {
		doc := m.Documents[di]
		label := doc.PatentNumber
		if label == "" {
			label = doc.Title
		}
		line := fmt.Sprintf("| %s |", label)
		for _, cell := range row {
			line += fmt.Sprintf(" %s (%v) |", cell.Label, cell.ScoreBest)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", "## 新颖性候选特征", "")
	for i, c := range m.NoveltyCandidates {
		lines = append(lines, fmt.Sprintf("%d. %s: %s (no_ratio=%v, partial_ratio=%v)",
			i+1, c.FeatureID, c.Feature, c.NoRatio, c.PartialRatio))
	}

	if len(m.PairCandidates) > 0 {
		lines = append(lines, "", "## 组合候选", "")
		for i, p := range m.PairCandidates {
			lines = append(lines, fmt.Sprintf("%d. %s + %s (union=%v, co=%v)",
				i+1, p.Pair[0], p.Pair[1], p.UnionRatio, p.CoRatio))
		}
	}

	lines = append(lines, "", fmt.Sprintf("> %s", m.Note))
	return strings.Join(lines, "\n")
}
