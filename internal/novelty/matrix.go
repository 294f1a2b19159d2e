package novelty

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/patware/priorart/internal/model"
)

// Feature count bounds: a matrix over fewer than three features says
// nothing; more than twelve stops being readable.
const (
	minFeatures = 3
	maxFeatures = 12

	maxNoveltyCandidates = 10
	maxPairCandidates    = 12
	maxTopPriorArt       = 5

	matrixNote = "Heuristic claims-first matrix for preliminary comparison; not a legal novelty conclusion."
	pairNote   = "Both features appear across docs, but rarely appear together (candidate novelty combination)."
)

var multiSpaceRE = regexp.MustCompile(`\s{2,}`)

// Builder assembles the novelty matrix under the configured thresholds.
type Builder struct {
	cfg model.NoveltyConfig
}

// NewBuilder creates a Builder.
func NewBuilder(cfg model.NoveltyConfig) *Builder {
	return &Builder{cfg: cfg}
}

// label maps a best-of score onto NO/PARTIAL/YES.
func (b *Builder) label(score float64) string {
	if score >= b.cfg.YesThreshold {
		return model.LabelYes
	}
	if score >= b.cfg.PartialThreshold {
		return model.LabelPartial
	}
	return model.LabelNo
}

// Build computes the matrix for the profile features against the claim
// records. Documents are capped at cfg.MaxDocs in input order (the input is
// rank-ordered upstream).
func (b *Builder) Build(profile *model.InventionProfile, records []model.ClaimRecord) (*model.NoveltyMatrix, error) {
	features := profile.NormalizedFeatures(maxFeatures)
	if len(features) < minFeatures {
		return nil, fmt.Errorf("profile.key_features must have at least %d usable features, got %d", minFeatures, len(features))
	}

	docs := records
	if b.cfg.MaxDocs > 0 && len(docs) > b.cfg.MaxDocs {
		docs = docs[:b.cfg.MaxDocs]
	}

	featureIDs := make([]string, len(features))
	featureTexts := make([]string, len(features))
	featureToks := make([][]string, len(features))
	for i, f := range features {
		featureIDs[i] = f.ID
		featureTexts[i] = f.Text
		featureToks[i] = FeatureTokens(f.Text)
	}

	out := &model.NoveltyMatrix{
		FeatureIDs: featureIDs,
		Features:   featureTexts,
		Note:       matrixNote,
	}

	for _, d := range docs {
		out.Documents = append(out.Documents, model.MatrixDocument{
			Source:       d.Source,
			PatentNumber: d.PatentNumber,
			Title:        d.Title,
			URL:          d.URL,
			Abstract:     d.Abstract,
			ClaimsStatus: d.ClaimsStatus,
		})
	}
	out.QualityGate = b.qualityGate(docs)

	nFeat := len(features)
	counts := make([]map[string]int, nFeat)
	for i := range counts {
		counts[i] = map[string]int{model.LabelNo: 0, model.LabelPartial: 0, model.LabelYes: 0}
	}
	pairUnion := make([][]int, nFeat)
	pairCo := make([][]int, nFeat)
	for i := range pairUnion {
		pairUnion[i] = make([]int, nFeat)
		pairCo[i] = make([]int, nFeat)
	}
	type docScore struct {
		idx   int
		score float64
	}
	docScores := make([]docScore, 0, len(docs))

	for di, d := range docs {
		claimsLower := strings.ToLower(d.ClaimsText)
		absLower := strings.ToLower(d.Abstract)

		row := make([]model.NoveltyCell, 0, nFeat)
		labels := make([]string, nFeat)
		scoreSum := 0.0

		for fi := range features {
			toks := featureToks[fi]
			scoreClaims := TokenHitRatio(toks, claimsLower)
			scoreAbs := TokenHitRatio(toks, absLower)
			best := math.Max(scoreClaims, scoreAbs)
			lab := b.label(best)
			counts[fi][lab]++
			labels[fi] = lab
			scoreSum += best

			evidenceText := d.ClaimsText
			if evidenceText == "" {
				evidenceText = d.Abstract
			}
			row = append(row, model.NoveltyCell{
				FeatureID:        featureIDs[fi],
				Feature:          featureTexts[fi],
				Tokens:           capTokens(toks),
				ScoreClaims:      round3(scoreClaims),
				ScoreAbstract:    round3(scoreAbs),
				ScoreBest:        round3(best),
				Label:            lab,
				EvidenceSnippets: b.snippets(evidenceText, toks),
			})
		}

		for i := 0; i < nFeat; i++ {
			for j := i + 1; j < nFeat; j++ {
				if labels[i] != model.LabelNo || labels[j] != model.LabelNo {
					pairUnion[i][j]++
				}
				if labels[i] != model.LabelNo && labels[j] != model.LabelNo {
					pairCo[i][j]++
				}
			}
		}

		out.Matrix = append(out.Matrix, row)
		docScores = append(docScores, docScore{idx: di, score: scoreSum})
	}

	nDocs := len(docs)
	if nDocs < 1 {
		nDocs = 1
	}

	for fi := range features {
		out.NoveltyCandidates = append(out.NoveltyCandidates, model.NoveltyCandidate{
			FeatureID:    featureIDs[fi],
			Feature:      featureTexts[fi],
			NoRatio:      round3(float64(counts[fi][model.LabelNo]) / float64(nDocs)),
			PartialRatio: round3(float64(counts[fi][model.LabelPartial]) / float64(nDocs)),
			YesCount:     counts[fi][model.LabelYes],
			PartialCount: counts[fi][model.LabelPartial],
			NoCount:      counts[fi][model.LabelNo],
			Tokens:       capTokens(featureToks[fi]),
		})
	}
	sort.SliceStable(out.NoveltyCandidates, func(a, b int) bool {
		ca, cb := out.NoveltyCandidates[a], out.NoveltyCandidates[b]
		if ca.NoRatio != cb.NoRatio {
			return ca.NoRatio > cb.NoRatio
		}
		return ca.PartialRatio > cb.PartialRatio
	})
	if len(out.NoveltyCandidates) > maxNoveltyCandidates {
		out.NoveltyCandidates = out.NoveltyCandidates[:maxNoveltyCandidates]
	}

	for i := 0; i < nFeat; i++ {
		for j := i + 1; j < nFeat; j++ {
			unionRatio := float64(pairUnion[i][j]) / float64(nDocs)
			coRatio := float64(pairCo[i][j]) / float64(nDocs)
			if unionRatio >= b.cfg.PairUnionMin && coRatio <= b.cfg.PairCoMax {
				out.PairCandidates = append(out.PairCandidates, model.PairCandidate{
					Pair:       []string{featureIDs[i], featureIDs[j]},
					Features:   []string{featureTexts[i], featureTexts[j]},
					UnionRatio: round3(unionRatio),
					CoRatio:    round3(coRatio),
					Note:       pairNote,
				})
			}
		}
	}
	sort.SliceStable(out.PairCandidates, func(a, b int) bool {
		pa, pb := out.PairCandidates[a], out.PairCandidates[b]
		if pa.UnionRatio != pb.UnionRatio {
			return pa.UnionRatio > pb.UnionRatio
		}
		return pa.CoRatio < pb.CoRatio
	})
	if len(out.PairCandidates) > maxPairCandidates {
		out.PairCandidates = out.PairCandidates[:maxPairCandidates]
	}

	sort.SliceStable(docScores, func(a, b int) bool { return docScores[a].score > docScores[b].score })
	top := docScores
	if len(top) > maxTopPriorArt {
		top = top[:maxTopPriorArt]
	}
	for _, ds := range top {
		doc := out.Documents[ds.idx]
		doc.OverallMatch = round3(ds.score)
		out.TopPriorArt = append(out.TopPriorArt, doc)
	}

	return out, nil
}

// qualityGate summarizes the claims extraction quality of the documents.
func (b *Builder) qualityGate(docs []model.ClaimRecord) model.ClaimsQualityGate {
	counts := make(map[string]int)
	ok := 0
	for _, d := range docs {
		status := d.ClaimsStatus
		if status == "" {
			status = "unknown"
		}
		counts[status]++
		if model.IsClaimsSuccess(strings.ToLower(d.ClaimsStatus)) {
			ok++
		}
	}
	ratio := 0.0
	if len(docs) > 0 {
		ratio = float64(ok) / float64(len(docs))
	}
	return model.ClaimsQualityGate{
		ClaimsOK:         ok,
		ClaimsTotal:      len(docs),
		ClaimsOKRatio:    round3(ratio),
		StatusCounts:     counts,
		MinClaimsOKRatio: b.cfg.MinClaimsOKRatio,
		Pass:             ratio >= math.Max(0, b.cfg.MinClaimsOKRatio),
	}
}

// snippets returns up to cfg.MaxSnippets windows of text around token hits.
func (b *Builder) snippets(text string, tokens []string) []string {
	maxSnips := b.cfg.MaxSnippets
	window := b.cfg.SnippetWindow
	if maxSnips <= 0 || window <= 0 || text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	runes := []rune(text)
	lowerRunes := []rune(lower)

	var snippets []string
	seen := map[string]bool{}
	for _, tok := range tokens {
		tokRunes := []rune(tok)
		for at := 0; at+len(tokRunes) <= len(lowerRunes); at++ {
			if string(lowerRunes[at:at+len(tokRunes)]) != tok {
				continue
			}
			s := at - window
			if s < 0 {
				s = 0
			}
			e := at + len(tokRunes) + window
			if e > len(runes) {
				e = len(runes)
			}
			snip := strings.TrimSpace(strings.ReplaceAll(string(runes[s:e]), "\n", " "))
			snip = multiSpaceRE.ReplaceAllString(snip, " ")
			if snip != "" && !seen[snip] {
				seen[snip] = true
				snippets = append(snippets, snip)
			}
			if len(snippets) >= maxSnips {
				return snippets
			}
			at += len(tokRunes) - 1
		}
	}
	return snippets
}

func capTokens(toks []string) []string {
	if len(toks) > 12 {
		return toks[:12]
	}
	return toks
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
