package cli

import (
	"github.com/spf13/cobra"

	"github.com/patware/priorart/internal/report"
	"github.com/patware/priorart/internal/rerank"
	"github.com/patware/priorart/internal/validate"
)

var (
	rerankInput       string
	rerankProfilePath string
	rerankOut         string
	rerankOutMD       string
	rerankAgentScores string
	rerankAgentWeight float64
	rerankTopK        int
	rerankMinAvg      float64
	rerankFailLow     bool
	rerankNoStrict    bool
)

var rerankCmd = &cobra.Command{
	Use:   "rerank",
	Short: "Score recall candidates for relevance to the profile",
	Long: `Rerank prior_art.json by heuristic relevance to the invention profile,
optionally blended with agent-provided scores. Inputs are strictly validated:
records with fabricated-looking source labels abort the run.

Example:
  priorart rerank --input prior_art.json --profile profile.json --out prior_art.reranked.json
  priorart rerank --input prior_art.json --profile profile.json --agent-scores rerank.agent.json`,
	RunE: runRerank,
}

func init() {
	rootCmd.AddCommand(rerankCmd)

	rerankCmd.Flags().StringVar(&rerankInput, "input", "prior_art.json", "recall artifact path")
	rerankCmd.Flags().StringVar(&rerankProfilePath, "profile", "profile.json", "invention profile path")
	rerankCmd.Flags().StringVar(&rerankOut, "out", "prior_art.reranked.json", "output JSON path")
	rerankCmd.Flags().StringVar(&rerankOutMD, "md", "", "output Markdown path (optional)")
	rerankCmd.Flags().StringVar(&rerankAgentScores, "agent-scores", "", "agent relevance scores file (optional)")
	rerankCmd.Flags().Float64Var(&rerankAgentWeight, "agent-weight", 0, "agent score weight in the blend (default from config)")
	rerankCmd.Flags().IntVar(&rerankTopK, "topk-for-gate", 0, "top-k window for the relevance gate (default from config)")
	rerankCmd.Flags().Float64Var(&rerankMinAvg, "min-topk-avg-score", 0, "relevance floor for --fail-on-low-relevance")
	rerankCmd.Flags().BoolVar(&rerankFailLow, "fail-on-low-relevance", false, "exit 2 when top-k avg relevance < floor")
	rerankCmd.Flags().BoolVar(&rerankNoStrict, "no-strict-source-integrity", false, "downgrade integrity violations to warnings")
}

func runRerank(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if rerankAgentWeight > 0 {
		cfg.Rerank.AgentWeight = rerankAgentWeight
	}
	if rerankTopK > 0 {
		cfg.Rerank.TopKForGate = rerankTopK
	}

	items, err := loadPriorArt(rerankInput)
	if err != nil {
		return err
	}
	profile, err := loadProfile(rerankProfilePath)
	if err != nil {
		return err
	}

	if cfg.Rerank.StrictSourceIntegrity && !rerankNoStrict {
		if err := validate.RecordsStrict(items); err != nil {
			return err
		}
	} else {
		for _, v := range validate.Records(items) {
			logWarn("integrity: %s", v)
		}
	}

	var agentScores map[string]rerank.AgentScore
	if rerankAgentScores != "" {
		agentScores, err = rerank.LoadAgentScores(rerankAgentScores)
		if err != nil {
			return err
		}
		logOK("agent scores: %d", len(agentScores))
	}

	out, err := rerank.Rerank(items, profile, agentScores, cfg.Rerank.AgentWeight)
	if err != nil {
		return err
	}

	if err := writeJSON(rerankOut, out); err != nil {
		return err
	}

	topK := cfg.Rerank.TopKForGate
	topKAvg := rerank.TopKAverage(out, topK)
	logOK("reranked items: %d", len(out))
	logOK("top%d avg relevance: %.4f", topK, topKAvg)
	logOK("out: %s", rerankOut)

	if rerankOutMD != "" {
		md := report.RerankMarkdown(out, rerankInput, rerankProfilePath, topKAvg, topK)
		if err := writeFile(rerankOutMD, []byte(md)); err != nil {
			return err
		}
		logOK("out-md: %s", rerankOutMD)
	}

	floor := rerankMinAvg
	if floor <= 0 {
		floor = cfg.Rerank.MinTopKAvgScore
	}
	if rerankFailLow && topKAvg < floor {
		return gateFailed(ExitGateFailed, "top%d avg relevance %.4f < min_topk_avg_score %.4f", topK, topKAvg, floor)
	}
	return nil
}
