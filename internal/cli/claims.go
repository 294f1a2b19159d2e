package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/patware/priorart/internal/cache"
	"github.com/patware/priorart/internal/claims"
	"github.com/patware/priorart/internal/httpx"
	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/worker"
)

var (
	claimsInput      string
	claimsOut        string
	claimsTopK       int
	claimsSources    string
	claimsManualFile string
	claimsForce      bool
	claimsNoResume   bool
	claimsMinOKRatio float64
	claimsNoCache    bool
)

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Fetch and extract claims for the top-ranked candidates",
	Long: `Fetch patent pages for the top-k reranked candidates and extract their
claims sections. Failed records keep a terminal status and the full attempt
log; re-runs resume from the existing output and refetch only failures.

Manually transcribed claims can be merged from a claims_manual.json file;
in strict mode each manual record must carry a verifiable source.

Example:
  priorart claims --input prior_art.reranked.json --out claims.json
  priorart claims --input prior_art.reranked.json --manual claims_manual.json`,
	RunE: runClaims,
}

func init() {
	rootCmd.AddCommand(claimsCmd)

	claimsCmd.Flags().StringVar(&claimsInput, "input", "prior_art.reranked.json", "reranked recall artifact path")
	claimsCmd.Flags().StringVar(&claimsOut, "out", "claims.json", "output JSON path")
	claimsCmd.Flags().IntVar(&claimsTopK, "topk", 0, "number of candidates to fetch (default from config)")
	claimsCmd.Flags().StringVar(&claimsSources, "sources", "", "claim sources: auto or comma-separated google,espacenet,cnipa,lens")
	claimsCmd.Flags().StringVar(&claimsManualFile, "manual", "", "manual claims file to merge (optional)")
	claimsCmd.Flags().BoolVar(&claimsForce, "force", false, "refetch even terminally successful records")
	claimsCmd.Flags().BoolVar(&claimsNoResume, "no-resume", false, "ignore the existing output file")
	claimsCmd.Flags().Float64Var(&claimsMinOKRatio, "require-min-ok-ratio", 0, "exit 2 when the claims ok ratio is below this")
	claimsCmd.Flags().BoolVar(&claimsNoCache, "no-cache", false, "disable the page cache")
}

func runClaims(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if claimsTopK > 0 {
		cfg.Claims.TopK = claimsTopK
	}
	if claimsSources != "" {
		cfg.Claims.Sources = claimsSources
	}
	cfg.Claims.Force = claimsForce
	cfg.Claims.Resume = cfg.Claims.Resume && !claimsNoResume

	items, err := loadPriorArt(claimsInput)
	if err != nil {
		return err
	}
	selected := claims.SelectTopK(items, cfg.Claims.TopK)
	logOK("selected top%d of %d items", len(selected), len(items))

	existing := map[string]model.ClaimRecord{}
	if cfg.Claims.Resume && fileExists(claimsOut) {
		prev, err := loadClaimRecords(claimsOut)
		if err != nil {
			return err
		}
		existing = claims.ExistingByPatent(prev)
		logOK("resume: %d existing records", len(prev))
	}

	var pages cache.Cache
	if cfg.Cache.Enabled && !claimsNoCache {
		pages = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir)
	} else {
		pages = cache.NewMemoryCache(cfg.Cache.MemoryTTL)
	}

	limiter := worker.NewLimiter(cfg.Search.RequestsPerSecond, cfg.Search.Burst)
	client := httpx.NewClient(cfg.HTTP, httpx.PolicyFromConfig(cfg.Retry), limiter)
	fetcher := claims.NewFetcher(client, pages, cfg.Claims)

	records := fetcher.Run(context.Background(), selected, existing)

	if claimsManualFile != "" && fileExists(claimsManualFile) {
		manual, err := claims.LoadManual(claimsManualFile)
		if err != nil {
			return err
		}
		records, err = claims.MergeManual(records, manual, claimsManualFile, cfg.Claims.StrictManual,
			cfg.Claims.MaxClaims, cfg.Claims.MaxClaimsTextLen)
		if err != nil {
			return err
		}
		logOK("manual claims merged from %s", claimsManualFile)
	}

	if err := writeJSON(claimsOut, records); err != nil {
		return err
	}

	ratio := claims.OKRatio(records)
	logOK("claims records: %d", len(records))
	logOK("claims ok ratio: %.4f", ratio)
	for status, n := range claims.StatusCounts(records) {
		logOK("status %s: %d", status, n)
	}
	logOK("out: %s", claimsOut)

	minRatio := claimsMinOKRatio
	if minRatio <= 0 {
		minRatio = cfg.Claims.RequireMinOKRatio
	}
	if minRatio > 0 && ratio < minRatio {
		return gateFailed(ExitGateFailed, "claims ok ratio %.4f < required %.4f", ratio, minRatio)
	}
	return nil
}
