package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patware/priorart/internal/httpx"
	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/queries"
	"github.com/patware/priorart/internal/report"
	"github.com/patware/priorart/internal/search"
	"github.com/patware/priorart/internal/validate"
	"github.com/patware/priorart/internal/worker"
)

var (
	searchQueries      string
	searchOut          string
	searchOutMD        string
	searchFailuresJSON string
	searchSources      string
	searchLimit        int
	searchCountry      string
	searchParallel     bool
	searchAnalyze      bool
	searchFailOnEmpty  bool
	searchMinUnique    int
	searchFailLow      bool
	searchNoRobots     bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Recall prior-art candidates from patent search providers",
	Long: `Run every query from the queries artifact against the selected providers
and write the deduplicated prior_art.json recall set. Provider errors are
collected into a failures artifact instead of aborting the run.

Example:
  priorart search --queries queries.json --out prior_art.json
  priorart search --queries queries.json --sources all --parallel --md prior_art.md`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchQueries, "queries", "queries.json", "queries artifact path")
	searchCmd.Flags().StringVar(&searchOut, "out", "prior_art.json", "output JSON path")
	searchCmd.Flags().StringVar(&searchOutMD, "md", "", "output Markdown path (optional)")
	searchCmd.Flags().StringVar(&searchFailuresJSON, "failures-json", "", "failures artifact path (default: <out>.failures.json)")
	searchCmd.Flags().StringVar(&searchSources, "sources", "", "comma-separated providers: google,lens,espacenet,cnipa or all")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max results per query per provider")
	searchCmd.Flags().StringVar(&searchCountry, "country", "", "country filter for provider queries")
	searchCmd.Flags().BoolVar(&searchParallel, "parallel", false, "query providers concurrently")
	searchCmd.Flags().BoolVar(&searchAnalyze, "analyze", false, "score keyword similarity per query")
	searchCmd.Flags().BoolVar(&searchFailOnEmpty, "fail-on-empty", false, "exit 2 when recall is empty")
	searchCmd.Flags().IntVar(&searchMinUnique, "min-unique-patents", 0, "recall floor for --fail-on-low-recall")
	searchCmd.Flags().BoolVar(&searchFailLow, "fail-on-low-recall", false, "exit 3 when unique patents < --min-unique-patents")
	searchCmd.Flags().BoolVar(&searchNoRobots, "no-robots", false, "skip robots.txt checks before scraping")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if searchLimit > 0 {
		cfg.Search.Limit = searchLimit
	}
	if searchCountry != "" {
		cfg.Search.Country = searchCountry
	}
	if searchSources != "" {
		cfg.Search.Sources = strings.Split(searchSources, ",")
	}

	var set model.QuerySet
	if err := readJSON(searchQueries, &set); err != nil {
		return err
	}
	valid, dropped := queries.Sanitize(set.Queries, cfg.Search.MinQueryTokens)
	for _, d := range dropped {
		logWarn("dropped query %q: %s", d.Query, d.Reason)
	}
	logOK("valid queries: %d, dropped queries: %d", len(valid), len(dropped))
	if len(valid) == 0 {
		if cfg.Search.StrictQueryQuality {
			return gateFailed(ExitGateFailed, "no valid queries in %s", searchQueries)
		}
		logWarn("no valid queries in %s", searchQueries)
	}

	limiter := worker.NewLimiter(cfg.Search.RequestsPerSecond, cfg.Search.Burst)
	client := httpx.NewClient(cfg.HTTP, httpx.PolicyFromConfig(cfg.Retry), limiter)
	deps := search.Deps{Fetcher: client}
	if cfg.Search.RespectRobots && !searchNoRobots {
		deps.Robots = httpx.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
	}

	providers, err := search.Providers(cfg.Search.Sources, deps)
	if err != nil {
		return err
	}

	dispatcher := search.NewDispatcher(providers, search.Options{
		Limit:   cfg.Search.Limit,
		Country: cfg.Search.Country,
	})
	dispatcher.Parallel = searchParallel || cfg.Search.Parallel
	dispatcher.Analyze = searchAnalyze
	dispatcher.QuerySleep = cfg.Search.QuerySleep
	dispatcher.QueryJitter = cfg.Search.QueryJitter

	items, failures := dispatcher.Run(context.Background(), valid)
	items = search.Dedup(items)

	for _, v := range validate.Records(items) {
		logWarn("integrity: %s", v)
	}

	if err := writeJSON(searchOut, items); err != nil {
		return err
	}
	if searchOutMD != "" {
		if err := writeFile(searchOutMD, []byte(report.SearchMarkdown(items))); err != nil {
			return err
		}
		logOK("written md: %s", searchOutMD)
	}

	failuresPath := searchFailuresJSON
	if failuresPath == "" {
		failuresPath = searchOut + ".failures.json"
	}
	if failures == nil {
		failures = []search.Failure{}
	}
	if err := writeJSON(failuresPath, failures); err != nil {
		return err
	}
	if len(failures) > 0 {
		logWarn("failures logged: %s (%d)", failuresPath, len(failures))
	}

	unique := search.CountUniquePatents(items)
	logOK("total items: %d", len(items))
	logOK("unique patents: %d", unique)
	logOK("source failures: %d", len(failures))
	logOK("out: %s", searchOut)

	if searchFailOnEmpty && len(items) == 0 {
		return gateFailed(ExitGateFailed, "recall is empty")
	}
	if searchFailLow && unique < searchMinUnique {
		return gateFailed(ExitLowRecall, "unique patents %d < min %d", unique, searchMinUnique)
	}
	return nil
}
