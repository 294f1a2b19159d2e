package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patware/priorart/internal/queries"
)

var (
	queriesProfile      string
	queriesOut          string
	queriesAgentFile    string
	queriesSource       string
	queriesMergeProfile bool
	queriesMinAgent     int
	queriesMax          int
)

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Build search queries from an invention profile",
	Long: `Build the queries.json artifact from the invention profile, optionally
preferring agent-drafted queries when an agent file is present.

Example:
  priorart queries --profile profile.json --out queries.json
  priorart queries --profile profile.json --agent-queries queries.agent.json --query-source agent`,
	RunE: runQueries,
}

func init() {
	rootCmd.AddCommand(queriesCmd)

	queriesCmd.Flags().StringVar(&queriesProfile, "profile", "profile.json", "invention profile path")
	queriesCmd.Flags().StringVar(&queriesOut, "out", "queries.json", "output queries artifact path")
	queriesCmd.Flags().StringVar(&queriesAgentFile, "agent-queries", "queries.agent.json", "agent-drafted queries file (used when present)")
	queriesCmd.Flags().StringVar(&queriesSource, "query-source", "auto", "query source policy: auto, agent, profile")
	queriesCmd.Flags().BoolVar(&queriesMergeProfile, "merge-profile", true, "top up agent queries with profile queries")
	queriesCmd.Flags().IntVar(&queriesMinAgent, "min-agent-queries", 4, "agent query count below which profile queries fill in (auto mode)")
	queriesCmd.Flags().IntVar(&queriesMax, "max-queries", 8, "maximum number of queries")
}

func runQueries(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	profile, err := loadProfile(queriesProfile)
	if err != nil {
		return err
	}

	builder := queries.NewBuilder(queriesMax, cfg.Search.MinQueryTokens)
	profileSet := builder.Build(profile)

	var agentRaw []string
	haveAgentFile := false
	if queriesSource != "profile" && queriesAgentFile != "" && fileExists(queriesAgentFile) {
		agentRaw, err = queries.LoadAgentQueries(queriesAgentFile)
		if err != nil {
			return err
		}
		haveAgentFile = true
	}

	set := queries.Select(profileSet, agentRaw, haveAgentFile, queries.SelectOptions{
		Mode:            queriesSource,
		AgentFile:       queriesAgentFile,
		MinAgentQueries: queriesMinAgent,
		MergeProfile:    queriesMergeProfile,
		MaxQueries:      queriesMax,
		MinTokens:       cfg.Search.MinQueryTokens,
	})

	for _, w := range set.Warnings {
		logWarn("%s", w)
	}
	if len(set.Queries) == 0 && cfg.Search.StrictQueryQuality {
		return fmt.Errorf("no usable queries could be built from %s", queriesProfile)
	}
	if err := writeJSON(queriesOut, set); err != nil {
		return err
	}
	logOK("queries: %d (source: %s)", len(set.Queries), set.QuerySource)
	logOK("out: %s", queriesOut)
	return nil
}
