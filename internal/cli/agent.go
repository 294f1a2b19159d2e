package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/patware/priorart/internal/agent"
	"github.com/patware/priorart/internal/model"
)

var (
	agentProfilePath string
	agentModel       string
	agentBaseURL     string
	agentQueriesOut  string
	agentQueriesMax  int
	agentScoresIn    string
	agentScoresOut   string
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Draft queries or relevance scores with an LLM",
	Long: `Optional LLM assistance. The subcommands write the same artifact shapes
the pipeline accepts from hand-written files, so agent output is always
reviewable before the next stage consumes it.

The API key comes from PRIORART_AGENT_API_KEY or OPENAI_API_KEY.`,
}

var agentQueriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "Draft search queries into queries.agent.json",
	RunE:  runAgentQueries,
}

var agentScoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Score recall candidates into rerank.agent.json",
	RunE:  runAgentScores,
}

func init() {
	rootCmd.AddCommand(agentCmd)
	agentCmd.AddCommand(agentQueriesCmd)
	agentCmd.AddCommand(agentScoresCmd)

	agentCmd.PersistentFlags().StringVar(&agentProfilePath, "profile", "profile.json", "invention profile path")
	agentCmd.PersistentFlags().StringVar(&agentModel, "model", "", "chat model name (default from config)")
	agentCmd.PersistentFlags().StringVar(&agentBaseURL, "base-url", "", "custom API base URL (optional)")

	agentQueriesCmd.Flags().StringVar(&agentQueriesOut, "out", "queries.agent.json", "output path")
	agentQueriesCmd.Flags().IntVar(&agentQueriesMax, "max-queries", 8, "maximum number of queries")

	agentScoresCmd.Flags().StringVar(&agentScoresIn, "input", "prior_art.json", "recall artifact path")
	agentScoresCmd.Flags().StringVar(&agentScoresOut, "out", "rerank.agent.json", "output path")
}

func newAgentClient() (*agent.Client, error) {
	cfg := loadConfig()
	if agentModel != "" {
		cfg.Agent.Model = agentModel
	}
	if agentBaseURL != "" {
		cfg.Agent.BaseURL = agentBaseURL
	}
	cfg.Agent.APIKey = os.Getenv("PRIORART_AGENT_API_KEY")
	if cfg.Agent.APIKey == "" {
		cfg.Agent.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return agent.NewClient(cfg.Agent)
}

func runAgentQueries(cmd *cobra.Command, args []string) error {
	client, err := newAgentClient()
	if err != nil {
		return err
	}
	profile, err := loadProfile(agentProfilePath)
	if err != nil {
		return err
	}

	draft, err := client.DraftQueries(context.Background(), profile, agentQueriesMax)
	if err != nil {
		return err
	}
	if err := writeJSON(agentQueriesOut, draft); err != nil {
		return err
	}
	logOK("agent queries: %d", len(draft.Queries))
	logOK("out: %s", agentQueriesOut)
	return nil
}

func runAgentScores(cmd *cobra.Command, args []string) error {
	client, err := newAgentClient()
	if err != nil {
		return err
	}
	profile, err := loadProfile(agentProfilePath)
	if err != nil {
		return err
	}
	var items []model.PriorArtRecord
	if err := readJSON(agentScoresIn, &items); err != nil {
		return err
	}

	draft, err := client.ScoreRelevance(context.Background(), profile, items)
	if err != nil {
		return err
	}
	if err := writeJSON(agentScoresOut, draft); err != nil {
		return err
	}
	logOK("agent scores: %d", len(draft.Items))
	logOK("out: %s", agentScoresOut)
	return nil
}
