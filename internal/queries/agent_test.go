package queries

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/patware/priorart/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAgentQueriesBareList(t *testing.T) {
	path := writeFile(t, "queries.agent.json", `["cache scheduling", "retry backoff"]`)
	qs, err := LoadAgentQueries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 || qs[0] != "cache scheduling" {
		t.Fatalf("queries = %v", qs)
	}
}

func TestLoadAgentQueriesObjectForm(t *testing.T) {
	path := writeFile(t, "queries.agent.json", `{"queries": ["cache scheduling retry"], "model": "x"}`)
	qs, err := LoadAgentQueries(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 1 {
		t.Fatalf("queries = %v", qs)
	}
}

func TestLoadAgentQueriesBadJSON(t *testing.T) {
	path := writeFile(t, "queries.agent.json", `{"queries": `)
	if _, err := LoadAgentQueries(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func selectOpts(mode string) SelectOptions {
	return SelectOptions{
		Mode:            mode,
		AgentFile:       "queries.agent.json",
		MinAgentQueries: 4,
		MaxQueries:      8,
		MinTokens:       2,
	}
}

func TestSelectAgentPrimary(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one", "profile query two"}}
	agent := []string{
		"cache scheduling retry", "distributed cache dispatch",
		"content hash page cache", "worker pool fetch jobs",
	}
	out := Select(profile, agent, true, selectOpts("auto"))

	if out.QuerySource != model.QuerySourceAgentPrimary {
		t.Fatalf("query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 4 {
		t.Fatalf("queries = %v", out.Queries)
	}
	if out.AgentQueriesValidCount != 4 {
		t.Errorf("valid count = %d", out.AgentQueriesValidCount)
	}
}

func TestSelectPrimaryFillsWithMergeProfile(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one", "profile query two"}}
	agent := []string{
		"cache scheduling retry", "distributed cache dispatch",
		"content hash page cache", "worker pool fetch jobs",
	}
	opts := selectOpts("auto")
	opts.MergeProfile = true
	out := Select(profile, agent, true, opts)

	if out.QuerySource != model.QuerySourceAgentPrimaryFill {
		t.Fatalf("query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 6 || out.Queries[0] != "cache scheduling retry" {
		t.Errorf("queries = %v", out.Queries)
	}
}

func TestSelectPartialFillsFromProfile(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one", "profile query two"}}
	agent := []string{"cache scheduling retry", "ab"}
	opts := selectOpts("auto")
	opts.MergeProfile = true
	out := Select(profile, agent, true, opts)

	if out.QuerySource != model.QuerySourceAgentPartialFill {
		t.Fatalf("query_source = %q", out.QuerySource)
	}
	if out.Queries[0] != "cache scheduling retry" {
		t.Errorf("agent query should lead, got %v", out.Queries)
	}
	if len(out.Queries) != 3 {
		t.Errorf("queries = %v", out.Queries)
	}
	if len(out.DroppedAgentQueries) != 1 || out.DroppedAgentQueries[0].Reason != DropReasonTooFewTokens {
		t.Errorf("dropped = %v", out.DroppedAgentQueries)
	}
}

func TestSelectPartialWithoutMergeKeepsAgentOnly(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one"}}
	out := Select(profile, []string{"cache scheduling retry"}, true, selectOpts("auto"))

	if out.QuerySource != model.QuerySourceAgentPartial {
		t.Fatalf("query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 1 || out.Queries[0] != "cache scheduling retry" {
		t.Errorf("queries = %v", out.Queries)
	}
}

func TestSelectAutoNoValidAgentFallsBack(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one"}}
	out := Select(profile, []string{"??", ""}, true, selectOpts("auto"))

	if out.QuerySource != model.QuerySourceProfileFallback {
		t.Fatalf("query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 1 || out.Queries[0] != "profile query one" {
		t.Errorf("queries = %v", out.Queries)
	}
}

func TestSelectAgentModeAlwaysPrimaryWhenAnyValid(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one"}}
	// One valid query is below MinAgentQueries, but explicit agent mode still
	// labels the run agent_primary.
	out := Select(profile, []string{"cache scheduling retry"}, true, selectOpts("agent"))

	if out.QuerySource != model.QuerySourceAgentPrimary {
		t.Fatalf("query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 1 || out.Queries[0] != "cache scheduling retry" {
		t.Errorf("queries = %v", out.Queries)
	}
}

func TestSelectAgentModeEmpty(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one"}}

	opts := selectOpts("agent")
	opts.MergeProfile = true
	out := Select(profile, nil, false, opts)
	if out.QuerySource != model.QuerySourceAgentMissing {
		t.Errorf("merge-profile: query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 1 || out.Queries[0] != "profile query one" {
		t.Errorf("merge-profile: queries = %v", out.Queries)
	}

	out = Select(profile, nil, false, selectOpts("agent"))
	if out.QuerySource != model.QuerySourceAgentEmpty {
		t.Errorf("no merge: query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 0 {
		t.Errorf("no merge: queries = %v", out.Queries)
	}
}

func TestSelectNoAgentFile(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one"}}

	out := Select(profile, nil, false, selectOpts("auto"))
	if out.QuerySource != model.QuerySourceProfileFallback {
		t.Errorf("auto without file: query_source = %q", out.QuerySource)
	}
	if len(out.Warnings) == 0 || !strings.Contains(out.Warnings[0], "not found") {
		t.Errorf("warnings = %v", out.Warnings)
	}
	if out.AgentQueryFile != "" {
		t.Errorf("agent_query_file = %q, want empty without a file", out.AgentQueryFile)
	}
}

func TestSelectProfileModeIgnoresAgent(t *testing.T) {
	profile := model.QuerySet{Queries: []string{"profile query one"}}
	out := Select(profile, []string{"agent query here"}, true, selectOpts("profile"))
	if out.QuerySource != model.QuerySourceProfile {
		t.Fatalf("query_source = %q", out.QuerySource)
	}
	if len(out.Queries) != 1 || out.Queries[0] != "profile query one" {
		t.Errorf("queries = %v", out.Queries)
	}
}
