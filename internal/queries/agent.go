package queries

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/patware/priorart/internal/model"
	"github.com/patware/priorart/internal/textutil"
)

// Reasons recorded for agent queries rejected by the quality gate.
const (
	DropReasonGarbled      = "garbled_query"
	DropReasonTooFewTokens = "too_few_tokens"
)

// LoadAgentQueries reads an agent query file: either a bare JSON list of
// strings or an object with a "queries" list.
func LoadAgentQueries(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent query file: %w", err)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse agent query file %s: %w", path, err)
	}
	return obj.Queries, nil
}

// Sanitize applies the quality gate to raw queries, returning the surviving
// queries and a record for each one dropped.
func Sanitize(raw []string, minTokens int) (valid []string, dropped []model.DroppedQuery) {
	for _, q := range raw {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if textutil.IsGarbled(q) {
			dropped = append(dropped, model.DroppedQuery{Query: q, Reason: DropReasonGarbled})
			continue
		}
		if textutil.QueryTokenCount(q) < minTokens {
			dropped = append(dropped, model.DroppedQuery{Query: q, Reason: DropReasonTooFewTokens})
			continue
		}
		valid = append(valid, q)
	}
	return textutil.Dedup(valid), dropped
}

// SelectOptions controls how agent and profile queries are merged.
type SelectOptions struct {
	// Mode is one of "auto", "agent", "profile".
	Mode string
	// AgentFile is the path the agent queries came from, recorded in the
	// artifact. Empty when no file was supplied.
	AgentFile string
	// MinAgentQueries is the count below which agent coverage is considered
	// partial and profile queries fill in.
	MinAgentQueries int
	// MergeProfile forces profile fill even when agent coverage is adequate.
	MergeProfile bool
	MaxQueries   int
	MinTokens    int
}

// Select assembles the final query set under the agent-first policy. The
// profile set is always built (its keyword/feature bookkeeping is kept in the
// artifact either way); agent queries, when present and valid, lead.
//
// Labels depend on the mode: explicit agent mode is agent_primary whenever
// any valid agent query exists, while auto mode grades coverage against
// MinAgentQueries.
func Select(profileSet model.QuerySet, agentRaw []string, haveAgentFile bool, opts SelectOptions) model.QuerySet {
	out := profileSet
	if opts.MaxQueries <= 0 {
		opts.MaxQueries = 8
	}
	if opts.MinAgentQueries < 1 {
		opts.MinAgentQueries = 1
	}

	if opts.Mode == "profile" {
		out.QuerySource = model.QuerySourceProfile
		return out
	}

	if !haveAgentFile && opts.AgentFile != "" {
		out.Warnings = append(out.Warnings, fmt.Sprintf("agent query file not found: %s", opts.AgentFile))
	}

	valid, dropped := Sanitize(agentRaw, opts.MinTokens)
	if haveAgentFile {
		out.AgentQueryFile = opts.AgentFile
		out.AgentQueriesRawCount = len(agentRaw)
		out.AgentQueriesValidCount = len(valid)
		out.DroppedAgentQueries = dropped
	}
	profileQueries := profileSet.Queries

	if opts.Mode == "agent" {
		merged := append([]string{}, valid...)
		if opts.MergeProfile && len(merged) < opts.MaxQueries {
			merged = textutil.Dedup(append(merged, profileQueries...))
		}
		switch {
		case len(valid) > 0:
			out.QuerySource = model.QuerySourceAgentPrimary
		case opts.MergeProfile:
			out.QuerySource = model.QuerySourceAgentMissing
		default:
			out.QuerySource = model.QuerySourceAgentEmpty
		}
		out.Queries = head(merged, opts.MaxQueries)
		return out
	}

	// auto: agent-first, profile fallback when missing or insufficient.
	switch {
	case len(valid) >= opts.MinAgentQueries:
		merged := append([]string{}, valid...)
		out.QuerySource = model.QuerySourceAgentPrimary
		if opts.MergeProfile && len(merged) < opts.MaxQueries {
			merged = textutil.Dedup(append(merged, profileQueries...))
			out.QuerySource = model.QuerySourceAgentPrimaryFill
		}
		out.Queries = head(merged, opts.MaxQueries)
	case len(valid) > 0:
		merged := append([]string{}, valid...)
		if opts.MergeProfile {
			merged = textutil.Dedup(append(merged, profileQueries...))
			out.QuerySource = model.QuerySourceAgentPartialFill
		} else {
			out.QuerySource = model.QuerySourceAgentPartial
		}
		out.Queries = head(merged, opts.MaxQueries)
		out.Warnings = append(out.Warnings, fmt.Sprintf(
			"agent valid queries below min-agent-queries=%d, profile fallback merged", opts.MinAgentQueries))
	default:
		out.QuerySource = model.QuerySourceProfileFallback
		out.Queries = head(profileQueries, opts.MaxQueries)
	}
	return out
}
