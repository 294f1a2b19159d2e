package model

// Query-source labels recorded in queries.json. They describe how the final
// query list was assembled from agent and profile inputs.
const (
	QuerySourceProfile          = "profile"
	QuerySourceAgentPrimary     = "agent_primary"
	QuerySourceAgentPrimaryFill = "agent_primary_profile_fill"
	QuerySourceAgentPartialFill = "agent_partial_profile_fill"
	QuerySourceAgentPartial     = "agent_partial"
	QuerySourceAgentEmpty       = "agent_empty"
	QuerySourceAgentMissing     = "agent_missing_profile_fallback"
	QuerySourceProfileFallback  = "profile_fallback_no_agent"
)

// DroppedQuery records a query rejected by the quality gate and why.
type DroppedQuery struct {
	Query  string `json:"query"`
	Reason string `json:"reason"`
}

// QuerySet is the queries.json artifact: final search queries plus the
// quality-gate bookkeeping that produced them.
type QuerySet struct {
	KeywordsCN        []string `json:"keywords_cn"`
	KeywordsEN        []string `json:"keywords_en"`
	DroppedKeywordsCN []string `json:"dropped_keywords_cn,omitempty"`
	DroppedKeywordsEN []string `json:"dropped_keywords_en,omitempty"`
	FeatureTokens     []string `json:"feature_tokens"`
	Queries           []string `json:"queries"`
	Warnings          []string `json:"warnings"`
	QuerySource       string   `json:"query_source,omitempty"`

	AgentQueryFile         string         `json:"agent_query_file,omitempty"`
	AgentQueriesRawCount   int            `json:"agent_queries_raw_count,omitempty"`
	AgentQueriesValidCount int            `json:"agent_queries_valid_count,omitempty"`
	DroppedAgentQueries    []DroppedQuery `json:"dropped_agent_queries,omitempty"`
}
