package model

import "time"

// Config is the full runtime configuration. Defaults come from
// DefaultConfig; the CLI layers flags, PRIORART_* env vars and
// ~/.priorart/config.yaml on top via viper.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http" mapstructure:"http"`
	Retry   RetryConfig   `yaml:"retry" mapstructure:"retry"`
	Cache   CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Rerank  RerankConfig  `yaml:"rerank" mapstructure:"rerank"`
	Claims  ClaimsConfig  `yaml:"claims" mapstructure:"claims"`
	Novelty NoveltyConfig `yaml:"novelty" mapstructure:"novelty"`
	Agent   AgentConfig   `yaml:"agent" mapstructure:"agent"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls the shared HTTP client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// RetryConfig is the single retry policy used by every network call site.
type RetryConfig struct {
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	BackoffBase       float64 `yaml:"backoff_base" mapstructure:"backoff_base"`
	Jitter            float64 `yaml:"jitter" mapstructure:"jitter"`
	RetryableStatuses []int   `yaml:"retryable_statuses" mapstructure:"retryable_statuses"`
}

// CacheConfig controls the content-hash page cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
}

// SearchConfig controls the recall stage.
type SearchConfig struct {
	Limit              int           `yaml:"limit" mapstructure:"limit"`
	Country            string        `yaml:"country" mapstructure:"country"`
	Sources            []string      `yaml:"sources" mapstructure:"sources"`
	Parallel           bool          `yaml:"parallel" mapstructure:"parallel"`
	QuerySleep         time.Duration `yaml:"query_sleep" mapstructure:"query_sleep"`
	QueryJitter        float64       `yaml:"query_jitter" mapstructure:"query_jitter"`
	MinQueryTokens     int           `yaml:"min_query_tokens" mapstructure:"min_query_tokens"`
	StrictQueryQuality bool          `yaml:"strict_query_quality" mapstructure:"strict_query_quality"`
	RequestsPerSecond  float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst              int           `yaml:"burst" mapstructure:"burst"`
	RespectRobots      bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// RerankConfig controls the relevance reranking stage.
type RerankConfig struct {
	AgentWeight           float64 `yaml:"agent_weight" mapstructure:"agent_weight"`
	TopKForGate           int     `yaml:"topk_for_gate" mapstructure:"topk_for_gate"`
	MinTopKAvgScore       float64 `yaml:"min_topk_avg_score" mapstructure:"min_topk_avg_score"`
	StrictSourceIntegrity bool    `yaml:"strict_source_integrity" mapstructure:"strict_source_integrity"`
}

// ClaimsConfig controls the claims fetching stage.
type ClaimsConfig struct {
	TopK              int           `yaml:"topk" mapstructure:"topk"`
	Sources           string        `yaml:"sources" mapstructure:"sources"`
	Sleep             time.Duration `yaml:"sleep" mapstructure:"sleep"`
	Jitter            float64       `yaml:"jitter" mapstructure:"jitter"`
	Resume            bool          `yaml:"resume" mapstructure:"resume"`
	Force             bool          `yaml:"force" mapstructure:"force"`
	RequireMinOKRatio float64       `yaml:"require_min_ok_ratio" mapstructure:"require_min_ok_ratio"`
	MaxClaims         int           `yaml:"max_claims" mapstructure:"max_claims"`
	MaxClaimsTextLen  int           `yaml:"max_claims_text_len" mapstructure:"max_claims_text_len"`
	StrictManual      bool          `yaml:"strict_manual" mapstructure:"strict_manual"`
}

// NoveltyConfig holds the matrix thresholds. These are heuristics, kept
// configurable rather than hard-coded.
type NoveltyConfig struct {
	MaxDocs          int     `yaml:"max_docs" mapstructure:"max_docs"`
	YesThreshold     float64 `yaml:"yes_threshold" mapstructure:"yes_threshold"`
	PartialThreshold float64 `yaml:"partial_threshold" mapstructure:"partial_threshold"`
	PairUnionMin     float64 `yaml:"pair_union_min" mapstructure:"pair_union_min"`
	PairCoMax        float64 `yaml:"pair_co_max" mapstructure:"pair_co_max"`
	MinClaimsOKRatio float64 `yaml:"min_claims_ok_ratio" mapstructure:"min_claims_ok_ratio"`
	MaxSnippets      int     `yaml:"max_snippets" mapstructure:"max_snippets"`
	SnippetWindow    int     `yaml:"snippet_window" mapstructure:"snippet_window"`
}

// AgentConfig configures the optional LLM agent that drafts search queries
// and relevance scores. The core pipeline never requires it.
type AgentConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"-" mapstructure:"-"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults. Retry and threshold values
// mirror the established operational defaults of the pipeline.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      45 * time.Second,
			UserAgent:    "Mozilla/5.0 (compatible; priorart/0.1; +https://github.com/patware/priorart)",
			MaxBodyBytes: 4_000_000,
		},
		Retry: RetryConfig{
			MaxRetries:        4,
			BackoffBase:       1.8,
			Jitter:            0.25,
			RetryableStatuses: []int{408, 409, 425, 429, 500, 502, 503, 504},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".priorart/page_cache",
			MemoryTTL: 30 * time.Minute,
		},
		Search: SearchConfig{
			Limit:              30,
			Country:            "CN",
			Sources:            []string{"google"},
			QuerySleep:         2 * time.Second,
			QueryJitter:        0.3,
			MinQueryTokens:     2,
			StrictQueryQuality: true,
			RequestsPerSecond:  1.0,
			Burst:              3,
			RespectRobots:      true,
		},
		Rerank: RerankConfig{
			AgentWeight:           0.7,
			TopKForGate:           10,
			StrictSourceIntegrity: true,
		},
		Claims: ClaimsConfig{
			TopK:             10,
			Sources:          "auto",
			Sleep:            time.Second,
			Jitter:           0.25,
			Resume:           true,
			MaxClaims:        60,
			MaxClaimsTextLen: 200_000,
			StrictManual:     true,
		},
		Novelty: NoveltyConfig{
			MaxDocs:          10,
			YesThreshold:     0.6,
			PartialThreshold: 0.25,
			PairUnionMin:     0.3,
			PairCoMax:        0.2,
			MinClaimsOKRatio: 0.3,
			MaxSnippets:      3,
			SnippetWindow:    90,
		},
		Agent: AgentConfig{
			Model: "gpt-4o-mini",
		},
	}
}
