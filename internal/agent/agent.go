// Package agent is the optional LLM side-channel. It drafts candidate search
// queries and relevance scores in the same JSON shapes the pipeline accepts
// from hand-written agent files. The core pipeline never requires it.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/patware/priorart/internal/model"
)

const requestTimeout = 60 * time.Second

// ChatClient is the slice of the OpenAI client the agent uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client drafts queries and relevance scores through a chat model.
type Client struct {
	chat  ChatClient
	model string
}

// NewClient builds a Client from the agent configuration.
func NewClient(cfg model.AgentConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("agent API key is required (set PRIORART_AGENT_API_KEY)")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	return &Client{
		chat:  openai.NewClientWithConfig(clientConfig),
		model: m,
	}, nil
}

// QueryDraft is the queries artifact produced by DraftQueries.
type QueryDraft struct {
	Queries []string `json:"queries"`
}

// ScoredItem is one entry of the relevance-scores artifact.
type ScoredItem struct {
	PatentNumber string  `json:"patent_number,omitempty"`
	URL          string  `json:"url,omitempty"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason,omitempty"`
}

// ScoreDraft is the rerank artifact produced by ScoreRelevance.
type ScoreDraft struct {
	Items []ScoredItem `json:"items"`
}

// DraftQueries asks the model for up to maxQueries patent search queries
// grounded in the invention profile.
func (c *Client) DraftQueries(ctx context.Context, profile *model.InventionProfile, maxQueries int) (*QueryDraft, error) {
	if maxQueries <= 0 {
		maxQueries = 8
	}
	prompt := buildQueryPrompt(profile, maxQueries)
	content, err := c.complete(ctx, querySystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	var draft QueryDraft
	if err := json.Unmarshal(extractJSON(content), &draft); err != nil {
		return nil, fmt.Errorf("agent returned unparseable queries: %w", err)
	}
	if len(draft.Queries) > maxQueries {
		draft.Queries = draft.Queries[:maxQueries]
	}
	return &draft, nil
}

// ScoreRelevance asks the model to score each prior-art record against the
// profile on a 0..1 scale with a one-line reason.
func (c *Client) ScoreRelevance(ctx context.Context, profile *model.InventionProfile, items []model.PriorArtRecord) (*ScoreDraft, error) {
	prompt := buildScorePrompt(profile, items)
	content, err := c.complete(ctx, scoreSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	var draft ScoreDraft
	if err := json.Unmarshal(extractJSON(content), &draft); err != nil {
		return nil, fmt.Errorf("agent returned unparseable scores: %w", err)
	}
	return &draft, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("agent API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("agent returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// extractJSON strips markdown code fences and leading prose so the remainder
// starts at the outermost JSON value.
func extractJSON(content string) []byte {
	s := strings.TrimSpace(content)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "{["); i > 0 {
		s = s[i:]
	}
	return []byte(s)
}
