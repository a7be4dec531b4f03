// Package openai holds the LLM collaborators: the query parser, the context
// enricher, and the rationale generator. All three share one chat-completion
// client against an OpenAI-compatible API.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/moimlab/recs/internal/metrics"
)

// Config holds the chat-completion provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client is the shared chat-completion transport.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates an OpenAI-compatible chat client.
func NewClient(cfg Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// chat runs one completion and returns the raw message text with
// per-operation metrics.
func (c *Client) chat(
	ctx context.Context, op, system, user string, temperature float32, maxTokens int, jsonMode bool,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("llm %s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(op, "error").Inc()
		return "", fmt.Errorf("llm %s: empty completion", op)
	}

	metrics.LLMRequestsTotal.WithLabelValues(op, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
	return resp.Choices[0].Message.Content, nil
}

// cleanJSON strips markdown code fences some models wrap around JSON output
// even in JSON mode.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
