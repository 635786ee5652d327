package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicModel     = "claude-haiku-4-5"
	DefaultAnthropicMaxTokens = 2048
)

type AnthropicClient struct {
	client    *anthropic.Client
	maxTokens int64
}

// NewAnthropicClient builds a client with SDK retries disabled. baseURL may be empty.
func NewAnthropicClient(apiKey, baseURL string, maxTokens int) *AnthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if maxTokens <= 0 {
		maxTokens = DefaultAnthropicMaxTokens
	}

	client := anthropic.NewClient(opts...)
	return &AnthropicClient{
		client:    &client,
		maxTokens: int64(maxTokens),
	}
}

// Complete moves system messages into the request's system blocks; the
// Messages API has no system role.
func (c *AnthropicClient) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	var system []anthropic.TextBlockParam
	var params []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params = append(params, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  params,
	})
	if err != nil {
		return "", &UpstreamError{Provider: "anthropic", Err: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", &UpstreamError{Provider: "anthropic", Err: errors.New("no text content in response")}
	}

	return strings.TrimSpace(sb.String()), nil
}
