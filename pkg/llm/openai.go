package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultOpenAIModel = "gpt-4"

type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient builds a client with SDK retries disabled. baseURL may be empty.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{client: &client}
}

func (c *OpenAIClient) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		case RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: params,
	})
	if err != nil {
		return "", &UpstreamError{Provider: "openai", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Provider: "openai", Err: errors.New("no choices in response")}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" && resp.Choices[0].Message.Refusal != "" {
		return "", &UpstreamError{Provider: "openai", Err: fmt.Errorf("request refused: %s", resp.Choices[0].Message.Refusal)}
	}

	return content, nil
}
