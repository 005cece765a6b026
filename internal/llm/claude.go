package llm

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *ClaudeClient) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	req := anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
	}
	temp := float32(temperature)
	req.Temperature = &temp

	// The Anthropic API takes system text as a dedicated field, not a message.
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			req.System = m.Content
		case RoleAssistant:
			req.Messages = append(req.Messages, anthropic.NewAssistantTextMessage(m.Content))
		default:
			req.Messages = append(req.Messages, anthropic.NewUserTextMessage(m.Content))
		}
	}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		if IsTransient(err) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == nil {
		return "", fmt.Errorf("no response content")
	}
	return *resp.Content[0].Text, nil
}
