package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the uniform interface over an external reasoning backend.
// Implementations are stateless between calls and safe to retry. The returned
// text carries no schema guarantee; callers parse and validate it themselves.
type Client interface {
	Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
}

// UserMessage is a convenience for the common single-turn prompt.
func UserMessage(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}
