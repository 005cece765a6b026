package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient is the backend that carries the ordered model-fallback chain:
// the configured model first, then each fallback model in turn. Transient
// failures advance to the next model; permanent failures (unknown model, bad
// key) additionally drop that model for the rest of the run. Exhausting the
// chain yields ErrUnavailable.
type GeminiClient struct {
	client *genai.Client
	models []string

	mu     sync.Mutex
	failed map[string]bool

	// generate is swapped out in tests.
	generate func(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error)
}

func NewGeminiClient(ctx context.Context, apiKey string, model string, fallbackModels []string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	c := &GeminiClient{
		client: client,
		models: modelChain(model, fallbackModels),
		failed: make(map[string]bool),
	}
	c.generate = c.generateContent
	return c, nil
}

func modelChain(primary string, fallbacks []string) []string {
	chain := []string{}
	if primary != "" {
		chain = append(chain, primary)
	}
	for _, m := range fallbacks {
		if m != primary {
			chain = append(chain, m)
		}
	}
	return chain
}

func (c *GeminiClient) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	prompt := flattenMessages(messages)

	var lastErr error
	for _, model := range c.models {
		c.mu.Lock()
		skip := c.failed[model]
		c.mu.Unlock()
		if skip {
			continue
		}

		text, err := c.generate(ctx, model, prompt, temperature, maxTokens)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		}

		lastErr = err
		if IsPermanent(err) {
			c.mu.Lock()
			c.failed[model] = true
			c.mu.Unlock()
			continue
		}
		if IsTransient(err) {
			continue
		}
		return "", err
	}

	return "", fmt.Errorf("%w: all models exhausted: %v", ErrUnavailable, lastErr)
}

func (c *GeminiClient) generateContent(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	m := c.client.GenerativeModel(model)
	temp := float32(temperature)
	m.Temperature = &temp
	tokens := int32(maxTokens)
	m.MaxOutputTokens = &tokens

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("no response candidates or content")
}

// flattenMessages folds a chat transcript into a single prompt, the form the
// Gemini text API consumes.
func flattenMessages(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			parts = append(parts, "System: "+m.Content)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+m.Content)
		default:
			parts = append(parts, "User: "+m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
