package llm

import (
	"context"
)

type limitedClient struct {
	inner Client
	slots chan struct{}
}

// WithMaxInFlight bounds the number of concurrent Complete calls across all
// agents sharing the client, so parallel detection respects backend rate
// limits. A nil client or n <= 0 returns the client unchanged.
func WithMaxInFlight(inner Client, n int) Client {
	if inner == nil || n <= 0 {
		return inner
	}
	return &limitedClient{
		inner: inner,
		slots: make(chan struct{}, n),
	}
}

func (c *limitedClient) Complete(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	select {
	case c.slots <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-c.slots }()

	return c.inner.Complete(ctx, messages, temperature, maxTokens)
}
