package agents

import (
	"context"
	"sync"

	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

// MockClient is a scripted reasoning client for tests: answers come from the
// queue first, then Response; Err short-circuits every call.
type MockClient struct {
	Response string
	Queue    []string
	Err      error

	mu           sync.Mutex
	Prompts      []string
	Temperatures []float64
	TokenCaps    []int
}

func (m *MockClient) Complete(ctx context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Temperatures = append(m.Temperatures, temperature)
	m.TokenCaps = append(m.TokenCaps, maxTokens)
	for _, msg := range messages {
		if msg.Role == llm.RoleUser {
			m.Prompts = append(m.Prompts, msg.Content)
		}
	}

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Queue) > 0 {
		resp := m.Queue[0]
		m.Queue = m.Queue[1:]
		return resp, nil
	}
	return m.Response, nil
}

// Calls reports how many prompts reached the mock.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
