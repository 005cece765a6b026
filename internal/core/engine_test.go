package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vikram2406/Hackathon-DQ/internal/config"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/agents"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

type mockClient struct {
	response string
	err      error

	mu    sync.Mutex
	calls int
	temps []float64
	caps  []int
}

func (m *mockClient) Complete(ctx context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	m.mu.Lock()
	m.calls++
	m.temps = append(m.temps, temperature)
	m.caps = append(m.caps, maxTokens)
	m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func testConfig() *config.Config {
	cfg := config.LoadOrDefault("nonexistent.toml")
	return cfg
}

func emailDataset(t *testing.T) *model.Dataset {
	t.Helper()
	ds, err := model.NewDataset([]string{"contact_info"}, []model.Row{
		{"contact_info": "a@x.com"},
		{"contact_info": "b@x.com"},
		{"contact_info": "not-an-email"},
	})
	require.NoError(t, err)
	return ds
}

func TestEngineDetectsEmailIssue(t *testing.T) {
	engine := NewEngine(testConfig(), &mockClient{response: "notanemail@x.com"}, nil)

	result, err := engine.Run(context.Background(), emailDataset(t), []string{"email"})
	require.NoError(t, err)

	assert.False(t, result.Partial)
	assert.Empty(t, result.FailedAgents)
	assert.Equal(t, model.TypeEmail, result.Profiles["contact_info"].SemanticType)

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	assert.Equal(t, "not-an-email", issue.CurrentValue)
	assert.Equal(t, []int{2}, issue.AffectedRows)
}

func TestEnginePartialWhenReasoningExhausted(t *testing.T) {
	engine := NewEngine(testConfig(), &mockClient{err: llm.ErrUnavailable}, nil)

	result, err := engine.Run(context.Background(), emailDataset(t), nil)
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Contains(t, result.FailedAgents, "email")
	// Sibling agents still reported; only the degraded one is flagged.
	assert.NotContains(t, result.FailedAgents, "formatting")
}

func TestEngineGroupsRepeatedFindings(t *testing.T) {
	values := make([]model.Row, 0, 150)
	for i := 0; i < 74; i++ {
		values = append(values, model.Row{"department": "Engineering"})
	}
	for i := 0; i < 74; i++ {
		values = append(values, model.Row{"department": "Sales"})
	}
	values = append(values, model.Row{"department": "Enginering"}, model.Row{"department": "Enginering"})
	ds, err := model.NewDataset([]string{"department"}, values)
	require.NoError(t, err)

	engine := NewEngine(testConfig(), nil, nil)
	result, err := engine.Run(context.Background(), ds, []string{"categorical"})
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, []int{148, 149}, result.Issues[0].AffectedRows)
	assert.Equal(t, "Enginering", result.Issues[0].CurrentValue)
	assert.Equal(t, "Engineering", result.Issues[0].ProposedValue)
}

func TestEngineThreadsSamplingConfig(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Temperature = 0.7
	cfg.LLM.MaxTokens = 64
	mock := &mockClient{response: "notanemail@x.com"}
	engine := NewEngine(cfg, mock, nil)

	_, err := engine.Run(context.Background(), emailDataset(t), []string{"email"})
	require.NoError(t, err)

	mock.mu.Lock()
	defer mock.mu.Unlock()
	require.NotEmpty(t, mock.temps)
	assert.Equal(t, 0.7, mock.temps[0])
	assert.Equal(t, 64, mock.caps[0])
}

type panicAgent struct{}

func (panicAgent) Name() string { return "panicky" }

func (panicAgent) Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc agents.Reasoning) ([]model.Issue, error) {
	panic("boom")
}

type stubAgent struct {
	name   string
	issues []model.Issue
}

func (s stubAgent) Name() string { return s.name }

func (s stubAgent) Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc agents.Reasoning) ([]model.Issue, error) {
	return s.issues, nil
}

func TestEngineIsolatesPanickingAgent(t *testing.T) {
	engine := NewEngine(testConfig(), nil, nil)
	survivor := model.Issue{
		ID: "s1", Row: 0, Column: "contact_info",
		Type: model.IssueInvalidEmail, CurrentValue: "junk", Confidence: 0.9,
	}
	engine.resolve = func([]string) ([]agents.Agent, error) {
		return []agents.Agent{panicAgent{}, stubAgent{name: "stub", issues: []model.Issue{survivor}}}, nil
	}

	result, err := engine.Run(context.Background(), emailDataset(t), nil)
	require.NoError(t, err)

	assert.True(t, result.Partial)
	assert.Equal(t, []string{"panicky"}, result.FailedAgents)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "junk", result.Issues[0].CurrentValue)
}

type slowAgent struct {
	name     string
	inflight *int64
	peak     *int64
}

func (s slowAgent) Name() string { return s.name }

func (s slowAgent) Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc agents.Reasoning) ([]model.Issue, error) {
	n := atomic.AddInt64(s.inflight, 1)
	for {
		p := atomic.LoadInt64(s.peak)
		if n <= p || atomic.CompareAndSwapInt64(s.peak, p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt64(s.inflight, -1)
	return nil, nil
}

func TestEngineBoundsAgentWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Concurrency.AgentWorkers = 1
	engine := NewEngine(cfg, nil, nil)

	var inflight, peak int64
	engine.resolve = func([]string) ([]agents.Agent, error) {
		return []agents.Agent{
			slowAgent{name: "one", inflight: &inflight, peak: &peak},
			slowAgent{name: "two", inflight: &inflight, peak: &peak},
			slowAgent{name: "three", inflight: &inflight, peak: &peak},
		}, nil
	}

	_, err := engine.Run(context.Background(), emailDataset(t), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&peak))
}

func TestEngineRejectsUnknownAgent(t *testing.T) {
	engine := NewEngine(testConfig(), nil, nil)

	_, err := engine.Run(context.Background(), emailDataset(t), []string{"nonexistent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown agent")
}

func TestEngineRejectsEmptyDataset(t *testing.T) {
	engine := NewEngine(testConfig(), nil, nil)

	ds, err := model.NewDataset([]string{"a"}, nil)
	require.NoError(t, err)
	_, err = engine.Run(context.Background(), ds, nil)
	assert.Error(t, err)
}
