// Package agents holds the per-issue-class detectors. Every agent follows the
// same two-tier rule: deterministic checks resolve unambiguous cells without
// touching the reasoning client, and only values needing world knowledge are
// escalated, with the column's learned facts injected into the prompt.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

// Fallback sampling parameters when the config leaves them unset.
const (
	defaultTemperature = 0.2
	defaultMaxTokens   = 1000
)

// Reasoning bundles the shared client with the sampling parameters every
// escalated call uses. A zero Temperature or MaxTokens falls back to the
// package defaults; a nil Client means deterministic checks only.
type Reasoning struct {
	Client      llm.Client
	Temperature float64
	MaxTokens   int
}

// Agent detects one class of data-quality issue. Detect is read-only over the
// dataset and profiles. It may return issues alongside a non-nil error when
// detection degraded partway (reasoning chain exhausted); the orchestrator
// keeps the issues and marks the agent failed.
type Agent interface {
	Name() string
	Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc Reasoning) ([]model.Issue, error)
}

// All returns every shipped agent in a stable order.
func All() []Agent {
	return []Agent{
		NewEmailAgent(),
		NewFormattingAgent(),
		NewCompanyAgent(),
		NewCategoricalAgent(),
	}
}

// ByNames resolves enabled agent ids to agents; unknown ids are an error so
// configuration typos surface before a run starts.
func ByNames(names []string) ([]Agent, error) {
	if len(names) == 0 {
		return All(), nil
	}
	index := map[string]Agent{}
	for _, a := range All() {
		index[a.Name()] = a
	}
	out := make([]Agent, 0, len(names))
	for _, n := range names {
		a, ok := index[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown agent %q", n)
		}
		out = append(out, a)
	}
	return out, nil
}

// ask runs one single-turn reasoning call with the configured sampling
// parameters.
func ask(ctx context.Context, rc Reasoning, system, user string) (string, error) {
	if rc.Client == nil {
		return "", fmt.Errorf("no reasoning client")
	}
	temperature := rc.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := rc.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}
	return rc.Client.Complete(ctx, messages, temperature, maxTokens)
}
