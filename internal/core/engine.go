// Package core owns the validation run: it profiles the dataset once, fans
// the enabled agents out in parallel, and folds their findings into a single
// reconciled issue list.
package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Vikram2406/Hackathon-DQ/internal/config"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/agents"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/profile"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

type Engine struct {
	cfg    *config.Config
	rc     agents.Reasoning
	logger *zap.Logger

	// resolve maps enabled agent ids to agents; tests substitute their own.
	resolve func(names []string) ([]agents.Agent, error)
}

// Result is what a validation run hands back. Partial is true when at least
// one agent could not finish; its findings up to that point are still here.
type Result struct {
	Issues       []model.Issue                  `json:"issues"`
	Profiles     map[string]model.ColumnProfile `json:"profiles"`
	Partial      bool                           `json:"partial"`
	FailedAgents []string                       `json:"failed_agents,omitempty"`
}

func NewEngine(cfg *config.Config, client llm.Client, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg: cfg,
		rc: agents.Reasoning{
			Client:      llm.WithMaxInFlight(client, cfg.Concurrency.MaxInflightLLM),
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		},
		logger:  logger,
		resolve: agents.ByNames,
	}
}

// Run executes the enabled agents over a dataset snapshot. Column profiles
// are computed exactly once here and shared read-only; agents never re-infer
// types. A run always produces a Result; only malformed input or unknown
// agent ids fail outright.
func (e *Engine) Run(ctx context.Context, ds *model.Dataset, enabledAgents []string) (*Result, error) {
	if ds == nil || ds.RowCount() == 0 {
		return nil, fmt.Errorf("empty dataset")
	}
	enabled, err := e.resolve(enabledAgents)
	if err != nil {
		return nil, err
	}

	profiles := profile.Analyze(ds, e.cfg.Analysis.SampleSize)
	e.logger.Info("column profiles computed",
		zap.Int("columns", len(profiles)),
		zap.Int("rows", ds.RowCount()))

	type agentOutput struct {
		name   string
		issues []model.Issue
		err    error
	}
	outputs := make([]agentOutput, len(enabled))

	workers := e.cfg.Concurrency.AgentWorkers
	if workers <= 0 || workers > len(enabled) {
		workers = len(enabled)
	}
	sem := make(chan struct{}, workers)

	// Agents are read-only over shared state and each writes its own slot,
	// so a join is the only synchronization the fan-out needs.
	var wg sync.WaitGroup
	for i, agent := range enabled {
		wg.Add(1)
		go func(slot int, a agents.Agent) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outputs[slot].err = fmt.Errorf("agent %s crashed: %v", a.Name(), r)
				}
			}()
			outputs[slot].name = a.Name()
			sem <- struct{}{}
			defer func() { <-sem }()
			outputs[slot].issues, outputs[slot].err = a.Detect(ctx, ds, profiles, e.rc)
		}(i, agent)
	}
	wg.Wait()

	result := &Result{Profiles: profiles}
	var raw []model.Issue
	for _, out := range outputs {
		raw = append(raw, out.issues...)
		if out.err != nil {
			result.Partial = true
			result.FailedAgents = append(result.FailedAgents, out.name)
			e.logger.Warn("agent degraded",
				zap.String("agent", out.name),
				zap.Int("issues_before_failure", len(out.issues)),
				zap.Error(out.err))
			continue
		}
		e.logger.Info("agent finished",
			zap.String("agent", out.name),
			zap.Int("issues", len(out.issues)))
	}
	sort.Strings(result.FailedAgents)

	result.Issues = mergeIssues(raw)
	e.logger.Info("run complete",
		zap.Int("raw_issues", len(raw)),
		zap.Int("merged_issues", len(result.Issues)),
		zap.Bool("partial", result.Partial))

	return result, nil
}
