package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/common"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

// fuzzyMatchThreshold is the minimum similarity for a deterministic typo
// repair against the allowed value set.
const fuzzyMatchThreshold = 0.6

// CategoricalAgent repairs typos and stray variations in low-cardinality
// columns by mapping outliers onto the column's established value set.
type CategoricalAgent struct{}

func NewCategoricalAgent() *CategoricalAgent { return &CategoricalAgent{} }

func (a *CategoricalAgent) Name() string { return "categorical" }

func (a *CategoricalAgent) Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc Reasoning) ([]model.Issue, error) {
	var issues []model.Issue

	for _, col := range ds.Columns() {
		p, ok := profiles[col]
		if !ok || p.SemanticType != model.TypeCategorical {
			continue
		}

		allowed := allowedValues(ds, col)
		if len(allowed) < 2 {
			continue
		}
		allowedSet := map[string]bool{}
		for _, v := range allowed {
			allowedSet[strings.ToLower(v)] = true
		}

		// One verdict per distinct outlier; occurrences share it.
		verdicts := map[string]string{}

		for row := 0; row < ds.RowCount(); row++ {
			cell, _ := ds.Cell(row, col)
			value := strings.TrimSpace(model.CellString(cell))
			if value == "" || allowedSet[strings.ToLower(value)] {
				continue
			}

			proposed, decided := verdicts[value]
			if !decided {
				var err error
				proposed, err = a.resolve(ctx, rc, value, allowed)
				if err != nil {
					if errors.Is(err, llm.ErrUnavailable) {
						return issues, fmt.Errorf("categorical agent: %w", err)
					}
					continue
				}
				verdicts[value] = proposed
			}
			if proposed == "" || proposed == value {
				continue
			}

			conf := common.Similarity(value, proposed)
			if conf < 0.75 {
				// Below the fuzzy threshold the mapping came from the
				// reasoning client, which outranks raw edit distance.
				conf = 0.75
			}
			issues = append(issues, model.Issue{
				ID:            model.NewIssueID(a.Name(), model.IssueFuzzyMapping, row, col),
				Row:           row,
				Column:        col,
				Type:          model.IssueFuzzyMapping,
				SourceAgent:   a.Name(),
				Description:   fmt.Sprintf("Typo or variation: %q should be %q", value, proposed),
				CurrentValue:  value,
				ProposedValue: proposed,
				HasProposal:   true,
				Confidence:    conf,
			})
		}
	}

	return issues, nil
}

// resolve maps an outlier onto the allowed set: fuzzy match first, reasoning
// client for anything edit distance cannot decide. Empty result means leave
// the value alone.
func (a *CategoricalAgent) resolve(ctx context.Context, rc Reasoning, value string, allowed []string) (string, error) {
	best, bestScore := "", 0.0
	for _, candidate := range allowed {
		if score := common.Similarity(value, candidate); score > bestScore {
			best, bestScore = candidate, score
		}
	}
	if bestScore >= fuzzyMatchThreshold {
		return best, nil
	}
	if rc.Client == nil {
		return "", nil
	}

	response, err := ask(ctx, rc,
		"You map a stray categorical value onto its intended value. Reply with exactly one value from the allowed list, or NONE if the value is genuinely new.",
		fmt.Sprintf("Stray value: %q\nAllowed values: %s", value, strings.Join(allowed, ", ")))
	if err != nil {
		return "", err
	}
	choice := common.CleanValue(response)
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, choice) {
			return candidate, nil
		}
	}
	return "", nil
}

// allowedValues are the values frequent enough to be the column's vocabulary:
// at least 2 occurrences and at least 2% of non-null cells.
func allowedValues(ds *model.Dataset, col string) []string {
	counts := map[string]int{}
	var order []string
	total := 0
	for row := 0; row < ds.RowCount(); row++ {
		cell, _ := ds.Cell(row, col)
		value := strings.TrimSpace(model.CellString(cell))
		if value == "" {
			continue
		}
		if counts[value] == 0 {
			order = append(order, value)
		}
		counts[value]++
		total++
	}

	threshold := total / 50
	if threshold < 2 {
		threshold = 2
	}
	var allowed []string
	for _, v := range order {
		if counts[v] >= threshold {
			allowed = append(allowed, v)
		}
	}
	return allowed
}
