package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
)

func categoricalFixture(t *testing.T, values []string) (*model.Dataset, map[string]model.ColumnProfile) {
	t.Helper()
	rows := make([]model.Row, len(values))
	for i, v := range values {
		rows[i] = model.Row{"department": v}
	}
	ds, err := model.NewDataset([]string{"department"}, rows)
	require.NoError(t, err)
	profiles := map[string]model.ColumnProfile{
		"department": {Name: "department", SemanticType: model.TypeCategorical},
	}
	return ds, profiles
}

func TestCategoricalAgentRepairsTypos(t *testing.T) {
	ds, profiles := categoricalFixture(t, []string{
		"Engineering", "Engineering", "Engineering",
		"Sales", "Sales",
		"Enginering", // typo
	})

	issues, err := NewCategoricalAgent().Detect(context.Background(), ds, profiles, Reasoning{})
	require.NoError(t, err)
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, 5, issue.Row)
	assert.Equal(t, model.IssueFuzzyMapping, issue.Type)
	assert.Equal(t, "Enginering", issue.CurrentValue)
	assert.Equal(t, "Engineering", issue.ProposedValue)
	assert.Greater(t, issue.Confidence, 0.8)
}

func TestCategoricalAgentSharesVerdictAcrossOccurrences(t *testing.T) {
	// The typo must stay under the 2% frequency floor to count as an outlier.
	values := make([]string, 0, 150)
	for i := 0; i < 74; i++ {
		values = append(values, "Engineering")
	}
	for i := 0; i < 74; i++ {
		values = append(values, "Sales")
	}
	values = append(values, "Enginering", "Enginering")
	ds, profiles := categoricalFixture(t, values)

	mock := &MockClient{}
	issues, err := NewCategoricalAgent().Detect(context.Background(), ds, profiles, Reasoning{Client: mock})
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, issues[0].ProposedValue, issues[1].ProposedValue)
	assert.Zero(t, mock.Calls())
}

func TestCategoricalAgentEscalatesDistantValue(t *testing.T) {
	ds, profiles := categoricalFixture(t, []string{
		"Engineering", "Engineering", "Sales", "Sales",
		"R&D division", // no fuzzy match against the vocabulary
	})

	mock := &MockClient{Response: "Engineering"}
	issues, err := NewCategoricalAgent().Detect(context.Background(), ds, profiles, Reasoning{Client: mock})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Engineering", issues[0].ProposedValue)
	assert.Equal(t, 1, mock.Calls())
	assert.GreaterOrEqual(t, issues[0].Confidence, 0.75)
}

func TestCategoricalAgentAcceptsGenuinelyNewValue(t *testing.T) {
	ds, profiles := categoricalFixture(t, []string{
		"Engineering", "Engineering", "Sales", "Sales",
		"Legal",
	})

	mock := &MockClient{Response: "NONE"}
	issues, err := NewCategoricalAgent().Detect(context.Background(), ds, profiles, Reasoning{Client: mock})
	require.NoError(t, err)
	assert.Empty(t, issues)
}
