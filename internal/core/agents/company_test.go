package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
)

func companyFixture(t *testing.T, companies []string, emails []string) (*model.Dataset, map[string]model.ColumnProfile) {
	t.Helper()
	columns := []string{"company"}
	if emails != nil {
		columns = append(columns, "email")
	}
	rows := make([]model.Row, len(companies))
	for i, c := range companies {
		rows[i] = model.Row{"company": c}
		if emails != nil && emails[i] != "" {
			rows[i]["email"] = emails[i]
		}
	}
	ds, err := model.NewDataset(columns, rows)
	require.NoError(t, err)

	most, count := "", 0
	seen := map[string]int{}
	for _, c := range companies {
		seen[c]++
		if seen[c] > count {
			most, count = c, seen[c]
		}
	}
	profiles := map[string]model.ColumnProfile{
		"company": {
			Name:            "company",
			SemanticType:    model.TypeCompany,
			MostCommon:      most,
			MostCommonCount: count,
			NonNullCount:    len(companies),
		},
	}
	if emails != nil {
		profiles["email"] = model.ColumnProfile{Name: "email", SemanticType: model.TypeEmail}
	}
	return ds, profiles
}

func TestCompanyAgentFlagsVariantPerOccurrence(t *testing.T) {
	ds, profiles := companyFixture(t,
		[]string{"Microsoft", "Microsoft", "Microsoft", "Microsoft", "Microsoft", "Microsft", "Microsoft", "Microsoft", "Microsoft", "Microsft", "Microsoft"},
		nil)

	// Dominant spelling above 80%: canonical is deterministic, and the typo
	// sits within edit distance, so no reasoning call is needed.
	mock := &MockClient{}
	issues, err := NewCompanyAgent().Detect(context.Background(), ds, profiles, Reasoning{Client: mock})
	require.NoError(t, err)
	require.Len(t, issues, 2)

	rows := []int{issues[0].Row, issues[1].Row}
	assert.ElementsMatch(t, []int{5, 9}, rows)
	for _, issue := range issues {
		assert.Equal(t, model.IssueCompanyVariant, issue.Type)
		assert.Equal(t, "Microsft", issue.CurrentValue)
		assert.Equal(t, "Microsoft", issue.ProposedValue)
		assert.InDelta(t, 0.88, issue.Confidence, 0.001)
	}
	assert.Zero(t, mock.Calls())
}

func TestCompanyAgentAsksModelForAbbreviations(t *testing.T) {
	ds, profiles := companyFixture(t,
		[]string{"International Business Machines", "IBM", "International Business Machines"},
		nil)

	mock := &MockClient{Queue: []string{
		"International Business Machines",            // canonical choice
		`{"same_company": true, "confidence": 0.91}`, // IBM is the same company
	}}
	issues, err := NewCompanyAgent().Detect(context.Background(), ds, profiles, Reasoning{Client: mock})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Row)
	assert.Equal(t, "International Business Machines", issues[0].ProposedValue)
	assert.InDelta(t, 0.91, issues[0].Confidence, 0.001)
}

func TestCompanyAgentIgnoresMalformedVerdict(t *testing.T) {
	ds, profiles := companyFixture(t,
		[]string{"International Business Machines", "IBM", "International Business Machines"},
		nil)

	mock := &MockClient{Queue: []string{
		"International Business Machines",
		"YES", // not the JSON shape the prompt asks for
	}}
	issues, err := NewCompanyAgent().Detect(context.Background(), ds, profiles, Reasoning{Client: mock})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestCompanyAgentLeavesDistinctCompaniesAlone(t *testing.T) {
	ds, profiles := companyFixture(t,
		[]string{"Accenture", "Deloitte", "Accenture"},
		nil)

	mock := &MockClient{Queue: []string{
		"Accenture", // canonical choice
		`{"same_company": false, "confidence": 0.95}`, // Deloitte is a different company
	}}
	issues, err := NewCompanyAgent().Detect(context.Background(), ds, profiles, Reasoning{Client: mock})
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestCompanyAgentSkipsGenericMailRows(t *testing.T) {
	ds, profiles := companyFixture(t,
		[]string{"Microsoft", "Microsoft", "Microsoft", "Microsoft", "Microsft"},
		[]string{"a@microsoft.com", "b@microsoft.com", "c@microsoft.com", "d@microsoft.com", "e@gmail.com"})

	issues, err := NewCompanyAgent().Detect(context.Background(), ds, profiles, Reasoning{})
	require.NoError(t, err)
	// The only variant row has a personal mail address, so it is exempt.
	assert.Empty(t, issues)
}
