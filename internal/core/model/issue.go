package model

import (
	"fmt"

	"github.com/google/uuid"
)

// IssueType names the class of problem an agent detects.
type IssueType string

const (
	IssueInvalidEmail       IssueType = "InvalidEmail"
	IssueDateStandardize    IssueType = "DateStandardization"
	IssuePhoneNormalize     IssueType = "PhoneNormalization"
	IssueCompanyVariant     IssueType = "CompanyVariant"
	IssueFuzzyMapping       IssueType = "FuzzyMapping"
	IssueMissingValue       IssueType = "MissingValue"
	IssueUnitStandardize    IssueType = "UnitStandardization"
	IssueCrossFieldConflict IssueType = "CrossFieldConflict"
)

// Issue is one detected problem at a cell (or, after grouping, a set of rows
// sharing the same bad value). Immutable once created; the orchestrator's
// merge step builds new issues rather than editing agent output in place.
type Issue struct {
	ID          string    `json:"id"`
	Row         int       `json:"row"`
	Column      string    `json:"column"`
	Type        IssueType `json:"issue_type"`
	SourceAgent string    `json:"source_agent"`
	Description string    `json:"description"`

	CurrentValue  string `json:"current_value"`
	ProposedValue string `json:"proposed_value,omitempty"`
	HasProposal   bool   `json:"has_proposal"`

	Confidence float64 `json:"confidence"`

	// AffectedRows is populated by the orchestrator when identical findings
	// across rows are folded into one representative issue. It always
	// includes Row.
	AffectedRows []int `json:"affected_rows,omitempty"`

	// SupersededBy names the higher-confidence issue that targets the same
	// cell. Superseded issues stay visible and individually selectable but
	// are excluded from batch acceptance.
	SupersededBy string `json:"superseded_by,omitempty"`
}

// NewIssueID builds an ID that stays readable in logs while a uuid suffix
// keeps repeated findings distinct.
func NewIssueID(agent string, issueType IssueType, row int, column string) string {
	return fmt.Sprintf("%s_%s_%d_%s_%s", agent, issueType, row, column, uuid.NewString()[:8])
}

// Fixes derives the accepted value changes an issue fans out to: one per
// affected row for grouped issues, a single fix otherwise.
func (i Issue) Fixes() []Fix {
	if !i.HasProposal {
		return nil
	}
	rows := i.AffectedRows
	if len(rows) == 0 {
		rows = []int{i.Row}
	}
	fixes := make([]Fix, 0, len(rows))
	for _, r := range rows {
		fixes = append(fixes, Fix{
			Row:      r,
			Column:   i.Column,
			OldValue: i.CurrentValue,
			NewValue: i.ProposedValue,
		})
	}
	return fixes
}
