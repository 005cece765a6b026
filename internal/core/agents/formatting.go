package agents

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/common"
	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
	"github.com/Vikram2406/Hackathon-DQ/internal/llm"
)

const isoDateLayout = "2006-01-02"

// Layouts tried in order when reading a date cell. US month-first forms come
// before day-first ones, matching how ambiguous values were resolved upstream.
var readDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02.01.2006",
}

var countryDialCodes = map[string]string{
	"US": "1",
	"IN": "91",
}

var phoneSepRe = regexp.MustCompile(`[\s\-().]`)

// FormattingAgent standardizes date columns to ISO YYYY-MM-DD and phone
// columns to +<country-code><digits>, using the profile's country hint.
type FormattingAgent struct{}

func NewFormattingAgent() *FormattingAgent { return &FormattingAgent{} }

func (a *FormattingAgent) Name() string { return "formatting" }

func (a *FormattingAgent) Detect(ctx context.Context, ds *model.Dataset, profiles map[string]model.ColumnProfile, rc Reasoning) ([]model.Issue, error) {
	var issues []model.Issue

	for _, col := range ds.Columns() {
		p, ok := profiles[col]
		if !ok {
			continue
		}
		switch p.SemanticType {
		case model.TypeDate:
			dateIssues, err := a.detectDates(ctx, ds, col, rc)
			issues = append(issues, dateIssues...)
			if err != nil {
				return issues, err
			}
		case model.TypePhone:
			issues = append(issues, a.detectPhones(ds, col, p)...)
		}
	}

	return issues, nil
}

func (a *FormattingAgent) detectDates(ctx context.Context, ds *model.Dataset, col string, rc Reasoning) ([]model.Issue, error) {
	var issues []model.Issue

	for row := 0; row < ds.RowCount(); row++ {
		cell, _ := ds.Cell(row, col)
		value := strings.TrimSpace(model.CellString(cell))
		if value == "" {
			continue
		}

		iso, parsed := parseToISO(value)
		if parsed && iso == value {
			continue
		}

		issue := model.Issue{
			ID:           model.NewIssueID(a.Name(), model.IssueDateStandardize, row, col),
			Row:          row,
			Column:       col,
			Type:         model.IssueDateStandardize,
			SourceAgent:  a.Name(),
			CurrentValue: model.CellString(cell),
		}

		if parsed {
			issue.Description = fmt.Sprintf("Date %q standardized to ISO format", value)
			issue.ProposedValue = iso
			issue.HasProposal = true
			issue.Confidence = 0.95
			issues = append(issues, issue)
			continue
		}

		// Unrecognized layout: ask the model, but only record an issue when
		// it produces a usable ISO date.
		if rc.Client == nil {
			continue
		}
		response, err := ask(ctx, rc,
			"You convert dates to ISO format. Reply with only the date as YYYY-MM-DD, or NONE if the input is not a date.",
			fmt.Sprintf("Convert this value to YYYY-MM-DD: %q", value))
		if err != nil {
			if errors.Is(err, llm.ErrUnavailable) {
				return issues, fmt.Errorf("formatting agent: %w", err)
			}
			continue
		}
		proposed := common.CleanValue(response)
		if _, err := time.Parse(isoDateLayout, proposed); err != nil {
			continue
		}
		issue.Description = fmt.Sprintf("Unrecognized date format %q converted to ISO", value)
		issue.ProposedValue = proposed
		issue.HasProposal = true
		issue.Confidence = 0.8
		issues = append(issues, issue)
	}

	return issues, nil
}

func (a *FormattingAgent) detectPhones(ds *model.Dataset, col string, p model.ColumnProfile) []model.Issue {
	var issues []model.Issue

	for row := 0; row < ds.RowCount(); row++ {
		cell, _ := ds.Cell(row, col)
		value := strings.TrimSpace(model.CellString(cell))
		if value == "" {
			continue
		}

		normalized, ok := normalizePhone(value, p.CountryHint)
		if !ok || normalized == value {
			continue
		}

		issues = append(issues, model.Issue{
			ID:            model.NewIssueID(a.Name(), model.IssuePhoneNormalize, row, col),
			Row:           row,
			Column:        col,
			Type:          model.IssuePhoneNormalize,
			SourceAgent:   a.Name(),
			Description:   fmt.Sprintf("Phone number %q normalized to international format", value),
			CurrentValue:  model.CellString(cell),
			ProposedValue: normalized,
			HasProposal:   true,
			Confidence:    0.9,
		})
	}

	return issues
}

func parseToISO(value string) (string, bool) {
	for _, layout := range readDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(isoDateLayout), true
		}
	}
	return "", false
}

// normalizePhone rewrites a phone number as +<cc><subscriber>. A country code
// already present in the value wins over the column-level hint, which is the
// weakest signal.
func normalizePhone(value, countryHint string) (string, bool) {
	stripped := phoneSepRe.ReplaceAllString(value, "")

	hasPlus := strings.HasPrefix(stripped, "+")
	digits := strings.TrimPrefix(stripped, "+")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	if hasPlus {
		if len(digits) >= 11 {
			return "+" + digits, true
		}
		return "", false
	}

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return "+" + digits, true
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits, true
	case len(digits) == 10:
		code, ok := countryDialCodes[countryHint]
		if !ok {
			code = countryDialCodes["US"]
		}
		return "+" + code + digits, true
	}
	return "", false
}
