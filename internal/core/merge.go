package core

import (
	"sort"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
)

type groupKey struct {
	issueType model.IssueType
	column    string
	current   string
	proposed  string
	proposal  bool
}

// mergeIssues is a pure function over the raw agent output. It (1) folds
// identical findings across rows into one representative issue carrying every
// affected row, (2) tags per-cell collisions so only the highest-confidence
// proposal per cell is batch-acceptable, and (3) ranks by confidence. No
// issue is ever dropped: every row an agent flagged appears in exactly one
// representative's AffectedRows.
func mergeIssues(raw []model.Issue) []model.Issue {
	groups := map[groupKey]*model.Issue{}
	var order []groupKey

	for _, issue := range raw {
		key := groupKey{
			issueType: issue.Type,
			column:    issue.Column,
			current:   issue.CurrentValue,
			proposed:  issue.ProposedValue,
			proposal:  issue.HasProposal,
		}
		if rep, ok := groups[key]; ok {
			// A repeated finding for a row already covered must not produce
			// a second fix for the same cell.
			if !containsRow(rep.AffectedRows, issue.Row) {
				rep.AffectedRows = append(rep.AffectedRows, issue.Row)
			}
			if issue.Confidence > rep.Confidence {
				rep.Confidence = issue.Confidence
			}
			continue
		}
		rep := issue
		rep.AffectedRows = []int{issue.Row}
		groups[key] = &rep
		order = append(order, key)
	}

	merged := make([]model.Issue, 0, len(order))
	for _, key := range order {
		rep := groups[key]
		sort.Ints(rep.AffectedRows)
		rep.Row = rep.AffectedRows[0]
		merged = append(merged, *rep)
	}

	supersede(merged)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Confidence > merged[j].Confidence
	})
	return merged
}

func containsRow(rows []int, row int) bool {
	for _, r := range rows {
		if r == row {
			return true
		}
	}
	return false
}

type cellRef struct {
	row    int
	column string
}

// supersede resolves cell-level collisions between issues from different
// detections: every issue stays visible and selectable, but all except the
// highest-confidence one per cell are tagged with the winner's id.
func supersede(issues []model.Issue) {
	winners := map[cellRef]int{}

	for i := range issues {
		for _, row := range issues[i].AffectedRows {
			ref := cellRef{row: row, column: issues[i].Column}
			w, ok := winners[ref]
			if !ok {
				winners[ref] = i
				continue
			}
			if issues[i].Confidence > issues[w].Confidence {
				winners[ref] = i
			}
		}
	}

	for i := range issues {
		for _, row := range issues[i].AffectedRows {
			ref := cellRef{row: row, column: issues[i].Column}
			if w := winners[ref]; w != i && issues[i].SupersededBy == "" {
				issues[i].SupersededBy = issues[w].ID
			}
		}
	}
}
