// Package applier turns accepted fixes into a new dataset. It is the only
// writer of cell values in the whole pipeline.
package applier

import (
	"fmt"

	"github.com/Vikram2406/Hackathon-DQ/internal/core/model"
)

// InvalidFixError rejects a fix that is out of range or stale. When any fix
// in a batch is invalid, the batch applies nothing.
type InvalidFixError struct {
	Row    int
	Column string
	Reason string
}

func (e *InvalidFixError) Error() string {
	return fmt.Sprintf("invalid fix at (row=%d, column=%q): %s", e.Row, e.Column, e.Reason)
}

// Apply validates every fix against the live dataset, then builds a new
// dataset with exactly the accepted cells overwritten, plus an ordered diff
// for display. All-or-nothing: the first invalid fix aborts the whole batch
// and the source dataset is returned to the caller untouched either way.
func Apply(ds *model.Dataset, fixes []model.Fix) (*model.Dataset, []model.DiffEntry, error) {
	seen := map[string]bool{}
	for _, fix := range fixes {
		if fix.Row < 0 || fix.Row >= ds.RowCount() {
			return nil, nil, &InvalidFixError{Row: fix.Row, Column: fix.Column,
				Reason: fmt.Sprintf("row out of range [0,%d)", ds.RowCount())}
		}
		if !ds.HasColumn(fix.Column) {
			return nil, nil, &InvalidFixError{Row: fix.Row, Column: fix.Column,
				Reason: "unknown column"}
		}

		key := fmt.Sprintf("%d\x00%s", fix.Row, fix.Column)
		if seen[key] {
			return nil, nil, &InvalidFixError{Row: fix.Row, Column: fix.Column,
				Reason: "cell targeted by more than one fix in this batch"}
		}
		seen[key] = true

		live, _ := ds.Cell(fix.Row, fix.Column)
		if model.CellString(live) != fix.OldValue {
			return nil, nil, &InvalidFixError{Row: fix.Row, Column: fix.Column,
				Reason: fmt.Sprintf("stale fix: recorded old value %q, live value %q",
					fix.OldValue, model.CellString(live))}
		}
	}

	next := ds.Clone()
	diff := make([]model.DiffEntry, 0, len(fixes))
	for _, fix := range fixes {
		model.ApplyCell(next, fix.Row, fix.Column, fix.NewValue)
		diff = append(diff, model.DiffEntry{
			Row:      fix.Row,
			Column:   fix.Column,
			OldValue: fix.OldValue,
			NewValue: fix.NewValue,
		})
	}

	return next, diff, nil
}
