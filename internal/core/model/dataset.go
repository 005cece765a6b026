package model

import (
	"fmt"
)

// Row maps column name to a scalar cell value (string, float64, or nil).
type Row map[string]any

// Dataset is a rectangular in-memory table. It is never mutated after
// construction: detection reads it, and the fix applier returns a copy.
type Dataset struct {
	columns []string
	colSet  map[string]bool
	rows    []Row
}

// NewDataset validates that every row holds exactly the named columns and
// rejects ragged input before any agent sees it.
func NewDataset(columns []string, rows []Row) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset has no columns")
	}
	colSet := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("dataset has an empty column name")
		}
		if colSet[c] {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		colSet[c] = true
	}

	for i, row := range rows {
		for col := range row {
			if !colSet[col] {
				return nil, fmt.Errorf("row %d references unknown column %q", i, col)
			}
		}
	}

	return &Dataset{columns: columns, colSet: colSet, rows: rows}, nil
}

func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

func (d *Dataset) HasColumn(name string) bool {
	return d.colSet[name]
}

func (d *Dataset) RowCount() int {
	return len(d.rows)
}

// Cell returns the value at (row, column); missing cells read as nil.
func (d *Dataset) Cell(row int, column string) (any, error) {
	if row < 0 || row >= len(d.rows) {
		return nil, fmt.Errorf("row %d out of range [0,%d)", row, len(d.rows))
	}
	if !d.colSet[column] {
		return nil, fmt.Errorf("unknown column %q", column)
	}
	return d.rows[row][column], nil
}

// Row returns a copy of one row; mutating it does not touch the dataset.
func (d *Dataset) Row(i int) Row {
	out := make(Row, len(d.columns))
	for k, v := range d.rows[i] {
		out[k] = v
	}
	return out
}

// Clone deep-copies the row maps so a derived dataset can be written freely.
func (d *Dataset) Clone() *Dataset {
	rows := make([]Row, len(d.rows))
	for i, row := range d.rows {
		cp := make(Row, len(row))
		for k, v := range row {
			cp[k] = v
		}
		rows[i] = cp
	}
	clone, _ := NewDataset(d.Columns(), rows)
	return clone
}

// setCell is only reachable through the fix applier.
func (d *Dataset) setCell(row int, column string, value any) {
	if d.rows[row] == nil {
		d.rows[row] = Row{}
	}
	d.rows[row][column] = value
}

// ApplyCell overwrites one cell on an already-cloned dataset. The applier is
// the sole caller; everything else treats datasets as read-only.
func ApplyCell(d *Dataset, row int, column string, value any) {
	d.setCell(row, column, value)
}

// CellString renders a cell the way prompts and comparisons consume it,
// with nil as the empty string.
func CellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
