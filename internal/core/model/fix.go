package model

// Fix is an accepted, concrete value change for one cell. OldValue is the
// value the caller saw when accepting; the applier rejects the fix if the
// live cell no longer matches it.
type Fix struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// DiffEntry records one applied change, in application order, for display.
type DiffEntry struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}
