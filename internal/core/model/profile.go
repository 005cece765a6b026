package model

type SemanticType string

const (
	TypeEmail       SemanticType = "email"
	TypePhone       SemanticType = "phone"
	TypeDate        SemanticType = "date"
	TypeCompany     SemanticType = "company"
	TypeNumeric     SemanticType = "numeric"
	TypeCategorical SemanticType = "categorical"
	TypeFreeText    SemanticType = "free_text"
	TypeUnknown     SemanticType = "unknown"
)

// ColumnProfile holds the inferred type and learned facts for one column.
// It is computed once per run from a bounded sample and shared read-only by
// every agent; agents never re-infer types on their own.
type ColumnProfile struct {
	Name         string       `json:"name"`
	SemanticType SemanticType `json:"semantic_type"`
	// Confidence is the fraction of sampled values matching the winning
	// pattern; zero when the type came from the column-name fallback.
	Confidence   float64 `json:"confidence"`
	NonNullCount int     `json:"non_null_count"`
	UniqueCount  int     `json:"unique_count"`

	MostCommon      string   `json:"most_common,omitempty"`
	MostCommonCount int      `json:"most_common_count,omitempty"`
	SampleValues    []string `json:"sample_values,omitempty"`

	// Learned facts used to anchor reasoning prompts.
	MostCommonDomain string `json:"most_common_domain,omitempty"` // email columns
	CountryHint      string `json:"country_hint,omitempty"`       // phone columns, e.g. "IN", "US"
}
