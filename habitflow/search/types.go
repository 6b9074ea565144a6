package search

import "github.com/arthur-debert/habitflow/types"

// Field names a searchable habit field.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
)

// Options configures search behavior
type Options struct {
	// Query is the text to look for
	Query string

	// Fields restricts the search; empty searches name, description and category
	Fields []Field

	CaseSensitive bool

	// ExactMatch requires the whole field to equal the query
	ExactMatch bool

	// MaxResults limits the number of results; 0 means no limit
	MaxResults int
}

// Result is a matching habit with its relevance
type Result struct {
	Habit types.Habit `json:"habit" yaml:"habit"`

	// Score is in (0, 1]; higher is better
	Score float64 `json:"score" yaml:"score"`

	MatchType     MatchType `json:"matchType" yaml:"matchType"`
	MatchedFields []Field   `json:"matchedFields" yaml:"matchedFields"`
}

// MatchType indicates where the best match was found
type MatchType string

const (
	MatchExactName   MatchType = "exact_name"
	MatchPartialName MatchType = "partial_name"
	MatchDescription MatchType = "description"
	MatchCategory    MatchType = "category"
)

// HabitProvider supplies the habits to search
type HabitProvider interface {
	Habits() []types.Habit
}
