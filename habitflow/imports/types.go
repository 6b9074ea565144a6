package imports

// Result reports what an accepted import replaced the state with.
type Result struct {
	Habits      int `json:"habits" yaml:"habits"`
	Completions int `json:"completions" yaml:"completions"`

	// Orphaned counts log entries dropped because their habit id was not
	// among the imported habits.
	Orphaned int `json:"orphaned" yaml:"orphaned"`

	// DuplicateIDs counts imported habits skipped because an earlier habit
	// in the file had the same id.
	DuplicateIDs int `json:"duplicateIds" yaml:"duplicateIds"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}
