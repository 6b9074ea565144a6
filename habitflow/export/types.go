package export

import (
	"time"

	"github.com/arthur-debert/habitflow/types"
)

// Snapshot is the portable backup document: every habit, the whole
// completion log and the moment it was taken.
type Snapshot struct {
	Habits      []types.Habit     `json:"habits"`
	Completions types.Completions `json:"completions"`
	ExportDate  time.Time         `json:"exportDate"`
}

// Metadata summarises a snapshot without its contents.
type Metadata struct {
	HabitCount      int       `json:"habitCount" yaml:"habitCount"`
	CompletionCount int       `json:"completionCount" yaml:"completionCount"`
	DayCount        int       `json:"dayCount" yaml:"dayCount"`
	ExportDate      time.Time `json:"exportDate" yaml:"exportDate"`
	Filename        string    `json:"filename" yaml:"filename"`
}
