// Package storage defines the persisted shape of the tracker's state and the
// in-process lock used around every access to it.
package storage

import (
	"time"

	"github.com/arthur-debert/habitflow/types"
)

// FormatVersion is written into the metadata of every saved file.
const FormatVersion = "1.0"

// StoreData is the complete document written to the backend: the ordered
// habit list and the completion log, plus bookkeeping metadata.
type StoreData struct {
	Habits      []types.Habit     `json:"habits"`
	Completions types.Completions `json:"completions"`
	Metadata    Metadata          `json:"metadata"`
}

// Metadata contains storage metadata
type Metadata struct {
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewStoreData returns empty data stamped with now.
func NewStoreData(now time.Time) *StoreData {
	return &StoreData{
		Habits:      []types.Habit{},
		Completions: types.Completions{},
		Metadata: Metadata{
			Version:   FormatVersion,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// Normalize replaces nil collections with empty ones so callers never have
// to nil-check, and fills a missing version.
func (d *StoreData) Normalize() {
	if d.Habits == nil {
		d.Habits = []types.Habit{}
	}
	if d.Completions == nil {
		d.Completions = types.Completions{}
	}
	for date, byHabit := range d.Completions {
		if byHabit == nil {
			delete(d.Completions, date)
		}
	}
	if d.Metadata.Version == "" {
		d.Metadata.Version = FormatVersion
	}
}
