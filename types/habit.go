package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// HabitID identifies a habit. Ids are assigned at creation and never reused.
type HabitID string

// UnmarshalJSON accepts both JSON strings and JSON numbers. Backups written
// by the browser version of the tracker use integer ids.
func (id *HabitID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = HabitID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("habit id must be a string or number: %w", err)
	}
	*id = HabitID(n.String())
	return nil
}

// Category groups habits for display.
type Category string

const (
	CategoryWellness     Category = "wellness"
	CategoryFitness      Category = "fitness"
	CategoryLearning     Category = "learning"
	CategoryProductivity Category = "productivity"
	CategoryCreative     Category = "creative"
)

// Categories returns every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryWellness,
		CategoryFitness,
		CategoryLearning,
		CategoryProductivity,
		CategoryCreative,
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Weekly target bounds.
const (
	MinTargetDays = 1
	MaxTargetDays = 7
)

// Defaults applied to blank draft fields, matching the habit form's initial values.
const (
	DefaultCategory   = CategoryWellness
	DefaultColor      = "bg-blue-500"
	DefaultTargetDays = 7
)

// Habit is a user-defined recurring behaviour tracked for daily completion.
type Habit struct {
	ID          HabitID   `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Category    Category  `json:"category" yaml:"category"`
	Color       string    `json:"color" yaml:"color"`
	Icon        string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	TargetDays  int       `json:"targetDays" yaml:"targetDays"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// HabitDraft holds the user-supplied fields of a habit that does not exist yet.
type HabitDraft struct {
	Name        string
	Description string
	Category    Category
	Color       string
	Icon        string
	TargetDays  int
}

// WithDefaults returns a copy of d with blank category, color and target
// filled in.
func (d HabitDraft) WithDefaults() HabitDraft {
	if d.Category == "" {
		d.Category = DefaultCategory
	}
	if d.Color == "" {
		d.Color = DefaultColor
	}
	if d.TargetDays == 0 {
		d.TargetDays = DefaultTargetDays
	}
	return d
}

// HabitUpdate specifies fields to change on a habit. Nil fields are left alone.
type HabitUpdate struct {
	Name        *string
	Description *string
	Category    *Category
	Color       *string
	Icon        *string
	TargetDays  *int
}

// IsEmpty reports whether the update changes nothing.
func (u HabitUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Category == nil &&
		u.Color == nil && u.Icon == nil && u.TargetDays == nil
}

// Apply merges the non-nil fields of u into h.
func (u HabitUpdate) Apply(h *Habit) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.Description != nil {
		h.Description = *u.Description
	}
	if u.Category != nil {
		h.Category = *u.Category
	}
	if u.Color != nil {
		h.Color = *u.Color
	}
	if u.Icon != nil {
		h.Icon = *u.Icon
	}
	if u.TargetDays != nil {
		h.TargetDays = *u.TargetDays
	}
}

// Completions maps a calendar day to the completion state of each habit on
// that day. A missing entry means not completed.
type Completions map[Date]map[HabitID]bool
