package validation

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/habitflow/types"
)

// Field length limits for user-supplied text.
const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
)

// ValidateDraft checks a habit draft before it is added to the registry.
// Blank optional fields must already have their defaults applied.
func ValidateDraft(d types.HabitDraft) error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	if err := validateDescription(d.Description); err != nil {
		return err
	}
	if err := validateCategory(d.Category); err != nil {
		return err
	}
	if err := validateColor(d.Color); err != nil {
		return err
	}
	return validateTargetDays(d.TargetDays)
}

// ValidateHabit checks a stored habit, such as one read from a backup.
func ValidateHabit(h types.Habit) error {
	if h.ID == "" {
		return &types.ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	return ValidateDraft(types.HabitDraft{
		Name:        h.Name,
		Description: h.Description,
		Category:    h.Category,
		Color:       h.Color,
		Icon:        h.Icon,
		TargetDays:  h.TargetDays,
	})
}

// ValidateUpdate checks the non-nil fields of a habit update.
func ValidateUpdate(u types.HabitUpdate) error {
	if u.Name != nil {
		if err := validateName(*u.Name); err != nil {
			return err
		}
	}
	if u.Description != nil {
		if err := validateDescription(*u.Description); err != nil {
			return err
		}
	}
	if u.Category != nil {
		if err := validateCategory(*u.Category); err != nil {
			return err
		}
	}
	if u.Color != nil {
		if err := validateColor(*u.Color); err != nil {
			return err
		}
	}
	if u.TargetDays != nil {
		if err := validateTargetDays(*u.TargetDays); err != nil {
			return err
		}
	}
	return nil
}

// validateName requires visible text; duplicates across habits are allowed
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &types.ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if len(name) > maxNameLength {
		return &types.ValidationError{Field: "name", Reason: fmt.Sprintf("longer than %d characters", maxNameLength)}
	}
	return nil
}

func validateDescription(desc string) error {
	if len(desc) > maxDescriptionLength {
		return &types.ValidationError{Field: "description", Reason: fmt.Sprintf("longer than %d characters", maxDescriptionLength)}
	}
	return nil
}

func validateCategory(c types.Category) error {
	if !c.Valid() {
		names := make([]string, 0, len(types.Categories()))
		for _, known := range types.Categories() {
			names = append(names, string(known))
		}
		return &types.ValidationError{
			Field:  "category",
			Reason: fmt.Sprintf("%q is not one of %s", c, strings.Join(names, ", ")),
		}
	}
	return nil
}

// validateColor accepts any non-blank tag; colors are opaque to the tracker
func validateColor(color string) error {
	if strings.TrimSpace(color) == "" {
		return &types.ValidationError{Field: "color", Reason: "cannot be empty"}
	}
	return nil
}

func validateTargetDays(n int) error {
	if n < types.MinTargetDays || n > types.MaxTargetDays {
		return &types.ValidationError{
			Field:  "targetDays",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", types.MinTargetDays, types.MaxTargetDays, n),
		}
	}
	return nil
}
