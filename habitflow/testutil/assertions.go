package testutil

import (
	"errors"
	"testing"

	"github.com/arthur-debert/habitflow/habitflow"
	"github.com/arthur-debert/habitflow/types"
)

// AssertHabitCount checks the number of registered habits.
func AssertHabitCount(t *testing.T, tracker *habitflow.Tracker, expected int) {
	t.Helper()
	if got := len(tracker.Habits()); got != expected {
		t.Errorf("expected %d habits, got %d", expected, got)
	}
}

// AssertHabitExists verifies that a habit with the given id is registered.
func AssertHabitExists(t *testing.T, tracker *habitflow.Tracker, id types.HabitID) {
	t.Helper()
	if _, err := tracker.Habit(id); err != nil {
		t.Errorf("habit %s not found: %v", id, err)
	}
}

// AssertHabitNotExists verifies that no habit with the given id is registered.
func AssertHabitNotExists(t *testing.T, tracker *habitflow.Tracker, id types.HabitID) {
	t.Helper()
	if _, err := tracker.Habit(id); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("habit %s should not exist, got err=%v", id, err)
	}
}

// AssertCompleted checks that the habit is completed on day.
func AssertCompleted(t *testing.T, tracker *habitflow.Tracker, id types.HabitID, day string) {
	t.Helper()
	if !tracker.IsCompleted(id, types.MustParseDate(day)) {
		t.Errorf("expected %s completed on %s", id, day)
	}
}

// AssertNotCompleted checks that the habit is not completed on day.
func AssertNotCompleted(t *testing.T, tracker *habitflow.Tracker, id types.HabitID, day string) {
	t.Helper()
	if tracker.IsCompleted(id, types.MustParseDate(day)) {
		t.Errorf("expected %s not completed on %s", id, day)
	}
}

// AssertStreak checks the streak of a habit as of today.
func AssertStreak(t *testing.T, tracker *habitflow.Tracker, id types.HabitID, expected int) {
	t.Helper()
	if got := tracker.Stats().Streak(id, tracker.Today()); got != expected {
		t.Errorf("expected streak %d for %s, got %d", expected, id, got)
	}
}

// AssertNoEntries verifies that no completion entry mentions id.
func AssertNoEntries(t *testing.T, tracker *habitflow.Tracker, id types.HabitID) {
	t.Helper()
	for date, byHabit := range tracker.ExportSnapshot().Completions {
		if _, ok := byHabit[id]; ok {
			t.Errorf("unexpected entry for %s on %s", id, date)
		}
	}
}

// AssertStorageError checks that err is classified as a storage failure.
func AssertStorageError(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, types.ErrStorage) {
		t.Errorf("expected storage error, got %v", err)
	}
}
