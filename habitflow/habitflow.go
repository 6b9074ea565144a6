// Package habitflow tracks recurring habits and their daily completion.
//
// A Tracker owns the habit registry and the completion log, persists both
// through a store after every change and computes statistics on demand.
// Habits are identified by opaque ids; completion is recorded per calendar
// day and toggled, never set directly.
//
// Basic usage:
//
//	tracker, err := habitflow.Open("habits.json")
//	if err != nil {
//	    return err
//	}
//	defer tracker.Close()
//
//	h, err := tracker.AddHabit(types.HabitDraft{Name: "Exercise", TargetDays: 5})
//	done, err := tracker.Toggle(h.ID, tracker.Today())
//	streak := tracker.Stats().Streak(h.ID, tracker.Today())
package habitflow
