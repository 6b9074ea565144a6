package habitflow

import (
	"log/slog"
	"time"

	"github.com/arthur-debert/habitflow/habitflow/store"
	"github.com/arthur-debert/habitflow/types"
)

// Option configures a Tracker
type Option func(*Tracker)

// WithStore replaces the default JSON file store. The path given to Open
// is ignored.
func WithStore(s store.Store) Option {
	return func(t *Tracker) {
		t.store = s
	}
}

// WithClock sets the source of the current time, which decides what
// "today" is and stamps new habits.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.clock = now
	}
}

// WithIDGenerator sets how new habit ids are made. The default is a
// random UUID.
func WithIDGenerator(gen func() types.HabitID) Option {
	return func(t *Tracker) {
		t.newID = gen
	}
}

// WithWeekStart sets the first day of the week for weekly progress.
func WithWeekStart(day time.Weekday) Option {
	return func(t *Tracker) {
		t.weekStart = day
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}
