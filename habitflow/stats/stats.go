// Package stats derives streaks, weekly progress and completion series from
// a habit registry and a completion log. Every function is a pure read of
// its two sources at call time; nothing is cached between calls.
package stats

import (
	"time"

	"github.com/arthur-debert/habitflow/types"
)

// DaysPerWeek is the denominator of weekly progress.
const DaysPerWeek = 7

// DefaultWeekStart is the first day of the week used by WeeklyProgress.
const DefaultWeekStart = time.Sunday

// DefaultWindowDays is the length of the trend series shown by default.
const DefaultWindowDays = 30

// MaxWindowDays bounds the trend series to three years of days.
const MaxWindowDays = 3 * 366

// Habits is the read side of the habit registry.
type Habits interface {
	List() []types.Habit
	Contains(id types.HabitID) bool
	Len() int
}

// Log is the read side of the completion log.
type Log interface {
	IsCompleted(id types.HabitID, date types.Date) bool
	Dates() []types.Date
}

// Engine computes statistics over a registry and a log. Only habits still
// present in the registry have statistics; any other id yields zero values.
type Engine struct {
	habits    Habits
	log       Log
	weekStart time.Weekday
}

// Option configures an Engine
type Option func(*Engine)

// WithWeekStart sets the first day of the week for WeeklyProgress.
func WithWeekStart(day time.Weekday) Option {
	return func(e *Engine) {
		e.weekStart = day
	}
}

// NewEngine creates an engine reading from habits and log.
func NewEngine(habits Habits, log Log, opts ...Option) *Engine {
	e := &Engine{
		habits:    habits,
		log:       log,
		weekStart: DefaultWeekStart,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WeekStart returns the configured first day of the week.
func (e *Engine) WeekStart() time.Weekday {
	return e.weekStart
}

// Streak counts consecutive completed days ending at asOf, walking
// backwards until the first day that is not completed. It is 0 when asOf
// itself is not completed. Every calendar day counts.
func (e *Engine) Streak(id types.HabitID, asOf types.Date) int {
	if !e.habits.Contains(id) {
		return 0
	}

	streak := 0
	for day := asOf; e.log.IsCompleted(id, day); day = day.AddDays(-1) {
		streak++
	}
	return streak
}

// WeeklyProgress reports completion over the calendar week containing asOf.
type WeeklyProgress struct {
	CompletedCount int        `json:"completedCount" yaml:"completedCount"`
	TotalDays      int        `json:"totalDays" yaml:"totalDays"`
	Percentage     int        `json:"percentage" yaml:"percentage"`
	WeekStart      types.Date `json:"weekStart" yaml:"weekStart"`
}

// WeeklyProgress counts the completed days of the week containing asOf.
// The percentage is rounded half up.
func (e *Engine) WeeklyProgress(id types.HabitID, asOf types.Date) WeeklyProgress {
	start := asOf.StartOfWeek(e.weekStart)
	progress := WeeklyProgress{TotalDays: DaysPerWeek, WeekStart: start}
	if !e.habits.Contains(id) {
		return progress
	}

	for i := 0; i < DaysPerWeek; i++ {
		if e.log.IsCompleted(id, start.AddDays(i)) {
			progress.CompletedCount++
		}
	}
	progress.Percentage = Percent(progress.CompletedCount, DaysPerWeek)
	return progress
}

// TotalCompletions counts every day on which the habit was completed.
func (e *Engine) TotalCompletions(id types.HabitID) int {
	if !e.habits.Contains(id) {
		return 0
	}

	total := 0
	for _, day := range e.log.Dates() {
		if e.log.IsCompleted(id, day) {
			total++
		}
	}
	return total
}

// DailyPoint is one day of the completion trend.
type DailyPoint struct {
	Date            types.Date `json:"date" yaml:"date"`
	CompletedCount  int        `json:"completedCount" yaml:"completedCount"`
	TotalHabitCount int        `json:"totalHabitCount" yaml:"totalHabitCount"`
}

// DailySeries returns one point per day for the windowDays days ending at
// asOf inclusive, oldest first. A non-positive window yields no points and
// a window longer than MaxWindowDays is cut to MaxWindowDays.
func (e *Engine) DailySeries(windowDays int, asOf types.Date) []DailyPoint {
	if windowDays <= 0 {
		return []DailyPoint{}
	}
	windowDays = min(windowDays, MaxWindowDays)

	habits := e.habits.List()
	series := make([]DailyPoint, 0, windowDays)
	for day := asOf.AddDays(-(windowDays - 1)); !day.After(asOf); day = day.AddDays(1) {
		series = append(series, DailyPoint{
			Date:            day,
			CompletedCount:  completedOn(e.log, habits, day),
			TotalHabitCount: len(habits),
		})
	}
	return series
}

func completedOn(log Log, habits []types.Habit, day types.Date) int {
	n := 0
	for _, h := range habits {
		if log.IsCompleted(h.ID, day) {
			n++
		}
	}
	return n
}

// Percent returns part/whole*100 rounded half up, or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}
