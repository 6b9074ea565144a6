package stats

import (
	"github.com/arthur-debert/habitflow/types"
)

// BestStreak is the longest current streak across all registered habits,
// or 0 when there are none.
func (e *Engine) BestStreak(asOf types.Date) int {
	best := 0
	for _, h := range e.habits.List() {
		if s := e.Streak(h.ID, asOf); s > best {
			best = s
		}
	}
	return best
}

// TotalCompletionsAll sums TotalCompletions over all registered habits.
// Stale log entries for deleted habits are not counted.
func (e *Engine) TotalCompletionsAll() int {
	total := 0
	for _, h := range e.habits.List() {
		total += e.TotalCompletions(h.ID)
	}
	return total
}

// AverageWeeklyRate is the mean weekly percentage across registered
// habits, rounded half up; 0 when there are none.
func (e *Engine) AverageWeeklyRate(asOf types.Date) int {
	habits := e.habits.List()
	if len(habits) == 0 {
		return 0
	}

	sum := 0
	for _, h := range habits {
		sum += e.WeeklyProgress(h.ID, asOf).Percentage
	}
	return Percent(sum, len(habits)*100)
}

// DayProgress is the share of registered habits completed on one day.
type DayProgress struct {
	Date       types.Date `json:"date" yaml:"date"`
	Completed  int        `json:"completed" yaml:"completed"`
	Total      int        `json:"total" yaml:"total"`
	Percentage int        `json:"percentage" yaml:"percentage"`
}

// DayProgress counts the registered habits completed on day.
func (e *Engine) DayProgress(day types.Date) DayProgress {
	habits := e.habits.List()
	done := completedOn(e.log, habits, day)
	return DayProgress{
		Date:       day,
		Completed:  done,
		Total:      len(habits),
		Percentage: Percent(done, len(habits)),
	}
}

// HabitSummary collects the per-habit statistics.
type HabitSummary struct {
	Habit            types.Habit    `json:"habit" yaml:"habit"`
	CompletedToday   bool           `json:"completedToday" yaml:"completedToday"`
	Streak           int            `json:"streak" yaml:"streak"`
	Weekly           WeeklyProgress `json:"weekly" yaml:"weekly"`
	TotalCompletions int            `json:"totalCompletions" yaml:"totalCompletions"`
}

// HabitSummaries returns a summary per registered habit, in registry order.
func (e *Engine) HabitSummaries(asOf types.Date) []HabitSummary {
	habits := e.habits.List()
	out := make([]HabitSummary, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitSummary{
			Habit:            h,
			CompletedToday:   e.log.IsCompleted(h.ID, asOf),
			Streak:           e.Streak(h.ID, asOf),
			Weekly:           e.WeeklyProgress(h.ID, asOf),
			TotalCompletions: e.TotalCompletions(h.ID),
		})
	}
	return out
}

// Summary is everything the statistics view shows, computed at one instant.
type Summary struct {
	AsOf              types.Date     `json:"asOf" yaml:"asOf"`
	TotalHabits       int            `json:"totalHabits" yaml:"totalHabits"`
	BestStreak        int            `json:"bestStreak" yaml:"bestStreak"`
	TotalCompletions  int            `json:"totalCompletions" yaml:"totalCompletions"`
	AverageWeeklyRate int            `json:"averageWeeklyRate" yaml:"averageWeeklyRate"`
	Today             DayProgress    `json:"today" yaml:"today"`
	Habits            []HabitSummary `json:"habits" yaml:"habits"`
	Series            []DailyPoint   `json:"series" yaml:"series"`
}

// Summary computes the full statistics view as of asOf with a trend
// window of windowDays.
func (e *Engine) Summary(asOf types.Date, windowDays int) Summary {
	return Summary{
		AsOf:              asOf,
		TotalHabits:       e.habits.Len(),
		BestStreak:        e.BestStreak(asOf),
		TotalCompletions:  e.TotalCompletionsAll(),
		AverageWeeklyRate: e.AverageWeeklyRate(asOf),
		Today:             e.DayProgress(asOf),
		Habits:            e.HabitSummaries(asOf),
		Series:            e.DailySeries(windowDays, asOf),
	}
}
