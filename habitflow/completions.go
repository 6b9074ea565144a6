package habitflow

import (
	"sort"

	"github.com/arthur-debert/habitflow/types"
)

// CompletionLog records, per calendar day, whether each habit was done.
// A missing entry and an explicit false mean the same thing. Entries are
// only ever created by Toggle.
type CompletionLog struct {
	entries types.Completions
}

// NewCompletionLog creates an empty log.
func NewCompletionLog() *CompletionLog {
	return &CompletionLog{entries: types.Completions{}}
}

// NewCompletionLogFrom creates a log holding a deep copy of entries.
func NewCompletionLogFrom(entries types.Completions) *CompletionLog {
	return &CompletionLog{entries: copyCompletions(entries)}
}

// Toggle flips the state of (id, date), treating absent as false, and
// returns the new state.
func (l *CompletionLog) Toggle(id types.HabitID, date types.Date) bool {
	byHabit, ok := l.entries[date]
	if !ok {
		byHabit = make(map[types.HabitID]bool)
		l.entries[date] = byHabit
	}
	byHabit[id] = !byHabit[id]
	return byHabit[id]
}

// IsCompleted returns the stored state, or false when there is none.
func (l *CompletionLog) IsCompleted(id types.HabitID, date types.Date) bool {
	return l.entries[date][id]
}

// Purge removes every entry for id across all dates and returns how many
// entries were removed. Days left with no entries are dropped.
func (l *CompletionLog) Purge(id types.HabitID) int {
	return l.Reconcile(func(other types.HabitID) bool { return other != id })
}

// Reconcile removes every entry whose habit id keep rejects and returns
// how many entries were removed.
func (l *CompletionLog) Reconcile(keep func(types.HabitID) bool) int {
	removed := 0
	for date, byHabit := range l.entries {
		for id := range byHabit {
			if !keep(id) {
				delete(byHabit, id)
				removed++
			}
		}
		if len(byHabit) == 0 {
			delete(l.entries, date)
		}
	}
	return removed
}

// Dates returns every day that has at least one entry, oldest first.
func (l *CompletionLog) Dates() []types.Date {
	dates := make([]types.Date, 0, len(l.entries))
	for d := range l.entries {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// HasEntries reports whether any entry, true or false, exists for id.
func (l *CompletionLog) HasEntries(id types.HabitID) bool {
	for _, byHabit := range l.entries {
		if _, ok := byHabit[id]; ok {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy of the log's entries.
func (l *CompletionLog) Snapshot() types.Completions {
	return copyCompletions(l.entries)
}

func copyCompletions(in types.Completions) types.Completions {
	out := make(types.Completions, len(in))
	for date, byHabit := range in {
		if byHabit == nil {
			continue
		}
		inner := make(map[types.HabitID]bool, len(byHabit))
		for id, done := range byHabit {
			inner[id] = done
		}
		out[date] = inner
	}
	return out
}
