// Package testutil provides a populated tracker and assertion helpers for
// tests of the habitflow packages.
package testutil

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/arthur-debert/habitflow/habitflow"
	"github.com/arthur-debert/habitflow/habitflow/store"
	"github.com/arthur-debert/habitflow/types"
)

//go:embed universe.json
var universeJSON []byte

// UniverseNow is the instant the universe fixture is observed at:
// Wednesday 2024-06-12, 09:30 UTC.
var UniverseNow = time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)

// UniverseData provides typed access to the fixture habits.
type UniverseData struct {
	Meditation types.Habit // completed 2024-06-08 through 2024-06-12, streak 5
	Reading    types.Habit // completed 06-10 and 06-12, explicitly not on 06-11
	Exercise   types.Habit // completed 06-03 and 06-05, nothing this week

	// RetiredID has a completion entry on 2024-06-01 but no habit.
	RetiredID types.HabitID

	Today types.Date
	Path  string
	Clock *FixedClock
}

// FixedClock is a settable time source.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock returns a clock stopped at now.
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the current fixed time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// SequentialIDs returns a generator producing prefix1, prefix2, ...
func SequentialIDs(prefix string) func() types.HabitID {
	var mu sync.Mutex
	n := 0
	return func() types.HabitID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return types.HabitID(fmt.Sprintf("%s%d", prefix, n))
	}
}

// NewTracker returns an empty tracker on an in-memory store with a fixed
// clock at UniverseNow and sequential ids h1, h2, ... Extra options are
// applied last.
func NewTracker(t *testing.T, opts ...habitflow.Option) (*habitflow.Tracker, *FixedClock) {
	t.Helper()

	clock := NewFixedClock(UniverseNow)
	all := append([]habitflow.Option{
		habitflow.WithStore(store.NewMemory()),
		habitflow.WithClock(clock.Now),
		habitflow.WithIDGenerator(SequentialIDs("h")),
	}, opts...)

	tracker, err := habitflow.Open("", all...)
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	t.Cleanup(func() { _ = tracker.Close() })
	return tracker, clock
}

// LoadUniverse writes the fixture to a temporary JSON file and opens a
// tracker on it.
func LoadUniverse(t *testing.T, opts ...habitflow.Option) (*habitflow.Tracker, *UniverseData) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "habits.json")
	if err := os.WriteFile(path, universeJSON, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	clock := NewFixedClock(UniverseNow)
	all := append([]habitflow.Option{
		habitflow.WithClock(clock.Now),
		habitflow.WithIDGenerator(SequentialIDs("new")),
	}, opts...)

	tracker, err := habitflow.Open(path, all...)
	if err != nil {
		t.Fatalf("failed to open tracker: %v", err)
	}
	t.Cleanup(func() { _ = tracker.Close() })
	if err := tracker.Degraded(); err != nil {
		t.Fatalf("fixture did not load: %v", err)
	}

	u := &UniverseData{
		RetiredID: "retired",
		Today:     types.DateOf(UniverseNow),
		Path:      path,
		Clock:     clock,
	}
	for _, h := range tracker.Habits() {
		switch h.ID {
		case "meditation":
			u.Meditation = h
		case "reading":
			u.Reading = h
		case "exercise":
			u.Exercise = h
		}
	}
	if u.Meditation.ID == "" || u.Reading.ID == "" || u.Exercise.ID == "" {
		t.Fatalf("fixture habits missing: %+v", tracker.Habits())
	}
	return tracker, u
}
