package testutil_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/habitflow/habitflow/testutil"
)

func TestLoadUniverse(t *testing.T) {
	tracker, u := testutil.LoadUniverse(t)

	testutil.AssertHabitCount(t, tracker, 3)
	testutil.AssertStreak(t, tracker, u.Meditation.ID, 5)
	testutil.AssertStreak(t, tracker, u.Reading.ID, 1)
	testutil.AssertStreak(t, tracker, u.Exercise.ID, 0)
	testutil.AssertNotCompleted(t, tracker, u.Reading.ID, "2024-06-11")
	testutil.AssertHabitNotExists(t, tracker, u.RetiredID)

	if u.Today.String() != "2024-06-12" || tracker.Today() != u.Today {
		t.Errorf("unexpected today: %s / %s", u.Today, tracker.Today())
	}
}

func TestFixedClock(t *testing.T) {
	clock := testutil.NewFixedClock(testutil.UniverseNow)
	clock.Advance(24 * time.Hour)
	if got := clock.Now(); !got.Equal(testutil.UniverseNow.Add(24 * time.Hour)) {
		t.Errorf("unexpected time after advance: %v", got)
	}
}

func TestSequentialIDs(t *testing.T) {
	next := testutil.SequentialIDs("x")
	if a, b := next(), next(); a != "x1" || b != "x2" {
		t.Errorf("unexpected ids %s, %s", a, b)
	}
}
