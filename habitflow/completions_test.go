package habitflow

import (
	"testing"

	"github.com/arthur-debert/habitflow/types"
	"github.com/google/go-cmp/cmp"
)

var (
	day1 = types.MustParseDate("2024-06-10")
	day2 = types.MustParseDate("2024-06-11")
)

func TestToggle(t *testing.T) {
	l := NewCompletionLog()

	if l.IsCompleted("h1", day1) {
		t.Fatal("absent entry must read as not completed")
	}
	if !l.Toggle("h1", day1) {
		t.Error("first toggle should complete")
	}
	if !l.IsCompleted("h1", day1) {
		t.Error("expected completed after toggle")
	}
	if l.Toggle("h1", day1) {
		t.Error("second toggle should un-complete")
	}
	if l.IsCompleted("h1", day1) {
		t.Error("toggle twice must restore the original state")
	}
	if !l.HasEntries("h1") {
		t.Error("explicit false entry should still be recorded")
	}
	if l.IsCompleted("h1", day2) || l.IsCompleted("h2", day1) {
		t.Error("toggle leaked into other keys")
	}
}

func TestPurge(t *testing.T) {
	l := NewCompletionLog()
	l.Toggle("h1", day1)
	l.Toggle("h1", day2)
	l.Toggle("h2", day2)

	if n := l.Purge("h1"); n != 2 {
		t.Errorf("expected 2 entries purged, got %d", n)
	}
	if l.HasEntries("h1") {
		t.Error("h1 entries remain after purge")
	}
	if !l.IsCompleted("h2", day2) {
		t.Error("purge removed another habit's entry")
	}
	if diff := cmp.Diff([]types.Date{day2}, l.Dates()); diff != "" {
		t.Errorf("empty day not dropped (-want +got):\n%s", diff)
	}
	if n := l.Purge("h1"); n != 0 {
		t.Errorf("second purge removed %d entries", n)
	}
}

func TestReconcile(t *testing.T) {
	l := NewCompletionLogFrom(types.Completions{
		day1: {"h1": true, "ghost": true},
		day2: {"ghost": false},
	})
	known := map[types.HabitID]bool{"h1": true}

	removed := l.Reconcile(func(id types.HabitID) bool { return known[id] })
	if removed != 2 {
		t.Errorf("expected 2 orphaned entries removed, got %d", removed)
	}
	want := types.Completions{day1: {"h1": true}}
	if diff := cmp.Diff(want, l.Snapshot()); diff != "" {
		t.Errorf("unexpected log (-want +got):\n%s", diff)
	}
}

func TestCompletionLogCopies(t *testing.T) {
	src := types.Completions{day1: {"h1": true}, day2: nil}
	l := NewCompletionLogFrom(src)
	src[day1]["h1"] = false

	if !l.IsCompleted("h1", day1) {
		t.Error("log shares storage with its source")
	}
	if len(l.Dates()) != 1 {
		t.Errorf("nil day bucket should be dropped, dates: %v", l.Dates())
	}

	snap := l.Snapshot()
	snap[day1]["h1"] = false
	if !l.IsCompleted("h1", day1) {
		t.Error("snapshot shares storage with the log")
	}
}

func TestDatesSorted(t *testing.T) {
	l := NewCompletionLog()
	for _, s := range []string{"2024-06-11", "2023-12-31", "2024-01-05"} {
		l.Toggle("h1", types.MustParseDate(s))
	}
	var got []string
	for _, d := range l.Dates() {
		got = append(got, d.String())
	}
	want := []string{"2023-12-31", "2024-01-05", "2024-06-11"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dates not sorted (-want +got):\n%s", diff)
	}
}
