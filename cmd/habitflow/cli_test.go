package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/habitflow/habitflow/search"
	"github.com/arthur-debert/habitflow/habitflow/stats"
	"github.com/arthur-debert/habitflow/types"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

var cliNow = time.Date(2024, 6, 12, 9, 30, 0, 0, time.UTC)

type cliEnv struct {
	t     *testing.T
	store string
	dir   string
}

// newCLIEnv isolates HOME, the log directory and config discovery
func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HABITFLOW_CONFIG", "")
	t.Chdir(dir)
	return &cliEnv{t: t, dir: dir, store: filepath.Join(dir, "habits.json")}
}

func (e *cliEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	cli := NewViperCLI()
	cli.clock = func() time.Time { return cliNow }

	var stdout, stderr bytes.Buffer
	root := cli.GetRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--store", e.store, "--no-color"}, args...))

	err := cli.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, stderr, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%v failed: %v\nstderr: %s", args, err, stderr)
	}
	return out
}

func (e *cliEnv) habits() []types.Habit {
	e.t.Helper()
	var habits []types.Habit
	if err := json.Unmarshal([]byte(e.mustRun("list", "--format", "json")), &habits); err != nil {
		e.t.Fatalf("list output is not JSON: %v", err)
	}
	return habits
}

func TestInitWithSamples(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("init", "--samples")
	if !strings.Contains(out, "3 sample habits") {
		t.Errorf("unexpected output: %q", out)
	}

	var names []string
	for _, h := range env.habits() {
		names = append(names, h.Name)
	}
	want := []string{"Morning Meditation", "Read for 30 minutes", "Exercise"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("unexpected habits (-want +got):\n%s", diff)
	}

	out = env.mustRun("init", "--samples")
	if !strings.Contains(out, "samples not added") || len(env.habits()) != 3 {
		t.Errorf("samples must only be added to an empty store: %q", out)
	}
}

func TestInitCreatesStore(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("init")
	if _, err := os.Stat(env.store); err != nil {
		t.Errorf("store file not created: %v", err)
	}
}

func TestAddToggleToday(t *testing.T) {
	env := newCLIEnv(t)

	env.mustRun("add", "Drink water", "--category", "wellness", "--target", "6")
	habits := env.habits()
	if len(habits) != 1 || habits[0].TargetDays != 6 || habits[0].Color != types.DefaultColor {
		t.Fatalf("unexpected habits: %+v", habits)
	}
	id := string(habits[0].ID)

	out := env.mustRun("toggle", id)
	if !strings.Contains(out, "[x] Drink water completed on 2024-06-12") {
		t.Errorf("unexpected toggle output: %q", out)
	}

	out = env.mustRun("today")
	for _, want := range []string{"Today: Wednesday, June 12, 2024", "[x]", "1 of 1 done (100%)", "best streak 1 day"} {
		if !strings.Contains(out, want) {
			t.Errorf("today output missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun("toggle", id, "--date", "2024-06-12")
	if !strings.Contains(out, "not completed") {
		t.Errorf("second toggle should un-complete: %q", out)
	}
}

func TestToggleErrors(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Stretch")

	_, _, err := env.run("toggle", "missing")
	var cliErr *CLIError
	if !errors.As(err, &cliErr) || !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected CLIError wrapping ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "habitflow list") {
		t.Errorf("expected a suggestion to list habits: %v", err)
	}

	id := string(env.habits()[0].ID)
	_, _, err = env.run("toggle", id, "--date", "12/06/2024")
	if err == nil || !strings.Contains(err.Error(), "YYYY-MM-DD") {
		t.Errorf("expected date format error, got %v", err)
	}
}

func TestHabitReferences(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("init", "--samples")
	habits := env.habits()

	out := env.mustRun("toggle", "exercise")
	if !strings.Contains(out, "[x] Exercise completed") {
		t.Errorf("toggle by name failed: %q", out)
	}

	prefix := string(habits[1].ID)[:8]
	env.mustRun("update", prefix, "--target", "5")
	if got := env.habits()[1].TargetDays; got != 5 {
		t.Errorf("update by id prefix not applied, target %d", got)
	}

	if _, _, err := env.run("delete", "Yoga"); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found for unknown name, got %v", err)
	}
}

func TestFind(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("init", "--samples")

	var results []search.Result
	if err := json.Unmarshal([]byte(env.mustRun("find", "read", "--format", "json")), &results); err != nil {
		t.Fatalf("find output is not JSON: %v", err)
	}
	if len(results) != 1 || results[0].Habit.Name != "Read for 30 minutes" {
		t.Errorf("unexpected results: %+v", results)
	}

	out := env.mustRun("find", "fitness", "--field", "category")
	if !strings.Contains(out, "Exercise") || strings.Contains(out, "Meditation") {
		t.Errorf("unexpected table output:\n%s", out)
	}

	out = env.mustRun("find", "yoga")
	if !strings.Contains(out, `No habits match "yoga"`) {
		t.Errorf("unexpected empty output: %q", out)
	}

	if _, _, err := env.run("find", "x", "--field", "color"); err == nil {
		t.Error("expected usage error for unknown field")
	}
}

func TestAddValidation(t *testing.T) {
	env := newCLIEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad category", []string{"add", "Nap", "--category", "sleep"}, "Valid categories"},
		{"target too high", []string{"add", "Run", "--target", "9"}, "between 1 and 7"},
		{"target zero", []string{"add", "Run", "--target", "0"}, "between 1 and 7"},
		{"blank name", []string{"add", "  "}, "non-empty name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.run(tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
	if n := len(env.habits()); n != 0 {
		t.Errorf("rejected habits were stored: %d", n)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Read")
	id := string(env.habits()[0].ID)

	if _, _, err := env.run("update", id); err == nil || !strings.Contains(err.Error(), "nothing to change") {
		t.Errorf("expected usage error for empty update, got %v", err)
	}

	env.mustRun("update", id, "--name", "Read 30 minutes", "--category", "learning")
	h := env.habits()[0]
	if h.Name != "Read 30 minutes" || h.Category != types.CategoryLearning {
		t.Errorf("update not applied: %+v", h)
	}

	env.mustRun("toggle", id)
	out := env.mustRun("delete", id)
	if !strings.Contains(out, `Deleted "Read 30 minutes"`) {
		t.Errorf("unexpected delete output: %q", out)
	}
	if len(env.habits()) != 0 {
		t.Error("habit still listed after delete")
	}

	raw, _ := os.ReadFile(env.store)
	if strings.Contains(string(raw), id) {
		t.Error("completion entries should be purged with the habit")
	}

	if _, _, err := env.run("delete", id); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestStatsJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("init", "--samples")
	id := string(env.habits()[0].ID)
	for _, day := range []string{"2024-06-10", "2024-06-11", "2024-06-12"} {
		env.mustRun("toggle", id, "--date", day)
	}

	var s stats.Summary
	if err := json.Unmarshal([]byte(env.mustRun("stats", "--window", "7", "--format", "json")), &s); err != nil {
		t.Fatalf("stats output is not JSON: %v", err)
	}
	if s.AsOf.String() != "2024-06-12" || len(s.Series) != 7 {
		t.Errorf("unexpected window: %s, %d points", s.AsOf, len(s.Series))
	}
	if s.BestStreak != 3 || s.TotalCompletions != 3 || s.TotalHabits != 3 {
		t.Errorf("unexpected totals: %+v", s)
	}

	if err := json.Unmarshal([]byte(env.mustRun("stats", "--as-of", "2024-06-11", "--format", "json")), &s); err != nil {
		t.Fatal(err)
	}
	if s.BestStreak != 2 || len(s.Series) != stats.DefaultWindowDays {
		t.Errorf("as-of not applied: streak %d, %d points", s.BestStreak, len(s.Series))
	}
}

func TestStatsWindowBounds(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Walk")

	for _, window := range []string{"-1", "1000000000"} {
		_, _, err := env.run("stats", "--window="+window)
		var cliErr *CLIError
		if !errors.As(err, &cliErr) || !strings.Contains(err.Error(), "invalid window") {
			t.Errorf("window %s: expected usage error, got %v", window, err)
		}
	}

	t.Setenv("HABITFLOW_WINDOW", "999999")
	if _, _, err := env.run("stats"); err == nil {
		t.Error("oversized window from the environment should be rejected")
	}
}

func TestStatsTable(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Walk")
	env.mustRun("toggle", string(env.habits()[0].ID))

	out := env.mustRun("stats", "--window", "3")
	for _, want := range []string{"Statistics as of 2024-06-12", "Best streak", "Average weekly rate", "Last 3 days", "2024-06-12"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestExportImport(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("init", "--samples")
	id := string(env.habits()[0].ID)
	env.mustRun("toggle", id)

	out := env.mustRun("export")
	backup := filepath.Join(env.dir, "habitflow-backup-2024-06-12.json")
	if !strings.Contains(out, "Exported 3 habits and 1 completion") {
		t.Errorf("unexpected export output: %q", out)
	}
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("backup not written: %v", err)
	}

	env.mustRun("clear", "--yes")
	if len(env.habits()) != 0 {
		t.Fatal("clear left habits behind")
	}

	out = env.mustRun("import", backup)
	if !strings.Contains(out, "Imported 3 habits and 1 completion") {
		t.Errorf("unexpected import output: %q", out)
	}
	if len(env.habits()) != 3 {
		t.Error("habits not restored")
	}
}

func TestImportRejectsInvalidBackup(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Keep me")
	before, _ := os.ReadFile(env.store)

	bad := filepath.Join(env.dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"habits": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, _, err := env.run("import", bad)
	if !errors.Is(err, types.ErrValidation) || !strings.Contains(err.Error(), "invalid backup file format") {
		t.Fatalf("expected invalid format error, got %v", err)
	}
	after, _ := os.ReadFile(env.store)
	if !bytes.Equal(before, after) {
		t.Error("store changed after rejected import")
	}
}

func TestExportToStdout(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Journal")

	var snap map[string]json.RawMessage
	if err := json.Unmarshal([]byte(env.mustRun("export", "--output", "-")), &snap); err != nil {
		t.Fatalf("stdout export is not JSON: %v", err)
	}
	if _, ok := snap["exportDate"]; !ok {
		t.Errorf("missing exportDate: %v", snap)
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Read")

	_, _, err := env.run("clear")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Errorf("expected confirmation error, got %v", err)
	}
	if len(env.habits()) != 1 {
		t.Error("clear without --yes must not delete anything")
	}
}

func TestListFormats(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add", "Read", "--category", "learning")

	out := env.mustRun("list")
	if !strings.Contains(out, "NAME") || !strings.Contains(out, "learning") || !strings.Contains(out, "now") {
		t.Errorf("unexpected table:\n%s", out)
	}

	var habits []types.Habit
	if err := yaml.Unmarshal([]byte(env.mustRun("list", "--format", "yaml")), &habits); err != nil {
		t.Fatalf("yaml output does not parse: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Read" {
		t.Errorf("unexpected yaml habits: %+v", habits)
	}

	if _, _, err := env.run("list", "--format", "xml"); err == nil {
		t.Error("unknown format should be rejected")
	}
}

func TestCorruptStoreWarns(t *testing.T) {
	env := newCLIEnv(t)
	if err := os.WriteFile(env.store, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := env.run("list")
	if err != nil {
		t.Fatalf("list should still work: %v", err)
	}
	if !strings.Contains(stderr, "starting empty") {
		t.Errorf("expected a warning on stderr, got %q", stderr)
	}
	if !strings.Contains(out, "No habits yet") {
		t.Errorf("unexpected output: %q", out)
	}

	env.mustRun("add", "Fresh start")
	backups, _ := filepath.Glob(env.store + ".corrupt-*")
	if len(backups) != 1 {
		t.Fatalf("expected the broken file to be kept aside, got %v", backups)
	}
	if kept, _ := os.ReadFile(backups[0]); string(kept) != "{broken" {
		t.Errorf("backup lost the original bytes: %q", kept)
	}
	if len(env.habits()) != 1 {
		t.Error("new state should be saved at the original path")
	}
}

func TestConfigFile(t *testing.T) {
	env := newCLIEnv(t)
	configPath := filepath.Join(env.dir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte("week_start: monday\nwindow: 14\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HABITFLOW_CONFIG", configPath)

	var settings map[string]interface{}
	if err := yaml.Unmarshal([]byte(env.mustRun("config")), &settings); err != nil {
		t.Fatalf("config output is not yaml: %v", err)
	}
	if settings["week_start"] != "monday" || settings["_config_file"] != configPath {
		t.Errorf("config file not used: %v", settings)
	}

	var s stats.Summary
	if err := json.Unmarshal([]byte(env.mustRun("stats", "--format", "json")), &s); err != nil {
		t.Fatal(err)
	}
	if len(s.Series) != 14 {
		t.Errorf("window from config not applied, got %d points", len(s.Series))
	}
}

func TestBadWeekStart(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("HABITFLOW_WEEK_START", "someday")

	_, _, err := env.run("today")
	if err == nil || !strings.Contains(err.Error(), "week_start") {
		t.Errorf("expected config error, got %v", err)
	}
}
