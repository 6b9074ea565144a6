package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/habitflow/types"
)

func TestJSONStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "habits.json")

	s := New(path)
	if err := s.Save(sampleData()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Error("lock file should be removed on close")
	}

	reopened := New(path)
	defer func() { _ = reopened.Close() }()

	data, err := reopened.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(data.Habits) != 1 || data.Habits[0].ID != "h1" {
		t.Fatalf("unexpected habits: %+v", data.Habits)
	}
	if !data.Completions[types.MustParseDate("2024-06-11")]["h1"] {
		t.Error("completion lost across reopen")
	}
}

func TestJSONStoreReadsBrowserShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.json")
	raw := `{
  "habits": [{"id": 1718000000000, "name": "Exercise", "description": "", "category": "fitness",
              "color": "bg-red-500", "icon": "Activity", "targetDays": 5, "createdAt": "2024-06-10T08:00:00.000Z"}],
  "completions": {"2024-06-11": {"1718000000000": true, "42": false}}
}`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := New(path).Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if data.Habits[0].ID != "1718000000000" || data.Habits[0].TargetDays != 5 {
		t.Errorf("unexpected habit: %+v", data.Habits[0])
	}
	if !data.Completions[types.MustParseDate("2024-06-11")]["1718000000000"] {
		t.Error("expected completion for numeric id")
	}
	if data.Metadata.Version == "" {
		t.Error("version should be filled in for files without metadata")
	}
}
