// Package export writes backup snapshots of the tracker state.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/habitflow/types"
)

// BackupFilename returns the default file name for a backup taken at t.
func BackupFilename(t time.Time) string {
	return fmt.Sprintf("habitflow-backup-%s.json", types.DateOf(t))
}

// New builds a snapshot from copies of habits and completions.
func New(habits []types.Habit, completions types.Completions, at time.Time) Snapshot {
	snap := Snapshot{
		Habits:      make([]types.Habit, len(habits)),
		Completions: make(types.Completions, len(completions)),
		ExportDate:  at,
	}
	copy(snap.Habits, habits)
	for date, byHabit := range completions {
		inner := make(map[types.HabitID]bool, len(byHabit))
		for id, done := range byHabit {
			inner[id] = done
		}
		snap.Completions[date] = inner
	}
	return snap
}

// Write encodes snap as indented JSON.
func Write(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteFile writes snap to path, creating parent directories. The file is
// written to a temporary name first and renamed into place. It returns the
// number of bytes written.
func WriteFile(path string, snap Snapshot) (int64, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	tempFile := path + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create backup file: %w", err)
	}

	if err := Write(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tempFile)
		return 0, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tempFile)
		return 0, fmt.Errorf("failed to close backup file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return 0, fmt.Errorf("failed to move backup into place: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat backup file: %w", err)
	}
	return info.Size(), nil
}

// Describe summarises snap. Only true entries count as completions.
func Describe(snap Snapshot) Metadata {
	meta := Metadata{
		HabitCount: len(snap.Habits),
		ExportDate: snap.ExportDate,
		Filename:   BackupFilename(snap.ExportDate),
	}
	for _, byHabit := range snap.Completions {
		counted := false
		for _, done := range byHabit {
			if done {
				meta.CompletionCount++
				counted = true
			}
		}
		if counted {
			meta.DayCount++
		}
	}
	return meta
}
