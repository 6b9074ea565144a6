// Package imports reads backup snapshots and validates their shape before
// they are allowed to replace the tracker state.
package imports

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/habitflow/habitflow/export"
	"github.com/arthur-debert/habitflow/types"
)

// invalidFormat is the reason given when a backup lacks a required field.
const invalidFormat = "invalid backup file format"

// envelope keeps the raw top-level fields so that absent and null can be
// told apart from empty.
type envelope struct {
	Habits      json.RawMessage `json:"habits"`
	Completions json.RawMessage `json:"completions"`
	ExportDate  json.RawMessage `json:"exportDate"`
}

// Parse decodes a backup. Both habits and completions must be present and
// non-null; nothing deeper than their JSON types is checked.
func Parse(r io.Reader) (*export.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &types.ValidationError{Reason: invalidFormat, Err: err}
	}
	if isMissing(env.Habits) {
		return nil, &types.ValidationError{Reason: invalidFormat, Err: errors.New("missing habits")}
	}
	if isMissing(env.Completions) {
		return nil, &types.ValidationError{Reason: invalidFormat, Err: errors.New("missing completions")}
	}

	snap := &export.Snapshot{}
	if err := json.Unmarshal(env.Habits, &snap.Habits); err != nil {
		return nil, &types.ValidationError{Reason: invalidFormat, Err: fmt.Errorf("habits: %w", err)}
	}
	if err := json.Unmarshal(env.Completions, &snap.Completions); err != nil {
		return nil, &types.ValidationError{Reason: invalidFormat, Err: fmt.Errorf("completions: %w", err)}
	}
	if !isMissing(env.ExportDate) {
		// exportDate is informational; a malformed one is ignored
		_ = json.Unmarshal(env.ExportDate, &snap.ExportDate)
	}
	return snap, nil
}

// ParseFile opens path and parses it as a backup.
func ParseFile(path string) (*export.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

func isMissing(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
