package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/habitflow/types"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // what failed, e.g. "add habit"
	Cause       string   // the underlying cause
	Details     string   // additional technical details
	Suggestions []string // helpful next steps
	Underlying  error
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}

	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}

	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// CommonSuggestions holds suggestions shared by several errors
var CommonSuggestions = struct {
	ListHabits  string
	CheckPerms  string
	CheckStore  string
	DateFormat  string
	Categories  string
	TargetRange string
}{
	ListHabits:  "Run 'habitflow list' to see habit ids",
	CheckPerms:  "Check that the store directory is writable",
	CheckStore:  "Use --store or HABITFLOW_STORE to point at a different file",
	DateFormat:  "Dates use the YYYY-MM-DD format, e.g. 2024-06-12",
	Categories:  "Valid categories: wellness, fitness, learning, productivity, creative",
	TargetRange: "--target must be between 1 and 7",
}

// NewNotFoundError creates an error for a missing habit
func NewNotFoundError(operation, id string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("habit %q not found", id),
		Suggestions: []string{CommonSuggestions.ListHabits},
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewUsageError creates an error for bad command-line input
func NewUsageError(operation, cause string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Suggestions: suggestions,
	}
}

// NewStoreError creates an error for persistence failures
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		errStr := strings.ToLower(details)
		switch {
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access the store"
		case strings.Contains(errStr, "lock"):
			cause = "store is currently locked by another process"
		case strings.Contains(errStr, "parse"):
			cause = "store file is not valid JSON"
		}
	}

	if len(suggestions) == 0 {
		suggestions = []string{CommonSuggestions.CheckPerms, CommonSuggestions.CheckStore}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// WrapError converts an error from the tracker into a CLIError, picking
// suggestions from its class.
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var notFound *types.NotFoundError
	if errors.As(err, &notFound) {
		e := NewNotFoundError(operation, string(notFound.ID))
		e.Underlying = err
		return e
	}

	var validation *types.ValidationError
	if errors.As(err, &validation) {
		if len(suggestions) == 0 {
			suggestions = validationSuggestions(validation.Field)
		}
		return &CLIError{
			Operation:   operation,
			Cause:       validation.Error(),
			Suggestions: suggestions,
			Underlying:  err,
		}
	}

	if errors.Is(err, types.ErrStorage) {
		return NewStoreError(operation, err, suggestions...)
	}

	return &CLIError{
		Operation:   operation,
		Cause:       err.Error(),
		Suggestions: suggestions,
		Underlying:  err,
	}
}

func validationSuggestions(field string) []string {
	switch field {
	case "category":
		return []string{CommonSuggestions.Categories}
	case "targetDays":
		return []string{CommonSuggestions.TargetRange}
	case "name":
		return []string{"Give the habit a non-empty name, e.g. habitflow add \"Drink water\""}
	}
	return nil
}
