// Package search finds habits by text and resolves the loose habit
// references typed on the command line.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/habitflow/types"
)

// Engine searches the habits of a provider
type Engine struct {
	provider HabitProvider
}

// NewEngine creates a new search engine with the given habit provider
func NewEngine(provider HabitProvider) *Engine {
	return &Engine{provider: provider}
}

// Search returns matching habits, best first. Equal scores keep the
// provider's order.
func (e *Engine) Search(options Options) []Result {
	if strings.TrimSpace(options.Query) == "" {
		return []Result{}
	}

	fields := options.Fields
	if len(fields) == 0 {
		fields = []Field{FieldName, FieldDescription, FieldCategory}
	}

	results := []Result{}
	for _, h := range e.provider.Habits() {
		if r, ok := matchHabit(h, fields, options); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if options.MaxResults > 0 && len(results) > options.MaxResults {
		results = results[:options.MaxResults]
	}
	return results
}

func matchHabit(h types.Habit, fields []Field, options Options) (Result, bool) {
	result := Result{Habit: h}
	for _, field := range fields {
		value, ok := fieldValue(h, field)
		if !ok {
			continue
		}
		score, matchType, ok := matchField(value, field, options)
		if !ok {
			continue
		}
		result.MatchedFields = append(result.MatchedFields, field)
		if score > result.Score {
			result.Score = score
			result.MatchType = matchType
		}
	}
	return result, len(result.MatchedFields) > 0
}

func fieldValue(h types.Habit, field Field) (string, bool) {
	switch field {
	case FieldName:
		return h.Name, true
	case FieldDescription:
		return h.Description, true
	case FieldCategory:
		return string(h.Category), true
	}
	return "", false
}

func matchField(value string, field Field, options Options) (float64, MatchType, bool) {
	text, query := value, strings.TrimSpace(options.Query)
	if !options.CaseSensitive {
		text, query = strings.ToLower(text), strings.ToLower(query)
	}

	matchType := MatchPartialName
	switch field {
	case FieldDescription:
		matchType = MatchDescription
	case FieldCategory:
		matchType = MatchCategory
	}

	if text == query {
		if field == FieldName {
			matchType = MatchExactName
		}
		return 1.0, matchType, true
	}
	if options.ExactMatch || !strings.Contains(text, query) {
		return 0, "", false
	}
	return calculateScore(text, query, field), matchType, true
}

// calculateScore computes a relevance score for a partial match
func calculateScore(text, query string, field Field) float64 {
	baseScore := 0.5

	if field == FieldName {
		baseScore = 0.7
	}

	if strings.HasPrefix(text, query) {
		baseScore += 0.2
	}

	// Boost if query takes up a large portion of the field
	if coverage := float64(len(query)) / float64(len(text)); coverage > 0.5 {
		baseScore += 0.05
	}

	if baseScore > 0.95 {
		baseScore = 0.95
	}
	return baseScore
}

// Resolve finds the single habit ref refers to. ref may be a full id, a
// name compared without regard to case, or a unique id prefix, tried in
// that order. An
// unknown ref is a *types.NotFoundError; an ambiguous one is a
// *types.ValidationError listing the candidates.
func Resolve(provider HabitProvider, ref string) (types.Habit, error) {
	ref = strings.TrimSpace(ref)
	habits := provider.Habits()

	for _, h := range habits {
		if string(h.ID) == ref {
			return h, nil
		}
	}
	if ref == "" {
		return types.Habit{}, &types.NotFoundError{Op: "resolve", ID: types.HabitID(ref)}
	}

	var byName, byPrefix []types.Habit
	for _, h := range habits {
		if strings.EqualFold(h.Name, ref) {
			byName = append(byName, h)
		}
		if strings.HasPrefix(string(h.ID), ref) {
			byPrefix = append(byPrefix, h)
		}
	}

	for _, candidates := range [][]types.Habit{byName, byPrefix} {
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], nil
		default:
			return types.Habit{}, ambiguous(ref, candidates)
		}
	}
	return types.Habit{}, &types.NotFoundError{Op: "resolve", ID: types.HabitID(ref)}
}

func ambiguous(ref string, candidates []types.Habit) error {
	names := make([]string, 0, len(candidates))
	for _, h := range candidates {
		names = append(names, fmt.Sprintf("%s (%s)", h.Name, h.ID))
	}
	return &types.ValidationError{
		Field:  "habit",
		Reason: fmt.Sprintf("%q matches %d habits: %s", ref, len(candidates), strings.Join(names, ", ")),
	}
}
