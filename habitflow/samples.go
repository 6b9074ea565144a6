package habitflow

import "github.com/arthur-debert/habitflow/types"

// SampleHabits are the starter habits offered to a new user.
func SampleHabits() []types.HabitDraft {
	return []types.HabitDraft{
		{
			Name:        "Morning Meditation",
			Description: "Start the day with mindfulness",
			Category:    types.CategoryWellness,
			Color:       "bg-blue-500",
			Icon:        "Brain",
			TargetDays:  7,
		},
		{
			Name:        "Read for 30 minutes",
			Description: "Daily reading habit",
			Category:    types.CategoryLearning,
			Color:       "bg-green-500",
			Icon:        "Book",
			TargetDays:  7,
		},
		{
			Name:        "Exercise",
			Description: "Stay active and healthy",
			Category:    types.CategoryFitness,
			Color:       "bg-red-500",
			Icon:        "Activity",
			TargetDays:  5,
		},
	}
}
