package habitflow

import (
	"time"

	"github.com/arthur-debert/habitflow/internal/validation"
	"github.com/arthur-debert/habitflow/types"
	"github.com/google/uuid"
)

// Registry holds habit definitions in insertion order. It is not safe for
// concurrent use; Tracker serialises access to it.
type Registry struct {
	habits []types.Habit
	index  map[types.HabitID]int

	newID func() types.HabitID
	now   func() time.Time
}

// NewRegistry creates an empty registry that assigns random UUIDs.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[types.HabitID]int),
		newID: newUUID,
		now:   time.Now,
	}
}

// NewRegistryFrom creates a registry holding habits, in order. Later
// duplicates of an id are dropped.
func NewRegistryFrom(habits []types.Habit) *Registry {
	r := NewRegistry()
	for _, h := range habits {
		if _, dup := r.index[h.ID]; dup {
			continue
		}
		r.index[h.ID] = len(r.habits)
		r.habits = append(r.habits, h)
	}
	return r
}

func newUUID() types.HabitID {
	return types.HabitID(uuid.New().String())
}

// Add validates the draft, assigns an id and creation time and appends the
// habit. Names need not be unique.
func (r *Registry) Add(draft types.HabitDraft) (types.Habit, error) {
	draft = draft.WithDefaults()
	if err := validation.ValidateDraft(draft); err != nil {
		return types.Habit{}, err
	}

	id := r.newID()
	for r.Contains(id) {
		id = r.newID()
	}

	h := types.Habit{
		ID:          id,
		Name:        draft.Name,
		Description: draft.Description,
		Category:    draft.Category,
		Color:       draft.Color,
		Icon:        draft.Icon,
		TargetDays:  draft.TargetDays,
		CreatedAt:   r.now(),
	}
	r.index[id] = len(r.habits)
	r.habits = append(r.habits, h)
	return h, nil
}

// Update merges the set fields of u into the habit. An unknown id is a
// NotFoundError and leaves the registry unchanged.
func (r *Registry) Update(id types.HabitID, u types.HabitUpdate) (types.Habit, error) {
	i, ok := r.index[id]
	if !ok {
		return types.Habit{}, &types.NotFoundError{Op: "update", ID: id}
	}
	if err := validation.ValidateUpdate(u); err != nil {
		return types.Habit{}, err
	}
	u.Apply(&r.habits[i])
	return r.habits[i], nil
}

// Delete removes the habit. Completion entries are the caller's to purge.
func (r *Registry) Delete(id types.HabitID) error {
	i, ok := r.index[id]
	if !ok {
		return &types.NotFoundError{Op: "delete", ID: id}
	}

	r.habits = append(r.habits[:i], r.habits[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.habits); j++ {
		r.index[r.habits[j].ID] = j
	}
	return nil
}

// Get returns the habit with the given id.
func (r *Registry) Get(id types.HabitID) (types.Habit, bool) {
	i, ok := r.index[id]
	if !ok {
		return types.Habit{}, false
	}
	return r.habits[i], true
}

// Contains reports whether a habit with the given id is registered.
func (r *Registry) Contains(id types.HabitID) bool {
	_, ok := r.index[id]
	return ok
}

// List returns a copy of all habits in insertion order.
func (r *Registry) List() []types.Habit {
	out := make([]types.Habit, len(r.habits))
	copy(out, r.habits)
	return out
}

// Len returns the number of registered habits.
func (r *Registry) Len() int {
	return len(r.habits)
}
