package habitflow

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthur-debert/habitflow/habitflow/export"
	"github.com/arthur-debert/habitflow/habitflow/imports"
	"github.com/arthur-debert/habitflow/habitflow/stats"
	"github.com/arthur-debert/habitflow/habitflow/storage"
	"github.com/arthur-debert/habitflow/habitflow/store"
	"github.com/arthur-debert/habitflow/internal/validation"
	"github.com/arthur-debert/habitflow/types"
)

// ErrStateNotLoaded is reported in place of a save while the stored state
// could not be read and is still in place on disk.
var ErrStateNotLoaded = errors.New("stored state was not loaded, refusing to overwrite it")

// Tracker is the single owner of the habit registry and the completion
// log. Every mutation is followed by a save of the full state; a failed
// save is logged and reported by Degraded but does not undo the change.
type Tracker struct {
	lm       *storage.LockManager
	store    store.Store
	registry *Registry
	log      *CompletionLog

	createdAt time.Time
	degraded  error
	loadErr   error

	clock     func() time.Time
	newID     func() types.HabitID
	weekStart time.Weekday
	logger    *slog.Logger
}

// Open loads the tracker state stored at path. When the stored state
// cannot be read the tracker starts empty and Degraded reports why. An
// unparsable file has been moved aside by the store, so saving goes on as
// usual. Any other load failure leaves the file in place and the tracker
// never writes to it; see LoadError.
func Open(path string, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		lm:        storage.NewLockManager(),
		clock:     time.Now,
		newID:     newUUID,
		weekStart: stats.DefaultWeekStart,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.store == nil {
		if path == "" {
			return nil, fmt.Errorf("store path cannot be empty")
		}
		t.store = store.New(path, store.WithTimeFunc(t.clock))
	}

	data, err := t.store.Load()
	if err != nil {
		if !errors.Is(err, types.ErrStorage) {
			return nil, fmt.Errorf("failed to load store: %w", err)
		}
		t.degraded = err

		var corrupt *store.CorruptFileError
		if errors.As(err, &corrupt) {
			t.logger.Warn("starting with empty state", "path", t.store.Path(), "backup", corrupt.Backup, "error", err)
		} else {
			t.loadErr = err
			t.logger.Warn("starting with empty state, saving disabled", "path", t.store.Path(), "error", err)
		}
	}

	t.createdAt = data.Metadata.CreatedAt
	t.registry = t.newRegistry(data.Habits)
	t.log = NewCompletionLogFrom(data.Completions)

	t.logger.Debug("tracker opened",
		"path", t.store.Path(),
		"habits", t.registry.Len(),
		"days", len(data.Completions))
	return t, nil
}

func (t *Tracker) newRegistry(habits []types.Habit) *Registry {
	r := NewRegistryFrom(habits)
	r.newID = t.newID
	r.now = t.clock
	return r
}

// persist saves the current state; caller holds the write lock
func (t *Tracker) persist(op string) {
	if t.notLoaded(op) {
		return
	}

	data := &storage.StoreData{
		Habits:      t.registry.List(),
		Completions: t.log.Snapshot(),
		Metadata: storage.Metadata{
			Version:   storage.FormatVersion,
			CreatedAt: t.createdAt,
		},
	}

	if err := t.store.Save(data); err != nil {
		t.logger.Warn("failed to persist state", "op", op, "path", t.store.Path(), "error", err)
		t.degraded = err
		return
	}
	t.createdAt = data.Metadata.CreatedAt
	t.degraded = nil
}

// notLoaded records a refused write when the stored state was never read.
func (t *Tracker) notLoaded(op string) bool {
	if t.loadErr == nil {
		return false
	}
	t.logger.Warn("not saving over unread state", "op", op, "path", t.store.Path())
	t.degraded = &types.StorageError{
		Op:   op,
		Path: t.store.Path(),
		Err:  fmt.Errorf("%w: %v", ErrStateNotLoaded, t.loadErr),
	}
	return true
}

// Save writes the current state even when nothing changed and returns the
// storage error, if any.
func (t *Tracker) Save() error {
	return t.lm.Execute(storage.WriteOperation, func() error {
		t.persist("save")
		return t.degraded
	})
}

// Degraded returns the last persistence failure, or nil when the most
// recent load or save succeeded.
func (t *Tracker) Degraded() error {
	var degraded error
	_ = t.lm.Execute(storage.ReadOperation, func() error {
		degraded = t.degraded
		return nil
	})
	return degraded
}

// LoadError returns the load failure that keeps the tracker from writing
// to its store, or nil when saving is allowed.
func (t *Tracker) LoadError() error {
	return t.loadErr
}

// Today returns the current calendar day in the clock's location.
func (t *Tracker) Today() types.Date {
	return types.DateOf(t.clock())
}

// WeekStart returns the first day of the week used for weekly progress.
func (t *Tracker) WeekStart() time.Weekday {
	return t.weekStart
}

// StorePath describes where the state is persisted.
func (t *Tracker) StorePath() string {
	return t.store.Path()
}

// AddHabit validates the draft and registers a new habit.
func (t *Tracker) AddHabit(draft types.HabitDraft) (types.Habit, error) {
	return storage.ExecuteWithResult(t.lm, storage.WriteOperation, func() (types.Habit, error) {
		h, err := t.registry.Add(draft)
		if err != nil {
			return types.Habit{}, err
		}
		t.logger.Info("habit added", "id", h.ID, "name", h.Name)
		t.persist("add")
		return h, nil
	})
}

// UpdateHabit merges the set fields of u into an existing habit.
func (t *Tracker) UpdateHabit(id types.HabitID, u types.HabitUpdate) (types.Habit, error) {
	return storage.ExecuteWithResult(t.lm, storage.WriteOperation, func() (types.Habit, error) {
		h, err := t.registry.Update(id, u)
		if err != nil {
			return types.Habit{}, err
		}
		t.logger.Info("habit updated", "id", h.ID)
		t.persist("update")
		return h, nil
	})
}

// DeleteHabit removes a habit and every completion entry recorded for it.
func (t *Tracker) DeleteHabit(id types.HabitID) error {
	return t.lm.Execute(storage.WriteOperation, func() error {
		if err := t.registry.Delete(id); err != nil {
			return err
		}
		purged := t.log.Purge(id)
		t.logger.Info("habit deleted", "id", id, "purged", purged)
		t.persist("delete")
		return nil
	})
}

// Habits returns all habits in insertion order.
func (t *Tracker) Habits() []types.Habit {
	habits, _ := storage.ExecuteWithResult(t.lm, storage.ReadOperation, func() ([]types.Habit, error) {
		return t.registry.List(), nil
	})
	return habits
}

// Habit returns one habit by id.
func (t *Tracker) Habit(id types.HabitID) (types.Habit, error) {
	return storage.ExecuteWithResult(t.lm, storage.ReadOperation, func() (types.Habit, error) {
		h, ok := t.registry.Get(id)
		if !ok {
			return types.Habit{}, &types.NotFoundError{Op: "get", ID: id}
		}
		return h, nil
	})
}

// Toggle flips the completion of a registered habit on date and returns
// the new state. Any date is allowed, past or future.
func (t *Tracker) Toggle(id types.HabitID, date types.Date) (bool, error) {
	return storage.ExecuteWithResult(t.lm, storage.WriteOperation, func() (bool, error) {
		if !t.registry.Contains(id) {
			return false, &types.NotFoundError{Op: "toggle", ID: id}
		}
		done := t.log.Toggle(id, date)
		t.logger.Info("completion toggled", "id", id, "date", date.String(), "completed", done)
		t.persist("toggle")
		return done, nil
	})
}

// IsCompleted reports whether the habit was completed on date.
func (t *Tracker) IsCompleted(id types.HabitID, date types.Date) bool {
	done, _ := storage.ExecuteWithResult(t.lm, storage.ReadOperation, func() (bool, error) {
		return t.log.IsCompleted(id, date), nil
	})
	return done
}

// Stats returns a statistics engine over a copy of the current state.
// Later changes to the tracker are not visible through it.
func (t *Tracker) Stats() *stats.Engine {
	engine, _ := storage.ExecuteWithResult(t.lm, storage.ReadOperation, func() (*stats.Engine, error) {
		habits := NewRegistryFrom(t.registry.List())
		log := NewCompletionLogFrom(t.log.Snapshot())
		return stats.NewEngine(habits, log, stats.WithWeekStart(t.weekStart)), nil
	})
	return engine
}

// Summary computes the full statistics view as of today.
func (t *Tracker) Summary(windowDays int) stats.Summary {
	return t.Stats().Summary(t.Today(), windowDays)
}

// ExportSnapshot returns a copy of the full state stamped with the
// current time.
func (t *Tracker) ExportSnapshot() export.Snapshot {
	snap, _ := storage.ExecuteWithResult(t.lm, storage.ReadOperation, func() (export.Snapshot, error) {
		return export.New(t.registry.List(), t.log.Snapshot(), t.clock()), nil
	})
	return snap
}

// ImportSnapshot replaces the whole state with snap. Nothing changes when
// snap is rejected. Completion entries for habits not in snap are dropped.
func (t *Tracker) ImportSnapshot(snap *export.Snapshot) (imports.Result, error) {
	if snap == nil || snap.Habits == nil || snap.Completions == nil {
		return imports.Result{}, &types.ValidationError{Reason: "invalid backup file format"}
	}

	return storage.ExecuteWithResult(t.lm, storage.WriteOperation, func() (imports.Result, error) {
		registry := t.newRegistry(snap.Habits)
		log := NewCompletionLogFrom(snap.Completions)

		result := imports.Result{
			Habits:       registry.Len(),
			DuplicateIDs: len(snap.Habits) - registry.Len(),
			Orphaned:     log.Reconcile(registry.Contains),
		}
		for _, h := range registry.List() {
			if err := validation.ValidateHabit(h); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("habit %s: %v", h.ID, err))
			}
		}
		for _, h := range registry.List() {
			result.Completions += countCompleted(log, h.ID)
		}

		t.registry = registry
		t.log = log
		t.logger.Info("snapshot imported",
			"habits", result.Habits,
			"completions", result.Completions,
			"orphaned", result.Orphaned)
		t.persist("import")
		return result, nil
	})
}

func countCompleted(log *CompletionLog, id types.HabitID) int {
	n := 0
	for _, d := range log.Dates() {
		if log.IsCompleted(id, d) {
			n++
		}
	}
	return n
}

// Clear removes every habit and completion and deletes the stored state.
func (t *Tracker) Clear() {
	_ = t.lm.Execute(storage.WriteOperation, func() error {
		t.registry = t.newRegistry(nil)
		t.log = NewCompletionLog()
		t.createdAt = time.Time{}
		if t.notLoaded("clear") {
			return nil
		}

		if err := t.store.Clear(); err != nil {
			t.logger.Warn("failed to clear stored state", "path", t.store.Path(), "error", err)
			var storageErr *types.StorageError
			if !errors.As(err, &storageErr) {
				err = &types.StorageError{Op: "clear", Path: t.store.Path(), Err: err}
			}
			t.degraded = err
			return nil
		}
		t.logger.Info("all data cleared", "path", t.store.Path())
		t.degraded = nil
		return nil
	})
}

// SeedSamples adds the starter habits and returns them as registered.
func (t *Tracker) SeedSamples() ([]types.Habit, error) {
	return storage.ExecuteWithResult(t.lm, storage.WriteOperation, func() ([]types.Habit, error) {
		added := make([]types.Habit, 0, len(SampleHabits()))
		for _, draft := range SampleHabits() {
			h, err := t.registry.Add(draft)
			if err != nil {
				return added, fmt.Errorf("failed to add sample %q: %w", draft.Name, err)
			}
			added = append(added, h)
		}
		t.logger.Info("sample habits added", "count", len(added))
		t.persist("seed")
		return added, nil
	})
}

// Close releases the store.
func (t *Tracker) Close() error {
	return t.store.Close()
}
