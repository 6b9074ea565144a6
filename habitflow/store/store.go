// Package store persists the tracker's state. The JSON file backend keeps
// the whole state in one file, written atomically under a cross-process
// lock; the memory backend keeps it only for the life of the process.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/arthur-debert/habitflow/habitflow/storage"
)

// Store loads and saves the complete tracker state as a single unit.
type Store interface {
	// Load returns the persisted state. It never returns nil data: when the
	// backend is missing, empty or unreadable it returns empty defaults, and
	// in the unreadable case also a *types.StorageError describing why.
	Load() (*storage.StoreData, error)

	// Save replaces the persisted state with data.
	Save(data *storage.StoreData) error

	// Clear removes all persisted state.
	Clear() error

	// Path describes where the state lives, for messages.
	Path() string

	// Close releases any resources held by the store
	Close() error
}

// CorruptFileError reports a data file that could not be parsed. The file
// was renamed to Backup, so a fresh save at the original path loses nothing.
type CorruptFileError struct {
	Backup string
	Err    error
}

func (e *CorruptFileError) Error() string {
	return fmt.Sprintf("%v (moved to %s)", e.Err, e.Backup)
}

func (e *CorruptFileError) Unwrap() error {
	return e.Err
}

// New creates a JSON file store at filePath.
func New(filePath string, opts ...JSONFileStoreOption) Store {
	return newJSONFileStore(filePath, opts...)
}

// memoryStore keeps a deep copy of the last saved state.
type memoryStore struct {
	mu       sync.Mutex
	data     []byte
	timeFunc func() time.Time
}

// NewMemory creates a store that persists nothing beyond the process.
func NewMemory() Store {
	return &memoryStore{timeFunc: time.Now}
}

func (m *memoryStore) Load() (*storage.StoreData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return storage.NewStoreData(m.timeFunc()), nil
	}
	return decode(m.data, m.timeFunc())
}

func (m *memoryStore) Save(data *storage.StoreData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stampMetadata(data, m.timeFunc())
	encoded, err := encode(data)
	if err != nil {
		return err
	}
	m.data = encoded
	return nil
}

func (m *memoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

func (m *memoryStore) Path() string { return ":memory:" }

func (m *memoryStore) Close() error { return nil }
