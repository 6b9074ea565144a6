package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/habitflow/habitflow/storage"
	"github.com/arthur-debert/habitflow/types"
)

// Constants for file locking
const (
	defaultLockTimeout = 3 * time.Second
	lockMaxRetries     = 3
	lockRetryDelay     = 100 * time.Millisecond
)

const corruptSuffixLayout = "20060102T150405"

// jsonFileStore implements Store using a single JSON file
type jsonFileStore struct {
	filePath    string
	lockManager *storage.LockManager

	fs          FileSystem
	lockFactory FileLockFactory
	fileLock    FileLock // cross-process
	lockTimeout time.Duration

	timeFunc func() time.Time
}

func newJSONFileStore(filePath string, opts ...JSONFileStoreOption) *jsonFileStore {
	s := &jsonFileStore{
		filePath:    filePath,
		lockManager: storage.NewLockManager(),
		lockTimeout: defaultLockTimeout,
		timeFunc:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.fs == nil {
		s.fs = OSFileSystem{}
	}
	if s.lockFactory == nil {
		s.lockFactory = FlockFactory{}
	}
	s.fileLock = s.lockFactory.New(s.lockPath())

	return s
}

func (s *jsonFileStore) lockPath() string {
	return s.filePath + ".lock"
}

// Path returns the data file path
func (s *jsonFileStore) Path() string {
	return s.filePath
}

// acquireLock attempts to acquire an exclusive file lock with retry logic
func (s *jsonFileStore) acquireLock(ctx context.Context) error {
	for i := 0; i < lockMaxRetries; i++ {
		locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return fmt.Errorf("failed to acquire lock: %w", err)
		}
		if locked {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	return fmt.Errorf("failed to acquire lock after %d attempts", lockMaxRetries)
}

// withFileLock runs fn while holding the cross-process lock. The lock file
// sits next to the data file, so the directory is created first.
func (s *jsonFileStore) withFileLock(fn func() error) error {
	if dir := filepath.Dir(s.filePath); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return &types.StorageError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	if err := s.acquireLock(ctx); err != nil {
		return err
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

// Load reads the JSON file. A missing or empty file is a fresh start. An
// unparsable file is renamed out of the way and reported with a
// *CorruptFileError inside the storage error.
func (s *jsonFileStore) Load() (*storage.StoreData, error) {
	var data *storage.StoreData
	err := s.lockManager.Execute(storage.WriteOperation, func() error {
		return s.withFileLock(func() error {
			var err error
			data, err = s.load()
			return err
		})
	})

	if err != nil {
		var storageErr *types.StorageError
		if !errors.As(err, &storageErr) {
			err = &types.StorageError{Op: "load", Path: s.filePath, Err: err}
		}
		return storage.NewStoreData(s.timeFunc()), err
	}
	return data, nil
}

// load reads the file; caller holds the locks
func (s *jsonFileStore) load() (*storage.StoreData, error) {
	if _, err := s.fs.Stat(s.filePath); errors.Is(err, os.ErrNotExist) {
		return storage.NewStoreData(s.timeFunc()), nil
	}

	raw, err := s.fs.ReadFile(s.filePath)
	if err != nil {
		return nil, &types.StorageError{Op: "read", Path: s.filePath, Err: err}
	}

	data, err := decode(raw, s.timeFunc())
	if err != nil {
		return nil, &types.StorageError{Op: "parse", Path: s.filePath, Err: s.moveAside(err)}
	}
	return data, nil
}

// moveAside renames an unparsable data file so the next save cannot
// overwrite it. When the rename fails the parse error is returned as is.
func (s *jsonFileStore) moveAside(parseErr error) error {
	backup := fmt.Sprintf("%s.corrupt-%s", s.filePath, s.timeFunc().Format(corruptSuffixLayout))
	if err := s.fs.Rename(s.filePath, backup); err != nil {
		return fmt.Errorf("%w (could not move it aside: %v)", parseErr, err)
	}
	return &CorruptFileError{Backup: backup, Err: parseErr}
}

// Save writes data to the file atomically (temp file, then rename)
func (s *jsonFileStore) Save(data *storage.StoreData) error {
	err := s.lockManager.Execute(storage.WriteOperation, func() error {
		return s.withFileLock(func() error {
			return s.save(data)
		})
	})
	if err != nil {
		var storageErr *types.StorageError
		if !errors.As(err, &storageErr) {
			err = &types.StorageError{Op: "save", Path: s.filePath, Err: err}
		}
		return err
	}
	return nil
}

// save writes the file; caller holds the locks
func (s *jsonFileStore) save(data *storage.StoreData) error {
	stampMetadata(data, s.timeFunc())

	encoded, err := encode(data)
	if err != nil {
		return &types.StorageError{Op: "encode", Path: s.filePath, Err: err}
	}

	tmpFile := s.filePath + ".tmp"
	if err := s.fs.WriteFile(tmpFile, encoded, 0644); err != nil {
		return &types.StorageError{Op: "write", Path: tmpFile, Err: err}
	}

	if err := s.fs.Rename(tmpFile, s.filePath); err != nil {
		_ = s.fs.Remove(tmpFile)
		return &types.StorageError{Op: "rename", Path: s.filePath, Err: err}
	}

	return nil
}

// Clear deletes the data file
func (s *jsonFileStore) Clear() error {
	return s.lockManager.Execute(storage.WriteOperation, func() error {
		return s.withFileLock(func() error {
			if err := s.fs.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
				return &types.StorageError{Op: "clear", Path: s.filePath, Err: err}
			}
			return nil
		})
	})
}

// Close removes the lock file. Data is already saved by every Save.
func (s *jsonFileStore) Close() error {
	return s.lockManager.Execute(storage.WriteOperation, func() error {
		_ = s.fs.Remove(s.lockPath())
		return nil
	})
}

func stampMetadata(data *storage.StoreData, now time.Time) {
	if data.Metadata.CreatedAt.IsZero() {
		data.Metadata.CreatedAt = now
	}
	if data.Metadata.Version == "" {
		data.Metadata.Version = storage.FormatVersion
	}
	data.Metadata.UpdatedAt = now
}

func encode(data *storage.StoreData) ([]byte, error) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return encoded, nil
}

// decode parses a saved file. Empty input yields fresh data.
func decode(raw []byte, now time.Time) (*storage.StoreData, error) {
	if len(raw) == 0 {
		return storage.NewStoreData(now), nil
	}

	var data storage.StoreData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	data.Normalize()
	return &data, nil
}
