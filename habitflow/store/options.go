package store

import "time"

// JSONFileStoreOption is a function that modifies JSONFileStore configuration
type JSONFileStoreOption func(*jsonFileStore)

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) JSONFileStoreOption {
	return func(s *jsonFileStore) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) JSONFileStoreOption {
	return func(s *jsonFileStore) {
		s.lockFactory = factory
	}
}

// WithTimeFunc sets the clock used for metadata timestamps
func WithTimeFunc(fn func() time.Time) JSONFileStoreOption {
	return func(s *jsonFileStore) {
		s.timeFunc = fn
	}
}

// WithLockTimeout bounds how long Load and Save wait for the file lock
func WithLockTimeout(d time.Duration) JSONFileStoreOption {
	return func(s *jsonFileStore) {
		s.lockTimeout = d
	}
}
