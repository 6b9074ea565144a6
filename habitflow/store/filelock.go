package store

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

// FileLock is a cross-process exclusive lock on a file path.
type FileLock interface {
	// TryLockContext attempts to acquire the lock, retrying every
	// retryInterval until ctx is done.
	TryLockContext(ctx context.Context, retryInterval time.Duration) (bool, error)
	Unlock() error
}

// FileLockFactory creates FileLock instances
type FileLockFactory interface {
	New(path string) FileLock
}

// FlockFactory creates locks backed by github.com/gofrs/flock.
type FlockFactory struct{}

// New implements FileLockFactory.New. *flock.Flock already satisfies FileLock.
func (FlockFactory) New(path string) FileLock {
	return flock.New(path)
}
