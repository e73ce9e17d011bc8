package filesystem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/example/sprintboard/internal/core/ticket"
	"github.com/example/sprintboard/internal/ports/secondary"
)

const lockRetryDelay = 50 * time.Millisecond

// FileLock implements secondary.SaveLocker with an advisory lock file next to the ticket file.
type FileLock struct {
	path    string
	timeout time.Duration
}

// NewFileLock creates a lock on path. A zero timeout waits until ctx is done.
func NewFileLock(path string, timeout time.Duration) *FileLock {
	return &FileLock{path: path, timeout: timeout}
}

// Lock acquires the exclusive lock.
func (l *FileLock) Lock(ctx context.Context) (func() error, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	lock := flock.New(l.path)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if errors.Is(err, context.DeadlineExceeded) || (err == nil && !locked) {
		return nil, fmt.Errorf("%w: %s", ticket.ErrLockTimeout, l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring save lock: %w", err)
	}

	return lock.Unlock, nil
}

// Ensure FileLock implements the interface
var _ secondary.SaveLocker = (*FileLock)(nil)
