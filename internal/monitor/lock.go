package monitor

import (
	"os"
	"path/filepath"

	"go-jobwatch/internal/errors"

	"github.com/gofrs/flock"
)

// ErrLocked means another run still holds the lock file.
var ErrLocked = errors.New("another run is in progress")

// RunLock keeps overlapping scheduled runs from reading the same state and
// notifying twice. The zero value (no path configured) locks nothing.
type RunLock struct {
	fl *flock.Flock
}

// AcquireLock takes the lock at path without waiting.
func AcquireLock(path string) (*RunLock, error) {
	if path == "" {
		return &RunLock{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, "create lock directory for %s", path)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "lock %s", path)
	}
	if !ok {
		return nil, errors.WithHintf(ErrLocked, "lock file %s is held", path)
	}
	return &RunLock{fl: fl}, nil
}

func (l *RunLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
