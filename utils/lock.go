package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".sperrmuell.lock"

// DirLock is a file-based lock guarding one output directory.
type DirLock struct {
	lock *flock.Flock
	path string
}

// NewDirLock creates a lock for dir. The directory is created if missing.
func NewDirLock(dir string) (*DirLock, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("lock: create dir %q: %w", dir, err)
	}
	path := filepath.Join(dir, lockFileName)
	return &DirLock{lock: flock.New(path), path: path}, nil
}

// Lock acquires the lock, waiting if another process holds it.
func (l *DirLock) Lock(logger *Logger) error {
	locked, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock: acquire %s: %w", l.path, err)
	}
	if !locked {
		logger.Warn("[lock] Another run is writing to %s, waiting for it to finish...", filepath.Dir(l.path))
		if err := l.lock.Lock(); err != nil {
			return fmt.Errorf("lock: acquire %s after waiting: %w", l.path, err)
		}
	}
	return nil
}

// Unlock releases the lock.
func (l *DirLock) Unlock() error {
	if err := l.lock.Unlock(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("lock: release %s: %w", l.path, err)
	}
	return nil
}
