package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirLockCreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "2024")
	l, err := NewDirLock(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Lock(NewDiscardLogger()); err != nil {
		t.Fatal(err)
	}
	defer l.Unlock()

	if _, err := os.Stat(filepath.Join(dir, lockFileName)); err != nil {
		t.Errorf("lock file: %v", err)
	}
}

func TestDirLockWaitsForHolder(t *testing.T) {
	dir := t.TempDir()
	first, err := NewDirLock(dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewDirLock(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Lock(NewDiscardLogger()); err != nil {
		t.Fatal(err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := second.Lock(NewDiscardLogger()); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(100 * time.Millisecond):
	}

	if err := first.Unlock(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock not acquired after release")
	}
	second.Unlock()
}
