// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package filelock provides non-blocking advisory file locks.
package filelock

import (
	"errors"
	"os"
)

// ErrAlreadyLocked indicates the lock is currently held by another process.
var ErrAlreadyLocked = errors.New("already locked")

// Lock represents a held file lock.
type Lock interface{ Release() error }

type fileLock struct {
	file *os.File
	path string
}

// Acquire obtains a non-blocking exclusive lock on the file at path, creating
// it if needed. The file is removed when the lock is released.
func Acquire(path string) (Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		if closeErr := f.Close(); closeErr != nil {
			return nil, errors.Join(err, closeErr)
		}
		if isWouldBlock(err) {
			return nil, ErrAlreadyLocked
		}
		return nil, err
	}
	return &fileLock{file: f, path: path}, nil
}

// IsLocked reports whether path is currently locked by another process.
func IsLocked(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return false
	}
	defer f.Close()

	err = lock(f)
	if err == nil {
		_ = unlock(f)
		return false
	}
	return isWouldBlock(err)
}

func (l *fileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := errors.Join(unlock(l.file), l.file.Close())
	if removeErr := os.Remove(l.path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		err = errors.Join(err, removeErr)
	}
	l.file = nil
	return err
}
